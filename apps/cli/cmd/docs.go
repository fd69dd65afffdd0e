package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
)

//go:embed docs.txt
var docsTxt string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print the template language reference",
	Long:  "Print the reference for %expression% placeholders: context fields, chains and functions.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), docsTxt)
	},
}
