package cmd

import (
	"github.com/spf13/cobra"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the built-in template functions",
	Long: `List every function that can be called from a placeholder.

Function names are case-insensitive: %UPPER(x)% and %upper(x)% are the same.

Examples:
  hitcmd functions
  hitcmd functions --json`,
	Args: cobra.NoArgs,
	RunE: functionsCommand,
}

func init() {
	addOutputFlags(functionsCmd)
}

func functionsCommand(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd, false)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	formatter.FormatFunctions(reg.Functions())
	return nil
}
