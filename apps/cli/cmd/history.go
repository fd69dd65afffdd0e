package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded exchanges stored in the history database",
	Long: `Inspect the exchanges saved by 'hitcmd record --save'.

Examples:
  hitcmd history list --limit 10
  hitcmd history show 12 13
  hitcmd history clear`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded exchanges, newest first",
	Args:  cobra.NoArgs,
	RunE:  historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show recorded exchanges in full",
	Args:  cobra.MinimumNArgs(1),
	RunE:  historyShowCommand,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded exchange",
	Args:  cobra.NoArgs,
	RunE:  historyClearCommand,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBFlag, "db", "", "History database (default: historyDB from config)")
	historyListCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of entries, 0 for all")
	addOutputFlags(historyListCmd)
	addOutputFlags(historyShowCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd, false)
	if err != nil {
		return err
	}
	s, err := openStore(historyDBFlag)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return withCode(ExitInputError, err)
	}
	formatter.FormatHistory(entries)
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	var ids []int64
	for _, arg := range args {
		parsed, err := parseIDs(arg)
		if err != nil {
			return withCode(ExitUsageError, err)
		}
		ids = append(ids, parsed...)
	}
	if len(ids) == 0 {
		return withCode(ExitUsageError, errors.New("no history ids given"))
	}

	formatter, err := newFormatter(cmd, false)
	if err != nil {
		return err
	}
	s, err := openStore(historyDBFlag)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.Get(cmd.Context(), ids...)
	if err != nil {
		return withCode(ExitInputError, err)
	}
	formatter.FormatRecordings(recs)
	return nil
}

func historyClearCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore(historyDBFlag)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Clear(cmd.Context())
	if err != nil {
		return withCode(ExitInputError, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d recordings from %s\n", n, s.Path())
	return nil
}
