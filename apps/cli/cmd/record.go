package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/proxy"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

var (
	recordPortFlag    int
	recordTargetFlag  string
	recordOutputFlag  string
	recordExcludeFlag string
	recordRedactFlag  string
	recordDedupeFlag  bool
	recordRateFlag    float64
	recordBurstFlag   int
	recordSaveFlag    bool
	recordDBFlag      string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start a recording proxy to capture HTTP exchanges",
	Long: `Start an HTTP reverse proxy that forwards every request to the target and
records the exchange. Point your client at the proxy, then stop it with
Ctrl+C.

Recordings are written to --output as a capture file (.har, .yaml or .json),
saved to the history database with --save, or printed as JSON.

Examples:
  hitcmd record --target https://api.example.com -o session.har
  hitcmd record -t https://api.example.com --save --exclude "/health,/metrics"
  hitcmd record -t https://api.example.com --redact Authorization,Cookie --rate 5`,
	Args: cobra.NoArgs,
	RunE: recordCommand,
}

func init() {
	recordCmd.Flags().IntVarP(&recordPortFlag, "port", "p", 0, "Port to run the proxy on (default: record.port from config)")
	recordCmd.Flags().StringVarP(&recordTargetFlag, "target", "t", "", "Target URL to proxy to (required)")
	recordCmd.Flags().StringVarP(&recordOutputFlag, "output", "o", "", "Capture file to write on exit")
	recordCmd.Flags().StringVar(&recordExcludeFlag, "exclude", "", "Path prefixes to exclude from recording (comma-separated)")
	recordCmd.Flags().StringVar(&recordRedactFlag, "redact", "", "Headers to mask in recordings (comma-separated)")
	recordCmd.Flags().BoolVar(&recordDedupeFlag, "dedupe", false, "Skip duplicate requests (same method+path)")
	recordCmd.Flags().Float64Var(&recordRateFlag, "rate", 0, "Maximum recordings per second, 0 for unlimited")
	recordCmd.Flags().IntVar(&recordBurstFlag, "burst", 0, "Recordings allowed in a burst above --rate")
	recordCmd.Flags().BoolVar(&recordSaveFlag, "save", false, "Save every recording to the history database")
	recordCmd.Flags().StringVar(&recordDBFlag, "db", "", "History database (default: historyDB from config)")

	_ = recordCmd.MarkFlagRequired("target")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func recordCommand(cmd *cobra.Command, args []string) error {
	if recordTargetFlag == "" {
		return withCode(ExitUsageError, errors.New("target URL is required (--target or -t)"))
	}

	rc := state.cfg.Record
	if cmd.Flags().Changed("port") {
		rc.Port = recordPortFlag
	}
	if recordExcludeFlag != "" {
		rc.Exclude = splitList(recordExcludeFlag)
	}
	if recordRedactFlag != "" {
		rc.Redact = splitList(recordRedactFlag)
	}
	if cmd.Flags().Changed("rate") {
		rc.RateLimit = recordRateFlag
	}
	if cmd.Flags().Changed("burst") {
		rc.Burst = recordBurstFlag
	}

	opts := []proxy.Option{
		proxy.WithPort(rc.Port),
		proxy.WithTargetURL(recordTargetFlag),
		proxy.WithLogger(state.logger),
		proxy.WithExclude(rc.Exclude),
		proxy.WithRedact(rc.Redact),
		proxy.WithDeduplicate(recordDedupeFlag),
		proxy.WithRateLimit(rc.RateLimit, rc.Burst),
	}

	var history *store.Store
	if recordSaveFlag {
		s, err := openStore(recordDBFlag)
		if err != nil {
			return err
		}
		defer s.Close()
		history = s
		opts = append(opts, proxy.WithOnRecord(func(rec capture.Recording) error {
			_, err := history.Save(context.Background(), &rec)
			return err
		}))
	}

	recorder := proxy.NewRecorder(opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Recording proxy on http://localhost:%d -> %s (press Ctrl+C to stop)\n", rc.Port, recordTargetFlag)
	if err := recorder.Start(ctx); err != nil {
		return withCode(ExitInputError, err)
	}

	recordings := recorder.Recordings()
	fmt.Fprintf(cmd.ErrOrStderr(), "\nRecorded %d exchanges\n", len(recordings))
	if history != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", history.Path())
	}
	if len(recordings) == 0 {
		return nil
	}

	if recordOutputFlag != "" {
		if err := recorder.WriteCapture(recordOutputFlag); err != nil {
			return withCode(ExitInputError, fmt.Errorf("failed to write capture: %w", err))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", recordOutputFlag)
		return nil
	}
	if history != nil {
		return nil
	}

	data, err := capture.Marshal(recordings, capture.FormatJSON)
	if err != nil {
		return withCode(ExitInputError, fmt.Errorf("failed to export to JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
