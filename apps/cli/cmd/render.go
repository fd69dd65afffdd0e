package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/output"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	renderCaptureFlag string
	renderSelectFlag  string
	renderDBFlag      string
	renderIDFlag      string
	renderExplainFlag bool
	renderWatchFlag   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [template|-]",
	Short: "Render a command template against captured exchanges",
	Long: `Render a command template against one or more captured exchanges.

With one selected exchange the template sees request, response and their
fields. With several, it sees httpList, which holds every pair plus
aggregates such as httpList.urls and httpList.latency.

Failing placeholders are replaced with [DSL Error: ...] and the command
exits with status 1.

Examples:
  hitcmd render "curl -X %request.method% '%request.url%'" --capture session.har --select 3
  hitcmd render -f curl.tmpl -c capture.yaml -s 0,2 --explain
  hitcmd render -n replay --id 12
  echo "%httpList.urls%" | hitcmd render - -c session.har --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: renderCommand,
}

func init() {
	addTemplateFlags(renderCmd)
	addOutputFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderCaptureFlag, "capture", "c", "", "Capture file to read exchanges from (.har, .yaml, .json)")
	renderCmd.Flags().StringVarP(&renderSelectFlag, "select", "s", "", "Exchanges to select from the capture, e.g. 0,2,4-6 (default: all)")
	renderCmd.Flags().StringVar(&renderDBFlag, "db", "", "History database (default: historyDB from config)")
	renderCmd.Flags().StringVar(&renderIDFlag, "id", "", "History recording ids to select, e.g. 3,5")
	renderCmd.Flags().StringVar(&setFlag, "set", "", "Variables for env(), e.g. TOKEN=abc,USER=neo")
	renderCmd.Flags().BoolVarP(&renderExplainFlag, "explain", "x", false, "Show the value of every placeholder")
	renderCmd.Flags().BoolVarP(&renderWatchFlag, "watch", "w", false, "Re-render when the template or capture file changes")
}

func renderCommand(cmd *cobra.Command, args []string) error {
	if !renderWatchFlag {
		_, err := renderOnce(cmd, args)
		return err
	}
	return watchRender(cmd, args)
}

// renderOnce renders the template and returns the registry so the caller
// can remove temp files it created.
func renderOnce(cmd *cobra.Command, args []string) (*builtin.Registry, error) {
	tmpl, err := loadTemplate(cmd, args)
	if err != nil {
		return nil, err
	}

	recs, err := loadRecordings(cmd.Context(), renderCaptureFlag, renderSelectFlag, renderDBFlag, renderIDFlag)
	if err != nil {
		return nil, err
	}
	ctx, err := buildContext(recs)
	if err != nil {
		return nil, err
	}

	formatter, err := newFormatter(cmd, renderExplainFlag)
	if err != nil {
		return nil, err
	}
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}

	result := newRenderer(reg).RenderDetailed(tmpl, ctx)
	formatter.FormatRender(result)

	state.logger.Debug("rendered", "exchanges", len(recs), "placeholders", len(result.Placeholders))
	if result.HasErrors() {
		return reg, &ExitError{Code: ExitRenderError}
	}
	return reg, nil
}

func watchRender(cmd *cobra.Command, args []string) error {
	var paths []string
	if templateFileFlag != "" {
		paths = append(paths, templateFileFlag)
	}
	if renderCaptureFlag != "" {
		paths = append(paths, renderCaptureFlag)
	}
	if len(paths) == 0 {
		return withCode(ExitUsageError, errors.New("--watch needs a template --file or a --capture file"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return withCode(ExitInputError, fmt.Errorf("failed to create file watcher: %w", err))
	}
	defer watcher.Close()

	// Directories are watched so that editors which replace files on save
	// are still noticed.
	watched := make(map[string]bool)
	watchedDirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return withCode(ExitInputError, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return withCode(ExitInputError, fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watchedDirs[dir] = true
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := output.NewConsoleFormatter(output.WithWriter(cmd.ErrOrStderr()), output.WithNoColor(state.cfg.GetNoColor()))

	var mu sync.Mutex
	var reg *builtin.Registry
	rerender := func() {
		mu.Lock()
		defer mu.Unlock()
		if reg != nil {
			if err := reg.Cleanup(); err != nil {
				state.logger.Warn("failed to remove temp files", "error", err)
			}
		}
		var err error
		reg, err = renderOnce(cmd, args)
		var exitErr *ExitError
		if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
			stderr.FormatError(err)
		}
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if reg != nil {
			_ = reg.Cleanup()
		}
	}()

	rerender()
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\n\n", event.Name)
				rerender()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			stderr.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
