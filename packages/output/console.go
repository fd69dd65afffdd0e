package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v value.Value, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case value.List:
		return fmt.Sprintf("[list with %d items]", len(val))
	case value.Map:
		return fmt.Sprintf("{map with %d keys}", len(val))
	case value.String:
		return truncate(fmt.Sprintf("%q", string(val)), maxLen)
	}
	return truncate(v.String(), maxLen)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose explains every placeholder after the rendered command.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatRender prints the rendered command uncoloured so it can be piped.
func (f *ConsoleFormatter) FormatRender(result *render.Result) {
	fmt.Fprintln(f.writer, result.Output)
	if !f.verbose {
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Placeholders:"))
	if len(result.Placeholders) == 0 {
		fmt.Fprintf(f.writer, "  (none)\n")
		return
	}
	for _, p := range result.Placeholders {
		if p.Err != nil {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), cyan("%"+p.Expr+"%"), red(p.Err.Error()))
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s → %s\n", green("✓"), cyan("%"+p.Expr+"%"), formatValue(p.Value, 100))
	}

	if errs := result.Errors(); len(errs) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", red(fmt.Sprintf("%d of %d placeholders failed", len(errs), len(result.Placeholders))))
	}
}

func (f *ConsoleFormatter) FormatPlaceholders(exprs []string, issues []render.Issue) {
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, e := range exprs {
		fmt.Fprintf(f.writer, "%s\n", e)
	}
	if len(issues) == 0 {
		if f.verbose {
			fmt.Fprintf(f.writer, "%s\n", green("all placeholders are valid"))
		}
		return
	}
	fmt.Fprintln(f.writer)
	for _, is := range issues {
		fmt.Fprintf(f.writer, "%s %%%s%% at offset %d: %v\n", red("✗"), is.Expr, is.Start, is.Err)
	}
}

func (f *ConsoleFormatter) FormatFunctions(fns []builtin.Function) {
	bold := color.New(color.Bold).SprintFunc()
	width := 0
	for _, fn := range fns {
		width = max(width, len(usage(fn)))
	}
	for _, fn := range fns {
		u := usage(fn)
		fmt.Fprintf(f.writer, "  %s%s  %s\n", bold(u), strings.Repeat(" ", width-len(u)), fn.Description)
	}
}

func usage(fn builtin.Function) string {
	if fn.Usage != "" {
		return fn.Usage
	}
	return fn.Name + "()"
}

func (f *ConsoleFormatter) FormatHistory(entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(f.writer, "No recordings\n")
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, e := range entries {
		status := "---"
		if e.Status > 0 {
			status = statusColor(e.Status)(fmt.Sprintf("%d", e.Status))
		}
		fmt.Fprintf(f.writer, "%5d  %s  %-6s %s %s %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Method, status, e.URL,
			cyan(fmt.Sprintf("(%dms)", e.DurationMs)))
	}
}

func (f *ConsoleFormatter) FormatRecordings(recs []capture.Recording) {
	bold := color.New(color.Bold).SprintFunc()

	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(f.writer)
		}
		fmt.Fprintf(f.writer, "%s\n", bold(fmt.Sprintf("#%d %s %s", rec.ID, rec.Request.Method, rec.Request.URL)))
		for _, h := range rec.Request.Headers {
			fmt.Fprintf(f.writer, "  %s: %s\n", h.Name, h.Value)
		}
		if rec.Request.Body != "" {
			fmt.Fprintf(f.writer, "\n  %s\n", truncate(rec.Request.Body, 2000))
		}

		if rec.Response == nil {
			fmt.Fprintf(f.writer, "  (no response)\n")
			continue
		}
		fmt.Fprintf(f.writer, "\n  %s %s\n", statusColor(rec.Response.StatusCode)(fmt.Sprintf("%d", rec.Response.StatusCode)), rec.Response.Status)
		for _, h := range rec.Response.Headers {
			fmt.Fprintf(f.writer, "  %s: %s\n", h.Name, h.Value)
		}
		if rec.Response.Body != "" {
			fmt.Fprintf(f.writer, "\n  %s\n", truncate(rec.Response.Body, 2000))
		}
	}
}

func statusColor(code int) func(a ...any) string {
	switch {
	case code >= 500:
		return color.New(color.FgRed).SprintFunc()
	case code >= 400:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgGreen).SprintFunc()
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitcmd"), version)
}
