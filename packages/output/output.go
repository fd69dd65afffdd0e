package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

// Formatter prints command results.
type Formatter interface {
	FormatRender(result *render.Result)
	FormatPlaceholders(exprs []string, issues []render.Issue)
	FormatFunctions(fns []builtin.Function)
	FormatHistory(entries []store.Entry)
	FormatRecordings(recs []capture.Recording)
	FormatError(err error)
}

// Options shared by every formatter.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// NewFormatter returns the formatter for the named format: "console" (or
// "text") and "json".
func NewFormatter(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "console", "text":
		consoleOpts := []ConsoleOption{WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	case "json":
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	}
	return nil, fmt.Errorf("unknown output format: %s", format)
}
