package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

// JSONRender represents a rendered template
type JSONRender struct {
	Output       string            `json:"output"`
	Placeholders []JSONPlaceholder `json:"placeholders"`
	Errors       int               `json:"errors"`
}

// JSONPlaceholder represents one evaluated placeholder
type JSONPlaceholder struct {
	Expr  string `json:"expr"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value any    `json:"value"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type JSONPlaceholders struct {
	Placeholders []string    `json:"placeholders"`
	Issues       []JSONIssue `json:"issues"`
}

type JSONIssue struct {
	Expr  string `json:"expr"`
	Start int    `json:"start"`
	Error string `json:"error"`
}

type JSONFunction struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
}

type JSONHistoryEntry struct {
	ID         int64  `json:"id"`
	CreatedAt  string `json:"createdAt"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"durationMs"`
}

type JSONError struct {
	Error string `json:"error"`
}

// JSONFormatter writes one indented JSON document per call.
type JSONFormatter struct {
	writer io.Writer
	err    error
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// Err returns the first encoding error, if any.
func (f *JSONFormatter) Err() error {
	return f.err
}

func (f *JSONFormatter) encode(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil && f.err == nil {
		f.err = err
	}
}

func (f *JSONFormatter) FormatRender(result *render.Result) {
	out := JSONRender{
		Output:       result.Output,
		Placeholders: make([]JSONPlaceholder, len(result.Placeholders)),
		Errors:       len(result.Errors()),
	}
	for i, p := range result.Placeholders {
		jp := JSONPlaceholder{
			Expr:  p.Expr,
			Start: p.Start,
			End:   p.End,
			Value: value.ToAny(p.Value),
			Text:  p.Text,
		}
		if p.Err != nil {
			jp.Error = p.Err.Error()
		}
		out.Placeholders[i] = jp
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatPlaceholders(exprs []string, issues []render.Issue) {
	out := JSONPlaceholders{
		Placeholders: exprs,
		Issues:       make([]JSONIssue, len(issues)),
	}
	if out.Placeholders == nil {
		out.Placeholders = []string{}
	}
	for i, is := range issues {
		out.Issues[i] = JSONIssue{Expr: is.Expr, Start: is.Start, Error: is.Err.Error()}
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatFunctions(fns []builtin.Function) {
	out := make([]JSONFunction, len(fns))
	for i, fn := range fns {
		out[i] = JSONFunction{Name: fn.Name, Usage: fn.Usage, Description: fn.Description}
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatHistory(entries []store.Entry) {
	out := make([]JSONHistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = JSONHistoryEntry{
			ID:         e.ID,
			CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Method:     e.Method,
			URL:        e.URL,
			Status:     e.Status,
			DurationMs: e.DurationMs,
		}
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatRecordings(recs []capture.Recording) {
	if recs == nil {
		recs = []capture.Recording{}
	}
	f.encode(recs)
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(JSONError{Error: err.Error()})
}
