package render

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/evaluator"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

var placeholderPattern = regexp.MustCompile(`%([^%]+)%`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Placeholder is one %expression% occurrence. Start and End are the byte
// offsets of the whole placeholder, delimiters included.
type Placeholder struct {
	Expr  string
	Start int
	End   int
	Value value.Value
	Text  string
	Err   error
}

// Result is a rendered template together with every evaluated placeholder.
type Result struct {
	Output       string
	Placeholders []Placeholder
}

// Errors returns the placeholders that failed.
func (r *Result) Errors() []Placeholder {
	var out []Placeholder
	for _, p := range r.Placeholders {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Issue is a problem found by Check.
type Issue struct {
	Expr  string
	Start int
	Err   error
}

type Renderer struct {
	eval     *evaluator.Evaluator
	warnFunc WarnFunc
	logger   *slog.Logger
}

type Option func(*Renderer)

// WithWarnFunc sets a function to be called when a placeholder fails.
func WithWarnFunc(fn WarnFunc) Option {
	return func(r *Renderer) {
		r.warnFunc = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(eval *evaluator.Evaluator, opts ...Option) *Renderer {
	r := &Renderer{
		eval:   eval,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

// Render replaces every placeholder in tmpl. A failing placeholder becomes an
// inline error marker and the rest of the template is still rendered.
func (r *Renderer) Render(tmpl string, ctx *exchange.Context) string {
	return r.RenderDetailed(tmpl, ctx).Output
}

// RenderDetailed is Render that also reports each placeholder.
func (r *Renderer) RenderDetailed(tmpl string, ctx *exchange.Context) *Result {
	matches := placeholderPattern.FindAllStringSubmatchIndex(tmpl, -1)
	result := &Result{Placeholders: make([]Placeholder, 0, len(matches))}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		p := Placeholder{Expr: tmpl[m[2]:m[3]], Start: m[0], End: m[1]}

		v, err := r.eval.Evaluate(p.Expr, ctx)
		if err != nil {
			p.Err = err
			p.Text = Marker(err)
			r.warn("placeholder %%%s%% failed: %v", p.Expr, err)
			r.logger.Warn("placeholder failed", "expr", p.Expr, "offset", p.Start, "error", err)
		} else {
			p.Value = v
			p.Text = value.Format(v)
		}

		// Spliced by offset so that $ and \ in values stay literal.
		sb.WriteString(tmpl[last:p.Start])
		sb.WriteString(p.Text)
		last = p.End
		result.Placeholders = append(result.Placeholders, p)
	}
	sb.WriteString(tmpl[last:])

	result.Output = sb.String()
	r.logger.Debug("template rendered", "placeholders", len(matches), "errors", len(result.Errors()))
	return result
}

// Check parses every placeholder and verifies that the functions it calls
// exist. Nothing is evaluated.
func (r *Renderer) Check(tmpl string) []Issue {
	var issues []Issue
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(tmpl, -1) {
		expr := tmpl[m[2]:m[3]]
		if err := r.eval.Validate(expr); err != nil {
			issues = append(issues, Issue{Expr: expr, Start: m[0], Err: err})
		}
	}
	return issues
}

// Marker is the inline text that replaces a failed placeholder.
func Marker(err error) string {
	return "[DSL Error: " + err.Error() + "]"
}

// FindPlaceholders lists the placeholder expressions in tmpl in order,
// without evaluating them.
func FindPlaceholders(tmpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tmpl, -1)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = strings.TrimSpace(m[1])
	}
	return out
}
