package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/navigator"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/parser"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// ErrUnknownFunction matches every UnknownFunctionError.
var ErrUnknownFunction = errors.New("unknown function")

// UnknownFunctionError is returned when a call names a function that is not
// registered.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %s", e.Name)
}

func (e *UnknownFunctionError) Is(target error) bool {
	return target == ErrUnknownFunction
}

// FunctionError wraps a failure raised by a function handler.
type FunctionError struct {
	Name string
	Err  error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("%s(): %v", e.Name, e.Err)
}

func (e *FunctionError) Unwrap() error {
	return e.Err
}

// Functions resolves function names. *builtin.Registry implements it.
type Functions interface {
	Lookup(name string) (builtin.Function, bool)
}

// Evaluator evaluates expressions against a context. It holds no per-render
// state and may be shared between goroutines.
type Evaluator struct {
	funcs    Functions
	maxDepth int
	logger   *slog.Logger
}

type Option func(*Evaluator)

// WithMaxDepth limits call nesting while parsing and evaluating.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(funcs Functions, opts ...Option) *Evaluator {
	e := &Evaluator{
		funcs:    funcs,
		maxDepth: parser.DefaultMaxDepth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) MaxDepth() int { return e.maxDepth }

// Parse parses expr with the evaluator's depth limit.
func (e *Evaluator) Parse(expr string) (parser.Node, error) {
	return parser.Parse(strings.TrimSpace(expr), parser.WithMaxDepth(e.maxDepth))
}

// Validate parses expr and checks that every function it calls is
// registered, without evaluating anything.
func (e *Evaluator) Validate(expr string) error {
	node, err := e.Parse(expr)
	if err != nil {
		return err
	}
	for _, c := range parser.Calls(node) {
		if _, ok := e.funcs.Lookup(c.Name); !ok {
			return &UnknownFunctionError{Name: c.Name}
		}
	}
	return nil
}

// Evaluate parses and evaluates one expression.
func (e *Evaluator) Evaluate(expr string, ctx *exchange.Context) (value.Value, error) {
	node, err := e.Parse(expr)
	if err != nil {
		return nil, err
	}
	return e.Eval(node, ctx)
}

// Eval evaluates a parsed expression. Arguments are evaluated left to right
// before the call they belong to.
func (e *Evaluator) Eval(node parser.Node, ctx *exchange.Context) (value.Value, error) {
	return e.eval(node, ctx, 0)
}

func (e *Evaluator) eval(node parser.Node, ctx *exchange.Context, depth int) (value.Value, error) {
	switch n := node.(type) {
	case *parser.Literal:
		return n.Value, nil
	case *parser.ChainPath:
		if ctx == nil {
			return nil, nil
		}
		return navigator.Navigate(ctx, n.Path), nil
	case *parser.Call:
		if depth >= e.maxDepth {
			return nil, fmt.Errorf("%w: limit is %d", parser.ErrExpressionTooDeep, e.maxDepth)
		}
		return e.call(n, ctx, depth)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported expression node %T", node)
}

func (e *Evaluator) call(n *parser.Call, ctx *exchange.Context, depth int) (value.Value, error) {
	fn, ok := e.funcs.Lookup(n.Name)
	if !ok {
		return nil, &UnknownFunctionError{Name: n.Name}
	}

	args := make([]value.Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := e.eval(arg, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	e.logger.Debug("calling function", "function", fn.Name, "args", len(args))
	return invoke(fn, args, ctx)
}

// invoke runs a handler, turning both returned errors and panics into a
// FunctionError.
func invoke(fn builtin.Function, args []value.Value, ctx *exchange.Context) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &FunctionError{Name: fn.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = fn.Fn(args, ctx)
	if err != nil {
		return nil, &FunctionError{Name: fn.Name, Err: err}
	}
	return result, nil
}
