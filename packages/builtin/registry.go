package builtin

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// Func is a function handler. args are already evaluated; ctx is the
// context of the current render.
type Func func(args []value.Value, ctx *exchange.Context) (value.Value, error)

// Function describes a registered handler.
type Function struct {
	Name        string
	Usage       string
	Description string
	Fn          Func
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFunction = errors.New("invalid function")
)

// LookupFunc resolves an environment variable.
type LookupFunc func(name string) (string, bool)

// Registry maps lower-cased function names to handlers. It is safe for
// concurrent lookups; registration is expected at start-up.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function

	tempDir   string
	lookupEnv LookupFunc
	defaults  bool

	tempMu    sync.Mutex
	tempFiles []string
}

type Option func(*Registry)

// WithTempDir sets the directory tempfile() writes to.
func WithTempDir(dir string) Option {
	return func(r *Registry) {
		r.tempDir = dir
	}
}

// WithEnv replaces the variable lookup used by env().
func WithEnv(lookup LookupFunc) Option {
	return func(r *Registry) {
		if lookup != nil {
			r.lookupEnv = lookup
		}
	}
}

// WithoutDefaults creates an empty registry.
func WithoutDefaults() Option {
	return func(r *Registry) {
		r.defaults = false
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		funcs:     make(map[string]Function),
		lookupEnv: os.LookupEnv,
		defaults:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.defaults {
		r.registerDefaults()
	}
	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(fn Function) error {
	name := strings.ToLower(strings.TrimSpace(fn.Name))
	if name == "" || fn.Fn == nil {
		return fmt.Errorf("%w: name and handler are required", ErrInvalidFunction)
	}
	fn.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return nil
}

// Unregister removes a function and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.funcs[name]
	delete(r.funcs, name)
	return ok
}

// Lookup finds a function by name, ignoring case.
func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

// Functions returns every registered function sorted by name.
func (r *Registry) Functions() []Function {
	r.mu.RLock()
	out := make([]Function, 0, len(r.funcs))
	for _, fn := range r.funcs {
		out = append(out, fn)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Cleanup removes the files created by tempfile().
func (r *Registry) Cleanup() error {
	r.tempMu.Lock()
	files := r.tempFiles
	r.tempFiles = nil
	r.tempMu.Unlock()

	var errs []error
	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) trackTempFile(path string) {
	r.tempMu.Lock()
	defer r.tempMu.Unlock()
	r.tempFiles = append(r.tempFiles, path)
}

func argError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// expectArgs checks the argument count. max < 0 means unbounded.
func expectArgs(args []value.Value, min, max int) error {
	n := len(args)
	switch {
	case n < min && min == max:
		return argError("expected %d argument(s), got %d", min, n)
	case n < min:
		return argError("expected at least %d argument(s), got %d", min, n)
	case max >= 0 && n > max:
		return argError("expected at most %d argument(s), got %d", max, n)
	}
	return nil
}

func stringArg(args []value.Value, i int) string {
	if i >= len(args) {
		return ""
	}
	return value.Format(args[i])
}

func stringArgOr(args []value.Value, i int, def string) string {
	if i >= len(args) || args[i] == nil {
		return def
	}
	return value.Format(args[i])
}

func intArg(args []value.Value, i int, def int64) (int64, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	n, ok := value.ToInt(args[i])
	if !ok {
		return 0, argError("argument %d must be an integer, got %q", i+1, value.Format(args[i]))
	}
	return n, nil
}
