package builtin

import (
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// env returns a variable, the optional default, or null.
func (r *Registry) env(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	if v, ok := r.lookupEnv(stringArg(args, 0)); ok {
		return value.String(v), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, nil
}

// tempfile writes its content to a new file and returns the path. Lists are
// written one element per line.
func (r *Registry) tempfile(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	suffix := stringArg(args, 1)
	if strings.ContainsAny(suffix, `/\`) {
		return nil, argError("suffix must not contain a path separator")
	}

	f, err := os.CreateTemp(r.tempDir, "hitcmd-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	r.trackTempFile(f.Name())

	content := value.Format(args[0])
	if _, ok := args[0].(value.List); ok && content != "" {
		content += "\n"
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return value.String(f.Name()), nil
}
