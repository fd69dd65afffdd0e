package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

// resetFlags restores every flag to its default so that executions in the
// same test binary do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with colors off and returns the exit code, stdout
// and stderr.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	code := execute(append(args, "--no-color"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeCapture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, capture.Write(path, exampleCapture()))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitConfigError, exitCode(withCode(ExitConfigError, errors.New("x"))))
	assert.Equal(t, ExitRenderError, exitCode(&ExitError{Code: ExitRenderError}))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("unknown flag")))
	assert.NoError(t, withCode(ExitInputError, nil))

	wrapped := withCode(ExitInputError, context.Canceled)
	assert.ErrorIs(t, wrapped, context.Canceled)
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}

func TestParseSetFlag(t *testing.T) {
	got, err := parseSetFlag("TOKEN=abc, USER=neo,EMPTY=")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TOKEN": "abc", "USER": "neo", "EMPTY": ""}, got)

	_, err = parseSetFlag("novalue")
	assert.Error(t, err)
	_, err = parseSetFlag("=x")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("3, 1,")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)

	_, err = parseIDs("0")
	assert.Error(t, err)
	_, err = parseIDs("abc")
	assert.Error(t, err)
}

func TestRender_SingleExchange(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeCapture(t)

	code, stdout, _ := run(t, "render", "%request.method% %request.url% %response.body.json.token%", "--capture", path, "--select", "0")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "POST https://api.example.com/login abc123\n", stdout)
}

func TestRender_ListContext(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeCapture(t)

	code, stdout, _ := run(t, "render", "%httpList.size% %httpList.latency.max%", "-c", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "2 42\n", stdout)

	code, stdout, _ = run(t, "render", "%httpList.urls%", "-c", path, "-s", "1,0")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "https://api.example.com/me\nhttps://api.example.com/login\n", stdout)
}

func TestRender_ErrorMarker(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeCapture(t)

	code, stdout, _ := run(t, "render", "x=%nosuch(1)% m=%request.method%", "-c", path, "-s", "0")
	assert.Equal(t, ExitRenderError, code)
	assert.Equal(t, "x=[DSL Error: unknown function: nosuch] m=POST\n", stdout)
}

func TestRender_JSONAndExplain(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeCapture(t)

	code, stdout, _ := run(t, "render", "%request.method%", "-c", path, "-s", "0", "--json")
	require.Equal(t, ExitSuccess, code)
	var out struct {
		Output       string `json:"output"`
		Placeholders []struct {
			Expr  string `json:"expr"`
			Value any    `json:"value"`
		} `json:"placeholders"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "POST", out.Output)
	require.Len(t, out.Placeholders, 1)
	assert.Equal(t, "request.method", out.Placeholders[0].Expr)

	code, stdout, _ = run(t, "render", "%request.method%", "-c", path, "-s", "0", "--explain")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Placeholders:")
	assert.Contains(t, stdout, `%request.method% → "POST"`)
}

func TestRender_TemplateSources(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeCapture(t)

	tmplFile := filepath.Join(dir, "cmd.tmpl")
	require.NoError(t, os.WriteFile(tmplFile, []byte("GET %request.path%\n"), 0644))
	code, stdout, _ := run(t, "render", "-f", tmplFile, "-c", path, "-s", "1")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "GET /me\n", stdout)

	resetFlags(rootCmd)
	defer rootCmd.SetIn(nil)
	rootCmd.SetIn(strings.NewReader("%upper(request.method)%\n"))
	var out bytes.Buffer
	code = execute([]string{"render", "-", "-c", path, "-s", "1", "--no-color"}, &out, &bytes.Buffer{})
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "GET\n", out.String())

	code, _, stderr := run(t, "render", "x", "-f", tmplFile, "-c", path)
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "exactly one template")

	code, _, _ = run(t, "render", "-n", "missing", "-c", path)
	assert.Equal(t, ExitConfigError, code)
}

func TestRender_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeCapture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN=from-file\nUSER=neo\n"), 0644))

	code, stdout, _ := run(t, "render", `%env("TOKEN")% %env("USER")%`, "-c", path, "-s", "0", "--set", "TOKEN=from-flag")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "from-flag neo\n", stdout)
}

func TestRender_InputErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeCapture(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing capture", []string{"render", "x", "-c", "nope.json"}, ExitInputError},
		{"index out of range", []string{"render", "x", "-c", path, "-s", "9"}, ExitInputError},
		{"huge range", []string{"render", "x", "-c", path, "-s", "0-2000000000"}, ExitInputError},
		{"bad selection", []string{"render", "x", "-c", path, "-s", "a-b"}, ExitUsageError},
		{"no source", []string{"render", "x"}, ExitUsageError},
		{"capture and id", []string{"render", "x", "-c", path, "--id", "1"}, ExitUsageError},
		{"unknown flag", []string{"render", "x", "--bogus"}, ExitUsageError},
		{"missing config", []string{"render", "x", "-c", path, "--config", "missing.yaml"}, ExitConfigError},
		{"watch without files", []string{"render", "x", "--id", "1", "--watch"}, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := run(t, tt.args...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, _ := run(t, "placeholders", "curl %request.url% %sha256(request.body)%")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "request.url\nsha256(request.body)\n")

	code, stdout, _ = run(t, "placeholders", "%nope(x)% %upper(%", "--json")
	assert.Equal(t, ExitParseError, code)
	var out struct {
		Placeholders []string `json:"placeholders"`
		Issues       []struct {
			Expr string `json:"expr"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, []string{"nope(x)", "upper("}, out.Placeholders)
	assert.Len(t, out.Issues, 2)
}

func TestFunctions(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, _ := run(t, "functions", "--json")
	require.Equal(t, ExitSuccess, code)

	var fns []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &fns))
	names := make([]string, len(fns))
	for i, f := range fns {
		names[i] = f.Name
	}
	assert.Contains(t, names, "md5")
	assert.Contains(t, names, "xpath")
	assert.IsIncreasing(t, names)

	code, stdout, _ = run(t, "functions")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "base64(value)")
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "history.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(context.Background(), exampleCapture()))
	require.NoError(t, s.Close())

	code, stdout, _ := run(t, "history", "list", "--db", dbPath, "--json")
	require.Equal(t, ExitSuccess, code)
	var entries []struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "https://api.example.com/me", entries[0].URL)

	code, stdout, _ = run(t, "history", "show", "1", "--db", dbPath)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "#1 POST https://api.example.com/login")

	code, stdout, _ = run(t, "render", "%httpList.methods%", "--db", dbPath, "--id", "2,1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "GET\nPOST\n", stdout)

	code, _, _ = run(t, "history", "show", "99", "--db", dbPath)
	assert.Equal(t, ExitInputError, code)

	code, stdout, _ = run(t, "history", "clear", "--db", dbPath)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Removed 2 recordings")
}

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, _ := run(t, "init")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, ".hitcmd.yaml")

	code, stdout, _ = run(t, "render", "-n", "curl", "-c", "example.capture.yaml", "-s", "0")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t,
		`curl -X POST 'https://api.example.com/login' -H 'Content-Type: application/json' -d '{"user":"neo","password":"red-pill"}'`+"\n",
		stdout)

	code, stdout, _ = run(t, "render", "-n", "token", "-c", "example.capture.yaml", "-s", "0")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "export TOKEN=abc123\n", stdout)

	code, _, stderr := run(t, "init")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = run(t, "init", "--force")
	assert.Equal(t, ExitSuccess, code)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HITCMD_MAX_DEPTH", "1")
	path := writeCapture(t)

	code, stdout, _ := run(t, "render", "%upper(lower(request.method))%", "-c", path, "-s", "0")
	assert.Equal(t, ExitRenderError, code)
	assert.Contains(t, stdout, "[DSL Error:")

	code, stdout, _ = run(t, "render", "%upper(lower(request.method))%", "-c", path, "-s", "0", "--max-depth", "5")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "POST\n", stdout)

	t.Setenv("HITCMD_MAX_DEPTH", "lots")
	code, _, _ = run(t, "functions")
	assert.Equal(t, ExitConfigError, code)
}

func TestVersionAndDocs(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, _ := run(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "hitcmd version dev")

	code, stdout, _ = run(t, "docs")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "hitcmd template reference")
}
