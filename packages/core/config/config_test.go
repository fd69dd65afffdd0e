package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.GetNoColor())
	assert.True(t, cfg.IsDefault())
	assert.NoError(t, cfg.Validate())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `maxDepth: 10
logLevel: debug
noColor: true
templates:
  login: "curl -X %request.method% %request.url%"
record:
  port: 9090
  redact: [Authorization]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitcmd.yaml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, ".env", cfg.EnvFile, "unset keys keep defaults")
	assert.Equal(t, 9090, cfg.Record.Port)
	assert.Equal(t, []string{"Authorization"}, cfg.Record.Redact)

	tmpl, ok := cfg.Template("login")
	require.True(t, ok)
	assert.Equal(t, "curl -X %request.method% %request.url%", tmpl)
	assert.False(t, cfg.IsDefault())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hitcmd.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"historyDB":"h.db","logFormat":"json"}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "h.db", cfg.HistoryDB)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitcmd.json"), []byte(`{"logLevel":"error"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitcmd.yaml"), []byte("logLevel: info\n"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", "a.json", `{"maxDepth":`},
		{"malformed yaml", "b.yaml", "maxDepth: [1"},
		{"negative depth", "c.json", `{"maxDepth":-1}`},
		{"bad log format", "d.yaml", "logFormat: xml\n"},
		{"bad port", "e.json", `{"record":{"port":70000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		"MAX_DEPTH":  "5",
		"HISTORY_DB": "/tmp/x.db",
		"NO_COLOR":   "true",
		"UNRELATED":  "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, "/tmp/x.db", cfg.HistoryDB)
	assert.True(t, cfg.GetNoColor())

	assert.ErrorIs(t, DefaultConfig().ApplyEnv(map[string]string{"MAX_DEPTH": "deep"}), ErrInvalidConfig)
	assert.ErrorIs(t, DefaultConfig().ApplyEnv(map[string]string{"NO_COLOR": "maybe"}), ErrInvalidConfig)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Templates = map[string]string{"a": "1", "b": "2"}

	merged := base.Merge(&Config{
		LogLevel:  "debug",
		NoColor:   BoolPtr(true),
		Templates: map[string]string{"b": "3"},
		Record:    RecordConfig{Exclude: []string{"/health"}},
	})

	assert.Equal(t, "debug", merged.LogLevel)
	assert.Equal(t, ".env", merged.EnvFile)
	assert.True(t, merged.GetNoColor())
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, merged.Templates)
	assert.Equal(t, []string{"/health"}, merged.Record.Exclude)
	assert.Equal(t, 8080, merged.Record.Port)

	assert.Equal(t, "2", base.Templates["b"], "merge must not modify the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Templates = map[string]string{"t": "echo %request.url%"}

	for _, name := range []string{".hitcmd.yaml", ".hitcmd.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.Templates, loaded.Templates)
			assert.Equal(t, cfg.MaxDepth, loaded.MaxDepth)
		})
	}
}
