package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarsLookup(t *testing.T) {
	t.Setenv("HITCMD_TEST_SHARED", "from-process")
	t.Setenv("HITCMD_TEST_ONLY_PROCESS", "process")

	vars := NewVars(map[string]string{"HITCMD_TEST_SHARED": "from-file"})

	v, ok := vars.Lookup("HITCMD_TEST_SHARED")
	assert.True(t, ok)
	assert.Equal(t, "from-file", v)

	v, ok = vars.Lookup("HITCMD_TEST_ONLY_PROCESS")
	assert.True(t, ok)
	assert.Equal(t, "process", v)

	_, ok = vars.Lookup("HITCMD_TEST_DEFINITELY_MISSING")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	vars, err := Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, vars.FileNames())

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("B=2\nA=1\n"), 0o644))

	vars, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, vars.FileNames())

	vars, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, vars.FileNames())
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("HITCMD_TESTPREFIX_LOG_LEVEL", "debug")

	got := LoadSystemEnv("HITCMD_TESTPREFIX_")
	assert.Equal(t, map[string]string{"LOG_LEVEL": "debug"}, got)
}

func TestMergeVariables(t *testing.T) {
	merged := MergeVariables(
		map[string]string{"a": "1", "b": "1"},
		map[string]string{"b": "2"},
	)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, merged)
}

func TestVarsWith(t *testing.T) {
	t.Setenv("HITCMD_TEST_WITH_PROCESS", "process")
	base := NewVars(map[string]string{"TOKEN": "file", "USER": "neo"})

	vars := base.With(map[string]string{"TOKEN": "flag"})

	v, _ := vars.Lookup("TOKEN")
	assert.Equal(t, "flag", v)
	v, _ = vars.Lookup("USER")
	assert.Equal(t, "neo", v)
	v, _ = vars.Lookup("HITCMD_TEST_WITH_PROCESS")
	assert.Equal(t, "process", v)

	v, _ = base.Lookup("TOKEN")
	assert.Equal(t, "file", v, "base is unchanged")
}
