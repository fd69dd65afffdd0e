package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{"simple", "API_KEY=secret123", map[string]string{"API_KEY": "secret123"}},
		{"multiple keys", "KEY1=value1\nKEY2=value2", map[string]string{"KEY1": "value1", "KEY2": "value2"}},
		{"double quoted", `API_KEY="secret with spaces"`, map[string]string{"API_KEY": "secret with spaces"}},
		{"double quoted escapes", `MSG="line one\nline \"two\" \\n"`, map[string]string{"MSG": "line one\nline \"two\" \\n"}},
		{"single quoted is literal", `TPL='a\nb # c'`, map[string]string{"TPL": `a\nb # c`}},
		{"comments and blanks", "# comment\n\nAPI_KEY=secret\n   # indented", map[string]string{"API_KEY": "secret"}},
		{"whitespace trimmed", "  API_KEY  =  secret  ", map[string]string{"API_KEY": "secret"}},
		{"value with equals sign", "DSN=postgres://u:p@host/db?ssl=true", map[string]string{"DSN": "postgres://u:p@host/db?ssl=true"}},
		{"export prefix", "export API_TOKEN=abc\nexport  BASE_URL=https://api", map[string]string{"API_TOKEN": "abc", "BASE_URL": "https://api"}},
		{"inline comment on bare value", "API_KEY=secret # rotate monthly", map[string]string{"API_KEY": "secret"}},
		{"hash without space is kept", "COLOR=#ff0000\nURL=https://x/#frag", map[string]string{"COLOR": "#ff0000", "URL": "https://x/#frag"}},
		{"later assignment wins", "A=1\nA=2", map[string]string{"A": "2"}},
		{"lines without equals skipped", "garbage\n=novalue\nOK=1", map[string]string{"OK": "1"}},
		{"empty value", "EMPTY=", map[string]string{"EMPTY": ""}},
		{"empty input", "", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDotEnv(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("HITCMD_TEST_DOTENV_PROCESS", "process")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("export TOKEN=\"abc\"\nUSER=neo # admin\n"), 0o644))

	vars, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TOKEN", "USER"}, vars.FileNames())

	v, ok := vars.Lookup("USER")
	assert.True(t, ok)
	assert.Equal(t, "neo", v)

	v, ok = vars.Lookup("HITCMD_TEST_DOTENV_PROCESS")
	assert.True(t, ok)
	assert.Equal(t, "process", v)
}

func TestLoadDotEnvFileNotFound(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
