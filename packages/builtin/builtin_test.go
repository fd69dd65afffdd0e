package builtin

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

func call(t *testing.T, r *Registry, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := r.Lookup(name)
	require.True(t, ok, "function %s not registered", name)
	return fn.Fn(args, nil)
}

func s(v string) value.Value { return value.String(v) }

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("SHA256")
	assert.True(t, ok, "lookup ignores case")

	err := r.Register(Function{Name: "Shout", Fn: func(args []value.Value, _ *exchange.Context) (value.Value, error) {
		return value.String(value.Format(args[0]) + "!"), nil
	}})
	require.NoError(t, err)

	fn, ok := r.Lookup("shout")
	require.True(t, ok)
	assert.Equal(t, "shout", fn.Name)

	assert.ErrorIs(t, r.Register(Function{Name: "broken"}), ErrInvalidFunction)
	assert.ErrorIs(t, r.Register(Function{Fn: fn.Fn}), ErrInvalidFunction)

	assert.True(t, r.Unregister("SHOUT"))
	assert.False(t, r.Unregister("shout"))
	_, ok = r.Lookup("shout")
	assert.False(t, ok)

	names := r.Names()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "json")
	assert.Contains(t, names, "tempfile")
}

func TestRegistryWithoutDefaults(t *testing.T) {
	r := NewRegistry(WithoutDefaults())
	assert.Empty(t, r.Functions())
}

func TestEncodingFunctions(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		fn       string
		args     []value.Value
		expected value.Value
	}{
		{"base64", "base64", []value.Value{s("hello")}, s("aGVsbG8=")},
		{"base64decode padded", "base64decode", []value.Value{s("aGVsbG8=")}, s("hello")},
		{"base64decode raw", "base64decode", []value.Value{s("aGVsbG8")}, s("hello")},
		{"urlencode", "urlencode", []value.Value{s("a b&c")}, s("a+b%26c")},
		{"urldecode", "urldecode", []value.Value{s("a+b%26c")}, s("a b&c")},
		{"hex", "hex", []value.Value{s("hi")}, s("6869")},
		{"unhex", "unhex", []value.Value{s("6869")}, s("hi")},
		{"htmlescape", "htmlescape", []value.Value{s("<a href='x'>")}, s("&lt;a href=&#39;x&#39;&gt;")},
		{"md5", "md5", []value.Value{s("hello")}, s("5d41402abc4b2a76b9719d911017c592")},
		{"sha1", "sha1", []value.Value{s("hello")}, s("aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d")},
		{"sha256", "sha256", []value.Value{s("hello")}, s("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")},
		{"hash default", "hash", []value.Value{s("hello")}, s("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")},
		{"hash md5", "hash", []value.Value{s("hello"), s("MD5")}, s("5d41402abc4b2a76b9719d911017c592")},
		{"hash of int", "md5", []value.Value{value.Int(42)}, s("a1d0c6e83f027327d8461063f4ac58a6")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, r, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncodingErrors(t *testing.T) {
	r := NewRegistry()

	_, err := call(t, r, "base64decode", s("%%%"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = call(t, r, "hash", s("x"), s("crc32"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = call(t, r, "base64")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = call(t, r, "unhex", s("zz"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStringFunctions(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		fn       string
		args     []value.Value
		expected value.Value
	}{
		{"upper", "upper", []value.Value{s("abc")}, s("ABC")},
		{"lower", "lower", []value.Value{s("ABC")}, s("abc")},
		{"title", "title", []value.Value{s("hello world")}, s("Hello World")},
		{"trim", "trim", []value.Value{s("  x  ")}, s("x")},
		{"trim cutset", "trim", []value.Value{s("--x--"), s("-")}, s("x")},
		{"replace", "replace", []value.Value{s("a-b-c"), s("-"), s("+")}, s("a+b+c")},
		{"substr", "substr", []value.Value{s("hello"), value.Int(1), value.Int(3)}, s("ell")},
		{"substr negative", "substr", []value.Value{s("hello"), value.Int(-3)}, s("llo")},
		{"substr clamped", "substr", []value.Value{s("hi"), value.Int(1), value.Int(10)}, s("i")},
		{"substr huge length", "substr", []value.Value{s("hello"), value.Int(2), value.Int(math.MaxInt64)}, s("llo")},
		{"substr huge negative start", "substr", []value.Value{s("hello"), value.Int(math.MinInt64), value.Int(2)}, s("he")},
		{"split", "split", []value.Value{s("a,b")}, value.List{s("a"), s("b")}},
		{"join", "join", []value.Value{value.List{s("a"), value.Int(1)}, s("|")}, s("a|1")},
		{"join scalar", "join", []value.Value{s("x")}, s("x")},
		{"concat", "concat", []value.Value{s("a"), value.Int(1), nil, value.Bool(true)}, s("a1true")},
		{"length string", "length", []value.Value{s("héllo")}, value.Int(5)},
		{"length list", "length", []value.Value{value.List{nil, nil}}, value.Int(2)},
		{"length null", "length", []value.Value{nil}, value.Int(0)},
		{"default null", "default", []value.Value{nil, s("fb")}, s("fb")},
		{"default empty", "default", []value.Value{s(""), s("fb")}, s("fb")},
		{"default set", "default", []value.Value{s("v"), s("fb")}, s("v")},
		{"regex group", "regex", []value.Value{s("id=42;"), s(`id=(\d+)`)}, s("42")},
		{"regex whole", "regex", []value.Value{s("id=42;"), s(`id=(\d+)`), value.Int(0)}, s("id=42")},
		{"regex miss", "regex", []value.Value{s("none"), s(`\d+`)}, nil},
		{"regexall", "regexall", []value.Value{s("a1b22c333"), s(`\d+`)}, value.List{s("1"), s("22"), s("333")}},
		{"quote", "quote", []value.Value{s("it's")}, s(`'it'\''s'`)},
		{"lines", "lines", []value.Value{s("a\r\nb\n")}, value.List{s("a"), s("b")}},
		{"lines empty", "lines", []value.Value{s("")}, value.List{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, r, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRegexErrors(t *testing.T) {
	r := NewRegistry()

	_, err := call(t, r, "regex", s("x"), s("("))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = call(t, r, "regex", s("x"), s("x"), value.Int(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDataFunctions(t *testing.T) {
	r := NewRegistry()
	doc := value.Map{
		"data": value.List{
			value.Map{"id": value.Int(1), "name": s("a")},
			value.Map{"id": value.Int(2), "name": s("b")},
		},
	}

	got, err := call(t, r, "json", doc, s("$.data[0].id"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)

	got, err = call(t, r, "json", s(`{"a":[1,2]}`), s("a[*]"))
	require.NoError(t, err)
	assert.Equal(t, value.List{value.Int(1), value.Int(2)}, got)

	got, err = call(t, r, "json", doc, s("$.missing"))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = call(t, r, "json", exchange.NewBodyView(`{"token":"t0k"}`), s("$.token"))
	require.NoError(t, err)
	assert.Equal(t, s("t0k"), got)

	_, err = call(t, r, "json", s("not json"), s("$.a"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, err = call(t, r, "gjson", s(`{"a":{"b":"c"}}`), s("a.b"))
	require.NoError(t, err)
	assert.Equal(t, s("c"), got)

	got, err = call(t, r, "gjson", doc, s("data.#.name"))
	require.NoError(t, err)
	assert.Equal(t, value.List{s("a"), s("b")}, got)

	got, err = call(t, r, "gjson", doc, s("nope"))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = call(t, r, "tojson", doc)
	require.NoError(t, err)
	assert.Equal(t, s(`{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`), got)

	got, err = call(t, r, "yaml", s(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, s("a: 1"), got)
}

func TestXPath(t *testing.T) {
	r := NewRegistry()
	xml := s(`<root><item id="7"> first </item><item id="8">second</item></root>`)

	got, err := call(t, r, "xpath", xml, s("//item"))
	require.NoError(t, err)
	assert.Equal(t, s("first"), got)

	got, err = call(t, r, "xpath", xml, s("./root/item[2]"))
	require.NoError(t, err)
	assert.Equal(t, s("second"), got)

	got, err = call(t, r, "xpath", xml, s("//item/@id"))
	require.NoError(t, err)
	assert.Equal(t, s("7"), got)

	got, err = call(t, r, "xpath", xml, s("//missing"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestJSONValid(t *testing.T) {
	r := NewRegistry()
	schema := `{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}}}`

	got, err := call(t, r, "jsonvalid", s(`{"id": 3}`), s(schema))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), got)

	got, err = call(t, r, "jsonvalid", value.Map{"id": s("x")}, s(schema))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), got)

	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0o644))
	got, err = call(t, r, "jsonvalid", s(`{"id": 3}`), s(path))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), got)

	_, err = call(t, r, "jsonvalid", s(`{}`), s(filepath.Join(t.TempDir(), "missing.json")))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerators(t *testing.T) {
	r := NewRegistry()

	got, err := call(t, r, "uuid")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`), got.String())

	for i := 0; i < 50; i++ {
		got, err = call(t, r, "random", value.Int(5), value.Int(7))
		require.NoError(t, err)
		n := int64(got.(value.Int))
		assert.True(t, n >= 5 && n <= 7, "got %d", n)
	}

	_, err = call(t, r, "random", value.Int(7), value.Int(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = call(t, r, "random", s("x"), value.Int(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, err = call(t, r, "randomstring", value.Int(12))
	require.NoError(t, err)
	assert.Len(t, got.String(), 12)

	got, err = call(t, r, "timestamp")
	require.NoError(t, err)
	assert.Equal(t, value.KindInt, got.Kind())

	got, err = call(t, r, "date", s("2006"))
	require.NoError(t, err)
	assert.Len(t, got.String(), 4)
}

func TestGenerators_ExtremeArguments(t *testing.T) {
	r := NewRegistry()

	for _, bounds := range [][2]int64{
		{math.MinInt64, math.MaxInt64},
		{-1, math.MaxInt64},
		{math.MinInt64, 0},
		{math.MaxInt64, math.MaxInt64},
	} {
		got, err := call(t, r, "random", value.Int(bounds[0]), value.Int(bounds[1]))
		require.NoError(t, err, "random(%d, %d)", bounds[0], bounds[1])
		n := int64(got.(value.Int))
		assert.True(t, n >= bounds[0] && n <= bounds[1], "got %d", n)
	}

	_, err := call(t, r, "randomstring", value.Int(100_000_000_000))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, err := call(t, r, "randomstring", value.Int(MaxRandomStringLength))
	require.NoError(t, err)
	assert.Len(t, got.String(), MaxRandomStringLength)
}

func TestEnv(t *testing.T) {
	vars := map[string]string{"API_TOKEN": "secret"}
	r := NewRegistry(WithEnv(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}))

	got, err := call(t, r, "env", s("API_TOKEN"))
	require.NoError(t, err)
	assert.Equal(t, s("secret"), got)

	got, err = call(t, r, "env", s("MISSING"))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = call(t, r, "env", s("MISSING"), s("fallback"))
	require.NoError(t, err)
	assert.Equal(t, s("fallback"), got)
}

func TestTempFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(WithTempDir(dir))

	got, err := call(t, r, "tempfile", value.List{s("https://a"), s("https://b")}, s(".txt"))
	require.NoError(t, err)

	path := got.String()
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".txt", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://a\nhttps://b\n", string(data))

	_, err = call(t, r, "tempfile", s("x"), s("../escape"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, r.Cleanup())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
