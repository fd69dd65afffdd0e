package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

func sampleResult() *render.Result {
	return &render.Result{
		Output: "curl -X POST [DSL Error: unknown function: nope]",
		Placeholders: []render.Placeholder{
			{Expr: "request.method", Start: 8, End: 24, Value: value.String("POST"), Text: "POST"},
			{Expr: "nope()", Start: 25, End: 33, Text: "[DSL Error: unknown function: nope]", Err: errors.New("unknown function: nope")},
		},
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "null", formatValue(nil, 10))
	assert.Equal(t, `"abc"`, formatValue(value.String("abc"), 10))
	assert.Equal(t, "[list with 2 items]", formatValue(value.List{value.Int(1), value.Int(2)}, 10))
	assert.Equal(t, "{map with 1 keys}", formatValue(value.Map{"a": nil}, 10))
	assert.Equal(t, "12345...", formatValue(value.Int(1234567), 5))
}

func TestConsole_Render(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatRender(sampleResult())
	assert.Equal(t, "curl -X POST [DSL Error: unknown function: nope]\n", buf.String())
}

func TestConsole_RenderVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	f.FormatRender(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "Placeholders:")
	assert.Contains(t, out, `✓ %request.method% → "POST"`)
	assert.Contains(t, out, "✗ %nope()% unknown function: nope")
	assert.Contains(t, out, "1 of 2 placeholders failed")
}

func TestConsole_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatPlaceholders([]string{"request.url", "nope()"}, []render.Issue{
		{Expr: "nope()", Start: 14, Err: errors.New("unknown function: nope")},
	})

	assert.Equal(t, "request.url\nnope()\n\n✗ %nope()% at offset 14: unknown function: nope\n", buf.String())
}

func TestConsole_Functions(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatFunctions([]builtin.Function{
		{Name: "upper", Usage: "upper(value)", Description: "Upper-cases"},
		{Name: "uuid", Description: "Random UUID"},
	})

	assert.Equal(t, "  upper(value)  Upper-cases\n  uuid()        Random UUID\n", buf.String())
}

func TestConsole_History(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHistory(nil)
	assert.Equal(t, "No recordings\n", buf.String())

	buf.Reset()
	f.FormatHistory([]store.Entry{
		{ID: 3, CreatedAt: time.Now(), Method: "GET", URL: "https://a", Status: 200, DurationMs: 12},
		{ID: 2, CreatedAt: time.Now(), Method: "POST", URL: "https://b"},
	})
	out := buf.String()
	assert.Contains(t, out, "GET    200 https://a (12ms)")
	assert.Contains(t, out, "POST   --- https://b (0ms)")
}

func TestConsole_Recordings(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatRecordings([]capture.Recording{{
		ID:       7,
		Request:  capture.RecordedRequest{Method: "GET", URL: "https://a"},
		Response: &capture.RecordedResponse{StatusCode: 404, Status: "Not Found", Body: "missing"},
	}})

	out := buf.String()
	assert.Contains(t, out, "#7 GET https://a")
	assert.Contains(t, out, "404 Not Found")
	assert.Contains(t, out, "missing")
}

func TestJSON_Render(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatRender(sampleResult())
	require.NoError(t, f.Err())

	var out JSONRender
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 1, out.Errors)
	require.Len(t, out.Placeholders, 2)
	assert.Equal(t, "POST", out.Placeholders[0].Value)
	assert.Empty(t, out.Placeholders[0].Error)
	assert.Equal(t, "unknown function: nope", out.Placeholders[1].Error)
	assert.Nil(t, out.Placeholders[1].Value)
}

func TestJSON_ListsAreNeverNull(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatPlaceholders(nil, nil)
	assert.JSONEq(t, `{"placeholders":[],"issues":[]}`, buf.String())

	buf.Reset()
	f.FormatHistory(nil)
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	f.FormatRecordings(nil)
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	f.FormatError(errors.New("boom"))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}

func TestJSON_Functions(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatFunctions([]builtin.Function{{Name: "md5", Usage: "md5(value)", Description: "MD5 hex digest"}})
	assert.JSONEq(t, `[{"name":"md5","usage":"md5(value)","description":"MD5 hex digest"}]`, buf.String())
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	f, err := NewFormatter("json", Options{Writer: &buf})
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = NewFormatter("", Options{Writer: &buf, NoColor: true})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	_, err = NewFormatter("xml", Options{})
	assert.Error(t, err)
}
