package exchange

import (
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// BodyType is the classification of a message body.
type BodyType string

const (
	BodyEmpty     BodyType = "empty"
	BodyJSON      BodyType = "json"
	BodyJSONArray BodyType = "json_array"
	BodyHTML      BodyType = "html"
	BodyXML       BodyType = "xml"
	BodyForm      BodyType = "form"
	BodyText      BodyType = "text"
)

// ClassifyBody determines the body type from the trimmed text. The checks
// run in a fixed order and the first match wins.
func ClassifyBody(raw string) BodyType {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return BodyEmpty
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		return BodyJSON
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		return BodyJSONArray
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		if strings.Contains(strings.ToLower(s), "<html") {
			return BodyHTML
		}
		return BodyXML
	case strings.Contains(s, "=") && strings.Contains(s, "&"):
		return BodyForm
	default:
		return BodyText
	}
}

// BodyView is an immutable view of a request or response body.
type BodyView struct {
	raw    string
	typ    BodyType
	parsed value.Value
}

// NewBodyView classifies raw and, for JSON bodies, parses it. A body that
// looks like JSON but does not parse keeps its type and has no parsed value.
func NewBodyView(raw string) *BodyView {
	b := &BodyView{raw: raw, typ: ClassifyBody(raw)}
	if b.typ == BodyJSON || b.typ == BodyJSONArray {
		if v, ok := value.ParseJSON(raw); ok {
			b.parsed = v
		}
	}
	return b
}

func (b *BodyView) Raw() string         { return b.raw }
func (b *BodyView) Type() BodyType      { return b.typ }
func (b *BodyView) Length() int         { return len(b.raw) }
func (b *BodyView) Parsed() value.Value { return b.parsed }
func (b *BodyView) HasParsed() bool     { return b.parsed != nil }
func (b *BodyView) Kind() value.Kind    { return value.KindObject }
func (b *BodyView) String() string      { return b.raw }

func (b *BodyView) Field(name string) (value.Value, bool) {
	switch name {
	case "raw", "text":
		return value.String(b.raw), true
	case "length":
		return value.Int(len(b.raw)), true
	case "type":
		return value.String(b.typ), true
	case "json", "parsed":
		return b.parsed, true
	}
	return nil, false
}
