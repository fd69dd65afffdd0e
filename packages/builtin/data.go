package builtin

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// structured returns plain Go data for v. Maps and lists convert directly, a
// body uses its parsed JSON and anything else is parsed as JSON text.
func structured(v value.Value) (any, error) {
	switch x := v.(type) {
	case value.Map, value.List:
		return value.ToAny(x), nil
	case *exchange.BodyView:
		if x.HasParsed() {
			return value.ToAny(x.Parsed()), nil
		}
	}

	var data any
	if err := oj.Unmarshal([]byte(value.Format(v)), &data); err != nil {
		return nil, argError("not valid JSON: %v", err)
	}
	return data, nil
}

// jsonText returns the JSON text of v.
func jsonText(v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Map, value.List:
		data, err := json.Marshal(value.ToAny(x))
		if err != nil {
			return "", argError("%v", err)
		}
		return string(data), nil
	}
	return value.Format(v), nil
}

// funcJSON evaluates a JSONPath expression. One match is returned as is;
// several matches form a list; no match is null.
func funcJSON(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	data, err := structured(args[0])
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(stringArgOr(args, 1, "$"))
	if !strings.HasPrefix(path, "$") && !strings.HasPrefix(path, "@") {
		path = "$." + path
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, argError("bad JSONPath %q: %v", path, err)
	}

	results := expr.Get(data)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return value.FromAny(results[0]), nil
	}
	out := make(value.List, len(results))
	for i, r := range results {
		out[i] = value.FromAny(r)
	}
	return out, nil
}

// funcGJSON queries JSON text with gjson path syntax.
func funcGJSON(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return nil, err
	}
	text, err := jsonText(args[0])
	if err != nil {
		return nil, err
	}
	res := gjson.Get(text, stringArg(args, 1))
	if !res.Exists() {
		return nil, nil
	}
	if v, ok := value.ParseJSON(res.Raw); ok {
		return v, nil
	}
	return value.String(res.String()), nil
}

// funcXPath returns the text of the first element matching the path. A
// trailing /@name selects an attribute.
func funcXPath(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(value.Format(args[0])); err != nil {
		return nil, argError("not valid XML: %v", err)
	}

	path := stringArg(args, 1)
	if elemPath, attrName, found := strings.Cut(path, "/@"); found {
		elem, err := findElement(doc, elemPath)
		if err != nil || elem == nil {
			return nil, err
		}
		if attr := elem.SelectAttr(attrName); attr != nil {
			return value.String(attr.Value), nil
		}
		return nil, nil
	}

	elem, err := findElement(doc, path)
	if err != nil || elem == nil {
		return nil, err
	}
	return value.String(strings.TrimSpace(elem.Text())), nil
}

func findElement(doc *etree.Document, path string) (*etree.Element, error) {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil, argError("bad path %q: %v", path, err)
	}
	return doc.FindElementPath(compiled), nil
}

func funcToJSON(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	data, err := json.Marshal(value.ToAny(args[0]))
	if err != nil {
		return nil, argError("%v", err)
	}
	return value.String(data), nil
}

// funcYAML converts structured data or JSON text to YAML.
func funcYAML(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	data, err := structured(args[0])
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, argError("%v", err)
	}
	return value.String(strings.TrimRight(string(out), "\n")), nil
}

// funcJSONValid validates a document against a JSON schema given inline or
// as a file path.
func funcJSONValid(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return nil, err
	}
	doc, err := jsonText(args[0])
	if err != nil {
		return nil, err
	}

	schema := strings.TrimSpace(stringArg(args, 1))
	if !strings.HasPrefix(schema, "{") {
		data, err := os.ReadFile(schema)
		if err != nil {
			return nil, argError("failed to read schema file: %v", err)
		}
		schema = string(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, argError("schema validation error: %v", err)
	}
	return value.Bool(result.Valid()), nil
}
