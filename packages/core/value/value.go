package value

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the concrete type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged value produced by navigation, literals and functions.
// The nil Value is null.
type Value interface {
	Kind() Kind
	String() string
}

// Object is a Value with a fixed table of named fields. Context views
// implement it so that navigation never needs reflection.
type Object interface {
	Value
	Field(name string) (Value, bool)
}

type (
	String string
	Int    int64
	Float  float64
	Bool   bool
	List   []Value
	Map    map[string]Value
)

func (String) Kind() Kind { return KindString }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (Bool) Kind() Kind   { return KindBool }
func (List) Kind() Kind   { return KindList }
func (Map) Kind() Kind    { return KindMap }

func (s String) String() string { return string(s) }
func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }
func (f Float) String() string  { return strconv.FormatFloat(float64(f), 'f', -1, 64) }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// String joins the formatted elements with newlines.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = Format(v)
	}
	return strings.Join(parts, "\n")
}

// String encodes the map as compact JSON with sorted keys.
func (m Map) String() string {
	data, err := json.Marshal(ToAny(m))
	if err != nil {
		return ""
	}
	return string(data)
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KindOf returns the kind of v, treating nil as KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is null.
func IsNull(v Value) bool {
	return v == nil
}

// Format renders v as text: null is empty, lists are newline-joined and
// everything else uses its natural string form.
func Format(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// StringMap converts a map of strings into a Map.
func StringMap(m map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = String(v)
	}
	return out
}

// Strings converts a slice of strings into a List.
func Strings(s []string) List {
	out := make(List, len(s))
	for i, v := range s {
		out[i] = String(v)
	}
	return out
}
