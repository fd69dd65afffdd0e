package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// FromAny converts plain Go data (as produced by encoding/json, yaml.v3 or
// JSONPath libraries) into a Value.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return nil
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint:
		return Int(x)
	case uint64:
		return Int(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}
		if f, err := x.Float64(); err == nil {
			return Float(f)
		}
		return String(x.String())
	case []any:
		out := make(List, len(x))
		for i, e := range x {
			out[i] = FromAny(e)
		}
		return out
	case []string:
		return Strings(x)
	case map[string]any:
		out := make(Map, len(x))
		for k, e := range x {
			out[k] = FromAny(e)
		}
		return out
	case map[string]string:
		return StringMap(x)
	case map[any]any:
		out := make(Map, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = FromAny(e)
		}
		return out
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// fromFloat keeps whole numbers decoded as float64 (JSON, YAML) integral.
func fromFloat(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return Float(f)
}

// ToAny converts a Value back into plain Go data. Objects are expanded to
// their natural string form.
func ToAny(v Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case String:
		return string(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Bool:
		return bool(x)
	case List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = ToAny(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = ToAny(e)
		}
		return out
	default:
		return x.String()
	}
}

// ParseJSON parses raw JSON text into a Value. Integers stay Int. The second
// result is false when raw is not valid JSON.
func ParseJSON(raw string) (Value, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	return fromResult(gjson.Parse(raw)), true
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return Int(i)
			}
		}
		return Float(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			items := r.Array()
			out := make(List, len(items))
			for i, item := range items {
				out[i] = fromResult(item)
			}
			return out
		}
		out := make(Map)
		r.ForEach(func(key, val gjson.Result) bool {
			out[key.String()] = fromResult(val)
			return true
		})
		return out
	}
	return nil
}

// ToInt coerces v to an integer.
func ToInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Float:
		return int64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case String:
		i, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// ToFloat coerces v to a float.
func ToFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	return 0, false
}

// ToBool reports the truthiness of v. Null, false, zero and empty values
// are false.
func ToBool(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		s := strings.ToLower(strings.TrimSpace(string(x)))
		return s != "" && s != "false" && s != "0"
	case List:
		return len(x) > 0
	case Map:
		return len(x) > 0
	}
	return true
}
