package navigator

import (
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

const wildcard = "*"

// Navigate resolves a dotted path against node. Any segment that cannot be
// resolved yields nil; navigation never fails.
func Navigate(node value.Value, path string) value.Value {
	path = strings.TrimSpace(path)
	if path == "" || node == nil {
		return nil
	}
	return walk(node, strings.Split(path, "."))
}

func walk(cur value.Value, segments []string) value.Value {
	for i := 0; i < len(segments); i++ {
		if cur == nil {
			return nil
		}
		seg := segments[i]

		switch {
		case seg == wildcard:
			return fanOut(cur, segments[i+1:])
		case strings.Contains(seg, "["):
			cur = indexed(cur, seg)
		default:
			var consumed int
			cur, consumed = lookup(cur, segments[i:])
			i += consumed - 1
		}
	}
	return cur
}

// fanOut applies the remaining path to every element of a list and collects
// the non-nil results in order.
func fanOut(cur value.Value, rest []string) value.Value {
	list, ok := cur.(value.List)
	if !ok {
		return nil
	}
	if len(rest) == 0 {
		return list
	}
	out := value.List{}
	for _, el := range list {
		if v := walk(el, rest); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// indexed resolves name[i][j]... An empty name indexes the current node.
func indexed(cur value.Value, seg string) value.Value {
	open := strings.IndexByte(seg, '[')
	name := seg[:open]
	if name != "" {
		cur, _ = lookup(cur, []string{name})
	}

	rest := seg[open:]
	for rest != "" {
		if cur == nil || rest[0] != '[' {
			return nil
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil
		}
		cur = applyIndex(cur, strings.TrimSpace(rest[1:end]))
		rest = rest[end+1:]
	}
	return cur
}

func applyIndex(cur value.Value, idx string) value.Value {
	n, err := strconv.Atoi(idx)
	if err != nil || strings.HasPrefix(idx, "-") || strings.HasPrefix(idx, "+") {
		// first, last and friends are ordinary properties
		v, _ := lookup(cur, []string{idx})
		return v
	}
	list, ok := cur.(value.List)
	if !ok || n >= len(list) {
		return nil
	}
	return list[n]
}

// lookup resolves segments[0] on cur and reports how many segments were
// consumed. Map keys that contain dots, such as normalized header names,
// may consume several segments.
func lookup(cur value.Value, segments []string) (value.Value, int) {
	name := segments[0]

	switch c := cur.(type) {
	case value.Object:
		v, _ := c.Field(name)
		return v, 1
	case value.Map:
		if v, ok := mapKey(c, name); ok {
			return v, 1
		}
		for n := joinable(segments); n > 1; n-- {
			if v, ok := mapKey(c, strings.Join(segments[:n], ".")); ok {
				return v, n
			}
		}
		return nil, 1
	case value.List:
		return listProperty(c, name), 1
	}
	return nil, 1
}

// joinable counts the leading plain segments that may be joined into one
// dotted map key.
func joinable(segments []string) int {
	n := 0
	for _, s := range segments {
		if s == wildcard || strings.Contains(s, "[") {
			break
		}
		n++
	}
	return n
}

func mapKey(m value.Map, key string) (value.Value, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if v, ok := m[strings.ToLower(key)]; ok {
		return v, true
	}
	if v, ok := m[strings.ReplaceAll(key, ".", "_")]; ok {
		return v, true
	}
	return nil, false
}

func listProperty(l value.List, name string) value.Value {
	switch name {
	case "first":
		if len(l) == 0 {
			return nil
		}
		return l[0]
	case "last":
		if len(l) == 0 {
			return nil
		}
		return l[len(l)-1]
	case "size", "count", "length":
		return value.Int(len(l))
	}
	return nil
}
