package exchange

import (
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// Pair is one request with its response, which may be absent.
type Pair struct {
	index    int
	request  *RequestView
	response *ResponseView
}

func (p *Pair) Index() int              { return p.index }
func (p *Pair) Request() *RequestView   { return p.request }
func (p *Pair) Response() *ResponseView { return p.response }
func (p *Pair) Kind() value.Kind        { return value.KindObject }
func (p *Pair) String() string          { return p.request.URL() }

func (p *Pair) Field(name string) (value.Value, bool) {
	switch name {
	case "request":
		return p.request, true
	case "response":
		if p.response == nil {
			return nil, true
		}
		return p.response, true
	case "index":
		return value.Int(p.index), true
	}
	return nil, false
}

// ListView is the ordered selection of exchanges. Aggregates are projected
// from the pairs on every access.
type ListView struct {
	pairs []*Pair
}

func (l *ListView) Pairs() []*Pair { return l.pairs }
func (l *ListView) Len() int       { return len(l.pairs) }

// Hosts returns the distinct hosts in selection order.
func (l *ListView) Hosts() []string {
	return l.distinct(func(p *Pair) string { return p.request.Host() })
}

// Methods returns the distinct methods in selection order.
func (l *ListView) Methods() []string {
	return l.distinct(func(p *Pair) string { return p.request.Method() })
}

func (l *ListView) URLs() []string {
	return l.project(func(p *Pair) string { return p.request.URL() })
}

func (l *ListView) Paths() []string {
	return l.project(func(p *Pair) string { return p.request.Path() })
}

func (l *ListView) project(fn func(*Pair) string) []string {
	out := make([]string, len(l.pairs))
	for i, p := range l.pairs {
		out[i] = fn(p)
	}
	return out
}

func (l *ListView) distinct(fn func(*Pair) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range l.pairs {
		s := fn(p)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (l *ListView) statuses() value.List {
	out := value.List{}
	for _, p := range l.pairs {
		if p.response != nil {
			out = append(out, value.Int(p.response.StatusCode()))
		}
	}
	return out
}

func (l *ListView) Kind() value.Kind { return value.KindObject }
func (l *ListView) String() string   { return strings.Join(l.URLs(), "\n") }

func (l *ListView) Field(name string) (value.Value, bool) {
	switch name {
	case "requests", "pairs", "items":
		out := make(value.List, len(l.pairs))
		for i, p := range l.pairs {
			out[i] = p
		}
		return out, true
	case "size", "count":
		return value.Int(len(l.pairs)), true
	case "first":
		if len(l.pairs) == 0 {
			return nil, true
		}
		return l.pairs[0], true
	case "last":
		if len(l.pairs) == 0 {
			return nil, true
		}
		return l.pairs[len(l.pairs)-1], true
	case "hosts":
		return value.Strings(l.Hosts()), true
	case "methods":
		return value.Strings(l.Methods()), true
	case "urls":
		return value.Strings(l.URLs()), true
	case "paths":
		return value.Strings(l.Paths()), true
	case "statuses":
		return l.statuses(), true
	case "latency":
		return newLatencyView(l.pairs), true
	}
	return nil, false
}
