package exchange

import (
	"net/url"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// ParameterView holds the url, body and cookie parameters of a request as
// three disjoint maps.
type ParameterView struct {
	url    map[string]string
	body   map[string]string
	cookie map[string]string
}

func newParameterView(query url.Values, body, cookie map[string]string) *ParameterView {
	p := &ParameterView{
		url:    make(map[string]string, len(query)),
		body:   body,
		cookie: cookie,
	}
	for name, values := range query {
		if len(values) > 0 {
			p.url[name] = values[0]
		}
	}
	if p.body == nil {
		p.body = map[string]string{}
	}
	if p.cookie == nil {
		p.cookie = map[string]string{}
	}
	return p
}

func (p *ParameterView) URL() map[string]string    { return p.url }
func (p *ParameterView) Body() map[string]string   { return p.body }
func (p *ParameterView) Cookie() map[string]string { return p.cookie }

// All merges the three maps. Body parameters override url parameters and
// cookies override both.
func (p *ParameterView) All() map[string]string {
	all := make(map[string]string, len(p.url)+len(p.body)+len(p.cookie))
	for _, m := range []map[string]string{p.url, p.body, p.cookie} {
		for k, v := range m {
			all[k] = v
		}
	}
	return all
}

func (p *ParameterView) Kind() value.Kind { return value.KindObject }

func (p *ParameterView) String() string {
	values := url.Values{}
	for k, v := range p.All() {
		values.Set(k, v)
	}
	return values.Encode()
}

func (p *ParameterView) Field(name string) (value.Value, bool) {
	switch name {
	case "url", "query":
		return value.StringMap(p.url), true
	case "body", "form":
		return value.StringMap(p.body), true
	case "cookie", "cookies":
		return value.StringMap(p.cookie), true
	case "all":
		return value.StringMap(p.All()), true
	}
	return nil, false
}
