package exchange

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// RequestView is an immutable view of one captured request.
type RequestView struct {
	url         string
	method      string
	host        string
	port        int
	protocol    string
	httpVersion string
	path        string
	query       string
	contentType string
	headers     value.Map
	cookies     map[string]string
	params      *ParameterView
	body        *BodyView
}

// NewRequestView builds the view of a raw request.
func NewRequestView(req *http.Request) *RequestView {
	rawURL := req.ResolvedURL()
	v := &RequestView{
		url:         rawURL,
		method:      strings.ToUpper(req.Method),
		httpVersion: req.Protocol,
		contentType: req.Header("Content-Type"),
		headers:     headerMap(req.Headers),
		cookies:     ParseCookieHeader(strings.Join(req.HeaderValues("Cookie"), ";")),
		body:        NewBodyView(req.Body),
	}

	var query url.Values
	if u, err := url.Parse(rawURL); err == nil {
		v.protocol = strings.ToLower(u.Scheme)
		v.host = u.Hostname()
		v.port = portOf(u)
		v.path = u.EscapedPath()
		v.query = u.RawQuery
		query = u.Query()
	}

	var form map[string]string
	if v.body.Type() == BodyForm || strings.Contains(strings.ToLower(v.contentType), "application/x-www-form-urlencoded") {
		form = http.ParseFormBody(req.Body)
	}
	v.params = newParameterView(query, form, v.cookies)
	return v
}

func portOf(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		return 443
	case "http", "ws":
		return 80
	}
	return 0
}

func (r *RequestView) URL() string                { return r.url }
func (r *RequestView) Method() string             { return r.method }
func (r *RequestView) Host() string               { return r.host }
func (r *RequestView) Port() int                  { return r.port }
func (r *RequestView) Path() string               { return r.path }
func (r *RequestView) Cookies() map[string]string { return r.cookies }
func (r *RequestView) Params() *ParameterView     { return r.params }
func (r *RequestView) Body() *BodyView            { return r.body }

func (r *RequestView) Kind() value.Kind { return value.KindObject }
func (r *RequestView) String() string   { return r.url }

func (r *RequestView) Field(name string) (value.Value, bool) {
	switch name {
	case "url":
		return value.String(r.url), true
	case "method":
		return value.String(r.method), true
	case "host":
		return value.String(r.host), true
	case "port":
		return value.Int(r.port), true
	case "protocol":
		return value.String(r.protocol), true
	case "httpVersion":
		return value.String(r.httpVersion), true
	case "path":
		return value.String(r.path), true
	case "query":
		return value.String(r.query), true
	case "contentType":
		return value.String(r.contentType), true
	case "headers":
		return r.headers, true
	case "cookies":
		return value.StringMap(r.cookies), true
	case "params", "parameters":
		return r.params, true
	case "body":
		return r.body, true
	}
	return nil, false
}
