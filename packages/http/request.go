package http

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const DefaultProtocol = "HTTP/1.1"

// Header is a single header line. Order and repetition are preserved.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Request is a captured HTTP request as handed over by the host.
type Request struct {
	Method   string
	URL      string
	Protocol string
	Headers  []Header
	Body     string
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:   method,
		URL:      requestURL,
		Protocol: DefaultProtocol,
	}
}

func (r *Request) AddHeader(name, value string) *Request {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// Header returns the first value of the named header, matched case-insensitively.
func (r *Request) Header(name string) string {
	return firstHeader(r.Headers, name)
}

// HeaderValues returns every value of the named header in order.
func (r *Request) HeaderValues(name string) []string {
	return headerValues(r.Headers, name)
}

// ResolvedURL returns the request URL, made absolute with the Host header
// when the captured URL is only a path.
func (r *Request) ResolvedURL() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Host != "" {
		return r.URL
	}
	host := r.Header("Host")
	if host == "" {
		return r.URL
	}
	u.Scheme = "http"
	u.Host = host
	return u.String()
}

// FromNetRequest converts a net/http request whose body has already been read.
func FromNetRequest(req *http.Request, body []byte) *Request {
	r := &Request{
		Method:   req.Method,
		URL:      req.URL.String(),
		Protocol: req.Proto,
		Body:     string(body),
	}
	if r.Protocol == "" {
		r.Protocol = DefaultProtocol
	}
	if req.Host != "" {
		r.AddHeader("Host", req.Host)
	}
	r.Headers = append(r.Headers, fromNetHeader(req.Header)...)
	return r
}

func ParseFormBody(body string) map[string]string {
	result := make(map[string]string)
	pairs := strings.Split(body, "&")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			key, _ := url.QueryUnescape(kv[0])
			value, _ := url.QueryUnescape(kv[1])
			result[key] = value
		}
	}
	return result
}

func firstHeader(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func headerValues(headers []Header, name string) []string {
	var values []string
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// fromNetHeader flattens an http.Header into header lines sorted by name so
// that conversions are deterministic.
func fromNetHeader(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Header
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}
