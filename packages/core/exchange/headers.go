package exchange

import (
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// NormalizeHeaderName lower-cases a header name and replaces every '-' with
// '.', so User-Agent becomes user.agent.
func NormalizeHeaderName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", ".")
}

// headerMap builds the normalized header map. Repeated headers are joined
// with ", ".
func headerMap(headers []http.Header) value.Map {
	joined := make(map[string]string, len(headers))
	for _, h := range headers {
		key := NormalizeHeaderName(h.Name)
		if prev, ok := joined[key]; ok {
			joined[key] = prev + ", " + h.Value
			continue
		}
		joined[key] = h.Value
	}
	return value.StringMap(joined)
}

// ParseCookieHeader parses a Cookie header value. Segments are split on ';'
// and then on the first '='; segments without '=' are dropped.
func ParseCookieHeader(header string) map[string]string {
	cookies := make(map[string]string)
	for _, segment := range strings.Split(header, ";") {
		name, val, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(val)
	}
	return cookies
}

// ParseSetCookies builds a cookie map from Set-Cookie header values, keyed by
// the name before the first '='. The value stops at the first ';' so cookie
// attributes are not included.
func ParseSetCookies(headers []string) map[string]string {
	cookies := make(map[string]string)
	for _, header := range headers {
		name, rest, found := strings.Cut(header, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		val, _, _ := strings.Cut(rest, ";")
		cookies[name] = strings.TrimSpace(val)
	}
	return cookies
}
