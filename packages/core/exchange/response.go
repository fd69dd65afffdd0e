package exchange

import (
	"strconv"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// ResponseView is an immutable view of one captured response.
type ResponseView struct {
	statusCode  int
	reason      string
	httpVersion string
	contentType string
	durationMs  int64
	headers     value.Map
	cookies     map[string]string
	body        *BodyView
}

// NewResponseView builds the view of a raw response.
func NewResponseView(resp *http.Response) *ResponseView {
	return &ResponseView{
		statusCode:  resp.StatusCode,
		reason:      resp.Reason(),
		httpVersion: resp.Protocol,
		contentType: resp.ContentType(),
		durationMs:  resp.DurationMs(),
		headers:     headerMap(resp.Headers),
		cookies:     ParseSetCookies(resp.HeaderValues("Set-Cookie")),
		body:        NewBodyView(resp.Body),
	}
}

func (r *ResponseView) StatusCode() int            { return r.statusCode }
func (r *ResponseView) Reason() string             { return r.reason }
func (r *ResponseView) DurationMs() int64          { return r.durationMs }
func (r *ResponseView) Cookies() map[string]string { return r.cookies }
func (r *ResponseView) Body() *BodyView            { return r.body }

func (r *ResponseView) Kind() value.Kind { return value.KindObject }

func (r *ResponseView) String() string {
	if r.reason == "" {
		return strconv.Itoa(r.statusCode)
	}
	return strconv.Itoa(r.statusCode) + " " + r.reason
}

func (r *ResponseView) Field(name string) (value.Value, bool) {
	switch name {
	case "status", "statusCode", "code":
		return value.Int(r.statusCode), true
	case "reason":
		return value.String(r.reason), true
	case "httpVersion":
		return value.String(r.httpVersion), true
	case "contentType":
		return value.String(r.contentType), true
	case "duration":
		return value.Int(r.durationMs), true
	case "headers":
		return r.headers, true
	case "cookies":
		return value.StringMap(r.cookies), true
	case "body":
		return r.body, true
	}
	return nil, false
}
