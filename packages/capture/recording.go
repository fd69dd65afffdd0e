package capture

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// Recording is one captured exchange. Response is nil when the request never
// got an answer.
type Recording struct {
	ID        int64             `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp time.Time         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Request   RecordedRequest   `json:"request" yaml:"request"`
	Response  *RecordedResponse `json:"response,omitempty" yaml:"response,omitempty"`
}

type RecordedRequest struct {
	Method      string        `json:"method" yaml:"method"`
	URL         string        `json:"url" yaml:"url"`
	HTTPVersion string        `json:"httpVersion,omitempty" yaml:"httpVersion,omitempty"`
	Headers     []http.Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string        `json:"body,omitempty" yaml:"body,omitempty"`
}

type RecordedResponse struct {
	StatusCode  int           `json:"status" yaml:"status"`
	Status      string        `json:"statusText,omitempty" yaml:"statusText,omitempty"`
	HTTPVersion string        `json:"httpVersion,omitempty" yaml:"httpVersion,omitempty"`
	Headers     []http.Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string        `json:"body,omitempty" yaml:"body,omitempty"`
	DurationMs  int64         `json:"durationMs,omitempty" yaml:"durationMs,omitempty"`
}

// FromExchange builds a recording from raw exchange values. resp may be nil.
func FromExchange(req *http.Request, resp *http.Response, at time.Time) Recording {
	rec := Recording{
		Timestamp: at,
		Request: RecordedRequest{
			Method:      req.Method,
			URL:         req.URL,
			HTTPVersion: req.Protocol,
			Headers:     req.Headers,
			Body:        req.Body,
		},
	}
	if resp != nil {
		rec.Response = &RecordedResponse{
			StatusCode:  resp.StatusCode,
			Status:      resp.Status,
			HTTPVersion: resp.Protocol,
			Headers:     resp.Headers,
			Body:        resp.Body,
			DurationMs:  resp.DurationMs(),
		}
	}
	return rec
}

// ToExchange converts the recording into the raw values the context builder
// consumes. The response is nil when none was recorded.
func (r *Recording) ToExchange() (*http.Request, *http.Response) {
	req := &http.Request{
		Method:   r.Request.Method,
		URL:      r.Request.URL,
		Protocol: r.Request.HTTPVersion,
		Headers:  r.Request.Headers,
		Body:     r.Request.Body,
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	if req.Protocol == "" {
		req.Protocol = http.DefaultProtocol
	}
	if r.Response == nil {
		return req, nil
	}

	resp := &http.Response{
		StatusCode: r.Response.StatusCode,
		Status:     r.Response.Status,
		Protocol:   r.Response.HTTPVersion,
		Headers:    r.Response.Headers,
		Body:       r.Response.Body,
		Duration:   time.Duration(r.Response.DurationMs) * time.Millisecond,
	}
	if resp.Protocol == "" {
		resp.Protocol = http.DefaultProtocol
	}
	return req, resp
}

// Summary is a one-line description used in listings.
func (r *Recording) Summary() string {
	if r.Response == nil {
		return fmt.Sprintf("%s %s", r.Request.Method, r.Request.URL)
	}
	return fmt.Sprintf("%s %s -> %d (%dms)", r.Request.Method, r.Request.URL, r.Response.StatusCode, r.Response.DurationMs)
}

// Exchanges converts every recording, keeping order.
func Exchanges(recs []Recording) ([]*http.Request, []*http.Response) {
	reqs := make([]*http.Request, len(recs))
	resps := make([]*http.Response, len(recs))
	for i := range recs {
		reqs[i], resps[i] = recs[i].ToExchange()
	}
	return reqs, resps
}
