package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Response is a captured HTTP response as handed over by the host.
type Response struct {
	StatusCode int
	Status     string
	Protocol   string
	Headers    []Header
	Body       string
	Duration   time.Duration
}

func (r *Response) Header(name string) string {
	return firstHeader(r.Headers, name)
}

func (r *Response) HeaderValues(name string) []string {
	return headerValues(r.Headers, name)
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// Reason returns the reason phrase, with a leading status code removed
// ("200 OK" becomes "OK").
func (r *Response) Reason() string {
	status := strings.TrimSpace(r.Status)
	if code, rest, found := strings.Cut(status, " "); found {
		if _, err := strconv.Atoi(code); err == nil {
			return strings.TrimSpace(rest)
		}
	}
	if _, err := strconv.Atoi(status); err == nil {
		status = ""
	}
	if status == "" {
		return http.StatusText(r.StatusCode)
	}
	return status
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// FromNetResponse converts a net/http response whose body has already been read.
func FromNetResponse(resp *http.Response, body []byte, duration time.Duration) *Response {
	r := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Protocol:   resp.Proto,
		Headers:    fromNetHeader(resp.Header),
		Body:       string(body),
		Duration:   duration,
	}
	if r.Protocol == "" {
		r.Protocol = DefaultProtocol
	}
	return r
}
