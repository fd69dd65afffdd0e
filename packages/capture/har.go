package capture

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// HAR 1.2 subset. Only the fields hitcmd reads or writes are modelled.
type harFile struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string     `json:"version"`
	Creator harCreator `json:"creator"`
	Entries []harEntry `json:"entries"`
}

type harCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type harEntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"`
	Request         harRequest  `json:"request"`
	Response        harResponse `json:"response"`
}

type harNameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harRequest struct {
	Method      string         `json:"method"`
	URL         string         `json:"url"`
	HTTPVersion string         `json:"httpVersion"`
	Headers     []harNameValue `json:"headers"`
	QueryString []harNameValue `json:"queryString"`
	PostData    *harPostData   `json:"postData,omitempty"`
	HeadersSize int            `json:"headersSize"`
	BodySize    int            `json:"bodySize"`
}

type harPostData struct {
	MIMEType string         `json:"mimeType"`
	Params   []harNameValue `json:"params,omitempty"`
	Text     string         `json:"text,omitempty"`
}

type harResponse struct {
	Status      int            `json:"status"`
	StatusText  string         `json:"statusText"`
	HTTPVersion string         `json:"httpVersion"`
	Headers     []harNameValue `json:"headers"`
	Content     harContent     `json:"content"`
	RedirectURL string         `json:"redirectURL"`
	HeadersSize int            `json:"headersSize"`
	BodySize    int            `json:"bodySize"`
}

type harContent struct {
	Size     int    `json:"size"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

func fromHARHeaders(in []harNameValue) []http.Header {
	if len(in) == 0 {
		return nil
	}
	out := make([]http.Header, len(in))
	for i, h := range in {
		out[i] = http.Header{Name: h.Name, Value: h.Value}
	}
	return out
}

func toHARHeaders(in []http.Header) []harNameValue {
	out := make([]harNameValue, len(in))
	for i, h := range in {
		out[i] = harNameValue{Name: h.Name, Value: h.Value}
	}
	return out
}

func (e *harEntry) recording() Recording {
	rec := Recording{
		Request: RecordedRequest{
			Method:      e.Request.Method,
			URL:         e.Request.URL,
			HTTPVersion: e.Request.HTTPVersion,
			Headers:     fromHARHeaders(e.Request.Headers),
		},
	}
	if ts, err := time.Parse(time.RFC3339Nano, e.StartedDateTime); err == nil {
		rec.Timestamp = ts
	}

	if pd := e.Request.PostData; pd != nil {
		rec.Request.Body = pd.Text
		if rec.Request.Body == "" && len(pd.Params) > 0 {
			form := url.Values{}
			for _, p := range pd.Params {
				form.Add(p.Name, p.Value)
			}
			rec.Request.Body = form.Encode()
		}
	}

	// Browsers export status 0 for requests that never completed.
	if e.Response.Status > 0 {
		body := e.Response.Content.Text
		if strings.EqualFold(e.Response.Content.Encoding, "base64") {
			if decoded, err := base64.StdEncoding.DecodeString(body); err == nil {
				body = string(decoded)
			}
		}
		rec.Response = &RecordedResponse{
			StatusCode:  e.Response.Status,
			Status:      e.Response.StatusText,
			HTTPVersion: e.Response.HTTPVersion,
			Headers:     fromHARHeaders(e.Response.Headers),
			Body:        body,
			DurationMs:  int64(e.Time),
		}
	}
	return rec
}

func toHAREntry(rec Recording) harEntry {
	e := harEntry{
		Request: harRequest{
			Method:      rec.Request.Method,
			URL:         rec.Request.URL,
			HTTPVersion: rec.Request.HTTPVersion,
			Headers:     toHARHeaders(rec.Request.Headers),
			QueryString: []harNameValue{},
			HeadersSize: -1,
			BodySize:    len(rec.Request.Body),
		},
	}
	if !rec.Timestamp.IsZero() {
		e.StartedDateTime = rec.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	if u, err := url.Parse(rec.Request.URL); err == nil {
		query := u.Query()
		names := make([]string, 0, len(query))
		for name := range query {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, v := range query[name] {
				e.Request.QueryString = append(e.Request.QueryString, harNameValue{Name: name, Value: v})
			}
		}
	}
	if rec.Request.Body != "" {
		e.Request.PostData = &harPostData{
			MIMEType: headerValue(rec.Request.Headers, "Content-Type"),
			Text:     rec.Request.Body,
		}
	}

	if rec.Response != nil {
		e.Time = float64(rec.Response.DurationMs)
		e.Response = harResponse{
			Status:      rec.Response.StatusCode,
			StatusText:  rec.Response.Status,
			HTTPVersion: rec.Response.HTTPVersion,
			Headers:     toHARHeaders(rec.Response.Headers),
			Content: harContent{
				Size:     len(rec.Response.Body),
				MIMEType: headerValue(rec.Response.Headers, "Content-Type"),
				Text:     rec.Response.Body,
			},
			HeadersSize: -1,
			BodySize:    len(rec.Response.Body),
		}
	}
	return e
}

func headerValue(headers []http.Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
