package exchange

import (
	"errors"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

// ErrNoRequest is returned when a context is built without any request.
var ErrNoRequest = errors.New("exchange: at least one request is required")

// Context is the root of the immutable snapshot a template is rendered
// against. Request and Response address the primary exchange; List is set
// when a selection of exchanges was used.
type Context struct {
	Request  *RequestView
	Response *ResponseView
	List     *ListView
}

// Build creates a single-exchange context. resp may be nil.
func Build(req *http.Request, resp *http.Response) (*Context, error) {
	if req == nil {
		return nil, ErrNoRequest
	}
	ctx := &Context{Request: NewRequestView(req)}
	if resp != nil {
		ctx.Response = NewResponseView(resp)
	}
	return ctx, nil
}

// BuildList creates a context from an ordered selection. Responses are
// paired with requests by index; a shorter response list leaves the trailing
// pairs without a response. The first pair is also exposed as the primary
// request and response.
func BuildList(reqs []*http.Request, resps []*http.Response) (*Context, error) {
	if len(reqs) == 0 {
		return nil, ErrNoRequest
	}

	list := &ListView{pairs: make([]*Pair, 0, len(reqs))}
	for i, req := range reqs {
		if req == nil {
			return nil, ErrNoRequest
		}
		pair := &Pair{index: i, request: NewRequestView(req)}
		if i < len(resps) && resps[i] != nil {
			pair.response = NewResponseView(resps[i])
		}
		list.pairs = append(list.pairs, pair)
	}

	first := list.pairs[0]
	return &Context{
		Request:  first.request,
		Response: first.response,
		List:     list,
	}, nil
}

func (c *Context) Kind() value.Kind { return value.KindObject }

func (c *Context) String() string {
	if c.List != nil && c.List.Len() > 1 {
		return c.List.String()
	}
	if c.Request != nil {
		return c.Request.String()
	}
	return ""
}

func (c *Context) Field(name string) (value.Value, bool) {
	switch name {
	case "request":
		if c.Request == nil {
			return nil, true
		}
		return c.Request, true
	case "response":
		if c.Response == nil {
			return nil, true
		}
		return c.Response, true
	case "httpList":
		if c.List == nil {
			return nil, true
		}
		return c.List, true
	}
	return nil, false
}
