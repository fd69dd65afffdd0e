// Package exchange builds the immutable context that hitcmd expressions are
// evaluated against.
//
// A Context wraps one request and its optional response, or an ordered list
// of exchange pairs when several exchanges were selected. Every view exposes
// a closed table of field names through Field, which the navigator uses
// instead of reflection:
//
//	request.url  request.headers.user.agent  request.params.url.id
//	response.status  response.body.json.token
//	httpList.requests[0].request.url  httpList.hosts  httpList.latency.p95
//
// Header names are lower-cased with '-' replaced by '.'. Bodies are
// classified as empty, json, json_array, html, xml, form or text; JSON bodies
// that fail to parse keep their type and simply have no parsed value.
package exchange
