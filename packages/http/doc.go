// Package http holds the raw request and response objects that hitcmd builds
// its expression context from.
//
// Values arrive from capture files, the history store or the recording proxy.
// Headers keep their original order and repetition so that repeated headers
// such as Set-Cookie survive until the context builder normalizes them.
package http
