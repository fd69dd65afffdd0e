// Package navigator resolves chain paths such as
// httpList.requests[0].request.headers.user.agent against a context value.
//
// Segments are separated by dots. A segment may carry one or more bracket
// indices, and a bare * fans the rest of the path out over every element of
// a list. Lists also answer first, last, size and count.
package navigator
