// Package capture reads and writes recorded HTTP exchanges.
//
// Capture files come in three formats, chosen by extension:
//   - .har: HTTP Archive 1.2 as exported by browsers and proxies
//   - .yaml / .yml: a list of recordings or a single recording
//   - anything else: JSON, either a list, a single recording or a HAR document
//
// Recordings convert to the raw request and response values used to build a
// template context.
package capture
