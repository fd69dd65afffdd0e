// Package output provides formatters for displaying hitcmd results.
//
// Supported output formats:
//   - Console: the rendered command on its own line, with optional coloured
//     placeholder explanations, function tables and history listings
//   - JSON: one machine-readable document per result
package output
