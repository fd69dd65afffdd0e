// Package parser turns a placeholder expression into a small AST.
//
// An expression is one of:
//   - a function call, name(arg, ...), where each argument is a quoted
//     string, a number, a boolean, null or another expression
//   - a chain path made only of identifier characters, dots, brackets and *
//   - anything else, which is kept as a literal string
//
// Arguments are separated by commas that are outside quotes and not nested
// in parentheses. A call that is opened but never closed is a SyntaxError,
// and calls nested beyond the configured depth fail with
// ErrExpressionTooDeep.
package parser
