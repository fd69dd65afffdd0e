// Package evaluator evaluates hitcmd expressions.
//
// Chain paths are resolved with the navigator and never fail. Calls are
// dispatched to a function registry: an unregistered name is an
// UnknownFunctionError and a failing handler is a FunctionError carrying the
// function name.
package evaluator
