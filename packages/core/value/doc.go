// Package value defines the tagged values that flow through hitcmd expressions.
//
// A Value is one of:
//   - String, Int, Float, Bool: scalars
//   - List: an ordered sequence of values
//   - Map: string-keyed values, typically parsed JSON
//   - Object: a context view exposing a fixed table of named fields
//
// The nil Value represents null. Format renders any value the way it is
// substituted into a command template.
package value
