// Package render substitutes %expression% placeholders in command templates.
//
// Each placeholder is evaluated on its own. Null renders as an empty string,
// lists render one element per line, and a failing placeholder is replaced
// by a "[DSL Error: ...]" marker without affecting the others.
package render
