package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// Node is a parsed expression: a Literal, a ChainPath or a Call.
type Node interface {
	Pos() int
	String() string
	node()
}

// Literal is a constant. Quoted strings, numbers, booleans and null are
// typed; unparseable expression text becomes a string literal.
type Literal struct {
	Value  value.Value
	Quoted bool
	Offset int
}

// ChainPath is a navigation path resolved against the context.
type ChainPath struct {
	Path   string
	Offset int
}

// Call invokes a registered function with evaluated arguments.
type Call struct {
	Name   string
	Args   []Node
	Offset int
}

func (*Literal) node()   {}
func (*ChainPath) node() {}
func (*Call) node()      {}

func (n *Literal) Pos() int   { return n.Offset }
func (n *ChainPath) Pos() int { return n.Offset }
func (n *Call) Pos() int      { return n.Offset }

func (n *Literal) String() string {
	switch v := n.Value.(type) {
	case nil:
		return "null"
	case value.String:
		if n.Quoted {
			return strconv.Quote(string(v))
		}
		return string(v)
	default:
		return v.String()
	}
}

func (n *ChainPath) String() string { return n.Path }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// ErrExpressionTooDeep is returned when calls nest deeper than the
// configured limit.
var ErrExpressionTooDeep = errors.New("expression nested too deeply")

// SyntaxError reports a malformed function call.
type SyntaxError struct {
	Expr    string
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}
