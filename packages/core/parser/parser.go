package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

// DefaultMaxDepth is the call nesting limit used when none is configured.
const DefaultMaxDepth = 64

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	decimalPattern = regexp.MustCompile(`^-?\d+\.\d+$`)
	chainPattern   = regexp.MustCompile(`^[A-Za-z0-9_.\[\]*]+$`)
)

type Option func(*Parser)

// WithMaxDepth limits how deeply function calls may nest. Values below one
// fall back to DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

type Parser struct {
	input    string
	tokens   []Token
	pos      int
	maxDepth int
}

func NewParser(input string, opts ...Option) *Parser {
	p := &Parser{
		input:    input,
		tokens:   Tokenize(input),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse classifies expr as a function call, a chain path or a literal.
func Parse(expr string, opts ...Option) (Node, error) {
	return NewParser(expr, opts...).Parse()
}

func (p *Parser) Parse() (Node, error) {
	p.pos = 0
	call, ok, err := p.tryCall(0, false)
	if err != nil {
		return nil, err
	}
	if ok {
		return call, nil
	}

	text := strings.TrimSpace(p.input)
	offset := len(p.input) - len(strings.TrimLeft(p.input, " \t\r\n"))
	return classify(text, offset), nil
}

func (p *Parser) cur() Token {
	return p.tokenAt(p.pos)
}

func (p *Parser) tokenAt(i int) Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// tryCall parses name(args) at the current token. It reports false, with the
// position unspecified, when the tokens do not form a complete call that ends
// the expression.
func (p *Parser) tryCall(depth int, inArgs bool) (*Call, bool, error) {
	name := p.cur()
	if name.Type != TokenWord || !isIdentifier(name.Value) {
		return nil, false, nil
	}
	open := p.tokenAt(p.pos + 1)
	if open.Type != TokenLeftParen || open.Offset != name.End {
		return nil, false, nil
	}
	if depth >= p.maxDepth {
		return nil, false, fmt.Errorf("%w: limit is %d", ErrExpressionTooDeep, p.maxDepth)
	}
	p.pos += 2

	call := &Call{Name: name.Value, Offset: name.Offset}
	if p.cur().Type == TokenRightParen {
		p.pos++
	} else {
		for done := false; !done; {
			arg, err := p.parseArgument(depth + 1)
			if err != nil {
				return nil, false, err
			}
			call.Args = append(call.Args, arg)

			switch p.cur().Type {
			case TokenComma:
				p.pos++
			case TokenRightParen:
				p.pos++
				done = true
			default:
				return nil, false, &SyntaxError{
					Expr:    p.input,
					Offset:  name.Offset,
					Message: fmt.Sprintf("unterminated call to %s", name.Value),
				}
			}
		}
	}

	if !p.atTerminator(inArgs) {
		return nil, false, nil
	}
	return call, true, nil
}

func (p *Parser) atTerminator(inArgs bool) bool {
	switch p.cur().Type {
	case TokenEOF:
		return true
	case TokenComma, TokenRightParen:
		return inArgs
	}
	return false
}

func isArgumentEnd(tok Token) bool {
	return tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenRightParen
}

func (p *Parser) parseArgument(depth int) (Node, error) {
	start := p.pos
	call, ok, err := p.tryCall(depth, true)
	if err != nil {
		return nil, err
	}
	if ok {
		return call, nil
	}
	p.pos = start

	if tok := p.cur(); tok.Type == TokenString && isArgumentEnd(p.tokenAt(p.pos+1)) {
		if tok.Unterminated {
			return nil, p.unterminatedString(tok)
		}
		p.pos++
		return &Literal{Value: value.String(tok.Value), Quoted: true, Offset: tok.Offset}, nil
	}

	text, offset, err := p.collectArgument()
	if err != nil {
		return nil, err
	}
	return classifyArgument(text, offset), nil
}

// collectArgument consumes the raw tokens of one argument, stopping at a
// comma or closing parenthesis that is not nested.
func (p *Parser) collectArgument() (string, int, error) {
	start := p.cur().Offset
	end := start
	depth := 0
	for {
		tok := p.cur()
		if tok.Type == TokenEOF {
			break
		}
		if depth == 0 && (tok.Type == TokenComma || tok.Type == TokenRightParen) {
			break
		}
		if tok.Unterminated {
			return "", 0, p.unterminatedString(tok)
		}
		switch tok.Type {
		case TokenLeftParen:
			depth++
		case TokenRightParen:
			depth--
		}
		end = tok.End
		p.pos++
	}
	return strings.TrimSpace(p.input[start:end]), start, nil
}

func (p *Parser) unterminatedString(tok Token) error {
	return &SyntaxError{Expr: p.input, Offset: tok.Offset, Message: "unterminated string literal"}
}

func classifyArgument(text string, offset int) Node {
	switch {
	case integerPattern.MatchString(text):
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return &Literal{Value: value.Int(n), Offset: offset}
		}
		f, _ := strconv.ParseFloat(text, 64)
		return &Literal{Value: value.Float(f), Offset: offset}
	case decimalPattern.MatchString(text):
		f, _ := strconv.ParseFloat(text, 64)
		return &Literal{Value: value.Float(f), Offset: offset}
	case strings.EqualFold(text, "true"):
		return &Literal{Value: value.Bool(true), Offset: offset}
	case strings.EqualFold(text, "false"):
		return &Literal{Value: value.Bool(false), Offset: offset}
	case strings.EqualFold(text, "null"):
		return &Literal{Value: nil, Offset: offset}
	}
	return classify(text, offset)
}

func classify(text string, offset int) Node {
	if chainPattern.MatchString(text) {
		return &ChainPath{Path: text, Offset: offset}
	}
	return &Literal{Value: value.String(text), Offset: offset}
}

// Calls returns every call in n, outermost first.
func Calls(n Node) []*Call {
	var out []*Call
	var visit func(Node)
	visit = func(n Node) {
		c, ok := n.(*Call)
		if !ok {
			return
		}
		out = append(out, c)
		for _, a := range c.Args {
			visit(a)
		}
	}
	visit(n)
	return out
}
