package parser

import "strings"

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenString
	TokenLeftParen
	TokenRightParen
	TokenComma
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "word"
	case TokenString:
		return "string"
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenComma:
		return ","
	default:
		return "unknown"
	}
}

// Token is a lexical unit of an expression. Offset and End are byte offsets
// into the input; Value holds the text of string tokens without their quotes.
type Token struct {
	Type         TokenType
	Value        string
	Offset       int
	End          int
	Unterminated bool
}

type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Offset: l.pos}
	if l.atEOF() {
		tok.Type = TokenEOF
		tok.End = len(l.input)
		tok.Offset = len(l.input)
		return tok
	}

	switch l.ch {
	case '(':
		tok.Type = TokenLeftParen
		tok.Value = "("
		l.readChar()
	case ')':
		tok.Type = TokenRightParen
		tok.Value = ")"
		l.readChar()
	case ',':
		tok.Type = TokenComma
		tok.Value = ","
		l.readChar()
	case '"', '\'':
		return l.readString()
	default:
		return l.readWord()
	}
	tok.End = l.pos
	return tok
}

// Tokenize returns every token of input, ending with TokenEOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// readString reads a quoted literal. A backslash keeps the following
// character from closing the literal. Backslashes stay in the value, except
// that an escaped quote of the literal's own kind becomes the bare quote.
func (l *Lexer) readString() Token {
	quote := l.ch
	tok := Token{Type: TokenString, Offset: l.pos}
	l.readChar()

	var sb strings.Builder
	for {
		if l.atEOF() {
			tok.Unterminated = true
			break
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				sb.WriteByte('\\')
				tok.Unterminated = true
				break
			}
			if l.ch != quote {
				sb.WriteByte('\\')
			}
			sb.WriteByte(l.ch)
			l.readChar()
			continue
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}

	tok.Value = sb.String()
	tok.End = l.pos
	return tok
}

// readWord reads a run of characters up to whitespace or a delimiter. A
// backslash keeps the next character in the word, so "\," does not split.
func (l *Lexer) readWord() Token {
	tok := Token{Type: TokenWord, Offset: l.pos}
	for !l.atEOF() && !isSpace(l.ch) && !isDelimiter(l.ch) {
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				break
			}
		}
		l.readChar()
	}
	tok.End = l.pos
	tok.Value = l.input[tok.Offset:tok.End]
	return tok
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return ch == '(' || ch == ')' || ch == ',' || ch == '"' || ch == '\''
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
