package query

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LexError reports an invalid character or malformed operator. Pos is the
// zero-based position of the offending character.
type LexError struct {
	Pos  int
	Char byte
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Lexer produces tokens from a filter expression one at a time. A Lexer is
// single-use; create a new one per input.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex materializes the whole token stream. When err is nil the returned
// slice always ends with an EOF token.
func Lex(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token, or a *LexError on invalid input.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Literal: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Literal: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Type: TokenComma, Literal: ",", Pos: start}, nil
	case '.':
		l.pos++
		return Token{Type: TokenDot, Literal: ".", Pos: start}, nil
	case '"':
		return l.readString(), nil
	case '=':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: "==", Pos: start}, nil
		}
		return Token{}, &LexError{Pos: start, Char: ch, Msg: `unexpected "=", did you mean "=="`}
	case '&':
		if l.peekChar() == '&' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: "&&", Pos: start}, nil
		}
		return Token{}, &LexError{Pos: start, Char: ch, Msg: `unexpected "&", did you mean "&&"`}
	case '|':
		if l.peekChar() == '|' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: "||", Pos: start}, nil
		}
		return Token{}, &LexError{Pos: start, Char: ch, Msg: `unexpected "|", did you mean "||"`}
	case '!':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: "!=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenOperator, Literal: "!", Pos: start}, nil
	case '>':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: ">=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenOperator, Literal: ">", Pos: start}, nil
	case '<':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenOperator, Literal: "<=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenOperator, Literal: "<", Pos: start}, nil
	}

	if isLetter(ch) {
		lit := l.readIdentifier()
		return Token{Type: lookupIdentifier(lit), Literal: lit, Pos: start}, nil
	}
	if isDigit(ch) {
		return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: start}, nil
	}

	// Decode the full rune so a multibyte character is reported whole,
	// at the position of its first byte.
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return Token{}, &LexError{Pos: start, Char: ch, Msg: fmt.Sprintf("unexpected character %q", r)}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// readString consumes a double-quoted literal. The character after a
// backslash is copied verbatim; there is no named escape table, so \n
// stays the letter n. A missing closing quote runs to end of input.
func (l *Lexer) readString() Token {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) {
			l.pos++
		}
		sb.WriteByte(l.input[l.pos])
		l.pos++
	}
	if l.pos < len(l.input) {
		l.pos++ // closing quote
	}
	return Token{Type: TokenString, Literal: sb.String(), Pos: start}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

// readNumber consumes digits with at most one decimal point. There is no
// exponent notation and no sign prefix.
func (l *Lexer) readNumber() string {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if isDigit(c) {
			l.pos++
			continue
		}
		if c == '.' && !seenDot && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
			seenDot = true
			l.pos++
			continue
		}
		break
	}
	return l.input[start:l.pos]
}

func lookupIdentifier(lit string) TokenType {
	switch lit {
	case "true", "false":
		return TokenBoolean
	case "null":
		return TokenNull
	}
	return TokenIdentifier
}

// Identifiers are ASCII only. Treating a byte above 0x7F as a letter
// would split multibyte characters and misreport the error position.
func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
