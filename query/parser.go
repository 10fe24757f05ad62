package query

import (
	"fmt"
)

// MaxNestingDepth bounds how deeply parenthesized sub-expressions may
// nest before the parser refuses to recurse further.
const MaxNestingDepth = 100

// ParseError reports a syntactically invalid token stream. Pos is the
// zero-based position of the offending token, Token its literal text.
type ParseError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Parser consumes a materialized token slice by index, so no mutable
// cursor state outlives a Parse call.
type Parser struct {
	tokens []Token
	pos    int
	depth  int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes the input and returns the single AST root.
func Parse(input string) (Node, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse returns exactly one AST root. Anything left over besides EOF is
// an error.
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: fmt.Sprintf("unexpected trailing token %q", tok.Literal)}
	}
	return node, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) currentIsOperator(ops ...string) bool {
	tok := p.current()
	if tok.Type != TokenOperator {
		return false
	}
	for _, op := range ops {
		if tok.Literal == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.currentIsOperator("||") {
		op := p.advance().Literal
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.currentIsOperator("&&") {
		op := p.advance().Literal
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.currentIsOperator("==", "!=") {
		op := p.advance().Literal
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.currentIsOperator(">", ">=", "<", "<=") {
		op := p.advance().Literal
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.currentIsOperator("!") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: "!", Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenLParen:
		return p.parseGrouped()
	case TokenIdentifier:
		return p.parseMemberOrCall()
	case TokenString, TokenNumber, TokenBoolean:
		p.advance()
		return &ConstantNode{Raw: tok.Literal}, nil
	case TokenNull:
		p.advance()
		return &ConstantNode{Null: true}, nil
	default:
		return nil, &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: fmt.Sprintf("unexpected token %q", tok.Literal)}
	}
}

func (p *Parser) parseGrouped() (Node, error) {
	open := p.advance()
	if p.depth >= MaxNestingDepth {
		return nil, &ParseError{Pos: open.Pos, Token: open.Literal, Msg: fmt.Sprintf("expression exceeds the maximum nesting depth of %d", MaxNestingDepth)}
	}
	p.depth++
	defer func() { p.depth-- }()

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenRParen {
		return nil, &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: `missing ")"`}
	}
	p.advance()
	return node, nil
}

// parseMemberOrCall parses an identifier chain. When the chain is followed
// by "(", the last segment becomes the method name and everything before
// it the call's target path; a single-segment chain calls the method on
// the implicit parameter itself.
func (p *Parser) parseMemberOrCall() (Node, error) {
	segments := []string{p.advance().Literal}
	for p.current().Type == TokenDot {
		p.advance()
		tok := p.current()
		if tok.Type != TokenIdentifier {
			return nil, &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: `expected identifier after "."`}
		}
		segments = append(segments, tok.Literal)
		p.advance()
	}

	if p.current().Type != TokenLParen {
		return &MemberPathNode{Segments: segments}, nil
	}

	name := segments[len(segments)-1]
	var target Node
	if len(segments) > 1 {
		target = &MemberPathNode{Segments: segments[:len(segments)-1]}
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &MethodCallNode{Target: target, Name: name, Args: args}, nil
}

func (p *Parser) parseArgs() ([]Node, error) {
	p.advance() // consume "("
	var args []Node
	if p.current().Type != TokenRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if tok := p.current(); tok.Type != TokenRParen {
		return nil, &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: `missing ")" after argument list`}
	}
	p.advance()
	return args, nil
}
