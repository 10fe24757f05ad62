package query

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenIdentifier TokenType = iota
	TokenString
	TokenNumber
	TokenBoolean
	TokenNull
	TokenOperator
	TokenDot
	TokenComma
	TokenLParen
	TokenRParen
	TokenEOF
)

// Token is a single lexical unit. Pos is the zero-based offset of the
// token's first character in the input string.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}
