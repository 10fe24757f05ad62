package query

import (
	"errors"
	"strings"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `Age >= 18 && Name == "Jane" || !(Active != true)`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdentifier, "Age"},
		{TokenOperator, ">="},
		{TokenNumber, "18"},
		{TokenOperator, "&&"},
		{TokenIdentifier, "Name"},
		{TokenOperator, "=="},
		{TokenString, "Jane"},
		{TokenOperator, "||"},
		{TokenOperator, "!"},
		{TokenLParen, "("},
		{TokenIdentifier, "Active"},
		{TokenOperator, "!="},
		{TokenBoolean, "true"},
		{TokenRParen, ")"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerMemberPathAndCall(t *testing.T) {
	input := `Order.Customer.Name.StartsWith("J", 1.5)`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdentifier, "Order"},
		{TokenDot, "."},
		{TokenIdentifier, "Customer"},
		{TokenDot, "."},
		{TokenIdentifier, "Name"},
		{TokenDot, "."},
		{TokenIdentifier, "StartsWith"},
		{TokenLParen, "("},
		{TokenString, "J"},
		{TokenComma, ","},
		{TokenNumber, "1.5"},
		{TokenRParen, ")"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// The character after a backslash is copied verbatim, so \n stays the
// letter n and \\ collapses to a single backslash.
func TestLexerStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"a\nb"`, "anb"},
		{`"q\"x"`, `q"x`},
		{`"s\\t"`, `s\t`},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokens[0].Type != TokenString {
				t.Fatalf("expected a string token, got type %d", tokens[0].Type)
			}
			if tokens[0].Literal != tt.expected {
				t.Errorf("expected literal %q, got %q", tt.expected, tokens[0].Literal)
			}
		})
	}
}

func TestLexerNullAndKeywordCase(t *testing.T) {
	tokens, err := Lex("null True false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []TokenType{TokenNull, TokenIdentifier, TokenBoolean, TokenEOF}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("tokens[%d] - expected type %d, got %d (%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, err := Lex("Age > 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	positions := []int{0, 4, 6, 7}
	for i, want := range positions {
		if tokens[i].Pos != want {
			t.Errorf("tokens[%d] - expected position %d, got %d", i, want, tokens[i].Pos)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input       string
		expectedPos int
	}{
		{"Age = 1", 4},
		{"a & b", 2},
		{"a | b", 2},
		{"Age # 1", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatal("expected a lex error, got none")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T: %v", err, err)
			}
			if lexErr.Pos != tt.expectedPos {
				t.Errorf("expected position %d, got %d", tt.expectedPos, lexErr.Pos)
			}
		})
	}
}

func TestLexerMultibyteCharacter(t *testing.T) {
	_, err := Lex("€ > 1")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if lexErr.Pos != 0 {
		t.Errorf("expected position 0, got %d", lexErr.Pos)
	}
	if !strings.Contains(lexErr.Msg, "€") {
		t.Errorf("expected the message to name the character, got %q", lexErr.Msg)
	}

	// Multibyte characters are fine inside string literals.
	tokens, err := Lex(`Name == "€100"`)
	if err != nil {
		t.Fatalf("lexing a multibyte string literal failed: %v", err)
	}
	if tokens[2].Literal != "€100" {
		t.Errorf("expected literal %q, got %q", "€100", tokens[2].Literal)
	}
}
