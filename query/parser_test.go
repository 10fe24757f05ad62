package query

import (
	"errors"
	"strings"
	"testing"
)

func TestParser(t *testing.T) {
	testCases := []struct {
		input    string
		expected string // prefix form from Node.String()
	}{
		{
			input:    "Age > 18",
			expected: ">(Age, '18')",
		},
		{
			input:    `a == 1 || b == 2 && c == 3`,
			expected: "||(==(a, '1'), &&(==(b, '2'), ==(c, '3')))",
		},
		{
			input:    `(a == 1 || b == 2) && c == 3`,
			expected: "&&(||(==(a, '1'), ==(b, '2')), ==(c, '3'))",
		},
		{
			input:    `!(Active == true)`,
			expected: "!(==(Active, 'true'))",
		},
		{
			input:    `!Active`,
			expected: "!(Active)",
		},
		{
			input:    `!!Active`,
			expected: "!(!(Active))",
		},
		{
			input:    `Name.StartsWith("J")`,
			expected: "Name.StartsWith('J')",
		},
		{
			input:    `Order.Customer.Name.EndsWith("son")`,
			expected: "Order.Customer.Name.EndsWith('son')",
		},
		{
			input:    `Address.City == "Boston"`,
			expected: "==(Address.City, 'Boston')",
		},
		{
			input:    `Between(1, 5)`,
			expected: "Between('1', '5')",
		},
		{
			input:    `X == null`,
			expected: "==(X, null)",
		},
		{
			input:    `Age >= 18 && Age <= 65`,
			expected: "&&(>=(Age, '18'), <=(Age, '65'))",
		},
		{
			input:    `Name != "J\"ane"`,
			expected: `!=(Name, 'J"ane')`,
		},
		{
			input:    `Score > 1.5`,
			expected: ">(Score, '1.5')",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			ast, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("parser error: %v", err)
			}
			result := ast.String()
			if result != tc.expected {
				t.Errorf("expected AST %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	testCases := []struct {
		input       string
		expectedMsg string
	}{
		{"Age > ", "unexpected token"},
		{"Age > 1 extra", "unexpected trailing token"},
		{"(Age > 1", `missing ")"`},
		{"Age. == 1", `expected identifier after "."`},
		{`Name.StartsWith("J"`, `missing ")" after argument list`},
		{"> 1", "unexpected token"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatal("expected a parse error, got none")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(parseErr.Msg, tc.expectedMsg) {
				t.Errorf("expected message containing %q, got %q", tc.expectedMsg, parseErr.Msg)
			}
		})
	}
}

func TestParserTrailingTokenPosition(t *testing.T) {
	_, err := Parse("Age > 1 extra")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.Pos != 8 {
		t.Errorf("expected position 8, got %d", parseErr.Pos)
	}
	if parseErr.Token != "extra" {
		t.Errorf("expected offending token %q, got %q", "extra", parseErr.Token)
	}
}

func TestNestingDepthCeiling(t *testing.T) {
	within := strings.Repeat("(", MaxNestingDepth) + "Age" + strings.Repeat(")", MaxNestingDepth)
	if _, err := Parse(within); err != nil {
		t.Fatalf("expected %d nested parentheses to parse, got error: %v", MaxNestingDepth, err)
	}

	beyond := strings.Repeat("(", MaxNestingDepth+1) + "Age" + strings.Repeat(")", MaxNestingDepth+1)
	_, err := Parse(beyond)
	if err == nil {
		t.Fatalf("expected %d nested parentheses to fail", MaxNestingDepth+1)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(parseErr.Msg, "nesting depth") {
		t.Errorf("expected a nesting depth message, got %q", parseErr.Msg)
	}
}

func TestParserLexErrorPassthrough(t *testing.T) {
	_, err := Parse("Age = 1")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
}
