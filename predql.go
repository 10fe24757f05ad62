package predql

import (
	"strings"
	"unicode/utf8"

	"github.com/predql/predql/query"
)

// MaxExpressionLength bounds the input accepted by Deserialize, counted
// in characters, not bytes. Longer expressions are rejected before the
// lexer runs, so adversarial input cannot cost more than this many
// characters of work.
const MaxExpressionLength = 10000

// Deserialize compiles a filter expression against a schema.
//
// Syntax failures surface as *query.LexError or *query.ParseError; an
// expression that parses but does not resolve against the schema surfaces
// as *BindError. Failures propagate unwrapped, so errors.As tells the
// stages apart.
func Deserialize(schema *Schema, input string) (*Predicate, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrBlankExpression
	}
	if n := utf8.RuneCountInString(input); n > MaxExpressionLength {
		return nil, &LengthError{Length: n}
	}
	root, err := query.Parse(input)
	if err != nil {
		return nil, err
	}
	bound, err := bindExpression(schema, root)
	if err != nil {
		return nil, err
	}
	return &Predicate{schema: schema, root: bound, fn: compile(bound)}, nil
}

// Serialize renders a predicate back to its canonical textual form. The
// result parses back to a structurally equivalent predicate, modulo the
// full parenthesization of binary nodes.
func Serialize(p *Predicate) (string, error) {
	return render(p.root)
}
