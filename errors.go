package predql

import (
	"errors"
	"fmt"
)

// ErrBlankExpression is returned by Deserialize when the input is empty
// or whitespace-only.
var ErrBlankExpression = errors.New("expression is blank")

// LengthError reports input longer than MaxExpressionLength characters.
// It is raised before the lexer ever sees the input. Length is the
// character count, not the byte count.
type LengthError struct {
	Length int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("expression length %d exceeds the maximum of %d characters", e.Length, MaxExpressionLength)
}

// BindError reports an expression that parsed but could not be resolved
// against the target schema: an unknown member path, an unknown method,
// or operands whose kinds do not combine under the operator.
type BindError struct {
	TypeName string
	Member   string
	Msg      string
}

func (e *BindError) Error() string {
	return e.Msg
}

func bindErrf(typeName, member, format string, args ...any) *BindError {
	return &BindError{TypeName: typeName, Member: member, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports an AST or predicate shape with no handling
// rule. Reaching it means the grammar and the binder or renderer rule
// sets have drifted apart.
type UnsupportedError struct {
	Shape string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported construct: %s", e.Shape)
}
