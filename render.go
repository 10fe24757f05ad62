package predql

import (
	"fmt"
	"strconv"
	"strings"
)

// render emits the canonical grammar for a bound tree. The output parses
// back to a structurally equivalent tree; binary nodes are always fully
// parenthesized.
func render(node boundNode) (string, error) {
	switch n := node.(type) {
	case *boundBinary:
		left, err := render(n.Left)
		if err != nil {
			return "", err
		}
		right, err := render(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, n.Op, right), nil
	case *boundUnary:
		operand, err := render(n.Operand)
		if err != nil {
			return "", err
		}
		return n.Op + operand, nil
	case *boundField:
		return strings.Join(n.Path, "."), nil
	case *boundConst:
		return renderConst(n), nil
	case *boundCall:
		target, err := render(n.Target)
		if err != nil {
			return "", err
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			s, err := render(a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return fmt.Sprintf("%s.%s(%s)", target, n.Method.Name, strings.Join(args, ", ")), nil
	case *boundConvert:
		// Implicit conversions have no textual spelling.
		return render(n.Operand)
	default:
		return "", &UnsupportedError{Shape: fmt.Sprintf("%T", node)}
	}
}

func renderConst(n *boundConst) string {
	switch n.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(n.Value.(bool))
	case KindInt:
		return strconv.FormatInt(n.Value.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(n.Value.(float64), 'f', -1, 64)
	case KindTime:
		// Time constants enter as string literals; keep the original text.
		return quoteString(n.Raw)
	default:
		return quoteString(n.Value.(string))
	}
}

// quoteString escapes backslashes and double quotes. The lexer copies the
// character after a backslash verbatim, so this is the whole escape set.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
