package predql

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/predql/predql/query"
)

// binder resolves an AST against a schema, producing the bound tree. It
// is purely structural: it never evaluates the predicate.
type binder struct {
	schema *Schema
}

func bindExpression(schema *Schema, root query.Node) (boundNode, error) {
	b := &binder{schema: schema}
	node, err := b.bind(root)
	if err != nil {
		return nil, err
	}
	if node.resultKind() != KindBool {
		return nil, bindErrf(schema.TypeName, "", "expression does not evaluate to a boolean")
	}
	return node, nil
}

func (b *binder) bind(node query.Node) (boundNode, error) {
	switch n := node.(type) {
	case *query.BinaryNode:
		return b.bindBinary(n)
	case *query.UnaryNode:
		return b.bindUnary(n)
	case *query.MemberPathNode:
		return b.bindMemberPath(n)
	case *query.ConstantNode:
		return bindConstant(n), nil
	case *query.MethodCallNode:
		return b.bindCall(n)
	default:
		return nil, &UnsupportedError{Shape: fmt.Sprintf("%T", node)}
	}
}

func (b *binder) bindBinary(n *query.BinaryNode) (boundNode, error) {
	left, err := b.bind(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.bind(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "&&", "||":
		if left.resultKind() != KindBool || right.resultKind() != KindBool {
			return nil, bindErrf(b.schema.TypeName, n.Op, "operator %q requires boolean operands", n.Op)
		}
		return &boundBinary{Op: n.Op, Kind: KindBool, Left: left, Right: right}, nil
	case "==", "!=":
		kind, l, r, err := b.unifyOperands(n.Op, left, right, false)
		if err != nil {
			return nil, err
		}
		return &boundBinary{Op: n.Op, Kind: KindBool, CompareKind: kind, Left: l, Right: r}, nil
	case ">", ">=", "<", "<=":
		kind, l, r, err := b.unifyOperands(n.Op, left, right, true)
		if err != nil {
			return nil, err
		}
		return &boundBinary{Op: n.Op, Kind: KindBool, CompareKind: kind, Left: l, Right: r}, nil
	default:
		// Unreachable through the public grammar; the parser's operator
		// set and this switch are kept in lockstep.
		return nil, &UnsupportedError{Shape: fmt.Sprintf("binary operator %q", n.Op)}
	}
}

func (b *binder) bindUnary(n *query.UnaryNode) (boundNode, error) {
	if n.Op != "!" {
		return nil, &UnsupportedError{Shape: fmt.Sprintf("unary operator %q", n.Op)}
	}
	operand, err := b.bind(n.Operand)
	if err != nil {
		return nil, err
	}
	if operand.resultKind() != KindBool {
		return nil, bindErrf(b.schema.TypeName, "!", `operator "!" requires a boolean operand`)
	}
	return &boundUnary{Op: "!", Operand: operand}, nil
}

func (b *binder) bindMemberPath(n *query.MemberPathNode) (boundNode, error) {
	chain := make([]*Field, 0, len(n.Segments))
	current := b.schema
	for i, seg := range n.Segments {
		if current == nil {
			return nil, b.pathError(n.Segments)
		}
		f, ok := current.Field(seg)
		if !ok {
			return nil, b.pathError(n.Segments)
		}
		if i < len(n.Segments)-1 && f.Kind != KindObject {
			return nil, b.pathError(n.Segments)
		}
		chain = append(chain, f)
		current = f.Schema
	}
	return &boundField{Path: n.Segments, Chain: chain}, nil
}

func (b *binder) pathError(segments []string) *BindError {
	path := strings.Join(segments, ".")
	return bindErrf(b.schema.TypeName, path, "type %s has no member %q", b.schema.TypeName, path)
}

func (b *binder) bindCall(n *query.MethodCallNode) (boundNode, error) {
	if n.Target == nil {
		return nil, bindErrf(b.schema.TypeName, n.Name,
			"method %q must be called on a member of %s, not on the parameter itself", n.Name, b.schema.TypeName)
	}
	target, err := b.bind(n.Target)
	if err != nil {
		return nil, err
	}

	args := make([]boundNode, len(n.Args))
	argKinds := make([]Kind, len(n.Args))
	for i, a := range n.Args {
		bound, err := b.bind(a)
		if err != nil {
			return nil, err
		}
		args[i] = bound
		argKinds[i] = bound.resultKind()
	}

	m := lookupMethod(target.resultKind(), n.Name, argKinds)
	if m == nil {
		return nil, bindErrf(b.schema.TypeName, n.Name,
			"type %s has no method %q matching the given arguments", b.targetTypeName(target), n.Name)
	}
	for i := range args {
		if argKinds[i] != m.Params[i] {
			args[i] = convertArg(args[i], m.Params[i])
		}
	}
	return &boundCall{Method: m, Target: target, Args: args}, nil
}

func (b *binder) targetTypeName(target boundNode) string {
	if f, ok := target.(*boundField); ok {
		last := f.Chain[len(f.Chain)-1]
		if last.Kind == KindObject && last.Schema != nil {
			return last.Schema.TypeName
		}
	}
	return target.resultKind().String()
}

// unifyOperands reconciles the kinds on either side of a comparison.
// Constants adapt to the opposing side's kind; the only cross-kind pair
// left after that is int against float, which widens. ordered restricts
// the result to kinds that admit relational comparison.
func (b *binder) unifyOperands(op string, left, right boundNode, ordered bool) (Kind, boundNode, boundNode, error) {
	lk, rk := left.resultKind(), right.resultKind()

	// Null participates in equality checks only.
	if lk == KindNull || rk == KindNull {
		if ordered {
			return 0, nil, nil, bindErrf(b.schema.TypeName, op, "operator %q cannot compare against null", op)
		}
		return KindNull, left, right, nil
	}

	if c, ok := right.(*boundConst); ok && rk != lk {
		if cc, done := coerceConst(c, lk); done {
			right, rk = cc, lk
		}
	}
	if c, ok := left.(*boundConst); ok && lk != rk {
		if cc, done := coerceConst(c, rk); done {
			left, lk = cc, rk
		}
	}

	kind := lk
	if lk != rk {
		if (lk == KindInt && rk == KindFloat) || (lk == KindFloat && rk == KindInt) {
			kind = KindFloat
		} else {
			return 0, nil, nil, bindErrf(b.schema.TypeName, op, "operator %q cannot compare %s with %s", op, lk, rk)
		}
	}
	if kind == KindObject {
		return 0, nil, nil, bindErrf(b.schema.TypeName, op, "operator %q cannot compare object values", op)
	}
	if ordered {
		switch kind {
		case KindInt, KindFloat, KindString, KindTime:
		default:
			return 0, nil, nil, bindErrf(b.schema.TypeName, op, "operator %q cannot order %s values", op, kind)
		}
	}
	return kind, left, right, nil
}

// bindConstant infers a concrete kind from the raw literal text, trying
// integer, then float, then boolean, else string. The lexer does not tag
// whether a literal was quoted, so quoted text is subject to the same
// inference.
func bindConstant(n *query.ConstantNode) *boundConst {
	if n.Null {
		return &boundConst{Kind: KindNull, Raw: "null"}
	}
	raw := n.Raw
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &boundConst{Kind: KindInt, Value: i, Raw: raw}
	}
	if f, ok := parseFloatLoose(raw); ok {
		return &boundConst{Kind: KindFloat, Value: f, Raw: raw}
	}
	if strings.EqualFold(raw, "true") {
		return &boundConst{Kind: KindBool, Value: true, Raw: raw}
	}
	if strings.EqualFold(raw, "false") {
		return &boundConst{Kind: KindBool, Value: false, Raw: raw}
	}
	return &boundConst{Kind: KindString, Value: raw, Raw: raw}
}

// parseFloatLoose tolerates thousands separators, e.g. "1,234.5".
func parseFloatLoose(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && strings.Contains(raw, ",") {
		f, err = strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	}
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// coerceConst re-types a constant toward the wanted kind when its raw
// text supports that reading.
func coerceConst(c *boundConst, want Kind) (*boundConst, bool) {
	switch want {
	case KindString:
		return &boundConst{Kind: KindString, Value: c.Raw, Raw: c.Raw}, true
	case KindFloat:
		if c.Kind == KindInt {
			return &boundConst{Kind: KindFloat, Value: float64(c.Value.(int64)), Raw: c.Raw}, true
		}
	case KindTime:
		if t, err := dateparse.ParseAny(c.Raw); err == nil {
			return &boundConst{Kind: KindTime, Value: t, Raw: c.Raw}, true
		}
	}
	return c, false
}

func convertArg(arg boundNode, want Kind) boundNode {
	if c, ok := arg.(*boundConst); ok {
		if cc, done := coerceConst(c, want); done {
			return cc
		}
	}
	return &boundConvert{To: want, Operand: arg}
}
