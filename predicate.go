package predql

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// evalFunc is one compiled sub-expression; the whole predicate compiles
// down to a tree of these closures.
type evalFunc func(rec any) (any, error)

// boundNode is the typed intermediate form between the AST and the
// compiled closure. The renderer walks it to recover the textual grammar.
type boundNode interface {
	resultKind() Kind
}

type boundBinary struct {
	Op          string
	Kind        Kind // result kind, always bool in the public grammar
	CompareKind Kind // unified operand kind for comparison operators
	Left        boundNode
	Right       boundNode
}

func (n *boundBinary) resultKind() Kind { return n.Kind }

type boundUnary struct {
	Op      string
	Operand boundNode
}

func (n *boundUnary) resultKind() Kind { return KindBool }

type boundField struct {
	Path  []string // original dotted spelling, kept for rendering
	Chain []*Field // accessor chain from the root schema
}

func (n *boundField) resultKind() Kind { return n.Chain[len(n.Chain)-1].Kind }

type boundConst struct {
	Kind  Kind
	Value any    // string, int64, float64, bool, time.Time, or nil
	Raw   string // original literal text, kept for rendering
}

func (n *boundConst) resultKind() Kind { return n.Kind }

type boundCall struct {
	Method *builtinMethod
	Target boundNode
	Args   []boundNode
}

func (n *boundCall) resultKind() Kind { return n.Method.Result }

// boundConvert is an implicit argument conversion inserted by the binder.
// It has no textual spelling of its own.
type boundConvert struct {
	To      Kind
	Operand boundNode
}

func (n *boundConvert) resultKind() Kind { return n.To }

// Predicate is a compiled, type-bound boolean test over one record of the
// schema's type. It is immutable and safe for concurrent use.
type Predicate struct {
	schema *Schema
	root   boundNode
	fn     evalFunc
}

// Eval applies the predicate to one record. The record must be of the
// shape the schema's getters expect. An absent value reaching boolean
// position reads as false, so a method call on a missing member does not
// match rather than failing.
func (p *Predicate) Eval(rec any) (bool, error) {
	v, err := p.fn(rec)
	if err != nil {
		return false, err
	}
	return asBool(v, "predicate")
}

// asBool reads an evaluation result in boolean position. Absent values
// read as false.
func asBool(v any, where string) (bool, error) {
	if v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s requires a boolean value, got %T", where, v)
	}
	return b, nil
}

// compile turns the bound tree into nested closures, one per node.
func compile(node boundNode) evalFunc {
	switch n := node.(type) {
	case *boundConst:
		return func(rec any) (any, error) { return n.Value, nil }
	case *boundField:
		return compileField(n)
	case *boundUnary:
		return compileUnary(n)
	case *boundBinary:
		return compileBinary(n)
	case *boundCall:
		return compileCall(n)
	case *boundConvert:
		return compileConvert(n)
	default:
		return func(rec any) (any, error) {
			return nil, &UnsupportedError{Shape: fmt.Sprintf("%T", node)}
		}
	}
}

func compileField(n *boundField) evalFunc {
	chain := n.Chain
	kind := chain[len(chain)-1].Kind
	return func(rec any) (any, error) {
		current := rec
		for _, f := range chain {
			if current == nil {
				return nil, nil
			}
			current = f.Get(current)
		}
		if current == nil {
			return nil, nil
		}
		return normalize(kind, current)
	}
}

func compileUnary(n *boundUnary) evalFunc {
	operand := compile(n.Operand)
	return func(rec any) (any, error) {
		v, err := operand(rec)
		if err != nil {
			return nil, err
		}
		b, err := asBool(v, `operator "!"`)
		if err != nil {
			return nil, err
		}
		return !b, nil
	}
}

func compileBinary(n *boundBinary) evalFunc {
	left := compile(n.Left)
	right := compile(n.Right)
	op := n.Op

	switch op {
	case "&&":
		return func(rec any) (any, error) {
			lv, err := evalBool(left, rec, op)
			if err != nil {
				return nil, err
			}
			if !lv {
				return false, nil
			}
			return evalBoolAny(right, rec, op)
		}
	case "||":
		return func(rec any) (any, error) {
			lv, err := evalBool(left, rec, op)
			if err != nil {
				return nil, err
			}
			if lv {
				return true, nil
			}
			return evalBoolAny(right, rec, op)
		}
	}

	kind := n.CompareKind
	return func(rec any) (any, error) {
		lv, err := left(rec)
		if err != nil {
			return nil, err
		}
		rv, err := right(rec)
		if err != nil {
			return nil, err
		}
		return compareValues(op, kind, lv, rv)
	}
}

func evalBool(fn evalFunc, rec any, op string) (bool, error) {
	v, err := fn(rec)
	if err != nil {
		return false, err
	}
	return asBool(v, fmt.Sprintf("operator %q", op))
}

func evalBoolAny(fn evalFunc, rec any, op string) (any, error) {
	b, err := evalBool(fn, rec, op)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func compileCall(n *boundCall) evalFunc {
	target := compile(n.Target)
	args := make([]evalFunc, len(n.Args))
	for i, a := range n.Args {
		args[i] = compile(a)
	}
	m := n.Method
	return func(rec any) (any, error) {
		recv, err := target(rec)
		if err != nil {
			return nil, err
		}
		if recv == nil {
			return nil, nil
		}
		vals := make([]any, len(args))
		for i, fn := range args {
			v, err := fn(rec)
			if err != nil {
				return nil, err
			}
			if v == nil {
				return nil, nil
			}
			vals[i] = v
		}
		return m.Invoke(recv, vals), nil
	}
}

func compileConvert(n *boundConvert) evalFunc {
	operand := compile(n.Operand)
	to := n.To
	return func(rec any) (any, error) {
		v, err := operand(rec)
		if err != nil || v == nil {
			return v, err
		}
		switch to {
		case KindFloat:
			return toFloat64(v)
		case KindTime:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("cannot convert %T to time", v)
			}
			return dateparse.ParseAny(s)
		}
		return v, nil
	}
}

// compareValues applies a comparison operator under the unified operand
// kind the binder settled on. Absent values equal only null; relational
// comparison against an absent value is false.
func compareValues(op string, kind Kind, left, right any) (bool, error) {
	if left == nil || right == nil {
		switch op {
		case "==":
			return left == nil && right == nil, nil
		case "!=":
			return !(left == nil && right == nil), nil
		}
		return false, nil
	}

	switch kind {
	case KindInt:
		l, err := toInt64(left)
		if err != nil {
			return false, err
		}
		r, err := toInt64(right)
		if err != nil {
			return false, err
		}
		return compareInts(l, op, r)
	case KindFloat:
		l, err := toFloat64(left)
		if err != nil {
			return false, err
		}
		r, err := toFloat64(right)
		if err != nil {
			return false, err
		}
		return compareFloats(l, op, r)
	case KindString:
		l, lok := left.(string)
		r, rok := right.(string)
		if !lok || !rok {
			return false, fmt.Errorf("operator %q expected string operands, got %T and %T", op, left, right)
		}
		return compareStrings(l, op, r)
	case KindBool:
		l, lok := left.(bool)
		r, rok := right.(bool)
		if !lok || !rok {
			return false, fmt.Errorf("operator %q expected boolean operands, got %T and %T", op, left, right)
		}
		switch op {
		case "==":
			return l == r, nil
		case "!=":
			return l != r, nil
		}
	case KindTime:
		l, lok := left.(time.Time)
		r, rok := right.(time.Time)
		if !lok || !rok {
			return false, fmt.Errorf("operator %q expected time operands, got %T and %T", op, left, right)
		}
		return compareTimes(l, op, r)
	}
	return false, fmt.Errorf("unsupported comparison: %v %s %v", left, op, right)
}

func compareInts(left int64, op string, right int64) (bool, error) {
	switch op {
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	}
	return false, fmt.Errorf("unsupported operator: %s", op)
}

func compareFloats(left float64, op string, right float64) (bool, error) {
	switch op {
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	}
	return false, fmt.Errorf("unsupported operator: %s", op)
}

func compareStrings(left, op, right string) (bool, error) {
	switch op {
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	}
	return false, fmt.Errorf("unsupported operator: %s", op)
}

func compareTimes(left time.Time, op string, right time.Time) (bool, error) {
	switch op {
	case "==":
		return left.Equal(right), nil
	case "!=":
		return !left.Equal(right), nil
	case ">":
		return left.After(right), nil
	case ">=":
		return left.After(right) || left.Equal(right), nil
	case "<":
		return left.Before(right), nil
	case "<=":
		return left.Before(right) || left.Equal(right), nil
	}
	return false, fmt.Errorf("unsupported operator: %s", op)
}

// normalize maps a getter's dynamic value onto the canonical runtime type
// for its declared kind.
func normalize(kind Kind, v any) (any, error) {
	switch kind {
	case KindInt:
		return toInt64(v)
	case KindFloat:
		return toFloat64(v)
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string value, got %T", v)
		}
		return s, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean value, got %T", v)
		}
		return b, nil
	case KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected a time value, got %T", v)
		}
		return t, nil
	}
	return v, nil
}

func toInt64(v any) (int64, error) {
	switch i := v.(type) {
	case int:
		return int64(i), nil
	case int32:
		return int64(i), nil
	case int64:
		return i, nil
	case float64:
		return int64(i), nil
	}
	return 0, fmt.Errorf("cannot convert %T to int64", v)
}

func toFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	case int:
		return float64(f), nil
	case int32:
		return float64(f), nil
	case int64:
		return float64(f), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float64", v)
}
