package query

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST node. Nodes are immutable once built.
// String renders a diagnostic prefix form used by tests.
type Node interface {
	String() string
}

// BinaryNode is a logical or comparison operation on two sub-expressions.
type BinaryNode struct {
	Op    string
	Left  Node
	Right Node
}

func (n *BinaryNode) String() string {
	return fmt.Sprintf("%s(%s, %s)", n.Op, n.Left.String(), n.Right.String())
}

// UnaryNode is a prefix operation, "!" being the only spelling the
// grammar admits.
type UnaryNode struct {
	Op      string
	Operand Node
}

func (n *UnaryNode) String() string {
	return fmt.Sprintf("%s(%s)", n.Op, n.Operand.String())
}

// MemberPathNode is a dotted access rooted at the predicate's implicit
// parameter.
type MemberPathNode struct {
	Segments []string
}

func (n *MemberPathNode) String() string {
	return strings.Join(n.Segments, ".")
}

// ConstantNode carries the raw literal text. Null marks the null literal,
// which is distinct from an empty string.
type ConstantNode struct {
	Raw  string
	Null bool
}

func (n *ConstantNode) String() string {
	if n.Null {
		return "null"
	}
	return fmt.Sprintf("'%s'", n.Raw)
}

// MethodCallNode is a single-level method invocation. Target is nil when
// the call carries no member path before the method name.
type MethodCallNode struct {
	Target Node
	Name   string
	Args   []Node
}

func (n *MethodCallNode) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	if n.Target == nil {
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s.%s(%s)", n.Target.String(), n.Name, strings.Join(args, ", "))
}
