package filter

import "fmt"

type CmpOp int

const (
	OpEQ CmpOp = iota
	OpNE
	OpLE
	OpGE
	OpLT
	OpGT
)

func (o CmpOp) String() string {
	switch o {
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	case OpLE:
		return "<="
	case OpGE:
		return ">="
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Expr is a node of a single column key predicate. The planner only ever evaluates the
// shape Cmp{ColRef, IntLit}; other shapes exist so malformed predicates can be detected and
// rejected rather than silently planned.
type Expr interface {
	String() string
}

type ColRef struct {
	Col string
}

func (c *ColRef) String() string {
	return c.Col
}

type IntLit struct {
	Val int64
}

func (l *IntLit) String() string {
	return fmt.Sprintf("%d", l.Val)
}

type Cmp struct {
	Op    CmpOp
	Left  Expr
	Right Expr
}

func (c *Cmp) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}
