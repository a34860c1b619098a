package filter

import "fmt"

// ForeignExpr is the minimal tagged expression form the external partition discovery service
// accepts predicates in. It stands in for the metadata ecosystem's own expression tree so
// this module never links against it; the JSON encoding of a ForeignExpr is what travels in
// a discovery request.

type ForeignOp string

const (
	ForeignOpAnd ForeignOp = "and"
	ForeignOpEQ  ForeignOp = "eq"
	ForeignOpNE  ForeignOp = "ne"
	ForeignOpLE  ForeignOp = "le"
	ForeignOpGE  ForeignOp = "ge"
	ForeignOpLT  ForeignOp = "lt"
	ForeignOpGT  ForeignOp = "gt"
)

type ForeignExprKind string

const (
	ForeignKindColumn  ForeignExprKind = "column"
	ForeignKindLiteral ForeignExprKind = "literal"
	ForeignKindBinary  ForeignExprKind = "binary"
)

type ForeignExpr struct {
	Kind   ForeignExprKind `json:"kind"`
	Op     ForeignOp       `json:"op,omitempty"`
	Column string          `json:"column,omitempty"`
	Value  int64           `json:"value,omitempty"`
	Left   *ForeignExpr    `json:"left,omitempty"`
	Right  *ForeignExpr    `json:"right,omitempty"`
}

func NewForeignColumn(col string) *ForeignExpr {
	return &ForeignExpr{Kind: ForeignKindColumn, Column: col}
}

func NewForeignLiteral(val int64) *ForeignExpr {
	return &ForeignExpr{Kind: ForeignKindLiteral, Value: val}
}

func NewForeignBinary(op ForeignOp, left *ForeignExpr, right *ForeignExpr) *ForeignExpr {
	return &ForeignExpr{Kind: ForeignKindBinary, Op: op, Left: left, Right: right}
}

func (e *ForeignExpr) String() string {
	switch e.Kind {
	case ForeignKindColumn:
		return e.Column
	case ForeignKindLiteral:
		return fmt.Sprintf("%d", e.Value)
	case ForeignKindBinary:
		return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
	default:
		return fmt.Sprintf("unknown(%s)", string(e.Kind))
	}
}
