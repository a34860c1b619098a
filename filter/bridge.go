package filter

import (
	log "github.com/sirupsen/logrus"
	"github.com/squareup/rangeplan/errors"
)

// Translate converts a partition key filter to the foreign predicate form the external
// discovery service understands. Only the narrow shape needed for key range pruning is
// supported: one or two conjuncts, each a binary comparison of the column against an integer
// literal. The filter is validated here again even though callers are expected to have
// checked the shape upstream; the input is never mutated.
func Translate(f *ColumnFilter) (*ForeignExpr, error) {
	log.Debugf("translating partition filter on column %s", f.Col)
	switch len(f.Conjuncts) {
	case 1:
		expr, err := translateConjunct(f.Col, f.Conjuncts[0])
		if err != nil {
			return nil, err
		}
		log.Debugf("translated single conjunct to %s", expr)
		return expr, nil
	case 2:
		// two conjuncts express a lower and an upper bound on the column; range consistency
		// is the caller's responsibility
		left, err := translateConjunct(f.Col, f.Conjuncts[0])
		if err != nil {
			return nil, err
		}
		right, err := translateConjunct(f.Col, f.Conjuncts[1])
		if err != nil {
			return nil, err
		}
		expr := NewForeignBinary(ForeignOpAnd, left, right)
		log.Debugf("translated two conjuncts to %s", expr)
		return expr, nil
	case 0:
		return nil, errors.NewUnsupportedPredicateError(f.Col, "filter has no conjuncts")
	default:
		return nil, errors.NewTooManyConjunctsError(f.Col, len(f.Conjuncts))
	}
}

func translateConjunct(col string, conjunct Expr) (*ForeignExpr, error) {
	cmp, ok := conjunct.(*Cmp)
	if !ok {
		return nil, errors.NewUnsupportedPredicateError(col, "conjunct must be a binary comparison")
	}
	if _, ok := cmp.Left.(*ColRef); !ok {
		return nil, errors.NewUnsupportedPredicateError(col, "left operand must be a column reference")
	}
	lit, ok := cmp.Right.(*IntLit)
	if !ok {
		return nil, errors.NewUnsupportedPredicateError(col, "comparison must be against an integer literal")
	}
	op, err := foreignOp(col, cmp.Op)
	if err != nil {
		return nil, err
	}
	return NewForeignBinary(op, NewForeignColumn(col), NewForeignLiteral(lit.Val)), nil
}

func foreignOp(col string, op CmpOp) (ForeignOp, error) {
	switch op {
	case OpEQ:
		return ForeignOpEQ, nil
	case OpNE:
		return ForeignOpNE, nil
	case OpLE:
		return ForeignOpLE, nil
	case OpGE:
		return ForeignOpGE, nil
	case OpLT:
		return ForeignOpLT, nil
	case OpGT:
		return ForeignOpGT, nil
	default:
		return "", errors.NewUnsupportedPredicateError(col, "comparison operator "+op.String()+" is not supported")
	}
}
