package filter

import (
	"testing"

	"github.com/squareup/rangeplan/errors"
	"github.com/stretchr/testify/require"
)

func TestTranslateSingleConjunct(t *testing.T) {
	opPairs := []struct {
		src CmpOp
		dst ForeignOp
	}{
		{OpEQ, ForeignOpEQ},
		{OpNE, ForeignOpNE},
		{OpLE, ForeignOpLE},
		{OpGE, ForeignOpGE},
		{OpLT, ForeignOpLT},
		{OpGT, ForeignOpGT},
	}
	for _, pair := range opPairs {
		f := NewColumnFilter("ts", cmp(pair.src, "ts", 42))
		expr, err := Translate(f)
		require.NoError(t, err)
		require.Equal(t, ForeignKindBinary, expr.Kind)
		require.Equal(t, pair.dst, expr.Op)
		require.Equal(t, ForeignKindColumn, expr.Left.Kind)
		require.Equal(t, "ts", expr.Left.Column)
		require.Equal(t, ForeignKindLiteral, expr.Right.Kind)
		require.Equal(t, int64(42), expr.Right.Value)
	}
}

func TestTranslateTwoConjunctsCombinesWithAnd(t *testing.T) {
	f := NewColumnFilter("ts", cmp(OpGE, "ts", 5), cmp(OpLE, "ts", 10))
	expr, err := Translate(f)
	require.NoError(t, err)
	require.Equal(t, ForeignKindBinary, expr.Kind)
	require.Equal(t, ForeignOpAnd, expr.Op)
	require.Equal(t, ForeignOpGE, expr.Left.Op)
	require.Equal(t, int64(5), expr.Left.Right.Value)
	require.Equal(t, ForeignOpLE, expr.Right.Op)
	require.Equal(t, int64(10), expr.Right.Right.Value)
	require.Equal(t, "((ts ge 5) and (ts le 10))", expr.String())
}

func TestTranslateRejectsEmptyFilter(t *testing.T) {
	_, err := Translate(NewColumnFilter("ts"))
	requireUnsupported(t, err, "no conjuncts")
}

func TestTranslateRejectsThreeConjuncts(t *testing.T) {
	f := NewColumnFilter("ts", cmp(OpGE, "ts", 1), cmp(OpLE, "ts", 10), cmp(OpNE, "ts", 5))
	_, err := Translate(f)
	requireUnsupported(t, err, "more than 2 conjuncts")
}

func TestTranslateRejectsNonComparisonConjunct(t *testing.T) {
	f := NewColumnFilter("ts", &IntLit{Val: 1})
	_, err := Translate(f)
	requireUnsupported(t, err, "binary comparison")
}

func TestTranslateRejectsNonLiteralComparand(t *testing.T) {
	f := NewColumnFilter("ts", &Cmp{Op: OpEQ, Left: &ColRef{Col: "ts"}, Right: &ColRef{Col: "other"}})
	_, err := Translate(f)
	requireUnsupported(t, err, "integer literal")
}

func TestTranslateRejectsNonColumnLeftOperand(t *testing.T) {
	f := NewColumnFilter("ts", &Cmp{Op: OpEQ, Left: &IntLit{Val: 1}, Right: &IntLit{Val: 2}})
	_, err := Translate(f)
	requireUnsupported(t, err, "column reference")
}

func TestTranslateRejectsUnknownOperator(t *testing.T) {
	f := NewColumnFilter("ts", cmp(CmpOp(42), "ts", 1))
	_, err := Translate(f)
	requireUnsupported(t, err, "not supported")
}

func TestTranslateDoesNotMutateFilter(t *testing.T) {
	first := cmp(OpGE, "ts", 5)
	second := cmp(OpLE, "ts", 10)
	f := NewColumnFilter("ts", first, second)
	_, err := Translate(f)
	require.NoError(t, err)
	require.Equal(t, 2, len(f.Conjuncts))
	require.Same(t, Expr(first), f.Conjuncts[0])
	require.Same(t, Expr(second), f.Conjuncts[1])
	require.Equal(t, OpGE, first.Op)
	require.Equal(t, int64(5), first.Right.(*IntLit).Val)
}

func requireUnsupported(t *testing.T, err error, msgPart string) {
	t.Helper()
	require.Error(t, err)
	var pe errors.PlanError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, errors.ErrorCode(errors.UnsupportedPredicate), pe.Code)
	require.Contains(t, pe.Msg, "ts")
	require.Contains(t, pe.Msg, msgPart)
}
