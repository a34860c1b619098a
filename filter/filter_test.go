package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cmp(op CmpOp, col string, val int64) *Cmp {
	return &Cmp{Op: op, Left: &ColRef{Col: col}, Right: &IntLit{Val: val}}
}

func TestColumnFilterMatchesOperators(t *testing.T) {
	tests := []struct {
		op      CmpOp
		val     int64
		in      int64
		matches bool
	}{
		{OpEQ, 5, 5, true},
		{OpEQ, 5, 6, false},
		{OpNE, 5, 6, true},
		{OpNE, 5, 5, false},
		{OpLE, 5, 5, true},
		{OpLE, 5, 6, false},
		{OpGE, 5, 5, true},
		{OpGE, 5, 4, false},
		{OpLT, 5, 4, true},
		{OpLT, 5, 5, false},
		{OpGT, 5, 6, true},
		{OpGT, 5, 5, false},
	}
	for _, tt := range tests {
		f := NewColumnFilter("k", cmp(tt.op, "k", tt.val))
		require.Equal(t, tt.matches, f.Matches(tt.in), "k %s %d against %d", tt.op, tt.val, tt.in)
	}
}

func TestColumnFilterClosedRange(t *testing.T) {
	f := NewColumnFilter("k", cmp(OpGE, "k", 5), cmp(OpLE, "k", 10))
	require.False(t, f.Matches(int64(4)))
	require.True(t, f.Matches(int64(5)))
	require.True(t, f.Matches(int64(7)))
	require.True(t, f.Matches(int64(10)))
	require.False(t, f.Matches(int64(11)))
}

func TestColumnFilterAcceptsGoAndJSONIntegerForms(t *testing.T) {
	f := NewColumnFilter("k", cmp(OpEQ, "k", 5))
	require.True(t, f.Matches(5))
	require.True(t, f.Matches(int32(5)))
	require.True(t, f.Matches(int64(5)))
	require.True(t, f.Matches(float64(5)))
	require.False(t, f.Matches(5.5))
	require.False(t, f.Matches("5"))
	require.False(t, f.Matches(nil))
}

func TestMalformedConjunctNeverMatches(t *testing.T) {
	f := NewColumnFilter("k", &ColRef{Col: "k"})
	require.False(t, f.Matches(int64(5)))
	f = NewColumnFilter("k", &Cmp{Op: OpEQ, Left: &ColRef{Col: "k"}, Right: &ColRef{Col: "other"}})
	require.False(t, f.Matches(int64(5)))
}

func TestInFilter(t *testing.T) {
	f := NewInFilter("k", 5, 10)
	require.True(t, f.Matches(int64(5)))
	require.True(t, f.Matches(int64(10)))
	require.False(t, f.Matches(int64(7)))
	require.False(t, f.Matches("nope"))
	require.Equal(t, "k in (5, 10)", f.String())
}

func TestFilterStrings(t *testing.T) {
	f := NewColumnFilter("k", cmp(OpGE, "k", 5), cmp(OpLE, "k", 10))
	require.Equal(t, "k >= 5 and k <= 10", f.String())
}
