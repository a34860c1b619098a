package filter

import (
	"fmt"
	"sort"
	"strings"
)

// KeyFilter is a predicate over one clustering key column. Matches is the membership test
// partition pruning runs against each partition's key value at the filter's ordinal position.
type KeyFilter interface {
	Matches(v interface{}) bool

	String() string
}

// ColumnFilter holds up to a handful of conjuncts over a single column. It is the only filter
// form the predicate bridge can translate for dynamic partition discovery.
type ColumnFilter struct {
	Col       string
	Conjuncts []Expr
}

var _ KeyFilter = &ColumnFilter{}

func NewColumnFilter(col string, conjuncts ...Expr) *ColumnFilter {
	return &ColumnFilter{Col: col, Conjuncts: conjuncts}
}

// Matches evaluates every conjunct against v. A malformed conjunct or a non integer value
// never matches.
func (f *ColumnFilter) Matches(v interface{}) bool {
	iv, ok := asInt64(v)
	if !ok {
		return false
	}
	for _, conjunct := range f.Conjuncts {
		cmp, ok := conjunct.(*Cmp)
		if !ok {
			return false
		}
		lit, ok := cmp.Right.(*IntLit)
		if !ok {
			return false
		}
		if !evalCmp(cmp.Op, iv, lit.Val) {
			return false
		}
	}
	return true
}

func (f *ColumnFilter) String() string {
	strs := make([]string, len(f.Conjuncts))
	for i, c := range f.Conjuncts {
		strs[i] = c.String()
	}
	return strings.Join(strs, " and ")
}

func evalCmp(op CmpOp, lhs int64, rhs int64) bool {
	switch op {
	case OpEQ:
		return lhs == rhs
	case OpNE:
		return lhs != rhs
	case OpLE:
		return lhs <= rhs
	case OpGE:
		return lhs >= rhs
	case OpLT:
		return lhs < rhs
	case OpGT:
		return lhs > rhs
	default:
		return false
	}
}

// InFilter accepts the key values in a fixed integer set. It cannot be bridged to a foreign
// predicate, it only serves static pruning.
type InFilter struct {
	Col  string
	vals map[int64]struct{}
}

var _ KeyFilter = &InFilter{}

func NewInFilter(col string, vals ...int64) *InFilter {
	m := make(map[int64]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InFilter{Col: col, vals: m}
}

func (f *InFilter) Matches(v interface{}) bool {
	iv, ok := asInt64(v)
	if !ok {
		return false
	}
	_, ok = f.vals[iv]
	return ok
}

func (f *InFilter) String() string {
	vals := make([]int64, 0, len(f.vals))
	for v := range f.vals {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%s in (%s)", f.Col, strings.Join(strs, ", "))
}

func asInt64(v interface{}) (int64, bool) {
	switch tv := v.(type) {
	case int64:
		return tv, true
	case int:
		return int64(tv), true
	case int32:
		return int64(tv), true
	case float64:
		// JSON decoded key values arrive as float64
		if tv == float64(int64(tv)) {
			return int64(tv), true
		}
		return 0, false
	default:
		return 0, false
	}
}
