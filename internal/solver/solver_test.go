package solver

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_PropagatesWildUphill(t *testing.T) {
	cs := constraints.New()
	src := cs.FreshVar("src", atoms.Other)
	dst := cs.FreshVar("dst", atoms.Other)
	l := loc.PersistentSourceLocation{}

	cs.AssertGeq(src, atoms.Wild, "unsafe-cast", l, constraints.Checked)
	cs.AssertGeq(dst, src, "assignment", l, constraints.Checked)

	res := Solve(cs, Options{})
	require.True(t, res.OK)

	env := cs.Env()
	assert.Equal(t, atoms.Wild, env.ResolveChecked(src))
	assert.Equal(t, atoms.Wild, env.ResolveChecked(dst), "dst >= src and src is Wild, so dst must be pushed to Wild too")
}

func TestSolve_UnrelatedVariablesStayPtr(t *testing.T) {
	cs := constraints.New()
	a := cs.FreshVar("a", atoms.Other)
	b := cs.FreshVar("b", atoms.Other)
	l := loc.PersistentSourceLocation{}
	cs.AssertGeq(a, atoms.Wild, "unsafe-cast", l, constraints.Checked)

	res := Solve(cs, Options{})
	require.True(t, res.OK)
	env := cs.Env()
	assert.Equal(t, atoms.Wild, env.ResolveChecked(a))
	assert.Equal(t, atoms.Ptr, env.ResolveChecked(b), "b shares no constraint with a and stays at its Ptr default")
}

func TestSolve_CeilingViolationDemotesToWild(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("v", atoms.Other)
	l := loc.PersistentSourceLocation{}
	// Ptr >= v is a ceiling: v must not exceed Ptr. Forcing v above Ptr
	// first, then asserting the ceiling, produces a genuine conflict.
	cs.AssertGeq(v, atoms.Arr, "array-use", l, constraints.Checked)
	cs.AssertGeq(atoms.Ptr, v, "declared-as-ptr", l, constraints.Checked)

	res := Solve(cs, Options{})
	require.True(t, res.OK)
	assert.NotEmpty(t, res.Conflicts, "a ceiling violation must surface as a conflict")
	assert.Equal(t, atoms.Wild, cs.Env().ResolveChecked(v), "the offending variable is demoted straight to Wild")
}

func TestSolve_ImplicationFires(t *testing.T) {
	cs := constraints.New()
	p := cs.FreshVar("p", atoms.Other)
	q := cs.FreshVar("q", atoms.Other)
	l := loc.PersistentSourceLocation{}

	premise := constraints.Geq{Lhs: p, Rhs: atoms.Wild, Sub: constraints.Checked}
	conclusion := constraints.Geq{Lhs: q, Rhs: atoms.Wild, Sub: constraints.Checked}
	require.NoError(t, cs.AssertImplies(premise, conclusion))

	cs.AssertGeq(p, atoms.Wild, "unsafe-cast", l, constraints.Checked)

	res := Solve(cs, Options{})
	require.True(t, res.OK)
	assert.Equal(t, atoms.Wild, cs.Env().ResolveChecked(q), "premise p>=Wild holds once p is Wild, so the conclusion q>=Wild becomes active")
}

func TestSolve_AllTypesRefinesPtypeWhenNotWild(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("v", atoms.Other)
	l := loc.PersistentSourceLocation{}
	cs.AssertGeq(v, atoms.Arr, "array-use", l, constraints.Ptype)

	res := Solve(cs, Options{AllTypes: true})
	require.True(t, res.OK)
	assert.Equal(t, atoms.Arr, cs.Env().ResolvePtype(v))
	assert.NotEqual(t, atoms.Wild, cs.Env().ResolveChecked(v))
}

func TestPublish_ChecksWildFirst(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("v", atoms.Other)
	cs.Env().Set(v, constraints.Solution{Checked: atoms.Wild, Ptype: atoms.Arr})

	published := Publish(cs)
	assert.Equal(t, atoms.Wild, published[v])
}

func TestSortedVars_OrdersByID(t *testing.T) {
	cs := constraints.New()
	b := cs.FreshVar("b", atoms.Other)
	a := cs.FreshVar("a", atoms.Other)
	vs := sortedVars(cs)
	require.Len(t, vs, 2)
	assert.Equal(t, b.ID, vs[0].ID)
	assert.Equal(t, a.ID, vs[1].ID)
}
