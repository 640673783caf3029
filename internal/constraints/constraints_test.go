package constraints_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshVar_SeedsPtrPtr(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	sol := cs.Env().Get(v)
	assert.Equal(t, atoms.Ptr, sol.Checked)
	assert.Equal(t, atoms.Ptr, sol.Ptype)
}

func TestAssertGeq_Dedup(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	l := loc.PersistentSourceLocation{File: "a.c", Line: 1, Column: 1}
	cs.AssertGeq(v, atoms.Wild, "reason-a", l, constraints.Checked)
	cs.AssertGeq(v, atoms.Wild, "reason-a", l, constraints.Checked)
	assert.Len(t, cs.Geqs(), 1, "structurally identical Geqs de-duplicate")
}

func TestAssertGeq_DanglingAtomPanics(t *testing.T) {
	cs := constraints.New()
	other := constraints.New()
	foreign := other.FreshVar("y", atoms.Other)
	assert.Panics(t, func() {
		cs.AssertGeq(foreign, atoms.Wild, "reason", loc.PersistentSourceLocation{}, constraints.Checked)
	})
}

func TestAssertImplies_RejectsWrongShape(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	w := cs.FreshVar("y", atoms.Other)
	badPremise := constraints.Geq{Lhs: v, Rhs: w, Sub: constraints.Checked} // Var >= Var, not Var >= Const
	conclusion := constraints.Geq{Lhs: v, Rhs: atoms.Wild, Sub: constraints.Checked}
	err := cs.AssertImplies(badPremise, conclusion)
	assert.Error(t, err)
}

func TestAssertImplies_ValidShape(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	w := cs.FreshVar("y", atoms.Other)
	premise := constraints.Geq{Lhs: v, Rhs: atoms.Arr, Sub: constraints.Checked}
	conclusion := constraints.Geq{Lhs: w, Rhs: atoms.Wild, Sub: constraints.Checked}
	require.NoError(t, cs.AssertImplies(premise, conclusion))
	assert.Len(t, cs.Implications(), 1)
}

func TestRemoveByReason(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	w := cs.FreshVar("y", atoms.Other)
	l := loc.PersistentSourceLocation{}
	cs.AssertGeq(v, atoms.Wild, "unsafe-cast", l, constraints.Checked)
	cs.AssertGeq(w, atoms.Wild, "assignment", l, constraints.Checked)

	removed := cs.RemoveByReason("unsafe-cast")
	assert.Len(t, removed, 1)
	assert.Len(t, cs.Geqs(), 1)
	assert.Equal(t, constraints.Reason("assignment"), cs.Geqs()[0].Reason)
}

func TestResetEnvironment(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	env := cs.Env()
	env.Set(v, constraints.Solution{Checked: atoms.Wild, Ptype: atoms.Wild})
	cs.ResetEnvironment()
	sol := env.Get(v)
	assert.Equal(t, atoms.Ptr, sol.Checked)
	assert.Equal(t, atoms.Ptr, sol.Ptype)
}

func TestEnvironment_Publish(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	env := cs.Env()

	// Checked Wild always publishes Wild regardless of the ptype solution.
	env.Set(v, constraints.Solution{Checked: atoms.Wild, Ptype: atoms.Ptr})
	assert.Equal(t, atoms.Wild, env.Publish(v))

	env.Set(v, constraints.Solution{Checked: atoms.Ptr, Ptype: atoms.Arr})
	assert.Equal(t, atoms.Arr, env.Publish(v))
}

func TestRemoveGeqExact(t *testing.T) {
	cs := constraints.New()
	v := cs.FreshVar("x", atoms.Other)
	l := loc.PersistentSourceLocation{}
	cs.AssertGeq(v, atoms.Wild, "reason", l, constraints.Checked)

	g, ok := cs.RemoveGeqExact(v, atoms.Wild, constraints.Checked)
	require.True(t, ok)
	assert.Equal(t, constraints.Reason("reason"), g.Reason)
	assert.Empty(t, cs.Geqs())

	_, ok = cs.RemoveGeqExact(v, atoms.Wild, constraints.Checked)
	assert.False(t, ok, "already removed")
}
