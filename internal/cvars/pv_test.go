package cvars_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/funvibe/checkedc-infer/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simplePointerToInt() cvars.QualType {
	return cvars.QualType{
		Levels:   []cvars.QualTypeLevel{{Shape: cvars.ShapePointer}},
		BaseType: "int",
	}
}

func TestBuildPV_OriginalType(t *testing.T) {
	cs := constraints.New()
	pv := cvars.BuildPV(cs, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	assert.Equal(t, "int*", pv.OriginalType())
	require.Len(t, pv.Levels, 1)
}

func TestPV_MkString_SolvesToCheckedPointer(t *testing.T) {
	cs := constraints.New()
	pv := cvars.BuildPV(cs, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)

	env := cs.Env()
	assert.Equal(t, "_Ptr<int>", pv.MkString(env), "an unconstrained pointer solves to the tightest kind, PTR")
	assert.True(t, pv.AnyChanges(env))
}

func TestPV_ConstrainToWild_PropagatesAndRenders(t *testing.T) {
	cs := constraints.New()
	pv := cvars.BuildPV(cs, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	pv.ConstrainToWild(cs, "address-taken", loc.PersistentSourceLocation{})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)

	env := cs.Env()
	assert.Equal(t, atoms.Wild, pv.PtrKind(env))
	assert.Equal(t, "int *", pv.MkString(env))
}

func TestBuildPV_VoidBaseForcesWild(t *testing.T) {
	cs := constraints.New()
	qt := cvars.QualType{
		Levels:     []cvars.QualTypeLevel{{Shape: cvars.ShapePointer}},
		BaseType:   "void",
		BaseIsVoid: true,
	}
	pv := cvars.BuildPV(cs, qt, cvars.BuildPVOptions{NamePrefix: "v"})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)

	env := cs.Env()
	assert.Equal(t, pv.OriginalType(), pv.MkString(env), "a void-pointer base always keeps its original spelling")
	assert.False(t, pv.AnyChanges(env))
}

func TestBuildPV_UnsizedArrayHasArrLowerBound(t *testing.T) {
	cs := constraints.New()
	qt := cvars.QualType{
		Levels:   []cvars.QualTypeLevel{{Shape: cvars.ShapeUnsizedArray}},
		BaseType: "int",
	}
	pv := cvars.BuildPV(cs, qt, cvars.BuildPVOptions{NamePrefix: "a"})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)

	env := cs.Env()
	assert.NotEqual(t, atoms.Ptr, env.ResolveChecked(pv.Levels[0].Atom), "an incomplete array type must never solve down to PTR")
}

func TestBuildPV_AdjacentLevelWildImplication(t *testing.T) {
	cs := constraints.New()
	qt := cvars.QualType{
		Levels: []cvars.QualTypeLevel{
			{Shape: cvars.ShapePointer}, // outer: int **
			{Shape: cvars.ShapePointer}, // inner: int *
		},
		BaseType: "int",
	}
	pv := cvars.BuildPV(cs, qt, cvars.BuildPVOptions{NamePrefix: "pp"})
	outer := pv.Levels[0].Atom.(atoms.VarAtom)
	cs.AssertGeq(outer, atoms.Wild, "outer-unsafe-cast", loc.PersistentSourceLocation{}, constraints.Checked)

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)

	env := cs.Env()
	inner := pv.Levels[1].Atom.(atoms.VarAtom)
	assert.Equal(t, atoms.Wild, env.ResolveChecked(inner), "outer level Wild forces the inner level Wild via the adjacent-level implication")
}
