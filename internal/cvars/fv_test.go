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

func intPtrParam() cvars.QualType {
	return cvars.QualType{
		Levels:   []cvars.QualTypeLevel{{Shape: cvars.ShapePointer}},
		BaseType: "int",
	}
}

func TestBuildFV_OriginalTypeAndMkString(t *testing.T) {
	cs := constraints.New()
	fv := cvars.BuildFV(cs, intPtrParam(), []cvars.QualType{intPtrParam()}, cvars.BuildFVOptions{Name: "f", IsFunctionDecl: true})

	assert.Equal(t, "int*(int*)", fv.OriginalType())

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)
	env := cs.Env()
	assert.Equal(t, "_Ptr<int>", fv.ReturnText(env))
	assert.Equal(t, "_Ptr<int>", fv.ParamsText(env))
	assert.True(t, fv.AnyChanges(env))
}

func TestBuildFV_ExternalWildForcesInternalButNotReverse(t *testing.T) {
	cs := constraints.New()
	fv := cvars.BuildFV(cs, intPtrParam(), nil, cvars.BuildFVOptions{Name: "g"})

	fv.Return.External.ConstrainToWild(cs, "caller-cast", loc.PersistentSourceLocation{})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)
	env := cs.Env()
	assert.Equal(t, atoms.Wild, fv.Return.External.PtrKind(env))
	assert.Equal(t, atoms.Wild, fv.Return.Internal.PtrKind(env), "internal >= external, so a Wild external forces internal Wild too")
}

func TestBuildFV_InternalWildDoesNotForceExternal(t *testing.T) {
	cs := constraints.New()
	fv := cvars.BuildFV(cs, intPtrParam(), nil, cvars.BuildFVOptions{Name: "g2"})

	fv.Return.Internal.ConstrainToWild(cs, "body-unsafe-use", loc.PersistentSourceLocation{})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)
	env := cs.Env()
	assert.Equal(t, atoms.Wild, fv.Return.Internal.PtrKind(env))
	assert.NotEqual(t, atoms.Wild, fv.Return.External.PtrKind(env), "the reverse direction does not hold: internal going Wild leaves external unconstrained")
}

func TestFV_ConstrainToWild_ForcesEveryComponent(t *testing.T) {
	cs := constraints.New()
	fv := cvars.BuildFV(cs, intPtrParam(), []cvars.QualType{intPtrParam(), intPtrParam()}, cvars.BuildFVOptions{Name: "h"})
	fv.ConstrainToWild(cs, "unknown-callee", loc.PersistentSourceLocation{})

	res := solver.Solve(cs, solver.Options{})
	require.True(t, res.OK)
	env := cs.Env()
	assert.Equal(t, atoms.Wild, fv.Return.External.PtrKind(env))
	for _, p := range fv.Params {
		assert.Equal(t, atoms.Wild, p.External.PtrKind(env))
	}
}

func TestFV_MergeDeclaration_ArityMismatch(t *testing.T) {
	cs := constraints.New()
	fv := cvars.BuildFV(cs, intPtrParam(), []cvars.QualType{intPtrParam()}, cvars.BuildFVOptions{Name: "k"})
	other := cvars.BuildFV(cs, intPtrParam(), []cvars.QualType{intPtrParam(), intPtrParam()}, cvars.BuildFVOptions{Name: "k"})

	err := fv.MergeDeclaration(cs, other)
	require.Error(t, err)
	var arityErr *cvars.ArityMismatchError
	assert.ErrorAs(t, err, &arityErr)
}

func TestFV_MergeDeclaration_MarksHasBody(t *testing.T) {
	cs := constraints.New()
	decl := cvars.BuildFV(cs, intPtrParam(), nil, cvars.BuildFVOptions{Name: "m", HasBody: false})
	def := cvars.BuildFV(cs, intPtrParam(), nil, cvars.BuildFVOptions{Name: "m", HasBody: true})

	require.NoError(t, decl.MergeDeclaration(cs, def))
	assert.True(t, decl.HasBody)
}
