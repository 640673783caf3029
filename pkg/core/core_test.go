package core_test

import (
	"testing"
	"time"

	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/checkedc-infer/pkg/core"
)

func pointerToInt() cvars.QualType {
	return cvars.QualType{
		Levels:   []cvars.QualTypeLevel{{Shape: cvars.ShapePointer}},
		BaseType: "int",
	}
}

func newCore(t *testing.T) *core.Core {
	t.Helper()
	c, err := core.New(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestAbsorbAndSolve_UnconstrainedVariableRendersAsCheckedPointer(t *testing.T) {
	c := newCore(t)
	now := time.Now()

	xLoc := loc.New("a.c", 1, 5)
	decls := []cast.Decl{
		{Kind: cast.VarDecl, Loc: xLoc, Name: "x", Type: pointerToInt()},
	}

	require.NoError(t, c.Absorb(now, decls, "a.c", nil))
	require.NoError(t, c.Link())
	c.Solve(now)

	out, ok := c.DeclOutput(xLoc)
	require.True(t, ok)
	assert.Equal(t, "_Ptr<int>", out.TypeText)
	assert.True(t, out.Changed)
	assert.True(t, c.Solved())
}

func TestAbsorbAndSolve_UnsafeInitializerDemotesToWildAndRecordsDiagnostic(t *testing.T) {
	c, err := core.New(config.CoreOptions{WarnRootCause: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	now := time.Now()

	xLoc := loc.New("a.c", 2, 5)
	initLoc := loc.New("a.c", 2, 10)
	initExpr := &cast.ExplicitCast{Sub: &cast.NullPtrConstant{}, Unsafe: true, ToType: pointerToInt()}
	initExpr.Loc = initLoc

	decls := []cast.Decl{
		{Kind: cast.VarDecl, Loc: xLoc, Name: "x", Type: pointerToInt(), Init: initExpr},
	}

	require.NoError(t, c.Absorb(now, decls, "a.c", nil))
	require.NoError(t, c.Link())
	c.Solve(now)

	out, ok := c.DeclOutput(xLoc)
	require.True(t, ok)
	assert.Equal(t, "int *", out.TypeText)
	assert.False(t, out.Changed)
	assert.NotEmpty(t, c.Diagnostics(), "warn_root_cause reports the unsafe cast that forced x to Wild")
}

func TestFuncOutput_RendersReturnAndParams(t *testing.T) {
	c := newCore(t)
	now := time.Now()

	decls := []cast.Decl{
		{
			Kind:       cast.FunctionDecl,
			Loc:        loc.New("a.c", 5, 1),
			Name:       "f",
			ReturnType: pointerToInt(),
			Params:     []cast.Decl{{Kind: cast.ParamDecl, Name: "p", Type: pointerToInt()}},
		},
	}

	require.NoError(t, c.Absorb(now, decls, "a.c", nil))
	require.NoError(t, c.Link())
	c.Solve(now)

	out, ok := c.FuncOutput("f", "a.c")
	require.True(t, ok)
	assert.NotEmpty(t, out.ReturnText)
}

func TestFuncOutput_UnknownFunctionNotFound(t *testing.T) {
	c := newCore(t)
	_, ok := c.FuncOutput("nope", "a.c")
	assert.False(t, ok)
}

func TestDeclOutput_UnconstrainedPointerIsNotRenderedWild(t *testing.T) {
	c := newCore(t)
	now := time.Now()

	xLoc := loc.New("a.c", 3, 5)
	decls := []cast.Decl{
		{Kind: cast.VarDecl, Loc: xLoc, Name: "x", Type: pointerToInt()},
	}
	require.NoError(t, c.Absorb(now, decls, "a.c", nil))
	require.NoError(t, c.Link())
	c.Solve(now)

	out, ok := c.DeclOutput(xLoc)
	require.True(t, ok)
	assert.NotEqual(t, "int *", out.TypeText)
}
