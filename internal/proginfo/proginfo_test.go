package proginfo_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/funvibe/checkedc-infer/internal/proginfo"
	"github.com/funvibe/checkedc-infer/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInfo(t *testing.T) *proginfo.ProgramInfo {
	t.Helper()
	p, err := proginfo.New(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func simplePointerToInt() cvars.QualType {
	return cvars.QualType{
		Levels:   []cvars.QualTypeLevel{{Shape: cvars.ShapePointer}},
		BaseType: "int",
	}
}

func TestDeclareVar_RepeatLocationMergesRatherThanReplaces(t *testing.T) {
	p := newInfo(t)
	l := loc.New("a.c", 1, 1)

	first, err := p.DeclareVar(l, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	require.NoError(t, err)

	second, err := p.DeclareVar(l, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	require.NoError(t, err)

	assert.Same(t, first, second, "the same syntactic occurrence must reuse the originally-registered PV")

	got, ok := p.LookupDecl(l)
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestDeclareFunc_SameExternNameMergesAcrossTUs(t *testing.T) {
	p := newInfo(t)
	ret := cvars.QualType{BaseType: "int"}
	params := []cvars.QualType{simplePointerToInt()}

	fv1, err := p.DeclareFunc("f", "a.c", false, true, loc.New("a.c", 1, 1), ret, params)
	require.NoError(t, err)

	fv2, err := p.DeclareFunc("f", "b.c", false, false, loc.New("b.c", 9, 1), ret, params)
	require.NoError(t, err)

	assert.Same(t, fv1, fv2, "an extern function declared in two TUs must unify to one FV")

	got, ok := p.LookupFunc("f", "b.c")
	require.True(t, ok)
	assert.Same(t, fv1, got)
}

func TestDeclareFunc_StaticScopedPerFile(t *testing.T) {
	p := newInfo(t)
	ret := cvars.QualType{BaseType: "int"}

	_, err := p.DeclareFunc("helper", "a.c", true, true, loc.New("a.c", 1, 1), ret, nil)
	require.NoError(t, err)
	_, err = p.DeclareFunc("helper", "b.c", true, true, loc.New("b.c", 1, 1), ret, nil)
	require.NoError(t, err)

	fvA, ok := p.LookupFunc("helper", "a.c")
	require.True(t, ok)
	fvB, ok := p.LookupFunc("helper", "b.c")
	require.True(t, ok)
	assert.NotSame(t, fvA, fvB, "static functions with the same name in different files are distinct symbols")
}

func TestLookupFunc_UnknownNameNotFound(t *testing.T) {
	p := newInfo(t)
	_, ok := p.LookupFunc("nope", "a.c")
	assert.False(t, ok)
}

func TestRegisterTypedefAndTypedef_RoundTrips(t *testing.T) {
	p := newInfo(t)
	underlying := cvars.BuildPV(p.CS, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "u"})

	require.NoError(t, p.RegisterTypedef("my_ptr", underlying, "int*"))

	got, ok := p.Typedef("my_ptr")
	require.True(t, ok)
	assert.Same(t, underlying, got)
}

func TestCallSiteTypeArg_RecordsPerCallSitePerIndex(t *testing.T) {
	p := newInfo(t)
	p.RecordCallSiteTypeArg("cs1", 0, "int")
	p.RecordCallSiteTypeArg("cs1", 1, "char")
	p.RecordCallSiteTypeArg("cs2", 0, "float")

	got, ok := p.CallSiteTypeArg("cs1", 0)
	require.True(t, ok)
	assert.Equal(t, "int", got)

	got, ok = p.CallSiteTypeArg("cs1", 1)
	require.True(t, ok)
	assert.Equal(t, "char", got)

	_, ok = p.CallSiteTypeArg("cs2", 1)
	assert.False(t, ok)
}

func TestNewCallSiteID_IsUniqueEachCall(t *testing.T) {
	p := newInfo(t)
	a := p.NewCallSiteID()
	b := p.NewCallSiteID()
	assert.NotEqual(t, a, b)
}

func TestBoundsKey_SetAndLookup(t *testing.T) {
	p := newInfo(t)
	l := loc.New("a.c", 1, 1)
	k := p.Keys.Fresh()

	p.SetBoundsKey(l, k)
	got, ok := p.BoundsKeyOf(l)
	require.True(t, ok)
	assert.Equal(t, k, got)

	_, ok = p.BoundsKeyOf(loc.New("b.c", 1, 1))
	assert.False(t, ok)
}

func TestMakeSinglePointerNonWild_UnwildsOnlyThatVariable(t *testing.T) {
	p := newInfo(t)
	pv := cvars.BuildPV(p.CS, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	v := pv.Levels[0].Atom.(atoms.VarAtom)
	p.CS.AssertGeq(v, atoms.Wild, "unsafe-cast", loc.PersistentSourceLocation{}, constraints.Checked)

	res := solver.Solve(p.CS, solver.Options{})
	require.True(t, res.OK)
	require.Equal(t, atoms.Wild, p.CS.Env().Publish(v))

	unwilded, err := p.MakeSinglePointerNonWild(v)
	require.NoError(t, err)
	require.Len(t, unwilded, 1)
	assert.Equal(t, v.ID, unwilded[0].ID)
	assert.NotEqual(t, atoms.Wild, p.CS.Env().Publish(v))
}

func TestInvalidateWildReasonGlobally_RemovesEveryConstraintSharingReason(t *testing.T) {
	p := newInfo(t)
	pv1 := cvars.BuildPV(p.CS, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "x"})
	pv2 := cvars.BuildPV(p.CS, simplePointerToInt(), cvars.BuildPVOptions{NamePrefix: "y"})
	v1 := pv1.Levels[0].Atom.(atoms.VarAtom)
	v2 := pv2.Levels[0].Atom.(atoms.VarAtom)

	p.CS.AssertGeq(v1, atoms.Wild, "bad-macro", loc.PersistentSourceLocation{}, constraints.Checked)
	p.CS.AssertGeq(v2, atoms.Wild, "bad-macro", loc.PersistentSourceLocation{}, constraints.Checked)

	res := solver.Solve(p.CS, solver.Options{})
	require.True(t, res.OK)

	unwilded := p.InvalidateWildReasonGlobally("bad-macro")
	assert.Len(t, unwilded, 2)
}

func TestLink_IsANoOp(t *testing.T) {
	p := newInfo(t)
	assert.NoError(t, p.Link())
}
