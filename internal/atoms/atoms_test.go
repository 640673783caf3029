package atoms_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstAtom_Order(t *testing.T) {
	assert.True(t, atoms.Ptr.Less(atoms.Arr))
	assert.True(t, atoms.Arr.Less(atoms.NTArr))
	assert.True(t, atoms.NTArr.Less(atoms.Wild))
	assert.False(t, atoms.Wild.Less(atoms.Ptr))
	assert.True(t, atoms.Ptr.LessEq(atoms.Ptr))
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, atoms.Wild, atoms.Max(atoms.Arr, atoms.Wild))
	assert.Equal(t, atoms.Arr, atoms.Max(atoms.Arr, atoms.Ptr))
	assert.Equal(t, atoms.Ptr, atoms.Min(atoms.Arr, atoms.Ptr))
	assert.Equal(t, atoms.NTArr, atoms.Min(atoms.NTArr, atoms.Wild))
}

func TestVarAtom_StringAndEqual(t *testing.T) {
	v1 := atoms.VarAtom{ID: 3, Name: "x", Kind: atoms.Other}
	v2 := atoms.VarAtom{ID: 3, Name: "different-name", Kind: atoms.Param}
	v3 := atoms.VarAtom{ID: 4, Name: "x", Kind: atoms.Other}

	assert.True(t, atoms.Equal(v1, v2), "atoms with the same ID denote the same variable regardless of name/kind")
	assert.False(t, atoms.Equal(v1, v3))
	assert.Contains(t, v1.String(), "x")
}

func TestAsConstAsVar(t *testing.T) {
	var a atoms.Atom = atoms.Wild
	c, ok := atoms.AsConst(a)
	require.True(t, ok)
	assert.Equal(t, atoms.Wild, c)

	_, ok = atoms.AsVar(a)
	assert.False(t, ok)

	a = atoms.VarAtom{ID: 1}
	_, ok = atoms.AsConst(a)
	assert.False(t, ok)
}

func TestEqual_ConstVsVarNeverEqual(t *testing.T) {
	assert.False(t, atoms.Equal(atoms.Ptr, atoms.VarAtom{ID: 0}))
}

func TestVarKind_String(t *testing.T) {
	assert.Equal(t, "other", atoms.Other.String())
	assert.Equal(t, "param", atoms.Param.String())
	assert.Equal(t, "return", atoms.Return.String())
}
