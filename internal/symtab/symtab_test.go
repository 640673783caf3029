package symtab_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openIndex(t *testing.T) *symtab.Index {
	t.Helper()
	idx, err := symtab.Open()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestAddFunc_FindExternReturnsEveryDeclSite(t *testing.T) {
	idx := openIndex(t)

	require.NoError(t, idx.AddFunc(symtab.FuncEntry{Name: "f", Linkage: symtab.External, DeclLine: 1, DeclColumn: 1}))
	require.NoError(t, idx.AddFunc(symtab.FuncEntry{Name: "f", Linkage: symtab.External, DeclLine: 9, DeclColumn: 1}))

	got, err := idx.FindExternFunc("f")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAddFunc_StaticScopedByFile(t *testing.T) {
	idx := openIndex(t)

	require.NoError(t, idx.AddFunc(symtab.FuncEntry{Name: "g", File: "a.c", Linkage: symtab.Static, DeclLine: 2, DeclColumn: 1}))
	require.NoError(t, idx.AddFunc(symtab.FuncEntry{Name: "g", File: "b.c", Linkage: symtab.Static, DeclLine: 3, DeclColumn: 1}))

	got, err := idx.FindStaticFunc("g", "a.c")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].DeclLine)

	gotOther, err := idx.FindStaticFunc("g", "b.c")
	require.NoError(t, err)
	require.Len(t, gotOther, 1)
	assert.Equal(t, 3, gotOther[0].DeclLine)
}

func TestFindExternFunc_UnknownNameReturnsEmpty(t *testing.T) {
	idx := openIndex(t)
	got, err := idx.FindExternFunc("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAddTypedef_FindTypedefRoundTrips(t *testing.T) {
	idx := openIndex(t)

	require.NoError(t, idx.AddTypedef("size_t", "unsigned long"))
	underlying, ok, err := idx.FindTypedef("size_t")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "unsigned long", underlying)
}

func TestAddTypedef_OverwritesOnConflict(t *testing.T) {
	idx := openIndex(t)

	require.NoError(t, idx.AddTypedef("myint", "int"))
	require.NoError(t, idx.AddTypedef("myint", "long"))

	underlying, ok, err := idx.FindTypedef("myint")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "long", underlying)
}

func TestFindTypedef_UnknownNameNotOK(t *testing.T) {
	idx := openIndex(t)
	_, ok, err := idx.FindTypedef("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
