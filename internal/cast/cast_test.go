package cast_test

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireLoc_ToLoc(t *testing.T) {
	l := cast.WireLoc{File: "a.c", Line: 3, Column: 4}
	got := l.ToLoc()
	assert.Equal(t, "a.c", got.File)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, 4, got.Column)
}

func TestBuildRewritableSet_FlipsUnrewritableLocations(t *testing.T) {
	tu := cast.TranslationUnit{
		File: "a.c",
		Unrewritable: []cast.WireLoc{
			{File: "a.c", Line: 5, Column: 1},
		},
	}
	set := cast.BuildRewritableSet(tu)

	assert.False(t, set.IsRewritable(cast.WireLoc{File: "a.c", Line: 5, Column: 1}))
	assert.True(t, set.IsRewritable(cast.WireLoc{File: "a.c", Line: 6, Column: 1}))
}

func TestDeclsFromWire_MapsKindsAndFields(t *testing.T) {
	wire := []cast.WireDecl{
		{Kind: "var", Name: "x", Loc: cast.WireLoc{File: "a.c", Line: 1}, File: "a.c"},
		{Kind: "function", Name: "f", Loc: cast.WireLoc{File: "a.c", Line: 2}, File: "a.c", HasBody: true},
		{Kind: "record", Name: "s", Loc: cast.WireLoc{File: "a.c", Line: 3}},
	}

	decls := cast.DeclsFromWire(wire)
	require.Len(t, decls, 3)

	assert.Equal(t, cast.VarDecl, decls[0].Kind)
	assert.Equal(t, "x", decls[0].Name)

	assert.Equal(t, cast.FunctionDecl, decls[1].Kind)
	assert.True(t, decls[1].HasBody)

	assert.Equal(t, cast.RecordDecl, decls[2].Kind)
}

func TestDecoder_ReadsLineOrientedJSONAndReturnsEOF(t *testing.T) {
	line1, err := json.Marshal(cast.TranslationUnit{File: "a.c"})
	require.NoError(t, err)
	line2, err := json.Marshal(cast.TranslationUnit{File: "b.c"})
	require.NoError(t, err)

	r := strings.NewReader(string(line1) + "\n" + string(line2) + "\n")
	dec := cast.NewDecoder(r)

	tu1, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "a.c", tu1.File)

	tu2, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "b.c", tu2.File)

	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_BadJSONErrors(t *testing.T) {
	r := strings.NewReader("not json\n")
	dec := cast.NewDecoder(r)

	_, err := dec.Next()
	assert.Error(t, err)
}

func TestExprNodes_LocationAccessors(t *testing.T) {
	var exprs = []cast.Expr{
		&cast.Literal{},
		&cast.NullPtrConstant{},
		&cast.DeclRef{},
		&cast.Member{},
		&cast.ImplicitCast{},
		&cast.ExplicitCast{},
		&cast.BinaryOp{},
		&cast.UnaryOp{},
		&cast.Subscript{},
		&cast.Call{},
		&cast.Conditional{},
		&cast.InitList{},
		&cast.CompoundLiteral{},
		&cast.StringLiteral{},
		&cast.VaArgExpr{},
	}
	for _, e := range exprs {
		_ = e.Location()
	}
}

func TestStmtNodes_LocationAccessors(t *testing.T) {
	var stmts = []cast.Stmt{
		&cast.DeclStmt{},
		&cast.ExprStmt{},
		&cast.ReturnStmt{},
		&cast.IfStmt{},
		&cast.LoopStmt{},
		&cast.CompoundStmt{},
	}
	for _, s := range stmts {
		_ = s.Location()
	}
}
