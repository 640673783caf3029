package render_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/render"
	"github.com/stretchr/testify/assert"
)

func TestWrapLevel_EachKind(t *testing.T) {
	assert.Equal(t, "_Ptr<int>", render.WrapLevel(render.KindPtr, 0, "int", -1))
	assert.Equal(t, "_Array_ptr<int>", render.WrapLevel(render.KindArr, 0, "int", -1))
	assert.Equal(t, "_Nt_array_ptr<int>", render.WrapLevel(render.KindNTArr, 0, "int", -1))
	assert.Equal(t, "int *", render.WrapLevel(render.KindWild, 0, "int", -1))
}

func TestWrapLevel_SizedArrayForms(t *testing.T) {
	assert.Equal(t, "int _Checked[10]", render.WrapLevel(render.KindArr, 0, "int", 10))
	assert.Equal(t, "int _Nt_checked[10]", render.WrapLevel(render.KindNTArr, 0, "int", 10))
}

func TestWrapLevel_Qualifiers(t *testing.T) {
	got := render.WrapLevel(render.KindWild, render.QConst, "int", -1)
	assert.Equal(t, "const int *", got)
}

func TestQualifiers_String(t *testing.T) {
	assert.Equal(t, "", render.Qualifiers(0).String())
	assert.Equal(t, "const ", render.QConst.String())
	assert.Equal(t, "const volatile ", (render.QConst | render.QVolatile).String())
}

func TestBoundsSuffix(t *testing.T) {
	assert.Equal(t, "", render.BoundsSuffix(""))
	assert.Equal(t, " count(n)", render.BoundsSuffix("count(n)"))
}

func TestItypeSuffix(t *testing.T) {
	assert.Equal(t, "", render.ItypeSuffix("", ""))
	assert.Equal(t, " : itype(_Array_ptr<int>)", render.ItypeSuffix("_Array_ptr<int>", ""))
	assert.Equal(t, " : itype(_Array_ptr<int>) count(n)", render.ItypeSuffix("_Array_ptr<int>", "count(n)"))
}

func TestWrapUnsizedArrayWild(t *testing.T) {
	assert.Equal(t, "int []", render.WrapUnsizedArrayWild(0, "int"))
}
