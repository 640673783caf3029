package loc_test

import (
	"testing"

	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/stretchr/testify/assert"
)

func TestPersistentSourceLocation_ValidAndSynthetic(t *testing.T) {
	real := loc.New("a.c", 3, 4)
	assert.True(t, real.Valid())
	assert.False(t, real.Synthetic())

	empty := loc.PersistentSourceLocation{}
	assert.False(t, empty.Valid())
	assert.True(t, empty.Synthetic())

	zeroLine := loc.PersistentSourceLocation{File: "a.c", Line: 0, Column: 1}
	assert.True(t, zeroLine.Synthetic())
}

func TestPersistentSourceLocation_String(t *testing.T) {
	assert.Equal(t, "a.c:3:4", loc.New("a.c", 3, 4).String())
	assert.Equal(t, "<synthetic>", loc.PersistentSourceLocation{}.String())
}

func TestPersistentSourceLocation_Less(t *testing.T) {
	a := loc.New("a.c", 1, 1)
	b := loc.New("b.c", 1, 1)
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	sameFile1 := loc.New("a.c", 1, 5)
	sameFile2 := loc.New("a.c", 2, 1)
	assert.True(t, sameFile1.Less(sameFile2))

	sameLine1 := loc.New("a.c", 1, 1)
	sameLine2 := loc.New("a.c", 1, 2)
	assert.True(t, sameLine1.Less(sameLine2))
}
