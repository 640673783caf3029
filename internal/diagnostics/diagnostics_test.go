package diagnostics_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/funvibe/checkedc-infer/internal/diagnostics"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_AllSortsByLocation(t *testing.T) {
	c := diagnostics.NewCollector()
	c.Warnf(loc.PersistentSourceLocation{File: "b.c", Line: 1}, nil, "second")
	c.Warnf(loc.PersistentSourceLocation{File: "a.c", Line: 1}, nil, "first")

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a.c", all[0].Loc.File)
	assert.Equal(t, "b.c", all[1].Loc.File)
}

func TestCollector_Reset(t *testing.T) {
	c := diagnostics.NewCollector()
	c.Errorf(loc.PersistentSourceLocation{}, "boom")
	require.Len(t, c.All(), 1)
	c.Reset()
	assert.Empty(t, c.All())
}

func TestCollector_Print(t *testing.T) {
	c := diagnostics.NewCollector()
	c.Warnf(loc.PersistentSourceLocation{File: "a.c", Line: 3}, []string{"unsafe-cast"}, "demoted to wild")

	var buf bytes.Buffer
	c.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "demoted to wild")
	assert.Contains(t, out, "unsafe-cast")
	assert.Contains(t, out, "warning")
}

func TestStats_RecordWild(t *testing.T) {
	s := diagnostics.NewStats()
	s.RecordWild("unsafe-cast")
	s.RecordWild("unsafe-cast")
	s.RecordWild("inline-struct")
	assert.Equal(t, 2, s.WildByReason["unsafe-cast"])
	assert.Equal(t, 1, s.WildByReason["inline-struct"])
}

func TestStats_TimersAccumulate(t *testing.T) {
	s := diagnostics.NewStats()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.StartSolverTime(start)
	s.EndSolverTime(start.Add(5 * time.Second))
	assert.Equal(t, 5*time.Second, s.SolverTime)
}

func TestStats_DuplicateEndCallDoubleCounts(t *testing.T) {
	s := diagnostics.NewStats()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Second)
	s.StartConstraintBuilderTime(start)
	s.EndConstraintBuilderTime(now)
	s.EndConstraintBuilderTime(now)
	assert.Equal(t, 4*time.Second, s.ConstraintBuilderTime, "the documented duplicate-call behavior doubles the accumulated interval")
}
