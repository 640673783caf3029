package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EverythingOff(t *testing.T) {
	opt := config.Default()
	assert.False(t, opt.AllTypes)
	assert.Empty(t, opt.AllocatorFunctions)
}

func TestIsAllocator_BuiltinsAndUserDeclared(t *testing.T) {
	opt := config.CoreOptions{AllocatorFunctions: []string{"my_alloc"}}
	assert.True(t, opt.IsAllocator("malloc"))
	assert.True(t, opt.IsAllocator("calloc"))
	assert.True(t, opt.IsAllocator("realloc"))
	assert.True(t, opt.IsAllocator("my_alloc"))
	assert.False(t, opt.IsAllocator("free"))
}

func TestIsRewritable_EmptyBaseDirPermitsEverything(t *testing.T) {
	opt := config.CoreOptions{}
	assert.True(t, opt.IsRewritable("/anything/at/all.c"))
}

func TestIsRewritable_RestrictsToBaseDir(t *testing.T) {
	opt := config.CoreOptions{BaseDir: "/src/project"}
	assert.True(t, opt.IsRewritable("/src/project/main.c"))
	assert.True(t, opt.IsRewritable("/src/project/sub/main.c"))
	assert.False(t, opt.IsRewritable("/src/other/main.c"))
	assert.False(t, opt.IsRewritable("/src/project-other/main.c"), "a sibling directory sharing the prefix must not match")
}

func TestIsRewritable_AllowOutsideBaseDirOverrides(t *testing.T) {
	opt := config.CoreOptions{BaseDir: "/src/project", AllowSourcesOutsideBaseDir: true}
	assert.True(t, opt.IsRewritable("/anywhere/main.c"))
}

func TestFromFile_LoadsYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte("all_types: true\nallocator_functions:\n  - my_alloc\nwarn_root_cause: true\n")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	opt, err := config.FromFile(path)
	require.NoError(t, err)
	assert.True(t, opt.AllTypes)
	assert.True(t, opt.WarnRootCause)
	assert.Equal(t, []string{"my_alloc"}, opt.AllocatorFunctions)
	assert.False(t, opt.WarnAllRootCause, "an omitted key keeps its default rather than zeroing the whole struct")
}

func TestFromFile_MissingFileErrors(t *testing.T) {
	_, err := config.FromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
