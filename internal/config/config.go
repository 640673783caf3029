// Package config packages the closed set of options from spec §6 into one
// explicit value threaded through ProgramInfo at construction, replacing
// the three cl::opt-backed globals the original implementation used (§9
// "Global mutable state").
//
// Grounded on the teacher's internal/config/constants.go (package-level
// constants and a couple of process-wide mode flags) generalized here into
// a loadable struct, and on internal/ext/config.go's yaml.v3-backed Config
// type for the FromFile loader shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CoreOptions is the closed configuration surface of §6.
type CoreOptions struct {
	// AllTypes enables the ptr-type pass (§4.3.2); without it every
	// variable solves to Ptr or Wild only.
	AllTypes bool `yaml:"all_types"`

	// AddCheckedRegions emits region brackets in rewriter output.
	AddCheckedRegions bool `yaml:"add_checked_regions"`

	// HandleVarargs forces varargs call arguments to Wild; otherwise they
	// are skipped with a warning (§4.7).
	HandleVarargs bool `yaml:"handle_varargs"`

	// EnablePropThruItype propagates constraints through existing itype
	// annotations rather than treating them as an opaque boundary.
	EnablePropThruItype bool `yaml:"enable_prop_thru_itype"`

	// AllocatorFunctions lists user-declared allocator names treated like
	// malloc/calloc/realloc (§4.6 "Special case malloc/calloc/realloc/
	// user-declared allocators").
	AllocatorFunctions []string `yaml:"allocator_functions"`

	// WarnRootCause / WarnAllRootCause control whether diagnostics name the
	// constraints that forced a pointer to Wild.
	WarnRootCause    bool `yaml:"warn_root_cause"`
	WarnAllRootCause bool `yaml:"warn_all_root_cause"`

	// DisableReverseEdges omits the checked-dimension reverse edge for
	// Wild_to_Safe (§4.1).
	DisableReverseEdges bool `yaml:"disable_reverse_edges"`

	// BaseDir / AllowSourcesOutsideBaseDir restrict which files the
	// (out-of-scope) rewriter may touch; the core only carries them
	// through so IsRewritable (§6) can be implemented consistently by
	// callers.
	BaseDir                    string `yaml:"base_dir"`
	AllowSourcesOutsideBaseDir bool   `yaml:"allow_sources_outside_base_dir"`

	// OutputPostfix / OutputDir are rewriter-only concerns, carried
	// through unused by the core itself (§6 notes them as "rewriter
	// concern only").
	OutputPostfix string `yaml:"output_postfix"`
	OutputDir     string `yaml:"output_dir"`
}

// Default returns the documented defaults: every boolean option off, no
// allocator names beyond the built-in malloc/calloc/realloc the resolver
// always recognizes.
func Default() CoreOptions {
	return CoreOptions{}
}

// FromFile loads a CoreOptions from a YAML file, starting from Default()
// so an omitted key keeps its default rather than zeroing it.
func FromFile(path string) (CoreOptions, error) {
	opt := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opt, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opt); err != nil {
		return opt, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return opt, nil
}

// IsAllocator reports whether name should be treated as malloc-like: the
// three built-ins plus any name listed in AllocatorFunctions.
func (o CoreOptions) IsAllocator(name string) bool {
	switch name {
	case "malloc", "calloc", "realloc":
		return true
	}
	for _, a := range o.AllocatorFunctions {
		if a == name {
			return true
		}
	}
	return false
}

// IsRewritable reports whether a file falls inside BaseDir, honoring
// AllowSourcesOutsideBaseDir (§6 "base_dir / allow_sources_outside_base_dir
// — Restrict which files may be rewritten"). An empty BaseDir permits
// everything.
func (o CoreOptions) IsRewritable(file string) bool {
	if o.BaseDir == "" || o.AllowSourcesOutsideBaseDir {
		return true
	}
	return hasPrefixPath(file, o.BaseDir)
}

func hasPrefixPath(file, dir string) bool {
	if len(file) < len(dir) {
		return false
	}
	if file[:len(dir)] != dir {
		return false
	}
	return len(file) == len(dir) || file[len(dir)] == '/'
}
