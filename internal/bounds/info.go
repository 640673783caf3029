package bounds

// Info is AVarBoundsInfo (§3 "Bounds entities"): the owner of the
// value-flow graph, its two context-sensitive twins, the priority-ordered
// bound assignments, and the auxiliary key sets the inference consults.
type Info struct {
	Keys *Allocator

	Graph       *VarGraph // ProgVarGraph
	CtxGraph    *VarGraph // CtxSensProgVarGraph (caller -> callee)
	RevCtxGraph *VarGraph // RevCtxSensProgVarGraph (callee -> caller)

	vars map[Key]ProgramVar

	// bounds[key][priority] = ABounds, one candidate per priority level
	// (§3 (c)).
	bnds map[Key]map[Priority]ABounds

	invalid          map[Key]bool
	arrayPointers    map[Key]bool
	withArithmetic   map[Key]bool
	potentialCounts  map[Key][]Key // pointer -> candidate length keys from index comparisons
}

// NewInfo returns an empty AVarBoundsInfo sharing the given key allocator.
func NewInfo(alloc *Allocator) *Info {
	return &Info{
		Keys:            alloc,
		Graph:           newVarGraph(),
		CtxGraph:        newVarGraph(),
		RevCtxGraph:     newVarGraph(),
		vars:            make(map[Key]ProgramVar),
		bnds:            make(map[Key]map[Priority]ABounds),
		invalid:         make(map[Key]bool),
		arrayPointers:   make(map[Key]bool),
		withArithmetic:  make(map[Key]bool),
		potentialCounts: make(map[Key][]Key),
	}
}

// RegisterVar records the ProgramVar (name + scope) a Key denotes.
func (info *Info) RegisterVar(pv ProgramVar) {
	info.vars[pv.Key] = pv
}

// VarOf returns the ProgramVar registered for k, ok=false if none.
func (info *Info) VarOf(k Key) (ProgramVar, bool) {
	pv, ok := info.vars[k]
	return pv, ok
}

// MarkArrayPointer records that k is an array-typed (ARR/NTARR) pointer
// needing a bound.
func (info *Info) MarkArrayPointer(k Key) { info.arrayPointers[k] = true }

// IsArrayPointer reports whether k was marked by MarkArrayPointer.
func (info *Info) IsArrayPointer(k Key) bool { return info.arrayPointers[k] }

// ArrayPointers returns every key marked as an array pointer.
func (info *Info) ArrayPointers() []Key {
	out := make([]Key, 0, len(info.arrayPointers))
	for k := range info.arrayPointers {
		out = append(out, k)
	}
	return out
}

// MarkArithmetic records that k had pointer arithmetic applied to it
// (§4.8.1 "adds it to ArrPointersWithArithmetic"), which excludes it from
// inheriting a bound from its neighbors during propagation.
func (info *Info) MarkArithmetic(k Key) { info.withArithmetic[k] = true }

// HasArithmetic reports whether k was marked by MarkArithmetic.
func (info *Info) HasArithmetic(k Key) bool { return info.withArithmetic[k] }

// MarkInvalid records that k's declared bounds expression could not be
// mapped to a Key (§7 "Invalid bounds expression"); k keeps its checked
// kind but never receives a bound.
func (info *Info) MarkInvalid(k Key) { info.invalid[k] = true }

// IsInvalid reports whether k was marked invalid.
func (info *Info) IsInvalid(k Key) bool { return info.invalid[k] }

// AddPotentialCount records that an index comparison `idx < bound` against
// k contributes `bound` as a potential count-bound candidate (§4.8.1).
func (info *Info) AddPotentialCount(pointer, boundKey Key) {
	info.potentialCounts[pointer] = append(info.potentialCounts[pointer], boundKey)
}

// PotentialCounts returns the candidate length keys recorded for pointer.
func (info *Info) PotentialCounts(pointer Key) []Key {
	return append([]Key(nil), info.potentialCounts[pointer]...)
}

// SetBound installs a candidate bound for k at the given priority,
// overwriting any previous candidate at that same priority (§3 (c): "a
// priority-ordered map key -> {priority -> ABounds}").
func (info *Info) SetBound(k Key, p Priority, b ABounds) {
	if info.invalid[k] {
		return
	}
	m, ok := info.bnds[k]
	if !ok {
		m = make(map[Priority]ABounds)
		info.bnds[k] = m
	}
	m[p] = b
}

// BoundAt returns the candidate bound at priority p for k, ok=false if
// none was ever set.
func (info *Info) BoundAt(k Key, p Priority) (ABounds, bool) {
	b, ok := info.bnds[k][p]
	return b, ok
}

// Resolved returns the bound that wins for k: the candidate at the highest
// priority that has one set (§3 Priority ordering "least to greatest:
// Declared, Allocator, FlowInferred, Heuristics").
func (info *Info) Resolved(k Key) (ABounds, bool) {
	for _, p := range []Priority{Heuristics, FlowInferred, Allocator, Declared} {
		if b, ok := info.bnds[k][p]; ok {
			return b, true
		}
	}
	return ABounds{}, false
}

// HasAnyBound reports whether k has a candidate at any priority.
func (info *Info) HasAnyBound(k Key) bool {
	_, ok := info.Resolved(k)
	return ok
}
