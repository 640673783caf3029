// Package bounds implements the array-bounds inference of spec §3 (bounds
// entities) and §4.8 (inference): BoundsKey-identified values, scoped
// program variables, the ABounds shapes, and the graph-dataflow analysis
// that propagates length expressions across assignments and call edges.
//
// Grounded on clang/include/clang/3C/ABounds.h and
// clang/include/clang/3C/AVarBoundsInfo.h in original_source for the data
// model, expressed in the teacher's plain-struct-with-maps style (see
// internal/cgraph for the sibling graph used by the solver).
package bounds

import "fmt"

// Key is the opaque integer handle naming a value whose use as a pointer
// length is being tracked (§3 BoundsKey).
type Key int

// Invalid is the sentinel key (-1), never allocated by Allocator.
const Invalid Key = -1

// Allocator hands out fresh Keys and remembers which ones were minted for
// synthetic purposes (integer constants, temporaries) versus real
// declarations, matching "Assigned to every pointer- or array-typed
// declaration, plus synthetic keys for integer constants and temporaries."
type Allocator struct {
	next      Key
	constants map[int64]Key // interned integer-constant keys
	constSet  map[Key]bool  // reverse index for IsConstant
}

// NewAllocator returns an empty key allocator.
func NewAllocator() *Allocator {
	return &Allocator{constants: make(map[int64]Key), constSet: make(map[Key]bool)}
}

// Fresh allocates a new, previously unused Key.
func (a *Allocator) Fresh() Key {
	k := a.next
	a.next++
	return k
}

// Constant returns the (interned) Key for the integer literal n, minting
// one on first use so repeated occurrences of the same literal share a
// key — needed for scope-reachability's "k is a constant" shortcut (§4.8.3)
// to treat all occurrences of e.g. `10` as the same in-scope-everywhere key.
func (a *Allocator) Constant(n int64) Key {
	if k, ok := a.constants[n]; ok {
		return k
	}
	k := a.Fresh()
	a.constants[n] = k
	a.constSet[k] = true
	return k
}

// IsConstant reports whether k was minted by Constant (as opposed to Fresh
// directly for a real declaration or temporary).
func (a *Allocator) IsConstant(k Key) bool {
	return a.constSet[k]
}

func (k Key) String() string {
	if k == Invalid {
		return "<invalid-key>"
	}
	return fmt.Sprintf("k%d", int(k))
}
