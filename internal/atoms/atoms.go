// Package atoms implements the checked-pointer-kind lattice: the four
// constant kinds (Ptr, Arr, NTArr, Wild), the variables the solver assigns
// them to, and the two independent sub-orders (checked-ness and pointer
// type) the solver propagates over.
//
// Grounded on the kind-lattice shape of the teacher's internal/typesystem
// Kind hierarchy (KStar/KVar/KArrow as a small closed variant set dispatched
// by type switch) and on clang/include/clang/3C/ConstraintVariables.h's
// ConstAtom/VarAtom pair in original_source.
package atoms

import "fmt"

// VarKind tags a Var atom with the role it plays in the ptr-kind solver's
// multi-phase initialization (§4.3.2): Param atoms retain phase-1 results
// across the reset sub-phases, Return atoms are held back one phase longer,
// Other atoms (locals, globals, struct fields) are free to move every phase.
type VarKind int

const (
	Other VarKind = iota
	Param
	Return
)

func (k VarKind) String() string {
	switch k {
	case Param:
		return "param"
	case Return:
		return "return"
	default:
		return "other"
	}
}

// Kind enumerates the four checked-pointer-kind constants plus the Var
// marker used for type-switching without reflection.
type Kind int

const (
	KPtr Kind = iota
	KArr
	KNTArr
	KWild
	KVar
)

// rank gives the checked-dimension lattice order: Ptr < Arr < NTArr < Wild.
// Var atoms have no intrinsic rank; the environment resolves them.
var rank = map[Kind]int{KPtr: 0, KArr: 1, KNTArr: 2, KWild: 3}

// Atom is implemented by ConstAtom and VarAtom. It is intentionally a small
// closed interface (mirrors the teacher's Kind interface in
// internal/typesystem/kinds.go) so the solver can type-switch rather than
// rely on virtual dispatch.
type Atom interface {
	isAtom()
	String() string
}

// ConstAtom is one of the four lattice constants. Each is a singleton value;
// comparisons use Less/Equal below rather than pointer identity so that
// ConstAtom can be copied freely.
type ConstAtom struct {
	kind Kind
}

func (ConstAtom) isAtom() {}

func (c ConstAtom) String() string {
	switch c.kind {
	case KPtr:
		return "PTR"
	case KArr:
		return "ARR"
	case KNTArr:
		return "NTARR"
	case KWild:
		return "WILD"
	default:
		return "?"
	}
}

// Kind returns the underlying Kind constant.
func (c ConstAtom) Kind() Kind { return c.kind }

var (
	Ptr   = ConstAtom{KPtr}
	Arr   = ConstAtom{KArr}
	NTArr = ConstAtom{KNTArr}
	Wild  = ConstAtom{KWild}
)

// Less implements the checked-dimension total order Ptr < Arr < NTArr < Wild.
// The ptr-type sub-order reuses the same rank table (§4.1): the two
// sub-orders happen to share one constant total order over {Ptr,Arr,NTArr,
// Wild}, the solver simply restricts which edges it walks in each pass.
func (c ConstAtom) Less(o ConstAtom) bool { return rank[c.kind] < rank[o.kind] }

func (c ConstAtom) LessEq(o ConstAtom) bool { return rank[c.kind] <= rank[o.kind] }

// Max returns the greater of two constants in the shared lattice order.
func Max(a, b ConstAtom) ConstAtom {
	if a.Less(b) {
		return b
	}
	return a
}

// Min returns the lesser of two constants in the shared lattice order.
func Min(a, b ConstAtom) ConstAtom {
	if b.Less(a) {
		return b
	}
	return a
}

// VarAtom identifies a non-constant atom the solver must assign. Each is
// owned by exactly one constraints.Constraints instance (the invariant in
// §3); ID is unique within that owner.
type VarAtom struct {
	ID   int
	Name string
	Kind VarKind
}

func (VarAtom) isAtom() {}

func (v VarAtom) String() string {
	if v.Name != "" {
		return fmt.Sprintf("?%s(%d)", v.Name, v.ID)
	}
	return fmt.Sprintf("?%d", v.ID)
}

// AsConst reports whether a is a ConstAtom and returns it.
func AsConst(a Atom) (ConstAtom, bool) {
	c, ok := a.(ConstAtom)
	return c, ok
}

// AsVar reports whether a is a VarAtom and returns it.
func AsVar(a Atom) (VarAtom, bool) {
	v, ok := a.(VarAtom)
	return v, ok
}

// Equal reports whether two atoms denote the same thing: equal constants,
// or VarAtoms with the same ID.
func Equal(a, b Atom) bool {
	if ca, ok := AsConst(a); ok {
		cb, ok := AsConst(b)
		return ok && ca.kind == cb.kind
	}
	if va, ok := AsVar(a); ok {
		vb, ok := AsVar(b)
		return ok && va.ID == vb.ID
	}
	return false
}
