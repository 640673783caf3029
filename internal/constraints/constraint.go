// Package constraints implements the assertion language over atoms (§4.1):
// Geq inequalities and Implies conditionals, the per-variable environment,
// and the Constraints container that owns every atom and constraint.
//
// Grounded on the teacher's internal/analyzer/constraints.go (a small closed
// Constraint struct carrying Kind/Left/Right/reason/source-node, asserted
// into a flat slice and iterated by the solver) and on
// clang/include/clang/CConv/Constraints.h's Geq/Implies pair in
// original_source.
package constraints

import (
	"fmt"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// SubOrder selects which of the two independent lattice projections (§3) a
// Geq constraint participates in.
type SubOrder int

const (
	// Checked separates {Ptr,Arr,NTArr} from Wild.
	Checked SubOrder = iota
	// Ptype separates Ptr from Arr from NTArr (only meaningful once a
	// variable's checked solution is not Wild).
	Ptype
)

func (s SubOrder) String() string {
	if s == Checked {
		return "checked"
	}
	return "ptype"
}

// Reason is a short, stable diagnostic tag identifying why a constraint was
// asserted (e.g. "pointer arithmetic", "unsafe cast", "assignment"). Reasons
// are compared by value so remove_by_reason (§4.9) can find every
// constraint sharing one.
type Reason string

// Geq asserts lhs >= rhs in the named sub-order. Loc and Reason are carried
// for diagnostics only; they never affect solving.
type Geq struct {
	Lhs, Rhs atoms.Atom
	Reason   Reason
	Loc      loc.PersistentSourceLocation
	Sub      SubOrder
}

func (g Geq) String() string {
	return fmt.Sprintf("%s >= %s [%s/%s @ %s]", g.Lhs, g.Rhs, g.Reason, g.Sub, g.Loc)
}

// key returns a structural identity used for de-duplication (§4.1
// "de-duplicates structurally equivalent constraints").
func (g Geq) key() string {
	return fmt.Sprintf("%v|%v|%d", g.Lhs, g.Rhs, g.Sub)
}

// Implies represents "if premise holds under the current assignment, the
// conclusion becomes an active constraint." The premise's lhs must be a
// Var and its rhs a Const; the conclusion is held to the same shape (§3
// invariant). Validated by Constraints.AssertImplies.
type Implies struct {
	Premise    Geq
	Conclusion Geq
}

// validShape reports whether a Geq has a Var lhs and a Const rhs, the shape
// required of both premises and conclusions.
func validShape(g Geq) bool {
	if _, ok := atoms.AsVar(g.Lhs); !ok {
		return false
	}
	_, ok := atoms.AsConst(g.Rhs)
	return ok
}
