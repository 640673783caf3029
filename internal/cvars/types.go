// Package cvars implements ConstraintVariable (§4.4, §4.5): the pointer
// variable (PV) and function variable (FV) handles over the capability set
// {PtrKind, OriginalType, MkString, AnyChanges, ConstrainToWild}.
//
// Grounded on the teacher's ConstraintVariable-shaped handles in
// internal/typesystem/types.go (a small tagged Type interface dispatched by
// type switch rather than virtual methods per sub-kind) and on
// clang/include/clang/3C/ConstraintVariables.h's PVConstraint/FVConstraint
// pair in original_source. The "cyclic data" note in §9 (replace Parent
// back-pointers with arena indices) is followed: an FV holds its component
// PVs directly and no PV points back to a parent, and ProgramInfo (internal/proginfo) is the arena that
// owns every ConstraintVariable by PersistentSourceLocation.
package cvars

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// ArrayShape records a pointer level's original declared shape (§3
// ConstraintVariable "original array-shape info per level").
type ArrayShape int

const (
	ShapePointer ArrayShape = iota
	ShapeSizedArray
	ShapeUnsizedArray
)

// Level is one pointer-indirection level of a PV's atom vector (§4.4),
// outermost first.
type Level struct {
	Atom       atoms.Atom
	Quals      Qualifiers
	Shape      ArrayShape
	SizedLen   int // valid iff Shape == ShapeSizedArray; not read for other shapes
	IsTypedef  bool
}

// Qualifiers mirrors render.Qualifiers; kept as a distinct type so cvars
// does not need to import render for its own bookkeeping (render is called
// only from MkString).
type Qualifiers uint8

const (
	QConst Qualifiers = 1 << iota
	QVolatile
	QRestrict
)

// ConstraintVariable is the capability set every handle exposes (§3).
type ConstraintVariable interface {
	// PtrKind returns the resolved outermost checked-pointer kind, Wild if
	// this handle carries no pointer levels at all.
	PtrKind(env *constraints.Environment) atoms.ConstAtom
	OriginalType() string
	MkString(env *constraints.Environment) string
	AnyChanges(env *constraints.Environment) bool
	ConstrainToWild(cs *constraints.Constraints, reason constraints.Reason, l loc.PersistentSourceLocation)
}
