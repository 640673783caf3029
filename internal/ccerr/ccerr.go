// Package ccerr defines the error taxonomy of spec §7: one small sentinel
// struct per case, each satisfying the error interface and carrying a
// PersistentSourceLocation where applicable. Internal invariant violations
// are not modeled here — §7 reserves those for panics.
//
// Grounded on the teacher's internal/typesystem/error.go (one tiny exported
// struct per error case, each with its own constructor) and on §9's mapping
// of "exception-for-control-flow / assert(false)" onto
// Result<T, CoreError>-shaped return values.
package ccerr

import (
	"fmt"

	"github.com/funvibe/checkedc-infer/internal/loc"
)

// ConstraintUnsatError records a variable the solver's bound check
// demoted to Wild (§4.3.1 step 6, §7 "Constraint unsat at a specific
// variable").
type ConstraintUnsatError struct {
	Reason string
	Loc    loc.PersistentSourceLocation
}

func (e *ConstraintUnsatError) Error() string {
	return fmt.Sprintf("ccerr: constraint unsatisfiable at %s: %s", e.Loc, e.Reason)
}

func NewConstraintUnsatError(reason string, l loc.PersistentSourceLocation) *ConstraintUnsatError {
	return &ConstraintUnsatError{Reason: reason, Loc: l}
}

// MergeFailureError records an arity mismatch or conflicting constant atom
// discovered while merging two declarations of the same symbol (§7
// "Declaration merge failure").
type MergeFailureError struct {
	Symbol string
	Reason string
	Loc    loc.PersistentSourceLocation
}

func (e *MergeFailureError) Error() string {
	return fmt.Sprintf("ccerr: merge failure for %s at %s: %s", e.Symbol, e.Loc, e.Reason)
}

func NewMergeFailureError(symbol, reason string, l loc.PersistentSourceLocation) *MergeFailureError {
	return &MergeFailureError{Symbol: symbol, Reason: reason, Loc: l}
}

// InvalidBoundsError records a declared bounds expression that could not be
// mapped to a BoundsKey (§7 "Invalid bounds expression"). The pointer keeps
// its checked kind but loses its bounds annotation.
type InvalidBoundsError struct {
	Expr string
	Loc  loc.PersistentSourceLocation
}

func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf("ccerr: invalid bounds expression %q at %s", e.Expr, e.Loc)
}

func NewInvalidBoundsError(expr string, l loc.PersistentSourceLocation) *InvalidBoundsError {
	return &InvalidBoundsError{Expr: expr, Loc: l}
}

// UnsafeSiteError records an unsafe cast, inline-struct field, or union
// field that forced its pointer(s) to Wild (§7 "Unsafe cast / inline
// struct / union field"). Not fatal; recorded for diagnostics.
type UnsafeSiteError struct {
	Kind string // "cast", "inline-struct", "union-field"
	Loc  loc.PersistentSourceLocation
}

func (e *UnsafeSiteError) Error() string {
	return fmt.Sprintf("ccerr: unsafe %s at %s forced Wild", e.Kind, e.Loc)
}

func NewUnsafeSiteError(kind string, l loc.PersistentSourceLocation) *UnsafeSiteError {
	return &UnsafeSiteError{Kind: kind, Loc: l}
}

// ParseFailureError is fatal for the translation unit it names; other TUs'
// results remain valid (§7 "AST-layer parse error").
type ParseFailureError struct {
	File   string
	Reason string
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("ccerr: parse failure in %s: %s", e.File, e.Reason)
}

func NewParseFailureError(file, reason string) *ParseFailureError {
	return &ParseFailureError{File: file, Reason: reason}
}

// UnwritableLocationError is a non-fatal warning raised when rewriting a
// cast into a location outside the rewritable set (§7 "Unwritable
// location"); the enclosing types unify via Same_to_Same instead.
type UnwritableLocationError struct {
	Loc loc.PersistentSourceLocation
}

func (e *UnwritableLocationError) Error() string {
	return fmt.Sprintf("ccerr: unwritable location %s, unifying instead of casting", e.Loc)
}

func NewUnwritableLocationError(l loc.PersistentSourceLocation) *UnwritableLocationError {
	return &UnwritableLocationError{Loc: l}
}
