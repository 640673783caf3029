package cvars

import (
	"strings"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// Component is one FV-component (§4.5): a pair of PVs, the internal
// (body-side) view and the external (caller-side) view. For void pointers
// and function pointers without an interop-type the two views alias the
// same *PV, matching "internal and external aliases share the same PV
// object" in §3.
type Component struct {
	Internal *PV
	External *PV
}

// aliased reports whether Internal and External are literally the same PV,
// i.e. no internal/external split was created for this component.
func (c Component) aliased() bool { return c.Internal == c.External }

// FV is the function constraint variable (§4.5): a return component and an
// ordered list of parameter components.
type FV struct {
	Name string

	Return Component
	Params []Component

	// IsFunctionDecl distinguishes a true function declaration from a
	// function-pointer-typed variable (§3 "A flag distinguishes true
	// function declarations from function pointers").
	IsFunctionDecl bool
	HasBody        bool
	IsStatic       bool
}

// BuildFVOptions carries the knobs needed to build each parameter's pair of
// PVs (§4.5).
type BuildFVOptions struct {
	Name           string
	IsFunctionDecl bool
	HasBody        bool
	IsStatic       bool
}

// equateLevelsPtype asserts level-by-level ptr-type equality between two
// PVs of identical shape (§4.5 "corresponding atoms at each level are
// equated in the ptr-type sub-order").
func equateLevelsPtype(cs *constraints.Constraints, a, b *PV, reason constraints.Reason) {
	n := len(a.Levels)
	if len(b.Levels) < n {
		n = len(b.Levels)
	}
	for i := 0; i < n; i++ {
		la, lb := a.Levels[i].Atom, b.Levels[i].Atom
		cs.AssertGeq(la, lb, reason, loc.PersistentSourceLocation{}, constraints.Ptype)
		cs.AssertGeq(lb, la, reason, loc.PersistentSourceLocation{}, constraints.Ptype)
	}
}

// equateLevelsChecked asserts a directed checked-dimension edge "internal >=
// external" level-by-level (§4.5: "external 'wild' forces internal wild, but
// not vice versa").
func equateLevelsChecked(cs *constraints.Constraints, internal, external *PV, reason constraints.Reason) {
	n := len(internal.Levels)
	if len(external.Levels) < n {
		n = len(external.Levels)
	}
	for i := 0; i < n; i++ {
		cs.AssertGeq(internal.Levels[i].Atom, external.Levels[i].Atom, reason, loc.PersistentSourceLocation{}, constraints.Checked)
	}
}

// unifyFully equates two PVs completely in both sub-orders, used for
// "Return atoms beyond the outermost level are fully unified" and for
// void/function-pointer aliasing where internal==external anyway (kept as a
// helper for the few levels beyond the outermost that still need full
// unification even when the two views are otherwise distinct objects).
func unifyFully(cs *constraints.Constraints, a, b *PV, reason constraints.Reason) {
	equateLevelsPtype(cs, a, b, reason)
	equateLevelsChecked(cs, a, b, reason)
	equateLevelsChecked(cs, b, a, reason)
}

// isVoidOrFuncPtrNoInterop reports whether a parameter/return PV should
// alias its internal and external views rather than split them (§4.5 "For
// void pointers and function pointers without an interop-type, the two PVs
// alias").
func isVoidOrFuncPtrNoInterop(pv *PV) bool {
	if pv.baseWild && pv.InteropType == "" {
		return true
	}
	if pv.NestedFunction != nil && pv.InteropType == "" {
		return true
	}
	return false
}

// newComponent builds one FV-component from a declared QualType, splitting
// into internal/external PVs unless aliasing applies (§4.5).
func newComponent(cs *constraints.Constraints, qt QualType, opt BuildFVOptions, role atoms.VarKind, namePrefix string) Component {
	internal := BuildPV(cs, qt, BuildPVOptions{VarKind: role, NamePrefix: namePrefix + "_in"})

	if isVoidOrFuncPtrNoInterop(internal) {
		return Component{Internal: internal, External: internal}
	}

	external := BuildPV(cs, qt, BuildPVOptions{VarKind: role, NamePrefix: namePrefix + "_ext"})
	if role == atoms.Return {
		// "Return atoms beyond the outermost level are fully unified."
		// The outermost level keeps the internal/external distinction used
		// by the rest of §4.5 (interop for a returned, possibly-narrowed
		// pointer); levels below it are fully unified since a returned
		// pointee's inner indirections have no separate caller/body view.
		if len(internal.Levels) > 1 && len(external.Levels) > 1 {
			unifyFully(cs, &PV{Levels: internal.Levels[1:]}, &PV{Levels: external.Levels[1:]}, "return-nested-unify")
		}
	}
	equateLevelsPtype(cs, internal, external, "fv-component-ptype-equate")
	equateLevelsChecked(cs, internal, external, "fv-component-internal-ge-external")
	return Component{Internal: internal, External: external}
}

// BuildFV constructs a function variable from a return type and ordered
// parameter types (§4.5).
func BuildFV(cs *constraints.Constraints, ret QualType, params []QualType, opt BuildFVOptions) *FV {
	fv := &FV{
		Name:           opt.Name,
		IsFunctionDecl: opt.IsFunctionDecl,
		HasBody:        opt.HasBody,
		IsStatic:       opt.IsStatic,
	}
	fv.Return = newComponent(cs, ret, opt, atoms.Return, opt.Name+"_ret")
	fv.Params = make([]Component, len(params))
	for i, pt := range params {
		fv.Params[i] = newComponent(cs, pt, opt, atoms.Param, opt.Name+"_p"+itoaSimple(i))
	}
	return fv
}

// PtrKind implements ConstraintVariable for a function handle: the kind of
// its external return (a function itself is never a pointer atom, but a
// function-pointer-typed PV nests an *FV and needs this to dispatch through
// the same capability set).
func (fv *FV) PtrKind(env *constraints.Environment) atoms.ConstAtom {
	return fv.Return.External.PtrKind(env)
}

// OriginalType reconstructs the as-declared signature text.
func (fv *FV) OriginalType() string {
	parts := make([]string, len(fv.Params))
	for i, p := range fv.Params {
		parts[i] = p.External.OriginalType()
	}
	return fv.Return.External.OriginalType() + "(" + strings.Join(parts, ", ") + ")"
}

// MkString reconstructs the function's rendered form as "ret-text(param-text,
// ...)", matching §6's "A function declaration exposes separate return-text
// and parameter-list-text" (ReturnText/ParamsText below expose the parts
// individually; MkString joins them for diagnostics/OriginalType-style use).
func (fv *FV) MkString(env *constraints.Environment) string {
	return fv.ReturnText(env) + "(" + fv.ParamsText(env) + ")"
}

// ReturnText renders the external return type (the caller-visible view).
func (fv *FV) ReturnText(env *constraints.Environment) string {
	return fv.Return.External.MkString(env)
}

// ParamsText renders the external parameter list, comma-joined.
func (fv *FV) ParamsText(env *constraints.Environment) string {
	parts := make([]string, len(fv.Params))
	for i, p := range fv.Params {
		parts[i] = p.External.MkString(env)
	}
	return strings.Join(parts, ", ")
}

// AnyChanges reports whether the return or any parameter's external
// rendering changed from its original declaration.
func (fv *FV) AnyChanges(env *constraints.Environment) bool {
	if fv.Return.External.AnyChanges(env) {
		return true
	}
	for _, p := range fv.Params {
		if p.External.AnyChanges(env) {
			return true
		}
	}
	return false
}

// ConstrainToWild forces every component (return and all parameters, both
// views) to Wild.
func (fv *FV) ConstrainToWild(cs *constraints.Constraints, reason constraints.Reason, l loc.PersistentSourceLocation) {
	fv.Return.Internal.ConstrainToWild(cs, reason, l)
	if !fv.Return.aliased() {
		fv.Return.External.ConstrainToWild(cs, reason, l)
	}
	for _, p := range fv.Params {
		p.Internal.ConstrainToWild(cs, reason, l)
		if !p.aliased() {
			p.External.ConstrainToWild(cs, reason, l)
		}
	}
}

// MergeDeclaration merges a second declaration/definition of the same
// function into fv (§4.5 "Merging declarations/definitions"): return,
// then parameters pointwise; arity mismatch is a hard failure.
func (fv *FV) MergeDeclaration(cs *constraints.Constraints, other *FV) error {
	if len(fv.Params) != len(other.Params) {
		return &ArityMismatchError{Name: fv.Name, Want: len(fv.Params), Got: len(other.Params)}
	}
	if err := MergePV(fv.Return.Internal, other.Return.Internal); err != nil {
		return err
	}
	if !fv.Return.aliased() && !other.Return.aliased() {
		if err := MergePV(fv.Return.External, other.Return.External); err != nil {
			return err
		}
	}
	for i := range fv.Params {
		if err := MergePV(fv.Params[i].Internal, other.Params[i].Internal); err != nil {
			return err
		}
		if !fv.Params[i].aliased() && !other.Params[i].aliased() {
			if err := MergePV(fv.Params[i].External, other.Params[i].External); err != nil {
				return err
			}
		}
	}
	if other.HasBody {
		fv.HasBody = true
	}
	return nil
}

// ArityMismatchError is returned by MergeDeclaration when two declarations
// of the same function name disagree on parameter count (§4.5, §7
// "Declaration merge failure").
type ArityMismatchError struct {
	Name     string
	Want, Got int
}

func (e *ArityMismatchError) Error() string {
	return "cvars: arity mismatch merging declarations of " + e.Name
}
