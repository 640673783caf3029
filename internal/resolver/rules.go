package resolver

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/bounds"
	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// resolveLiteral implements §4.6 "Literal of integer/record type: a
// sentinel base PV; non-pointer."
func (r *Resolver) resolveLiteral(n *cast.Literal) (CVarSet, BoundsKeySet) {
	pv := cvars.BuildPV(r.pi.CS, cvars.QualType{BaseType: "int"}, cvars.BuildPVOptions{NamePrefix: "lit"})
	return CVarSet{pv}, nil
}

// resolveNullPtr implements §4.6 "Null pointer constant: empty set (no
// constraints imposed)."
func (r *Resolver) resolveNullPtr(n *cast.NullPtrConstant) (CVarSet, BoundsKeySet) {
	return nil, nil
}

// resolveDeclRef implements §4.6 "Declaration reference: the declaration's
// variable."
func (r *Resolver) resolveDeclRef(n *cast.DeclRef) (CVarSet, BoundsKeySet) {
	cv, ok := r.pi.LookupDecl(n.DeclLoc)
	if !ok {
		return nil, nil
	}
	var keys BoundsKeySet
	if k, ok := r.pi.BoundsKeyOf(n.DeclLoc); ok {
		keys = keysOf(k)
	}
	return CVarSet{cv}, keys
}

// resolveMember implements §4.6 "Member access: the field's variable."
func (r *Resolver) resolveMember(n *cast.Member, ctx Context) (CVarSet, BoundsKeySet) {
	r.Resolve(n.BaseExpr, ctx) // traverse for side effects (memoization, arithmetic marking upstream)
	cv, ok := r.pi.LookupDecl(n.FieldLoc)
	if !ok {
		return nil, nil
	}
	var keys BoundsKeySet
	if k, ok := r.pi.BoundsKeyOf(n.FieldLoc); ok {
		keys = keysOf(k)
	}
	return CVarSet{cv}, keys
}

// resolveImplicitCast implements §4.6 "Implicit cast": if unsafe, wrap with
// a fresh Wild PV and Safe_to_Wild-constrain from the subexpression.
func (r *Resolver) resolveImplicitCast(n *cast.ImplicitCast, ctx Context) (CVarSet, BoundsKeySet) {
	subCVs, keys := r.Resolve(n.Sub, ctx)
	if !n.Unsafe {
		return subCVs, keys
	}
	wild := r.wildPV(n.Loc, "implicit_cast", "unsafe-implicit-cast")
	if subPV, ok := outermostPV(subCVs); ok {
		cvars.ConstrainAssign(r.pi.CS, wild, subPV, constraints.SafeToWild, cvars.AssignOptions{}, "unsafe-implicit-cast", n.Loc)
	}
	return CVarSet{wild}, keys
}

// resolveExplicitCast implements §4.6 "Explicit cast": a fresh rewritable
// PV, constrained from the subexpression via Same_to_Same; demoted to Wild
// at the cast's location if unsafe. A cast synthesized by the preprocessor
// or at an unrewritable location falls back to unification instead, since
// no cast can actually be inserted there (§7).
func (r *Resolver) resolveExplicitCast(n *cast.ExplicitCast, ctx Context) (CVarSet, BoundsKeySet) {
	subCVs, keys := r.Resolve(n.Sub, ctx)
	pv := cvars.BuildPV(r.pi.CS, n.ToType, cvars.BuildPVOptions{NamePrefix: "cast"})

	action, equate := constraints.SameToSame, true
	if n.InMacro || !n.Rewritable {
		action, equate = unwritableFallback()
	}
	if subPV, ok := outermostPV(subCVs); ok {
		cvars.ConstrainAssign(r.pi.CS, pv, subPV, action, cvars.AssignOptions{EquateTypes: equate}, "explicit-cast", n.Loc)
	}
	if n.Unsafe {
		pv.ConstrainToWild(r.pi.CS, "unsafe-explicit-cast", n.Loc)
	}
	return CVarSet{pv}, keys
}

// resolveBinary implements §4.6 "Binary operator": assignment/compound-
// assign return the LHS set; comma returns the RHS; additive ops on
// pointer operands return that operand's set and record arithmetic usage.
func (r *Resolver) resolveBinary(n *cast.BinaryOp, ctx Context) (CVarSet, BoundsKeySet) {
	lhsCVs, lhsKeys := r.Resolve(n.LHS, ctx)
	rhsCVs, rhsKeys := r.Resolve(n.RHS, ctx)

	switch n.Op {
	case "=":
		r.constrainAssignment(lhsCVs, rhsCVs, n.Loc)
		return lhsCVs, lhsKeys
	case "+=", "-=":
		r.constrainAssignment(lhsCVs, rhsCVs, n.Loc)
		r.recordArithmetic(lhsKeys)
		r.recordArithmetic(rhsKeys)
		return lhsCVs, lhsKeys
	case ",":
		return rhsCVs, rhsKeys
	case "+", "-":
		if n.PointerArithmetic {
			r.recordArithmetic(lhsKeys)
			r.recordArithmetic(rhsKeys)
			return lhsCVs, lhsKeys
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// constrainAssignment applies §4.1's Safe_to_Wild assignment rule between
// an lvalue's set and the value flowing into it.
func (r *Resolver) constrainAssignment(lhsCVs, rhsCVs CVarSet, l loc.PersistentSourceLocation) {
	lhsPV, ok := outermostPV(lhsCVs)
	if !ok {
		return
	}
	rhsPV, ok := outermostPV(rhsCVs)
	if !ok {
		return
	}
	cvars.ConstrainAssign(r.pi.CS, lhsPV, rhsPV, constraints.SafeToWild, cvars.AssignOptions{}, "assignment", l)
}

func (r *Resolver) recordArithmetic(keys BoundsKeySet) {
	for _, k := range keys {
		r.pi.Bounds.MarkArithmetic(k)
	}
}

// resolveUnary implements §4.6 "Unary operator": deref strips one outer
// atom; address-of adds one outer atom constrained >= Ptr (except for a
// sized-array operand, which may legitimately decay to an array pointer);
// increment/decrement return the operand's set and record arithmetic.
func (r *Resolver) resolveUnary(n *cast.UnaryOp, ctx Context) (CVarSet, BoundsKeySet) {
	cvs, keys := r.Resolve(n.Operand, ctx)
	switch n.Op {
	case "*":
		return derefOne(cvs), keys
	case "&":
		pv := r.addressOfOne(cvs, n.Loc)
		if pv == nil {
			return nil, keys
		}
		return CVarSet{pv}, keys
	case "++", "--":
		r.recordArithmetic(keys)
		return cvs, keys
	default:
		return cvs, keys
	}
}

func outermostPV(cvs CVarSet) (*cvars.PV, bool) {
	cv, ok := outermostKind(cvs)
	if !ok {
		return nil, false
	}
	pv, ok := cv.(*cvars.PV)
	return pv, ok
}

func derefOne(cvs CVarSet) CVarSet {
	pv, ok := outermostPV(cvs)
	if !ok || len(pv.Levels) == 0 {
		return nil
	}
	return CVarSet{&cvars.PV{
		Levels:            pv.Levels[1:],
		BaseType:          pv.BaseType,
		InteropType:       pv.InteropType,
		OriginallyChecked: pv.OriginallyChecked,
		NestedFunction:    pv.NestedFunction,
	}}
}

func (r *Resolver) addressOfOne(cvs CVarSet, l loc.PersistentSourceLocation) *cvars.PV {
	pv, ok := outermostPV(cvs)
	if !ok {
		return nil
	}
	v := r.pi.CS.FreshVar("addrof", atoms.Other)
	isSizedArray := len(pv.Levels) > 0 && pv.Levels[0].Shape == cvars.ShapeSizedArray
	if !isSizedArray {
		r.pi.CS.AssertGeq(atoms.Ptr, v, "address-of-forbids-array", l, constraints.Ptype)
	}
	newLevels := append([]cvars.Level{{Atom: v}}, pv.Levels...)
	return &cvars.PV{Levels: newLevels, BaseType: pv.BaseType}
}

// resolveSubscript implements §4.6 "Array subscript: as deref of base",
// plus recording a potential count bound when the subscript is guarded by
// `index < K` (§4.8.1).
func (r *Resolver) resolveSubscript(n *cast.Subscript, ctx Context) (CVarSet, BoundsKeySet) {
	baseCVs, baseKeys := r.Resolve(n.BaseExpr, ctx)
	r.Resolve(n.IndexExpr, ctx)
	if n.IndexUpperBound >= 0 {
		bound := r.pi.Keys.Constant(int64(n.IndexUpperBound))
		for _, k := range baseKeys {
			r.pi.Bounds.AddPotentialCount(k, bound)
		}
	}
	return derefOne(baseCVs), baseKeys
}

// resolveConditional implements §4.6 "Conditional operator... union of
// operand sets".
func (r *Resolver) resolveConditional(n *cast.Conditional, ctx Context) (CVarSet, BoundsKeySet) {
	r.Resolve(n.Cond, ctx)
	thenCVs, thenKeys := r.Resolve(n.Then, ctx)
	elseCVs, elseKeys := r.Resolve(n.Else, ctx)
	return append(append(CVarSet{}, thenCVs...), elseCVs...), append(append(BoundsKeySet{}, thenKeys...), elseKeys...)
}

// resolveInitList implements §4.6 "init-list... union of operand sets";
// an array-typed init-list adds one outer ARR level.
func (r *Resolver) resolveInitList(n *cast.InitList, ctx Context) (CVarSet, BoundsKeySet) {
	var allCVs CVarSet
	var allKeys BoundsKeySet
	for _, e := range n.Elems {
		cvs, keys := r.Resolve(e, ctx)
		allCVs = append(allCVs, cvs...)
		allKeys = append(allKeys, keys...)
	}
	if !n.IsArrayType {
		return allCVs, allKeys
	}
	v := r.pi.CS.FreshVar("initlist", atoms.Other)
	r.pi.CS.AssertGeq(v, atoms.Arr, "init-list-array-type", n.Loc, constraints.Checked)
	pv := &cvars.PV{Levels: []cvars.Level{{Atom: v, Shape: cvars.ShapeUnsizedArray}}, BaseType: "void"}
	return append(allCVs, pv), allKeys
}

// resolveCompoundLiteral implements §4.6 "compound literals allocate a
// fresh rewritable PV constrained from the list".
func (r *Resolver) resolveCompoundLiteral(n *cast.CompoundLiteral, ctx Context) (CVarSet, BoundsKeySet) {
	listCVs, keys := r.Resolve(n.List, ctx)
	pv := cvars.BuildPV(r.pi.CS, n.Type, cvars.BuildPVOptions{NamePrefix: "compound_lit"})
	if subPV, ok := outermostPV(listCVs); ok {
		cvars.ConstrainAssign(r.pi.CS, pv, subPV, constraints.SameToSame, cvars.AssignOptions{EquateTypes: true}, "compound-literal", n.Loc)
	}
	return CVarSet{pv}, keys
}

// resolveStringLiteral implements §4.6 "String literal: fresh PV
// constrained >= NTArr with a synthetic count bound equal to the
// literal's byte length" (scenario S3).
func (r *Resolver) resolveStringLiteral(n *cast.StringLiteral) (CVarSet, BoundsKeySet) {
	v := r.pi.CS.FreshVar("strlit", atoms.Other)
	r.pi.CS.AssertGeq(v, atoms.NTArr, "string-literal", n.Loc, constraints.Checked)
	pv := &cvars.PV{Levels: []cvars.Level{{Atom: v}}, BaseType: "char"}
	lenKey := r.pi.Keys.Constant(int64(n.ByteLen))
	r.pi.Bounds.SetBound(lenKey, bounds.Declared, bounds.Count(lenKey))
	return CVarSet{pv}, keysOf(lenKey)
}

// resolveVaArg implements §4.6 "var-arg access (va_arg): fresh PV
// constrained to Wild."
func (r *Resolver) resolveVaArg(n *cast.VaArgExpr) (CVarSet, BoundsKeySet) {
	return CVarSet{r.wildPV(n.Loc, "va_arg", "va-arg-access")}, nil
}
