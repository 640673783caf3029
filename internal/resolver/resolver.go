// Package resolver implements ConstraintResolver (§4.6): the expression
// visitor invoked during AST traversal that returns, for each expression,
// a (CVarSet, BoundsKeySet) pair of the constraint views it denotes and the
// length keys associated with it, memoized by PersistentSourceLocation.
//
// Grounded on clang/lib/3C/ConstraintBuilder.cpp's expression-visitor
// methods in original_source, expressed as a single type-switch per §9
// ("Virtual calls through visitors... Express constraint generation as a
// single match on AST-node kind. Borrow-check it by making the resolver
// own nothing and passing &mut ProgramInfo at each call") — Resolver holds
// only its memo table and its CastPlan; every constraint mutation goes through the *proginfo.ProgramInfo
// passed at construction.
package resolver

import (
	"github.com/funvibe/checkedc-infer/internal/bounds"
	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/funvibe/checkedc-infer/internal/proginfo"
)

// CVarSet is an expression's set of constraint views (usually one element;
// a conditional or init-list can denote more than one PV/FV).
type CVarSet []cvars.ConstraintVariable

// BoundsKeySet is the set of length keys an expression is associated with.
type BoundsKeySet []bounds.Key

// Context carries the per-call information the resolver needs that isn't
// reachable from the expression node itself: which file/function we are
// resolving within (for static-function lookup and scope construction) and
// the rewritable-location set for the current translation unit (§6).
type Context struct {
	CallerFile     string
	CallerFuncName string
	CallerIsStatic bool
	Rewritable     cast.RewritableSet
	// TypeParamOfArg, when non-nil, maps an argument index to the callee's
	// generic type-parameter index it binds, for the call currently being
	// resolved (§4.6 "If the callee's parameter i is a consistently-used
	// generic type parameter for this call site, strip implicit casts").
	TypeParamOfArg map[int]int
}

type memoEntry struct {
	cvs  CVarSet
	keys BoundsKeySet
}

// Resolver is ConstraintResolver (§4.6). It owns only its memo table and its CastPlan; every
// atom/constraint/bounds mutation is delegated to the ProgramInfo passed at
// construction, per §9's visitor note.
type Resolver struct {
	pi    *proginfo.ProgramInfo
	memo  map[loc.PersistentSourceLocation]memoEntry
	casts *CastPlan
}

// New returns a Resolver over pi, with an empty CastPlan (§6 "the set of
// casts the resolver decided must surround arguments/return").
func New(pi *proginfo.ProgramInfo) *Resolver {
	return &Resolver{
		pi:    pi,
		memo:  make(map[loc.PersistentSourceLocation]memoEntry),
		casts: NewCastPlan(),
	}
}

// CastPlan exposes the accumulated cast-insertion decisions.
func (r *Resolver) CastPlan() *CastPlan { return r.casts }

// Resolve dispatches on e's dynamic type and returns its constraint view,
// memoizing by location so repeat visits (e.g. a shared subexpression) are
// free (§4.6 "memoized against a PersistentSourceLocation").
func (r *Resolver) Resolve(e cast.Expr, ctx Context) (CVarSet, BoundsKeySet) {
	if e == nil {
		return nil, nil
	}
	l := e.Location()
	if l.Valid() {
		if hit, ok := r.memo[l]; ok {
			return hit.cvs, hit.keys
		}
	}
	cvs, keys := r.resolveUncached(e, ctx)
	if l.Valid() {
		r.memo[l] = memoEntry{cvs: cvs, keys: keys}
	}
	return cvs, keys
}

func (r *Resolver) resolveUncached(e cast.Expr, ctx Context) (CVarSet, BoundsKeySet) {
	switch n := e.(type) {
	case *cast.Literal:
		return r.resolveLiteral(n)
	case *cast.NullPtrConstant:
		return r.resolveNullPtr(n)
	case *cast.DeclRef:
		return r.resolveDeclRef(n)
	case *cast.Member:
		return r.resolveMember(n, ctx)
	case *cast.ImplicitCast:
		return r.resolveImplicitCast(n, ctx)
	case *cast.ExplicitCast:
		return r.resolveExplicitCast(n, ctx)
	case *cast.BinaryOp:
		return r.resolveBinary(n, ctx)
	case *cast.UnaryOp:
		return r.resolveUnary(n, ctx)
	case *cast.Subscript:
		return r.resolveSubscript(n, ctx)
	case *cast.Call:
		return r.resolveCall(n, ctx)
	case *cast.Conditional:
		return r.resolveConditional(n, ctx)
	case *cast.InitList:
		return r.resolveInitList(n, ctx)
	case *cast.CompoundLiteral:
		return r.resolveCompoundLiteral(n, ctx)
	case *cast.StringLiteral:
		return r.resolveStringLiteral(n)
	case *cast.VaArgExpr:
		return r.resolveVaArg(n)
	default:
		return nil, nil
	}
}

func outermostKind(cvs CVarSet) (cvars.ConstraintVariable, bool) {
	if len(cvs) == 0 {
		return nil, false
	}
	return cvs[0], true
}

func keysOf(ks ...bounds.Key) BoundsKeySet {
	out := make(BoundsKeySet, 0, len(ks))
	for _, k := range ks {
		if k != bounds.Invalid {
			out = append(out, k)
		}
	}
	return out
}

// wildPV wraps a CVarSet with a fresh Wild-constrained PV, used whenever a
// rule must introduce a synthetic rewritable node (unsafe implicit
// casts, va_arg).
func (r *Resolver) wildPV(l loc.PersistentSourceLocation, name string, reason constraints.Reason) *cvars.PV {
	pv := cvars.BuildPV(r.pi.CS, cvars.QualType{Levels: []cvars.QualTypeLevel{{}}, BaseType: "void"}, cvars.BuildPVOptions{NamePrefix: name})
	pv.ConstrainToWild(r.pi.CS, reason, l)
	return pv
}
