package resolver

import (
	"strconv"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/bounds"
	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
)

// resolveCall implements §4.6 "Call expression" and §4.7's allocator and
// unknown-callee special cases.
func (r *Resolver) resolveCall(n *cast.Call, ctx Context) (CVarSet, BoundsKeySet) {
	argPVs := make([]*cvars.PV, len(n.Args))
	var argKeys []BoundsKeySet
	for i, a := range n.Args {
		cvs, keys := r.Resolve(a, ctx)
		argPVs[i], _ = outermostPV(cvs)
		argKeys = append(argKeys, keys)
	}

	if n.Alloc != cast.NotAlloc {
		return r.resolveAllocCall(n, argPVs, argKeys)
	}

	if !n.CalleeKnown {
		// "Call with unknown callee: every argument is conservatively
		// constrained to Wild" (§4.7).
		for _, pv := range argPVs {
			if pv != nil {
				pv.ConstrainToWild(r.pi.CS, "unknown-callee", n.Loc)
			}
		}
		return nil, nil
	}

	fv, ok := r.pi.LookupFunc(n.CalleeName, ctx.CallerFile)
	if !ok {
		for _, pv := range argPVs {
			if pv != nil {
				pv.ConstrainToWild(r.pi.CS, "undeclared-callee", n.Loc)
			}
		}
		return nil, nil
	}

	// A call at a macro-synthesized or otherwise unrewritable location can't
	// have a cast inserted around an argument or the result, so its boundary
	// is unified (Same_to_Same) instead of the normal directed action (§7).
	unwritable := n.InMacro || !ctx.Rewritable.IsRewritable(cast.FromLoc(n.Loc))

	argAction, argEquate := constraints.WildToSafe, false
	retAction, retEquate := constraints.SafeToWild, false
	if unwritable {
		argAction, argEquate = unwritableFallback()
		retAction, retEquate = unwritableFallback()
	}

	nParams := len(fv.Params)
	for i, argPV := range argPVs {
		if argPV == nil {
			continue
		}
		if i >= nParams {
			// "Varargs beyond declared arity: each extra argument is
			// conservatively constrained to Wild" (§4.7).
			if n.VarargIndexStart >= 0 && i >= n.VarargIndexStart {
				argPV.ConstrainToWild(r.pi.CS, "vararg-beyond-arity", n.Loc)
			}
			continue
		}
		paramIdx, stripped := ctx.TypeParamOfArg[i]
		if stripped {
			if argText, ok := r.pi.CallSiteTypeArg(n.CallSiteID, paramIdx); ok {
				_ = argText // the consistently-used generic argument text; binding itself is still asserted below
			}
		}
		cvars.ConstrainAssign(r.pi.CS, fv.Params[i].External, argPV, argAction, cvars.AssignOptions{EquateTypes: argEquate}, "call-argument-binding", n.Loc)
	}

	// The call site's own view of the result is a fresh copy of the callee's
	// external return, not the external return itself: a per-call-site cast
	// demotion on the result must not flow back into the function's shared
	// external return and wrongly affect every other call site (§4.6).
	retPV := cvars.CopyPV(r.pi.CS, fv.Return.External, "call_ret")
	cvars.ConstrainAssign(r.pi.CS, retPV, fv.Return.External, retAction, cvars.AssignOptions{EquateTypes: retEquate}, "call-return-view", n.Loc)
	retCVs := CVarSet{retPV}

	if n.IsRealloc && len(argPVs) > 0 && argPVs[0] != nil {
		// "realloc's first argument flows to the return" (§4.6).
		cvars.ConstrainAssign(r.pi.CS, retPV, argPVs[0], constraints.SameToSame, cvars.AssignOptions{EquateTypes: true}, "realloc-identity", n.Loc)
	}

	r.casts.RecordCallSite(n.Loc, argPVs, externalParamPVs(fv), retPV, fv.Return.External)

	return retCVs, nil
}

func externalParamPVs(fv *cvars.FV) []*cvars.PV {
	out := make([]*cvars.PV, len(fv.Params))
	for i, p := range fv.Params {
		out[i] = p.External
	}
	return out
}

// resolveAllocCall implements §4.6 "Special case malloc/calloc/realloc/
// user-declared allocators": the result is a fresh pointer PV with a
// Allocator-priority count bound derived from the call's size argument,
// when that argument is a literal constant (§4.8 Priority.Allocator).
func (r *Resolver) resolveAllocCall(n *cast.Call, argPVs []*cvars.PV, argKeys []BoundsKeySet) (CVarSet, BoundsKeySet) {
	v := r.pi.CS.FreshVar("alloc_result", atoms.Other)
	r.pi.CS.AssertGeq(v, atoms.Ptr, "allocator-result", n.Loc, constraints.Checked)
	// "calloc(1, sizeof T)" denotes a single object and stays at PTR;
	// malloc/calloc/realloc of "sizeof(T)*N" denotes a block of N and is
	// constrained to at least ARR in the ptr-type dimension (§4.6).
	if n.Alloc == cast.AllocCountedN {
		r.pi.CS.AssertGeq(v, atoms.Arr, "allocator-result-counted", n.Loc, constraints.Ptype)
	}
	pv := &cvars.PV{Levels: []cvars.Level{{Atom: v}}, BaseType: "void"}

	if lit, ok := n.AllocCountExpr.(*cast.Literal); ok {
		if n64, err := strconv.ParseInt(lit.Value, 10, 64); err == nil {
			key := r.pi.Keys.Constant(n64)
			switch n.Alloc {
			case cast.AllocCalloc1:
				r.pi.Bounds.SetBound(key, bounds.Allocator, bounds.Count(key))
			case cast.AllocCountedN:
				r.pi.Bounds.SetBound(key, bounds.Allocator, bounds.Count(key))
			}
			return CVarSet{pv}, keysOf(key)
		}
	}
	return CVarSet{pv}, nil
}
