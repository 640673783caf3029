package resolver

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// CallCast records the cast-insertion decisions for one call expression
// (§6 "For each call expression: the set of casts the resolver decided
// must surround arguments/return").
type CallCast struct {
	ArgNeedsCast    []bool
	ReturnNeedsCast bool
}

// CastPlan is the accumulated set of cast decisions across every call
// resolved so far, keyed by the call expression's location. Supplemented
// feature (SPEC_FULL item 3), grounded on clang/lib/3C/CastPlacement.cpp's
// needCasting/getExistingIType bookkeeping in original_source.
type CastPlan struct {
	calls map[loc.PersistentSourceLocation]*CallCast
	sites []site
}

func NewCastPlan() *CastPlan {
	return &CastPlan{calls: make(map[loc.PersistentSourceLocation]*CallCast)}
}

func (cp *CastPlan) entry(l loc.PersistentSourceLocation, nArgs int) *CallCast {
	c, ok := cp.calls[l]
	if !ok {
		c = &CallCast{ArgNeedsCast: make([]bool, nArgs)}
		cp.calls[l] = c
	}
	return c
}

// RecordArgCast marks whether argument i at call site l needs a cast
// inserted at rewrite time.
func (cp *CastPlan) RecordArgCast(l loc.PersistentSourceLocation, nArgs, i int, needed bool) {
	c := cp.entry(l, nArgs)
	if i >= 0 && i < len(c.ArgNeedsCast) {
		c.ArgNeedsCast[i] = needed
	}
}

// RecordReturnCast marks whether the call's result needs a cast.
func (cp *CastPlan) RecordReturnCast(l loc.PersistentSourceLocation, nArgs int, needed bool) {
	cp.entry(l, nArgs).ReturnNeedsCast = needed
}

// Get returns the recorded decision for l, or a zero-value CallCast if
// the call was never resolved (e.g. an unknown callee).
func (cp *CastPlan) Get(l loc.PersistentSourceLocation) CallCast {
	if c, ok := cp.calls[l]; ok {
		return *c
	}
	return CallCast{}
}

// NeedsCast reports whether a boundary between an external (caller-visible)
// kind and an internal (body-visible, or argument-site) kind requires the
// rewriter to insert an explicit cast: true exactly when the two solved
// kinds differ, which is exactly the itype-widening shape of scenario S5
// ("external x solves to Ptr; internal x solves to Arr ... declaration
// rewrites with an itype ... Callers with _Ptr<int> arguments compile
// without a cast" — no cast needed there since the specific caller's
// argument already matches Ptr; a cast is only needed when the concrete
// value at this site resolves to a different kind than the parameter's
// external view).
func NeedsCast(siteKind, paramExternalKind atoms.ConstAtom) bool {
	return siteKind != paramExternalKind
}

// site records one resolved call's argument/return PVs against the
// callee's external views, deferred for §6's post-solve NeedsCast pass
// since the solved kind each PV resolves to isn't known until after the
// fixed-point solver has run (internal/solver).
type site struct {
	loc        loc.PersistentSourceLocation
	args       []*cvars.PV
	params     []*cvars.PV // callee external param views, parallel to args
	ret        *cvars.PV   // caller-side view of the call's result, nil if unused
	calleeRet  *cvars.PV   // callee's external return view, nil if unknown callee
}

// RecordCallSite registers a resolved call for later NeedsCast finalization.
func (cp *CastPlan) RecordCallSite(l loc.PersistentSourceLocation, args, params []*cvars.PV, ret, calleeRet *cvars.PV) {
	cp.sites = append(cp.sites, site{loc: l, args: args, params: params, ret: ret, calleeRet: calleeRet})
}

// CallSiteArgs returns, for every recorded call site, the argument PVs
// alongside the callee's external parameter views they bind to — the pairing
// internal/generator's type-variable pass (§4.7, SUPPLEMENTED FEATURES #1)
// needs to find arguments sharing a generic parameter index.
func (cp *CastPlan) CallSiteArgs() [][2][]*cvars.PV {
	out := make([][2][]*cvars.PV, len(cp.sites))
	for i, s := range cp.sites {
		out[i] = [2][]*cvars.PV{s.args, s.params}
	}
	return out
}

// Finalize runs NeedsCast over every recorded call site now that env holds
// a solved checked/ptype assignment, populating each site's CallCast entry.
func (cp *CastPlan) Finalize(env *constraints.Environment) {
	for _, s := range cp.sites {
		n := len(s.args)
		if len(s.params) < n {
			n = len(s.params)
		}
		for i := 0; i < n; i++ {
			needed := NeedsCast(s.args[i].PtrKind(env), s.params[i].PtrKind(env))
			cp.RecordArgCast(s.loc, len(s.args), i, needed)
		}
		if s.ret != nil && s.calleeRet != nil {
			needed := NeedsCast(s.ret.PtrKind(env), s.calleeRet.PtrKind(env))
			cp.RecordReturnCast(s.loc, len(s.args), needed)
		}
	}
}

// unwritableFallback implements §7 "Unwritable location": when a location
// is not rewritable, casts cannot be inserted there, so the boundary is
// unified instead (Same_to_Same) to avoid requiring one. Returns the
// ConsAction/ EquateTypes pair callers should use in place of the
// rewritable-path action.
func unwritableFallback() (constraints.ConsAction, bool) {
	return constraints.SameToSame, true
}
