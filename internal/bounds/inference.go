package bounds

import "sort"

// InScope implements §4.8.3 scope-reachability: a length key k from source
// v is in-scope for destination d when k's scope equals d's scope, k is a
// constant, or k is reachable in ProgVarGraph from v passing only through
// variables in d's scope.
func (info *Info) InScope(k, srcVar, dstVar Key) bool {
	if info.Keys.IsConstant(k) {
		return true
	}
	kVar, kOK := info.vars[k]
	dVar, dOK := info.vars[dstVar]
	if kOK && dOK && kVar.Scope.Equal(dVar.Scope) {
		return true
	}
	if !dOK {
		return false
	}
	reachable := false
	info.Graph.ReachableFrom(srcVar, func(n Key) bool {
		if n == k {
			reachable = true
		}
		nVar, ok := info.vars[n]
		if n != srcVar && (!ok || !nVar.Scope.Equal(dVar.Scope)) {
			return false // stop exploring past a node outside d's scope
		}
		return true
	})
	return reachable
}

// candidatesFor gathers, for destination key `dst`, the set of bounds
// kind->key-set pairs visible from each predecessor that has a bound in
// scope (§4.8.2 step 1).
func (info *Info) candidatesFor(dst Key) map[BKind]map[Key]bool {
	out := map[BKind]map[Key]bool{BCount: {}, BByteCount: {}}
	for _, pred := range info.Graph.Predecessors(dst) {
		b, ok := info.Resolved(pred)
		if !ok || b.Kind == BInvalid || b.Kind == BRange {
			continue
		}
		if !info.InScope(b.Key, pred, dst) {
			continue
		}
		out[b.Kind][b.Key] = true
	}
	return out
}

// intersectAcrossPreds returns the set intersection of the key-sets collected
// across predecessors; §4.8.2 step 1 "intersect the candidate length-key
// sets across predecessors."
func intersectAcrossPreds(info *Info, dst Key, kind BKind) map[Key]bool {
	preds := info.Graph.Predecessors(dst)
	var sets []map[Key]bool
	for _, pred := range preds {
		b, ok := info.Resolved(pred)
		if !ok || b.Kind != kind {
			continue
		}
		if !info.InScope(b.Key, pred, dst) {
			continue
		}
		sets = append(sets, map[Key]bool{b.Key: true})
	}
	if len(sets) == 0 {
		return nil
	}
	result := sets[0]
	for _, s := range sets[1:] {
		next := make(map[Key]bool)
		for k := range result {
			if s[k] {
				next[k] = true
			}
		}
		result = next
	}
	return result
}

// chooseFromCandidates implements §4.8.2 step 2's convergence rule:
// preference order Count > ByteCount; within a kind prefer a non-constant
// key; multiple differing non-constant candidates fail to converge (no
// bound assigned); multiple constant candidates pick the smallest integer
// (approximated here as the smallest Key, since constant keys are interned
// 1:1 with the integer literal they denote — see Allocator.Constant).
func (info *Info) chooseFromCandidates(dst Key) (ABounds, bool) {
	for _, kind := range []BKind{BCount, BByteCount} {
		set := intersectAcrossPreds(info, dst, kind)
		if len(set) == 0 {
			continue
		}
		var nonConst, constKeys []Key
		for k := range set {
			if info.Keys.IsConstant(k) {
				constKeys = append(constKeys, k)
			} else {
				nonConst = append(nonConst, k)
			}
		}
		if len(nonConst) > 1 {
			continue // differing non-constant candidates: no bound assigned
		}
		if len(nonConst) == 1 {
			return mkBound(kind, nonConst[0]), true
		}
		if len(constKeys) > 0 {
			sort.Slice(constKeys, func(i, j int) bool { return constKeys[i] < constKeys[j] })
			return mkBound(kind, constKeys[0]), true
		}
	}
	return ABounds{}, false
}

func mkBound(kind BKind, k Key) ABounds {
	if kind == BByteCount {
		return ByteCount(k)
	}
	return Count(k)
}

// PerformFlowAnalysis runs §4.8.2 to a fixed point: worklist-driven
// intra-procedural inference, context-sensitive propagation over the two
// call-site graphs, and a final potential-count-bound fallback. It mutates
// Info's bound map in place and returns the number of keys that received a
// FlowInferred (or Heuristics-fallback) bound in this call.
func (info *Info) PerformFlowAnalysis() int {
	assigned := 0
	for {
		changedThisRound := false
		for _, k := range info.ArrayPointers() {
			if info.IsInvalid(k) || info.HasArithmetic(k) {
				continue // §4.8.1: arithmetic pointers don't inherit bounds from neighbors
			}
			if info.HasAnyBound(k) {
				continue
			}
			if b, ok := info.chooseFromCandidates(k); ok {
				info.SetBound(k, FlowInferred, b)
				assigned++
				changedThisRound = true
			}
		}
		if n := info.propagateContextSensitive(); n > 0 {
			assigned += n
			changedThisRound = true
		}
		if !changedThisRound {
			break
		}
	}

	// §4.8.2 step 4: fall back to potential count bounds for anything
	// still missing a bound.
	for _, k := range info.ArrayPointers() {
		if info.IsInvalid(k) || info.HasAnyBound(k) {
			continue
		}
		cands := info.PotentialCounts(k)
		if len(cands) == 0 {
			continue
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i] < cands[j] })
		info.SetBound(k, Heuristics, Count(cands[0]))
		assigned++
	}
	return assigned
}

// propagateContextSensitive implements §4.8.2 step 3: push bounds across
// CtxSensProgVarGraph (caller argument -> callee parameter) and
// RevCtxSensProgVarGraph (callee return/param -> caller) edges, using the
// same candidate/converge logic as the intra-procedural pass but walking
// the context-sensitive graphs instead. Returns the number of keys that
// received a bound.
func (info *Info) propagateContextSensitive() int {
	changed := 0
	for _, g := range []*VarGraph{info.CtxGraph, info.RevCtxGraph} {
		for _, k := range g.Nodes() {
			if !info.IsArrayPointer(k) || info.IsInvalid(k) || info.HasArithmetic(k) || info.HasAnyBound(k) {
				continue
			}
			preds := g.Predecessors(k)
			for _, pred := range preds {
				b, ok := info.Resolved(pred)
				if !ok || b.Kind == BInvalid || b.Kind == BRange {
					continue
				}
				if !info.InScope(b.Key, pred, k) {
					continue
				}
				info.SetBound(k, FlowInferred, mkBound(b.Kind, b.Key))
				changed++
				break
			}
		}
	}
	return changed
}
