package solver

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/cgraph"
	"github.com/funvibe/checkedc-infer/internal/constraints"
)

// seedOrder is the "process in order of decreasing severity (Wild first)"
// rule of §4.3.1 step 2.
var seedOrder = []atoms.ConstAtom{atoms.Wild, atoms.NTArr, atoms.Arr, atoms.Ptr}

// raiseWorklist implements §4.3.1 steps 2-3: starting from a queue of
// already-resolved source atoms, push every successor's checked solution up
// to at least its source's value, enqueueing anything that changed.
func raiseWorklist(env *constraints.Environment, graph *cgraph.Graph, sub constraints.SubOrder, seed []atoms.Atom) {
	queue := append([]atoms.Atom(nil), seed...)
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		aVal := env.Resolve(a, sub)
		for _, b := range graph.Successors(a, sub) {
			bv, ok := atoms.AsVar(b)
			if !ok {
				continue // constants never move
			}
			cur := env.Get(bv)
			curVal := cur.Checked
			if sub == constraints.Ptype {
				curVal = cur.Ptype
			}
			if curVal.Less(aVal) {
				if sub == constraints.Checked {
					cur.Checked = aVal
				} else {
					cur.Ptype = aVal
				}
				env.Set(bv, cur)
				queue = append(queue, bv)
			}
		}
	}
}

// checkedPass runs §4.3.1 to completion: the worklist drain, the implication
// expansion loop, and the bound check. Returns the conflict set and whether
// solving succeeded (ok is always true here since conflicts are resolved by
// immediate demotion rather than aborting, matching "a violation produces a
// conflict constraint and an immediate demotion of V to Wild"; ok is kept in
// the signature to mirror §4.1's solve() shape and to let a future
// unrecoverable-conflict case return false without changing callers).
func checkedPass(cs *constraints.Constraints, graph *cgraph.Graph, env *constraints.Environment) ([]constraints.Geq, bool) {
	seed := make([]atoms.Atom, 0, 4)
	for _, c := range seedOrder {
		seed = append(seed, c)
	}
	raiseWorklist(env, graph, constraints.Checked, seed)

	applied := make(map[int]bool)
	for {
		fired := false
		for i, im := range cs.Implications() {
			if applied[i] {
				continue
			}
			premiseVal := env.Resolve(im.Premise.Lhs, constraints.Checked)
			rhsConst := im.Premise.Rhs.(atoms.ConstAtom)
			if rhsConst.LessEq(premiseVal) {
				applied[i] = true
				graph.AddImpliedEdge(im.Conclusion)
				raiseWorklist(env, graph, constraints.Checked, []atoms.Atom{im.Conclusion.Rhs, im.Conclusion.Lhs})
				fired = true
			}
		}
		if !fired {
			break
		}
	}

	conflicts := boundCheck(cs, graph, env, constraints.Checked)
	return conflicts, true
}

// boundCheck implements §4.3.1 step 6. Geq(Var, Wild) is a lower bound
// (already enforced by raiseWorklist; re-checked here as a sanity pass).
// Geq(Ptr, Var) is a ceiling
// (Var must not exceed Ptr): raiseWorklist cannot enforce this since it only
// ever pushes values up, so a violation here is genuine and resolved by
// demoting the offending variable straight to Wild, the documented
// "immediate demotion... (caller-visible)".
func boundCheck(cs *constraints.Constraints, graph *cgraph.Graph, env *constraints.Environment, sub constraints.SubOrder) []constraints.Geq {
	var conflicts []constraints.Geq
	for _, g := range cs.Geqs() {
		if g.Sub != sub {
			continue
		}
		if rhsC, ok := atoms.AsConst(g.Rhs); ok && rhsC == atoms.Wild {
			if v, ok := atoms.AsVar(g.Lhs); ok {
				if env.Resolve(v, sub) != atoms.Wild {
					conflicts = append(conflicts, g)
					demote(env, v)
				}
			}
			continue
		}
		if lhsC, ok := atoms.AsConst(g.Lhs); ok && lhsC == atoms.Ptr {
			if v, ok := atoms.AsVar(g.Rhs); ok {
				if env.Resolve(v, sub) != atoms.Ptr {
					conflicts = append(conflicts, g)
					demote(env, v)
				}
			}
		}
	}
	return conflicts
}

// demote forces v to Wild in the checked dimension (§4.3.1 step 6); a
// ceiling violation in the ptr-type dimension is handled by ptrTypePass,
// which re-marks the variable Wild in the checked dimension via this same
// helper before re-running checkedPass.
func demote(env *constraints.Environment, v atoms.VarAtom) {
	s := env.Get(v)
	s.Checked = atoms.Wild
	env.Set(v, s)
}
