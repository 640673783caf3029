package solver

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/cgraph"
	"github.com/funvibe/checkedc-infer/internal/constraints"
)

// ceilings collects, for every variable, the tightest upper bound asserted
// against it in the given sub-order: the minimum constant c such that
// Geq(c, var, sub) was asserted. These are exactly the constraints
// raiseWorklist cannot enforce (it only ever raises), e.g. "address-of
// forbids ARR/NTARR" (§4.6 unary operator rule) is generated as
// Geq(Ptr, var, Ptype).
func ceilings(cs *constraints.Constraints, sub constraints.SubOrder) map[int]atoms.ConstAtom {
	out := make(map[int]atoms.ConstAtom)
	for _, g := range cs.Geqs() {
		if g.Sub != sub {
			continue
		}
		lhsC, ok := atoms.AsConst(g.Lhs)
		if !ok {
			continue
		}
		v, ok := atoms.AsVar(g.Rhs)
		if !ok {
			continue
		}
		if cur, have := out[v.ID]; !have || lhsC.Less(cur) {
			out[v.ID] = lhsC
		}
	}
	return out
}

// ptrTypePass runs §4.3.2's three sub-phases over the ptr-type sub-order.
// It returns any ceiling conflicts discovered (for diagnostics) plus the
// set of variables whose floor/ceiling were mutually unsatisfiable and must
// therefore be re-marked Wild in the checked dimension.
func ptrTypePass(cs *constraints.Constraints, graph *cgraph.Graph, env *constraints.Environment) ([]constraints.Geq, []atoms.VarAtom) {
	vars := cs.Vars()
	ceil := ceilings(cs, constraints.Ptype)

	// Phase 1: greatest solution. Every variable starts at the top of the
	// 3-level ptr-type lattice (NTArr), then any asserted ceiling pulls it
	// back down; raiseWorklist then re-validates any lower-bound edges
	// against the (possibly lowered) seed.
	seedAll(env, vars, atoms.NTArr)
	applyCeilings(env, vars, ceil, constraints.Ptype)
	raiseWorklist(env, graph, constraints.Ptype, constAtomSeeds())
	phase1 := snapshot(env, vars)

	// Phase 2: non-parameter variables reset to NTArr and a least solution
	// is recomputed; parameter atoms keep their phase-1 result.
	for _, v := range vars {
		s := env.Get(v)
		if v.Kind != atoms.Param {
			s.Ptype = atoms.NTArr
		} else {
			s.Ptype = phase1[v.ID]
		}
		env.Set(v, s)
	}
	applyCeilings(env, vars, ceil, constraints.Ptype)
	raiseWorklist(env, graph, constraints.Ptype, constAtomSeeds())
	phase2 := snapshot(env, vars)

	// Phase 3: non-parameter, non-return variables reset to Ptr; parameter
	// atoms keep phase 1, return atoms keep phase 2, and a greatest
	// solution is recomputed for everything else, respecting the fixed
	// signatures from the first two phases.
	for _, v := range vars {
		s := env.Get(v)
		switch v.Kind {
		case atoms.Param:
			s.Ptype = phase1[v.ID]
		case atoms.Return:
			s.Ptype = phase2[v.ID]
		default:
			s.Ptype = atoms.Ptr
		}
		env.Set(v, s)
	}
	applyCeilings(env, vars, ceil, constraints.Ptype)
	raiseWorklist(env, graph, constraints.Ptype, constAtomSeeds())

	// Final ceiling check: anything still above its ceiling after
	// propagation has a floor that genuinely exceeds its ceiling — the
	// variable cannot be given a consistent ptr-type and must fall back to
	// Wild in the checked dimension.
	var conflicts []constraints.Geq
	var demoted []atoms.VarAtom
	for _, g := range cs.Geqs() {
		if g.Sub != constraints.Ptype {
			continue
		}
		lhsC, ok := atoms.AsConst(g.Lhs)
		if !ok {
			continue
		}
		v, ok := atoms.AsVar(g.Rhs)
		if !ok {
			continue
		}
		if env.Resolve(v, constraints.Ptype).Less(lhsC) {
			continue // still within bound, fine
		}
		if lhsC.Less(env.Resolve(v, constraints.Ptype)) {
			conflicts = append(conflicts, g)
			demoted = append(demoted, v)
		}
	}
	return conflicts, demoted
}

func seedAll(env *constraints.Environment, vars []atoms.VarAtom, val atoms.ConstAtom) {
	for _, v := range vars {
		s := env.Get(v)
		s.Ptype = val
		env.Set(v, s)
	}
}

func applyCeilings(env *constraints.Environment, vars []atoms.VarAtom, ceil map[int]atoms.ConstAtom, sub constraints.SubOrder) {
	for _, v := range vars {
		c, ok := ceil[v.ID]
		if !ok {
			continue
		}
		s := env.Get(v)
		if sub == constraints.Ptype && c.Less(s.Ptype) {
			s.Ptype = c
			env.Set(v, s)
		}
	}
}

func snapshot(env *constraints.Environment, vars []atoms.VarAtom) map[int]atoms.ConstAtom {
	out := make(map[int]atoms.ConstAtom, len(vars))
	for _, v := range vars {
		out[v.ID] = env.Get(v).Ptype
	}
	return out
}

func constAtomSeeds() []atoms.Atom {
	return []atoms.Atom{atoms.Ptr, atoms.Arr, atoms.NTArr}
}
