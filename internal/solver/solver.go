// Package solver implements the monotone fixed-point solver (§4.3): the
// checked/unchecked pass, the optional ptr-type refinement pass, and the
// merge that produces each variable's published kind.
//
// Grounded on the teacher's internal/analyzer/inference_solver.go
// (SolveConstraints: an outer "changed" loop draining a worklist of
// substitutions until fixpoint, then a final validation pass that turns
// remaining inconsistencies into errors) and on
// clang/lib/CConv/Constraints.cpp's Constraints::graphBasedSolve in
// original_source.
package solver

import (
	"sort"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/cgraph"
	"github.com/funvibe/checkedc-infer/internal/constraints"
)

// Options configures the two passes (§6 Configuration, the subset the
// solver itself consults).
type Options struct {
	// AllTypes enables the ptr-type pass (§4.3.2); without it every
	// variable solves to Ptr or Wild only.
	AllTypes bool
}

// Result is the solver's output. OK is true when solving ran to completion;
// Conflicts lists the constraints whose bound violation demoted a variable
// to Wild, and can be non-empty alongside OK true.
type Result struct {
	Conflicts []constraints.Geq
	OK        bool
}

// Solve runs the checked pass and, if requested and successful, the
// ptr-type pass, then publishes the merged solution (§4.3.3). The
// environment inside cs is mutated in place; callers must not consult it
// concurrently with this call (§5).
func Solve(cs *constraints.Constraints, opt Options) Result {
	graph := cgraph.Build(cs)
	env := cs.Env()

	conflicts, ok := checkedPass(cs, graph, env)
	if !ok {
		return Result{Conflicts: conflicts, OK: false}
	}

	if opt.AllTypes {
		ptypeConflicts, demoted := ptrTypePass(cs, graph, env)
		if len(demoted) > 0 {
			// §4.3.2: conflicts in the ptr-type dimension re-mark the
			// offending variables Wild in the checked dimension and the
			// checked pass is re-run to propagate the demotion.
			for _, v := range demoted {
				s := env.Get(v)
				s.Checked = atoms.Wild
				env.Set(v, s)
			}
			graph = cgraph.Build(cs)
			moreConflicts, ok2 := checkedPass(cs, graph, env)
			conflicts = append(conflicts, moreConflicts...)
			if !ok2 {
				return Result{Conflicts: append(conflicts, ptypeConflicts...), OK: false}
			}
		}
		conflicts = append(conflicts, ptypeConflicts...)
	}

	return Result{Conflicts: dedupGeqs(conflicts), OK: true}
}

func dedupGeqs(in []constraints.Geq) []constraints.Geq {
	seen := make(map[string]bool)
	out := in[:0:0]
	for _, g := range in {
		k := g.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, g)
	}
	return out
}

// Publish returns the final kind for every registered variable, applying
// the merge rule of §4.3.3.
func Publish(cs *constraints.Constraints) map[atoms.VarAtom]atoms.ConstAtom {
	env := cs.Env()
	out := make(map[atoms.VarAtom]atoms.ConstAtom)
	for _, v := range cs.Vars() {
		out[v] = env.Publish(v)
	}
	return out
}

// sortedVars is a small helper used by tests needing deterministic order.
func sortedVars(cs *constraints.Constraints) []atoms.VarAtom {
	vs := cs.Vars()
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
	return vs
}
