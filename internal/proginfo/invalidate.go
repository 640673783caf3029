package proginfo

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/solver"
)

// MakeSinglePointerNonWild implements §4.9's first interactive-invalidation
// operation: delete the single Geq(v >= Wild) constraint, reset the
// environment, and re-solve. Returns the set of variables that became
// non-Wild as a result, which is exactly the set of variables that were
// Wild before this call and are not Wild in the new solution.
func (p *ProgramInfo) MakeSinglePointerNonWild(v atoms.VarAtom) ([]atoms.VarAtom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := snapshotWild(p.CS)

	if _, removed := p.CS.RemoveGeqExact(v, atoms.Wild, constraints.Checked); !removed {
		return nil, nil
	}

	p.CS.ResetEnvironment()
	res := solver.Solve(p.CS, solver.Options{AllTypes: p.Options.AllTypes})
	for _, c := range res.Conflicts {
		p.Stats.RecordWild(string(c.Reason))
	}

	return diffBecameNonWild(p.CS, before), nil
}

// InvalidateWildReasonGlobally implements §4.9's second operation: delete
// every constraint sharing the reason of the chosen wild-forcing
// constraint, reset, and re-solve.
func (p *ProgramInfo) InvalidateWildReasonGlobally(reason constraints.Reason) []atoms.VarAtom {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := snapshotWild(p.CS)
	p.CS.RemoveByReason(reason)
	p.CS.ResetEnvironment()
	res := solver.Solve(p.CS, solver.Options{AllTypes: p.Options.AllTypes})
	for _, c := range res.Conflicts {
		p.Stats.RecordWild(string(c.Reason))
	}
	return diffBecameNonWild(p.CS, before)
}

func snapshotWild(cs *constraints.Constraints) map[int]bool {
	out := make(map[int]bool)
	for _, v := range cs.Vars() {
		out[v.ID] = cs.Env().Publish(v) == atoms.Wild
	}
	return out
}

func diffBecameNonWild(cs *constraints.Constraints, before map[int]bool) []atoms.VarAtom {
	var out []atoms.VarAtom
	for _, v := range cs.Vars() {
		wasWild := before[v.ID]
		isWild := cs.Env().Publish(v) == atoms.Wild
		if wasWild && !isWild {
			out = append(out, v)
		}
	}
	return out
}
