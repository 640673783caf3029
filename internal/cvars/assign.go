package cvars

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// AssignOptions carries the knobs §4.1's derived constructor rules need
// beyond the ConsAction itself.
type AssignOptions struct {
	// EquateTypes requests ptr-type equality rather than a directed
	// relation when Action is SameToSame (§4.1 "equality if equate_types").
	EquateTypes bool
	// DisableReverseEdges omits the checked-dimension reverse edge for
	// WildToSafe (§6 config option of the same name).
	DisableReverseEdges bool
}

// ConstrainAssign implements §4.1's "Derived constructor rules" for two
// ConstraintVariables related by an assignment-shaped operation (plain
// assignment, parameter binding, return binding, cast): level-by-level,
// both sub-orders receive an inequality whose direction depends on action.
//
//   - SameToSame: equality in checked; in ptr-type, equality if
//     opt.EquateTypes, else directed dst >= src.
//   - SafeToWild: directed dst >= src in both sub-orders — dst may be
//     forced toward Wild by a wilder src, never the reverse.
//   - WildToSafe: the checked-dimension direction is reversed (src >= dst,
//     a "reverse edge" modeling assignment into a safer target), unless
//     opt.DisableReverseEdges; ptr-type stays directed dst >= src.
//
// Levels beyond the shorter PV's length are left unconstrained (a type
// mismatch at that depth is not this layer's concern).
func ConstrainAssign(cs *constraints.Constraints, dst, src *PV, action constraints.ConsAction, opt AssignOptions, reason constraints.Reason, l loc.PersistentSourceLocation) {
	n := len(dst.Levels)
	if len(src.Levels) < n {
		n = len(src.Levels)
	}
	for i := 0; i < n; i++ {
		da, sa := dst.Levels[i].Atom, src.Levels[i].Atom
		constrainLevel(cs, da, sa, action, opt, reason, l)
	}
	if dst.NestedFunction != nil && src.NestedFunction != nil {
		// "Function pointer equated" (scenario S6): return and every
		// parameter solve identically on both sides.
		ConstrainAssign(cs, dst.NestedFunction.Return.External, src.NestedFunction.Return.External, constraints.SameToSame, AssignOptions{EquateTypes: true}, reason, l)
		n2 := len(dst.NestedFunction.Params)
		if len(src.NestedFunction.Params) < n2 {
			n2 = len(src.NestedFunction.Params)
		}
		for i := 0; i < n2; i++ {
			ConstrainAssign(cs, dst.NestedFunction.Params[i].External, src.NestedFunction.Params[i].External, constraints.SameToSame, AssignOptions{EquateTypes: true}, reason, l)
		}
	}
}

func constrainLevel(cs *constraints.Constraints, dst, src atoms.Atom, action constraints.ConsAction, opt AssignOptions, reason constraints.Reason, l loc.PersistentSourceLocation) {
	switch action {
	case constraints.SameToSame:
		cs.AssertGeq(dst, src, reason, l, constraints.Checked)
		cs.AssertGeq(src, dst, reason, l, constraints.Checked)
		if opt.EquateTypes {
			cs.AssertGeq(dst, src, reason, l, constraints.Ptype)
			cs.AssertGeq(src, dst, reason, l, constraints.Ptype)
		} else {
			cs.AssertGeq(dst, src, reason, l, constraints.Ptype)
		}
	case constraints.WildToSafe:
		if !opt.DisableReverseEdges {
			cs.AssertGeq(src, dst, reason, l, constraints.Checked)
		}
		cs.AssertGeq(dst, src, reason, l, constraints.Ptype)
	default: // SafeToWild
		cs.AssertGeq(dst, src, reason, l, constraints.Checked)
		cs.AssertGeq(dst, src, reason, l, constraints.Ptype)
	}
}

// ConstrainGeqConst asserts one level's atom >= a constant directly
// (§4.1 "Between a variable and a constant, only the relevant sub-order
// receives the inequality").
func ConstrainGeqConst(cs *constraints.Constraints, v *PV, level int, c atoms.ConstAtom, sub constraints.SubOrder, reason constraints.Reason, l loc.PersistentSourceLocation) {
	if level < 0 || level >= len(v.Levels) {
		return
	}
	cs.AssertGeq(v.Levels[level].Atom, c, reason, l, sub)
}
