package constraints

import (
	"fmt"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// Constraints is the owner of every atom and every constraint value for one
// ProgramInfo lifetime (§5 "Ownership rules"). It is not safe for concurrent
// use; internal/proginfo guards access with a mutex per §5.
type Constraints struct {
	nextID int
	vars   map[int]atoms.VarAtom

	geqs     []Geq
	geqSeen  map[string]bool
	implies  []Implies

	env *Environment
}

// New returns an empty Constraints container with a fresh environment.
func New() *Constraints {
	return &Constraints{
		vars:    make(map[int]atoms.VarAtom),
		geqSeen: make(map[string]bool),
		env:     NewEnvironment(),
	}
}

// Env exposes the live environment. Only the solver (internal/solver)
// mutates it; everything else must treat it as read-only once solve() has
// returned (§5).
func (c *Constraints) Env() *Environment { return c.env }

// FreshVar allocates and registers a new Var atom (§4.1 fresh_var).
func (c *Constraints) FreshVar(name string, kind atoms.VarKind) atoms.VarAtom {
	id := c.nextID
	c.nextID++
	v := atoms.VarAtom{ID: id, Name: name, Kind: kind}
	c.vars[id] = v
	c.env.Get(v) // seed (Ptr, Ptr) so Known()/Reset() see it immediately
	return v
}

// Vars returns every registered Var atom. Order is by ID (allocation order).
func (c *Constraints) Vars() []atoms.VarAtom {
	out := make([]atoms.VarAtom, 0, len(c.vars))
	for id := 0; id < c.nextID; id++ {
		if v, ok := c.vars[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// registered reports whether a is owned by c when a is a Var; a constant
// always passes (the "no dangling atoms" invariant in §3).
func (c *Constraints) registered(a atoms.Atom) bool {
	v, ok := atoms.AsVar(a)
	if !ok {
		return true
	}
	_, known := c.vars[v.ID]
	return known
}

// AssertGeq inserts lhs >= rhs into the given sub-order, de-duplicating
// structurally equivalent constraints (§4.1). Panics if either atom is a Var
// this instance did not allocate — a dangling atom is an internal
// invariant violation, not a user error (§7).
func (c *Constraints) AssertGeq(lhs, rhs atoms.Atom, reason Reason, l loc.PersistentSourceLocation, sub SubOrder) Geq {
	if !c.registered(lhs) || !c.registered(rhs) {
		panic(fmt.Sprintf("constraints: dangling atom in Geq(%v, %v)", lhs, rhs))
	}
	g := Geq{Lhs: lhs, Rhs: rhs, Reason: reason, Loc: l, Sub: sub}
	k := g.key()
	if c.geqSeen[k] {
		return g
	}
	c.geqSeen[k] = true
	c.geqs = append(c.geqs, g)
	return g
}

// AssertImplies validates the variable-then-constant shape of premise and
// conclusion (§3 invariant) and registers the implication. Returns an error
// rather than panicking, since a malformed implication can originate from a
// buggy constraint-generation rule rather than an impossible internal state.
func (c *Constraints) AssertImplies(premise, conclusion Geq) error {
	if !validShape(premise) {
		return fmt.Errorf("constraints: implication premise %v is not Var>=Const", premise)
	}
	if !validShape(conclusion) {
		return fmt.Errorf("constraints: implication conclusion %v is not Var>=Const", conclusion)
	}
	if !c.registered(premise.Lhs) || !c.registered(conclusion.Lhs) {
		panic("constraints: dangling atom in Implies")
	}
	c.implies = append(c.implies, Implies{Premise: premise, Conclusion: conclusion})
	return nil
}

// Geqs returns every asserted Geq (read-only view for the graph builder).
func (c *Constraints) Geqs() []Geq { return append([]Geq(nil), c.geqs...) }

// Implications returns every asserted Implies.
func (c *Constraints) Implications() []Implies { return append([]Implies(nil), c.implies...) }

// RemoveByReason deletes every Geq sharing the given reason and returns the
// removed set (§4.9, used by interactive invalidation). Implications whose
// premise carries the reason are removed too, since their premise would
// otherwise dangle.
func (c *Constraints) RemoveByReason(reason Reason) []Geq {
	var removed []Geq
	kept := c.geqs[:0:0]
	for _, g := range c.geqs {
		if g.Reason == reason {
			removed = append(removed, g)
			delete(c.geqSeen, g.key())
			continue
		}
		kept = append(kept, g)
	}
	c.geqs = kept

	var keptImplies []Implies
	for _, im := range c.implies {
		if im.Premise.Reason == reason {
			continue
		}
		keptImplies = append(keptImplies, im)
	}
	c.implies = keptImplies
	return removed
}

// ResetEnvironment restores every variable to (Ptr, Ptr) without forgetting
// constraints (§4.1 reset_environment).
func (c *Constraints) ResetEnvironment() {
	c.env.Reset()
}

// RemoveGeqExact deletes the single Geq(lhs, rhs, sub) constraint, if
// present, and returns it. Used by §4.9's make_single_pointer_non_wild,
// which names one specific constraint to retract rather than every
// constraint sharing a Reason.
func (c *Constraints) RemoveGeqExact(lhs, rhs atoms.Atom, sub SubOrder) (Geq, bool) {
	for i, g := range c.geqs {
		if g.Sub == sub && atoms.Equal(g.Lhs, lhs) && atoms.Equal(g.Rhs, rhs) {
			c.geqs = append(c.geqs[:i], c.geqs[i+1:]...)
			delete(c.geqSeen, g.key())
			return g, true
		}
	}
	return Geq{}, false
}
