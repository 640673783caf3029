package constraints

import "github.com/funvibe/checkedc-infer/internal/atoms"

// Solution is the pair (checked_solution, ptr_type_solution) the environment
// maps every Var atom to (§3 "Constraint environment"). Both halves are
// initialized to Ptr, the most precise constant.
type Solution struct {
	Checked atoms.ConstAtom
	Ptype   atoms.ConstAtom
}

// Environment is the mapping from each Var atom to its current Solution.
// It is mutated only by the solver (§5 "Shared resources").
type Environment struct {
	sol map[int]Solution
}

// NewEnvironment creates an environment with no variables. Variables are
// added lazily by Reset/Get/Set as the Constraints container registers
// them, so that an Environment can be swapped out wholesale by
// ResetEnvironment without needing to know every ID up front.
func NewEnvironment() *Environment {
	return &Environment{sol: make(map[int]Solution)}
}

func initial() Solution {
	return Solution{Checked: atoms.Ptr, Ptype: atoms.Ptr}
}

// Get returns the current solution for v, initializing it to (Ptr, Ptr) on
// first access.
func (e *Environment) Get(v atoms.VarAtom) Solution {
	s, ok := e.sol[v.ID]
	if !ok {
		s = initial()
		e.sol[v.ID] = s
	}
	return s
}

// Set overwrites the solution for v.
func (e *Environment) Set(v atoms.VarAtom, s Solution) {
	e.sol[v.ID] = s
}

// Reset restores every known variable to (Ptr, Ptr) without forgetting which
// variables exist (so that Get continues to report them as known atoms with
// associated history elsewhere in the environment, rather than silently
// becoming "unseen").
func (e *Environment) Reset() {
	for id := range e.sol {
		e.sol[id] = initial()
	}
}

// ResolveChecked returns the checked-dimension constant for an atom: itself
// if it is already a constant, or the environment's current solution if it
// is a variable.
func (e *Environment) ResolveChecked(a atoms.Atom) atoms.ConstAtom {
	if c, ok := atoms.AsConst(a); ok {
		return c
	}
	v := a.(atoms.VarAtom)
	return e.Get(v).Checked
}

// ResolvePtype is the ptr-type-dimension analogue of ResolveChecked.
func (e *Environment) ResolvePtype(a atoms.Atom) atoms.ConstAtom {
	if c, ok := atoms.AsConst(a); ok {
		return c
	}
	v := a.(atoms.VarAtom)
	return e.Get(v).Ptype
}

// Resolve returns the constant for a in the given sub-order.
func (e *Environment) Resolve(a atoms.Atom, sub SubOrder) atoms.ConstAtom {
	if sub == Checked {
		return e.ResolveChecked(a)
	}
	return e.ResolvePtype(a)
}

// Known reports every variable ID the environment has assigned a solution
// to, sorted is left to the caller; order is not guaranteed.
func (e *Environment) Known() []int {
	ids := make([]int, 0, len(e.sol))
	for id := range e.sol {
		ids = append(ids, id)
	}
	return ids
}

// Publish returns the final per-variable kind after the merge rule (§4.3.3):
// a variable whose checked solution is Wild publishes Wild; otherwise it
// publishes its ptr-type solution.
func (e *Environment) Publish(v atoms.VarAtom) atoms.ConstAtom {
	s := e.Get(v)
	if s.Checked == atoms.Wild {
		return atoms.Wild
	}
	return s.Ptype
}
