package constraints

// ConsAction selects which direction(s) a pairwise constraint between two
// ConstraintVariables is asserted in, per §4.1's "Derived constructor
// rules": "Between two variables, the checked and ptr-type sub-orders are
// asserted together, with direction depending on the ConsAction."
type ConsAction int

const (
	// SafeToWild asserts directed inequalities in both sub-orders: the
	// source may force the destination to Wild, but not vice versa.
	SafeToWild ConsAction = iota
	// WildToSafe reverses the checked-dimension direction relative to
	// SafeToWild, modeling "reverse edges" for assignments into safer
	// targets (disableable via config's disable_reverse_edges).
	WildToSafe
	// SameToSame emits equality in the checked dimension and a directed
	// (or, if EquateTypes is requested by the caller, equated) relation in
	// the ptr-type dimension.
	SameToSame
)
