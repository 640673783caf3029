package cvars

import (
	"github.com/funvibe/checkedc-infer/internal/atoms"
)

// MergeError is returned by MergePV when two redeclarations disagree on a
// constant atom at the same level (§4.4 "if both are constants and differ,
// the older side must be Wild (otherwise failure)").
type MergeError struct {
	Level int
	Old, New atoms.ConstAtom
}

func (e *MergeError) Error() string {
	return "cvars: conflicting constant atoms at level " + itoaSimple(e.Level) +
		": " + e.Old.String() + " vs " + e.New.String()
}

// MergePV merges `incoming` into `dst` in place, implementing §4.4 "Merging
// redeclarations": for each corresponding level, if one side has a constant
// and the other a Var, adopt the constant; if both are constants and
// differ, the older side (dst) must be Wild. Interop-type/bounds annotation
// from incoming are adopted if dst lacks them. Nested function variables
// merge recursively. The caller (internal/proginfo) discards `incoming`
// afterward per §5 "the incoming variable is discarded".
func MergePV(dst, incoming *PV) error {
	n := len(dst.Levels)
	if len(incoming.Levels) < n {
		n = len(incoming.Levels)
	}
	for i := 0; i < n; i++ {
		dl, il := &dst.Levels[i], incoming.Levels[i]
		dc, dIsConst := atoms.AsConst(dl.Atom)
		ic, iIsConst := atoms.AsConst(il.Atom)

		switch {
		case dIsConst && iIsConst:
			if dc != ic {
				if dc != atoms.Wild {
					return &MergeError{Level: i, Old: dc, New: ic}
				}
				dl.Atom = il.Atom
			}
		case !dIsConst && iIsConst:
			// "adopt the constant"
			dl.Atom = il.Atom
		case dIsConst && !iIsConst:
			// dst already has the more specific constant information; keep it.
		default:
			// Both variables: keep dst's, since atoms are owned by one
			// Constraints instance and the incoming Var belongs to a
			// translation unit whose variable set may be discarded.
		}
	}

	if dst.InteropType == "" {
		dst.InteropType = incoming.InteropType
	}
	if dst.BoundsAnnotation == "" {
		dst.BoundsAnnotation = incoming.BoundsAnnotation
	}
	if !dst.OriginallyChecked {
		dst.OriginallyChecked = incoming.OriginallyChecked
	}

	if dst.NestedFunction != nil && incoming.NestedFunction != nil {
		return dst.NestedFunction.MergeDeclaration(nil, incoming.NestedFunction)
	}
	return nil
}
