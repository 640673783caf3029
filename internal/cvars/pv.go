package cvars

import (
	"strings"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/funvibe/checkedc-infer/internal/render"
)

// PV is the pointer constraint variable (§4.4): an ordered sequence of
// atoms, one per pointer indirection level, plus the structural metadata
// needed to reconstruct a declaration string once the solver has run.
type PV struct {
	Levels []Level

	BaseType string

	InteropType      string // "" if absent
	BoundsAnnotation string // "" if absent

	OriginallyChecked bool
	ZeroWidthArray    bool
	GenericIndex      int // -1 unless generic

	// NestedFunction is the nested FV of a pointer whose ultimate base is a
	// function type. BuildPV leaves it nil even for such a base; CopyPV
	// copies it from its source PV.
	NestedFunction *FV

	// baseWild records that the base type itself (void, va_list) forces
	// every level Wild regardless of solved atoms; mkString keeps "void *"
	// spelling for such a base per §4.4.
	baseWild bool
}

// BuildPVOptions mirrors the construction knobs of §4.4.
type BuildPVOptions struct {
	// PreserveCheckedAsVar: when a level is already checked in the source,
	// wrap the installed constant in a fresh Var constrained >= const
	// instead of using the bare constant, so later merges can still widen
	// it structurally.
	PreserveCheckedAsVar bool
	VarKind              atoms.VarKind
	NamePrefix           string
}

// BuildPV constructs a PV from a declared QualType (§4.4 "Construction from
// a declared type QT").
func BuildPV(cs *constraints.Constraints, qt QualType, opt BuildPVOptions) *PV {
	pv := &PV{
		BaseType:         qt.BaseType,
		InteropType:      qt.InteropType,
		BoundsAnnotation: qt.BoundsAnnotation,
		GenericIndex:     qt.GenericIndex,
		ZeroWidthArray:   qt.ZeroWidth,
		baseWild:         (qt.BaseIsVoid || qt.BaseIsVaList) && !qt.IsGeneric,
	}
	if pv.GenericIndex == 0 && !qt.IsGeneric {
		pv.GenericIndex = -1
	}

	n := len(qt.Levels)
	pv.Levels = make([]Level, n)

	var prevVar atoms.VarAtom
	var prevWasVar bool

	for i, lvl := range qt.Levels {
		name := opt.NamePrefix
		if name == "" {
			name = "p"
		}
		var lvlAtom atoms.Atom
		if lvl.AlreadyChecked {
			c := checkedKindToConst(lvl.CheckedKind)
			if opt.PreserveCheckedAsVar {
				v := cs.FreshVar(name, opt.VarKind)
				cs.AssertGeq(v, c, "already-checked-in-source", loc.PersistentSourceLocation{}, constraints.Checked)
				lvlAtom = v
			} else {
				lvlAtom = c
			}
		} else {
			v := cs.FreshVar(name, opt.VarKind)
			lvlAtom = v
		}

		if lvl.Shape == ShapeUnsizedArray {
			// "For incomplete array types, add a lower bound >= Arr
			// (prevents solving to PTR)."
			cs.AssertGeq(lvlAtom, atoms.Arr, "incomplete-array-type", loc.PersistentSourceLocation{}, constraints.Checked)
		}

		if pv.baseWild {
			cs.AssertGeq(lvlAtom, atoms.Wild, "void-or-valist-base", loc.PersistentSourceLocation{}, constraints.Checked)
		}

		pv.Levels[i] = Level{
			Atom:      lvlAtom,
			Quals:     lvl.Quals,
			Shape:     lvl.Shape,
			SizedLen:  lvl.SizedLen,
			IsTypedef: lvl.IsTypedef,
		}

		// "Between adjacent levels add an implication: outer is Wild ->
		// inner is Wild." prevVar is the outer level (i-1), lvlAtom is the
		// inner level (i).
		if prevWasVar {
			if v, ok := atoms.AsVar(lvlAtom); ok {
				premise := constraints.Geq{Lhs: prevVar, Rhs: atoms.Wild, Sub: constraints.Checked}
				conclusion := constraints.Geq{Lhs: v, Rhs: atoms.Wild, Sub: constraints.Checked, Reason: "outer-wild-forces-inner-wild"}
				_ = cs.AssertImplies(premise, conclusion)
			}
		}
		if v, ok := atoms.AsVar(lvlAtom); ok {
			prevVar, prevWasVar = v, true
		} else {
			prevWasVar = false
		}
	}

	if qt.ZeroWidth && len(pv.Levels) > 0 {
		// "Zero-width array bounds downgrade the outermost atom to PTR."
		pv.Levels[0].Atom = atoms.Ptr
	}

	return pv
}

// CopyPV builds a fresh PV with the same structural shape as src (levels,
// quals, shapes, base type) but entirely new Var atoms, preserving the same
// adjacent-level "outer Wild forces inner Wild" implications BuildPV installs.
// Used for a call-site's own view of a shared constraint variable (e.g. a
// callee's external return) so that constraints specific to one use site
// never leak back into the original (§4.6 "a copy of the callee's external
// return for the call-site view").
func CopyPV(cs *constraints.Constraints, src *PV, namePrefix string) *PV {
	if src == nil {
		return nil
	}
	pv := &PV{
		BaseType:          src.BaseType,
		InteropType:       src.InteropType,
		BoundsAnnotation:  src.BoundsAnnotation,
		OriginallyChecked: src.OriginallyChecked,
		ZeroWidthArray:    src.ZeroWidthArray,
		GenericIndex:      src.GenericIndex,
		NestedFunction:    src.NestedFunction,
		baseWild:          src.baseWild,
	}

	name := namePrefix
	if name == "" {
		name = "p"
	}

	pv.Levels = make([]Level, len(src.Levels))
	var prevVar atoms.VarAtom
	var prevWasVar bool
	for i, lvl := range src.Levels {
		v := cs.FreshVar(name, atoms.Other)
		pv.Levels[i] = Level{
			Atom:      v,
			Quals:     lvl.Quals,
			Shape:     lvl.Shape,
			SizedLen:  lvl.SizedLen,
			IsTypedef: lvl.IsTypedef,
		}
		if prevWasVar {
			premise := constraints.Geq{Lhs: prevVar, Rhs: atoms.Wild, Sub: constraints.Checked}
			conclusion := constraints.Geq{Lhs: v, Rhs: atoms.Wild, Sub: constraints.Checked, Reason: "outer-wild-forces-inner-wild"}
			_ = cs.AssertImplies(premise, conclusion)
		}
		prevVar, prevWasVar = v, true
	}

	return pv
}

func checkedKindToConst(kind string) atoms.ConstAtom {
	switch kind {
	case "Ptr":
		return atoms.Ptr
	case "Arr":
		return atoms.Arr
	case "NTArr":
		return atoms.NTArr
	default:
		return atoms.Wild
	}
}

// PtrKind implements ConstraintVariable: the resolved outermost kind, or
// Wild if this PV has no pointer levels (a value type).
func (pv *PV) PtrKind(env *constraints.Environment) atoms.ConstAtom {
	if len(pv.Levels) == 0 {
		return atoms.Wild
	}
	return env.Resolve(pv.Levels[0].Atom, constraints.Checked)
}

// OriginalType reconstructs the as-declared (pre-solve) type string, used
// for diagnostics and for unchanged declarations.
func (pv *PV) OriginalType() string {
	s := pv.BaseType
	for i := len(pv.Levels) - 1; i >= 0; i-- {
		lvl := pv.Levels[i]
		q := toRenderQuals(lvl.Quals).String()
		switch lvl.Shape {
		case ShapeSizedArray:
			s = q + s + "[" + itoaSimple(lvl.SizedLen) + "]"
		case ShapeUnsizedArray:
			s = q + s + "[]"
		default:
			s = q + s + "*"
		}
	}
	return s
}

func itoaSimple(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func toRenderQuals(q Qualifiers) render.Qualifiers {
	var r render.Qualifiers
	if q&QConst != 0 {
		r |= render.QConst
	}
	if q&QVolatile != 0 {
		r |= render.QVolatile
	}
	if q&QRestrict != 0 {
		r |= render.QRestrict
	}
	return r
}

func toRenderKind(c atoms.ConstAtom) render.Kind {
	switch c.Kind() {
	case atoms.KPtr:
		return render.KindPtr
	case atoms.KArr:
		return render.KindArr
	case atoms.KNTArr:
		return render.KindNTArr
	default:
		return render.KindWild
	}
}

// MkString implements §4.4 "Reconstruction (mkString)": walk the atom
// vector applying the solved checked value at each level, stopping descent
// at a typedef level.
func (pv *PV) MkString(env *constraints.Environment) string {
	if pv.baseWild {
		return pv.OriginalType()
	}
	inner := pv.BaseType
	if pv.NestedFunction != nil {
		inner = pv.NestedFunction.MkString(env)
	}
	for i := len(pv.Levels) - 1; i >= 0; i-- {
		lvl := pv.Levels[i]
		if lvl.IsTypedef {
			break
		}
		kindConst := env.Resolve(lvl.Atom, constraints.Checked)
		sizedLen := -1
		if lvl.Shape == ShapeSizedArray {
			sizedLen = lvl.SizedLen
		}
		inner = render.WrapLevel(toRenderKind(kindConst), toRenderQuals(lvl.Quals), inner, sizedLen)
	}
	return inner
}

// AnyChanges reports whether the solved declaration differs textually from
// the original, ignoring whitespace (§6 "a per-declaration 'did anything
// change' flag"): a Wild "int *" matches an original "int*".
func (pv *PV) AnyChanges(env *constraints.Environment) bool {
	return strings.ReplaceAll(pv.MkString(env), " ", "") != strings.ReplaceAll(pv.OriginalType(), " ", "")
}

// ConstrainToWild implements §4.4 "Wild propagation": constrain the
// outermost Var atom >= Wild; the adjacent-level implications installed at
// construction time then propagate it inward.
func (pv *PV) ConstrainToWild(cs *constraints.Constraints, reason constraints.Reason, l loc.PersistentSourceLocation) {
	if len(pv.Levels) == 0 {
		return
	}
	cs.AssertGeq(pv.Levels[0].Atom, atoms.Wild, reason, l, constraints.Checked)
}
