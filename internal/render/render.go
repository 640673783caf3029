// Package render holds the small text-assembly helpers used to reconstruct
// a checked-pointer-kind declaration string (§4.4 "Reconstruction
// (mkString)"). It knows nothing about constraint variables; it only turns
// already-resolved kinds, qualifiers, and array shapes into source text, the
// same separation the teacher keeps between internal/prettyprinter (pure
// string assembly) and internal/typesystem (semantic types).
package render

import "strings"

// Qualifiers is a small bitset for the three C type qualifiers tracked per
// pointer level (§4.4 "Record qualifiers (const/volatile/restrict) at each
// level").
type Qualifiers uint8

const (
	QConst Qualifiers = 1 << iota
	QVolatile
	QRestrict
)

func (q Qualifiers) String() string {
	var parts []string
	if q&QConst != 0 {
		parts = append(parts, "const")
	}
	if q&QVolatile != 0 {
		parts = append(parts, "volatile")
	}
	if q&QRestrict != 0 {
		parts = append(parts, "restrict")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

// Kind mirrors atoms.Kind without importing the atoms package, so render
// stays a leaf package with no dependency on the lattice itself; callers
// translate atoms.ConstAtom to a render.Kind at the call site.
type Kind int

const (
	KindPtr Kind = iota
	KindArr
	KindNTArr
	KindWild
)

// WrapLevel renders one pointer-indirection level around an already
// rendered inner string, per §4.4's reconstruction table:
//
//	PTR   -> _Ptr<inner>
//	ARR   -> _Array_ptr<inner>
//	NTARR -> _Nt_array_ptr<inner>
//	WILD  -> inner *
//
// When sizedLen >= 0, ARR and NTARR levels use the _Checked[N] and
// _Nt_checked[N] bracket forms instead of the generic-bracket forms; PTR
// and WILD levels ignore sizedLen.
func WrapLevel(kind Kind, quals Qualifiers, inner string, sizedLen int) string {
	q := quals.String()
	switch kind {
	case KindPtr:
		if sizedLen >= 0 {
			return q + "_Ptr<" + inner + ">"
		}
		return q + "_Ptr<" + inner + ">"
	case KindArr:
		if sizedLen >= 0 {
			return q + inner + " _Checked[" + itoa(sizedLen) + "]"
		}
		return q + "_Array_ptr<" + inner + ">"
	case KindNTArr:
		if sizedLen >= 0 {
			return q + inner + " _Nt_checked[" + itoa(sizedLen) + "]"
		}
		return q + "_Nt_array_ptr<" + inner + ">"
	default: // WILD
		return q + inner + " *"
	}
}

// WrapUnsizedArrayWild renders a WILD level whose original shape was an
// array (not a pointer) using C array syntax rather than a trailing star.
func WrapUnsizedArrayWild(quals Qualifiers, inner string) string {
	return quals.String() + inner + " []"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
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

// BoundsSuffix renders a trailing bounds-expression annotation, e.g.
// " count(n)" or " byte_count(n)", returning "" when expr is empty.
func BoundsSuffix(expr string) string {
	if expr == "" {
		return ""
	}
	return " " + expr
}

// ItypeSuffix renders a trailing interop-type annotation (§6 "the final
// rendered type string (possibly with itype and bounds annotations)"),
// e.g. " : itype(_Array_ptr<int>) count(n)".
func ItypeSuffix(itype, bounds string) string {
	if itype == "" {
		return ""
	}
	s := " : itype(" + itype + ")"
	if bounds != "" {
		s += " " + bounds
	}
	return s
}
