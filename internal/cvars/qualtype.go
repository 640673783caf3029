package cvars

// QualTypeLevel is one pointer/array level of a declared C type as reported
// by the AST collaborator (§6 "a structural type: ... pointer-level
// sequence, qualifier bitmap per level, array shape per level"). It is the
// input PV construction (§4.4) walks left-to-right.
type QualTypeLevel struct {
	Shape    ArrayShape
	SizedLen int // valid iff Shape == ShapeSizedArray
	Quals    Qualifiers
	// AlreadyChecked marks a level that was already spelled as a checked
	// pointer in the source (e.g. incremental adoption): the level
	// receives the corresponding constant atom instead of a fresh Var.
	AlreadyChecked bool
	CheckedKind    string // "Ptr", "Arr", "NTArr" when AlreadyChecked
	IsTypedef      bool
}

// QualType is the full structural type of a declaration (§6 input
// contract): zero or more pointer/array levels plus a base type.
type QualType struct {
	Levels []QualTypeLevel
	// BaseType is the ultimate non-pointer base, e.g. "int", "struct foo".
	BaseType string
	// BaseIsVoid / BaseIsVaList mark the two base types that force every
	// level Wild regardless of usage (§4.4).
	BaseIsVoid   bool
	BaseIsVaList bool
	// BaseIsFunction marks that the ultimate base is a function type.
	// BuildPV does not read it: no nested FV is built for such a base, and
	// the resulting PV's NestedFunction is nil.
	BaseIsFunction bool
	// InteropType, when non-empty, is an existing itype annotation already
	// present on the declaration.
	InteropType string
	// BoundsAnnotation, when non-empty, is an existing bounds(...) string.
	BoundsAnnotation string
	// GenericIndex is -1 unless the base uses a generic type parameter
	// (_Itype_for_any(T)); then it is the parameter's 0-based index.
	// BuildPV reads a zero GenericIndex as -1 unless IsGeneric is set, so a
	// zero-value QualType is not generic.
	GenericIndex int
	// ZeroWidth marks a sized-array level of length 0, which permits
	// PTR<->ARR equivalence on assignment (§4.4) and downgrades the
	// outermost atom to PTR.
	ZeroWidth bool
	// IsGeneric means the base is itself a generic type parameter use
	// (skips the normal void/va_list Wild-forcing rule).
	IsGeneric bool
}
