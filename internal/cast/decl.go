package cast

import (
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// DeclKind distinguishes the declaration shapes the generator visits
// (§4.7).
type DeclKind int

const (
	VarDecl DeclKind = iota
	FieldDecl
	ParamDecl
	FunctionDecl
	TypedefDecl
	RecordDecl // struct/union definition, for StructInit (SUPPLEMENTED FEATURES #2)
)

// Decl is one declaration as reported by the AST collaborator (§6 "a
// structural type ... a name, a scope identifier").
type Decl struct {
	Kind DeclKind
	Loc  loc.PersistentSourceLocation
	Name string
	Type cvars.QualType

	// File/IsStatic matter for FunctionDecl (extern/static lookup, §3) and
	// for scoping a var/field's bounds keys (§3 ProgramVar scopes).
	File     string
	IsStatic bool

	// Function-only fields.
	ReturnType cvars.QualType
	Params     []Decl // ParamDecl entries, in order
	HasBody    bool
	Body       []Stmt
	IsVariadic bool

	// RecordDecl-only: whether this is a union (SUPPLEMENTED FEATURES #2,
	// §4.7 "unions ... are forced Wild") and whether it is an unnamed
	// struct/union nested inline inside another record (§4.7 "inline-
	// struct-detection constraints").
	IsUnion        bool
	IsInlineNested bool
	Fields         []Decl

	// Initializer, if present (§4.7 "Initializer: constrained as
	// Same_to_Same assignment").
	Init Expr

	// FieldInits: for a RecordDecl default-member-initializer list
	// or a VarDecl's brace-initializer over a struct type (SUPPLEMENTED
	// FEATURES #2), one Expr per initialized field in declaration order;
	// shorter than Fields means the remaining fields are implicitly
	// zero-initialized (not forced Wild) unless the field itself has type
	// with no initializer and is a pointer, which is left unconstrained.
	FieldInits []Expr

	// TypedefUnderlying is TypedefDecl's aliased type.
	TypedefUnderlying cvars.QualType
}
