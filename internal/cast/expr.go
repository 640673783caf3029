// Package cast is the minimal input AST contract described in spec §6: the
// structural shape the out-of-scope C-parsing collaborator feeds to the
// resolver and generator. It owns no semantics of its own — it is the data
// the rest of the core is built to consume.
//
// Grounded on the teacher's internal/ast package (a closed set of node
// structs implementing one small Node interface, dispatched by type switch
// rather than a visitor with virtual methods — the same shape §9's "Virtual
// calls through visitors" note asks for) and on clang/include/clang/3C's
// expression-visitor surface in original_source, reduced to the subset §4.6
// names.
package cast

import (
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// Expr is implemented by every expression node. Location lets the resolver
// memoize per §4.6 "Results per expression are memoized against a
// PersistentSourceLocation."
type Expr interface {
	exprNode()
	Location() loc.PersistentSourceLocation
}

type base struct {
	Loc loc.PersistentSourceLocation
}

func (b base) Location() loc.PersistentSourceLocation { return b.Loc }

// Literal is an integer or record-typed literal (§4.6 "Literal of
// integer/record type: a sentinel base PV; non-pointer").
type Literal struct {
	base
	Value string
}

func (*Literal) exprNode() {}

// NullPtrConstant is a null pointer constant (§4.6 "empty set (no
// constraints imposed)").
type NullPtrConstant struct{ base }

func (*NullPtrConstant) exprNode() {}

// DeclRef references a declaration by the location it was declared at
// (§4.6 "Declaration reference: the declaration's variable").
type DeclRef struct {
	base
	DeclLoc loc.PersistentSourceLocation
	Name    string
}

func (*DeclRef) exprNode() {}

// Member is a field access `base.field` / `base->field` (§4.6 "Member
// access: the field's variable").
type Member struct {
	base
	BaseExpr  Expr
	FieldLoc  loc.PersistentSourceLocation
	FieldName string
	Arrow     bool
}

func (*Member) exprNode() {}

// ImplicitCast is a compiler-inserted conversion (§4.6 "Implicit cast").
type ImplicitCast struct {
	base
	Sub      Expr
	ToType   cvars.QualType
	Unsafe   bool // incompatible pointee, not through void/function/array
}

func (*ImplicitCast) exprNode() {}

// ExplicitCast is a source-level cast expression (§4.6 "Explicit cast").
type ExplicitCast struct {
	base
	Sub          Expr
	ToType       cvars.QualType
	Unsafe       bool
	InMacro      bool // location synthesized by the preprocessor
	Rewritable   bool
}

func (*ExplicitCast) exprNode() {}

// BinaryOp covers assignment, compound-assignment, comma, and arithmetic
// (§4.6 "Binary operator").
type BinaryOp struct {
	base
	Op   string // "=", "+=", "-=", ",", "+", "-", "==", "<", etc.
	LHS  Expr
	RHS  Expr
	// PointerArithmetic marks that Op is an additive/compound-assign
	// operator applied to a pointer-typed operand (§4.6 "arithmetic binops
	// record pointer operands as 'has arithmetic'").
	PointerArithmetic bool
}

func (*BinaryOp) exprNode() {}

// UnaryOp covers deref, address-of, and increment/decrement (§4.6 "Unary
// operator").
type UnaryOp struct {
	base
	Op      string // "*", "&", "++", "--"
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// Subscript is `base[index]`, treated as deref of base plus the index
// expression (§4.6 "Array subscript").
type Subscript struct {
	base
	BaseExpr  Expr
	IndexExpr Expr
	// IndexUpperBound, when >= 0, is a constant K such that the subscript
	// is guarded by `index < K` in an enclosing condition (§4.8.1 "Each
	// pointer used as the base of arr[idx] where idx < K ... contributes K
	// as a potential count bound").
	IndexUpperBound int
}

func (*Subscript) exprNode() {}

// AllocKind tags how a call's argument shape looks to the allocator rule
// (§4.6 "Special case malloc/calloc/realloc/user-declared allocators").
type AllocKind int

const (
	NotAlloc AllocKind = iota
	AllocCalloc1        // calloc(1, sizeof T)
	AllocCountedN       // malloc/calloc/realloc of sizeof(T)*N
)

// Call is a function call expression (§4.6 "Call expression").
type Call struct {
	base
	CalleeName   string
	CalleeFile   string
	CalleeKnown  bool // false => "Call with unknown callee" (§4.7)
	Args         []Expr
	CallSiteID   string
	InMacro      bool
	Alloc        AllocKind
	AllocCountExpr Expr // the N in sizeof(T)*N, or sizeof(T) count expr for calloc
	// IsRealloc marks that Args[0] (the old pointer) flows to the return
	// (§4.6 "realloc's first argument flows to the return").
	IsRealloc bool
	// VarargIndexStart is -1 unless the callee is variadic; arguments at
	// or beyond this index are the varargs tail (§4.7 "varargs beyond
	// declared arity").
	VarargIndexStart int
}

func (*Call) exprNode() {}

// Conditional is `cond ? then : else` (§4.6).
type Conditional struct {
	base
	Cond, Then, Else Expr
}

func (*Conditional) exprNode() {}

// InitList is a brace initializer list, e.g. `{1, 2, 3}` (§4.6).
type InitList struct {
	base
	Elems       []Expr
	IsArrayType bool
}

func (*InitList) exprNode() {}

// CompoundLiteral is `(T){...}` (§4.6).
type CompoundLiteral struct {
	base
	List Expr // the InitList
	Type cvars.QualType
}

func (*CompoundLiteral) exprNode() {}

// StringLiteral is a string literal (§4.6 "fresh PV constrained >= NTArr
// with a synthetic count bound equal to the literal's byte length").
type StringLiteral struct {
	base
	ByteLen int
}

func (*StringLiteral) exprNode() {}

// VaArgExpr is a `va_arg(...)` access (§4.6 "fresh PV constrained to
// Wild").
type VaArgExpr struct{ base }

func (*VaArgExpr) exprNode() {}
