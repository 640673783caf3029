package cast

import "github.com/funvibe/checkedc-infer/internal/loc"

// Stmt is implemented by every statement node the generator visits (§4.7).
type Stmt interface {
	stmtNode()
	Location() loc.PersistentSourceLocation
}

type stmtBase struct {
	Loc loc.PersistentSourceLocation
}

func (b stmtBase) Location() loc.PersistentSourceLocation { return b.Loc }

// DeclStmt introduces one or more local declarations (§4.7 "Var/field
// declaration with pointer/array type").
type DeclStmt struct {
	stmtBase
	Decls []Decl
}

func (*DeclStmt) stmtNode() {}

// ExprStmt evaluates an expression for effect (covers assignments, calls,
// increment/decrement as statements).
type ExprStmt struct {
	stmtBase
	X Expr
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt is `return expr;` (§4.7 "Return statement").
type ReturnStmt struct {
	stmtBase
	X Expr // nil for a bare `return;`
}

func (*ReturnStmt) stmtNode() {}

// IfStmt is a conditional; Cond is inspected by bounds inference for
// guard comparisons of the shape `idx < K` (§4.8.1).
type IfStmt struct {
	stmtBase
	Cond       Expr
	Then, Else []Stmt
}

func (*IfStmt) stmtNode() {}

// LoopStmt covers `while`/`for`, both of which can carry a guard
// comparison relevant to §4.8.1's index-upper-bound heuristic.
type LoopStmt struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

func (*LoopStmt) stmtNode() {}

// CompoundStmt is a `{ ... }` block.
type CompoundStmt struct {
	stmtBase
	Body []Stmt
}

func (*CompoundStmt) stmtNode() {}
