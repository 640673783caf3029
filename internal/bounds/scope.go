package bounds

import "fmt"

// ScopeKind enumerates the closed set of lexical scopes a ProgramVar can
// live in (§3 ProgramVar).
type ScopeKind int

const (
	Global ScopeKind = iota
	Function
	FunctionParam
	Struct
	// CtxFunctionArg / CtxStruct are context-sensitive scopes created per
	// call site / per struct-field access (§3, §4.8.2 step 3).
	CtxFunctionArg
	CtxStruct
)

// Scope identifies where a ProgramVar lives. FuncName/IsStatic are
// populated for Function and FunctionParam; StructName for Struct;
// CallSiteID for CtxFunctionArg (a stable per-call-site id, minted by
// internal/proginfo via uuid so call sites from different translation
// units never collide after link()); AccessID for CtxStruct analogously.
type Scope struct {
	Kind ScopeKind

	FuncName string
	IsStatic bool

	StructName string

	CallSiteID string
	AccessID   string
}

func GlobalScope() Scope { return Scope{Kind: Global} }

func FunctionScope(name string, isStatic bool) Scope {
	return Scope{Kind: Function, FuncName: name, IsStatic: isStatic}
}

func FunctionParamScope(name string, isStatic bool) Scope {
	return Scope{Kind: FunctionParam, FuncName: name, IsStatic: isStatic}
}

func StructScope(name string) Scope { return Scope{Kind: Struct, StructName: name} }

func CtxFunctionArgScope(callSiteID, funcName string) Scope {
	return Scope{Kind: CtxFunctionArg, CallSiteID: callSiteID, FuncName: funcName}
}

func CtxStructScope(accessID, structName string) Scope {
	return Scope{Kind: CtxStruct, AccessID: accessID, StructName: structName}
}

// Equal reports whether two scopes denote the same lexical scope (§4.8.3
// "k's scope equals d's scope").
func (s Scope) Equal(o Scope) bool {
	return s == o
}

func (s Scope) String() string {
	switch s.Kind {
	case Global:
		return "global"
	case Function:
		return fmt.Sprintf("func(%s,static=%v)", s.FuncName, s.IsStatic)
	case FunctionParam:
		return fmt.Sprintf("param(%s,static=%v)", s.FuncName, s.IsStatic)
	case Struct:
		return fmt.Sprintf("struct(%s)", s.StructName)
	case CtxFunctionArg:
		return fmt.Sprintf("ctx-arg(%s@%s)", s.FuncName, s.CallSiteID)
	case CtxStruct:
		return fmt.Sprintf("ctx-struct(%s@%s)", s.StructName, s.AccessID)
	default:
		return "?"
	}
}

// ProgramVar attaches a name and lexical scope to a Key (§3 ProgramVar).
type ProgramVar struct {
	Key        Key
	Name       string
	Scope      Scope
	IsConstant bool
}

func NewProgramVar(k Key, name string, scope Scope, isConstant bool) ProgramVar {
	return ProgramVar{Key: k, Name: name, Scope: scope, IsConstant: isConstant}
}
