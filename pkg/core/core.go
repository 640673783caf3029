// Package core is the public API surface (§6): the orchestration layer
// that ties proginfo, resolver, generator, bounds inference, and the
// solver together into the absorb -> solve -> render lifecycle the AST
// collaborator and rewriter drive from outside this module.
//
// Grounded on the teacher's internal/pipeline package (a single Pipeline
// type wrapping lexer/parser/evaluator construction behind a handful of
// ordered method calls) for the "one façade struct per run" shape.
package core

import (
	"io"
	"time"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/bounds"
	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/diagnostics"
	"github.com/funvibe/checkedc-infer/internal/generator"
	"github.com/funvibe/checkedc-infer/internal/loc"
	"github.com/funvibe/checkedc-infer/internal/proginfo"
	"github.com/funvibe/checkedc-infer/internal/resolver"
	"github.com/funvibe/checkedc-infer/internal/solver"
)

// Core wraps one ProgramInfo lifetime (§5 "all state is per ProgramInfo
// lifetime"): absorb every translation unit, link, solve, then render
// outputs. Not safe for concurrent use from more than one goroutine at a
// time beyond what ProgramInfo's own mutex already serializes.
type Core struct {
	pi  *proginfo.ProgramInfo
	res *resolver.Resolver
	gen *generator.Generator

	solved bool
}

// New constructs a Core over a fresh ProgramInfo built from opts.
func New(opts config.CoreOptions) (*Core, error) {
	pi, err := proginfo.New(opts)
	if err != nil {
		return nil, err
	}
	res := resolver.New(pi)
	return &Core{
		pi:  pi,
		res: res,
		gen: generator.New(pi, res),
	}, nil
}

// Close releases the symbol index backing this Core.
func (c *Core) Close() error { return c.pi.Close() }

// Absorb runs the two-pass MappingVisitor shape (§9, SUPPLEMENTED FEATURES
// item 5) over one translation unit's declarations: IndexPass registers
// every symbol's ConstraintVariable, then ConstraintPass walks bodies and
// initializers generating constraints against them. now is the wall-clock
// timestamp the caller took for this absorb call, threaded through rather
// than read internally so repeated runs stay deterministic.
func (c *Core) Absorb(now time.Time, decls []cast.Decl, file string, rewritable cast.RewritableSet) error {
	c.pi.Stats.StartConstraintBuilderTime(now)
	if err := c.gen.IndexPass(decls, file); err != nil {
		return err
	}
	if err := c.gen.ConstraintPass(decls, file, rewritable); err != nil {
		return err
	}
	c.gen.EndConstraintBuilding(c.pi.Stats, now)
	return nil
}

// Link runs the cross-TU symbol unification step (§2 dependency order)
// after every translation unit has been absorbed.
func (c *Core) Link() error { return c.pi.Link() }

// Solve runs bounds flow analysis (§4.8.2) followed by the fixed-point
// solver (§4.3) and finalizes the resolver's call-site cast decisions
// (§6, SUPPLEMENTED FEATURES item 3) now that a solved environment exists.
// Must be called after every translation unit has been absorbed and
// Link has run.
func (c *Core) Solve(now time.Time) solver.Result {
	c.gen.FinalizeTypeVariables()

	c.pi.Stats.StartBoundsTime(now)
	c.pi.Bounds.PerformFlowAnalysis()
	c.pi.Stats.EndBoundsTime(now)

	c.pi.Stats.StartSolverTime(now)
	res := solver.Solve(c.pi.CS, solver.Options{AllTypes: c.pi.Options.AllTypes})
	c.pi.Stats.EndSolverTime(now)

	for _, conflict := range res.Conflicts {
		c.pi.Stats.RecordWild(string(conflict.Reason))
		if c.pi.Options.WarnRootCause || c.pi.Options.WarnAllRootCause {
			c.pi.Diags.Warnf(conflict.Loc, []string{string(conflict.Reason)},
				"constraint unsatisfiable, demoted to Wild: %s", conflict.Reason)
		}
	}
	if c.pi.Options.WarnRootCause || c.pi.Options.WarnAllRootCause {
		for _, g := range c.pi.CS.Geqs() {
			if k, ok := atoms.AsConst(g.Rhs); !ok || k != atoms.Wild || g.Sub != constraints.Checked {
				continue
			}
			if _, ok := atoms.AsVar(g.Lhs); ok {
				c.pi.Diags.Warnf(g.Loc, []string{string(g.Reason)}, "pointer constrained to Wild: %s", g.Reason)
			}
		}
	}

	c.res.CastPlan().Finalize(c.pi.CS.Env())
	c.solved = true
	return res
}

// DeclOutput is §6's "for each declaration: the final rendered type
// string ... plus a per-declaration did-anything-change flag" for a
// variable/field/parameter declaration.
type DeclOutput struct {
	TypeText string
	Changed  bool
}

// FuncOutput is §6's function-shaped variant: separate return-text and
// parameter-list-text.
type FuncOutput struct {
	ReturnText string
	ParamsText string
	Changed    bool
}

// DeclOutput renders the declaration absorbed at l, ok=false if l names no
// known declaration or the underlying ConstraintVariable is a function
// (use FuncOutput for those).
func (c *Core) DeclOutput(l loc.PersistentSourceLocation) (DeclOutput, bool) {
	cv, ok := c.pi.LookupDecl(l)
	if !ok {
		return DeclOutput{}, false
	}
	if _, isFunc := cv.(*cvars.FV); isFunc {
		return DeclOutput{}, false
	}
	env := c.pi.CS.Env()
	return DeclOutput{TypeText: cv.MkString(env), Changed: cv.AnyChanges(env)}, true
}

// FuncOutput renders the function declared as name in file (static lookup
// is scoped to file; pass "" for an extern function).
func (c *Core) FuncOutput(name, file string) (FuncOutput, bool) {
	fv, ok := c.pi.LookupFunc(name, file)
	if !ok {
		return FuncOutput{}, false
	}
	env := c.pi.CS.Env()
	return FuncOutput{
		ReturnText: fv.ReturnText(env),
		ParamsText: fv.ParamsText(env),
		Changed:    fv.AnyChanges(env),
	}, true
}

// CallCast returns the cast-insertion decision recorded for the call
// expression at l (§6 "for each call expression: the set of casts the
// resolver decided must surround arguments/return").
func (c *Core) CallCast(l loc.PersistentSourceLocation) resolver.CallCast {
	return c.res.CastPlan().Get(l)
}

// BoundsString renders the winning bounds-expression string for k (§6 "for
// each pointer with bounds: a bounds-expression string"), ok=false if k has
// no resolved bound.
func (c *Core) BoundsString(k bounds.Key) (string, bool) {
	b, ok := c.pi.Bounds.Resolved(k)
	if !ok {
		return "", false
	}
	return b.String(), true
}

// BoundsKeyOf returns the BoundsKey registered for a pointer/array
// declaration at l.
func (c *Core) BoundsKeyOf(l loc.PersistentSourceLocation) (bounds.Key, bool) {
	return c.pi.BoundsKeyOf(l)
}

// Diagnostics returns every diagnostic accumulated so far.
func (c *Core) Diagnostics() []diagnostics.Diagnostic { return c.pi.Diags.All() }

// PrintDiagnostics writes every accumulated diagnostic to w, colorized when
// w is a terminal (§5 "Progress diagnostics may be printed to stderr").
func (c *Core) PrintDiagnostics(w io.Writer) { c.pi.Diags.Print(w) }

// Stats exposes the accumulated run statistics (SUPPLEMENTED FEATURES
// item 4).
func (c *Core) Stats() *diagnostics.Stats { return c.pi.Stats }

// MakeSinglePointerNonWild implements §4.9's first interactive-invalidation
// operation, delegated to ProgramInfo which owns the mutex and the
// constraint set.
func (c *Core) MakeSinglePointerNonWild(v atoms.VarAtom) ([]atoms.VarAtom, error) {
	return c.pi.MakeSinglePointerNonWild(v)
}

// InvalidateWildReasonGlobally implements §4.9's second operation.
func (c *Core) InvalidateWildReasonGlobally(reason constraints.Reason) []atoms.VarAtom {
	return c.pi.InvalidateWildReasonGlobally(reason)
}

// Solved reports whether Solve has run at least once.
func (c *Core) Solved() bool { return c.solved }
