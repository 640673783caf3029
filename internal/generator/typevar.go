// typevar.go implements TypeVariableAnalysis (SUPPLEMENTED FEATURES #1),
// grounded on clang/lib/3C/TypeVariableAnalysis.cpp in original_source:
// generic type-parameter bindings are recorded per call site, and a fresh
// PV is allocated per type parameter so that a wild argument at any
// position sharing that parameter forces the synthetic type argument wild
// too (§4.7 final paragraph).
package generator

import (
	"strconv"

	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/loc"
)

// TypeVarAnalysis tracks which functions declare generic (itype_for_any)
// parameters. bindCallSite does not consult it: the "does this call use a
// type parameter" test runs directly off each PV's GenericIndex field (set
// by BuildPV from the declared QualType).
type TypeVarAnalysis struct {
	funcsWithGenerics map[string]bool
}

func NewTypeVarAnalysis() *TypeVarAnalysis {
	return &TypeVarAnalysis{funcsWithGenerics: make(map[string]bool)}
}

// ObserveFunction records whether d declares any generic parameter.
func (tv *TypeVarAnalysis) ObserveFunction(d *cast.Decl) {
	for _, p := range d.Params {
		if p.Type.IsGeneric || p.Type.GenericIndex > 0 {
			tv.funcsWithGenerics[d.Name] = true
			return
		}
	}
}

// bindCallSite performs the grouping and constraint assertion for one call
// site's (args, params) pair: §4.7's final paragraph, "for each callsite
// where all uses of a given type parameter agree, a fresh PV tyarg_i is
// allocated ... constrained Safe_to_Wild from every argument ... using that
// type parameter."
func bindCallSite(cs *constraints.Constraints, args, params []*cvars.PV, l loc.PersistentSourceLocation) {
	groups := make(map[int][]*cvars.PV)
	n := len(args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		if params[i] == nil || params[i].GenericIndex < 0 || args[i] == nil {
			continue
		}
		groups[params[i].GenericIndex] = append(groups[params[i].GenericIndex], args[i])
	}
	for idx, members := range groups {
		if len(members) == 0 {
			continue
		}
		tyarg := cvars.BuildPV(cs, cvars.QualType{Levels: []cvars.QualTypeLevel{{}}, BaseType: "void", IsGeneric: true}, cvars.BuildPVOptions{NamePrefix: "tyarg_" + strconv.Itoa(idx)})
		for _, m := range members {
			cvars.ConstrainAssign(cs, tyarg, m, constraints.SafeToWild, cvars.AssignOptions{}, "type-parameter-binding", l)
		}
	}
}
