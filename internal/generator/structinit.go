// structinit.go implements StructInit (SUPPLEMENTED FEATURES #2), grounded
// on clang/lib/3C/StructInit.cpp in original_source: a brace-initializer
// list with fewer initializers than a struct has fields binds only the
// fields it mentions — the remaining fields are implicitly zero-equivalent,
// not forced Wild, unless a field is itself a pointer with no initializer
// at all, which is simply left unconstrained.
package generator

import (
	"github.com/funvibe/checkedc-infer/internal/cast"
	"github.com/funvibe/checkedc-infer/internal/constraints"
	"github.com/funvibe/checkedc-infer/internal/cvars"
	"github.com/funvibe/checkedc-infer/internal/proginfo"
	"github.com/funvibe/checkedc-infer/internal/resolver"
)

// applyStructInit constrains every field an initializer list actually
// mentions (Same_to_Same, matching the ordinary initializer rule of §4.7);
// fields beyond len(d.FieldInits) are left untouched.
func applyStructInit(pi *proginfo.ProgramInfo, res *resolver.Resolver, owner *cvars.PV, d *cast.Decl, ctx resolver.Context) {
	_ = owner // the struct variable itself carries no per-field atoms; fields are separate ConstraintVariables keyed by their own declaration locations
	n := len(d.FieldInits)
	if n > len(d.Fields) {
		n = len(d.Fields)
	}
	for i := 0; i < n; i++ {
		init := d.FieldInits[i]
		if init == nil {
			continue
		}
		field := d.Fields[i]
		cv, ok := pi.LookupDecl(field.Loc)
		if !ok {
			continue
		}
		fieldPV, ok := cv.(*cvars.PV)
		if !ok {
			continue
		}
		cvs, _ := res.Resolve(init, ctx)
		srcPV, ok := firstPV(cvs)
		if !ok {
			continue
		}
		cvars.ConstrainAssign(pi.CS, fieldPV, srcPV, constraints.SameToSame, cvars.AssignOptions{EquateTypes: true}, "struct-field-initializer", field.Loc)
	}
}
