package manifest

import (
	"fmt"
	"strings"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/diagnostic"
)

// Apply registers the types of m in graph and records its declarations in
// reg. Entries that fail to resolve are reported and skipped.
func Apply(m *Manifest, graph *analyze.TypeGraph, reg *declare.Registry) diagnostic.Diagnostics {
	a := &applier{m: m, graph: graph, reg: reg}

	if m == nil {
		a.diags.AddError(diagnostic.CodeMalformed, "manifest is nil", "", "")
		return a.diags
	}

	a.declareTypes()
	a.applyExtends()
	a.applyUses()
	a.applyMix()
	a.applyComplete()
	a.applyIgnores()

	return a.diags
}

type applier struct {
	m     *Manifest
	graph *analyze.TypeGraph
	reg   *declare.Registry
	diags diagnostic.Diagnostics
	known []string
}

// loc returns e.g. "mixins.yaml:extends[2]".
func (a *applier) loc(section string, i int) string {
	path := a.m.Path
	if path == "" {
		path = "<manifest>"
	}

	return fmt.Sprintf("%s:%s[%d]", path, section, i)
}

func (a *applier) resolve(ref string, scope *analyze.TypeInfo, subject, loc string) *analyze.TypeInfo {
	if ref == "" {
		a.diags.AddError(diagnostic.CodeMalformed, "missing type reference", subject, loc)
		return nil
	}

	t, err := a.graph.ResolveIn(ref, a.m.Package, scope)
	if err != nil {
		if a.known == nil {
			a.known = a.graph.Names()
		}

		a.diags.AddResolveError(err, subject, loc, a.known)

		return nil
	}

	return t
}

func (a *applier) resolveList(refs StringOrArray, scope *analyze.TypeInfo, subject, loc string) ([]*analyze.TypeInfo, bool) {
	ok := true

	var out []*analyze.TypeInfo

	for _, ref := range refs {
		if t := a.resolve(ref, scope, subject, loc); t != nil {
			out = append(out, t)
		} else {
			ok = false
		}
	}

	return out, ok
}

func (a *applier) options(o Options, scope *analyze.TypeInfo, subject, loc string) (declare.Options, bool) {
	deps, ok1 := a.resolveList(o.Deps, scope, subject, loc)
	suppressed, ok2 := a.resolveList(o.Suppress, scope, subject, loc)
	args, ok3 := a.resolveList(o.Args, scope, subject, loc)

	return declare.Options{
		Dependencies: deps,
		Suppressed:   suppressed,
		Visibility:   o.Visibility,
		TypeArgs:     args,
	}, ok1 && ok2 && ok3
}

// refSlot is one type reference of a described type and its resolution.
type refSlot struct {
	ref string
	typ *analyze.TypeInfo
}

// typeRefs holds the references of one described type until all types are
// registered.
type typeRefs struct {
	t           *analyze.TypeInfo
	loc         string
	constraints [][]refSlot
	interfaces  []refSlot
	base        refSlot
}

func slotsOf(refs StringOrArray) []refSlot {
	out := make([]refSlot, len(refs))
	for i, ref := range refs {
		out[i] = refSlot{ref: ref}
	}

	return out
}

func resolvedSlots(slots []refSlot) []*analyze.TypeInfo {
	var out []*analyze.TypeInfo

	for _, s := range slots {
		if s.typ != nil {
			out = append(out, s.typ)
		}
	}

	return out
}

// hasTypeArgs reports whether ref closes a generic type, which checks
// constraints against the relations of other types.
func hasTypeArgs(ref string) bool {
	return strings.Contains(ref, "[")
}

// declareTypes registers the described types so that they may refer to each
// other in any order. Shells with parameters are registered first. Plain
// references are resolved next, then references with type arguments, whose
// constraint checks rely on the relations set by plain references.
func (a *applier) declareTypes() {
	if len(a.m.Types) == 0 {
		return
	}

	if a.m.Package == "" {
		a.diags.AddError(diagnostic.CodeMalformed, "types need a package", "", a.loc("types", 0))
		return
	}

	var pending []*typeRefs

	for i, td := range a.m.Types {
		loc := a.loc("types", i)

		kind, ok := analyze.ParseTypeKind(td.Kind)
		if !ok || (kind != analyze.TypeKindStruct && kind != analyze.TypeKindInterface) {
			a.diags.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("unsupported kind %q", td.Kind), td.Name, loc)
			continue
		}

		t := &analyze.TypeInfo{
			ID:       analyze.TypeID{PkgPath: a.m.Package, Name: td.Name},
			Kind:     kind,
			Abstract: td.Abstract,
			Pos:      loc,
		}

		r := &typeRefs{t: t, loc: loc, interfaces: slotsOf(td.Interfaces), base: refSlot{ref: td.Base}}

		for _, p := range td.Params {
			t.AddTypeParam(p.Name, analyze.Constraint{
				ReferenceType:      p.Reference,
				ValueType:          p.Value,
				DefaultConstructor: p.Constructor,
			})
			r.constraints = append(r.constraints, slotsOf(p.Types))
		}

		if err := a.graph.AddType(t); err != nil {
			a.diags.AddError(diagnostic.CodeMalformed, err.Error(), td.Name, loc)
			continue
		}

		pending = append(pending, r)
	}

	for _, withArgs := range []bool{false, true} {
		for _, r := range pending {
			a.resolveRelations(r, withArgs)
		}

		for _, r := range pending {
			a.resolveBase(r, withArgs)
		}
	}
}

// resolveSlots resolves the slots whose references do or do not carry type
// arguments. Resolved types rejected by check are reported by check.
func (a *applier) resolveSlots(slots []refSlot, withArgs bool, r *typeRefs, check func(*analyze.TypeInfo) bool) {
	for i := range slots {
		if hasTypeArgs(slots[i].ref) != withArgs {
			continue
		}

		t := a.resolve(slots[i].ref, r.t, r.t.String(), r.loc)
		if t != nil && (check == nil || check(t)) {
			slots[i].typ = t
		}
	}
}

func (a *applier) resolveRelations(r *typeRefs, withArgs bool) {
	for j, cs := range r.constraints {
		a.resolveSlots(cs, withArgs, r, nil)
		r.t.TypeParams[j].Constraint.Types = resolvedSlots(cs)
	}

	a.resolveSlots(r.interfaces, withArgs, r, func(iface *analyze.TypeInfo) bool {
		if iface.Kind != analyze.TypeKindInterface {
			a.diags.AddError(diagnostic.CodeInvalidOption, iface.String()+" is not an interface", r.t.String(), r.loc)
			return false
		}

		return true
	})
	r.t.Interfaces = resolvedSlots(r.interfaces)
}

func (a *applier) resolveBase(r *typeRefs, withArgs bool) {
	if r.base.ref == "" || hasTypeArgs(r.base.ref) != withArgs {
		return
	}

	t, subject := r.t, r.t.String()

	base := a.resolve(r.base.ref, t, subject, r.loc)
	switch {
	case base == nil:
	case t.Kind != analyze.TypeKindStruct || base.Definition().Kind != analyze.TypeKindStruct:
		a.diags.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("%s cannot derive from %s", t, base), subject, r.loc)
	case base.IsSubclassOrSame(t):
		a.diags.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("%v: %s", analyze.ErrInheritanceCycle, t), subject, r.loc)
	default:
		t.Base = base
	}
}

func (a *applier) applyExtends() {
	for i, e := range a.m.Extends {
		loc := a.loc("extends", i)

		mixin := a.resolve(e.Mixin, nil, e.Mixin, loc)
		if mixin == nil {
			continue
		}

		target := a.resolve(e.Target, mixin, mixin.String(), loc)
		opts, ok := a.options(e.Options, mixin, mixin.String(), loc)

		if target == nil || !ok {
			continue
		}

		a.reg.AddExtends(mixin, declare.Extends{
			Target:  target,
			Options: opts,
			Origin:  declare.Origin{Kind: declare.OriginExtends, Declarer: mixin.String(), Location: loc},
		})
	}
}

func (a *applier) applyUses() {
	for i, u := range a.m.Uses {
		loc := a.loc("uses", i)

		target := a.resolve(u.Target, nil, u.Target, loc)
		if target == nil {
			continue
		}

		mixin := a.resolve(u.Mixin, target, target.String(), loc)
		opts, ok := a.options(u.Options, target, target.String(), loc)

		if mixin == nil || !ok {
			continue
		}

		a.reg.AddUses(target, declare.Uses{
			Mixin:   mixin,
			Options: opts,
			Origin:  declare.Origin{Kind: declare.OriginUses, Declarer: target.String(), Location: loc},
		})
	}
}

func (a *applier) applyMix() {
	declarer := a.m.Package
	if declarer == "" {
		declarer = a.m.Path
	}

	for i, e := range a.m.Mix {
		loc := a.loc("mix", i)

		target := a.resolve(e.Target, nil, declarer, loc)
		mixin := a.resolve(e.Mixin, nil, declarer, loc)
		opts, ok := a.options(e.Options, nil, declarer, loc)

		if target == nil || mixin == nil || !ok {
			continue
		}

		a.reg.AddMix(target.ID.PkgPath, declare.Mix{
			Target:  target,
			Mixin:   mixin,
			Kind:    e.Kind,
			Options: opts,
			Origin:  declare.Origin{Kind: declare.OriginMix, Declarer: declarer, Location: loc},
		})
	}
}

func (a *applier) applyComplete() {
	for i, c := range a.m.CompleteInterfaces {
		loc := a.loc("complete_interfaces", i)

		iface := a.resolve(c.Interface, nil, c.Interface, loc)
		target := a.resolve(c.Target, nil, c.Interface, loc)

		if iface == nil || target == nil {
			continue
		}

		if iface.Kind != analyze.TypeKindInterface {
			a.diags.AddError(diagnostic.CodeMisplaced, iface.String()+" is not an interface", iface.String(), loc)
			continue
		}

		a.reg.AddCompleteInterface(iface, declare.CompleteInterface{
			Target: target,
			Origin: declare.Origin{Kind: declare.OriginCompleteInterface, Declarer: iface.String(), Location: loc},
		})
	}
}

func (a *applier) applyIgnores() {
	for i, e := range a.m.Ignores {
		loc := a.loc("ignores", i)

		target := a.resolve(e.Target, nil, e.Target, loc)
		if target == nil {
			continue
		}

		mixins, _ := a.resolveList(e.Mixins, target, target.String(), loc)
		for _, mixin := range mixins {
			a.reg.AddIgnoresMixin(target, declare.IgnoresMixin{
				Mixin:  mixin,
				Origin: declare.Origin{Kind: declare.OriginIgnores, Declarer: target.String(), Location: loc},
			})
		}
	}
}
