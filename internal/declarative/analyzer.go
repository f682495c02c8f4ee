package declarative

import (
	"errors"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/mixinconfig"
)

// TypeAnalyzer inspects the declarations attached to one type.
type TypeAnalyzer interface {
	Name() string
	AnalyzeType(t *analyze.TypeInfo, b *mixinconfig.Builder) error
}

// PackageAnalyzer inspects the declarations attached to one package.
type PackageAnalyzer interface {
	Name() string
	AnalyzePackage(pkgPath string, b *mixinconfig.Builder) error
}

// DefaultTypeAnalyzers returns the analyzers for every type level record.
func DefaultTypeAnalyzers(src declare.Source) []TypeAnalyzer {
	return []TypeAnalyzer{
		&ExtendsAnalyzer{Source: src},
		&UsesAnalyzer{Source: src},
		&CompleteInterfaceAnalyzer{Source: src},
		&IgnoresAnalyzer{Source: src},
	}
}

// DefaultPackageAnalyzers returns the analyzers for every package level record.
func DefaultPackageAnalyzers(src declare.Source) []PackageAnalyzer {
	return []PackageAnalyzer{&MixAnalyzer{Source: src}}
}

// ExtendsAnalyzer applies Extends records of a mixin type, including those
// inherited from the mixin's base types. A declaration for a target replaces
// the declarations for the same target made further up the mixin's chain.
type ExtendsAnalyzer struct {
	Source declare.Source
}

// Name implements TypeAnalyzer.
func (a *ExtendsAnalyzer) Name() string { return declare.OriginExtends }

// AnalyzeType implements TypeAnalyzer.
func (a *ExtendsAnalyzer) AnalyzeType(mixin *analyze.TypeInfo, b *mixinconfig.Builder) error {
	if mixin.Kind != analyze.TypeKindStruct {
		return nil
	}

	var (
		errs     []error
		declared = make(map[*analyze.TypeInfo]bool)
	)

	for level := mixin; level != nil; level = level.BaseType() {
		var subst analyze.Substitution
		if level.IsInstantiation() {
			subst = analyze.SubstitutionFor(level.GenericDef, level.TypeArgs)
		}

		inherited := level != mixin
		here := make(map[*analyze.TypeInfo]bool)

		for _, e := range a.Source.TypeDeclarations(level.Definition()).Extends {
			if declared[e.Target] {
				continue
			}

			here[e.Target] = true

			if inherited {
				// Arguments close the declaring type, not mixin.
				e.TypeArgs = nil
				e.Dependencies = substituteAll(e.Dependencies, subst)
				e.Suppressed = substituteAll(e.Suppressed, subst)
			}

			if err := b.AddMixinToClass(e.Intent(mixin)); err != nil {
				errs = append(errs, err)
			}
		}

		for t := range here {
			declared[t] = true
		}
	}

	return errors.Join(errs...)
}

func substituteAll(ts []*analyze.TypeInfo, subst analyze.Substitution) []*analyze.TypeInfo {
	if len(subst) == 0 || len(ts) == 0 {
		return ts
	}

	out := make([]*analyze.TypeInfo, len(ts))
	for i, t := range ts {
		if g := t.Graph(); g != nil {
			out[i] = g.Substitute(t, subst)
		} else {
			out[i] = t
		}
	}

	return out
}

// UsesAnalyzer applies Uses records of a target type.
type UsesAnalyzer struct {
	Source declare.Source
}

// Name implements TypeAnalyzer.
func (a *UsesAnalyzer) Name() string { return declare.OriginUses }

// AnalyzeType implements TypeAnalyzer.
func (a *UsesAnalyzer) AnalyzeType(target *analyze.TypeInfo, b *mixinconfig.Builder) error {
	var errs []error

	for _, u := range a.Source.TypeDeclarations(target).Uses {
		if err := b.AddMixinToClass(u.Intent(target)); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// CompleteInterfaceAnalyzer applies CompleteInterface records of an interface.
type CompleteInterfaceAnalyzer struct {
	Source declare.Source
}

// Name implements TypeAnalyzer.
func (a *CompleteInterfaceAnalyzer) Name() string { return declare.OriginCompleteInterface }

// AnalyzeType implements TypeAnalyzer.
func (a *CompleteInterfaceAnalyzer) AnalyzeType(iface *analyze.TypeInfo, b *mixinconfig.Builder) error {
	var errs []error

	for _, c := range a.Source.TypeDeclarations(iface).CompleteInterfaces {
		if err := b.AddCompleteInterface(c.Target, iface, c.Origin); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IgnoresAnalyzer turns IgnoresClass records of mixins and IgnoresMixin
// records of targets into class level suppressions.
type IgnoresAnalyzer struct {
	Source declare.Source
}

// Name implements TypeAnalyzer.
func (a *IgnoresAnalyzer) Name() string { return declare.OriginIgnores }

// AnalyzeType implements TypeAnalyzer.
func (a *IgnoresAnalyzer) AnalyzeType(t *analyze.TypeInfo, b *mixinconfig.Builder) error {
	var errs []error

	d := a.Source.TypeDeclarations(t)

	for _, i := range d.IgnoresClass {
		if err := b.SuppressMixin(i.Class, t, i.Origin); err != nil {
			errs = append(errs, err)
		}
	}

	for _, i := range d.IgnoresMixin {
		if err := b.SuppressMixin(t, i.Mixin, i.Origin); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// MixAnalyzer applies the Mix records of a package.
type MixAnalyzer struct {
	Source declare.Source
}

// Name implements PackageAnalyzer.
func (a *MixAnalyzer) Name() string { return declare.OriginMix }

// AnalyzePackage implements PackageAnalyzer.
func (a *MixAnalyzer) AnalyzePackage(pkgPath string, b *mixinconfig.Builder) error {
	var errs []error

	for _, m := range a.Source.PackageDeclarations(pkgPath).Mix {
		if err := b.AddMixinToClass(m.Intent()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
