package declare

import (
	"mixin-resolver/internal/analyze"
)

// Options are the optional parts shared by Extends, Uses and Mix. The zero
// value is the documented default: no dependencies, nothing suppressed,
// private visibility, and the mixin's own generic arguments.
type Options struct {
	Dependencies []*analyze.TypeInfo // AdditionalDependencies
	Suppressed   []*analyze.TypeInfo // SuppressedMixins
	Visibility   Visibility          // IntroducedMemberVisibility
	TypeArgs     []*analyze.TypeInfo // MixinTypeArguments
}

// Extends is declared on a mixin type: the mixin extends Target.
type Extends struct {
	Target *analyze.TypeInfo
	Options
	Origin Origin
}

// Intent returns the intent for mixin extending e.Target.
func (e Extends) Intent(mixin *analyze.TypeInfo) Intent {
	return e.Options.intent(e.Target, mixin, Extending, e.Origin)
}

// Uses is declared on a target type: the target uses Mixin.
type Uses struct {
	Mixin *analyze.TypeInfo
	Options
	Origin Origin
}

// Intent returns the intent for target using u.Mixin.
func (u Uses) Intent(target *analyze.TypeInfo) Intent {
	return u.Options.intent(target, u.Mixin, Used, u.Origin)
}

// Mix is declared on a package and names both sides.
type Mix struct {
	Target *analyze.TypeInfo
	Mixin  *analyze.TypeInfo
	Kind   MixinKind
	Options
	Origin Origin
}

// Intent returns the intent of the package-level declaration.
func (m Mix) Intent() Intent {
	return m.Options.intent(m.Target, m.Mixin, m.Kind, m.Origin)
}

// CompleteInterface is declared on an interface: the interface is
// implemented by Target together with its mixins.
type CompleteInterface struct {
	Target *analyze.TypeInfo
	Origin Origin
}

// IgnoresClass is declared on a mixin: the mixin must not be applied to
// Class, even when Class inherits it.
type IgnoresClass struct {
	Class  *analyze.TypeInfo
	Origin Origin
}

// IgnoresMixin is declared on a target: Mixin must not be applied to the
// target, even when it is inherited.
type IgnoresMixin struct {
	Mixin  *analyze.TypeInfo
	Origin Origin
}

func (o Options) intent(target, mixin *analyze.TypeInfo, kind MixinKind, origin Origin) Intent {
	return Intent{
		Target:       target,
		Mixin:        mixin,
		Kind:         kind,
		Visibility:   o.Visibility,
		Dependencies: NormalizeTypes(o.Dependencies),
		Suppressed:   NormalizeTypes(o.Suppressed),
		TypeArgs:     append([]*analyze.TypeInfo(nil), o.TypeArgs...),
		Origin:       origin,
	}
}
