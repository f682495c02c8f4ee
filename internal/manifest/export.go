package manifest

import (
	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
)

// FromRegistry converts the records of reg into a manifest with fully
// qualified type references. Types are not described; the manifest is meant
// to be applied to a graph that already holds them.
func FromRegistry(reg *declare.Registry) *Manifest {
	m := &Manifest{Version: CurrentVersion}

	for _, pkg := range reg.Packages() {
		for _, mix := range reg.PackageDeclarations(pkg).Mix {
			m.Mix = append(m.Mix, MixEntry{
				Target:  mix.Target.String(),
				Mixin:   mix.Mixin.String(),
				Kind:    mix.Kind,
				Options: exportOptions(mix.Options),
			})
		}
	}

	for _, t := range reg.Types() {
		d := reg.TypeDeclarations(t)

		for _, e := range d.Extends {
			m.Extends = append(m.Extends, ExtendsEntry{
				Mixin:   t.String(),
				Target:  e.Target.String(),
				Options: exportOptions(e.Options),
			})
		}

		for _, u := range d.Uses {
			m.Uses = append(m.Uses, UsesEntry{
				Target:  t.String(),
				Mixin:   u.Mixin.String(),
				Options: exportOptions(u.Options),
			})
		}

		for _, c := range d.CompleteInterfaces {
			m.CompleteInterfaces = append(m.CompleteInterfaces, CompleteInterfaceEntry{
				Interface: t.String(),
				Target:    c.Target.String(),
			})
		}

		var ignored StringOrArray
		for _, i := range d.IgnoresMixin {
			ignored = append(ignored, i.Mixin.String())
		}

		if len(ignored) > 0 {
			m.Ignores = append(m.Ignores, IgnoresEntry{Target: t.String(), Mixins: ignored})
		}

		for _, i := range d.IgnoresClass {
			m.Ignores = append(m.Ignores, IgnoresEntry{Target: i.Class.String(), Mixins: StringOrArray{t.String()}})
		}
	}

	return m
}

func exportOptions(o declare.Options) Options {
	return Options{
		Deps:       names(o.Dependencies),
		Suppress:   names(o.Suppressed),
		Visibility: o.Visibility,
		Args:       names(o.TypeArgs),
	}
}

func names(ts []*analyze.TypeInfo) StringOrArray {
	if len(ts) == 0 {
		return nil
	}

	out := make(StringOrArray, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}

	return out
}
