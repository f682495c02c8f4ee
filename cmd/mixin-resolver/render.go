package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/classctx"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/settings"
)

// contextView is the printable form of a ClassContext.
type contextView struct {
	Target             string      `yaml:"target"`
	Mixins             []mixinView `yaml:"mixins,omitempty"`
	CompleteInterfaces []string    `yaml:"complete_interfaces,omitempty"`
	Suppressed         []string    `yaml:"suppressed,omitempty"`
}

type mixinView struct {
	Mixin        string             `yaml:"mixin"`
	Kind         declare.MixinKind  `yaml:"kind"`
	Visibility   declare.Visibility `yaml:"visibility"`
	Dependencies []string           `yaml:"dependencies,omitempty"`
	Suppressed   []string           `yaml:"suppressed,omitempty"`
	Origin       string             `yaml:"origin,omitempty"`
}

// viewOf converts ctx with mixins in dependency order.
func viewOf(ctx *classctx.ClassContext) (contextView, error) {
	v := contextView{
		Target:             ctx.Type().String(),
		CompleteInterfaces: typeNames(ctx.CompleteInterfaces()),
		Suppressed:         typeNames(ctx.SuppressedMixins()),
	}

	ordered, err := ctx.OrderedMixins()
	if err != nil {
		return contextView{}, fmt.Errorf("%s: %w", ctx.Type(), err)
	}

	for _, m := range ordered {
		mv := mixinView{
			Mixin:        m.MixinType().String(),
			Kind:         m.Kind(),
			Visibility:   m.Visibility(),
			Dependencies: typeNames(m.ExplicitDependencies()),
			Suppressed:   typeNames(m.SuppressedMixins()),
		}

		if !m.Origin().IsZero() {
			mv.Origin = m.Origin().String()
		}

		v.Mixins = append(v.Mixins, mv)
	}

	return v, nil
}

func typeNames(ts []*analyze.TypeInfo) []string {
	if len(ts) == 0 {
		return nil
	}

	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}

	return out
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// render writes v in format. text is used for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case settings.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return enc.Close()

	case settings.FormatDump:
		dumper.Fdump(w, v)
		return nil

	default:
		return text(w)
	}
}

// writeContext prints v as an indented block.
func writeContext(w io.Writer, v contextView) {
	fmt.Fprintln(w, v.Target)

	if len(v.Mixins) == 0 {
		fmt.Fprintln(w, "  (no mixins)")
	}

	for _, m := range v.Mixins {
		fmt.Fprintf(w, "  %s [%s, %s]", m.Mixin, m.Kind, m.Visibility)

		if len(m.Dependencies) > 0 {
			fmt.Fprintf(w, " after %s", strings.Join(m.Dependencies, ", "))
		}

		if len(m.Suppressed) > 0 {
			fmt.Fprintf(w, " suppressing %s", strings.Join(m.Suppressed, ", "))
		}

		fmt.Fprintln(w)

		if m.Origin != "" {
			fmt.Fprintf(w, "    from %s\n", m.Origin)
		}
	}

	if len(v.CompleteInterfaces) > 0 {
		fmt.Fprintf(w, "  complete: %s\n", strings.Join(v.CompleteInterfaces, ", "))
	}

	if len(v.Suppressed) > 0 {
		fmt.Fprintf(w, "  ignores: %s\n", strings.Join(v.Suppressed, ", "))
	}
}
