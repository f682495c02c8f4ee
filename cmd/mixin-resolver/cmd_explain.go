package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mixin-resolver/internal/classctx"
)

// explainView contrasts what a type declares with what it receives.
type explainView struct {
	Target   string       `yaml:"target"`
	Bases    []string     `yaml:"bases,omitempty"`
	Generic  string       `yaml:"generic,omitempty"`
	Exact    *contextView `yaml:"exact,omitempty"`
	Resolved *contextView `yaml:"resolved,omitempty"`
}

func (a *app) explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <type>",
		Short: "Show the exact and the inherited mixin context of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := a.configuration(cmd.Context())
			if err != nil {
				return err
			}

			t, err := sess.lookup(args[0])
			if err != nil {
				return err
			}

			v := explainView{Target: t.String()}

			for base := t.BaseType(); base != nil; base = base.BaseType() {
				v.Bases = append(v.Bases, base.String())
			}

			if t.IsInstantiation() {
				v.Generic = t.GenericDef.String()
			}

			if v.Exact, err = optionalView(cfg.GetExact(t)); err != nil {
				return err
			}

			if v.Resolved, err = optionalView(cfg.GetWithInheritance(t)); err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.settings.Format, v, func(w io.Writer) error {
				fmt.Fprintln(w, v.Target)

				for _, b := range v.Bases {
					fmt.Fprintf(w, "  extends %s\n", b)
				}

				if v.Generic != "" {
					fmt.Fprintf(w, "  instantiates %s\n", v.Generic)
				}

				section := func(title string, cv *contextView) {
					fmt.Fprintf(w, "\n%s:\n", title)

					if cv == nil {
						fmt.Fprintln(w, "  (none)")
						return
					}

					writeContext(w, *cv)
				}

				section("declared", v.Exact)
				section("resolved", v.Resolved)

				return nil
			})
		},
	}
}

func optionalView(ctx *classctx.ClassContext) (*contextView, error) {
	if ctx == nil {
		return nil, nil
	}

	v, err := viewOf(ctx)
	if err != nil {
		return nil, err
	}

	return &v, nil
}
