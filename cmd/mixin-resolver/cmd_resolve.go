package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mixin-resolver/internal/analyze"
)

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [type...]",
		Short: "Print the resolved mixins of every target, or of the given types",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := a.configuration(cmd.Context())
			if err != nil {
				return err
			}

			var targets []*analyze.TypeInfo

			if len(args) > 0 {
				for _, ref := range args {
					t, err := sess.lookup(ref)
					if err != nil {
						return err
					}

					targets = append(targets, t)
				}
			} else {
				targets = resolvedTargets(sess.graph, cfg.Types())
			}

			views := make([]contextView, 0, len(targets))

			for _, t := range targets {
				ctx := cfg.GetWithInheritance(t)
				if ctx == nil {
					if len(args) > 0 {
						views = append(views, contextView{Target: t.String()})
					}

					continue
				}

				v, err := viewOf(ctx)
				if err != nil {
					return err
				}

				views = append(views, v)
			}

			return render(cmd.OutOrStdout(), a.settings.Format, views, func(w io.Writer) error {
				if len(views) == 0 {
					fmt.Fprintln(w, "no mixin targets")
				}

				for _, v := range views {
					writeContext(w, v)
				}

				return nil
			})
		},
	}
}

// resolvedTargets returns the named types of graph together with the
// configured instantiations, ordered by name.
func resolvedTargets(graph *analyze.TypeGraph, configured []*analyze.TypeInfo) []*analyze.TypeInfo {
	seen := make(map[*analyze.TypeInfo]bool)

	var out []*analyze.TypeInfo

	for _, t := range append(graph.NamedTypes(), configured...) {
		if !seen[t] && t.Kind != analyze.TypeKindParam {
			seen[t] = true
			out = append(out, t)
		}
	}

	analyze.SortTypes(out)

	return out
}
