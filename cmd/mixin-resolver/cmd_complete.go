package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (a *app) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <interface>",
		Short: "Print the target that owns a complete interface and its mixins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := a.configuration(cmd.Context())
			if err != nil {
				return err
			}

			iface, err := sess.lookup(args[0])
			if err != nil {
				return err
			}

			ctx, ok := cfg.ResolveCompleteInterface(iface)
			if !ok {
				return fmt.Errorf("%s is not a complete interface of any target", iface)
			}

			v, err := viewOf(ctx)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.settings.Format, v, func(w io.Writer) error {
				fmt.Fprintf(w, "%s is completed by ", iface)
				writeContext(w, v)

				return nil
			})
		},
	}
}
