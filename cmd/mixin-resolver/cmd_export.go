package main

import (
	"github.com/spf13/cobra"

	"mixin-resolver/internal/manifest"
)

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all collected declarations as a YAML manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			if derr := sess.diags.Error(); derr != nil {
				return derr
			}

			m := manifest.FromRegistry(sess.registry)

			if output != "" {
				return manifest.WriteFile(m, output)
			}

			data, err := manifest.Marshal(m)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the manifest to a file instead of stdout")

	return cmd
}
