package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mixin-resolver/internal/diagnostic"
)

// checkReport lists every problem found by the front ends and the builder.
type checkReport struct {
	Diagnostics []diagnostic.Diagnostic `yaml:"diagnostics,omitempty"`
	BuildErrors []string                `yaml:"build_errors,omitempty"`
	Targets     int                     `yaml:"targets"`
}

var errCheckFailed = errors.New("check failed")

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report declaration problems and build errors; exit non-zero on failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			report := checkReport{Diagnostics: sess.diags.All()}

			if sess.buildErr != nil {
				for _, e := range unjoin(sess.buildErr) {
					report.BuildErrors = append(report.BuildErrors, e.Error())
				}
			}

			if sess.config != nil {
				report.Targets = sess.config.Len()
			}

			if err := render(cmd.OutOrStdout(), a.settings.Format, report, func(w io.Writer) error {
				for _, d := range report.Diagnostics {
					fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
				}

				for _, e := range report.BuildErrors {
					fmt.Fprintf(w, "error: %s\n", e)
				}

				fmt.Fprintf(w, "%d target(s) configured\n", report.Targets)

				return nil
			}); err != nil {
				return err
			}

			failures := len(sess.diags.Errors) + len(report.BuildErrors)
			if a.settings.Strict {
				failures += len(sess.diags.Warnings)
			}

			if failures > 0 {
				return fmt.Errorf("%w: %d problem(s)", errCheckFailed, failures)
			}

			return nil
		},
	}
}

// unjoin expands errors combined with errors.Join, following one level of
// fmt.Errorf wrapping.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}

	if inner := errors.Unwrap(err); inner != nil {
		if j, ok := inner.(interface{ Unwrap() []error }); ok {
			return j.Unwrap()
		}
	}

	return []error{err}
}
