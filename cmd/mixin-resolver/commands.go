package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mixin-resolver/internal/mixinconfig"
	"mixin-resolver/internal/settings"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	envFile  string
	settings settings.Settings
	logger   *slog.Logger
	shutdown func(context.Context) error

	once    sync.Once
	session *session
	err     error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mixin-resolver",
		Short: "Resolve mixin configurations from Go directives and YAML manifests",
		Long: `mixin-resolver loads Go packages carrying //mixin: directives and YAML
manifests, builds the mixin configuration and reports, for every target
type, the mixins it receives after inheritance, overrides and suppression.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.envFile, "env-file", ".env", "file with MIXIN_* variables, ignored when missing")
	f.StringSliceP("pattern", "p", nil, "Go package patterns to load (env "+settings.EnvPatterns+")")
	f.StringSliceP("manifest", "m", nil, "YAML manifests to apply (env "+settings.EnvManifests+")")
	f.String("dir", "", "working directory for package patterns (env "+settings.EnvDir+")")
	f.StringP("format", "f", settings.FormatText, "output format: text, yaml or dump (env "+settings.EnvFormat+")")
	f.String("log-level", "warn", "log level: debug, info, warn or error (env "+settings.EnvLogLevel+")")
	f.Bool("strict", false, "fail check on warnings (env "+settings.EnvStrict+")")
	f.Int("cache-size", settings.DefaultCacheSize, "inheritance cache entries (env "+settings.EnvCacheSize+")")
	f.Bool("trace", false, "print build spans and metrics to stderr (env "+settings.EnvTrace+")")

	root.AddCommand(
		a.resolveCmd(),
		a.explainCmd(),
		a.checkCmd(),
		a.completeCmd(),
		a.exportCmd(),
	)

	return root
}

// setup resolves settings, installs the logger and optional tracing, and
// registers the resolution as the default configuration source.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	s, err := settings.Load(a.envFile)
	if err != nil {
		return err
	}

	if err := applyFlags(cmd.Flags(), &s); err != nil {
		return err
	}

	if err := s.Validate(); err != nil {
		return err
	}

	a.settings = s
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: s.LogLevel}))

	if s.Trace {
		shutdown, err := installTelemetry(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		a.shutdown = shutdown
	}

	mixinconfig.SetDefaultSource(func(ctx context.Context) (*mixinconfig.Configuration, error) {
		sess, err := a.load(ctx)
		if err != nil {
			return nil, err
		}

		return sess.config, sess.buildErr
	})

	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	mixinconfig.SetDefaultSource(nil)

	if a.shutdown == nil {
		return nil
	}

	if err := a.shutdown(cmd.Context()); err != nil {
		return fmt.Errorf("failed to flush telemetry: %w", err)
	}

	return nil
}

// applyFlags overrides s with the flags set on the command line.
func applyFlags(fs *pflag.FlagSet, s *settings.Settings) error {
	var err error

	if fs.Changed("pattern") {
		if s.Patterns, err = fs.GetStringSlice("pattern"); err != nil {
			return err
		}
	}

	if fs.Changed("manifest") {
		if s.Manifests, err = fs.GetStringSlice("manifest"); err != nil {
			return err
		}
	}

	if fs.Changed("dir") {
		if s.Dir, err = fs.GetString("dir"); err != nil {
			return err
		}
	}

	if fs.Changed("format") {
		if s.Format, err = fs.GetString("format"); err != nil {
			return err
		}
	}

	if fs.Changed("log-level") {
		v, err := fs.GetString("log-level")
		if err != nil {
			return err
		}

		if s.LogLevel, err = settings.ParseLogLevel(v); err != nil {
			return err
		}
	}

	if fs.Changed("strict") {
		if s.Strict, err = fs.GetBool("strict"); err != nil {
			return err
		}
	}

	if fs.Changed("cache-size") {
		if s.CacheSize, err = fs.GetInt("cache-size"); err != nil {
			return err
		}
	}

	if fs.Changed("trace") {
		if s.Trace, err = fs.GetBool("trace"); err != nil {
			return err
		}
	}

	return nil
}
