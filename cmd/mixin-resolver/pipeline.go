package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declarative"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/diagnostic"
	"mixin-resolver/internal/directive"
	"mixin-resolver/internal/manifest"
	"mixin-resolver/internal/mixinconfig"
)

// manifestWorkers bounds concurrent manifest reads.
const manifestWorkers = 4

// session is the outcome of one resolution run.
type session struct {
	graph    *analyze.TypeGraph
	registry *declare.Registry
	diags    diagnostic.Diagnostics
	config   *mixinconfig.Configuration
	buildErr error
}

// load runs the front ends and the builder once per invocation.
func (a *app) load(ctx context.Context) (*session, error) {
	a.once.Do(func() {
		a.session, a.err = a.run(ctx)
	})

	return a.session, a.err
}

func (a *app) run(ctx context.Context) (*session, error) {
	start := time.Now()
	s := &session{registry: declare.NewRegistry()}

	if len(a.settings.Patterns) > 0 {
		analyzer := analyze.NewAnalyzer()
		analyzer.Dir = a.settings.Dir

		graph, err := analyzer.LoadPackages(a.settings.Patterns...)
		if err != nil {
			return nil, err
		}

		s.graph = graph
		s.diags.Merge(directive.Compile(graph, s.registry))
	} else {
		s.graph = analyze.NewTypeGraph()
	}

	manifests, err := loadManifests(ctx, a.settings.Manifests)
	if err != nil {
		return nil, err
	}

	// Applied in command line order; later manifests may use earlier types.
	for _, m := range manifests {
		s.diags.Merge(manifest.Apply(m, s.graph, s.registry))
	}

	builder := declarative.NewConfigurationBuilder(s.registry,
		declarative.WithLogger(a.logger),
		declarative.WithBuilder(mixinconfig.NewBuilder(
			mixinconfig.WithLogger(a.logger),
			mixinconfig.WithGraph(s.graph),
			mixinconfig.WithCacheSize(a.settings.CacheSize),
		)),
	)

	if err := builder.AddDiscovered(declarative.GraphDiscovery{Graph: s.graph},
		declarative.DefaultPackageFilter{Source: s.registry}); err != nil {
		s.buildErr = err
	}

	if s.buildErr == nil {
		s.config, s.buildErr = builder.BuildConfiguration(ctx)
	}

	a.logger.Info("resolution finished",
		"packages", len(a.settings.Patterns),
		"manifests", len(manifests),
		"errors", len(s.diags.Errors),
		"warnings", len(s.diags.Warnings),
		"build_failed", s.buildErr != nil,
		"duration", time.Since(start))

	return s, nil
}

// loadManifests reads all paths concurrently and returns them in order.
func loadManifests(ctx context.Context, paths []string) ([]*manifest.Manifest, error) {
	out := make([]*manifest.Manifest, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(manifestWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			m, err := manifest.LoadFile(path)
			if err != nil {
				return err
			}

			out[i] = m

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// configuration returns the default configuration. Front end errors fail
// the call even though the builder ran on the valid declarations.
func (a *app) configuration(ctx context.Context) (*session, *mixinconfig.Configuration, error) {
	cfg, err := mixinconfig.LoadDefault(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := a.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if derr := sess.diags.Error(); derr != nil {
		return nil, nil, fmt.Errorf("invalid declarations: %w", derr)
	}

	return sess, cfg, nil
}

// lookup resolves a type reference given on the command line.
func (s *session) lookup(ref string) (*analyze.TypeInfo, error) {
	t, err := s.graph.Resolve(ref, "")
	if err != nil {
		var d diagnostic.Diagnostics
		d.AddResolveError(err, ref, "", s.graph.Names())

		return nil, d.Error()
	}

	return t, nil
}
