package declarative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/mixinconfig"
)

// ConfigurationBuilder runs the analyzers over registered types and packages
// and builds the resulting configuration. Registering a type or package a
// second time has no effect.
type ConfigurationBuilder struct {
	builder       *mixinconfig.Builder
	logger        *slog.Logger
	typeAnalyzers []TypeAnalyzer
	pkgAnalyzers  []PackageAnalyzer

	types    map[*analyze.TypeInfo]bool
	packages map[string]bool
	errs     []error
}

// Option configures a ConfigurationBuilder.
type Option func(*ConfigurationBuilder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *ConfigurationBuilder) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBuilder makes the analyzers feed b, e.g. one returned by
// mixinconfig.BuildFromActive.
func WithBuilder(b *mixinconfig.Builder) Option {
	return func(c *ConfigurationBuilder) {
		c.builder = b
	}
}

// WithTypeAnalyzers replaces the default type analyzers.
func WithTypeAnalyzers(as ...TypeAnalyzer) Option {
	return func(c *ConfigurationBuilder) {
		c.typeAnalyzers = as
	}
}

// WithPackageAnalyzers replaces the default package analyzers.
func WithPackageAnalyzers(as ...PackageAnalyzer) Option {
	return func(c *ConfigurationBuilder) {
		c.pkgAnalyzers = as
	}
}

// NewConfigurationBuilder creates a ConfigurationBuilder reading records
// from src with the default analyzers.
func NewConfigurationBuilder(src declare.Source, opts ...Option) *ConfigurationBuilder {
	c := &ConfigurationBuilder{
		logger:        slog.Default(),
		typeAnalyzers: DefaultTypeAnalyzers(src),
		pkgAnalyzers:  DefaultPackageAnalyzers(src),
		types:         make(map[*analyze.TypeInfo]bool),
		packages:      make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.builder == nil {
		c.builder = mixinconfig.NewBuilder(mixinconfig.WithLogger(c.logger))
	}

	return c
}

// Builder returns the underlying builder, e.g. to add fluent declarations.
func (c *ConfigurationBuilder) Builder() *mixinconfig.Builder {
	return c.builder
}

// AddType runs the type analyzers on t once.
func (c *ConfigurationBuilder) AddType(t *analyze.TypeInfo) error {
	if t == nil || c.types[t] {
		return nil
	}

	c.types[t] = true

	var errs []error

	for _, a := range c.typeAnalyzers {
		if err := a.AnalyzeType(t, c.builder); err != nil {
			c.logger.Debug("analyzer failed", "analyzer", a.Name(), "type", t.String(), "error", err)
			errs = append(errs, err)
		}
	}

	c.errs = append(c.errs, errs...)

	return errors.Join(errs...)
}

// AddTypes runs AddType on each type.
func (c *ConfigurationBuilder) AddTypes(ts ...*analyze.TypeInfo) error {
	var errs []error

	for _, t := range ts {
		if err := c.AddType(t); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// AddPackage runs the package analyzers on pkgPath once.
func (c *ConfigurationBuilder) AddPackage(pkgPath string) error {
	if c.packages[pkgPath] {
		return nil
	}

	c.packages[pkgPath] = true

	var errs []error

	for _, a := range c.pkgAnalyzers {
		if err := a.AnalyzePackage(pkgPath, c.builder); err != nil {
			c.logger.Debug("analyzer failed", "analyzer", a.Name(), "package", pkgPath, "error", err)
			errs = append(errs, err)
		}
	}

	c.errs = append(c.errs, errs...)

	return errors.Join(errs...)
}

// AddDiscovered registers every package d reports that passes filter, and
// the types of those packages. A nil filter accepts every package.
func (c *ConfigurationBuilder) AddDiscovered(d TypeDiscovery, filter PackageFilter) error {
	var errs []error

	for _, pkg := range d.Packages() {
		if filter != nil && (!filter.ShouldConsiderPackage(pkg) || !filter.ShouldIncludePackage(pkg)) {
			c.logger.Debug("package skipped", "package", pkg.Path)
			continue
		}

		if err := c.AddPackage(pkg.Path); err != nil {
			errs = append(errs, err)
		}

		if err := c.AddTypes(d.Types(pkg)...); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// BuildConfiguration builds the configuration. Analyzer failures and build
// failures are reported together; no configuration is returned on error.
func (c *ConfigurationBuilder) BuildConfiguration(ctx context.Context) (*mixinconfig.Configuration, error) {
	c.logger.Debug("building mixin configuration",
		"types", len(c.types),
		"packages", len(c.packages),
	)

	cfg, err := c.builder.BuildConfiguration(ctx)
	if len(c.errs) == 0 {
		return cfg, err
	}

	all := flatten(c.errs)
	if err != nil {
		all = append(all, flatten([]error{err})...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Error() < all[j].Error() })

	return nil, fmt.Errorf("%d configuration error(s): %w", len(all), errors.Join(all...))
}

func flatten(errs []error) []error {
	var out []error

	for _, err := range errs {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			if _, single := err.(*mixinconfig.ConfigurationError); !single {
				out = append(out, flatten(joined.Unwrap())...)
				continue
			}
		}

		out = append(out, err)
	}

	return out
}
