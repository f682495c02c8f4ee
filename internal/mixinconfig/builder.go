package mixinconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/classctx"
	"mixin-resolver/internal/declare"
)

// Builder accumulates mixin intents per target type and materialises them
// into a Configuration. A Builder is owned by one goroutine.
type Builder struct {
	graph     *analyze.TypeGraph
	parent    *Configuration
	logger    *slog.Logger
	cacheSize int

	meterProvider metric.MeterProvider
	metrics       *buildMetrics

	classes map[*analyze.TypeInfo]*classEntry
	pending []*MixinBuilder
	errs    []error
	elided  int
}

type classEntry struct {
	target     *analyze.TypeInfo
	mixins     map[*analyze.TypeInfo]declare.Intent
	fluent     map[*analyze.TypeInfo]bool
	complete   map[*analyze.TypeInfo]declare.Origin
	suppressed map[*analyze.TypeInfo]declare.Origin
	cleared    bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithGraph sets the type graph used to close generic mixins. By default the
// graph of the first registered type seen is used.
func WithGraph(g *analyze.TypeGraph) Option {
	return func(b *Builder) {
		b.graph = g
	}
}

// WithParent seeds the builder with the exact contexts of parent. Targets
// configured in the builder extend the parent's entries unless cleared.
func WithParent(parent *Configuration) Option {
	return func(b *Builder) {
		b.parent = parent
	}
}

// WithCacheSize bounds the inheritance lookup cache of built configurations.
func WithCacheSize(n int) Option {
	return func(b *Builder) {
		b.cacheSize = n
	}
}

// WithMeterProvider sets the provider of the build metrics. Defaults to the
// global provider at the time of the first build.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(b *Builder) {
		b.meterProvider = mp
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger:    slog.Default(),
		cacheSize: classctx.DefaultCacheSize,
		classes:   make(map[*analyze.TypeInfo]*classEntry),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Parent returns the configuration the builder extends, or nil.
func (b *Builder) Parent() *Configuration {
	return b.parent
}

func (b *Builder) buildMetrics() *buildMetrics {
	if b.metrics != nil {
		return b.metrics
	}

	mp := b.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	m, err := newBuildMetrics(mp)
	if err != nil {
		b.logger.Warn("mixin build metrics disabled", "error", err)
		return nil
	}

	b.metrics = m

	return m
}

func (b *Builder) entry(t *analyze.TypeInfo) *classEntry {
	e, ok := b.classes[t]
	if !ok {
		e = &classEntry{
			target:     t,
			mixins:     make(map[*analyze.TypeInfo]declare.Intent),
			fluent:     make(map[*analyze.TypeInfo]bool),
			complete:   make(map[*analyze.TypeInfo]declare.Origin),
			suppressed: make(map[*analyze.TypeInfo]declare.Origin),
		}
		b.classes[t] = e
	}

	return e
}

func (b *Builder) observe(ts ...*analyze.TypeInfo) {
	if b.graph != nil {
		return
	}

	for _, t := range ts {
		if t == nil {
			continue
		}

		if g := t.Graph(); g != nil {
			b.graph = g
			return
		}
	}
}

// AddMixinToClass records one intent.
//
// Explicit type arguments close an open generic mixin; the argument count
// and the mixin's constraints are checked. A second intent for the same
// target and closed mixin is ignored when equal (Origin aside) and rejected
// otherwise. Of equal intents the smallest origin is kept.
func (b *Builder) AddMixinToClass(in declare.Intent) error {
	if in.Target == nil || in.Mixin == nil {
		return newConfigError(ErrInvalidIntent, in, "target and mixin are required", nil)
	}

	if in.Target.Kind != analyze.TypeKindStruct {
		return newConfigError(ErrInvalidIntent, in, fmt.Sprintf("target kind %s cannot receive mixins", in.Target.Kind), nil)
	}

	if in.Mixin.Kind != analyze.TypeKindStruct {
		return newConfigError(ErrInvalidIntent, in, fmt.Sprintf("mixin kind %s is not a struct", in.Mixin.Kind), nil)
	}

	b.observe(in.Target, in.Mixin)

	closed, err := b.closeMixin(in)
	if err != nil {
		return err
	}

	in.Mixin = closed
	in.TypeArgs = nil
	in.Dependencies = declare.NormalizeTypes(in.Dependencies)
	in.Suppressed = declare.NormalizeTypes(in.Suppressed)

	for _, s := range in.Suppressed {
		if classctx.Suppresses(s, in.Mixin) {
			return newConfigError(ErrSelfSuppression, in, "suppressed mixins include "+s.String(), nil)
		}
	}

	e := b.entry(in.Target)

	existing, ok := e.mixins[in.Mixin]
	if !ok {
		e.mixins[in.Mixin] = in
		return nil
	}

	if !existing.Equal(in) {
		return newConfigError(ErrDuplicateMixin, in,
			fmt.Sprintf("declared by %s and %s", existing.Origin, in.Origin), nil)
	}

	if in.Origin.Less(existing.Origin) {
		existing.Origin = in.Origin
		e.mixins[in.Mixin] = existing
	}

	b.elided++
	b.logger.Debug("equal mixin redeclaration ignored",
		"target", in.Target.String(),
		"mixin", in.Mixin.String(),
		"origin", in.Origin.String(),
	)

	return nil
}

func (b *Builder) closeMixin(in declare.Intent) (*analyze.TypeInfo, error) {
	if len(in.TypeArgs) == 0 {
		return in.Mixin, nil
	}

	g := b.graph
	if g == nil {
		g = in.Mixin.Graph()
	}

	if g == nil {
		return nil, newConfigError(ErrInvalidIntent, in, "generic mixin is not registered in a type graph", nil)
	}

	closed, err := g.Instantiate(in.Mixin, in.TypeArgs...)
	if err != nil {
		return nil, genericError(in, err)
	}

	return closed, nil
}

// AddCompleteInterface records that iface is implemented by target together
// with its mixins.
func (b *Builder) AddCompleteInterface(target, iface *analyze.TypeInfo, origin declare.Origin) error {
	in := declare.Intent{Target: target, Origin: origin}

	switch {
	case iface == nil || iface.Kind != analyze.TypeKindInterface:
		return newConfigError(ErrCompleteInterfaceOwner, in, fmt.Sprintf("%s is not an interface", iface), nil)
	case target == nil:
		return newConfigError(ErrCompleteInterfaceOwner, in, fmt.Sprintf("complete interface %s has no owner", iface), nil)
	case target.Kind != analyze.TypeKindStruct:
		return newConfigError(ErrCompleteInterfaceOwner, in,
			fmt.Sprintf("complete interface %s names %s owner %s", iface, target.Kind, target), nil)
	}

	b.observe(target, iface)

	e := b.entry(target)
	if existing, ok := e.complete[iface]; !ok || origin.Less(existing) {
		e.complete[iface] = origin
	}

	return nil
}

// SuppressMixin records that target must not inherit mixin, or any mixin
// assignable to it.
func (b *Builder) SuppressMixin(target, mixin *analyze.TypeInfo, origin declare.Origin) error {
	in := declare.Intent{Target: target, Mixin: mixin, Origin: origin}
	if target == nil || mixin == nil {
		return newConfigError(ErrInvalidIntent, in, "target and suppressed mixin are required", nil)
	}

	b.observe(target, mixin)

	e := b.entry(target)
	if existing, ok := e.suppressed[mixin]; !ok || origin.Less(existing) {
		e.suppressed[mixin] = origin
	}

	return nil
}

// clearClass drops everything recorded for target, including pending fluent
// mixins, errors of earlier fluent calls and entries inherited from the
// parent configuration.
func (b *Builder) clearClass(target *analyze.TypeInfo) {
	e := b.entry(target)
	clear(e.mixins)
	clear(e.fluent)
	clear(e.complete)
	clear(e.suppressed)
	e.cleared = true

	kept := b.pending[:0]
	for _, m := range b.pending {
		if m.intent.Target != target {
			kept = append(kept, m)
		}
	}

	b.pending = kept

	errs := b.errs[:0]
	for _, err := range b.errs {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) && cerr.Target == target {
			continue
		}

		errs = append(errs, err)
	}

	b.errs = errs
}

// flushPending commits fluent mixins. Their errors are kept for the build.
func (b *Builder) flushPending() {
	for _, m := range b.pending {
		in := m.intent

		if in.Target != nil && in.Mixin != nil {
			if closed, err := b.closeMixin(in); err == nil {
				if e, ok := b.classes[in.Target]; ok && e.fluent[closed] {
					b.errs = append(b.errs, newConfigError(ErrMixinAlreadyConfigured, in, "", nil))
					continue
				}
			}
		}

		if err := b.AddMixinToClass(in); err != nil {
			b.errs = append(b.errs, err)
			continue
		}

		closed, _ := b.closeMixin(in)
		b.classes[in.Target].fluent[closed] = true
	}

	b.pending = nil
}

// BuildConfiguration materialises the recorded intents. Every problem found
// is returned, joined; no configuration is produced on error.
func (b *Builder) BuildConfiguration(ctx context.Context) (*Configuration, error) {
	start := time.Now()
	metrics := b.buildMetrics()

	b.flushPending()

	if b.graph == nil && b.parent != nil {
		b.graph = b.parent.collection.Graph()
	}

	ctx, span := startBuildSpan(ctx, len(b.classes), b.parent != nil)
	defer span.End()

	errs := append([]error(nil), b.errs...)

	contexts, err := b.materialize()
	errs = append(errs, err...)

	var coll *classctx.Collection

	if len(errs) == 0 {
		var cerr error

		coll, cerr = classctx.NewCollection(b.graph, contexts, classctx.WithCacheSize(b.cacheSize))
		if cerr != nil {
			errs = append(errs, cerr)
		}
	}

	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })

		joined := errors.Join(errs...)

		span.RecordError(joined)
		span.SetStatus(codes.Error, "configuration build failed")
		setBuildSpanResult(span, 0, len(errs))
		metrics.recordBuild(ctx, time.Since(start), 0, false)

		b.logger.Debug("mixin configuration build failed", "errors", len(errs))

		return nil, joined
	}

	setBuildSpanResult(span, coll.Len(), 0)
	metrics.recordBuild(ctx, time.Since(start), coll.Len(), true)
	metrics.recordDuplicatesElided(ctx, b.elided)

	b.logger.Debug("mixin configuration built",
		"class_contexts", coll.Len(),
		"duplicates_elided", b.elided,
		"duration", time.Since(start),
	)

	return &Configuration{collection: coll, parent: b.parent}, nil
}

// materialize creates one ClassContext per target, in type order, merging
// the parent's exact contexts for targets that were not cleared.
func (b *Builder) materialize() ([]*classctx.ClassContext, []error) {
	targets := make(map[*analyze.TypeInfo]bool, len(b.classes))
	for t := range b.classes {
		targets[t] = true
	}

	if b.parent != nil {
		for _, t := range b.parent.Types() {
			targets[t] = true
		}
	}

	sorted := make([]*analyze.TypeInfo, 0, len(targets))
	for t := range targets {
		sorted = append(sorted, t)
	}

	analyze.SortTypes(sorted)

	var (
		contexts []*classctx.ClassContext
		errs     []error
		owners   = make(map[*analyze.TypeInfo][]*analyze.TypeInfo)
	)

	for _, t := range sorted {
		e := b.classes[t]

		mixins := make(map[*analyze.TypeInfo]*classctx.MixinContext)

		var complete, suppressed []*analyze.TypeInfo

		if b.parent != nil && (e == nil || !e.cleared) {
			if inherited := b.parent.GetExact(t); inherited != nil {
				for _, m := range inherited.Mixins() {
					mixins[m.MixinType()] = m
				}

				complete = inherited.CompleteInterfaces()
				suppressed = inherited.SuppressedMixins()
			}
		}

		if e != nil {
			for mt, in := range e.mixins {
				mixins[mt] = classctx.NewMixinContext(in.Mixin, in.Kind, in.Visibility, in.Dependencies, in.Suppressed, in.Origin)
			}

			for iface := range e.complete {
				complete = append(complete, iface)
			}

			for s := range e.suppressed {
				suppressed = append(suppressed, s)
			}
		}

		list := make([]*classctx.MixinContext, 0, len(mixins))
		for _, m := range mixins {
			list = append(list, m)
		}

		ctx, err := classctx.New(t, list, complete, suppressed)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, iface := range ctx.CompleteInterfaces() {
			owners[iface] = append(owners[iface], t)
		}

		contexts = append(contexts, ctx)
	}

	ifaces := make([]*analyze.TypeInfo, 0, len(owners))
	for iface := range owners {
		ifaces = append(ifaces, iface)
	}

	analyze.SortTypes(ifaces)

	for _, iface := range ifaces {
		if len(owners[iface]) < 2 {
			continue
		}

		errs = append(errs, &ConfigurationError{
			Target: owners[iface][0],
			Err:    ErrCompleteInterfaceAmbiguous,
			Detail: fmt.Sprintf("%s is claimed by %s", iface, analyze.NewTypeStringer().TypeList(owners[iface])),
		})
	}

	return contexts, errs
}
