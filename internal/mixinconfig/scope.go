package mixinconfig

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type scopeKey struct{}

// frame is one entered scope. Frames form a chain through the contexts that
// carry them.
type frame struct {
	cfg    *Configuration
	parent *frame
	open   atomic.Int32 // scopes entered from this one and not yet closed
	closed atomic.Bool
}

// Scope is the handle returned by EnterScope.
type Scope struct {
	f *frame
}

// EnterScope makes cfg the active configuration for calls receiving the
// returned context. The scope must be closed, after every scope entered from
// it, by calling Close.
func EnterScope(ctx context.Context, cfg *Configuration) (context.Context, *Scope) {
	parent := activeFrame(ctx)

	f := &frame{cfg: cfg, parent: parent}
	if parent != nil {
		parent.open.Add(1)
	}

	return context.WithValue(ctx, scopeKey{}, f), &Scope{f: f}
}

// EnterScope makes c the active configuration.
func (c *Configuration) EnterScope(ctx context.Context) (context.Context, *Scope) {
	return EnterScope(ctx, c)
}

// EnterScope builds the configuration and makes it active.
func (b *Builder) EnterScope(ctx context.Context) (context.Context, *Scope, error) {
	cfg, err := b.BuildConfiguration(ctx)
	if err != nil {
		return ctx, nil, err
	}

	ctx, s := EnterScope(ctx, cfg)

	return ctx, s, nil
}

// Configuration returns the configuration the scope activated.
func (s *Scope) Configuration() *Configuration {
	return s.f.cfg
}

// Close leaves the scope; the previously active configuration becomes active
// again for contexts derived from the scope's context. Closing a scope twice
// or while a scope entered from it is still open panics.
func (s *Scope) Close() {
	if s.f.open.Load() > 0 {
		panic("mixinconfig: scope closed while a nested scope is still open")
	}

	if !s.f.closed.CompareAndSwap(false, true) {
		panic("mixinconfig: scope closed twice")
	}

	if s.f.parent != nil {
		s.f.parent.open.Add(-1)
	}
}

// activeFrame returns the innermost open frame carried by ctx.
func activeFrame(ctx context.Context) *frame {
	f, _ := ctx.Value(scopeKey{}).(*frame)
	for f != nil && f.closed.Load() {
		f = f.parent
	}

	return f
}

// Active returns the configuration active for ctx, or Default when no scope
// is open.
func Active(ctx context.Context) *Configuration {
	if f := activeFrame(ctx); f != nil {
		return f.cfg
	}

	return Default()
}

// HasActive reports whether a scope is open for ctx.
func HasActive(ctx context.Context) bool {
	return activeFrame(ctx) != nil
}

// BuildNew returns a Builder for a configuration unrelated to the active one.
func BuildNew(opts ...Option) *Builder {
	return NewBuilder(opts...)
}

// BuildFromActive returns a Builder for a child of the configuration active
// for ctx. Targets keep the parent's declarations unless cleared.
func BuildFromActive(ctx context.Context, opts ...Option) *Builder {
	return NewBuilder(append([]Option{WithParent(Active(ctx))}, opts...)...)
}

// DefaultSource builds the process-wide default configuration.
type DefaultSource func(ctx context.Context) (*Configuration, error)

var (
	defaultMu     sync.Mutex
	defaultSource DefaultSource
	defaultOnce   *sync.Once
	defaultCfg    *Configuration
	defaultErr    error
)

func init() {
	defaultOnce = new(sync.Once)
}

// SetDefaultSource registers the builder of the default configuration and
// discards a default built earlier.
func SetDefaultSource(src DefaultSource) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultSource = src
	defaultOnce = new(sync.Once)
	defaultCfg, defaultErr = nil, nil
}

// LoadDefault builds the default configuration on first use and returns it.
// Without a registered source the default is empty.
func LoadDefault(ctx context.Context) (*Configuration, error) {
	for {
		defaultMu.Lock()
		once, src := defaultOnce, defaultSource
		defaultMu.Unlock()

		once.Do(func() {
			cfg, err := Empty(), error(nil)
			if src != nil {
				cfg, err = src(ctx)
			}

			defaultMu.Lock()
			defer defaultMu.Unlock()

			if once == defaultOnce {
				defaultCfg, defaultErr = cfg, err
			}
		})

		defaultMu.Lock()
		cfg, err, current := defaultCfg, defaultErr, once == defaultOnce
		defaultMu.Unlock()

		// Retry when the source was replaced while building.
		if current {
			return cfg, err
		}
	}
}

// Default returns the process-wide default configuration. If it cannot be
// built the error is logged and an empty configuration is returned.
func Default() *Configuration {
	cfg, err := LoadDefault(context.Background())
	if err != nil || cfg == nil {
		slog.Default().Error("default mixin configuration unavailable", "error", err)
		return Empty()
	}

	return cfg
}
