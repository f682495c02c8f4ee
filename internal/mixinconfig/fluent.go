package mixinconfig

import (
	"context"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
)

// ClassBuilder configures one target type fluently. Problems are reported by
// BuildConfiguration.
type ClassBuilder struct {
	b      *Builder
	target *analyze.TypeInfo
}

// ForClass starts configuring target.
func (b *Builder) ForClass(target *analyze.TypeInfo) *ClassBuilder {
	return &ClassBuilder{b: b, target: target}
}

func (c *ClassBuilder) origin() declare.Origin {
	return declare.Origin{Kind: declare.OriginFluent, Declarer: c.target.String()}
}

// Target returns the configured type.
func (c *ClassBuilder) Target() *analyze.TypeInfo {
	return c.target
}

// AddMixin adds mixin to the target with default options. Adding the same
// mixin twice through the fluent API is an error.
func (c *ClassBuilder) AddMixin(mixin *analyze.TypeInfo) *MixinBuilder {
	m := &MixinBuilder{
		class: c,
		intent: declare.Intent{
			Target: c.target,
			Mixin:  mixin,
			Kind:   declare.Extending,
			Origin: c.origin(),
		},
	}
	c.b.pending = append(c.b.pending, m)

	return m
}

// AddMixins adds each mixin with default options.
func (c *ClassBuilder) AddMixins(mixins ...*analyze.TypeInfo) *ClassBuilder {
	for _, m := range mixins {
		c.AddMixin(m)
	}

	return c
}

// Clear drops everything configured for the target so far, including what
// a parent configuration declares for it.
func (c *ClassBuilder) Clear() *ClassBuilder {
	c.b.clearClass(c.target)
	return c
}

// SuppressMixin prevents the target from inheriting mixin.
func (c *ClassBuilder) SuppressMixin(mixin *analyze.TypeInfo) *ClassBuilder {
	if err := c.b.SuppressMixin(c.target, mixin, c.origin()); err != nil {
		c.b.errs = append(c.b.errs, err)
	}

	return c
}

// AddCompleteInterface declares iface as a complete interface of the target.
func (c *ClassBuilder) AddCompleteInterface(iface *analyze.TypeInfo) *ClassBuilder {
	if err := c.b.AddCompleteInterface(c.target, iface, c.origin()); err != nil {
		c.b.errs = append(c.b.errs, err)
	}

	return c
}

// ForClass continues with another target.
func (c *ClassBuilder) ForClass(target *analyze.TypeInfo) *ClassBuilder {
	return c.b.ForClass(target)
}

// BuildConfiguration builds the underlying Builder.
func (c *ClassBuilder) BuildConfiguration(ctx context.Context) (*Configuration, error) {
	return c.b.BuildConfiguration(ctx)
}

// EnterScope builds the underlying Builder and makes the result active.
func (c *ClassBuilder) EnterScope(ctx context.Context) (context.Context, *Scope, error) {
	return c.b.EnterScope(ctx)
}

// MixinBuilder refines a mixin added by ClassBuilder.AddMixin.
type MixinBuilder struct {
	class  *ClassBuilder
	intent declare.Intent
}

// OfKind sets the mixin kind. The default is Extending.
func (m *MixinBuilder) OfKind(kind declare.MixinKind) *MixinBuilder {
	m.intent.Kind = kind
	return m
}

// WithDependencies adds explicit ordering dependencies.
func (m *MixinBuilder) WithDependencies(deps ...*analyze.TypeInfo) *MixinBuilder {
	m.intent.Dependencies = append(m.intent.Dependencies, deps...)
	return m
}

// SuppressingMixins adds mixins this mixin suppresses.
func (m *MixinBuilder) SuppressingMixins(mixins ...*analyze.TypeInfo) *MixinBuilder {
	m.intent.Suppressed = append(m.intent.Suppressed, mixins...)
	return m
}

// WithVisibility sets the visibility of introduced members.
func (m *MixinBuilder) WithVisibility(v declare.Visibility) *MixinBuilder {
	m.intent.Visibility = v
	return m
}

// WithTypeArguments closes an open generic mixin.
func (m *MixinBuilder) WithTypeArguments(args ...*analyze.TypeInfo) *MixinBuilder {
	m.intent.TypeArgs = append(m.intent.TypeArgs, args...)
	return m
}

// AddMixin adds another mixin to the same target.
func (m *MixinBuilder) AddMixin(mixin *analyze.TypeInfo) *MixinBuilder {
	return m.class.AddMixin(mixin)
}

// ForClass continues with another target.
func (m *MixinBuilder) ForClass(target *analyze.TypeInfo) *ClassBuilder {
	return m.class.ForClass(target)
}

// BuildConfiguration builds the underlying Builder.
func (m *MixinBuilder) BuildConfiguration(ctx context.Context) (*Configuration, error) {
	return m.class.BuildConfiguration(ctx)
}

// EnterScope builds the underlying Builder and makes the result active.
func (m *MixinBuilder) EnterScope(ctx context.Context) (context.Context, *Scope, error) {
	return m.class.EnterScope(ctx)
}
