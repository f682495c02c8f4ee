package classctx

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"mixin-resolver/internal/analyze"
)

// DefaultCacheSize bounds the number of memoised inheritance lookups.
const DefaultCacheSize = 1024

// Collection maps target types to their exact ClassContext and resolves
// inheritance on demand. It is never mutated after construction and is safe
// for concurrent use.
type Collection struct {
	graph    *analyze.TypeGraph
	exact    map[*analyze.TypeInfo]*ClassContext
	types    []*analyze.TypeInfo
	complete map[*analyze.TypeInfo]*analyze.TypeInfo
	cache    *lru.Cache[*analyze.TypeInfo, *ClassContext]
}

// Option configures a Collection.
type Option func(*collectionOptions)

type collectionOptions struct {
	cacheSize int
}

// WithCacheSize sets the size of the inheritance lookup cache.
func WithCacheSize(n int) Option {
	return func(o *collectionOptions) {
		o.cacheSize = n
	}
}

// NewCollection indexes contexts. graph is used to substitute generic
// arguments into contexts inherited from open generic definitions; it may
// be nil when no generics are involved. A type may have at most one context
// and a complete interface at most one owner.
func NewCollection(graph *analyze.TypeGraph, contexts []*ClassContext, opts ...Option) (*Collection, error) {
	o := collectionOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	if o.cacheSize <= 0 {
		o.cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[*analyze.TypeInfo, *ClassContext](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create inheritance cache: %w", err)
	}

	c := &Collection{
		graph:    graph,
		exact:    make(map[*analyze.TypeInfo]*ClassContext, len(contexts)),
		complete: make(map[*analyze.TypeInfo]*analyze.TypeInfo),
		cache:    cache,
	}

	for _, ctx := range contexts {
		if _, ok := c.exact[ctx.typ]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClassContext, ctx.typ)
		}

		c.exact[ctx.typ] = ctx
		c.types = append(c.types, ctx.typ)

		for _, iface := range ctx.complete {
			if owner, ok := c.complete[iface]; ok {
				return nil, fmt.Errorf("%w: %s is claimed by %s and %s",
					ErrCompleteInterfaceClaimed, iface, owner, ctx.typ)
			}

			c.complete[iface] = ctx.typ
		}
	}

	analyze.SortTypes(c.types)

	return c, nil
}

// Graph returns the type graph used for generic substitution, or nil.
func (c *Collection) Graph() *analyze.TypeGraph { return c.graph }

// Len returns the number of exact contexts.
func (c *Collection) Len() int { return len(c.types) }

// Types returns the types with an exact context, sorted.
func (c *Collection) Types() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), c.types...)
}

// ClassContexts returns the exact contexts, sorted by type.
func (c *Collection) ClassContexts() []*ClassContext {
	out := make([]*ClassContext, len(c.types))
	for i, t := range c.types {
		out[i] = c.exact[t]
	}

	return out
}

// GetExact returns the context declared directly for t, or nil.
func (c *Collection) GetExact(t *analyze.TypeInfo) *ClassContext {
	return c.exact[t]
}

// ContainsExact reports whether t has a directly declared context.
func (c *Collection) ContainsExact(t *analyze.TypeInfo) bool {
	_, ok := c.exact[t]
	return ok
}

// GetWithInheritance returns the context of t merged with everything t
// inherits, or nil when the result would be empty.
func (c *Collection) GetWithInheritance(t *analyze.TypeInfo) *ClassContext {
	if t == nil {
		return nil
	}

	if ctx, ok := c.cache.Get(t); ok {
		return ctx
	}

	ctx := c.resolve(t)

	// Concurrent callers agree on the first stored result.
	if prev, ok, _ := c.cache.PeekOrAdd(t, ctx); ok {
		return prev
	}

	return ctx
}

// ContainsWithInheritance reports whether GetWithInheritance(t) is non-empty.
func (c *Collection) ContainsWithInheritance(t *analyze.TypeInfo) bool {
	return c.GetWithInheritance(t) != nil
}

// CompleteInterfaceOwner returns the target type owning iface, or nil.
func (c *Collection) CompleteInterfaceOwner(iface *analyze.TypeInfo) *analyze.TypeInfo {
	return c.complete[iface]
}

// ResolveCompleteInterface returns the inheritance-resolved context of the
// target owning iface.
func (c *Collection) ResolveCompleteInterface(iface *analyze.TypeInfo) (*ClassContext, bool) {
	owner, ok := c.complete[iface]
	if !ok {
		return nil, false
	}

	ctx := c.GetWithInheritance(owner)

	return ctx, ctx != nil
}

func (c *Collection) resolve(t *analyze.TypeInfo) *ClassContext {
	acc := make(map[*analyze.TypeInfo]*MixinContext)

	if base := t.BaseType(); base != nil {
		if inherited := c.GetWithInheritance(base); inherited != nil {
			for _, m := range inherited.Mixins() {
				acc[m.mixinType] = m
			}
		}
	}

	if t.IsInstantiation() {
		if def := c.exact[t.GenericDef]; def != nil {
			c.applyLevel(acc, def, analyze.SubstitutionFor(t.GenericDef, t.TypeArgs))
		}
	}

	exact := c.exact[t]
	if exact != nil {
		c.applyLevel(acc, exact, nil)
	}

	if len(acc) == 0 && (exact == nil || len(exact.complete) == 0) {
		return nil
	}

	mixins := make([]*MixinContext, 0, len(acc))
	for _, m := range acc {
		mixins = append(mixins, m)
	}

	var complete, suppressed []*analyze.TypeInfo
	if exact != nil {
		complete, suppressed = exact.complete, exact.suppressed
	}

	// acc is keyed by mixin type, so New cannot fail
	return Must(New(t, mixins, complete, suppressed))
}

// applyLevel folds one level of the hierarchy into acc.
func (c *Collection) applyLevel(acc map[*analyze.TypeInfo]*MixinContext, level *ClassContext, subst analyze.Substitution) {
	fresh := level.Mixins()
	rules := make([]*analyze.TypeInfo, 0, len(level.suppressed))

	for _, s := range level.suppressed {
		rules = append(rules, c.substitute(s, subst))
	}

	for i, m := range fresh {
		fresh[i] = m.Substitute(c.graph, subst)
		rules = append(rules, fresh[i].suppressed...)
	}

	for mt := range acc {
		for _, rule := range rules {
			if Suppresses(rule, mt) {
				delete(acc, mt)
				break
			}
		}
	}

	for mt := range acc {
		for _, f := range fresh {
			if Overrides(f.mixinType, mt) {
				delete(acc, mt)
				break
			}
		}
	}

	for _, f := range fresh {
		acc[f.mixinType] = f
	}
}

func (c *Collection) substitute(t *analyze.TypeInfo, subst analyze.Substitution) *analyze.TypeInfo {
	if c.graph == nil {
		return t
	}

	return c.graph.Substitute(t, subst)
}

// Suppresses reports whether suppression rule removes mixin type mt: mt is
// the rule type or assignable to it, or the rule is the open generic
// definition mt was closed from.
func Suppresses(rule, mt *analyze.TypeInfo) bool {
	if rule == mt || mt.IsAssignableTo(rule) {
		return true
	}

	return rule.IsGenericDefinition() && mt.Definition() == rule
}

// Overrides reports whether a mixin declared at a derived level replaces an
// inherited one: the types are related by assignability in either direction
// or share their generic definition.
func Overrides(fresh, inherited *analyze.TypeInfo) bool {
	return fresh.IsAssignableTo(inherited) ||
		inherited.IsAssignableTo(fresh) ||
		analyze.SameGenericDefinition(fresh, inherited)
}
