package mixinconfig

import (
	"strings"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/classctx"
)

// Configuration is a built, immutable mixin configuration. It is safe for
// concurrent use.
type Configuration struct {
	collection *classctx.Collection
	parent     *Configuration
}

// Empty returns a configuration without any class context.
func Empty() *Configuration {
	coll, err := classctx.NewCollection(nil, nil)
	if err != nil {
		panic(err)
	}

	return &Configuration{collection: coll}
}

// Parent returns the configuration this one was derived from, or nil.
func (c *Configuration) Parent() *Configuration {
	return c.parent
}

// Collection returns the underlying class context collection.
func (c *Configuration) Collection() *classctx.Collection {
	return c.collection
}

// Len returns the number of exact class contexts.
func (c *Configuration) Len() int {
	return c.collection.Len()
}

// Types returns the types with an exact class context, sorted.
func (c *Configuration) Types() []*analyze.TypeInfo {
	return c.collection.Types()
}

// ClassContexts returns the exact class contexts, sorted by type.
func (c *Configuration) ClassContexts() []*classctx.ClassContext {
	return c.collection.ClassContexts()
}

// GetExact returns the context declared directly for t, or nil.
func (c *Configuration) GetExact(t *analyze.TypeInfo) *classctx.ClassContext {
	return c.collection.GetExact(t)
}

// GetWithInheritance returns the inheritance-resolved context of t, or nil
// when t ends up with no mixins.
func (c *Configuration) GetWithInheritance(t *analyze.TypeInfo) *classctx.ClassContext {
	return c.collection.GetWithInheritance(t)
}

// ContainsWithInheritance reports whether GetWithInheritance(t) is non-nil.
func (c *Configuration) ContainsWithInheritance(t *analyze.TypeInfo) bool {
	return c.collection.ContainsWithInheritance(t)
}

// ResolveCompleteInterface returns the resolved context of the target that
// owns complete interface iface.
func (c *Configuration) ResolveCompleteInterface(iface *analyze.TypeInfo) (*classctx.ClassContext, bool) {
	return c.collection.ResolveCompleteInterface(iface)
}

// ContainsExact reports whether t has a directly declared context.
func (c *Configuration) ContainsExact(t *analyze.TypeInfo) bool {
	return c.collection.ContainsExact(t)
}

// CompleteInterfaceOwner returns the target owning complete interface
// iface, or nil.
func (c *Configuration) CompleteInterfaceOwner(iface *analyze.TypeInfo) *analyze.TypeInfo {
	return c.collection.CompleteInterfaceOwner(iface)
}

// String lists the exact contexts, one per line.
func (c *Configuration) String() string {
	var b strings.Builder

	for _, ctx := range c.ClassContexts() {
		b.WriteString(ctx.String())
		b.WriteByte('\n')
	}

	return b.String()
}
