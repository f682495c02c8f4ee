package classctx

import (
	"fmt"
	"strings"

	"mixin-resolver/internal/analyze"
)

// ClassContext is the resolved, immutable record of one target type: its
// mixins keyed by mixin type, the complete interfaces it owns, and the
// class-level suppression rules declared for it.
type ClassContext struct {
	typ        *analyze.TypeInfo
	mixins     map[*analyze.TypeInfo]*MixinContext
	order      []*analyze.TypeInfo
	complete   []*analyze.TypeInfo
	suppressed []*analyze.TypeInfo
}

// New creates a ClassContext for t. Mixin types must be unique.
func New(
	t *analyze.TypeInfo,
	mixins []*MixinContext,
	completeInterfaces []*analyze.TypeInfo,
	suppressed []*analyze.TypeInfo,
) (*ClassContext, error) {
	c := &ClassContext{
		typ:    t,
		mixins: make(map[*analyze.TypeInfo]*MixinContext, len(mixins)),
		order:  make([]*analyze.TypeInfo, 0, len(mixins)),
	}

	for _, m := range mixins {
		if _, ok := c.mixins[m.mixinType]; ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateMixinType, m.mixinType, t)
		}

		c.mixins[m.mixinType] = m
		c.order = append(c.order, m.mixinType)
	}

	analyze.SortTypes(c.order)

	c.complete = normalize(completeInterfaces)
	c.suppressed = normalize(suppressed)

	return c, nil
}

// Must is New that panics on error. Intended for fixtures.
func Must(c *ClassContext, err error) *ClassContext {
	if err != nil {
		panic(err)
	}

	return c
}

// Type returns the target type.
func (c *ClassContext) Type() *analyze.TypeInfo { return c.typ }

// Len returns the number of mixins.
func (c *ClassContext) Len() int { return len(c.order) }

// IsEmpty reports whether the context has neither mixins nor complete interfaces.
func (c *ClassContext) IsEmpty() bool {
	return len(c.order) == 0 && len(c.complete) == 0
}

// Mixins returns the mixins ordered by mixin type name.
func (c *ClassContext) Mixins() []*MixinContext {
	out := make([]*MixinContext, len(c.order))
	for i, t := range c.order {
		out[i] = c.mixins[t]
	}

	return out
}

// MixinTypes returns the mixin types ordered by name.
func (c *ClassContext) MixinTypes() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), c.order...)
}

// Mixin returns the mixin context for mixin type t.
func (c *ClassContext) Mixin(t *analyze.TypeInfo) (*MixinContext, bool) {
	m, ok := c.mixins[t]
	return m, ok
}

// ContainsMixin reports whether mixin type t is applied.
func (c *ClassContext) ContainsMixin(t *analyze.TypeInfo) bool {
	_, ok := c.mixins[t]
	return ok
}

// ContainsAssignableMixin reports whether some applied mixin type is
// assignable to t.
func (c *ClassContext) ContainsAssignableMixin(t *analyze.TypeInfo) bool {
	for _, m := range c.order {
		if m.IsAssignableTo(t) {
			return true
		}
	}

	return false
}

// CompleteInterfaces returns the complete interfaces owned by the target.
func (c *ClassContext) CompleteInterfaces() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), c.complete...)
}

// HasCompleteInterface reports whether iface is a complete interface of the target.
func (c *ClassContext) HasCompleteInterface(iface *analyze.TypeInfo) bool {
	for _, i := range c.complete {
		if i == iface {
			return true
		}
	}

	return false
}

// SuppressedMixins returns the class-level suppression rules.
func (c *ClassContext) SuppressedMixins() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), c.suppressed...)
}

// Equal compares target, mixins, complete interfaces and suppressions.
// Origins are ignored.
func (c *ClassContext) Equal(o *ClassContext) bool {
	if c == nil || o == nil {
		return c == o
	}

	if c.typ != o.typ || len(c.order) != len(o.order) ||
		!sameList(c.complete, o.complete) || !sameList(c.suppressed, o.suppressed) {
		return false
	}

	for t, m := range c.mixins {
		if !m.Equal(o.mixins[t]) {
			return false
		}
	}

	return true
}

// OrderedMixins returns the mixins ordered so that every mixin follows the
// mixins its explicit dependencies point at. A dependency is satisfied by
// any applied mixin assignable to it; unsatisfied dependencies are ignored.
// Independent mixins keep name order.
func (c *ClassContext) OrderedMixins() ([]*MixinContext, error) {
	mixins := c.Mixins()

	order, err := topoSort(len(mixins), func(i int) []int {
		var deps []int

		for _, d := range mixins[i].deps {
			for j, m := range mixins {
				if j != i && m.mixinType.IsAssignableTo(d) {
					deps = append(deps, j)
				}
			}
		}

		return deps
	})
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, c.typ)
	}

	out := make([]*MixinContext, len(order))
	for i, idx := range order {
		out[i] = mixins[idx]
	}

	return out, nil
}

// String renders the context on multiple lines.
func (c *ClassContext) String() string {
	var b strings.Builder

	b.WriteString(c.typ.String())

	for _, m := range c.Mixins() {
		b.WriteString("\n  mixin " + m.String())
	}

	for _, i := range c.complete {
		b.WriteString("\n  complete " + i.String())
	}

	for _, s := range c.suppressed {
		b.WriteString("\n  suppress " + s.String())
	}

	return b.String()
}

func normalize(ts []*analyze.TypeInfo) []*analyze.TypeInfo {
	seen := make(map[*analyze.TypeInfo]bool, len(ts))

	var out []*analyze.TypeInfo

	for _, t := range ts {
		if t != nil && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	analyze.SortTypes(out)

	return out
}

func sameList(a, b []*analyze.TypeInfo) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
