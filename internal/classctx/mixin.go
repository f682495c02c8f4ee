package classctx

import (
	"fmt"
	"strings"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
)

// MixinContext is one mixin applied to a target. It is immutable; accessors
// returning slices return copies.
type MixinContext struct {
	mixinType  *analyze.TypeInfo
	kind       declare.MixinKind
	visibility declare.Visibility
	deps       []*analyze.TypeInfo
	suppressed []*analyze.TypeInfo
	origin     declare.Origin
}

// NewMixinContext creates a MixinContext. Dependency and suppression sets
// are deduplicated and sorted.
func NewMixinContext(
	mixinType *analyze.TypeInfo,
	kind declare.MixinKind,
	visibility declare.Visibility,
	deps, suppressed []*analyze.TypeInfo,
	origin declare.Origin,
) *MixinContext {
	return &MixinContext{
		mixinType:  mixinType,
		kind:       kind,
		visibility: visibility,
		deps:       declare.NormalizeTypes(deps),
		suppressed: declare.NormalizeTypes(suppressed),
		origin:     origin,
	}
}

// MixinType returns the applied mixin type.
func (m *MixinContext) MixinType() *analyze.TypeInfo { return m.mixinType }

// Kind returns how the mixin was attached.
func (m *MixinContext) Kind() declare.MixinKind { return m.kind }

// Visibility returns the visibility of introduced members.
func (m *MixinContext) Visibility() declare.Visibility { return m.visibility }

// Origin returns where the mixin was declared.
func (m *MixinContext) Origin() declare.Origin { return m.origin }

// ExplicitDependencies returns the types this mixin must be ordered after.
func (m *MixinContext) ExplicitDependencies() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), m.deps...)
}

// SuppressedMixins returns the mixin types this mixin suppresses.
func (m *MixinContext) SuppressedMixins() []*analyze.TypeInfo {
	return append([]*analyze.TypeInfo(nil), m.suppressed...)
}

// Equal compares every field except the origin.
func (m *MixinContext) Equal(o *MixinContext) bool {
	if m == nil || o == nil {
		return m == o
	}

	return m.mixinType == o.mixinType &&
		m.kind == o.kind &&
		m.visibility == o.visibility &&
		declare.SameTypeSet(m.deps, o.deps) &&
		declare.SameTypeSet(m.suppressed, o.suppressed)
}

// Substitute returns m with generic parameters replaced according to subst.
// m itself is returned when nothing changes.
func (m *MixinContext) Substitute(g *analyze.TypeGraph, subst analyze.Substitution) *MixinContext {
	if g == nil || len(subst) == 0 {
		return m
	}

	changed := false
	sub := func(t *analyze.TypeInfo) *analyze.TypeInfo {
		r := g.Substitute(t, subst)
		if r != t {
			changed = true
		}

		return r
	}

	mixinType := sub(m.mixinType)
	deps := make([]*analyze.TypeInfo, len(m.deps))
	for i, d := range m.deps {
		deps[i] = sub(d)
	}

	suppressed := make([]*analyze.TypeInfo, len(m.suppressed))
	for i, s := range m.suppressed {
		suppressed[i] = sub(s)
	}

	if !changed {
		return m
	}

	return NewMixinContext(mixinType, m.kind, m.visibility, deps, suppressed, m.origin)
}

// String returns e.g. "example.com/shop.Auditing (extending, public)".
func (m *MixinContext) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s, %s", m.mixinType, m.kind, m.visibility)

	if len(m.deps) > 0 {
		b.WriteString(", after " + typeNames(m.deps))
	}

	if len(m.suppressed) > 0 {
		b.WriteString(", suppresses " + typeNames(m.suppressed))
	}

	b.WriteString(")")

	return b.String()
}

func typeNames(ts []*analyze.TypeInfo) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}

	return strings.Join(parts, " ")
}
