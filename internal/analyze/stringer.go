package analyze

import (
	"strings"

	"mixin-resolver/internal/common"
)

// TypeStringer provides methods for creating short, readable type strings.
// Package paths are reduced to their last element ("shop.Order").
type TypeStringer struct{}

// NewTypeStringer creates a new TypeStringer.
func NewTypeStringer() *TypeStringer {
	return &TypeStringer{}
}

// TypeString returns a human-readable string representation of a TypeInfo.
func (s *TypeStringer) TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	name := t.ID.Name
	if alias := common.PkgAlias(t.ID.PkgPath); alias != "" && t.Kind != TypeKindParam {
		name = alias + "." + name
	}

	switch {
	case t.IsInstantiation():
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = s.TypeString(a)
		}

		return name + "[" + strings.Join(args, ", ") + "]"

	case t.IsGenericDefinition():
		params := make([]string, len(t.TypeParams))
		for i, p := range t.TypeParams {
			params[i] = p.ID.Name
		}

		return name + "[" + strings.Join(params, ", ") + "]"

	default:
		return name
	}
}

// AncestryPath returns t followed by its base chain.
// Example: "shop.Order -> shop.Document -> shop.Entity".
func (s *TypeStringer) AncestryPath(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	parts := []string{s.TypeString(t)}
	for _, a := range t.Ancestors() {
		parts = append(parts, s.TypeString(a))
	}

	return strings.Join(parts, " -> ")
}

// TypeList renders a list of types, comma separated.
func (s *TypeStringer) TypeList(ts []*TypeInfo) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = s.TypeString(t)
	}

	return strings.Join(parts, ", ")
}
