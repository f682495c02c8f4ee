package analyze

// IsAssignableTo reports whether a value of type t can be used where u is
// expected: t is u, u is in t's base chain, or u is an interface that t (or
// one of its bases) implements directly or through interface embedding.
// A parameter is assignable to the types named by its constraint.
func (t *TypeInfo) IsAssignableTo(u *TypeInfo) bool {
	if t == nil || u == nil {
		return false
	}

	if t == u {
		return true
	}

	if t.Kind == TypeKindParam {
		for _, ct := range t.Constraint.Types {
			if ct.IsAssignableTo(u) {
				return true
			}
		}

		return false
	}

	for _, a := range t.Ancestors() {
		if a == u {
			return true
		}
	}

	if u.Kind != TypeKindInterface {
		return false
	}

	for _, i := range t.AllInterfaces() {
		if i == u {
			return true
		}
	}

	return false
}

// SameGenericDefinition reports whether t and u are instantiations of (or
// are) the same open generic definition. Non-generic types never match.
func SameGenericDefinition(t, u *TypeInfo) bool {
	if t == nil || u == nil {
		return false
	}

	dt, du := t.Definition(), u.Definition()
	if len(dt.TypeParams) == 0 {
		return false
	}

	return dt == du
}

// IsSubclassOrSame reports whether t is u or derives from u through the base
// chain. Interfaces are not considered.
func (t *TypeInfo) IsSubclassOrSame(u *TypeInfo) bool {
	if t == u {
		return true
	}

	for _, a := range t.Ancestors() {
		if a == u {
			return true
		}
	}

	return false
}
