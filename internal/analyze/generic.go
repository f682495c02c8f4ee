package analyze

// Substitution maps generic parameters to the types bound to them.
type Substitution map[*TypeInfo]*TypeInfo

// SubstitutionFor binds the parameters of def to args positionally.
// Extra parameters or arguments are ignored.
func SubstitutionFor(def *TypeInfo, args []*TypeInfo) Substitution {
	s := make(Substitution, len(def.TypeParams))
	for i, p := range def.TypeParams {
		if i < len(args) {
			s[p] = args[i]
		}
	}

	return s
}

// Instantiate closes the open generic definition def with args.
//
// The argument count must match the definition's arity and every argument
// must satisfy its parameter's constraint; parameters used as arguments are
// accepted as-is and yield a partially open instantiation. Instantiations are
// interned: the same definition and arguments always return the same pointer.
func (g *TypeGraph) Instantiate(def *TypeInfo, args ...*TypeInfo) (*TypeInfo, error) {
	if def.GenericDef != nil {
		return nil, &GenericArgumentError{Kind: GenericAlreadySpecified, Definition: def, Supplied: len(args)}
	}

	if len(def.TypeParams) == 0 {
		return nil, &GenericArgumentError{Kind: GenericNotGeneric, Definition: def, Supplied: len(args)}
	}

	if len(args) != len(def.TypeParams) {
		return nil, &GenericArgumentError{
			Kind:       GenericArity,
			Definition: def,
			Supplied:   len(args),
			Expected:   len(def.TypeParams),
		}
	}

	subst := SubstitutionFor(def, args)
	for i, p := range def.TypeParams {
		if err := g.checkConstraint(def, p, args[i], subst); err != nil {
			return nil, err
		}
	}

	return g.instantiate(def, args), nil
}

// MustInstantiate is Instantiate that panics on error. Intended for fixtures.
func (g *TypeGraph) MustInstantiate(def *TypeInfo, args ...*TypeInfo) *TypeInfo {
	t, err := g.Instantiate(def, args...)
	if err != nil {
		panic(err)
	}

	return t
}

// instantiate interns def[args] without constraint checks.
func (g *TypeGraph) instantiate(def *TypeInfo, args []*TypeInfo) *TypeInfo {
	probe := &TypeInfo{ID: def.ID, GenericDef: def, TypeArgs: args}
	key := probe.key()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.instances == nil {
		g.instances = make(map[string]*TypeInfo)
	}

	if t, ok := g.instances[key]; ok {
		return t
	}

	t := &TypeInfo{
		ID:         def.ID,
		Kind:       def.Kind,
		GenericDef: def,
		TypeArgs:   append([]*TypeInfo(nil), args...),
		Abstract:   def.Abstract,
		Pos:        def.Pos,
		graph:      g,
	}
	g.instances[key] = t

	return t
}

// Substitute replaces parameters in t according to subst. Instantiations
// mentioning substituted parameters are re-interned; other types are
// returned unchanged.
func (g *TypeGraph) Substitute(t *TypeInfo, subst Substitution) *TypeInfo {
	if t == nil || len(subst) == 0 {
		return t
	}

	switch {
	case t.Kind == TypeKindParam:
		if r, ok := subst[t]; ok {
			return r
		}

		return t

	case t.GenericDef != nil:
		changed := false
		args := make([]*TypeInfo, len(t.TypeArgs))

		for i, a := range t.TypeArgs {
			args[i] = g.Substitute(a, subst)
			if args[i] != a {
				changed = true
			}
		}

		if !changed {
			return t
		}

		return g.instantiate(t.GenericDef, args)

	default:
		return t
	}
}

// checkConstraint verifies that arg satisfies the constraint of param,
// substituting parameters of def in constraint types with subst.
func (g *TypeGraph) checkConstraint(def, param, arg *TypeInfo, subst Substitution) error {
	c := param.Constraint
	if c.IsZero() {
		return nil
	}

	violation := func(what string) error {
		return &GenericArgumentError{
			Kind:       GenericConstraint,
			Definition: def,
			Supplied:   len(def.TypeParams),
			Expected:   len(def.TypeParams),
			Param:      param,
			Arg:        arg,
			Constraint: what,
		}
	}

	if arg.Kind == TypeKindParam {
		// A parameter can only stand in for one that is at least as strict.
		if c.ReferenceType && !arg.Constraint.ReferenceType {
			return violation("reference type")
		}

		if c.ValueType && !arg.Constraint.ValueType {
			return violation("value type")
		}

		return nil
	}

	if c.ReferenceType && arg.Kind != TypeKindStruct && arg.Kind != TypeKindInterface {
		return violation("reference type")
	}

	if c.ValueType && !arg.IsValueType() {
		return violation("value type")
	}

	if c.DefaultConstructor && !arg.HasDefaultConstructor() {
		return violation("default constructor")
	}

	for _, ct := range c.Types {
		want := g.Substitute(ct, subst)
		if !arg.IsAssignableTo(want) {
			return violation("assignable to " + want.String())
		}
	}

	return nil
}
