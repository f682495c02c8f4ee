package analyze

import (
	"fmt"
	"sort"
	"strings"
)

// TypeExpr is a parsed textual type reference such as "shop.Cache[shop.Order, int]".
type TypeExpr struct {
	Name string
	Args []TypeExpr
}

// String returns the canonical textual form.
func (e TypeExpr) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}

	return e.Name + "[" + strings.Join(args, ", ") + "]"
}

// ParseTypeExpr parses a type reference. Names may be qualified by an import
// path or alias; arguments are enclosed in square brackets.
func ParseTypeExpr(s string) (TypeExpr, error) {
	p := exprParser{src: s}

	e, err := p.parse()
	if err != nil {
		return TypeExpr{}, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return TypeExpr{}, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrInvalidTypeExpr, p.src[p.pos:], p.pos, s)
	}

	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) parse() (TypeExpr, error) {
	p.skipSpace()

	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("[], \t", rune(p.src[p.pos])) {
		p.pos++
	}

	name := p.src[start:p.pos]
	if name == "" {
		return TypeExpr{}, fmt.Errorf("%w: missing type name at offset %d in %q", ErrInvalidTypeExpr, start, p.src)
	}

	e := TypeExpr{Name: name}

	p.skipSpace()

	if p.pos >= len(p.src) || p.src[p.pos] != '[' {
		return e, nil
	}

	p.pos++

	for {
		arg, err := p.parse()
		if err != nil {
			return TypeExpr{}, err
		}

		e.Args = append(e.Args, arg)

		p.skipSpace()

		if p.pos >= len(p.src) {
			return TypeExpr{}, fmt.Errorf("%w: unterminated argument list in %q", ErrInvalidTypeExpr, p.src)
		}

		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return e, nil
		default:
			return TypeExpr{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidTypeExpr, p.src[p.pos], p.src)
		}
	}
}

// Resolve parses and resolves a type reference relative to package fromPkg.
func (g *TypeGraph) Resolve(ref, fromPkg string) (*TypeInfo, error) {
	return g.ResolveIn(ref, fromPkg, nil)
}

// ResolveIn is Resolve with the type parameters of scope visible by name.
// Generic references with arguments are closed with Instantiate, so
// arity and constraint errors surface here.
func (g *TypeGraph) ResolveIn(ref, fromPkg string, scope *TypeInfo) (*TypeInfo, error) {
	e, err := ParseTypeExpr(ref)
	if err != nil {
		return nil, err
	}

	return g.ResolveExpr(e, fromPkg, scope)
}

// ResolveExpr resolves a parsed type expression.
func (g *TypeGraph) ResolveExpr(e TypeExpr, fromPkg string, scope *TypeInfo) (*TypeInfo, error) {
	if scope != nil && !strings.Contains(e.Name, ".") {
		for _, p := range scope.Definition().TypeParams {
			if p.ID.Name == e.Name && len(e.Args) == 0 {
				return p, nil
			}
		}
	}

	t, err := g.ResolveName(e.Name, fromPkg)
	if err != nil {
		return nil, err
	}

	if len(e.Args) == 0 {
		return t, nil
	}

	args := make([]*TypeInfo, len(e.Args))
	for i, a := range e.Args {
		args[i], err = g.ResolveExpr(a, fromPkg, scope)
		if err != nil {
			return nil, err
		}
	}

	return g.Instantiate(t, args...)
}

// ResolveName resolves a (possibly qualified) type name:
//   - "int" (predeclared)
//   - "Order" (fromPkg first, then a unique match by name)
//   - "shop.Order" (import alias of fromPkg, full path, or path suffix)
//   - "mixin-resolver/examples/shop.Order" (full)
func (g *TypeGraph) ResolveName(name, fromPkg string) (*TypeInfo, error) {
	if name == "" {
		return nil, &ResolveError{Ref: name, Err: ErrTypeNotFound}
	}

	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		if t := g.Lookup("", name); t != nil {
			return t, nil
		}

		if fromPkg != "" {
			if t := g.Lookup(fromPkg, name); t != nil {
				return t, nil
			}
		}

		return g.unique(name, func(id TypeID) bool { return id.Name == name })
	}

	qual, short := name[:lastDot], name[lastDot+1:]
	if qual == "" || short == "" {
		return nil, &ResolveError{Ref: name, Err: ErrInvalidTypeExpr}
	}

	if pkg, ok := g.Packages[fromPkg]; ok {
		if path, ok := pkg.Imports[qual]; ok {
			if t := g.Lookup(path, short); t != nil {
				return t, nil
			}
		}
	}

	if t := g.Lookup(qual, short); t != nil {
		return t, nil
	}

	return g.unique(name, func(id TypeID) bool {
		return id.Name == short && strings.HasSuffix(id.PkgPath, "/"+qual)
	})
}

func (g *TypeGraph) unique(ref string, match func(TypeID) bool) (*TypeInfo, error) {
	var found []*TypeInfo

	for id, t := range g.Types {
		if match(id) {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 0:
		return nil, &ResolveError{Ref: ref, Err: ErrTypeNotFound}
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, t := range found {
			names[i] = t.String()
		}

		sort.Strings(names)

		return nil, &ResolveError{Ref: ref, Candidates: names, Err: ErrAmbiguousType}
	}
}
