package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"mixin-resolver/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// DirectivePrefix starts every comment the loader captures.
const DirectivePrefix = "//mixin:"

// packageVerbs are directives that apply to the package rather than to the
// type whose doc comment happens to hold them.
var packageVerbs = map[string]bool{
	"mix":       true,
	"generated": true,
}

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	// Dir is the working directory used to resolve patterns (default: current).
	Dir string

	graph   *TypeGraph
	byObj   map[*types.TypeName]*TypeInfo
	byParam map[*types.TypeParam]*TypeInfo
	structs []namedInfo
	ifaces  []namedInfo
}

type namedInfo struct {
	named *types.Named
	info  *TypeInfo
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:   NewTypeGraph(),
		byObj:   make(map[*types.TypeName]*TypeInfo),
		byParam: make(map[*types.TypeParam]*TypeInfo),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/shop").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.declarePackage(pkg)
	}

	for _, pkg := range pkgs {
		if err := a.completePackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	a.computeImplements()

	for _, pkg := range pkgs {
		a.collectDirectives(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// declarePackage registers a shell TypeInfo for every named type in pkg.
func (a *Analyzer) declarePackage(pkg *packages.Package) {
	info := a.graph.Package(pkg.PkgPath)
	info.Name = pkg.Name
	info.Standard = pkg.Module == nil && common.IsStdlibPath(pkg.PkgPath)

	for _, f := range pkg.Syntax {
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)

			alias := common.PkgAlias(path)
			if dep, ok := pkg.Imports[path]; ok && dep.Name != "" {
				alias = dep.Name
			}

			if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
				alias = imp.Name.Name
			}

			info.Imports[alias] = path
		}
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		t := a.shell(named)
		if t == nil {
			continue
		}

		t.Pos = pkg.Fset.Position(typeName.Pos()).String()
	}
}

// shell creates and registers the TypeInfo for a named type without
// resolving its relations. Unsupported underlying kinds yield nil.
func (a *Analyzer) shell(named *types.Named) *TypeInfo {
	obj := named.Obj()
	if t, ok := a.byObj[obj]; ok {
		return t
	}

	if obj.Pkg() == nil {
		return a.graph.Lookup("", obj.Name())
	}

	var kind TypeKind

	switch named.Underlying().(type) {
	case *types.Struct:
		kind = TypeKindStruct
	case *types.Interface:
		kind = TypeKindInterface
	case *types.Basic:
		kind = TypeKindBasic
	default:
		return nil
	}

	t := &TypeInfo{
		ID:   TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()},
		Kind: kind,
	}

	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			tp := tps.At(i)
			a.byParam[tp] = t.AddTypeParam(tp.Obj().Name(), Constraint{})
		}
	}

	if err := a.graph.AddType(t); err != nil {
		// Same ID from another load; reuse the registered descriptor.
		if existing := a.graph.GetType(t.ID); existing != nil {
			a.byObj[obj] = existing
			return existing
		}

		return nil
	}

	a.byObj[obj] = t

	return t
}

// completePackage fills base types, embedded interfaces and parameter constraints.
func (a *Analyzer) completePackage(pkg *packages.Package) error {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		t := a.byObj[typeName]
		if t == nil {
			continue
		}

		if tps := named.TypeParams(); tps != nil {
			for i := range tps.Len() {
				tp := tps.At(i)
				a.constraintFrom(tp.Constraint(), &a.byParam[tp].Constraint)
			}
		}

		switch ut := named.Underlying().(type) {
		case *types.Struct:
			if err := a.analyzeBase(t, ut); err != nil {
				return err
			}

			if named.TypeParams() == nil {
				a.structs = append(a.structs, namedInfo{named: named, info: t})
			}

		case *types.Interface:
			for i := range ut.NumEmbeddeds() {
				if e := a.convert(ut.EmbeddedType(i)); e != nil && e.Kind == TypeKindInterface {
					t.Interfaces = append(t.Interfaces, e)
				}
			}

			if named.TypeParams() == nil && ut.NumMethods() > 0 {
				a.ifaces = append(a.ifaces, namedInfo{named: named, info: t})
			}
		}
	}

	return nil
}

// analyzeBase sets the base of t to its first embedded named struct.
func (a *Analyzer) analyzeBase(t *TypeInfo, st *types.Struct) error {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}

		base := a.convert(field.Type())
		if base == nil || base.Definition().Kind != TypeKindStruct {
			continue
		}

		for b := base; b != nil; b = b.Definition().Base {
			if b.Definition() == t {
				return fmt.Errorf("%w: %s embeds %s", ErrInheritanceCycle, t, base)
			}
		}

		t.Base = base

		return nil
	}

	return nil
}

// computeImplements records, for every non-generic struct, the loaded
// interfaces with methods that its pointer type implements.
func (a *Analyzer) computeImplements() {
	for _, s := range a.structs {
		ptr := types.NewPointer(s.named)
		for _, i := range a.ifaces {
			iface, ok := i.named.Underlying().(*types.Interface)
			if !ok {
				continue
			}

			if types.Implements(ptr, iface) {
				s.info.Interfaces = append(s.info.Interfaces, i.info)
			}
		}

		SortTypes(s.info.Interfaces)
	}
}

// constraintFrom folds a Go constraint interface into c: named interfaces
// with methods become assignability requirements, type terms require a
// value type.
func (a *Analyzer) constraintFrom(ct types.Type, c *Constraint) {
	iface, ok := ct.Underlying().(*types.Interface)
	if !ok {
		return
	}

	if named, ok := ct.(*types.Named); ok && iface.NumMethods() > 0 {
		if t := a.convert(named); t != nil {
			c.Types = append(c.Types, t)
		}

		return
	}

	for i := range iface.NumEmbeddeds() {
		switch e := iface.EmbeddedType(i).(type) {
		case *types.Union, *types.Basic:
			c.ValueType = true
		default:
			a.constraintFrom(e, c)
		}
	}
}

// convert maps a go/types type to the graph. Pointers map to their element.
func (a *Analyzer) convert(t types.Type) *TypeInfo {
	switch tt := t.(type) {
	case *types.Pointer:
		return a.convert(tt.Elem())

	case *types.Basic:
		return a.graph.Lookup("", tt.Name())

	case *types.TypeParam:
		return a.byParam[tt]

	case *types.Named:
		def := a.shell(tt.Origin())
		if def == nil {
			return nil
		}

		targs := tt.TypeArgs()
		if targs == nil || targs.Len() == 0 {
			return def
		}

		args := make([]*TypeInfo, targs.Len())
		for i := range targs.Len() {
			args[i] = a.convert(targs.At(i))
			if args[i] == nil {
				return def
			}
		}

		if len(args) != len(def.TypeParams) {
			return def
		}

		return a.graph.instantiate(def, args)
	}

	return nil
}

// collectDirectives attaches "//mixin:" comments to types and packages.
func (a *Analyzer) collectDirectives(pkg *packages.Package) {
	info := a.graph.Package(pkg.PkgPath)

	for _, f := range pkg.Syntax {
		attached := make(map[*ast.CommentGroup]bool)

		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				if doc == nil {
					continue
				}

				attached[doc] = true

				tn, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}

				t := a.byObj[tn]

				for _, d := range parseCommentGroup(doc, pkg.Fset) {
					switch {
					case packageVerbs[d.Verb]:
						info.Directives = append(info.Directives, d)
					case d.Verb == "abstract" && t != nil:
						t.Abstract = true
					case t != nil:
						t.Directives = append(t.Directives, d)
					}
				}
			}
		}

		for _, cg := range f.Comments {
			if attached[cg] {
				continue
			}

			for _, d := range parseCommentGroup(cg, pkg.Fset) {
				if packageVerbs[d.Verb] {
					info.Directives = append(info.Directives, d)
				}
			}
		}
	}
}

func parseCommentGroup(cg *ast.CommentGroup, fset *token.FileSet) []Directive {
	var out []Directive

	for _, c := range cg.List {
		if d, ok := ParseDirective(c.Text, fset.Position(c.Slash).String()); ok {
			out = append(out, d)
		}
	}

	return out
}
