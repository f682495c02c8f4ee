package analyze

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"mixin-resolver/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "mixin-resolver/examples/shop"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

//go:generate go tool stringer -type=TypeKind -linecomment

// TypeKind represents the kind of a type. Basic kinds are value types such as
// int or string, struct kinds are class-like reference types, and param is a
// generic type parameter.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota // unknown
	TypeKindBasic                     // basic
	TypeKindStruct                    // struct
	TypeKindInterface                 // interface
	TypeKindParam                     // param
)

// ParseTypeKind parses the String form of a TypeKind. The empty string maps to struct.
func ParseTypeKind(s string) (TypeKind, bool) {
	switch strings.ToLower(s) {
	case "", "struct", "class":
		return TypeKindStruct, true
	case "interface":
		return TypeKindInterface, true
	case "basic", "value":
		return TypeKindBasic, true
	default:
		return TypeKindUnknown, false
	}
}

// Constraint describes the requirements a generic parameter places on its argument.
type Constraint struct {
	ReferenceType      bool        // argument must be a struct or interface
	ValueType          bool        // argument must be a basic (value) type
	DefaultConstructor bool        // argument must be constructible without arguments
	Types              []*TypeInfo // argument must be assignable to each; may mention parameters
}

// IsZero reports whether the constraint places no requirement.
func (c Constraint) IsZero() bool {
	return !c.ReferenceType && !c.ValueType && !c.DefaultConstructor && len(c.Types) == 0
}

// Directive is a raw "//mixin:" comment attached to a type or package.
type Directive struct {
	Verb    string            // e.g. "extends"
	Args    []string          // positional arguments
	Options map[string]string // key=value arguments
	Pos     string            // file:line
}

// TypeInfo describes a type in the type graph.
//
// Fields are filled while the graph is being built. Once a type is handed to
// resolution it must not be mutated. Closed generic instantiations are
// created by TypeGraph.Instantiate and compute their base type and interfaces
// from the definition on first use.
type TypeInfo struct {
	ID         TypeID      // Unique identifier; instantiations share the definition's ID
	Kind       TypeKind    // Kind of type
	Base       *TypeInfo   // For structs, the base type (nil for roots)
	Interfaces []*TypeInfo // Implemented interfaces (embedded interfaces for interfaces)
	TypeParams []*TypeInfo // For open generic definitions, the parameters (Kind param)
	GenericDef *TypeInfo   // For instantiations, the open definition
	TypeArgs   []*TypeInfo // For instantiations, the arguments (may include parameters)
	Constraint Constraint  // For parameters, the constraint
	Owner      *TypeInfo   // For parameters, the declaring generic definition
	Index      int         // For parameters, the position in Owner.TypeParams
	Abstract   bool        // Abstract types cannot be constructed
	Directives []Directive // Raw directives attached in source
	Pos        string      // Declaration position, if known

	graph     *TypeGraph
	instMu    sync.Mutex
	instDone  bool
	instFrom  *TypeInfo // definition base the cache was derived from
	instN     int       // definition interface count the cache was derived from
	instBase  *TypeInfo
	instIface []*TypeInfo
}

// NewStruct returns an unregistered struct descriptor.
func NewStruct(pkgPath, name string, base *TypeInfo, interfaces ...*TypeInfo) *TypeInfo {
	return &TypeInfo{
		ID:         TypeID{PkgPath: pkgPath, Name: name},
		Kind:       TypeKindStruct,
		Base:       base,
		Interfaces: interfaces,
	}
}

// NewInterface returns an unregistered interface descriptor.
func NewInterface(pkgPath, name string, embeds ...*TypeInfo) *TypeInfo {
	return &TypeInfo{
		ID:         TypeID{PkgPath: pkgPath, Name: name},
		Kind:       TypeKindInterface,
		Interfaces: embeds,
	}
}

// AddTypeParam appends a generic parameter to an open definition and returns it.
// It must be called before the definition is registered.
func (t *TypeInfo) AddTypeParam(name string, c Constraint) *TypeInfo {
	p := &TypeInfo{
		ID:         TypeID{Name: name},
		Kind:       TypeKindParam,
		Constraint: c,
		Owner:      t,
		Index:      len(t.TypeParams),
	}
	t.TypeParams = append(t.TypeParams, p)

	return p
}

// Graph returns the graph t is registered in, or nil for unregistered types.
// Parameters and instantiations report the graph of their definition.
func (t *TypeInfo) Graph() *TypeGraph {
	switch {
	case t.graph != nil:
		return t.graph
	case t.Owner != nil:
		return t.Owner.graph
	case t.GenericDef != nil:
		return t.GenericDef.graph
	default:
		return nil
	}
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsGenericDefinition reports whether t is an open generic definition.
func (t *TypeInfo) IsGenericDefinition() bool {
	return len(t.TypeParams) > 0 && t.GenericDef == nil
}

// IsInstantiation reports whether t was produced by closing a generic definition.
func (t *TypeInfo) IsInstantiation() bool {
	return t.GenericDef != nil
}

// ContainsParams reports whether t is a parameter, an open definition, or an
// instantiation whose arguments still mention parameters.
func (t *TypeInfo) ContainsParams() bool {
	switch {
	case t.Kind == TypeKindParam:
		return true
	case t.IsGenericDefinition():
		return true
	case t.IsInstantiation():
		for _, a := range t.TypeArgs {
			if a.ContainsParams() {
				return true
			}
		}
	}

	return false
}

// Definition returns the open generic definition of t, or t itself.
func (t *TypeInfo) Definition() *TypeInfo {
	if t.GenericDef != nil {
		return t.GenericDef
	}

	return t
}

// IsValueType reports whether t is a value type.
func (t *TypeInfo) IsValueType() bool {
	return t.Kind == TypeKindBasic
}

// HasDefaultConstructor reports whether t can be constructed without arguments.
func (t *TypeInfo) HasDefaultConstructor() bool {
	switch t.Kind {
	case TypeKindBasic:
		return true
	case TypeKindStruct:
		return !t.Abstract
	case TypeKindParam:
		return t.Constraint.DefaultConstructor || t.Constraint.ValueType
	default:
		return false
	}
}

// BaseType returns the base type of t. For instantiations the definition's
// base is returned with the instantiation's arguments substituted.
func (t *TypeInfo) BaseType() *TypeInfo {
	if t.GenericDef != nil {
		base, _ := t.materialize()
		return base
	}

	return t.Base
}

// DirectInterfaces returns the interfaces declared directly on t, with
// generic arguments substituted for instantiations.
func (t *TypeInfo) DirectInterfaces() []*TypeInfo {
	if t.GenericDef != nil {
		_, ifaces := t.materialize()
		return ifaces
	}

	return t.Interfaces
}

// materialize derives the base and interfaces of an instantiation from its
// definition. The result is recomputed when the definition gained a base or
// interfaces since the last call, as front ends fill definitions after
// instantiations may already exist.
func (t *TypeInfo) materialize() (*TypeInfo, []*TypeInfo) {
	t.instMu.Lock()
	defer t.instMu.Unlock()

	def := t.GenericDef
	if t.instDone && t.instFrom == def.Base && t.instN == len(def.Interfaces) {
		return t.instBase, t.instIface
	}

	subst := SubstitutionFor(def, t.TypeArgs)

	g := t.graph
	if g == nil {
		g = def.graph
	}

	t.instBase, t.instIface = nil, nil

	if def.Base != nil {
		t.instBase = g.Substitute(def.Base, subst)
	}

	for _, i := range def.Interfaces {
		t.instIface = append(t.instIface, g.Substitute(i, subst))
	}

	t.instDone, t.instFrom, t.instN = true, def.Base, len(def.Interfaces)

	return t.instBase, t.instIface
}

// Ancestors returns the base chain of t, nearest first, excluding t.
func (t *TypeInfo) Ancestors() []*TypeInfo {
	var out []*TypeInfo

	seen := map[*TypeInfo]bool{t: true}
	for b := t.BaseType(); b != nil && !seen[b]; b = b.BaseType() {
		seen[b] = true
		out = append(out, b)
	}

	return out
}

// AllInterfaces returns every interface implemented by t: its own, those of
// its base chain, and interfaces embedded by those, deduplicated and sorted.
func (t *TypeInfo) AllInterfaces() []*TypeInfo {
	seen := make(map[*TypeInfo]bool)

	var visit func(i *TypeInfo)

	visit = func(i *TypeInfo) {
		if i == nil || seen[i] {
			return
		}

		seen[i] = true
		for _, e := range i.DirectInterfaces() {
			visit(e)
		}
	}

	for _, i := range t.DirectInterfaces() {
		visit(i)
	}

	for _, a := range t.Ancestors() {
		for _, i := range a.DirectInterfaces() {
			visit(i)
		}
	}

	out := make([]*TypeInfo, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}

	SortTypes(out)

	return out
}

// String returns the fully qualified name, including type arguments.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}

	if t.GenericDef == nil {
		return t.ID.String()
	}

	args := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.String()
	}

	return t.ID.String() + "[" + strings.Join(args, ", ") + "]"
}

// key returns the interning key of t. Unlike String it distinguishes
// parameters of different owners.
func (t *TypeInfo) key() string {
	switch {
	case t.Kind == TypeKindParam && t.Owner != nil:
		return t.Owner.ID.String() + "#" + t.ID.Name
	case t.GenericDef != nil:
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.key()
		}

		return t.GenericDef.ID.String() + "[" + strings.Join(args, ",") + "]"
	default:
		return t.ID.String()
	}
}

// SortTypes sorts types by their qualified name for deterministic output.
func SortTypes(ts []*TypeInfo) {
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].key() < ts[j].key()
	})
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path       string            // Import path
	Name       string            // Package name
	Imports    map[string]string // Import alias -> import path, as seen in source
	Types      []TypeID          // Named types defined in this package
	Directives []Directive       // Package-level directives
	Standard   bool              // True for standard library packages
}

// TypeGraph holds all known types.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named (non-instantiated) types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	mu        sync.Mutex
	instances map[string]*TypeInfo
}

// universe lists the predeclared value types registered in every graph.
var universe = []string{
	"bool", "string", "byte", "rune", "error",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
}

// NewTypeGraph creates a new TypeGraph holding only the predeclared types.
func NewTypeGraph() *TypeGraph {
	g := &TypeGraph{
		Types:     make(map[TypeID]*TypeInfo),
		Packages:  make(map[string]*PackageInfo),
		instances: make(map[string]*TypeInfo),
	}

	for _, name := range universe {
		kind := TypeKindBasic
		if name == "error" {
			kind = TypeKindInterface
		}

		g.Types[TypeID{Name: name}] = &TypeInfo{ID: TypeID{Name: name}, Kind: kind, graph: g}
	}

	return g
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup returns the type registered under pkgPath.name, or nil.
func (g *TypeGraph) Lookup(pkgPath, name string) *TypeInfo {
	return g.Types[TypeID{PkgPath: pkgPath, Name: name}]
}

// AddType registers t. Its base chain must already be acyclic.
func (g *TypeGraph) AddType(t *TypeInfo) error {
	if t == nil || !t.IsNamed() {
		return fmt.Errorf("%w: unnamed type", ErrTypeNotFound)
	}

	if t.GenericDef != nil {
		return fmt.Errorf("cannot register instantiation %s directly", t)
	}

	if _, ok := g.Types[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.ID)
	}

	if t.Base != nil {
		if t.Base.Definition().Kind != TypeKindStruct || t.Kind != TypeKindStruct {
			return fmt.Errorf("%w: %s cannot derive from %s (%s)", ErrInvalidBase, t, t.Base, t.Base.Kind)
		}

		for b := t.Base; b != nil; b = b.Definition().Base {
			if b.Definition() == t {
				return fmt.Errorf("%w: %s", ErrInheritanceCycle, t)
			}
		}
	}

	t.graph = g
	for _, p := range t.TypeParams {
		p.graph = g
	}

	g.Types[t.ID] = t

	pkg := g.ensurePackage(t.ID.PkgPath)
	pkg.Types = append(pkg.Types, t.ID)

	return nil
}

// MustAdd registers each type and panics on error. Intended for fixtures.
func (g *TypeGraph) MustAdd(ts ...*TypeInfo) {
	for _, t := range ts {
		if err := g.AddType(t); err != nil {
			panic(err)
		}
	}
}

func (g *TypeGraph) ensurePackage(path string) *PackageInfo {
	if pkg, ok := g.Packages[path]; ok {
		return pkg
	}

	pkg := &PackageInfo{
		Path:    path,
		Name:    common.PkgAlias(path),
		Imports: make(map[string]string),
	}
	g.Packages[path] = pkg

	return pkg
}

// Package returns the package registered under path, creating it if needed.
func (g *TypeGraph) Package(path string) *PackageInfo {
	return g.ensurePackage(path)
}

// NamedTypes returns every registered type except predeclared ones, sorted.
func (g *TypeGraph) NamedTypes() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(g.Types))
	for id, t := range g.Types {
		if id.PkgPath == "" {
			continue
		}

		out = append(out, t)
	}

	SortTypes(out)

	return out
}

// Names returns the qualified names of every registered type, sorted.
func (g *TypeGraph) Names() []string {
	out := make([]string, 0, len(g.Types))
	for id := range g.Types {
		out = append(out, id.String())
	}

	sort.Strings(out)

	return out
}
