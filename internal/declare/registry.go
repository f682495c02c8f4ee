package declare

import (
	"sort"
	"sync"

	"mixin-resolver/internal/analyze"
)

// TypeDeclarations are the records attached to one type.
type TypeDeclarations struct {
	Extends            []Extends           // type is a mixin
	Uses               []Uses              // type is a target
	CompleteInterfaces []CompleteInterface // type is an interface
	IgnoresClass       []IgnoresClass      // type is a mixin
	IgnoresMixin       []IgnoresMixin      // type is a target
}

// IsEmpty reports whether no record is attached.
func (d TypeDeclarations) IsEmpty() bool {
	return len(d.Extends) == 0 && len(d.Uses) == 0 && len(d.CompleteInterfaces) == 0 &&
		len(d.IgnoresClass) == 0 && len(d.IgnoresMixin) == 0
}

// PackageDeclarations are the records attached to one package.
type PackageDeclarations struct {
	Mix []Mix
	// Generated marks packages emitted by a weaver; discovery skips them.
	Generated bool
}

// Source supplies declaration records. Analyzers read declarations only
// through a Source.
type Source interface {
	TypeDeclarations(t *analyze.TypeInfo) TypeDeclarations
	PackageDeclarations(pkgPath string) PackageDeclarations
}

// Registry is an in-memory Source. Front ends write to it; it is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	types    map[*analyze.TypeInfo]*TypeDeclarations
	packages map[string]*PackageDeclarations
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[*analyze.TypeInfo]*TypeDeclarations),
		packages: make(map[string]*PackageDeclarations),
	}
}

func (r *Registry) typeDecl(t *analyze.TypeInfo) *TypeDeclarations {
	d, ok := r.types[t]
	if !ok {
		d = &TypeDeclarations{}
		r.types[t] = d
	}

	return d
}

func (r *Registry) pkgDecl(path string) *PackageDeclarations {
	d, ok := r.packages[path]
	if !ok {
		d = &PackageDeclarations{}
		r.packages[path] = d
	}

	return d
}

// AddExtends records that mixin extends e.Target.
func (r *Registry) AddExtends(mixin *analyze.TypeInfo, e Extends) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.typeDecl(mixin)
	d.Extends = append(d.Extends, e)
}

// AddUses records that target uses u.Mixin.
func (r *Registry) AddUses(target *analyze.TypeInfo, u Uses) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.typeDecl(target)
	d.Uses = append(d.Uses, u)
}

// AddCompleteInterface records that iface is a complete interface of c.Target.
func (r *Registry) AddCompleteInterface(iface *analyze.TypeInfo, c CompleteInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.typeDecl(iface)
	d.CompleteInterfaces = append(d.CompleteInterfaces, c)
}

// AddIgnoresClass records that mixin must not be applied to i.Class.
func (r *Registry) AddIgnoresClass(mixin *analyze.TypeInfo, i IgnoresClass) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.typeDecl(mixin)
	d.IgnoresClass = append(d.IgnoresClass, i)
}

// AddIgnoresMixin records that target must not receive i.Mixin.
func (r *Registry) AddIgnoresMixin(target *analyze.TypeInfo, i IgnoresMixin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.typeDecl(target)
	d.IgnoresMixin = append(d.IgnoresMixin, i)
}

// AddMix records a package-level declaration.
func (r *Registry) AddMix(pkgPath string, m Mix) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.pkgDecl(pkgPath)
	d.Mix = append(d.Mix, m)
}

// MarkGenerated flags pkgPath as weaver output.
func (r *Registry) MarkGenerated(pkgPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pkgDecl(pkgPath).Generated = true
}

// TypeDeclarations implements Source. The returned slices are copies.
func (r *Registry) TypeDeclarations(t *analyze.TypeInfo) TypeDeclarations {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[t]
	if !ok {
		return TypeDeclarations{}
	}

	return TypeDeclarations{
		Extends:            append([]Extends(nil), d.Extends...),
		Uses:               append([]Uses(nil), d.Uses...),
		CompleteInterfaces: append([]CompleteInterface(nil), d.CompleteInterfaces...),
		IgnoresClass:       append([]IgnoresClass(nil), d.IgnoresClass...),
		IgnoresMixin:       append([]IgnoresMixin(nil), d.IgnoresMixin...),
	}
}

// PackageDeclarations implements Source. The returned slice is a copy.
func (r *Registry) PackageDeclarations(pkgPath string) PackageDeclarations {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.packages[pkgPath]
	if !ok {
		return PackageDeclarations{}
	}

	return PackageDeclarations{
		Mix:       append([]Mix(nil), d.Mix...),
		Generated: d.Generated,
	}
}

// Types returns every type with at least one record, sorted.
func (r *Registry) Types() []*analyze.TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*analyze.TypeInfo, 0, len(r.types))
	for t, d := range r.types {
		if !d.IsEmpty() {
			out = append(out, t)
		}
	}

	analyze.SortTypes(out)

	return out
}

// Packages returns every package with at least one record, sorted.
func (r *Registry) Packages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.packages))
	for p := range r.packages {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}
