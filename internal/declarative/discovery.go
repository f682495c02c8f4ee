package declarative

import (
	"sort"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
)

// TypeDiscovery enumerates the packages and types to analyze.
type TypeDiscovery interface {
	Packages() []*analyze.PackageInfo
	Types(pkg *analyze.PackageInfo) []*analyze.TypeInfo
}

// PackageFilter decides which discovered packages are analyzed.
// ShouldConsiderPackage rejects packages that can never declare mixins, such
// as the standard library. ShouldIncludePackage rejects packages that were
// themselves produced from a configuration.
type PackageFilter interface {
	ShouldConsiderPackage(pkg *analyze.PackageInfo) bool
	ShouldIncludePackage(pkg *analyze.PackageInfo) bool
}

// GraphDiscovery discovers every package and named type of a type graph.
type GraphDiscovery struct {
	Graph *analyze.TypeGraph
}

// Packages implements TypeDiscovery. Packages are sorted by path.
func (d GraphDiscovery) Packages() []*analyze.PackageInfo {
	out := make([]*analyze.PackageInfo, 0, len(d.Graph.Packages))
	for _, p := range d.Graph.Packages {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

// Types implements TypeDiscovery.
func (d GraphDiscovery) Types(pkg *analyze.PackageInfo) []*analyze.TypeInfo {
	out := make([]*analyze.TypeInfo, 0, len(pkg.Types))
	for _, id := range pkg.Types {
		if t := d.Graph.GetType(id); t != nil {
			out = append(out, t)
		}
	}

	analyze.SortTypes(out)

	return out
}

// DefaultPackageFilter skips the standard library, predeclared types and
// packages marked as generated in Source.
type DefaultPackageFilter struct {
	Source declare.Source
}

// ShouldConsiderPackage implements PackageFilter.
func (f DefaultPackageFilter) ShouldConsiderPackage(pkg *analyze.PackageInfo) bool {
	return pkg != nil && pkg.Path != "" && !pkg.Standard
}

// ShouldIncludePackage implements PackageFilter.
func (f DefaultPackageFilter) ShouldIncludePackage(pkg *analyze.PackageInfo) bool {
	if f.Source == nil {
		return true
	}

	return !f.Source.PackageDeclarations(pkg.Path).Generated
}
