package directive

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/diagnostic"
	"mixin-resolver/internal/match"
)

// Verbs.
const (
	VerbExtends      = "extends"
	VerbUses         = "uses"
	VerbMix          = "mix"
	VerbComplete     = "complete"
	VerbIgnoresClass = "ignores-class"
	VerbIgnoresMixin = "ignores-mixin"
	VerbGenerated    = "generated"
	VerbAbstract     = "abstract"
)

// Option keys.
const (
	KeyDeps       = "deps"
	KeySuppress   = "suppress"
	KeyVisibility = "visibility"
	KeyArgs       = "args"
	KeyKind       = "kind"
)

var (
	typeVerbs    = []string{VerbAbstract, VerbComplete, VerbExtends, VerbIgnoresClass, VerbIgnoresMixin, VerbUses}
	packageVerbs = []string{VerbGenerated, VerbMix}
	optionKeys   = []string{KeyArgs, KeyDeps, KeySuppress, KeyVisibility}
)

// Compiler turns the directives captured in a type graph into records of a
// declare.Registry.
type Compiler struct {
	graph    *analyze.TypeGraph
	registry *declare.Registry
	diags    diagnostic.Diagnostics
	known    []string
}

// NewCompiler creates a Compiler writing to registry.
func NewCompiler(graph *analyze.TypeGraph, registry *declare.Registry) *Compiler {
	return &Compiler{graph: graph, registry: registry}
}

// Compile compiles the directives of every package and type in graph.
func Compile(graph *analyze.TypeGraph, registry *declare.Registry) diagnostic.Diagnostics {
	return NewCompiler(graph, registry).CompileAll()
}

// CompileAll compiles every package and type, in sorted order, and returns
// the diagnostics collected so far.
func (c *Compiler) CompileAll() diagnostic.Diagnostics {
	paths := make([]string, 0, len(c.graph.Packages))
	for p := range c.graph.Packages {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		c.CompilePackage(c.graph.Packages[p])
	}

	for _, t := range c.graph.NamedTypes() {
		c.CompileType(t)
	}

	return c.diags
}

// Diagnostics returns the diagnostics collected so far.
func (c *Compiler) Diagnostics() diagnostic.Diagnostics {
	return c.diags
}

// CompilePackage compiles the package level directives of pkg.
func (c *Compiler) CompilePackage(pkg *analyze.PackageInfo) {
	for _, d := range pkg.Directives {
		switch d.Verb {
		case VerbGenerated:
			c.registry.MarkGenerated(pkg.Path)

		case VerbMix:
			c.compileMix(pkg.Path, d)

		default:
			c.unknownVerb(d, pkg.Path, packageVerbs)
		}
	}
}

func (c *Compiler) compileMix(pkgPath string, d analyze.Directive) {
	if len(d.Args) != 2 {
		c.diags.AddError(diagnostic.CodeMalformed,
			fmt.Sprintf("%s takes a target and a mixin, got %d argument(s)", d.Verb, len(d.Args)), pkgPath, d.Pos)
		return
	}

	target := c.resolve(d.Args[0], pkgPath, nil, pkgPath, d.Pos)
	mixin := c.resolve(d.Args[1], pkgPath, nil, pkgPath, d.Pos)

	opts, ok := c.options(d, pkgPath, nil, pkgPath, KeyKind)

	kind := declare.Extending

	if v, has := d.Option(KeyKind); has {
		k, err := declare.ParseMixinKind(v)
		if err != nil {
			c.diags.AddError(diagnostic.CodeInvalidOption, err.Error(), pkgPath, d.Pos)

			ok = false
		}

		kind = k
	}

	if target == nil || mixin == nil || !ok {
		return
	}

	c.registry.AddMix(pkgPath, declare.Mix{
		Target:  target,
		Mixin:   mixin,
		Kind:    kind,
		Options: opts,
		Origin:  declare.Origin{Kind: declare.OriginMix, Declarer: pkgPath, Location: d.Pos},
	})
}

// CompileType compiles the directives attached to t.
func (c *Compiler) CompileType(t *analyze.TypeInfo) {
	pkg := t.ID.PkgPath
	subject := t.String()

	for _, d := range t.Directives {
		switch d.Verb {
		case VerbExtends:
			if !c.expectKind(t, d, analyze.TypeKindStruct) || !c.expectArgs(d, subject, 1) {
				continue
			}

			target := c.resolve(d.Args[0], pkg, t, subject, d.Pos)
			opts, ok := c.options(d, pkg, t, subject)

			if target != nil && ok {
				c.registry.AddExtends(t, declare.Extends{
					Target:  target,
					Options: opts,
					Origin:  declare.Origin{Kind: declare.OriginExtends, Declarer: subject, Location: d.Pos},
				})
			}

		case VerbUses:
			if !c.expectKind(t, d, analyze.TypeKindStruct) || !c.expectArgs(d, subject, 1) {
				continue
			}

			mixin := c.resolve(d.Args[0], pkg, t, subject, d.Pos)
			opts, ok := c.options(d, pkg, t, subject)

			if mixin != nil && ok {
				c.registry.AddUses(t, declare.Uses{
					Mixin:   mixin,
					Options: opts,
					Origin:  declare.Origin{Kind: declare.OriginUses, Declarer: subject, Location: d.Pos},
				})
			}

		case VerbComplete:
			if !c.expectKind(t, d, analyze.TypeKindInterface) || !c.expectArgs(d, subject, 1) {
				continue
			}

			if target := c.resolve(d.Args[0], pkg, nil, subject, d.Pos); target != nil {
				c.registry.AddCompleteInterface(t, declare.CompleteInterface{
					Target: target,
					Origin: declare.Origin{Kind: declare.OriginCompleteInterface, Declarer: subject, Location: d.Pos},
				})
			}

		case VerbIgnoresClass:
			if !c.expectKind(t, d, analyze.TypeKindStruct) || !c.expectArgs(d, subject, -1) {
				continue
			}

			for _, ref := range d.Args {
				if class := c.resolve(ref, pkg, nil, subject, d.Pos); class != nil {
					c.registry.AddIgnoresClass(t, declare.IgnoresClass{
						Class:  class,
						Origin: declare.Origin{Kind: declare.OriginIgnores, Declarer: subject, Location: d.Pos},
					})
				}
			}

		case VerbIgnoresMixin:
			if !c.expectKind(t, d, analyze.TypeKindStruct) || !c.expectArgs(d, subject, -1) {
				continue
			}

			for _, ref := range d.Args {
				if mixin := c.resolve(ref, pkg, t, subject, d.Pos); mixin != nil {
					c.registry.AddIgnoresMixin(t, declare.IgnoresMixin{
						Mixin:  mixin,
						Origin: declare.Origin{Kind: declare.OriginIgnores, Declarer: subject, Location: d.Pos},
					})
				}
			}

		default:
			c.unknownVerb(d, subject, typeVerbs)
		}
	}
}

func (c *Compiler) expectKind(t *analyze.TypeInfo, d analyze.Directive, kind analyze.TypeKind) bool {
	if t.Kind == kind {
		return true
	}

	c.diags.AddError(diagnostic.CodeMisplaced,
		fmt.Sprintf("%s must be attached to a %s type, not a %s", d.Verb, kind, t.Kind), t.String(), d.Pos)

	return false
}

// expectArgs checks the argument count; n < 0 requires at least one.
func (c *Compiler) expectArgs(d analyze.Directive, subject string, n int) bool {
	switch {
	case n < 0 && len(d.Args) > 0, len(d.Args) == n:
		return true
	case n < 0:
		c.diags.AddError(diagnostic.CodeMalformed, d.Verb+" needs at least one type", subject, d.Pos)
	default:
		c.diags.AddError(diagnostic.CodeMalformed,
			fmt.Sprintf("%s takes %d type argument(s), got %d", d.Verb, n, len(d.Args)), subject, d.Pos)
	}

	return false
}

func (c *Compiler) unknownVerb(d analyze.Directive, subject string, verbs []string) {
	c.diags.AddError(diagnostic.CodeUnknownVerb, "unknown directive "+d.Verb, subject, d.Pos,
		match.Suggest(d.Verb, verbs, match.DefaultLimit)...)
}

// options reads the shared key=value options. extra lists further keys the
// caller handles itself.
func (c *Compiler) options(d analyze.Directive, pkg string, scope *analyze.TypeInfo, subject string, extra ...string) (declare.Options, bool) {
	var (
		opts declare.Options
		ok   = true
	)

	keys := append(append([]string(nil), optionKeys...), extra...)

	for _, key := range slices.Sorted(maps.Keys(d.Options)) {
		value := d.Options[key]

		switch key {
		case KeyDeps:
			opts.Dependencies, ok = c.resolveList(value, pkg, scope, subject, d.Pos, ok)
		case KeySuppress:
			opts.Suppressed, ok = c.resolveList(value, pkg, scope, subject, d.Pos, ok)
		case KeyArgs:
			// Arguments close the mixin; the declaring type's parameters stay visible.
			opts.TypeArgs, ok = c.resolveList(value, pkg, scope, subject, d.Pos, ok)
		case KeyVisibility:
			v, err := declare.ParseVisibility(value)
			if err != nil {
				c.diags.AddError(diagnostic.CodeInvalidOption, err.Error(), subject, d.Pos)

				ok = false
			}

			opts.Visibility = v
		default:
			if slices.Contains(extra, key) {
				continue
			}

			c.diags.AddError(diagnostic.CodeInvalidOption, "unknown option "+key, subject, d.Pos,
				match.Suggest(key, keys, match.DefaultLimit)...)

			ok = false
		}
	}

	return opts, ok
}

func (c *Compiler) resolveList(list, pkg string, scope *analyze.TypeInfo, subject, pos string, ok bool) ([]*analyze.TypeInfo, bool) {
	var out []*analyze.TypeInfo

	for _, ref := range analyze.SplitList(list) {
		t := c.resolve(ref, pkg, scope, subject, pos)
		if t == nil {
			ok = false
			continue
		}

		out = append(out, t)
	}

	return out, ok
}

func (c *Compiler) resolve(ref, pkg string, scope *analyze.TypeInfo, subject, pos string) *analyze.TypeInfo {
	t, err := c.graph.ResolveIn(ref, pkg, scope)
	if err != nil {
		if c.known == nil {
			c.known = c.graph.Names()
		}

		c.diags.AddResolveError(err, subject, pos, c.known)

		return nil
	}

	return t
}
