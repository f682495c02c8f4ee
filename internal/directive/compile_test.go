package directive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/diagnostic"
)

const testPkg = "example.com/shop"

func directives(t *testing.T, lines ...string) []analyze.Directive {
	t.Helper()

	out := make([]analyze.Directive, 0, len(lines))
	for i, l := range lines {
		d, ok := analyze.ParseDirective(l, fmt.Sprintf("shop.go:%d", i+1))
		require.True(t, ok, l)

		out = append(out, d)
	}

	return out
}

type shop struct {
	graph                       *analyze.TypeGraph
	entity, audit, clock, draft *analyze.TypeInfo
	facade, cache, cacheParam   *analyze.TypeInfo
}

func newShop(t *testing.T) *shop {
	t.Helper()

	s := &shop{graph: analyze.NewTypeGraph()}
	s.entity = analyze.NewStruct(testPkg, "Entity", nil)
	s.audit = analyze.NewStruct(testPkg, "Audit", nil)
	s.clock = analyze.NewStruct(testPkg, "Clock", nil)
	s.draft = analyze.NewStruct(testPkg, "Draft", s.entity)
	s.facade = analyze.NewInterface(testPkg, "Facade")
	s.cache = analyze.NewStruct(testPkg, "Cache", nil)
	s.cacheParam = s.cache.AddTypeParam("K", analyze.Constraint{})

	s.graph.MustAdd(s.entity, s.audit, s.clock, s.draft, s.facade, s.cache)

	return s
}

func TestCompile_TypeDirectives(t *testing.T) {
	s := newShop(t)

	s.audit.Directives = directives(t,
		"//mixin:extends Entity visibility=public deps=Clock suppress=shop.Clock",
		"//mixin:ignores-class Draft",
	)
	s.entity.Directives = directives(t, "//mixin:uses Cache args=Entity")
	s.draft.Directives = directives(t, "//mixin:ignores-mixin Audit Clock")
	s.facade.Directives = directives(t, "//mixin:complete Entity")
	s.cache.Directives = directives(t, "//mixin:uses Clock deps=Cache[K]")

	reg := declare.NewRegistry()
	diags := Compile(s.graph, reg)
	require.True(t, diags.IsValid(), diags.Error())

	audit := reg.TypeDeclarations(s.audit)
	require.Len(t, audit.Extends, 1)

	ext := audit.Extends[0]
	assert.Same(t, s.entity, ext.Target)
	assert.Equal(t, declare.Public, ext.Visibility)
	assert.Equal(t, []*analyze.TypeInfo{s.clock}, ext.Dependencies)
	assert.Equal(t, []*analyze.TypeInfo{s.clock}, ext.Suppressed)
	assert.Equal(t, declare.Origin{Kind: declare.OriginExtends, Declarer: testPkg + ".Audit", Location: "shop.go:1"}, ext.Origin)

	require.Len(t, audit.IgnoresClass, 1)
	assert.Same(t, s.draft, audit.IgnoresClass[0].Class)

	uses := reg.TypeDeclarations(s.entity).Uses
	require.Len(t, uses, 1)
	assert.Same(t, s.cache, uses[0].Mixin)
	assert.Equal(t, []*analyze.TypeInfo{s.entity}, uses[0].TypeArgs)

	ignores := reg.TypeDeclarations(s.draft).IgnoresMixin
	require.Len(t, ignores, 2)
	assert.Same(t, s.audit, ignores[0].Mixin)
	assert.Same(t, s.clock, ignores[1].Mixin)

	complete := reg.TypeDeclarations(s.facade).CompleteInterfaces
	require.Len(t, complete, 1)
	assert.Same(t, s.entity, complete[0].Target)

	cacheUses := reg.TypeDeclarations(s.cache).Uses
	require.Len(t, cacheUses, 1)
	require.Len(t, cacheUses[0].Dependencies, 1)
	assert.Equal(t, []*analyze.TypeInfo{s.cacheParam}, cacheUses[0].Dependencies[0].TypeArgs,
		"parameters of the declaring type are in scope")
}

func TestCompile_PackageDirectives(t *testing.T) {
	s := newShop(t)

	pkg := s.graph.Package(testPkg)
	pkg.Directives = directives(t,
		"//mixin:mix Entity Cache[Clock] kind=used visibility=public",
		"//mixin:generated",
	)

	reg := declare.NewRegistry()
	diags := Compile(s.graph, reg)
	require.True(t, diags.IsValid(), diags.Error())

	decl := reg.PackageDeclarations(testPkg)
	assert.True(t, decl.Generated)
	require.Len(t, decl.Mix, 1)

	mix := decl.Mix[0]
	assert.Same(t, s.entity, mix.Target)
	assert.Equal(t, s.graph.MustInstantiate(s.cache, s.clock), mix.Mixin)
	assert.Equal(t, declare.Used, mix.Kind)
	assert.Equal(t, declare.Public, mix.Visibility)
	assert.Equal(t, declare.OriginMix, mix.Origin.Kind)
	assert.Equal(t, testPkg, mix.Origin.Declarer)
}

func TestCompile_Diagnostics(t *testing.T) {
	tests := []struct {
		name        string
		attach      func(s *shop) *analyze.TypeInfo
		line        string
		code        string
		suggestions []string
	}{
		{
			name:        "unknown verb",
			attach:      func(s *shop) *analyze.TypeInfo { return s.audit },
			line:        "//mixin:extend Entity",
			code:        diagnostic.CodeUnknownVerb,
			suggestions: []string{"extends"},
		},
		{
			name:        "unknown type",
			attach:      func(s *shop) *analyze.TypeInfo { return s.audit },
			line:        "//mixin:extends Entty",
			code:        diagnostic.CodeUnknownType,
			suggestions: []string{testPkg + ".Entity"},
		},
		{
			name:        "unknown option",
			attach:      func(s *shop) *analyze.TypeInfo { return s.audit },
			line:        "//mixin:extends Entity dep=Clock",
			code:        diagnostic.CodeInvalidOption,
			suggestions: []string{"deps"},
		},
		{
			name:   "bad visibility",
			attach: func(s *shop) *analyze.TypeInfo { return s.audit },
			line:   "//mixin:extends Entity visibility=protected",
			code:   diagnostic.CodeInvalidOption,
		},
		{
			name:   "misplaced",
			attach: func(s *shop) *analyze.TypeInfo { return s.facade },
			line:   "//mixin:extends Entity",
			code:   diagnostic.CodeMisplaced,
		},
		{
			name:   "missing argument",
			attach: func(s *shop) *analyze.TypeInfo { return s.audit },
			line:   "//mixin:extends",
			code:   diagnostic.CodeMalformed,
		},
		{
			name:   "arity",
			attach: func(s *shop) *analyze.TypeInfo { return s.entity },
			line:   "//mixin:uses Cache[Clock, Audit]",
			code:   diagnostic.CodeInvalidGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShop(t)

			typ := tt.attach(s)
			typ.Directives = directives(t, tt.line)

			reg := declare.NewRegistry()
			diags := Compile(s.graph, reg)

			require.Len(t, diags.Errors, 1, diags.Error())
			assert.Equal(t, tt.code, diags.Errors[0].Code)
			assert.Equal(t, typ.String(), diags.Errors[0].Subject)
			assert.Equal(t, "shop.go:1", diags.Errors[0].Location)

			for _, sug := range tt.suggestions {
				assert.Contains(t, diags.Errors[0].Suggestions, sug)
			}

			assert.True(t, reg.TypeDeclarations(typ).IsEmpty(), "nothing is recorded for a bad directive")
		})
	}
}

func TestCompile_MixNeedsTwoTypes(t *testing.T) {
	s := newShop(t)
	s.graph.Package(testPkg).Directives = directives(t, "//mixin:mix Entity", "//mixin:mix Entity Audit kind=sometimes")

	reg := declare.NewRegistry()
	diags := Compile(s.graph, reg)

	require.Len(t, diags.Errors, 2)
	assert.Equal(t, diagnostic.CodeMalformed, diags.Errors[0].Code)
	assert.Equal(t, diagnostic.CodeInvalidOption, diags.Errors[1].Code)
	assert.Empty(t, reg.PackageDeclarations(testPkg).Mix)
}
