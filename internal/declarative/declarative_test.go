package declarative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/mixinconfig"
)

const (
	testPkg = "example.com/shop"
	genPkg  = "example.com/shop/woven"
)

type fixture struct {
	graph                  *analyze.TypeGraph
	reg                    *declare.Registry
	t1, t2, derived        *analyze.TypeInfo
	baseMixin, subMixin    *analyze.TypeInfo
	clock, facade, generic *analyze.TypeInfo
	woven                  *analyze.TypeInfo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{graph: analyze.NewTypeGraph(), reg: declare.NewRegistry()}

	f.t1 = analyze.NewStruct(testPkg, "T1", nil)
	f.t2 = analyze.NewStruct(testPkg, "T2", nil)
	f.derived = analyze.NewStruct(testPkg, "Derived", f.t1)
	f.baseMixin = analyze.NewStruct(testPkg, "BaseMixin", nil)
	f.subMixin = analyze.NewStruct(testPkg, "SubMixin", f.baseMixin)
	f.clock = analyze.NewStruct(testPkg, "Clock", nil)
	f.facade = analyze.NewInterface(testPkg, "Facade")
	f.generic = analyze.NewStruct(testPkg, "Store", nil)
	f.generic.AddTypeParam("T", analyze.Constraint{})
	f.woven = analyze.NewStruct(genPkg, "T1Woven", nil)

	f.graph.MustAdd(f.t1, f.t2, f.derived, f.baseMixin, f.subMixin, f.clock, f.facade, f.generic, f.woven)

	return f
}

func origin(kind string, declarer *analyze.TypeInfo) declare.Origin {
	return declare.Origin{Kind: kind, Declarer: declarer.String()}
}

func build(t *testing.T, c *ConfigurationBuilder) *mixinconfig.Configuration {
	t.Helper()

	cfg, err := c.BuildConfiguration(context.Background())
	require.NoError(t, err)

	return cfg
}

func TestExtendsAnalyzer_SubclassDeclarationReplacesInherited(t *testing.T) {
	f := newFixture(t)

	f.reg.AddExtends(f.baseMixin, declare.Extends{Target: f.t1, Origin: origin(declare.OriginExtends, f.baseMixin)})
	f.reg.AddExtends(f.baseMixin, declare.Extends{
		Target:  f.t2,
		Options: declare.Options{Dependencies: []*analyze.TypeInfo{f.clock}},
		Origin:  origin(declare.OriginExtends, f.baseMixin),
	})
	f.reg.AddExtends(f.subMixin, declare.Extends{
		Target:  f.t1,
		Options: declare.Options{Visibility: declare.Public},
		Origin:  origin(declare.OriginExtends, f.subMixin),
	})

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddTypes(f.baseMixin, f.subMixin))

	cfg := build(t, c)

	t1 := cfg.GetExact(f.t1)
	require.NotNil(t, t1)
	assert.ElementsMatch(t, []*analyze.TypeInfo{f.baseMixin, f.subMixin}, t1.MixinTypes())

	sub, ok := t1.Mixin(f.subMixin)
	require.True(t, ok)
	assert.Equal(t, declare.Public, sub.Visibility(), "own declaration wins over the inherited one")
	assert.Equal(t, f.subMixin.String(), sub.Origin().Declarer)

	t2 := cfg.GetExact(f.t2)
	require.NotNil(t, t2)

	inherited, ok := t2.Mixin(f.subMixin)
	require.True(t, ok)
	assert.Equal(t, []*analyze.TypeInfo{f.clock}, inherited.ExplicitDependencies())
	assert.Equal(t, f.baseMixin.String(), inherited.Origin().Declarer)
}

func TestExtendsAnalyzer_RedundantDeclarationsIgnored(t *testing.T) {
	f := newFixture(t)

	f.reg.AddExtends(f.baseMixin, declare.Extends{Target: f.t1, Origin: origin(declare.OriginExtends, f.baseMixin)})
	f.reg.AddExtends(f.baseMixin, declare.Extends{Target: f.t1, Origin: origin(declare.OriginExtends, f.baseMixin)})
	f.reg.AddMix(testPkg, declare.Mix{Target: f.t1, Mixin: f.baseMixin, Origin: declare.Origin{Kind: declare.OriginMix}})

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddType(f.baseMixin))
	require.NoError(t, c.AddPackage(testPkg))

	cfg := build(t, c)
	assert.Equal(t, 1, cfg.GetExact(f.t1).Len())
}

func TestExtendsAnalyzer_InheritedArgumentsAreDropped(t *testing.T) {
	f := newFixture(t)

	closed := analyze.NewStruct(testPkg, "IntStore", f.graph.MustInstantiate(f.generic, f.graph.Lookup("", "int")))
	f.graph.MustAdd(closed)

	param := f.generic.TypeParams[0]
	f.reg.AddExtends(f.generic, declare.Extends{
		Target: f.t1,
		Options: declare.Options{
			TypeArgs:     []*analyze.TypeInfo{f.clock},
			Dependencies: []*analyze.TypeInfo{f.graph.MustInstantiate(f.generic, param)},
		},
		Origin: origin(declare.OriginExtends, f.generic),
	})

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddTypes(f.generic, closed))

	cfg := build(t, c)

	t1 := cfg.GetExact(f.t1)
	require.NotNil(t, t1)

	m, ok := t1.Mixin(closed)
	require.True(t, ok)
	assert.Equal(t, "example.com/shop.Store[int]", m.ExplicitDependencies()[0].String())
	assert.True(t, t1.ContainsMixin(f.graph.MustInstantiate(f.generic, f.clock)))
}

func TestAnalyzers_UsesCompleteIgnores(t *testing.T) {
	f := newFixture(t)

	f.reg.AddUses(f.t1, declare.Uses{Mixin: f.clock, Origin: origin(declare.OriginUses, f.t1)})
	f.reg.AddExtends(f.baseMixin, declare.Extends{Target: f.t1, Origin: origin(declare.OriginExtends, f.baseMixin)})
	f.reg.AddIgnoresMixin(f.derived, declare.IgnoresMixin{Mixin: f.clock, Origin: origin(declare.OriginIgnores, f.derived)})
	f.reg.AddIgnoresClass(f.baseMixin, declare.IgnoresClass{Class: f.derived, Origin: origin(declare.OriginIgnores, f.baseMixin)})
	f.reg.AddCompleteInterface(f.facade, declare.CompleteInterface{Target: f.t1, Origin: origin(declare.OriginCompleteInterface, f.facade)})

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddDiscovered(GraphDiscovery{Graph: f.graph}, DefaultPackageFilter{Source: f.reg}))

	cfg := build(t, c)

	t1 := cfg.GetWithInheritance(f.t1)
	require.NotNil(t, t1)
	assert.ElementsMatch(t, []*analyze.TypeInfo{f.clock, f.baseMixin, f.subMixin}, t1.MixinTypes(),
		"SubMixin inherits the Extends declaration of BaseMixin")

	clock, _ := t1.Mixin(f.clock)
	assert.Equal(t, declare.Used, clock.Kind())

	assert.Nil(t, cfg.GetWithInheritance(f.derived), "ignoring BaseMixin also ignores SubMixin")

	owner, ok := cfg.ResolveCompleteInterface(f.facade)
	require.True(t, ok)
	assert.Same(t, f.t1, owner.Type())
}

func TestConfigurationBuilder_AddTypeOnce(t *testing.T) {
	f := newFixture(t)

	counter := &countingAnalyzer{}
	c := NewConfigurationBuilder(f.reg, WithTypeAnalyzers(counter), WithPackageAnalyzers(counter))

	require.NoError(t, c.AddType(f.t1))
	require.NoError(t, c.AddType(f.t1))
	require.NoError(t, c.AddPackage(testPkg))
	require.NoError(t, c.AddPackage(testPkg))

	assert.Equal(t, 1, counter.types)
	assert.Equal(t, 1, counter.packages)
}

type countingAnalyzer struct {
	types, packages int
}

func (a *countingAnalyzer) Name() string { return "counting" }

func (a *countingAnalyzer) AnalyzeType(*analyze.TypeInfo, *mixinconfig.Builder) error {
	a.types++
	return nil
}

func (a *countingAnalyzer) AnalyzePackage(string, *mixinconfig.Builder) error {
	a.packages++
	return nil
}

func TestConfigurationBuilder_ConflictCarriesOrigin(t *testing.T) {
	f := newFixture(t)

	f.reg.AddExtends(f.baseMixin, declare.Extends{Target: f.t1, Origin: origin(declare.OriginExtends, f.baseMixin)})
	f.reg.AddMix(testPkg, declare.Mix{
		Target:  f.t1,
		Mixin:   f.baseMixin,
		Options: declare.Options{Suppressed: []*analyze.TypeInfo{f.clock}},
		Origin:  declare.Origin{Kind: declare.OriginMix, Declarer: testPkg, Location: "doc.go:3:1"},
	})

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddType(f.baseMixin))

	err := c.AddPackage(testPkg)
	require.ErrorIs(t, err, mixinconfig.ErrDuplicateMixin)

	var cerr *mixinconfig.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "doc.go:3:1", cerr.Origin.Location)

	cfg, err := c.BuildConfiguration(context.Background())
	assert.Nil(t, cfg)
	require.ErrorIs(t, err, mixinconfig.ErrDuplicateMixin)
	assert.Contains(t, err.Error(), "1 configuration error(s)")
	assert.Contains(t, err.Error(), "Two instances of mixin example.com/shop.BaseMixin are configured for target type example.com/shop.T1.")
}

func TestDiscovery_FilterSkipsGeneratedAndStandard(t *testing.T) {
	f := newFixture(t)

	f.reg.MarkGenerated(genPkg)
	f.reg.AddUses(f.woven, declare.Uses{Mixin: f.clock})

	std := f.graph.Package("fmt")
	std.Standard = true

	filter := DefaultPackageFilter{Source: f.reg}
	assert.False(t, filter.ShouldConsiderPackage(std))
	assert.True(t, filter.ShouldConsiderPackage(f.graph.Packages[genPkg]))
	assert.False(t, filter.ShouldIncludePackage(f.graph.Packages[genPkg]))
	assert.True(t, filter.ShouldIncludePackage(f.graph.Packages[testPkg]))

	c := NewConfigurationBuilder(f.reg)
	require.NoError(t, c.AddDiscovered(GraphDiscovery{Graph: f.graph}, filter))

	cfg := build(t, c)
	assert.False(t, cfg.ContainsExact(f.woven))

	var paths []string
	for _, p := range (GraphDiscovery{Graph: f.graph}).Packages() {
		paths = append(paths, p.Path)
	}

	assert.Equal(t, []string{testPkg, genPkg, "fmt"}, paths)
}

func TestConfigurationBuilder_WithBuilderExtendsActive(t *testing.T) {
	f := newFixture(t)

	parent, err := mixinconfig.BuildNew().ForClass(f.t2).AddMixin(f.clock).BuildConfiguration(context.Background())
	require.NoError(t, err)

	ctx, scope := parent.EnterScope(context.Background())
	defer scope.Close()

	f.reg.AddUses(f.t1, declare.Uses{Mixin: f.clock, Origin: origin(declare.OriginUses, f.t1)})

	c := NewConfigurationBuilder(f.reg, WithBuilder(mixinconfig.BuildFromActive(ctx)))
	require.NoError(t, c.AddType(f.t1))

	cfg, err := c.BuildConfiguration(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.ContainsExact(f.t1))
	assert.True(t, cfg.ContainsExact(f.t2))
	assert.Same(t, parent, cfg.Parent())
}
