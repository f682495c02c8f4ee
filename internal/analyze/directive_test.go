package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	d, ok := ParseDirective("//mixin:extends Cache[Order, int] deps=Audit,Log visibility=public", "shop.go:3:1")
	require.True(t, ok)

	assert.Equal(t, "extends", d.Verb)
	assert.Equal(t, []string{"Cache[Order, int]"}, d.Args)
	assert.Equal(t, "shop.go:3:1", d.Pos)

	deps, ok := d.Option("deps")
	assert.True(t, ok)
	assert.Equal(t, "Audit,Log", deps)

	vis, _ := d.Option("visibility")
	assert.Equal(t, "public", vis)

	_, ok = d.Option("suppress")
	assert.False(t, ok)
}

func TestParseDirective_Arguments(t *testing.T) {
	d, ok := ParseDirective("//mixin:mix  Repository[Order]\tTracing kind=used", "")
	require.True(t, ok)
	assert.Equal(t, "mix", d.Verb)
	assert.Equal(t, []string{"Repository[Order]", "Tracing"}, d.Args)
	assert.Equal(t, map[string]string{"kind": "used"}, d.Options)

	d, ok = ParseDirective("//mixin:abstract", "")
	require.True(t, ok)
	assert.Equal(t, "abstract", d.Verb)
	assert.Empty(t, d.Args)
	assert.Nil(t, d.Options)
}

func TestParseDirective_NotADirective(t *testing.T) {
	for _, text := range []string{"// mixin:extends A", "//go:generate x", "//mixin:", "//mixin: "} {
		t.Run(text, func(t *testing.T) {
			_, ok := ParseDirective(text, "")
			assert.False(t, ok)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"A", "Cache[B, C]", "D"}, SplitList("A, Cache[B, C] ,D"))
	assert.Equal(t, []string{"A"}, SplitList("A"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
}
