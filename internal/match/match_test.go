package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},
		{"auditing", "auditng", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("order", "order"), 1e-9)
	assert.InDelta(t, 0.875, Similarity("auditing", "auditng"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderID", "orderid"},
		{"XMLCodec", "xmlcodec"},
		{"order_audit", "orderaudit"},
		{"auditMixin", "auditmixin"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdent(tt.in))
		})
	}
}

func TestNormalizeIdentWithAffixStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderAuditMixin", "orderaudit"},
		{"AuditImpl", "audit"},
		{"BaseValidation", "validation"},
		{"AbstractRepositoryBase", "repository"},
		{"Mixin", "mixin"},
		{"Order", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdentWithAffixStrip(tt.in))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("OrderID"))
	assert.Equal(t, []string{"xml", "codec"}, TokenizeIdent("XMLCodec"))
	assert.Equal(t, []string{"order", "audit"}, TokenizeIdent("order_audit"))
	assert.Nil(t, TokenizeIdent(""))
}

func TestSplitQualified(t *testing.T) {
	tests := []struct {
		in         string
		qual, name string
	}{
		{"Order", "", "Order"},
		{"shop.Order", "shop", "Order"},
		{"shop.Cache[shop.Order, int]", "shop", "Cache"},
		{"example.com/x/shop.Order", "example.com/x/shop", "Order"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qual, name := SplitQualified(tt.in)
			assert.Equal(t, tt.qual, qual)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestNameSimilarity_StripsAffixes(t *testing.T) {
	assert.InDelta(t, 1.0, NameSimilarity("AuditMixin", "Audit"), 1e-9)
	assert.Less(t, NameSimilarity("Audit", "Order"), 0.5)
}

func TestRankCandidates(t *testing.T) {
	known := []string{
		"mixin-resolver/examples/shop.Timestamps",
		"mixin-resolver/examples/shop.Tracing",
		"mixin-resolver/examples/shop.Order",
	}

	ranked := RankCandidates("Timestamp", known)
	require.Len(t, ranked, 3)
	assert.Equal(t, "mixin-resolver/examples/shop.Timestamps", ranked.Best().Name)
	assert.InDelta(t, 0.9, ranked[0].NameScore, 1e-9)
	assert.InDelta(t, 1.0, ranked[0].QualifierScore, 1e-9)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].CombinedScore, ranked[i].CombinedScore)
	}
}

func TestRankCandidates_QualifierBreaksTies(t *testing.T) {
	known := []string{
		"mixin-resolver/other/billing.Order",
		"mixin-resolver/examples/shop.Order",
	}

	ranked := RankCandidates("shop.Ordr", known)
	require.Len(t, ranked, 2)
	assert.Equal(t, "mixin-resolver/examples/shop.Order", ranked[0].Name)
	assert.InDelta(t, 1.0, ranked[0].QualifierScore, 1e-9)
}

func TestSuggest(t *testing.T) {
	known := []string{"shop.Auditing", "shop.Timestamps", "shop.Order"}

	assert.Equal(t, []string{"shop.Auditing"}, Suggest("Auditng", known, DefaultLimit))
	assert.Nil(t, Suggest("Zebra", known, DefaultLimit))
	assert.Nil(t, Suggest("Auditng", nil, DefaultLimit))
}

func TestCandidateList_Empty(t *testing.T) {
	var c CandidateList
	assert.Nil(t, c.Best())
	assert.Empty(t, c.Top(3))
	assert.Empty(t, c.AboveThreshold(0.1))
}
