package match

import (
	"strings"
	"unicode"
)

// affixes are tokens that carry no meaning when comparing mixin type names.
var (
	suffixTokens = []string{"mixin", "impl", "base", "interface", "iface"}
	prefixTokens = []string{"base", "abstract"}
)

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase is
// tokenized, tokens are lower-cased and joined without separators.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithAffixStrip normalizes s and drops one leading and one
// trailing affix token, so "OrderAuditMixin" and "AuditImpl" compare on
// "orderaudit" and "audit". A name made only of an affix is kept.
func NormalizeIdentWithAffixStrip(s string) string {
	tokens := TokenizeIdent(s)

	if len(tokens) > 1 {
		for _, p := range prefixTokens {
			if tokens[0] == p {
				tokens = tokens[1:]
				break
			}
		}
	}

	if len(tokens) > 1 {
		for _, sfx := range suffixTokens {
			if tokens[len(tokens)-1] == sfx {
				tokens = tokens[:len(tokens)-1]
				break
			}
		}
	}

	return strings.Join(tokens, "")
}

// SplitQualified splits a textual type reference into its package qualifier
// and short name, dropping generic arguments:
//   - "shop.Cache[int]" -> ("shop", "Cache")
//   - "example.com/x/shop.Order" -> ("example.com/x/shop", "Order")
//   - "Order" -> ("", "Order")
func SplitQualified(ref string) (qual, name string) {
	if i := strings.IndexByte(ref, '['); i >= 0 {
		ref = ref[:i]
	}

	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}

	return "", ref
}

// TokenizeIdent splits an identifier into lower-case tokens.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "auditMixin" -> ["audit", "mixin"]
//   - "XMLCodec" -> ["xml", "codec"]
//   - "order_audit" -> ["order", "audit"]
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken reports a lower-to-upper transition ("orderID" splits
// before 'I') or the end of an acronym ("XMLCodec" splits before 'C').
func shouldStartNewToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
