package declare

import (
	"fmt"
	"slices"

	"mixin-resolver/internal/analyze"
	"mixin-resolver/internal/common"
)

// Intent is one explicit "add mixin Mixin of kind Kind to Target" statement.
//
// TypeArgs, when set, closes an open generic Mixin. Dependencies and
// Suppressed are sets: order and repetition are not significant.
type Intent struct {
	Target       *analyze.TypeInfo
	Mixin        *analyze.TypeInfo
	Kind         MixinKind
	Visibility   Visibility
	Dependencies []*analyze.TypeInfo
	Suppressed   []*analyze.TypeInfo
	TypeArgs     []*analyze.TypeInfo
	Origin       Origin
}

// IsDuplicateOf reports whether i and o name the same target and mixin.
func (i Intent) IsDuplicateOf(o Intent) bool {
	return i.Target == o.Target && i.Mixin == o.Mixin
}

// Equal reports whether i and o are duplicates whose other fields match.
// Origin is ignored.
func (i Intent) Equal(o Intent) bool {
	return i.IsDuplicateOf(o) &&
		i.Kind == o.Kind &&
		i.Visibility == o.Visibility &&
		SameTypeSet(i.Dependencies, o.Dependencies) &&
		SameTypeSet(i.Suppressed, o.Suppressed) &&
		sameTypeList(i.TypeArgs, o.TypeArgs)
}

// String returns e.g. "shop.Entity <- shop.Auditing (extending)".
func (i Intent) String() string {
	return fmt.Sprintf("%s <- %s (%s)", i.Target, i.Mixin, i.Kind)
}

// SameTypeSet reports whether a and b hold the same types, ignoring order
// and repetition.
func SameTypeSet(a, b []*analyze.TypeInfo) bool {
	as, bs := typeSet(a), typeSet(b)
	if len(as) != len(bs) {
		return false
	}

	for t := range as {
		if _, ok := bs[t]; !ok {
			return false
		}
	}

	return true
}

// NormalizeTypes returns ts deduplicated and sorted by qualified name.
// The result is a fresh slice; nil for an empty input.
func NormalizeTypes(ts []*analyze.TypeInfo) []*analyze.TypeInfo {
	out := common.Dedup(slices.DeleteFunc(slices.Clone(ts), func(t *analyze.TypeInfo) bool { return t == nil }))
	if len(out) == 0 {
		return nil
	}

	analyze.SortTypes(out)

	return out
}

func typeSet(ts []*analyze.TypeInfo) map[*analyze.TypeInfo]struct{} {
	set := make(map[*analyze.TypeInfo]struct{}, len(ts))
	for _, t := range ts {
		if t != nil {
			set[t] = struct{}{}
		}
	}

	return set
}

func sameTypeList(a, b []*analyze.TypeInfo) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
