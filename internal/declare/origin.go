package declare

import "strings"

// Origin records where an intent was declared. It is carried for error
// messages only and never takes part in equality.
type Origin struct {
	Kind     string // declaration kind, e.g. "extends", "uses", "mix", "fluent"
	Declarer string // type or package holding the declaration
	Location string // file:line or manifest path, if known
}

// Origin kinds used by the analyzers and the fluent builder.
const (
	OriginExtends           = "extends"
	OriginUses              = "uses"
	OriginMix               = "mix"
	OriginCompleteInterface = "complete"
	OriginIgnores           = "ignores"
	OriginFluent            = "fluent"
)

// IsZero reports whether nothing is known about the origin.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// String returns e.g. "extends on shop.Auditing (shop.go:66:1)".
func (o Origin) String() string {
	if o.IsZero() {
		return "unknown origin"
	}

	var b strings.Builder

	b.WriteString(o.Kind)

	if o.Declarer != "" {
		if b.Len() > 0 {
			b.WriteString(" on ")
		}

		b.WriteString(o.Declarer)
	}

	if o.Location != "" {
		b.WriteString(" (" + o.Location + ")")
	}

	return b.String()
}

// Less orders origins by their string form. The builder keeps the smallest
// origin of equal redeclarations so a build does not depend on input order.
func (o Origin) Less(other Origin) bool {
	return o.String() < other.String()
}
