package declare

import (
	"fmt"
	"strings"

	"mixin-resolver/internal/common"
)

// MixinKind tells how a mixin was attached to its target.
type MixinKind int

const (
	Extending MixinKind = iota // the mixin declares the target it extends
	Used                       // the target declares the mixin it uses
)

// String returns a human-readable representation of the MixinKind.
func (k MixinKind) String() string {
	switch k {
	case Extending:
		return "extending"
	case Used:
		return "used"
	default:
		return common.UnknownStr
	}
}

// ParseMixinKind parses the String form of a MixinKind. The empty string
// maps to Extending.
func ParseMixinKind(s string) (MixinKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extending", "extends":
		return Extending, nil
	case "used", "uses":
		return Used, nil
	default:
		return Extending, fmt.Errorf("unknown mixin kind %q (want extending or used)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MixinKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MixinKind) UnmarshalText(b []byte) error {
	v, err := ParseMixinKind(string(b))
	if err != nil {
		return err
	}

	*k = v

	return nil
}

// Visibility is the visibility of members a mixin introduces into its target.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// String returns a human-readable representation of the Visibility.
func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return common.UnknownStr
	}
}

// ParseVisibility parses the String form of a Visibility. The empty string
// maps to Private.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "private":
		return Private, nil
	case "public":
		return Public, nil
	default:
		return Private, fmt.Errorf("unknown visibility %q (want private or public)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(b []byte) error {
	p, err := ParseVisibility(string(b))
	if err != nil {
		return err
	}

	*v = p

	return nil
}
