package manifest

import (
	"mixin-resolver/internal/declare"
)

// Manifest is the root of a mixin manifest file.
type Manifest struct {
	// Version of the manifest schema.
	Version string `yaml:"version,omitempty"`

	// Package qualifies unqualified names and receives the declared types.
	Package string `yaml:"package,omitempty"`

	Types              []TypeDecl               `yaml:"types,omitempty"`
	Extends            []ExtendsEntry           `yaml:"extends,omitempty"`
	Uses               []UsesEntry              `yaml:"uses,omitempty"`
	Mix                []MixEntry               `yaml:"mix,omitempty"`
	CompleteInterfaces []CompleteInterfaceEntry `yaml:"complete_interfaces,omitempty"`
	Ignores            []IgnoresEntry           `yaml:"ignores,omitempty"`

	// Path is the file the manifest was loaded from, if any.
	Path string `yaml:"-"`
}

// TypeDecl describes a type without Go source.
type TypeDecl struct {
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind,omitempty"` // struct (default) or interface
	Base       string        `yaml:"base,omitempty"`
	Interfaces StringOrArray `yaml:"interfaces,omitempty"`
	Params     []ParamDecl   `yaml:"params,omitempty"`
	Abstract   bool          `yaml:"abstract,omitempty"`
}

// ParamDecl describes a generic parameter and its constraint.
type ParamDecl struct {
	Name        string        `yaml:"name"`
	Reference   bool          `yaml:"reference,omitempty"`
	Value       bool          `yaml:"value,omitempty"`
	Constructor bool          `yaml:"constructor,omitempty"`
	Types       StringOrArray `yaml:"types,omitempty"`
}

// Options are shared by extends, uses and mix entries.
type Options struct {
	Deps       StringOrArray      `yaml:"deps,omitempty"`
	Suppress   StringOrArray      `yaml:"suppress,omitempty"`
	Visibility declare.Visibility `yaml:"visibility,omitempty"`
	Args       StringOrArray      `yaml:"args,omitempty"`
}

// ExtendsEntry declares that Mixin extends Target.
type ExtendsEntry struct {
	Mixin   string `yaml:"mixin"`
	Target  string `yaml:"target"`
	Options `yaml:",inline"`
}

// UsesEntry declares that Target uses Mixin.
type UsesEntry struct {
	Target  string `yaml:"target"`
	Mixin   string `yaml:"mixin"`
	Options `yaml:",inline"`
}

// MixEntry is a package level declaration naming both sides.
type MixEntry struct {
	Target  string            `yaml:"target"`
	Mixin   string            `yaml:"mixin"`
	Kind    declare.MixinKind `yaml:"kind,omitempty"`
	Options `yaml:",inline"`
}

// CompleteInterfaceEntry declares Interface a complete interface of Target.
type CompleteInterfaceEntry struct {
	Interface string `yaml:"interface"`
	Target    string `yaml:"target"`
}

// IgnoresEntry declares that Target must not receive Mixins.
type IgnoresEntry struct {
	Target string        `yaml:"target"`
	Mixins StringOrArray `yaml:"mixins"`
}

// StringOrArray is unmarshaled from either a string or a sequence of strings.
type StringOrArray []string

// IsEmpty reports whether no declaration is present.
func (m *Manifest) IsEmpty() bool {
	return len(m.Types) == 0 && len(m.Extends) == 0 && len(m.Uses) == 0 && len(m.Mix) == 0 &&
		len(m.CompleteInterfaces) == 0 && len(m.Ignores) == 0
}
