// Package analyze provides the type descriptor arena that mixin resolution
// works against, plus package loading that fills it from Go source.
//
// The arena is an explicit model of a class hierarchy: it does not rely on
// reflection of the running program. Types are registered once, generic
// instantiations are interned, and relations (base chain, implemented
// interfaces, assignability) are answered from the stored descriptors.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/interface/basic/param), base type,
//     interfaces, generic parameters and instantiation arguments
//   - TypeGraph: the arena; owns interning of generic instantiations
//   - Directive: raw "//mixin:" comment captured from Go source
//
// Loading uses golang.org/x/tools/go/packages with AST and go/types. Structs
// map to classes whose base is the first embedded named struct, interfaces
// map to interfaces, and Go type parameters become generic parameters whose
// constraints are checked when an open generic is closed.
package analyze
