// Package match ranks known type names against an unresolved reference.
//
// Front ends use it to attach "did you mean" suggestions to diagnostics
// when a directive or manifest names a type that is not in the graph.
// Names are compared after normalisation: case folding, separator removal
// and stripping of affixes common in mixin code ("Mixin", "Impl", "Base").
package match
