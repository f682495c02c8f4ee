// Package directive compiles "//mixin:" comments into declaration records.
//
// Type directives live in the doc comment of the declaring type:
//
//	//mixin:extends <target> [deps=A,B] [suppress=C] [visibility=public] [args=X]
//	//mixin:uses <mixin> [deps=...] [suppress=...] [visibility=...] [args=...]
//	//mixin:complete <target>
//	//mixin:ignores-class <class>...
//	//mixin:ignores-mixin <mixin>...
//
// Package directives may appear in any comment of the package:
//
//	//mixin:mix <target> <mixin> [kind=used] [deps=...] [suppress=...] [visibility=...] [args=...]
//	//mixin:generated
//
// Type references resolve relative to the declaring package and may use the
// declaring type's parameters.
package directive
