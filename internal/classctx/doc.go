// Package classctx is the resolved, queryable data model: one immutable
// ClassContext per target type and the Collection that answers exact,
// inheritance-aware and complete-interface lookups over them.
//
// Inheritance resolution walks a target's base chain from the root down.
// At each level the inherited mixins are first filtered by that level's
// suppression rules, then inherited mixins overridden by a mixin freshly
// declared at the level are dropped, and finally the fresh mixins are added.
// For a closed generic instantiation the open definition's own context acts
// as a virtual base between the instantiation's base chain and its own
// declarations.
package classctx
