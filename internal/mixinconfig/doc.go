// Package mixinconfig builds and holds mixin configurations.
//
// A Builder accumulates intents per target type, closes generic mixins,
// elides equal redeclarations and rejects conflicting ones. BuildConfiguration
// materialises an immutable Configuration: one ClassContext per target plus
// the complete-interface index. A build either fully succeeds or returns
// every problem it found; no partial configuration is produced.
//
// The active configuration travels in a context.Context. EnterScope pushes a
// configuration for the calls that receive the returned context; Scope.Close
// pops it. Scopes are strictly nested: closing a scope twice or while a scope
// entered from it is still open panics.
package mixinconfig
