// Package declarative turns declaration records into mixin intents.
//
// Type analyzers run once per registered type and package analyzers once per
// registered package; each feeds a mixinconfig.Builder. A ConfigurationBuilder
// drives the analyzers over the types supplied by a TypeDiscovery.
package declarative
