// Package declare holds the normalized declaration model: the intents that
// front ends (Go directives, YAML manifests, code) record and that the
// declarative analyzers turn into builder calls.
//
// Two layers are modelled:
//   - Declaration records mirror what a user writes next to a type or in a
//     package: Extends (on a mixin), Uses and IgnoresMixin (on a target),
//     IgnoresClass (on a mixin), CompleteInterface (on an interface) and Mix
//     (on a package).
//   - Intent is the single normalized "add mixin M of kind K to target T"
//     record every declaration reduces to.
//
// Registry is an in-memory Source of declaration records. Resolution never
// depends on which front end filled it.
package declare
