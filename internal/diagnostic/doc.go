// Package diagnostic provides structured errors, warnings and notes
// reported while declarations are read and a configuration is built.
//
// Key capabilities:
//   - Malformed directive and manifest entries with their location
//   - Unknown type references with "did you mean" suggestions
//   - Elided duplicate declarations
package diagnostic
