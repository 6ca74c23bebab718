// Package memory provides in-process implementations of the engine's collaborators.
//
// The inventory is a complete provider with reservation compare-and-swap, which makes
// it suitable for tests, demos and single-replica deployments.
package memory
