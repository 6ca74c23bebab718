// Package inventory holds the engine's inventory-side machinery: per-property locks,
// the last-known availability snapshots used in degraded mode, the retrying provider
// fetcher and the turnover tracker behind the consecutive-stay constraint.
package inventory
