// Package types provides the shared data model and collaborator interfaces for the
// room assignment engine.
//
// Types live here instead of the root package so internal packages (rule evaluation,
// scoring, stores, notifiers) can depend on them without importing the engine.
//
// Key types:
//   - RoomAssignmentRequest: A booking awaiting a physical room
//   - RoomInventoryRecord: A candidate room as reported by the inventory provider
//   - AssignmentConfig: Per-property rules, preferences, constraints and policies
//   - RoomAssignmentResult: The outcome of an assignment, kept in append-only history
//   - Logger, MetricsCollector, Hooks: Ambient observability interfaces
package types
