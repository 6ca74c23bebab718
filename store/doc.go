// Package store groups the persistence backends of the assignment engine.
//
// Subpackages:
//
//   - memory: In-process config store, assignment store and inventory
//   - natskv: Config store on NATS JetStream KeyValue
//   - redisstore: Assignment store on Redis
//   - postgres: Assignment store on PostgreSQL
package store
