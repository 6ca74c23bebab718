// Package notify renders assignment notifications and routes them to channels.
//
// Dispatchers implement types.NotificationDispatcher. This package provides the
// template renderer and Multi, a router keyed by channel name; subpackages provide
// transports:
//
//   - natsnotify: Publishes to NATS JetStream subjects
//   - webhook: POSTs JSON to per-channel HTTP endpoints
package notify
