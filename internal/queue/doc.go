// Package queue holds deferred work for the assignment engine.
//
// Two kinds of items share one FIFO: assignment requests of properties whose timing
// is "scheduled", and notification deliveries that failed during an assignment. A
// ticker drains at most BatchSize items per tick. Failed assignment items and
// notifications that exhausted their attempts are handled by the DropPolicy.
package queue
