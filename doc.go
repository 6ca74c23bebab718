// Package roomassign assigns physical hotel rooms to bookings.
//
// An Engine takes a RoomAssignmentRequest, reads the rooms free for the stay from an
// Inventory, applies the property's prioritized business rules, scores every candidate
// and reserves the best one before any notification goes out. Results keep an
// append-only history so reassignments stay auditable.
//
// # Quick Start
//
//	import (
//	    "github.com/himmu2625/baithkaGhar-sub009"
//	    "github.com/himmu2625/baithkaGhar-sub009/store/memory"
//	    "github.com/himmu2625/baithkaGhar-sub009/notify/webhook"
//	)
//
//	cfg := roomassign.DefaultConfig()
//	inv := memory.NewInventory(rooms...)
//	dispatcher := webhook.New(webhook.Config{Endpoints: map[string]string{"guest": guestURL}})
//
//	engine, err := roomassign.NewEngine(&cfg, inv, dispatcher)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := engine.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Stop(context.Background())
//
//	res, err := engine.AssignRoom(ctx, req)
//
// # Assignment Flow
//
// For each request the engine:
//
//  1. Returns the existing result when the booking is already assigned
//  2. Loads the property's AssignmentConfig; automation off holds the request for staff
//  3. Fetches availability with bounded retries, falling back to the last snapshot
//  4. Selects applicable rules and scores rooms; constraint violations score zero
//  5. Shifts the stay by one day at either boundary when nothing scores
//  6. Reserves the top room under the property lock, trying the next on conflict
//  7. Notifies guest and staff channels outside the lock
//  8. Stores the result and calls the OnAssigned hook
//
// Requests progress through a state machine:
//
//	Unassigned → RulesApplied → Scored → Assigned | FallbackAssigned | Failed
//	Unassigned → PendingManual → Assigned
//
// # Concurrency
//
// Two requests never hold the same room for overlapping windows. The property lock is
// striped and held only from the idempotency re-check to the reservation, and the
// Inventory's ReserveRoom is itself a compare-and-swap. Failed notifications and
// scheduled properties go through a background queue started with Start.
//
// # Storage
//
// Configs and results live behind ConfigStore and AssignmentStore. The store packages
// provide in-memory, NATS JetStream KV, Redis and PostgreSQL implementations.
//
// See the examples/ directory for complete working examples.
package roomassign
