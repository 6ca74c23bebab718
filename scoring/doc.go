// Package scoring provides the built-in room scorer.
//
// A scorer turns a candidate room and the request context into a non-negative integer.
// Higher is better. The engine reserves the best-scoring room and treats a score of
// zero as "do not assign".
//
// # Weighted scorer
//
// WeightedScorer adds independent terms to a baseline of 50:
//
//   - Room type: exact match, graded upgrade bonus or downgrade penalty by tier distance
//   - Accessibility: wheelchair, hearing and visual features the guest needs
//   - Guest preferences: floor band, view, bed type, smoking, quiet room, elevator, high floor
//   - Upgrade potential: loyalty bonus when an applicable rule allows automatic upgrades
//   - Group cohesion: same floor as the group and even room number suffix
//   - Family policy: larger rooms for larger parties
//
// A room that violates a hard constraint (blocked, maintenance, reserved window,
// protected inventory, turnover limit) always scores zero.
//
// Custom scorers can be implemented by satisfying the types.RoomScorer interface.
package scoring
