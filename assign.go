package roomassign

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/himmu2625/baithkaGhar-sub009/internal/inventory"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// fallbackShifts are tried in order when the requested window has no candidate. Each
// boundary moves by the given multiple of Config.FallbackShift.
var fallbackShifts = []struct {
	checkIn, checkOut time.Duration
}{
	{checkIn: 1},
	{checkIn: -1},
	{checkOut: 1},
	{checkOut: -1},
}

// candidates is the ranked room list for one stay window.
type candidates struct {
	window   types.StayWindow
	ranked   []types.ScoredRoom
	rules    []types.AssignmentRule
	degraded bool
	snapAt   time.Time
	shifted  bool
}

// AssignRoom assigns the best available room to a booking.
//
// The call is idempotent: a booking that already has a result gets that result back
// and the inventory is not touched again. A call made while another call for the same
// booking is still running waits for it and returns its outcome, so callers only ever
// see stored results.
//
// Parameters:
//   - ctx: Context bounding provider and notification calls
//   - req: Booking to place
//
// Returns:
//   - *RoomAssignmentResult: The stored result
//   - error: ErrInvalidRequest, ErrConfigurationUnavailable, ErrManualAssignmentRequired,
//     ErrAssignmentQueued, ErrProviderUnavailable, ErrNoRoomsAvailable or a store error
//
// Example:
//
//	res, err := engine.AssignRoom(ctx, req)
//	switch {
//	case errors.Is(err, roomassign.ErrManualAssignmentRequired):
//	    // staff picks a room from engine.PendingManual(req.PropertyID)
//	case err != nil:
//	    return err
//	}
//	log.Printf("booking %s in room %s", res.BookingID, res.Room.RoomNumber)
func (e *Engine) AssignRoom(ctx context.Context, req *RoomAssignmentRequest) (*RoomAssignmentResult, error) {
	return e.assign(ctx, req, false)
}

// BulkAssignment assigns the requests one after another.
//
// A failing request is logged and reported in Failed; the rest of the batch continues.
func (e *Engine) BulkAssignment(ctx context.Context, reqs []*RoomAssignmentRequest) *BulkResult {
	out := &BulkResult{
		Assigned: make([]*RoomAssignmentResult, 0, len(reqs)),
		Failed:   make(map[string]error),
	}

	for i, req := range reqs {
		res, err := e.AssignRoom(ctx, req)
		if err != nil {
			key := fmt.Sprintf("#%d", i)
			if req != nil && req.BookingID != "" {
				key = req.BookingID
			}
			out.Failed[key] = err
			e.logger.Warn("bulk assignment item failed", "booking_id", key, "error", err)

			continue
		}
		out.Assigned = append(out.Assigned, res)
	}

	e.logger.Info("bulk assignment finished", "assigned", len(out.Assigned), "failed", len(out.Failed))

	return out
}

func (e *Engine) assign(ctx context.Context, req *RoomAssignmentRequest, deferred bool) (res *RoomAssignmentResult, err error) {
	start := e.clock.Now()

	if err := e.validateRequest(req); err != nil {
		e.metrics.RecordAssignmentFailure("invalid")
		return nil, err
	}

	f, owner := e.claim(req.BookingID)
	if !owner {
		return e.await(ctx, f)
	}
	defer func() { e.settle(req.BookingID, f, res, err) }()

	existing, err := e.lookup(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	cfg, err := e.propertyConfig(ctx, req.PropertyID)
	if err != nil {
		return nil, e.fail(ctx, req.BookingID, "config", err)
	}

	e.resetState(req.BookingID)
	own := *req
	e.requests.Store(req.BookingID, &own)

	if !cfg.Automation.AutoAssign {
		e.pending.Store(req.BookingID, &own)
		e.transition(ctx, req.BookingID, StatePendingManual)
		e.metrics.RecordAssignmentFailure("manual_required")
		e.logger.Info("automatic assignment disabled, holding for staff",
			"booking_id", req.BookingID, "property_id", req.PropertyID)

		return nil, fmt.Errorf("%w: property %s", ErrManualAssignmentRequired, req.PropertyID)
	}

	if !deferred && cfg.Preferences.Timing == types.TimingScheduled {
		e.queue.EnqueueAssignment(&own)
		e.logger.Debug("property assigns on schedule, request queued",
			"booking_id", req.BookingID, "depth", e.queue.Len())

		return nil, fmt.Errorf("%w: property %s", ErrAssignmentQueued, req.PropertyID)
	}

	e.fillGroupAnchor(&own)

	cands, err := e.rank(ctx, &own, cfg)
	if err != nil {
		reason := "no_rooms"
		if errors.Is(err, ErrProviderUnavailable) {
			reason = "provider"
		}

		return nil, e.fail(ctx, req.BookingID, reason, err)
	}

	res, release, err := e.reserveBest(ctx, &own, cfg, cands)
	if err != nil {
		return nil, err
	}
	if release == nil {
		// stored by an earlier call
		return res, nil
	}

	return e.finish(ctx, res, cfg, start, release)
}

// rank fetches, filters and scores rooms for the request window, then for the
// shifted fallback windows when the requested one has no positive candidate.
func (e *Engine) rank(ctx context.Context, req *RoomAssignmentRequest, cfg *AssignmentConfig) (*candidates, error) {
	opts := inventory.FetchOptions{Backoff: cfg.Automation.RetryBackoff}
	if cfg.Automation.MaxRetries > 0 {
		opts.Attempts = 1 + cfg.Automation.MaxRetries
	}

	window := req.Window()
	fetched, err := e.fetcher.Fetch(ctx, req.PropertyID, window, opts)
	if err != nil {
		return nil, err
	}

	rules := e.evaluator.FindApplicableRules(req, cfg)
	e.transition(ctx, req.BookingID, StateRulesApplied)

	ranked := e.score(req, cfg, rules, fetched.Rooms, window)
	e.transition(ctx, req.BookingID, StateScored)

	if len(ranked) > 0 {
		return &candidates{
			window:   window,
			ranked:   ranked,
			rules:    rules,
			degraded: fetched.Degraded,
			snapAt:   fetched.SnapshotAt,
		}, nil
	}

	for _, shift := range fallbackShifts {
		shifted := types.StayWindow{
			CheckIn:  window.CheckIn.Add(shift.checkIn * e.cfg.FallbackShift),
			CheckOut: window.CheckOut.Add(shift.checkOut * e.cfg.FallbackShift),
		}
		if !shifted.CheckOut.After(shifted.CheckIn) {
			continue
		}

		alt, err := e.fetcher.Fetch(ctx, req.PropertyID, shifted, opts)
		if err != nil {
			e.logger.Warn("fallback window fetch failed",
				"booking_id", req.BookingID, "check_in", shifted.CheckIn, "check_out", shifted.CheckOut, "error", err)
			continue
		}

		ranked = e.score(req, cfg, rules, alt.Rooms, shifted)
		e.metrics.RecordFallbackSearch(len(ranked) > 0)
		if len(ranked) > 0 {
			e.logger.Info("room found in shifted stay window",
				"booking_id", req.BookingID, "check_in", shifted.CheckIn, "check_out", shifted.CheckOut)

			return &candidates{
				window:   shifted,
				ranked:   ranked,
				rules:    rules,
				degraded: alt.Degraded,
				snapAt:   alt.SnapshotAt,
				shifted:  true,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: property %s, %s to %s", ErrNoRoomsAvailable,
		req.PropertyID, window.CheckIn.Format(time.DateOnly), window.CheckOut.Format(time.DateOnly))
}

func (e *Engine) score(req *RoomAssignmentRequest, cfg *AssignmentConfig, rules []AssignmentRule,
	rooms []RoomInventoryRecord, window types.StayWindow,
) []types.ScoredRoom {
	sc := &types.ScoringContext{
		Request:          req,
		Rules:            rules,
		Config:           cfg,
		Window:           window,
		ConsecutiveStays: e.turnover.Chains(req.PropertyID, rooms, window.CheckIn),
	}

	return e.scorer.ScoreAll(rooms, sc)
}

// reserveBest reserves the highest ranked room that is still free.
//
// The property lock is held from the idempotency re-check to the commit. A nil release
// func with a nil error means the booking was already assigned.
func (e *Engine) reserveBest(ctx context.Context, req *RoomAssignmentRequest, cfg *AssignmentConfig,
	cands *candidates,
) (*RoomAssignmentResult, func(), error) {
	unlock := e.locker.Lock(req.PropertyID)
	defer unlock()

	if res, ok := e.results.Load(req.BookingID); ok {
		return res.Clone(), nil, nil
	}

	var (
		chosen    *types.ScoredRoom
		conflicts []types.Conflict
	)
	for i := range cands.ranked {
		cand := cands.ranked[i]
		err := e.inventory.ReserveRoom(ctx, req.PropertyID, cand.Room.RoomNumber, cands.window, req.BookingID)
		if err == nil {
			chosen = &cand
			break
		}
		if !errors.Is(err, ErrRoomNotAvailable) {
			return nil, nil, e.fail(ctx, req.BookingID, "conflict",
				fmt.Errorf("reserve room %s: %w", cand.Room.RoomNumber, err))
		}

		e.metrics.RecordReservationConflict()
		conflicts = append(conflicts, types.Conflict{
			Type:    types.ConflictRoomTaken,
			Message: fmt.Sprintf("room %s was taken by a concurrent booking", cand.Room.RoomNumber),
		})
		if cfg.Automation.ConflictResolution == types.ConflictFail {
			return nil, nil, e.fail(ctx, req.BookingID, "conflict",
				fmt.Errorf("%w: room %s taken and conflict resolution is fail", ErrRoomNotAvailable, cand.Room.RoomNumber))
		}
	}
	if chosen == nil {
		return nil, nil, e.fail(ctx, req.BookingID, "conflict",
			fmt.Errorf("%w: every candidate was reserved concurrently", ErrNoRoomsAvailable))
	}

	if cands.shifted {
		conflicts = append(conflicts, types.Conflict{
			Type: types.ConflictStayWindowShifted,
			Message: fmt.Sprintf("stay moved to %s - %s",
				cands.window.CheckIn.Format(time.DateOnly), cands.window.CheckOut.Format(time.DateOnly)),
		})
	}
	if cands.degraded {
		conflicts = append(conflicts, types.Conflict{
			Type:    types.ConflictDegradedInventory,
			Message: "inventory snapshot from " + cands.snapAt.Format(time.RFC3339),
		})
	}

	method := MethodAutomatic
	switch {
	case cands.shifted:
		method = MethodFallback
	case chosen.Room.RoomType.Tier() > req.RoomTypeBooked.Tier():
		method = MethodUpgraded
	}

	res := e.newResult(req, chosen.Room, cands.window, method, cfg, cands.rules)
	res.Conflicts = conflicts
	res.AssignedBy = e.cfg.SystemActor

	to := StateAssigned
	if cands.shifted {
		to = StateFallbackAssigned
	}
	e.commit(ctx, req, res, to)

	release := func() {
		e.rollback(ctx, res)
	}

	return res.Clone(), release, nil
}

// commit records a reserved result. The caller holds the property lock and owns the
// booking's flight. The result is cached only once finish has stored it.
func (e *Engine) commit(ctx context.Context, req *RoomAssignmentRequest, res *RoomAssignmentResult, to AssignmentState) {
	e.turnover.Record(res.PropertyID, res.Room.RoomNumber, res.BookingID, res.Window())
	if id := req.GroupID(); id != "" {
		e.groupFloors.LoadOrStore(groupKey(req.PropertyID, id), res.Room.Floor)
	}
	e.pending.Delete(res.BookingID)
	e.transition(ctx, res.BookingID, to)
}

// rollback undoes commit after the result could not be stored.
func (e *Engine) rollback(ctx context.Context, res *RoomAssignmentResult) {
	ctx = context.WithoutCancel(ctx)
	if err := e.inventory.ReleaseRoom(ctx, res.PropertyID, res.Room.RoomNumber, res.BookingID); err != nil {
		e.logger.Error("release room after failed save",
			"booking_id", res.BookingID, "room", res.Room.RoomNumber, "error", err)
	}
	e.turnover.Forget(res.PropertyID, res.Room.RoomNumber, res.BookingID)
}

// finish notifies, persists and reports a committed result.
func (e *Engine) finish(ctx context.Context, res *RoomAssignmentResult, cfg *AssignmentConfig,
	start time.Time, rollback func(),
) (*RoomAssignmentResult, error) {
	res.Notifications = e.notify(ctx, res, cfg)

	if err := e.assignments.Save(ctx, res); err != nil {
		rollback()
		return nil, e.fail(ctx, res.BookingID, "store", fmt.Errorf("save assignment %s: %w", res.BookingID, err))
	}
	e.results.Store(res.BookingID, res.Clone())

	e.metrics.RecordAssignment(string(res.Method), e.clock.Now().Sub(start).Seconds())
	e.logger.Info("room assigned",
		"booking_id", res.BookingID,
		"property_id", res.PropertyID,
		"room", res.Room.RoomNumber,
		"method", res.Method,
		"confidence", res.Confidence,
		"version", res.Version,
	)

	if err := e.hooks.OnAssigned(ctx, res.Clone()); err != nil {
		e.logger.Warn("OnAssigned hook failed", "booking_id", res.BookingID, "error", err)
	}

	return res.Clone(), nil
}

// newResult builds a version 1 result for the room.
func (e *Engine) newResult(req *RoomAssignmentRequest, room RoomInventoryRecord, window types.StayWindow,
	method AssignmentMethod, cfg *AssignmentConfig, rules []AssignmentRule,
) *RoomAssignmentResult {
	return &RoomAssignmentResult{
		AssignmentID:   uuid.NewString(),
		BookingID:      req.BookingID,
		PropertyID:     req.PropertyID,
		GuestID:        req.GuestID,
		GroupID:        req.GroupID(),
		CheckIn:        window.CheckIn,
		CheckOut:       window.CheckOut,
		Room:           room.Snapshot(),
		RoomTypeBooked: req.RoomTypeBooked,
		Method:         method,
		Confidence:     confidence(req, room, method),
		Upgrades:       detectUpgrades(req.RoomTypeBooked, room.RoomType, window, cfg, rules),
		AssignedAt:     e.clock.Now(),
		Version:        1,
	}
}

// confidence is 0.7, plus 0.15 for the booked type, plus 0.10 when accessibility
// needs are met, plus 0.05 for automatic selection, capped at 1.
func confidence(req *RoomAssignmentRequest, room RoomInventoryRecord, method AssignmentMethod) float64 {
	c := 0.7
	if room.RoomType == req.RoomTypeBooked {
		c += 0.15
	}
	if req.Accessibility.Any() && req.Accessibility.SatisfiedBy(room.Features) {
		c += 0.10
	}
	if method == MethodAutomatic || method == MethodUpgraded {
		c += 0.05
	}

	return math.Min(1, math.Round(c*100)/100)
}

// detectUpgrades reports the tier improvement of the room over the booked type.
//
// The value is the nightly rate difference from Preferences.RoomTypeRates times the
// nights of the window, zero when a rate is unknown.
func detectUpgrades(booked, assigned RoomType, window types.StayWindow, cfg *AssignmentConfig,
	rules []AssignmentRule,
) []types.Upgrade {
	if assigned.Tier() <= booked.Tier() {
		return nil
	}

	reason := "availability"
	for _, r := range rules {
		if r.AllowsAutomaticUpgrade() {
			reason = r.Name
			if reason == "" {
				reason = r.ID
			}
			break
		}
	}

	value := decimal.Zero
	if cfg != nil {
		from, okFrom := cfg.Preferences.RoomTypeRates[booked]
		to, okTo := cfg.Preferences.RoomTypeRates[assigned]
		if okFrom && okTo && to.GreaterThan(from) {
			value = to.Sub(from).Mul(decimal.NewFromInt(int64(window.Nights())))
		}
	}

	return []types.Upgrade{{From: booked, To: assigned, Reason: reason, Value: value}}
}

// fillGroupAnchor sets the group's anchor floor from earlier members when unset.
func (e *Engine) fillGroupAnchor(req *RoomAssignmentRequest) {
	if req.Group == nil || req.Group.AnchorFloor != nil {
		return
	}
	if floor, ok := e.groupFloors.Load(groupKey(req.PropertyID, req.Group.GroupID)); ok {
		g := *req.Group
		g.AnchorFloor = &floor
		req.Group = &g
	}
}

func groupKey(propertyID, groupID string) string {
	return propertyID + "/" + groupID
}
