package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/internal/backoff"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// FetcherConfig bounds provider calls.
type FetcherConfig struct {
	// Timeout bounds each individual provider call.
	Timeout time.Duration
	// Attempts is the default number of calls before falling back to the snapshot.
	Attempts int
	// Backoff is the default first retry delay.
	Backoff time.Duration
	// MaxBackoff caps retry delays.
	MaxBackoff time.Duration
}

// FetchOptions overrides the retry policy for one fetch. Zero fields keep the defaults.
type FetchOptions struct {
	Attempts int
	Backoff  time.Duration
}

// FetchResult is the availability used for scoring.
type FetchResult struct {
	Rooms []types.RoomInventoryRecord
	// Degraded is true when Rooms came from the last-known snapshot.
	Degraded bool
	// SnapshotAt is when the degraded snapshot was taken.
	SnapshotAt time.Time
}

// Fetcher reads availability with bounded retries and a snapshot fallback.
type Fetcher struct {
	provider  types.InventoryProvider
	snapshots *SnapshotCache
	cfg       FetcherConfig
	clock     types.Clock
	logger    types.Logger
	metrics   types.MetricsCollector
}

// NewFetcher creates a fetcher.
//
// Parameters:
//   - provider: Inventory provider to read from
//   - snapshots: Cache updated on success and read on exhaustion
//   - cfg: Timeout and default retry policy
//   - clock, logger, metrics: Ambient collaborators
func NewFetcher(provider types.InventoryProvider, snapshots *SnapshotCache, cfg FetcherConfig,
	clock types.Clock, logger types.Logger, metrics types.MetricsCollector,
) *Fetcher {
	return &Fetcher{
		provider:  provider,
		snapshots: snapshots,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Fetch reads the rooms available for the window.
//
// Each provider call runs under its own timeout. After the attempts are exhausted the
// property's last snapshot is returned with Degraded set. Without a snapshot the error
// wraps types.ErrProviderUnavailable.
//
// Parameters:
//   - ctx: Caller context; cancellation stops retries
//   - propertyID: Property to read
//   - window: Stay window
//   - opts: Per-call retry overrides
//
// Returns:
//   - FetchResult: Rooms and whether they are degraded
//   - error: Wrapped ErrProviderUnavailable when nothing could be served
func (f *Fetcher) Fetch(ctx context.Context, propertyID string, window types.StayWindow, opts FetchOptions) (FetchResult, error) {
	policy := backoff.Policy{
		Attempts:   f.cfg.Attempts,
		Base:       f.cfg.Backoff,
		Multiplier: 2,
		Cap:        f.cfg.MaxBackoff,
	}
	if opts.Attempts > 0 {
		policy.Attempts = opts.Attempts
	}
	if opts.Backoff > 0 {
		policy.Base = opts.Backoff
	}

	var rooms []types.RoomInventoryRecord
	err := backoff.Retry(ctx, policy, func(ctx context.Context) error {
		callCtx := ctx
		if f.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
			defer cancel()
		}

		start := time.Now()
		got, err := f.provider.GetAvailableRooms(callCtx, propertyID, window.CheckIn, window.CheckOut)
		f.metrics.RecordProviderFetch(err == nil, time.Since(start).Seconds())
		if err != nil {
			return err
		}
		rooms = got

		return nil
	}, func(attempt int, err error, delay time.Duration) {
		f.metrics.RecordProviderRetry()
		f.logger.Warn("inventory fetch failed, retrying",
			"property_id", propertyID, "attempt", attempt, "delay", delay, "error", err)
	})
	if err == nil {
		f.snapshots.Store(propertyID, rooms, f.clock.Now())
		return FetchResult{Rooms: rooms}, nil
	}

	snap, ok := f.snapshots.Load(propertyID)
	if !ok {
		return FetchResult{}, fmt.Errorf("%w: property %s: %w", types.ErrProviderUnavailable, propertyID, err)
	}

	f.metrics.RecordDegradedFetch()
	f.logger.Warn("inventory provider unavailable, using last snapshot",
		"property_id", propertyID, "snapshot_at", snap.FetchedAt, "error", err)

	return FetchResult{Rooms: usable(snap.Rooms), Degraded: true, SnapshotAt: snap.FetchedAt}, nil
}

// usable drops rooms whose snapshot status rules them out.
func usable(rooms []types.RoomInventoryRecord) []types.RoomInventoryRecord {
	out := make([]types.RoomInventoryRecord, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == types.RoomStatusAvailable || r.Status == types.RoomStatusDirty || r.Status == "" {
			out = append(out, r)
		}
	}

	return out
}
