package roomassign

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/himmu2625/baithkaGhar-sub009/internal/hooks"
	"github.com/himmu2625/baithkaGhar-sub009/internal/inventory"
	"github.com/himmu2625/baithkaGhar-sub009/internal/logger"
	"github.com/himmu2625/baithkaGhar-sub009/internal/metrics"
	"github.com/himmu2625/baithkaGhar-sub009/internal/queue"
	"github.com/himmu2625/baithkaGhar-sub009/internal/rules"
	"github.com/himmu2625/baithkaGhar-sub009/report"
	"github.com/himmu2625/baithkaGhar-sub009/scoring"
	"github.com/himmu2625/baithkaGhar-sub009/store/memory"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Engine assigns physical rooms to bookings.
//
// One Engine serves every property of the process. Assignments of the same property
// serialize on a striped lock from the idempotency check through the reservation;
// different properties proceed in parallel. Inventory reads and notification sends
// happen outside the lock.
//
// The Engine is safe for concurrent use.
type Engine struct {
	cfg         Config
	inventory   Inventory
	dispatcher  NotificationDispatcher
	configs     ConfigStore
	assignments AssignmentStore
	scorer      RoomScorer
	clock       Clock
	hooks       *Hooks
	metrics     MetricsCollector
	logger      Logger
	validate    *validator.Validate

	evaluator *rules.Evaluator
	fetcher   *inventory.Fetcher
	locker    *inventory.Locker
	turnover  *inventory.Turnover
	queue     *queue.Processor

	// results caches the current stored result per booking ID.
	results *xsync.Map[string, *RoomAssignmentResult]
	// inflight holds the running assignment or reassignment per booking ID.
	inflight *xsync.Map[string, *flight]
	// requests keeps the last request seen per booking ID.
	requests *xsync.Map[string, *RoomAssignmentRequest]
	// pending holds requests waiting for staff, keyed by booking ID.
	pending *xsync.Map[string, *RoomAssignmentRequest]
	// states tracks the assignment state per booking ID.
	states *xsync.Map[string, AssignmentState]
	// groupFloors remembers the floor of the first assigned room per property/group.
	groupFloors *xsync.Map[string, int]

	mu      sync.Mutex
	started bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewEngine creates an Engine.
//
// Returns a concrete *Engine following the "accept interfaces, return structs" principle.
//
// Parameters:
//   - cfg: Process configuration; missing values are filled with defaults
//   - inv: Inventory provider with reservation support
//   - dispatcher: Notification dispatcher for guest and staff channels
//   - opts: Optional stores, scorer, clock, hooks, metrics, logger and validator
//
// Returns:
//   - *Engine: Initialized engine; call Start to run the background queue
//   - error: ErrInvalidConfig, ErrInventoryRequired or ErrDispatcherRequired
//
// Example:
//
//	cfg := roomassign.DefaultConfig()
//	inv := memory.NewInventory(rooms...)
//	engine, err := roomassign.NewEngine(&cfg, inv, webhook.New(webhookCfg))
//	if err != nil { /* handle */ }
//	_ = engine.Start(ctx)
//	defer engine.Stop(ctx)
func NewEngine(cfg *Config, inv Inventory, dispatcher NotificationDispatcher, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if inv == nil {
		return nil, ErrInventoryRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{
		cfg:         *cfg,
		inventory:   inv,
		dispatcher:  dispatcher,
		configs:     options.configs,
		assignments: options.assignments,
		scorer:      options.scorer,
		clock:       options.clock,
		hooks:       hooks.Fill(options.hooks),
		metrics:     options.metrics,
		logger:      options.logger,
		validate:    options.validate,
		results:     xsync.NewMap[string, *RoomAssignmentResult](),
		inflight:    xsync.NewMap[string, *flight](),
		requests:    xsync.NewMap[string, *RoomAssignmentRequest](),
		pending:     xsync.NewMap[string, *RoomAssignmentRequest](),
		states:      xsync.NewMap[string, AssignmentState](),
		groupFloors: xsync.NewMap[string, int](),
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	if e.configs == nil {
		e.configs = memory.NewConfigStore()
	}
	if e.assignments == nil {
		e.assignments = memory.NewAssignmentStore()
	}
	if e.scorer == nil {
		e.scorer = scoring.NewWeighted()
	}
	if e.clock == nil {
		e.clock = systemClock{}
	}
	if e.metrics == nil {
		e.metrics = metrics.NewNop()
	}
	if e.logger == nil {
		e.logger = logger.NewNop()
	}
	if e.validate == nil {
		e.validate = validator.New(validator.WithRequiredStructEnabled())
	}

	cfg.ValidateWithWarnings(e.logger)

	dropPolicy, _ := queue.ParseDropPolicy(cfg.Queue.DropPolicy)
	e.evaluator = rules.NewEvaluator(e.clock)
	e.locker = inventory.NewLocker(cfg.LockStripes)
	e.turnover = inventory.NewTurnover()
	e.fetcher = inventory.NewFetcher(inv, inventory.NewSnapshotCache(), inventory.FetcherConfig{
		Timeout:    cfg.Provider.Timeout,
		Attempts:   cfg.Provider.Attempts,
		Backoff:    cfg.Provider.Backoff,
		MaxBackoff: cfg.Provider.MaxBackoff,
	}, e.clock, e.logger, e.metrics)
	e.queue = queue.New(queue.Config{
		Interval:             cfg.Queue.Interval,
		BatchSize:            cfg.Queue.BatchSize,
		DropPolicy:           dropPolicy,
		NotificationAttempts: cfg.Queue.NotificationAttempts,
		ItemTimeout:          cfg.Queue.ItemTimeout,
	}, (*queueHandler)(e), e.clock, e.logger, e.metrics)

	return e, nil
}

// Start runs the background queue processor.
//
// Returns:
//   - error: ErrAlreadyStarted if already running
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if err := e.queue.Start(ctx); err != nil {
		return err
	}
	e.started = true
	e.logger.Info("room assignment engine started", "queueInterval", e.cfg.Queue.Interval)

	return nil
}

// Stop stops queue ticks and waits for an in-flight drain to finish or ctx to expire.
//
// Returns:
//   - error: ErrNotStarted if not running, or the context error on timeout
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return ErrNotStarted
	}
	e.started = false
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- e.queue.Stop() }()

	select {
	case err := <-done:
		e.logger.Info("room assignment engine stopped", "pending", e.queue.Len())
		return err
	case <-ctx.Done():
		return fmt.Errorf("stop room assignment engine: %w", ctx.Err())
	}
}

// GetConfiguration returns the property's config, or the default config when none is stored.
func (e *Engine) GetConfiguration(ctx context.Context, propertyID string) (*AssignmentConfig, error) {
	cfg, err := e.configs.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigurationUnavailable, err)
	}

	return cfg, nil
}

// UpdateConfiguration validates cfg and stores it as the whole config of its property.
//
// There is no partial merge; callers read, modify and write back.
//
// Returns:
//   - error: ErrInvalidConfig on validation failure, or a store error
func (e *Engine) UpdateConfiguration(ctx context.Context, cfg *AssignmentConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := e.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	stored := cfg.Clone()
	stored.UpdatedAt = e.clock.Now()
	if err := e.configs.Replace(ctx, stored); err != nil {
		return fmt.Errorf("store config %s: %w", cfg.PropertyID, err)
	}
	e.logger.Info("assignment configuration updated", "property_id", cfg.PropertyID, "rules", len(cfg.Rules))

	return nil
}

// GetAssignment returns the current result of a booking.
//
// Returns:
//   - error: ErrAssignmentNotFound when the booking has no result
func (e *Engine) GetAssignment(ctx context.Context, bookingID string) (*RoomAssignmentResult, error) {
	res, err := e.lookup(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrAssignmentNotFound
	}

	return res, nil
}

// GetAssignmentHistory returns every result of a booking, oldest first.
func (e *Engine) GetAssignmentHistory(ctx context.Context, bookingID string) ([]*RoomAssignmentResult, error) {
	return e.assignments.History(ctx, bookingID)
}

// GetAnalytics summarizes the property's assignment history with AssignedAt in [start, end).
//
// Returns:
//   - *Analytics: Aggregated figures
//   - error: ErrInvalidRequest when end is not after start, or a store error
func (e *Engine) GetAnalytics(ctx context.Context, propertyID string, start, end time.Time) (*Analytics, error) {
	results, err := e.listResults(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}

	return report.Summarize(propertyID, start, end, results), nil
}

// ExportAnalytics renders GetAnalytics and the underlying history as an XLSX workbook.
func (e *Engine) ExportAnalytics(ctx context.Context, propertyID string, start, end time.Time) ([]byte, error) {
	results, err := e.listResults(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}

	return report.Workbook(report.Summarize(propertyID, start, end, results), results)
}

func (e *Engine) listResults(ctx context.Context, propertyID string, start, end time.Time) ([]*RoomAssignmentResult, error) {
	if propertyID == "" || !end.After(start) {
		return nil, fmt.Errorf("%w: analytics period must have end after start", ErrInvalidRequest)
	}

	results, err := e.assignments.List(ctx, propertyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list assignments %s: %w", propertyID, err)
	}

	return results, nil
}

// PendingManual returns the requests of a property waiting for staff, by check-in then
// booking ID.
func (e *Engine) PendingManual(propertyID string) []*RoomAssignmentRequest {
	var out []*RoomAssignmentRequest
	e.pending.Range(func(_ string, req *RoomAssignmentRequest) bool {
		if req.PropertyID == propertyID {
			c := *req
			out = append(out, &c)
		}

		return true
	})

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}

		return out[i].BookingID < out[j].BookingID
	})

	return out
}

// Enqueue defers a request to the background queue.
//
// Returns:
//   - error: ErrInvalidRequest when the request fails validation
func (e *Engine) Enqueue(req *RoomAssignmentRequest) error {
	if err := e.validateRequest(req); err != nil {
		return err
	}

	c := *req
	e.queue.EnqueueAssignment(&c)
	e.logger.Debug("assignment request queued", "booking_id", req.BookingID, "depth", e.queue.Len())

	return nil
}

// DrainQueue processes one batch of queued work immediately.
//
// Returns:
//   - processed, failed: Outcome counts of the pass
func (e *Engine) DrainQueue(ctx context.Context) (processed, failed int) {
	return e.queue.Drain(ctx)
}

// QueueLen returns the number of queued items.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// DeadLetter is a queued item that could not be processed under the dead_letter policy.
type DeadLetter struct {
	Kind       string    `json:"kind"`
	BookingID  string    `json:"bookingId"`
	Channel    string    `json:"channel,omitempty"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"lastError"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// DeadLetters lists items dropped under the dead_letter policy, oldest first.
func (e *Engine) DeadLetters() []DeadLetter {
	items := e.queue.DeadLetters()
	out := make([]DeadLetter, 0, len(items))
	for _, it := range items {
		dl := DeadLetter{
			Kind:       string(it.Kind),
			Attempts:   it.Attempts,
			LastError:  it.LastError,
			EnqueuedAt: it.EnqueuedAt,
		}
		switch {
		case it.Request != nil:
			dl.BookingID = it.Request.BookingID
		case it.Notification != nil:
			dl.BookingID = it.Notification.Payload.BookingID
			dl.Channel = it.Notification.Channel
		}
		out = append(out, dl)
	}

	return out
}

// State returns the assignment state of a booking.
func (e *Engine) State(bookingID string) AssignmentState {
	s, _ := e.states.Load(bookingID)
	return s
}

// flight is an assignment of one booking that has not finished yet. Its outcome is
// published to concurrent callers of the same booking when done closes.
type flight struct {
	done chan struct{}
	res  *RoomAssignmentResult
	err  error
}

// claim registers the caller as the only writer of the booking's assignment.
//
// Returns:
//   - *flight: The caller's flight, or the flight already running
//   - bool: true when the caller owns the returned flight and must settle it
func (e *Engine) claim(bookingID string) (*flight, bool) {
	f, loaded := e.inflight.LoadOrStore(bookingID, &flight{done: make(chan struct{})})
	return f, !loaded
}

// settle publishes the outcome of an owned flight and releases the booking.
func (e *Engine) settle(bookingID string, f *flight, res *RoomAssignmentResult, err error) {
	if res != nil {
		f.res = res.Clone()
	}
	f.err = err
	e.inflight.Delete(bookingID)
	close(f.done)
}

// await blocks until another caller's flight for the booking finishes and returns its
// outcome.
func (e *Engine) await(ctx context.Context, f *flight) (*RoomAssignmentResult, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.res == nil {
		return nil, nil
	}

	return f.res.Clone(), nil
}

// lookup returns a copy of the current result from the cache or the store, or nil.
func (e *Engine) lookup(ctx context.Context, bookingID string) (*RoomAssignmentResult, error) {
	if res, ok := e.results.Load(bookingID); ok {
		return res.Clone(), nil
	}

	res, err := e.assignments.Current(ctx, bookingID)
	if errors.Is(err, types.ErrAssignmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load assignment %s: %w", bookingID, err)
	}
	e.results.Store(bookingID, res.Clone())

	return res, nil
}

// propertyConfig loads the property's config and rejects disabled properties.
func (e *Engine) propertyConfig(ctx context.Context, propertyID string) (*AssignmentConfig, error) {
	cfg, err := e.configs.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: property %s: %w", ErrConfigurationUnavailable, propertyID, err)
	}
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("%w: property %s", ErrConfigurationUnavailable, propertyID)
	}

	return cfg, nil
}

func (e *Engine) validateRequest(req *RoomAssignmentRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if err := e.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return nil
}

// transition records a state change and reports it to the OnStateChanged hook.
func (e *Engine) transition(ctx context.Context, bookingID string, to AssignmentState) {
	from, _ := e.states.Load(bookingID)
	if from == to && to != StateAssigned {
		return
	}
	if !from.CanTransitionTo(to) {
		e.logger.Warn("unexpected assignment state transition", "booking_id", bookingID, "from", from, "to", to)
	}
	e.states.Store(bookingID, to)

	if err := e.hooks.OnStateChanged(ctx, bookingID, from, to); err != nil {
		e.logger.Warn("OnStateChanged hook failed", "booking_id", bookingID, "error", err)
	}
}

// resetState lets a failed booking be attempted again.
func (e *Engine) resetState(bookingID string) {
	if s, ok := e.states.Load(bookingID); ok && s == StateFailed {
		e.states.Store(bookingID, StateUnassigned)
	}
}

// fail records a failed attempt and returns err unchanged.
func (e *Engine) fail(ctx context.Context, bookingID, reason string, err error) error {
	e.metrics.RecordAssignmentFailure(reason)
	e.transition(ctx, bookingID, StateFailed)
	e.logger.Warn("room assignment failed", "booking_id", bookingID, "reason", reason, "error", err)
	if hookErr := e.hooks.OnError(ctx, err); hookErr != nil {
		e.logger.Warn("OnError hook failed", "booking_id", bookingID, "error", hookErr)
	}

	return err
}
