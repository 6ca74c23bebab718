package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/internal/logger"
	"github.com/himmu2625/baithkaGhar-sub009/internal/metrics"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// DropPolicy decides what happens to an item that can no longer be processed.
type DropPolicy string

const (
	// DropDiscard logs and forgets the item.
	DropDiscard DropPolicy = "discard"
	// DropDeadLetter keeps the item in memory where DeadLetters can list it.
	DropDeadLetter DropPolicy = "dead_letter"
)

// Kind identifies the work an item carries.
type Kind string

const (
	KindAssignment   Kind = "assignment"
	KindNotification Kind = "notification"
)

// NotificationJob is one channel delivery to retry.
type NotificationJob struct {
	Channel string
	Payload types.NotificationPayload
}

// Item is a unit of deferred work.
type Item struct {
	Kind         Kind
	Request      *types.RoomAssignmentRequest
	Notification *NotificationJob
	Attempts     int
	EnqueuedAt   time.Time
	LastError    string
}

// Key identifies the item in logs.
func (i Item) Key() string {
	switch i.Kind {
	case KindAssignment:
		if i.Request != nil {
			return "assignment/" + i.Request.BookingID
		}
	case KindNotification:
		if i.Notification != nil {
			return "notification/" + i.Notification.Payload.BookingID + "/" + i.Notification.Channel
		}
	}

	return string(i.Kind)
}

// Handler executes queued work.
type Handler interface {
	// ProcessAssignment runs a deferred assignment request.
	ProcessAssignment(ctx context.Context, req *types.RoomAssignmentRequest) error

	// RetryNotification delivers one notification again.
	RetryNotification(ctx context.Context, job NotificationJob) error
}

// Config controls draining.
type Config struct {
	// Interval between drain passes.
	Interval time.Duration
	// BatchSize is the maximum number of items processed per pass.
	BatchSize int
	// DropPolicy applies to failed items.
	DropPolicy DropPolicy
	// NotificationAttempts bounds notification retries before the item is dropped.
	NotificationAttempts int
	// ItemTimeout bounds the processing of a single item.
	ItemTimeout time.Duration
}

// Processor is a FIFO drained by a background ticker.
//
// Enqueue and Drain are safe for concurrent use. At most one drain pass runs at a time.
type Processor struct {
	cfg     Config
	handler Handler
	clock   types.Clock
	logger  types.Logger
	metrics types.MetricsCollector

	itemsMu     sync.Mutex
	items       []Item
	deadLetters []Item

	drainMu sync.Mutex

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// New creates a processor.
//
// Parameters:
//   - cfg: Drain configuration, zero fields take defaults
//   - handler: Executes items
//   - clock: Stamps EnqueuedAt
//   - log: Logger, nil for nop
//   - m: Metrics collector, nil for nop
//
// Returns:
//   - *Processor: Stopped processor; call Start to begin ticking
//
// Example:
//
//	p := queue.New(queue.Config{Interval: time.Minute, BatchSize: 50}, engine, clock, log, nil)
//	_ = p.Start(ctx)
//	defer p.Stop()
func New(cfg Config, handler Handler, clock types.Clock, log types.Logger, m types.MetricsCollector) *Processor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.DropPolicy == "" {
		cfg.DropPolicy = DropDiscard
	}
	if cfg.NotificationAttempts <= 0 {
		cfg.NotificationAttempts = 3
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}

	return &Processor{
		cfg:     cfg,
		handler: handler,
		clock:   clock,
		logger:  log,
		metrics: m,
	}
}

// EnqueueAssignment appends a deferred assignment request.
func (p *Processor) EnqueueAssignment(req *types.RoomAssignmentRequest) {
	p.push(Item{Kind: KindAssignment, Request: req})
}

// EnqueueNotification appends a notification retry.
func (p *Processor) EnqueueNotification(job NotificationJob) {
	p.push(Item{Kind: KindNotification, Notification: &job})
}

func (p *Processor) push(item Item) {
	item.EnqueuedAt = p.clock.Now()

	p.itemsMu.Lock()
	p.items = append(p.items, item)
	depth := len(p.items)
	p.itemsMu.Unlock()

	p.metrics.RecordQueueDepth(depth)
}

// Len returns the number of pending items.
func (p *Processor) Len() int {
	p.itemsMu.Lock()
	defer p.itemsMu.Unlock()

	return len(p.items)
}

// Pending returns a copy of the pending items in FIFO order.
func (p *Processor) Pending() []Item {
	p.itemsMu.Lock()
	defer p.itemsMu.Unlock()

	out := make([]Item, len(p.items))
	copy(out, p.items)

	return out
}

// DeadLetters returns a copy of the items dropped under DropDeadLetter.
func (p *Processor) DeadLetters() []Item {
	p.itemsMu.Lock()
	defer p.itemsMu.Unlock()

	out := make([]Item, len(p.deadLetters))
	copy(out, p.deadLetters)

	return out
}

// Drain processes up to BatchSize items in FIFO order.
//
// Items enqueued while the pass runs, including notification retries put back after a
// failure, wait for the next pass.
//
// Returns:
//   - processed: Items handled successfully
//   - failed: Items whose handler returned an error
func (p *Processor) Drain(ctx context.Context) (processed, failed int) {
	p.drainMu.Lock()
	defer p.drainMu.Unlock()

	p.itemsMu.Lock()
	n := min(p.cfg.BatchSize, len(p.items))
	batch := make([]Item, n)
	copy(batch, p.items[:n])
	p.items = p.items[n:]
	p.itemsMu.Unlock()

	for _, item := range batch {
		if ctx.Err() != nil {
			p.requeueFront(batch[processed+failed:])
			break
		}

		if err := p.process(ctx, item); err != nil {
			failed++
			p.fail(item, err)

			continue
		}
		processed++
	}

	p.metrics.RecordQueueDrain(processed, failed)
	p.metrics.RecordQueueDepth(p.Len())

	return processed, failed
}

func (p *Processor) process(ctx context.Context, item Item) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ItemTimeout)
	defer cancel()

	switch item.Kind {
	case KindAssignment:
		if item.Request == nil {
			return fmt.Errorf("assignment item without request")
		}

		return p.handler.ProcessAssignment(ctx, item.Request)
	case KindNotification:
		if item.Notification == nil {
			return fmt.Errorf("notification item without job")
		}

		return p.handler.RetryNotification(ctx, *item.Notification)
	default:
		return fmt.Errorf("unknown queue item kind %q", item.Kind)
	}
}

func (p *Processor) fail(item Item, err error) {
	item.Attempts++
	item.LastError = err.Error()

	if item.Kind == KindNotification && item.Attempts < p.cfg.NotificationAttempts {
		p.logger.Debug("notification retry failed, requeued", "item", item.Key(), "attempt", item.Attempts, "error", err)

		p.itemsMu.Lock()
		p.items = append(p.items, item)
		p.itemsMu.Unlock()

		return
	}

	switch p.cfg.DropPolicy {
	case DropDeadLetter:
		p.logger.Warn("queue item dead-lettered", "item", item.Key(), "attempts", item.Attempts, "error", err)

		p.itemsMu.Lock()
		p.deadLetters = append(p.deadLetters, item)
		p.itemsMu.Unlock()
	default:
		p.logger.Warn("queue item dropped", "item", item.Key(), "attempts", item.Attempts, "error", err)
	}
}

func (p *Processor) requeueFront(rest []Item) {
	if len(rest) == 0 {
		return
	}

	p.itemsMu.Lock()
	defer p.itemsMu.Unlock()

	items := make([]Item, 0, len(rest)+len(p.items))
	items = append(items, rest...)
	p.items = append(items, p.items...)
}

// Start begins draining on every tick until Stop is called.
//
// Returns:
//   - error: types.ErrAlreadyStarted if already running
func (p *Processor) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return types.ErrAlreadyStarted
	}

	p.started = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.ticker = time.NewTicker(p.cfg.Interval)

	go p.drainLoop(p.stopCh, p.doneCh, p.ticker)

	return nil
}

// Stop stops the ticker and blocks until an in-flight drain pass finishes.
//
// Returns:
//   - error: types.ErrNotStarted if not running
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return types.ErrNotStarted
	}

	p.ticker.Stop()
	close(p.stopCh)
	p.started = false
	doneCh := p.doneCh
	p.mu.Unlock()

	<-doneCh

	return nil
}

// IsStarted reports whether the drain loop is running.
func (p *Processor) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started
}

func (p *Processor) drainLoop(stopCh <-chan struct{}, doneCh chan<- struct{}, ticker *time.Ticker) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithCancel(context.Background())
			processed, failed := p.Drain(ctx)
			cancel()

			if processed+failed > 0 {
				p.logger.Info("queue drained", "processed", processed, "failed", failed, "pending", p.Len())
			}
		}
	}
}

// ParseDropPolicy converts a config string, accepting "dead-letter" as an alias.
func ParseDropPolicy(s string) (DropPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DropDiscard):
		return DropDiscard, nil
	case string(DropDeadLetter), "dead-letter":
		return DropDeadLetter, nil
	default:
		return "", fmt.Errorf("unknown drop policy %q", s)
	}
}
