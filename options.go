package roomassign

import "github.com/go-playground/validator/v10"

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	configs     ConfigStore
	assignments AssignmentStore
	scorer      RoomScorer
	clock       Clock
	hooks       *Hooks
	metrics     MetricsCollector
	logger      Logger
	validate    *validator.Validate
}

// WithConfigStore sets where per-property configs live. Defaults to an in-memory store.
//
// Example:
//
//	store, _ := natskv.Open(ctx, js, "")
//	engine, _ := roomassign.NewEngine(&cfg, inv, dispatcher, roomassign.WithConfigStore(store))
func WithConfigStore(store ConfigStore) Option {
	return func(o *engineOptions) {
		o.configs = store
	}
}

// WithAssignmentStore sets where results and history live. Defaults to an in-memory store.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	engine, _ := roomassign.NewEngine(&cfg, inv, dispatcher, roomassign.WithAssignmentStore(redisstore.New(client, "")))
func WithAssignmentStore(store AssignmentStore) Option {
	return func(o *engineOptions) {
		o.assignments = store
	}
}

// WithScorer replaces the default weighted scorer.
func WithScorer(scorer RoomScorer) Option {
	return func(o *engineOptions) {
		o.scorer = scorer
	}
}

// WithClock sets the time source used for schedules and timestamps.
func WithClock(clock Clock) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &roomassign.Hooks{
//	    OnAssigned: func(ctx context.Context, res *roomassign.RoomAssignmentResult) error {
//	        return housekeeping.Prepare(ctx, res.Room.RoomNumber)
//	    },
//	}
//	engine, _ := roomassign.NewEngine(&cfg, inv, dispatcher, roomassign.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *engineOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "")
//	engine, _ := roomassign.NewEngine(&cfg, inv, dispatcher, roomassign.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Structured key-value logger
//
// Example:
//
//	logger, _ := logging.NewZap("info", "json", "roomassignd")
//	engine, _ := roomassign.NewEngine(&cfg, inv, dispatcher, roomassign.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithValidator sets the validator used for requests and configs, e.g. one with custom
// tags registered.
func WithValidator(v *validator.Validate) Option {
	return func(o *engineOptions) {
		o.validate = v
	}
}
