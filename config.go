package roomassign

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/himmu2625/baithkaGhar-sub009/internal/queue"
)

// ProviderConfig bounds calls to the inventory provider.
type ProviderConfig struct {
	// Timeout bounds each GetAvailableRooms call.
	// Recommended: 2 seconds.
	Timeout time.Duration `yaml:"timeout"`

	// Attempts is the number of calls made before falling back to the last snapshot.
	// A property's automation.maxRetries overrides it when set.
	Attempts int `yaml:"attempts"`

	// Backoff is the first retry delay. A property's automation.retryBackoff overrides it.
	Backoff time.Duration `yaml:"backoff"`

	// MaxBackoff caps every retry delay.
	MaxBackoff time.Duration `yaml:"maxBackoff"`
}

// NotificationConfig bounds dispatcher calls.
type NotificationConfig struct {
	// Timeout bounds each channel send made while assigning.
	// Recommended: 3 seconds.
	Timeout time.Duration `yaml:"timeout"`
}

// QueueConfig controls the deferred work processor.
type QueueConfig struct {
	// Interval between drain passes.
	Interval time.Duration `yaml:"interval"`

	// BatchSize is the maximum number of items handled per pass.
	BatchSize int `yaml:"batchSize"`

	// DropPolicy is "discard" (log and forget) or "dead_letter" (keep for inspection).
	DropPolicy string `yaml:"dropPolicy"`

	// NotificationAttempts bounds background retries of one failed notification.
	NotificationAttempts int `yaml:"notificationAttempts"`

	// ItemTimeout bounds the processing of one queued item.
	ItemTimeout time.Duration `yaml:"itemTimeout"`
}

// Config is the configuration of the Engine.
//
// It covers process-level behavior. Per-property policy lives in AssignmentConfig
// documents held by the ConfigStore.
//
// All duration fields accept standard Go duration strings like "500ms", "30s", "1m".
type Config struct {
	// Provider bounds inventory reads.
	Provider ProviderConfig `yaml:"provider"`

	// Notification bounds channel sends.
	Notification NotificationConfig `yaml:"notification"`

	// Queue controls deferred assignments and notification retries.
	Queue QueueConfig `yaml:"queue"`

	// FallbackShift is how far each stay boundary moves during the fallback search.
	// Default: 24h
	FallbackShift time.Duration `yaml:"fallbackShift"`

	// LockStripes is the number of per-property mutexes. Properties hashing to the
	// same stripe serialize their reservations.
	LockStripes int `yaml:"lockStripes"`

	// SystemActor is recorded as AssignedBy on automatic results.
	SystemActor string `yaml:"systemActor"`
}

// DefaultConfig returns a Config with production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Timeout:    2 * time.Second,
			Attempts:   3,
			Backoff:    100 * time.Millisecond,
			MaxBackoff: 2 * time.Second,
		},
		Notification: NotificationConfig{
			Timeout: 3 * time.Second,
		},
		Queue: QueueConfig{
			Interval:             time.Minute,
			BatchSize:            50,
			DropPolicy:           string(queue.DropDiscard),
			NotificationAttempts: 3,
			ItemTimeout:          30 * time.Second,
		},
		FallbackShift: 24 * time.Hour,
		LockStripes:   64,
		SystemActor:   "system",
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = defaults.Provider.Timeout
	}
	if cfg.Provider.Attempts == 0 {
		cfg.Provider.Attempts = defaults.Provider.Attempts
	}
	if cfg.Provider.Backoff == 0 {
		cfg.Provider.Backoff = defaults.Provider.Backoff
	}
	if cfg.Provider.MaxBackoff == 0 {
		cfg.Provider.MaxBackoff = defaults.Provider.MaxBackoff
	}
	if cfg.Notification.Timeout == 0 {
		cfg.Notification.Timeout = defaults.Notification.Timeout
	}
	if cfg.Queue.Interval == 0 {
		cfg.Queue.Interval = defaults.Queue.Interval
	}
	if cfg.Queue.BatchSize == 0 {
		cfg.Queue.BatchSize = defaults.Queue.BatchSize
	}
	if cfg.Queue.DropPolicy == "" {
		cfg.Queue.DropPolicy = defaults.Queue.DropPolicy
	}
	if cfg.Queue.NotificationAttempts == 0 {
		cfg.Queue.NotificationAttempts = defaults.Queue.NotificationAttempts
	}
	if cfg.Queue.ItemTimeout == 0 {
		cfg.Queue.ItemTimeout = defaults.Queue.ItemTimeout
	}
	if cfg.FallbackShift == 0 {
		cfg.FallbackShift = defaults.FallbackShift
	}
	if cfg.LockStripes == 0 {
		cfg.LockStripes = defaults.LockStripes
	}
	if cfg.SystemActor == "" {
		cfg.SystemActor = defaults.SystemActor
	}
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - Provider.Timeout > 0 and Provider.Attempts >= 1
//   - Provider.MaxBackoff >= Provider.Backoff
//   - Notification.Timeout > 0
//   - Queue.Interval > 0, Queue.BatchSize >= 1, Queue.NotificationAttempts >= 1
//   - Queue.DropPolicy is a known policy
//   - FallbackShift > 0, LockStripes >= 1
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("Provider.Timeout must be > 0, got %v", cfg.Provider.Timeout)
	}
	if cfg.Provider.Attempts < 1 {
		return fmt.Errorf("Provider.Attempts must be >= 1, got %d", cfg.Provider.Attempts)
	}
	if cfg.Provider.Backoff < 0 || cfg.Provider.MaxBackoff < cfg.Provider.Backoff {
		return fmt.Errorf(
			"Provider.MaxBackoff (%v) must be >= Provider.Backoff (%v) and both non-negative",
			cfg.Provider.MaxBackoff, cfg.Provider.Backoff,
		)
	}
	if cfg.Notification.Timeout <= 0 {
		return fmt.Errorf("Notification.Timeout must be > 0, got %v", cfg.Notification.Timeout)
	}
	if cfg.Queue.Interval <= 0 {
		return fmt.Errorf("Queue.Interval must be > 0, got %v", cfg.Queue.Interval)
	}
	if cfg.Queue.BatchSize < 1 {
		return fmt.Errorf("Queue.BatchSize must be >= 1, got %d", cfg.Queue.BatchSize)
	}
	if cfg.Queue.NotificationAttempts < 1 {
		return fmt.Errorf("Queue.NotificationAttempts must be >= 1, got %d", cfg.Queue.NotificationAttempts)
	}
	if _, err := queue.ParseDropPolicy(cfg.Queue.DropPolicy); err != nil {
		return fmt.Errorf("Queue.DropPolicy: %w", err)
	}
	if cfg.FallbackShift <= 0 {
		return fmt.Errorf("FallbackShift must be > 0, got %v", cfg.FallbackShift)
	}
	if cfg.LockStripes < 1 {
		return fmt.Errorf("LockStripes must be >= 1, got %d", cfg.LockStripes)
	}

	return nil
}

// ValidateWithWarnings logs warnings for values that are legal but not recommended.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	worst := time.Duration(cfg.Provider.Attempts)*cfg.Provider.Timeout + time.Duration(cfg.Provider.Attempts-1)*cfg.Provider.MaxBackoff
	if worst > 15*time.Second {
		logger.Warn(
			"inventory retries may block a booking for a long time",
			"worstCase", worst,
			"recommended", "15s or lower",
		)
	}

	if cfg.Notification.Timeout > cfg.Queue.ItemTimeout {
		logger.Warn(
			"notification timeout exceeds queue item timeout, retries will be cut short",
			"notificationTimeout", cfg.Notification.Timeout,
			"itemTimeout", cfg.Queue.ItemTimeout,
		)
	}

	if cfg.Queue.Interval < time.Second {
		logger.Warn(
			"queue interval is very short",
			"interval", cfg.Queue.Interval,
			"recommended", "1s or higher",
		)
	}
}

// TestConfig returns a configuration with fast timings for tests.
//
// Returns:
//   - Config: Configuration with millisecond-scale timings
//
// Example:
//
//	cfg := roomassign.TestConfig()
//	engine, err := roomassign.NewEngine(&cfg, inventory, dispatcher)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Provider.Timeout = 200 * time.Millisecond
	cfg.Provider.Backoff = time.Millisecond
	cfg.Provider.MaxBackoff = 5 * time.Millisecond
	cfg.Notification.Timeout = 200 * time.Millisecond
	cfg.Queue.Interval = 10 * time.Millisecond
	cfg.Queue.ItemTimeout = time.Second

	return cfg
}

// LoadConfig reads a YAML file and applies defaults.
//
// Parameters:
//   - path: YAML file with Config fields at the top level
//
// Returns:
//   - Config: Parsed configuration with defaults applied
//   - error: Read, parse or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}
