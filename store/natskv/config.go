// Package natskv stores assignment configs in a NATS JetStream KeyValue bucket.
//
// Every replica of the engine reads the same bucket, so a config replaced through one
// replica is seen by all of them on their next read.
package natskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/himmu2625/baithkaGhar-sub009/internal/kvutil"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// DefaultBucket is the bucket name used by Open when none is given.
const DefaultBucket = "roomassign-config"

const keyPrefix = "config."

// ConfigStore is a types.ConfigStore on JetStream KV. Values are JSON.
type ConfigStore struct {
	kv jetstream.KeyValue
}

var _ types.ConfigStore = (*ConfigStore)(nil)

// New wraps an existing bucket.
func New(kv jetstream.KeyValue) *ConfigStore {
	return &ConfigStore{kv: kv}
}

// Open creates or opens the config bucket and wraps it.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - bucket: Bucket name, DefaultBucket when empty
//
// Returns:
//   - *ConfigStore: Store on the bucket
//   - error: Bucket creation failure
func Open(ctx context.Context, js jetstream.JetStream, bucket string) (*ConfigStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "room assignment configs by property",
		History:     5,
	}, kvutil.DefaultAttempts)
	if err != nil {
		return nil, err
	}

	return New(kv), nil
}

// Get returns the stored config, or the default config when the key is absent.
func (s *ConfigStore) Get(ctx context.Context, propertyID string) (*types.AssignmentConfig, error) {
	entry, err := s.kv.Get(ctx, keyPrefix+propertyID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return types.DefaultAssignmentConfig(propertyID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config %s: %w", propertyID, err)
	}

	var cfg types.AssignmentConfig
	if err := json.Unmarshal(entry.Value(), &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", propertyID, err)
	}

	return &cfg, nil
}

// Replace writes cfg as the whole config of its property.
func (s *ConfigStore) Replace(ctx context.Context, cfg *types.AssignmentConfig) error {
	if cfg == nil || cfg.PropertyID == "" {
		return fmt.Errorf("%w: property ID required", types.ErrInvalidConfig)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config %s: %w", cfg.PropertyID, err)
	}
	if _, err := s.kv.Put(ctx, keyPrefix+cfg.PropertyID, data); err != nil {
		return fmt.Errorf("put config %s: %w", cfg.PropertyID, err)
	}

	return nil
}

// Revisions returns how many stored revisions the property's config has, up to the
// bucket's history depth. It is zero when the property was never configured.
func (s *ConfigStore) Revisions(ctx context.Context, propertyID string) (int, error) {
	entries, err := s.kv.History(ctx, keyPrefix+propertyID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("config history %s: %w", propertyID, err)
	}

	return len(entries), nil
}

// Watch streams configs written after the call, from this replica or any other.
//
// The channel closes when ctx ends. Entries that fail to decode are skipped.
//
// Parameters:
//   - ctx: Context bounding the watch
//
// Returns:
//   - <-chan *types.AssignmentConfig: Updated configs in write order
//   - error: Watch setup failure
func (s *ConfigStore) Watch(ctx context.Context) (<-chan *types.AssignmentConfig, error) {
	w, err := s.kv.Watch(ctx, keyPrefix+"*", jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("watch configs: %w", err)
	}

	out := make(chan *types.AssignmentConfig)
	go func() {
		defer close(out)
		defer func() { _ = w.Stop() }()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-w.Updates():
				if !ok {
					return
				}
				if entry == nil || entry.Operation() != jetstream.KeyValuePut {
					continue
				}

				var cfg types.AssignmentConfig
				if err := json.Unmarshal(entry.Value(), &cfg); err != nil {
					continue
				}

				select {
				case out <- &cfg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
