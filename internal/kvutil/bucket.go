// Package kvutil opens NATS JetStream KeyValue buckets shared by several engine replicas.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/himmu2625/baithkaGhar-sub009/internal/backoff"
)

// DefaultAttempts is used when EnsureBucket is called with attempts <= 0.
const DefaultAttempts = 3

// EnsureBucket creates the bucket or opens it when another replica created it first.
//
// Replicas starting together race on CreateKeyValue; the loser sees
// jetstream.ErrBucketExists and opens the existing bucket. Other failures are retried
// with capped jitter backoff.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - cfg: KV bucket configuration
//   - attempts: Total attempts, DefaultAttempts when <= 0
//
// Returns:
//   - jetstream.KeyValue: The bucket
//   - error: The last failure after all attempts, or the context error
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "roomassign-config",
//	    History: 5,
//	}, 3)
func EnsureBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig, attempts int) (jetstream.KeyValue, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var kv jetstream.KeyValue
	policy := backoff.Policy{
		Attempts:   attempts,
		Base:       10 * time.Millisecond,
		Multiplier: 2,
		Cap:        500 * time.Millisecond,
	}

	err := backoff.Retry(ctx, policy, func(ctx context.Context) error {
		created, err := js.CreateKeyValue(ctx, cfg)
		if err == nil {
			kv = created
			return nil
		}
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return err
		}

		opened, err := js.KeyValue(ctx, cfg.Bucket)
		if err != nil {
			return fmt.Errorf("bucket exists but failed to open: %w", err)
		}
		kv = opened

		return nil
	}, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ensure KV bucket %s: %w", cfg.Bucket, ctx.Err())
		}

		return nil, fmt.Errorf("ensure KV bucket %s after %d attempts: %w", cfg.Bucket, attempts, err)
	}

	return kv, nil
}
