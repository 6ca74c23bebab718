// Package redisstore keeps assignment results in Redis.
//
// Layout, with the default "roomassign" prefix:
//
//	roomassign:current:<bookingID>   string, JSON of the active result
//	roomassign:history:<bookingID>   list, JSON results oldest first
//	roomassign:property:<propertyID> sorted set, JSON results scored by AssignedAt (ms)
//
// Save writes all three keys in one MULTI/EXEC transaction.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// DefaultPrefix namespaces all keys written by the store.
const DefaultPrefix = "roomassign"

// Store is a types.AssignmentStore on Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ types.AssignmentStore = (*Store)(nil)

// New creates a store. An empty prefix means DefaultPrefix.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := redisstore.New(client, "")
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{client: client, prefix: prefix}
}

func (s *Store) currentKey(bookingID string) string   { return s.prefix + ":current:" + bookingID }
func (s *Store) historyKey(bookingID string) string   { return s.prefix + ":history:" + bookingID }
func (s *Store) propertyKey(propertyID string) string { return s.prefix + ":property:" + propertyID }

// Current returns the active result of the booking.
func (s *Store) Current(ctx context.Context, bookingID string) (*types.RoomAssignmentResult, error) {
	data, err := s.client.Get(ctx, s.currentKey(bookingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get current %s: %w", bookingID, err)
	}

	return decode(data)
}

// Save appends the result to the booking history and the property index and makes it
// the current result, atomically.
func (s *Store) Save(ctx context.Context, result *types.RoomAssignmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.BookingID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.currentKey(result.BookingID), data, 0)
		pipe.RPush(ctx, s.historyKey(result.BookingID), data)
		pipe.ZAdd(ctx, s.propertyKey(result.PropertyID), &redis.Z{
			Score:  float64(result.AssignedAt.UnixMilli()),
			Member: data,
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", result.BookingID, err)
	}

	return nil
}

// History returns every result of the booking, oldest first.
func (s *Store) History(ctx context.Context, bookingID string) ([]*types.RoomAssignmentResult, error) {
	items, err := s.client.LRange(ctx, s.historyKey(bookingID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis history %s: %w", bookingID, err)
	}

	return decodeAll(items, nil)
}

// List returns history entries of the property with AssignedAt in [start, end).
func (s *Store) List(ctx context.Context, propertyID string, start, end time.Time) ([]*types.RoomAssignmentResult, error) {
	items, err := s.client.ZRangeByScore(ctx, s.propertyKey(propertyID), &redis.ZRangeBy{
		Min: strconv.FormatInt(start.UnixMilli(), 10),
		Max: strconv.FormatInt(end.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", propertyID, err)
	}

	// Scores have millisecond resolution; the exact bounds are applied after decoding.
	return decodeAll(items, func(r *types.RoomAssignmentResult) bool {
		return !r.AssignedAt.Before(start) && r.AssignedAt.Before(end)
	})
}

func decode(data []byte) (*types.RoomAssignmentResult, error) {
	var r types.RoomAssignmentResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return &r, nil
}

func decodeAll(items []string, keep func(*types.RoomAssignmentResult) bool) ([]*types.RoomAssignmentResult, error) {
	out := make([]*types.RoomAssignmentResult, 0, len(items))
	for _, item := range items {
		r, err := decode([]byte(item))
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}

	return out, nil
}
