// Package cache is the auxiliary blob store: a single named Redis slot the
// front-end uses for ephemeral state. It is strictly best-effort; order and
// report correctness never depend on it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smilefnb/smile_backend/utils"
)

// slotKey is the one blob slot the front-end reads and writes.
const slotKey = "myArray"

type Options struct {
	Addr     string
	Username string
	Password string
}

// Store wraps the Redis client. A Store with no client is "disabled": every
// operation returns utils.ErrorCacheUnavailable and nothing else in the
// process cares.
type Store struct {
	rdb *redis.Client
}

// NewStore builds the gateway once at startup. No address means the feature
// group is absent; a failed ping likewise degrades to a disabled store
// rather than failing startup.
func NewStore(opts Options) *Store {
	if opts.Addr == "" {
		return &Store{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return &Store{}
	}
	return &Store{rdb: rdb}
}

func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

func (s *Store) Size(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, utils.ErrorCacheUnavailable
	}
	size, err := s.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrorCacheUnavailable, err)
	}
	return size, nil
}

// Get returns the slot value and whether it was present. Values are decoded
// as JSON when possible, otherwise handed back as the raw string.
func (s *Store) Get(ctx context.Context) (any, bool, error) {
	if !s.Enabled() {
		return nil, false, utils.ErrorCacheUnavailable
	}

	val, err := s.rdb.Get(ctx, slotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", utils.ErrorCacheUnavailable, err)
	}

	var decoded any
	if err := json.Unmarshal([]byte(val), &decoded); err != nil {
		return val, true, nil
	}
	return decoded, true, nil
}

func (s *Store) Set(ctx context.Context, value any) error {
	if !s.Enabled() {
		return utils.ErrorCacheUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrorCacheUnavailable, err)
	}
	if err := s.rdb.Set(ctx, slotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrorCacheUnavailable, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return utils.ErrorCacheUnavailable
	}
	if err := s.rdb.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrorCacheUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}
