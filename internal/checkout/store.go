package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/redis"
)

// Store persists checkout state per session.
type Store interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state *State) error
	Delete(ctx context.Context, sessionID string) error
}

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutKey(sessionID string) string
}

type redisStore struct {
	kv  redisKV
	ttl time.Duration
}

// NewRedisStore builds a checkout store backed by Redis. Abandoned
// checkouts expire after the TTL.
func NewRedisStore(kv redisKV, ttl time.Duration) (Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("checkout: redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("checkout: ttl must be positive")
	}
	return &redisStore{kv: kv, ttl: ttl}, nil
}

// Load returns the session's checkout state, or nil when no checkout
// has been started.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*State, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load checkout state")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored checkout state is corrupt")
	}
	return &state, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode checkout state")
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save checkout state")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CheckoutKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete checkout state")
	}
	return nil
}
