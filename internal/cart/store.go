package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/redis"
)

// Store persists cart state per session.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	kv  redisKV
	ttl time.Duration
}

// NewRedisStore builds a cart store backed by Redis. Carts expire
// after the given TTL of inactivity; every save refreshes it.
func NewRedisStore(kv redisKV, ttl time.Duration) (Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart: redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart: ttl must be positive")
	}
	return &redisStore{kv: kv, ttl: ttl}, nil
}

// Load returns the session's cart, or a fresh empty cart when none is
// stored yet.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored cart is corrupt")
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save cart")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete cart")
	}
	return nil
}
