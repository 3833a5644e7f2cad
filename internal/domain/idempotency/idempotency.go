package idempotency

import (
	"context"
	"time"
)

// Record is a stored mutation response, replayed byte for byte on retry.
type Record struct {
	StatusCode int
	Body       []byte
}

type Store interface {
	Get(ctx context.Context, key string, notBefore time.Time) (Record, bool, error)
	Put(ctx context.Context, key string, statusCode int, body []byte) error
	Sweep(ctx context.Context, before time.Time) (int64, error)
}

// Guard deduplicates retried mutations by client-supplied key. Lookups only
// see records younger than the TTL; Sweep removes the expired ones.
type Guard struct {
	Store Store
	TTL   time.Duration
	Now   func() time.Time
}

func NewGuard(store Store, ttl time.Duration) *Guard {
	return &Guard{Store: store, TTL: ttl, Now: time.Now}
}

func (g *Guard) Lookup(ctx context.Context, key string) (Record, bool, error) {
	return g.Store.Get(ctx, key, g.Now().Add(-g.TTL))
}

func (g *Guard) Save(ctx context.Context, key string, statusCode int, body []byte) error {
	return g.Store.Put(ctx, key, statusCode, body)
}

func (g *Guard) Sweep(ctx context.Context) (int64, error) {
	return g.Store.Sweep(ctx, g.Now().Add(-g.TTL))
}
