package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{DB: pool}
}

func (s *PGStore) Get(ctx context.Context, key string, notBefore time.Time) (Record, bool, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    SELECT status_code, response_body
    FROM idempotency_keys
    WHERE key = $1 AND created_at >= $2
  `, key, notBefore).Scan(&record.StatusCode, &record.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

// Put keeps the first writer's response: a concurrent retry that lost the
// race inserts nothing and will replay the winner's record.
func (s *PGStore) Put(ctx context.Context, key string, statusCode int, body []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO idempotency_keys (key, status_code, response_body)
    VALUES ($1, $2, $3)
    ON CONFLICT (key) DO NOTHING
  `, key, statusCode, string(body))
	return err
}

func (s *PGStore) Sweep(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM idempotency_keys WHERE created_at < $1", before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
