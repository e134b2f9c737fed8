package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RateLimitRepo struct {
	db *pgxpool.Pool
}

func NewRateLimitRepo(db *pgxpool.Pool) *RateLimitRepo {
	return &RateLimitRepo{db: db}
}

// CheckAndIncrement bumps the counter for the chat's current minute window
// and returns the new count.
func (r *RateLimitRepo) CheckAndIncrement(ctx context.Context, chatID int64) (int, error) {
	const q = `
		INSERT INTO rate_limits (chat_id, window_start, count)
		VALUES ($1, date_trunc('minute', now()), 1)
		ON CONFLICT (chat_id, window_start)
		DO UPDATE SET count = rate_limits.count + 1
		RETURNING count`

	var count int
	if err := r.db.QueryRow(ctx, q, chatID).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment rate limit: %w", err)
	}
	return count, nil
}

func (r *RateLimitRepo) CleanupStale(ctx context.Context) error {
	const q = `DELETE FROM rate_limits WHERE window_start < now() - interval '3 minutes'`
	if _, err := r.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("cleanup stale rate limits: %w", err)
	}
	return nil
}
