package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store implementation for hosted
// deployments where progress is shared across devices. It reads and
// writes the player_progress and level_stars tables, created by
// database.EnsureSchema.
type PostgresStore struct {
	pool     *pgxpool.Pool
	playerID string
}

// NewPostgresStore creates a Postgres-backed progress store for one
// player, inserting the default row if the player is new.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, playerID string) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if playerID == "" {
		return nil, fmt.Errorf("player_id is required")
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO player_progress (player_id, unlocked)
		 VALUES ($1, 1)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID,
	); err != nil {
		return nil, fmt.Errorf("init player progress: %w", err)
	}

	return &PostgresStore{pool: pool, playerID: playerID}, nil
}

func (s *PostgresStore) Unlocked() int {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var unlocked int
	err := s.pool.QueryRow(ctx,
		`SELECT unlocked FROM player_progress WHERE player_id = $1`,
		s.playerID,
	).Scan(&unlocked)
	if err != nil || unlocked < 1 {
		return 1
	}
	return unlocked
}

func (s *PostgresStore) UnlockNext(level int) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	// GREATEST keeps the unlock counter monotonic even under
	// concurrent writers.
	_, err := s.pool.Exec(ctx,
		`UPDATE player_progress
		 SET unlocked = GREATEST(unlocked, $2)
		 WHERE player_id = $1`,
		s.playerID, level+1,
	)
	if err != nil {
		return fmt.Errorf("unlock next level: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetStars(level, stars int) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO level_stars (player_id, level, stars)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, level) DO UPDATE SET stars = EXCLUDED.stars`,
		s.playerID, level, clampStars(stars),
	)
	if err != nil {
		return fmt.Errorf("set stars: %w", err)
	}
	return nil
}

func (s *PostgresStore) StarsFor(level int) int {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var stars int
	err := s.pool.QueryRow(ctx,
		`SELECT stars FROM level_stars WHERE player_id = $1 AND level = $2`,
		s.playerID, level,
	).Scan(&stars)
	if err != nil {
		return 0
	}
	return stars
}
