package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists hierarchies in PostgreSQL, one row per user.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmt := `CREATE TABLE IF NOT EXISTS user_tasks (
		user_id TEXT PRIMARY KEY,
		tasks JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (Hierarchy, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT tasks FROM user_tasks WHERE user_id=$1`, userID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewHierarchy(), nil
	}
	if err != nil {
		return NewHierarchy(), fmt.Errorf("query tasks for %q: %w", userID, err)
	}

	h := NewHierarchy()
	if err := json.Unmarshal(data, &h); err != nil {
		return NewHierarchy(), fmt.Errorf("decode tasks for %q: %w", userID, err)
	}
	for _, t := range h {
		if t.Subtasks == nil {
			t.Subtasks = make(map[string]int)
		}
	}
	return h, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, h Hierarchy) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode tasks for %q: %w", userID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_tasks (user_id, tasks, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET tasks=EXCLUDED.tasks, updated_at=now()`,
		userID, data,
	)
	if err != nil {
		return fmt.Errorf("save tasks for %q: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
