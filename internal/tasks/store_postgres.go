package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initPostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS taskctl_tasks (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			description TEXT NOT NULL,
			priority INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init task schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) AddTask(ctx context.Context, description string, priority int) (Task, error) {
	description, err := normalizeDescription(description)
	if err != nil {
		return Task{}, err
	}
	task := Task{
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO taskctl_tasks (description, priority, created_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		task.Description,
		task.Priority,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, description, priority, created_at
		   FROM taskctl_tasks ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM taskctl_tasks WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTaskRow(row pgx.Row) (Task, error) {
	var task Task
	if err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Priority,
		&task.CreatedAt,
	); err != nil {
		return Task{}, err
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return task, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
