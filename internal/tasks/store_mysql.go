package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects with a go-sql-driver DSN. parseTime is always enabled so
// created_at scans into time.Time.
func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	s := &MySQLStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) migrate(ctx context.Context) error {
	createTasks := `CREATE TABLE IF NOT EXISTS taskctl_tasks (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    description TEXT NOT NULL,
    priority INT NOT NULL,
    created_at DATETIME(6) NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, createTasks); err != nil {
		return fmt.Errorf("init task schema: %w", err)
	}
	return nil
}

func (s *MySQLStore) AddTask(ctx context.Context, description string, priority int) (Task, error) {
	description, err := normalizeDescription(description)
	if err != nil {
		return Task{}, err
	}
	task := Task{
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO taskctl_tasks (description, priority, created_at) VALUES (?, ?, ?)`,
		task.Description, task.Priority, task.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("insert task id: %w", err)
	}
	return task, nil
}

func (s *MySQLStore) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, priority, created_at FROM taskctl_tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Priority, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return out, nil
}

func (s *MySQLStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM taskctl_tasks WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return n > 0, nil
}

func (s *MySQLStore) Close() error { return s.db.Close() }
