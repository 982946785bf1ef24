package tasks

import (
	"context"
	"errors"
)

var (
	ErrInvalidTask   = errors.New("task description is required")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store owns the persisted task collection.
//
// DeleteTask reports whether a task with the id existed; a missing id is not an error.
type Store interface {
	AddTask(ctx context.Context, description string, priority int) (Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)
	Close() error
}
