package tasks

import (
	"strings"
	"time"
)

// Task is a single unit of work tracked by the store.
type Task struct {
	ID          int64     `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Priority    int       `json:"priority" yaml:"priority"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// normalizeDescription trims the description and rejects empty values.
func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrInvalidTask
	}
	return description, nil
}
