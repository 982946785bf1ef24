package tasks

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver      string
	Path        string
	DatabaseURL string
}

// NewStore opens the backend named by opts.Driver. An empty driver means the file store.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	switch driver {
	case "", DriverFile:
		return OpenFileStore(opts.Path)
	case DriverPostgres:
		if strings.TrimSpace(opts.DatabaseURL) == "" {
			return nil, fmt.Errorf("%s store requires a database url", driver)
		}
		return NewPostgresStore(ctx, opts.DatabaseURL)
	case DriverMySQL:
		if strings.TrimSpace(opts.DatabaseURL) == "" {
			return nil, fmt.Errorf("%s store requires a database url", driver)
		}
		return NewMySQLStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
