package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ent0n29/taskctl/internal/config"
	"github.com/ent0n29/taskctl/internal/observability"
	"github.com/ent0n29/taskctl/internal/oplog"
	"github.com/ent0n29/taskctl/internal/tasks"
)

type BuildResult struct {
	Config  config.Config
	Store   tasks.Store
	Logger  *oplog.Logger
	Metrics *observability.Metrics

	// Cleanup flushes metrics and releases the store and log file.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	var logger *oplog.Logger
	if !cfg.LogDisabled {
		l, err := oplog.Open(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("log init failed: %w", err)
		}
		logger = l
	}

	store, err := tasks.NewStore(ctx, tasks.Options{
		Driver:      cfg.StoreDriver,
		Path:        cfg.StorePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		logger.Record("open", "outcome", observability.OutcomeError, "driver", cfg.StoreDriver, "error", err)
		_ = logger.Close()
		return nil, fmt.Errorf("task store init failed: %w", err)
	}

	cleanup := func() error {
		var errs []string
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			errs = append(errs, fmt.Sprintf("write metrics: %v", err))
		}
		if err := store.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if err := logger.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	return &BuildResult{
		Config:  cfg,
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		Cleanup: cleanup,
	}, nil
}
