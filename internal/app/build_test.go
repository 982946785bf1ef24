package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ent0n29/taskctl/internal/config"
)

func testConfig(dir string) config.Config {
	return config.Config{
		StoreDriver:      "file",
		StorePath:        filepath.Join(dir, "tasks.json"),
		DBTimeout:        time.Second,
		LogPath:          filepath.Join(dir, "tasks.log"),
		MetricsNamespace: "taskctl",
		MetricsTextfile:  filepath.Join(dir, "taskctl.prom"),
	}
}

func TestBuildWiresFileStoreLoggerAndMetrics(t *testing.T) {
	dir := t.TempDir()
	res, err := Build(context.Background(), testConfig(dir))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := res.Store.AddTask(context.Background(), "wired", 1); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	res.Logger.Record("add", "id", 1)
	res.Metrics.Observe("add", "ok", time.Millisecond)
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	for _, name := range []string{"tasks.json", "tasks.log", "taskctl.prom"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("Stat(%s) error = %v", name, err)
		}
	}
}

func TestBuildLogsStoreFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	if err := os.WriteFile(cfg.StorePath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("Build() error = nil, want store init error")
	}
	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "op=open outcome=error") {
		t.Fatalf("log = %q, want open failure line", data)
	}
}

func TestBuildWithoutLogger(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.LogDisabled = true
	cfg.MetricsTextfile = ""
	res, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	res.Logger.Record("list")
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(cfg.LogPath); !os.IsNotExist(err) {
		t.Fatalf("log file created while logging disabled")
	}
}
