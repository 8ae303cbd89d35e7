package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/your-org/idverify/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  api_key: test-key
database:
  host: localhost
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.MaxConns != 20 {
		t.Errorf("Database.MaxConns = %d, want 20", cfg.Database.MaxConns)
	}
	if cfg.Vision.WorkerCount != 4 {
		t.Errorf("Vision.WorkerCount = %d, want 4", cfg.Vision.WorkerCount)
	}
	if cfg.Vision.DetectionThreshold != 0.3 {
		t.Errorf("Vision.DetectionThreshold = %f, want 0.3", cfg.Vision.DetectionThreshold)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("OCR.Language = %q, want eng", cfg.OCR.Language)
	}
	if cfg.Liveness.FusionThreshold != 0.7 {
		t.Errorf("Liveness.FusionThreshold = %f, want 0.7", cfg.Liveness.FusionThreshold)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadRespectsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
vision:
  worker_count: 8
  detection_threshold: 0.5
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Vision.WorkerCount != 8 {
		t.Errorf("Vision.WorkerCount = %d, want 8", cfg.Vision.WorkerCount)
	}
	if cfg.Vision.DetectionThreshold != 0.5 {
		t.Errorf("Vision.DetectionThreshold = %f, want 0.5", cfg.Vision.DetectionThreshold)
	}
}

func TestLoadEnvOverridesTakePrecedence(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
vision:
  worker_count: 8
`)
	t.Setenv("ID_SERVER_PORT", "7070")
	t.Setenv("ID_VISION_WORKER_COUNT", "2")
	t.Setenv("ID_VISION_INTRA_OP_THREADS", "4")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 (env override)", cfg.Server.Port)
	}
	if cfg.Vision.WorkerCount != 2 {
		t.Errorf("Vision.WorkerCount = %d, want 2 (env override)", cfg.Vision.WorkerCount)
	}
	if cfg.Vision.IntraOpThreads != 4 {
		t.Errorf("Vision.IntraOpThreads = %d, want 4 (env override)", cfg.Vision.IntraOpThreads)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := config.DatabaseConfig{Host: "db", Port: 5432, Name: "idverify", User: "app", Password: "secret"}
	want := "postgres://app:secret@db:5432/idverify?sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
