package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"services": [
			{"name": "local", "kind": "ollama", "url": "http://localhost:11434", "model": "llama3.2:1b"},
			{"name": "sim", "kind": "simulated", "simulated": {"firstTokenMs": 80, "tokens": 32}}
		],
		"iterations": 5,
		"targetTTFTMs": 250,
		"load": {"durationSeconds": 10, "concurrency": 3}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Services) != 2 {
		t.Fatalf("services: %d", len(cfg.Services))
	}
	if cfg.IterationCount() != 5 {
		t.Fatalf("iterations: %d", cfg.IterationCount())
	}
	if cfg.TTFTTarget() != 250 {
		t.Fatalf("target: %v", cfg.TTFTTarget())
	}
	if cfg.Load.ConcurrencyCap() != 3 {
		t.Fatalf("concurrency: %d", cfg.Load.ConcurrencyCap())
	}
	if cfg.ConfigPath != path {
		t.Fatalf("config path: %s", cfg.ConfigPath)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"services": [{"name": "sim", "kind": "simulated"}]}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IterationCount() != defaultIterations {
		t.Fatalf("default iterations: %d", cfg.IterationCount())
	}
	if cfg.WarmupRequests() != defaultWarmupCount {
		t.Fatalf("default warmup: %d", cfg.WarmupRequests())
	}
	if cfg.MinChunkCount() != defaultMinChunks {
		t.Fatalf("default min chunks: %d", cfg.MinChunkCount())
	}
	if cfg.RequestTimeout() != defaultRequestTimeout {
		t.Fatalf("default timeout: %v", cfg.RequestTimeout())
	}
	if cfg.RunCount() != 1 {
		t.Fatalf("default runs: %d", cfg.RunCount())
	}
	if cfg.LogFilePath() != "faceoff.log" {
		t.Fatalf("default log file: %s", cfg.LogFilePath())
	}
	if cfg.Load.UserCount() != cfg.Load.ConcurrencyCap() {
		t.Fatalf("users should default to concurrency cap")
	}
}

func TestLoadRejectsEmptyServices(t *testing.T) {
	path := writeConfig(t, `{"services": []}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty services")
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	path := writeConfig(t, `{"services": [{"name": "x", "kind": "grpc"}]}`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected schema error for unknown kind")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestThinkTimeRangeClamps(t *testing.T) {
	l := LoadConfig{ThinkTimeMinMs: 200, ThinkTimeMaxMs: 100}
	min, max := l.ThinkTimeRange()
	if min != 200*time.Millisecond || max != 200*time.Millisecond {
		t.Fatalf("range: %v..%v", min, max)
	}

	l = LoadConfig{ThinkTimeMinMs: -5}
	min, max = l.ThinkTimeRange()
	if min != 0 || max != 0 {
		t.Fatalf("negative min should clamp to zero: %v..%v", min, max)
	}
}
