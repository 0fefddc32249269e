package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "quantmini-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.MetricsAddr != ":9100" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.Feed.Provider != "binance" || cfg.Feed.Symbol != "ethusdt" {
		t.Fatalf("unexpected feed config: %+v", cfg.Feed)
	}
	if cfg.Strategy.WindowSize != 20 {
		t.Fatalf("unexpected window size: %d", cfg.Strategy.WindowSize)
	}
	if cfg.Strategy.ThresholdBps != 25 {
		t.Fatalf("unexpected threshold: %d", cfg.Strategy.ThresholdBps)
	}
	if cfg.Queue.Capacity != 512 {
		t.Fatalf("unexpected queue capacity: %d", cfg.Queue.Capacity)
	}
	if cfg.Paper.UnitSize != 1 || cfg.Paper.FillsPath != "data/fills.jsonl" {
		t.Fatalf("unexpected paper config: %+v", cfg.Paper)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: bare\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Strategy.WindowSize != 50 {
		t.Fatalf("expected default window 50, got %d", cfg.Strategy.WindowSize)
	}
	if cfg.Strategy.ThresholdBps != 10 {
		t.Fatalf("expected default threshold 10 bps, got %d", cfg.Strategy.ThresholdBps)
	}
	if cfg.Queue.Capacity != 4096 {
		t.Fatalf("expected default queue capacity 4096, got %d", cfg.Queue.Capacity)
	}
	if cfg.App.MetricsAddr != ":9000" {
		t.Fatalf("expected default metrics addr :9000, got %s", cfg.App.MetricsAddr)
	}
	if cfg.Feed.Symbol != "BTCUSDT" {
		t.Fatalf("expected default symbol, got %s", cfg.Feed.Symbol)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUANTMINI_SYMBOL", "SOLUSDT")
	t.Setenv("QUANTMINI_WINDOW_SIZE", "7")

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Feed.Symbol != "SOLUSDT" {
		t.Fatalf("expected env symbol override, got %s", cfg.Feed.Symbol)
	}
	if cfg.Strategy.WindowSize != 7 {
		t.Fatalf("expected env window override, got %d", cfg.Strategy.WindowSize)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("strategy:\n  window_size: -3\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative window size")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Feed.Symbol = "DOGEUSDT"
	if err := Save(path, &cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Feed.Symbol != "DOGEUSDT" {
		t.Fatalf("expected round-tripped symbol, got %s", loaded.Feed.Symbol)
	}
}
