// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Feed describes the market data source the pipeline consumes.
type Feed struct {
	Provider string `yaml:"provider"` // stub|binance
	Symbol   string `yaml:"symbol"`
}

// Strategy groups the tunable knobs of the moving-average engine.
type Strategy struct {
	WindowSize   int `yaml:"window_size"`
	ThresholdBps int `yaml:"threshold_bps"`
}

// Queue bounds the buffer between ingestion and the strategy engine.
type Queue struct {
	Capacity int `yaml:"capacity"`
}

// Paper captures paper-trading settings such as fill size and the fill audit path.
type Paper struct {
	UnitSize  float64 `yaml:"unit_size"`
	FillsPath string  `yaml:"fills_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Feed     Feed     `yaml:"feed"`
	Strategy Strategy `yaml:"strategy"`
	Queue    Queue    `yaml:"queue"`
	Paper    Paper    `yaml:"paper"`
}

// Default returns the configuration used when a field is left unset: BTCUSDT
// over the stub provider, a 50-trade window, a 10 bps band, a 4096-slot
// queue, and metrics on :9000.
func Default() Config {
	return Config{
		App:      App{Name: "quantmini", Env: "dev", MetricsAddr: ":9000", LogLevel: "info"},
		Feed:     Feed{Provider: "stub", Symbol: "BTCUSDT"},
		Strategy: Strategy{WindowSize: 50, ThresholdBps: 10},
		Queue:    Queue{Capacity: 4096},
		Paper:    Paper{UnitSize: 1},
	}
}

// Load reads a YAML file from disk, hydrates a Config struct, applies
// defaults for unset fields, and overlays QUANTMINI_* environment variables.
// A .env file next to the process is honored best-effort.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// Fields absent from the document keep their defaults.
	config := Default()
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyEnv(&config)
	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUANTMINI_SYMBOL"); v != "" {
		cfg.Feed.Symbol = v
	}
	if v := os.Getenv("QUANTMINI_PROVIDER"); v != "" {
		cfg.Feed.Provider = v
	}
	if v := os.Getenv("QUANTMINI_METRICS_ADDR"); v != "" {
		cfg.App.MetricsAddr = v
	}
	if v := os.Getenv("QUANTMINI_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("QUANTMINI_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.WindowSize = n
		}
	}
	if v := os.Getenv("QUANTMINI_THRESHOLD_BPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.ThresholdBps = n
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Strategy.WindowSize < 1 {
		return fmt.Errorf("strategy.window_size must be >= 1, got %d", cfg.Strategy.WindowSize)
	}
	if cfg.Strategy.ThresholdBps < 0 {
		return fmt.Errorf("strategy.threshold_bps must be >= 0, got %d", cfg.Strategy.ThresholdBps)
	}
	if cfg.Queue.Capacity < 1 {
		return fmt.Errorf("queue.capacity must be >= 1, got %d", cfg.Queue.Capacity)
	}
	return nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
