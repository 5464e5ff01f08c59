package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// IteratorConfig holds result-iterator configurations.
type IteratorConfig struct {
	CheckMemory          bool `yaml:"check_memory"`
	NumRowsToCheckMemory int  `yaml:"num_rows_to_check_memory"`
	VertexCacheCapacity  int  `yaml:"vertex_cache_capacity"`
}

// MemoryConfig holds the memory high-watermark configurations.
type MemoryConfig struct {
	HighWatermarkRatio float64 `yaml:"high_watermark_ratio"`
	CheckInterval      string  `yaml:"check_interval"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "debug", "info", "warn", "error"
	Output string `yaml:"output"` // e.g., "stdout", "file", "none"
	File   string `yaml:"file"`   // Path to the log file, used if output is "file"
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // e.g., "localhost:4317" for gRPC OTLP collector
	Protocol string `yaml:"protocol"` // "grpc" or "http"
}

// Config is the top-level configuration struct.
type Config struct {
	Iterator IteratorConfig `yaml:"iterator"`
	Memory   MemoryConfig   `yaml:"memory"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ParseDuration parses a duration string. Returns the default duration if the string is empty or invalid.
// Logs a warning if the string is invalid but not empty.
func ParseDuration(durationStr string, defaultDuration time.Duration, logger *slog.Logger) time.Duration {
	if durationStr == "" || durationStr == "0" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		if logger != nil {
			logger.Warn("Invalid duration format, using default", "input", durationStr, "default", defaultDuration.String(), "error", err)
		}
		return defaultDuration
	}
	return d
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Iterator: IteratorConfig{
			CheckMemory:          true,
			NumRowsToCheckMemory: 1024,
			VertexCacheCapacity:  1,
		},
		Memory: MemoryConfig{
			HighWatermarkRatio: 0.8,
			CheckInterval:      "1s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
			File:   "nexusgraph.log",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
			Protocol: "grpc",
		},
	}
}

// Validate rejects values the iterators cannot work with.
func (c *Config) Validate() error {
	if c.Iterator.NumRowsToCheckMemory <= 0 {
		return fmt.Errorf("iterator.num_rows_to_check_memory must be positive, got %d", c.Iterator.NumRowsToCheckMemory)
	}
	if c.Iterator.VertexCacheCapacity < 0 {
		return fmt.Errorf("iterator.vertex_cache_capacity must not be negative, got %d", c.Iterator.VertexCacheCapacity)
	}
	if c.Memory.HighWatermarkRatio <= 0 || c.Memory.HighWatermarkRatio > 1 {
		return fmt.Errorf("memory.high_watermark_ratio must be in (0, 1], got %v", c.Memory.HighWatermarkRatio)
	}
	return nil
}

// Load reads configuration from an io.Reader.
// This is the core logic, separated for testability.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	// If the reader is nil, it's like an empty file, return defaults.
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}

	if len(data) == 0 {
		return cfg, nil
	}

	// Unmarshal YAML into the config struct, overwriting defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadConfig reads configuration from a YAML file by path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// If file doesn't exist, return default config by calling Load with a nil reader.
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}
