package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	yamlContent := `
iterator:
  num_rows_to_check_memory: 16
  vertex_cache_capacity: 8
memory:
  high_watermark_ratio: 0.9
`
	cfg, err := Load(strings.NewReader(yamlContent))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Check overridden values
	assert.Equal(t, 16, cfg.Iterator.NumRowsToCheckMemory)
	assert.Equal(t, 8, cfg.Iterator.VertexCacheCapacity)
	assert.Equal(t, 0.9, cfg.Memory.HighWatermarkRatio)

	// Check defaults that were not overridden
	assert.True(t, cfg.Iterator.CheckMemory)
	assert.Equal(t, "1s", cfg.Memory.CheckInterval)
	assert.Equal(t, "grpc", cfg.Tracing.Protocol)
}

func TestLoad_EmptyReader(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 1024, cfg.Iterator.NumRowsToCheckMemory)

	cfg, err = Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Iterator.VertexCacheCapacity)
}

func TestLoad_InvalidYAML(t *testing.T) {
	yamlContent := `
iterator:
  check_memory: true
  this: is: invalid: yaml
`
	_, err := Load(strings.NewReader(yamlContent))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errPart string
	}{
		{"ZeroCheckInterval", "iterator:\n  num_rows_to_check_memory: 0\n", "num_rows_to_check_memory"},
		{"NegativeCache", "iterator:\n  vertex_cache_capacity: -2\n", "vertex_cache_capacity"},
		{"RatioAboveOne", "memory:\n  high_watermark_ratio: 1.5\n", "high_watermark_ratio"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestLoadConfig_FileIntegration(t *testing.T) {
	t.Run("FileExists", func(t *testing.T) {
		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: debug\n"), 0644))

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("FileDoesNotExist", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "non_existent_config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Logging.Level)
	})
}

func TestParseDuration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defaultDuration := 10 * time.Second

	testCases := []struct {
		name     string
		input    string
		expected time.Duration
	}{
		{"ValidSeconds", "5s", 5 * time.Second},
		{"ValidMilliseconds", "500ms", 500 * time.Millisecond},
		{"EmptyString", "", defaultDuration},
		{"ZeroString", "0", defaultDuration},
		{"InvalidString", "5x", defaultDuration},
		{"NilLogger", "5x", defaultDuration},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var testLogger *slog.Logger
			if tc.name != "NilLogger" {
				testLogger = logger
			}
			assert.Equal(t, tc.expected, ParseDuration(tc.input, defaultDuration, testLogger))
		})
	}
}
