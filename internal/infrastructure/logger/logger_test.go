package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/roundbuy/backend-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "dispute.log")
	log, closer, err := Setup(config.LogConfig{LogLevel: "debug", LogFormat: "json", LogOutput: path})
	require.NoError(t, err)

	log.Debug("sweep finished", "module", "sweeper", "outcome", "ok")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(raw, &line))
	assert.Equal(t, "dispute-service", line["service"])
	assert.Equal(t, "sweeper", line["module"])
	assert.Equal(t, "DEBUG", line["level"])
}

func TestSetup_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{name: "level", cfg: config.LogConfig{LogLevel: "loud"}},
		{name: "format", cfg: config.LogConfig{LogLevel: "info", LogFormat: "xml"}},
		{name: "output", cfg: config.LogConfig{LogLevel: "info", LogOutput: filepath.Join(t.TempDir(), "missing", "x.log")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Setup(tt.cfg)
			assert.Error(t, err)
		})
	}
}
