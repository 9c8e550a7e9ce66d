// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// -- Test Helper Functions --

// initToBuffer resets the global logger and points its console output at a buffer.
func initToBuffer(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

// allowColors unsets NO_COLOR for the duration of the test.
func allowColors(t *testing.T) {
	t.Helper()
	prev, set := os.LookupEnv("NO_COLOR")
	require.NoError(t, os.Unsetenv("NO_COLOR"))
	t.Cleanup(func() {
		if set {
			os.Setenv("NO_COLOR", prev)
		}
	})
}

// -- Test Cases --

func TestInitialize(t *testing.T) {
	t.Run("console logger with colors", func(t *testing.T) {
		allowColors(t)
		buf := initToBuffer(t, config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "boxlayout",
			Colors:      config.ColorConfig{Info: "green"},
		})
		Component("boxtree").Info("Layout computed.")
		Sync()

		output := buf.String()
		assert.Contains(t, output, colorGreen+"INFO"+colorReset)
		assert.Contains(t, output, "boxlayout.boxtree.")
		assert.Contains(t, output, "Layout computed.")
	})

	t.Run("levels without a color stay plain", func(t *testing.T) {
		buf := initToBuffer(t, config.LoggerConfig{Level: "debug", Format: "console"})
		GetLogger().Warn("plain")
		Sync()

		assert.Contains(t, buf.String(), "WARN")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("NO_COLOR disables level colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		buf := initToBuffer(t, config.LoggerConfig{Level: "debug", Format: "console", Colors: config.ColorConfig{Info: "green"}})
		GetLogger().Info("plain")
		Sync()

		assert.Contains(t, buf.String(), "INFO")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("json logger", func(t *testing.T) {
		buf := initToBuffer(t, config.LoggerConfig{Level: "info", Format: "json", ServiceName: "JSONTest"})
		GetLogger().Warn("Fixture failed.", zap.String("path", "a.yaml"))
		Sync()

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "JSONTest", entry["logger"])
		assert.Equal(t, "Fixture failed.", entry["msg"])
		assert.Equal(t, "a.yaml", entry["path"])
	})

	t.Run("level filtering", func(t *testing.T) {
		buf := initToBuffer(t, config.LoggerConfig{Level: "warn", Format: "json"})
		GetLogger().Info("hidden")
		GetLogger().Error("shown")
		Sync()

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		buf := initToBuffer(t, config.LoggerConfig{Level: "chatty", Format: "json"})
		GetLogger().Debug("hidden")
		GetLogger().Info("shown")
		Sync()

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("writes to a log file if configured", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "boxlayout.log")
		initToBuffer(t, config.LoggerConfig{Level: "debug", Format: "console", LogFile: logFile, MaxSize: 1})
		GetLogger().Error("This should go to the file.")
		Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		line := strings.TrimSpace(string(content))
		assert.True(t, strings.HasPrefix(line, "{"), "the file is always JSON")
		assert.Contains(t, line, "This should go to the file.")
	})

	t.Run("only initializes once", func(t *testing.T) {
		buf := initToBuffer(t, config.LoggerConfig{Level: "info", Format: "json", ServiceName: "First"})
		first := GetLogger()

		Initialize(config.LoggerConfig{Level: "debug", ServiceName: "Second"}, zapcore.AddSync(&bytes.Buffer{}))
		assert.Same(t, first, GetLogger())

		GetLogger().Info("test")
		Sync()
		assert.Contains(t, buf.String(), "First")
		assert.NotContains(t, buf.String(), "Second")
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("fallback before initialization", func(t *testing.T) {
		ResetForTest()
		assert.NotNil(t, GetLogger())
		assert.NotPanics(t, Sync, "sync without a global logger is a no-op")
	})

	t.Run("global logger after initialization", func(t *testing.T) {
		initToBuffer(t, config.LoggerConfig{Level: "info"})
		assert.Same(t, globalLogger.Load(), GetLogger())
	})
}

func TestLayoutFields(t *testing.T) {
	buf := initToBuffer(t, config.LoggerConfig{Level: "debug", Format: "json"})

	fits := layout.Layout{
		Location:    layout.Point[float64]{X: 4, Y: 8},
		Size:        layout.Size[float64]{Width: 100, Height: 50},
		ContentSize: layout.Size[float64]{Width: 100, Height: 50},
	}
	overflows := fits
	overflows.ContentSize.Height = 75

	Component("engine").Debug("Fixture laid out.", Fixture("row", "row.yaml"), Box("root", fits), Box("child", overflows))
	Sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["logger"])
	assert.Equal(t, map[string]interface{}{"name": "row", "path": "row.yaml"}, entry["fixture"])
	assert.Equal(t, map[string]interface{}{"x": 4.0, "y": 8.0, "width": 100.0, "height": 50.0}, entry["root"])

	child, ok := entry["child"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 75.0, child["content_height"], "overflowing boxes report their content size")
}
