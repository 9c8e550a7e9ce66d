// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "boxlayout", cfg.Logger().ServiceName)
	assert.Equal(t, "cyan", cfg.Logger().Colors.Debug)
	assert.True(t, cfg.Layout().Rounding)
	assert.Empty(t, cfg.Layout().ViewportWidth)
	assert.Equal(t, 8.0, cfg.Layout().Text.CellWidth)
	assert.Equal(t, 16.0, cfg.Layout().Text.LineHeight)
	assert.Equal(t, 4, cfg.Batch().Concurrency)
	assert.Equal(t, OutputText, cfg.Batch().OutputFormat)
	assert.Empty(t, cfg.Database().URL)
	assert.True(t, cfg.Database().EnsureSchema)
	assert.NoError(t, cfg.Validate(), "defaults must validate")
}

func TestConfigSetters(t *testing.T) {
	var cfg Interface = NewDefaultConfig()

	cfg.SetLayoutRounding(false)
	cfg.SetLayoutViewport("320", "max-content")
	cfg.SetBatchConcurrency(9)
	cfg.SetBatchOutputFormat(OutputJSON)

	assert.False(t, cfg.Layout().Rounding)
	assert.Equal(t, "320", cfg.Layout().ViewportWidth)
	assert.Equal(t, "max-content", cfg.Layout().ViewportHeight)
	assert.Equal(t, 9, cfg.Batch().Concurrency)
	assert.Equal(t, OutputJSON, cfg.Batch().OutputFormat)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Core Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()
		require.NoError(t, cfg.Validate())

		invalidConcurrency := *cfg
		invalidConcurrency.BatchCfg.Concurrency = 0
		err := invalidConcurrency.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch.concurrency must be a positive integer")

		invalidFormat := *cfg
		invalidFormat.BatchCfg.OutputFormat = "xml"
		err = invalidFormat.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch.output_format")
	})

	t.Run("Text Validation", func(t *testing.T) {
		valid := TextConfig{CellWidth: 7, LineHeight: 14}
		assert.NoError(t, valid.Validate())

		noWidth := valid
		noWidth.CellWidth = 0
		assert.ErrorContains(t, noWidth.Validate(), "cell_width")

		noHeight := valid
		noHeight.LineHeight = -1
		assert.ErrorContains(t, noHeight.Validate(), "line_height")

		cfg := NewDefaultConfig()
		cfg.LayoutCfg.Text = noHeight
		assert.ErrorContains(t, cfg.Validate(), "layout.text configuration invalid")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
layout:
  rounding: false
  text:
    cell_width: 10
batch:
  concurrency: 2
  output_format: json
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.False(t, cfg.Layout().Rounding)
		assert.Equal(t, 10.0, cfg.Layout().Text.CellWidth)
		assert.Equal(t, 16.0, cfg.Layout().Text.LineHeight, "unset keys keep their defaults")
		assert.Equal(t, 2, cfg.Batch().Concurrency)
		assert.Equal(t, OutputJSON, cfg.Batch().OutputFormat)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("batch.concurrency", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "batch.concurrency must be a positive integer")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("batch:\n  concurrency: 2\n")))

		t.Setenv("BOXLAYOUT_BATCH_CONCURRENCY", "12")
		t.Setenv("BOXLAYOUT_LAYOUT_VIEWPORT_WIDTH", "640")
		t.Setenv("BOXLAYOUT_DATABASE_URL", "postgres://localhost/layouts")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Batch().Concurrency, "env overrides the config file")
		assert.Equal(t, "640", cfg.Layout().ViewportWidth)
		assert.Equal(t, "postgres://localhost/layouts", cfg.Database().URL)
	})
}

// -- Struct and Mapping Tests --

func TestConfigStructureMapping(t *testing.T) {
	yamlInput := `
logger:
  level: debug
  log_file: /var/log/boxlayout.log
  colors:
    info: blue
layout:
  viewport_height: min-content
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yamlInput)))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "/var/log/boxlayout.log", cfg.Logger().LogFile)
	assert.Equal(t, "blue", cfg.Logger().Colors.Info)
	assert.Equal(t, "yellow", cfg.Logger().Colors.Warn, "sibling color keys keep their defaults")
	assert.Equal(t, "min-content", cfg.Layout().ViewportHeight)
	assert.True(t, cfg.Layout().Rounding)
}
