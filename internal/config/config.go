// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. BOXLAYOUT_BATCH_CONCURRENCY.
const EnvPrefix = "BOXLAYOUT"

// Output formats understood by the compute command.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Layout() LayoutConfig
	Batch() BatchConfig
	Database() DatabaseConfig

	// Layout Setters
	SetLayoutRounding(bool)
	SetLayoutViewport(width, height string)

	// Batch Setters
	SetBatchConcurrency(int)
	SetBatchOutputFormat(string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	LayoutCfg   LayoutConfig   `mapstructure:"layout" yaml:"layout"`
	BatchCfg    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	DatabaseCfg DatabaseConfig `mapstructure:"database" yaml:"database"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Layout() LayoutConfig     { return c.LayoutCfg }
func (c *Config) Batch() BatchConfig       { return c.BatchCfg }
func (c *Config) Database() DatabaseConfig { return c.DatabaseCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetLayoutRounding(b bool) { c.LayoutCfg.Rounding = b }
func (c *Config) SetLayoutViewport(width, height string) {
	c.LayoutCfg.ViewportWidth = width
	c.LayoutCfg.ViewportHeight = height
}

func (c *Config) SetBatchConcurrency(n int)     { c.BatchCfg.Concurrency = n }
func (c *Config) SetBatchOutputFormat(f string) { c.BatchCfg.OutputFormat = f }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LayoutConfig controls how fixtures are laid out.
type LayoutConfig struct {
	// Rounding snaps final layouts to whole pixels.
	Rounding bool `mapstructure:"rounding" yaml:"rounding"`

	// ViewportWidth and ViewportHeight override a fixture's viewport when
	// set. Values are pixels, "min-content" or "max-content".
	ViewportWidth  string     `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight string     `mapstructure:"viewport_height" yaml:"viewport_height"`
	Text           TextConfig `mapstructure:"text" yaml:"text"`
}

// TextConfig describes the monospace font used to measure text leaves.
type TextConfig struct {
	CellWidth  float64 `mapstructure:"cell_width" yaml:"cell_width"`
	LineHeight float64 `mapstructure:"line_height" yaml:"line_height"`
}

// BatchConfig controls how many fixtures are processed at once and how
// results are written.
type BatchConfig struct {
	Concurrency  int    `mapstructure:"concurrency" yaml:"concurrency"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// FailFast stops the batch at the first fixture that fails.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// DatabaseConfig holds the database connection details used to store runs.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`

	// EnsureSchema creates the layout tables on connect.
	EnsureSchema bool `mapstructure:"ensure_schema" yaml:"ensure_schema"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxlayout")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Layout --
	v.SetDefault("layout.rounding", true)
	v.SetDefault("layout.viewport_width", "")
	v.SetDefault("layout.viewport_height", "")
	v.SetDefault("layout.text.cell_width", 8.0)
	v.SetDefault("layout.text.line_height", 16.0)

	// -- Batch --
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.output_format", OutputText)
	v.SetDefault("batch.fail_fast", false)

	// -- Database --
	v.SetDefault("database.url", "")
	v.SetDefault("database.ensure_schema", true)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
// Environment variables such as BOXLAYOUT_LAYOUT_ROUNDING override file values.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.BatchCfg.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be a positive integer")
	}
	switch c.BatchCfg.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("batch.output_format must be %q or %q, got %q", OutputText, OutputJSON, c.BatchCfg.OutputFormat)
	}
	if err := c.LayoutCfg.Text.Validate(); err != nil {
		return fmt.Errorf("layout.text configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the text metrics.
func (t *TextConfig) Validate() error {
	if t.CellWidth <= 0 {
		return fmt.Errorf("cell_width must be positive")
	}
	if t.LineHeight <= 0 {
		return fmt.Errorf("line_height must be positive")
	}
	return nil
}
