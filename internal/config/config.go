// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Player  PlayerConfig  `mapstructure:"player" yaml:"player"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
}

// LoggerConfig controls the zap logger and its optional rotating file sink.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// PlayerConfig tunes the playback readiness orchestration.
type PlayerConfig struct {
	// ReadyTimeout is the single total budget for reaching a playing state:
	// consent, ads, media element and playback confirmation all share it.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout" yaml:"ready_timeout"`
}

// CaptureConfig controls the frame capture that runs once playback is ready.
type CaptureConfig struct {
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	FrameRate float64       `mapstructure:"frame_rate" yaml:"frame_rate"`
	Duration  time.Duration `mapstructure:"duration" yaml:"duration"`
}

// SetDefaults registers the default values on a viper instance. Defaults are
// applied before the config file and environment variables are read, so any
// of them can be overridden.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "tuberec")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.navigation_timeout", 90*time.Second)

	v.SetDefault("player.ready_timeout", 90*time.Second)

	v.SetDefault("capture.output_dir", "recordings")
	v.SetDefault("capture.frame_rate", 2.0)
	v.SetDefault("capture.duration", 30*time.Second)
}

// Load unmarshals the configuration from a viper instance and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the rest of the program cannot run with.
func (c *Config) Validate() error {
	if c.Player.ReadyTimeout <= 0 {
		return fmt.Errorf("player.ready_timeout must be positive, got %s", c.Player.ReadyTimeout)
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window size must be positive, got %dx%d", c.Browser.WindowWidth, c.Browser.WindowHeight)
	}
	if c.Capture.FrameRate <= 0 {
		return fmt.Errorf("capture.frame_rate must be positive, got %v", c.Capture.FrameRate)
	}
	if c.Capture.Duration <= 0 {
		return fmt.Errorf("capture.duration must be positive, got %s", c.Capture.Duration)
	}
	return nil
}
