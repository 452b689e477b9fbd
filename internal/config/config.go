package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Config struct {
	DBPath      string `mapstructure:"db_path" yaml:"db_path"`
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`
	// CheckInDays is the length of a check-in cycle.
	CheckInDays int `mapstructure:"check_in_days" yaml:"check_in_days"`
	// LevelUpThreshold is a percentage, 0..100.
	LevelUpThreshold int       `mapstructure:"level_up_threshold" yaml:"level_up_threshold"`
	Log              LogConfig `mapstructure:"log" yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		CheckInDays:      15,
		LevelUpThreshold: 80,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.sunrise/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sunrise", "config.yaml")
}

// Load layers the defaults, the YAML file at path and SUNRISE_* environment
// variables, in that order. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SUNRISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registering every key lets env variables override keys the file omits.
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("catalog_path", cfg.CatalogPath)
	v.SetDefault("check_in_days", cfg.CheckInDays)
	v.SetDefault("level_up_threshold", cfg.LevelUpThreshold)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CheckInDays <= 0 {
		return fmt.Errorf("config: check_in_days must be positive, got %d", c.CheckInDays)
	}
	if c.LevelUpThreshold < 0 || c.LevelUpThreshold > 100 {
		return fmt.Errorf("config: level_up_threshold must be within 0..100, got %d", c.LevelUpThreshold)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return l, nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
