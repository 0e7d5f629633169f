package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Data     DataConfig     `mapstructure:"data"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale            string `mapstructure:"locale"`
	Timezone          string `mapstructure:"timezone"`
	PreserveSelection bool   `mapstructure:"preserve_selection"`
}

// DataConfig binds data file columns to the calendar roles.
type DataConfig struct {
	DateColumn      string `mapstructure:"date_column"`
	MeasureColumn   string `mapstructure:"measure_column"`
	HighlightColumn string `mapstructure:"highlight_column"`
	MeasureFormat   string `mapstructure:"measure_format"`
	Sheet           string `mapstructure:"sheet"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Location resolves the configured timezone, falling back to UTC.
func (u UIConfig) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultPath is where the config file lives unless JASKCAL_CONFIG says
// otherwise.
func DefaultPath() string {
	if p := os.Getenv("JASKCAL_CONFIG"); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "jaskcal", "config.toml")
}

// Load reads configuration from path (DefaultPath when empty) and env. Env
// var overrides use prefix JASKCAL_. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskcal", "jaskcal.db"))
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.timezone", "UTC")
	v.SetDefault("ui.preserve_selection", false)
	v.SetDefault("data.date_column", "date")
	v.SetDefault("data.measure_column", "value")
	v.SetDefault("data.highlight_column", "")
	v.SetDefault("data.measure_format", "#,0.##")
	v.SetDefault("data.sheet", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("JASKCAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path (DefaultPath when empty), creating the config
// directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.preserve_selection", cfg.UI.PreserveSelection)
	v.Set("data.date_column", cfg.Data.DateColumn)
	v.Set("data.measure_column", cfg.Data.MeasureColumn)
	v.Set("data.highlight_column", cfg.Data.HighlightColumn)
	v.Set("data.measure_format", cfg.Data.MeasureFormat)
	v.Set("data.sheet", cfg.Data.Sheet)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
