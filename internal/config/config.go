// Package config loads onboard-cli settings from defaults, an optional YAML
// file and ONBOARD_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ONBOARD_LOG_LEVEL.
const EnvPrefix = "ONBOARD"

// Config holds CLI configuration.
type Config struct {
	Log    LogConfig
	Store  StoreConfig
	Flows  FlowsConfig
	Output OutputConfig
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string
	JSON  bool
}

// StoreConfig holds sqlite settings.
type StoreConfig struct {
	Path    string
	Enabled bool
}

// FlowsConfig locates flow definitions.
type FlowsConfig struct {
	Dir    string
	Locale string
	Theme  string
}

// OutputConfig controls how collected data is printed.
type OutputConfig struct {
	Format string
}

// Load reads configuration. path wins over ONBOARD_CONFIG; when neither is
// set the user config directory is searched and a missing file is ignored.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "onboard", "onboard.db"))
	v.SetDefault("store.enabled", true)
	v.SetDefault("flows.dir", "flows")
	v.SetDefault("flows.locale", "")
	v.SetDefault("flows.theme", "")
	v.SetDefault("output.format", "pretty")

	v.SetConfigType("yaml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "onboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}

// SlogLevel maps Log.Level onto slog. Unknown values fall back to warn.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelWarn
	}
	return level
}
