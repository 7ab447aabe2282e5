// Package config loads mvsync settings from defaults, an optional YAML file
// and MVSYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/mvsync/internal/ir"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "MVSYNC_CONFIG"

// Config holds application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Journal JournalConfig `mapstructure:"journal"`
	Engine  EngineConfig  `mapstructure:"engine"`
	UI      UIConfig      `mapstructure:"ui"`
}

// LogConfig holds logging settings. An empty File discards logs in the
// terminal frontend.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// JournalConfig holds the tick journal location. Empty disables journaling.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig holds tick pipeline settings.
type EngineConfig struct {
	MaxActionsPerTick int `mapstructure:"max_actions_per_tick"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	GlyphChecked   string `mapstructure:"glyph_checked"`
	GlyphUnchecked string `mapstructure:"glyph_unchecked"`
	GlyphDeleter   string `mapstructure:"glyph_deleter"`
	Placeholder    string `mapstructure:"placeholder"`
}

func setDefaults(v *viper.Viper) {
	g := ir.DefaultGlyphs()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("engine.max_actions_per_tick", 256)
	v.SetDefault("ui.glyph_checked", g.Checked)
	v.SetDefault("ui.glyph_unchecked", g.Unchecked)
	v.SetDefault("ui.glyph_deleter", g.Deleter)
	v.SetDefault("ui.placeholder", "What needs to be done?")
}

// Load reads configuration. path names a config file; when empty,
// MVSYNC_CONFIG is consulted, then $HOME/.config/mvsync/config.yaml.
// An explicitly named file must exist. Env var overrides use prefix MVSYNC_
// with "." replaced by "_" (MVSYNC_JOURNAL_PATH).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName("config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mvsync"))
		}
	}

	v.SetEnvPrefix("MVSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Engine.MaxActionsPerTick < 0 {
		return fmt.Errorf("config: engine.max_actions_per_tick must be >= 0 (0 disables the bound), got %d", c.Engine.MaxActionsPerTick)
	}
	if c.UI.GlyphChecked == c.UI.GlyphUnchecked {
		return fmt.Errorf("config: ui.glyph_checked and ui.glyph_unchecked must differ (both %q)", c.UI.GlyphChecked)
	}
	return nil
}

// Glyphs returns the configured checkmark and deleter texts.
func (c Config) Glyphs() ir.Glyphs {
	return ir.Glyphs{
		Checked:   c.UI.GlyphChecked,
		Unchecked: c.UI.GlyphUnchecked,
		Deleter:   c.UI.GlyphDeleter,
	}
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}
