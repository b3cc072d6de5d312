package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/panelkit/internal/panel"
)

// Config holds application configuration.
type Config struct {
	Panels    PanelsConfig     `mapstructure:"panels"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Host      HostConfig       `mapstructure:"host"`
	Audio     AudioConfig      `mapstructure:"audio"`
	Profile   ProfileConfig    `mapstructure:"profile"`
	Templates []TemplateConfig `mapstructure:"templates"`
}

// PanelsConfig holds manager policy.
type PanelsConfig struct {
	Identity     string `mapstructure:"identity"`
	DefaultLimit string `mapstructure:"default_limit"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	Migrations string `mapstructure:"migrations"`
}

// HostConfig holds frame loop and animation settings.
type HostConfig struct {
	FPS         int `mapstructure:"fps"`
	ShowFrames  int `mapstructure:"show_frames"`
	HideFrames  int `mapstructure:"hide_frames"`
	FlashFrames int `mapstructure:"flash_frames"`
	PoolSize    int `mapstructure:"pool_size"`
}

// AudioConfig holds cue settings.
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// ProfileConfig selects the persisted profile.
type ProfileConfig struct {
	Name string `mapstructure:"name"`
}

// TemplateConfig is one [[templates]] entry.
type TemplateConfig struct {
	ID            string `mapstructure:"id"`
	Group         string `mapstructure:"group"`
	Focus         string `mapstructure:"focus"`
	CloseOnCancel bool   `mapstructure:"close_on_cancel"`
}

// DefaultTemplates is the catalog used when the config file declares none.
func DefaultTemplates() []TemplateConfig {
	return []TemplateConfig{
		{ID: "pause", Group: "menu", Focus: "resume", CloseOnCancel: true},
		{ID: "settings", Group: "menu", Focus: "volume", CloseOnCancel: true},
		{ID: "inventory", Group: "menu", Focus: "slot-1", CloseOnCancel: true},
		{ID: "confirm", Group: "modal", Focus: "ok"},
		{ID: "toast", Group: "toast"},
		{ID: "hud"},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix PANELKIT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("panels.identity", "singleton")
	v.SetDefault("panels.default_limit", "replace")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "panelkit", "panelkit.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("host.fps", 30)
	v.SetDefault("host.show_frames", 8)
	v.SetDefault("host.hide_frames", 6)
	v.SetDefault("host.flash_frames", 4)
	v.SetDefault("host.pool_size", 16)
	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0.4)
	v.SetDefault("profile.name", "default")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PANELKIT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "panelkit"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PANELKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Templates) == 0 {
		c.Templates = DefaultTemplates()
	}
	return c, nil
}

// Save writes the provided preferences to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("PANELKIT_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "panelkit", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("panels.identity", cfg.Panels.Identity)
	v.Set("panels.default_limit", cfg.Panels.DefaultLimit)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("host.fps", cfg.Host.FPS)
	v.Set("host.show_frames", cfg.Host.ShowFrames)
	v.Set("host.hide_frames", cfg.Host.HideFrames)
	v.Set("host.flash_frames", cfg.Host.FlashFrames)
	v.Set("host.pool_size", cfg.Host.PoolSize)
	v.Set("audio.enabled", cfg.Audio.Enabled)
	v.Set("audio.volume", cfg.Audio.Volume)
	v.Set("profile.name", cfg.Profile.Name)
	if len(cfg.Templates) > 0 {
		ts := make([]map[string]any, 0, len(cfg.Templates))
		for _, t := range cfg.Templates {
			ts = append(ts, map[string]any{
				"id":              t.ID,
				"group":           t.Group,
				"focus":           t.Focus,
				"close_on_cancel": t.CloseOnCancel,
			})
		}
		v.Set("templates", ts)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Catalog builds the template catalog.
func (c Config) Catalog() (*panel.Catalog, error) {
	ts := make([]panel.Template, 0, len(c.Templates))
	for _, t := range c.Templates {
		ts = append(ts, panel.Template{
			ID:            strings.TrimSpace(t.ID),
			Group:         strings.TrimSpace(t.Group),
			DefaultFocus:  t.Focus,
			CloseOnCancel: t.CloseOnCancel,
		})
	}
	cat, err := panel.NewCatalog(ts...)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}

// ManagerPolicy parses the identity model and default limit override.
func (c Config) ManagerPolicy() (panel.Identity, panel.LimitOverride, error) {
	id, err := panel.ParseIdentity(c.Panels.Identity)
	if err != nil {
		return 0, 0, err
	}
	lim, err := panel.ParseLimitOverride(c.Panels.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return id, lim, nil
}
