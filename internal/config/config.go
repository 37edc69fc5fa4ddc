package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration structure
type Config struct {
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Layout   LayoutConfig   `mapstructure:"layout" yaml:"layout"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Debug    bool           `mapstructure:"debug" yaml:"debug"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-" yaml:"-"`
}

// UIConfig holds user interface preferences
type UIConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	EditorMode      string `mapstructure:"editor_mode" yaml:"editor_mode"`
	DateFormat      string `mapstructure:"date_format" yaml:"date_format"`
	SyntaxThemeDark string `mapstructure:"syntax_theme_dark" yaml:"syntax_theme_dark"`
	SyntaxThemeLite string `mapstructure:"syntax_theme_light" yaml:"syntax_theme_light"`
}

// LayoutConfig is the starting pane geometry.
type LayoutConfig struct {
	SplitRatio   float64 `mapstructure:"split_ratio" yaml:"split_ratio"`
	SidebarWidth float64 `mapstructure:"sidebar_width" yaml:"sidebar_width"`
}

// StorageConfig locates the SQLite state database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SessionConfig controls tab id generation.
type SessionConfig struct {
	IDStyle string `mapstructure:"id_style" yaml:"id_style"`
}

// DispatchConfig tunes the mock dispatcher.
type DispatchConfig struct {
	Fallback  string `mapstructure:"fallback" yaml:"fallback"`
	Sample    bool   `mapstructure:"sample" yaml:"sample"`
	Seed      uint64 `mapstructure:"seed" yaml:"seed"`
	SampleMin int    `mapstructure:"sample_min" yaml:"sample_min"`
}

// ExportConfig controls where exports land.
type ExportConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir"`
	Gzip bool   `mapstructure:"gzip" yaml:"gzip"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// Dir returns ~/.config/squeal.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "squeal")
}

// LoadConfig loads configuration from YAML file and environment variables.
// An explicit path must exist; otherwise the standard locations are searched
// and a missing file means defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SQUEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if err := oneOf("ui.theme", cfg.UI.Theme, "dark", "light"); err != nil {
		return err
	}
	if err := oneOf("ui.editor_mode", cfg.UI.EditorMode, "normal", "vim"); err != nil {
		return err
	}
	if err := oneOf("session.id_style", cfg.Session.IDStyle, "time", "uuid"); err != nil {
		return err
	}
	if err := oneOf("dispatch.fallback", cfg.Dispatch.Fallback, "none", "table1", "table2"); err != nil {
		return err
	}

	if cfg.Layout.SplitRatio < 0 || cfg.Layout.SplitRatio > 100 {
		return fmt.Errorf("layout.split_ratio must be between 0 and 100, got %v", cfg.Layout.SplitRatio)
	}
	if cfg.Layout.SidebarWidth < 120 || cfg.Layout.SidebarWidth > 400 {
		return fmt.Errorf("layout.sidebar_width must be between 120 and 400, got %v", cfg.Layout.SidebarWidth)
	}
	if cfg.Dispatch.SampleMin < 0 {
		return fmt.Errorf("dispatch.sample_min must be >= 0, got %d", cfg.Dispatch.SampleMin)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}
	return nil
}

func oneOf(key, got string, valid ...string) error {
	if slices.Contains(valid, got) {
		return nil
	}
	return fmt.Errorf("%s must be one of: %v, got %q", key, valid, got)
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return &cfg
}

// WriteDefault writes the default configuration as YAML to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.editor_mode", "normal")
	v.SetDefault("ui.date_format", "2006-01-02 15:04:05")
	v.SetDefault("ui.syntax_theme_dark", "squeal")
	v.SetDefault("ui.syntax_theme_light", "squeal-light")

	v.SetDefault("layout.split_ratio", 50)
	v.SetDefault("layout.sidebar_width", 180)

	v.SetDefault("storage.path", filepath.Join(Dir(), "squeal.db"))
	v.SetDefault("session.id_style", "time")

	v.SetDefault("dispatch.fallback", "none")
	v.SetDefault("dispatch.sample", false)
	v.SetDefault("dispatch.seed", 0)
	v.SetDefault("dispatch.sample_min", 1)

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.gzip", false)

	v.SetDefault("server.port", 7878)
	v.SetDefault("debug", false)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
