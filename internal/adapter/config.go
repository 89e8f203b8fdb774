package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Import  ImportConfig  `mapstructure:"import"`
	Images  ImagesConfig  `mapstructure:"images"`
	Opener  OpenerConfig  `mapstructure:"opener"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ImportConfig controls fetching of recipe pages
type ImportConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ImagesConfig controls image storage and capture
type ImagesConfig struct {
	DBPath        string   `mapstructure:"db_path"`        // Empty keeps images in memory only
	MaxHeight     int      `mapstructure:"max_height"`     // Images taller than this are downsized
	CameraCommand string   `mapstructure:"camera_command"` // e.g. "fswebcam"; empty disables the camera
	CameraArgs    []string `mapstructure:"camera_args"`    // "{out}" is replaced by the output path
}

// OpenerConfig controls how source URLs are opened
type OpenerConfig struct {
	Command string `mapstructure:"command"` // Empty uses the system default
}

// UIConfig holds UI configuration
type UIConfig struct {
	StatusDuration time.Duration `mapstructure:"status_duration"`
	Fixtures       bool          `mapstructure:"fixtures"`     // Seed the store with sample recipes
	TemplateURL    string        `mapstructure:"template_url"` // Prefilled in the new recipe dialog
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Import: ImportConfig{
			Timeout:   20 * time.Second,
			UserAgent: "nomnom/1.0 (+recipe import)",
		},
		Images: ImagesConfig{
			DBPath:     filepath.Join(defaultDataPath(), "images.db"),
			MaxHeight:  500,
			CameraArgs: []string{"--no-banner", "{out}"},
		},
		UI: UIConfig{
			StatusDuration: 3 * time.Second,
			Fixtures:       true,
			TemplateURL:    "https://",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "nomnom.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "nomnom")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "nomnom")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "nomnom")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "nomnom")
	}
}

// LoadConfig loads configuration from file and environment.
// A non-empty path reads that file instead of searching the default locations.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. NOMNOM_LOGGING_LEVEL
	v.SetEnvPrefix("NOMNOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("import.timeout", cfg.Import.Timeout)
	v.SetDefault("import.user_agent", cfg.Import.UserAgent)
	v.SetDefault("images.db_path", cfg.Images.DBPath)
	v.SetDefault("images.max_height", cfg.Images.MaxHeight)
	v.SetDefault("images.camera_command", cfg.Images.CameraCommand)
	v.SetDefault("images.camera_args", cfg.Images.CameraArgs)
	v.SetDefault("opener.command", cfg.Opener.Command)
	v.SetDefault("ui.status_duration", cfg.UI.StatusDuration)
	v.SetDefault("ui.fixtures", cfg.UI.Fixtures)
	v.SetDefault("ui.template_url", cfg.UI.TemplateURL)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes cfg to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	v.Set("import.timeout", cfg.Import.Timeout.String())
	v.Set("import.user_agent", cfg.Import.UserAgent)
	v.Set("images.db_path", cfg.Images.DBPath)
	v.Set("images.max_height", cfg.Images.MaxHeight)
	v.Set("images.camera_command", cfg.Images.CameraCommand)
	v.Set("images.camera_args", cfg.Images.CameraArgs)
	v.Set("opener.command", cfg.Opener.Command)
	v.Set("ui.status_duration", cfg.UI.StatusDuration.String())
	v.Set("ui.fixtures", cfg.UI.Fixtures)
	v.Set("ui.template_url", cfg.UI.TemplateURL)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
