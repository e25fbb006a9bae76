package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all site configuration.
type Config struct {
	Port     string        `mapstructure:"port"`
	Database string        `mapstructure:"database_path"`
	LogLevel string        `mapstructure:"log_level"`
	Gallery  GalleryConfig `mapstructure:"gallery"`
	SMTP     SMTPConfig    `mapstructure:"smtp"`
	Admin    AdminConfig   `mapstructure:"admin"`
}

// GalleryConfig selects where the Memory Wall images come from.
type GalleryConfig struct {
	Source       string        `mapstructure:"source"`      // "api" or "static"
	BaseURL      string        `mapstructure:"base_url"`    // api source root
	StaticPath   string        `mapstructure:"static_path"` // static listing file
	ArtDir       string        `mapstructure:"art_dir"`     // served at URLPrefix
	URLPrefix    string        `mapstructure:"url_prefix"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // 0 waits forever
}

// SMTPConfig is used by the contact form.
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_path", "portfolio.db")
	v.SetDefault("log_level", "INFO")

	v.SetDefault("gallery.base_url", "")
	v.SetDefault("gallery.static_path", "art/images.json")
	v.SetDefault("gallery.art_dir", "./art")
	v.SetDefault("gallery.url_prefix", "/art")
	v.SetDefault("gallery.fetch_timeout", time.Duration(0))

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.to", "")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
}

// LoadConfig reads defaults, an optional config.yaml and the environment.
// Nested keys map to env names with underscores, e.g. gallery.source is
// GALLERY_SOURCE.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Older deployments used these names.
	bindings := map[string][]string{
		"gallery.base_url": {"GALLERY_BASE_URL", "BASE_URL"},
		"smtp.to":          {"SMTP_TO", "TO_EMAIL"},
		"gallery.source":   {"GALLERY_SOURCE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Without an explicit source a base URL implies the remote API.
	if cfg.Gallery.Source == "" {
		cfg.Gallery.Source = "static"
		if cfg.Gallery.BaseURL != "" {
			cfg.Gallery.Source = "api"
		}
	}

	return cfg, nil
}

// SetupLogger returns a text logger on stdout at the given level.
func SetupLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
