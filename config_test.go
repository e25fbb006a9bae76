package main

import (
	"log/slog"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "LOG_LEVEL",
		"BASE_URL", "GALLERY_BASE_URL", "GALLERY_SOURCE", "GALLERY_STATIC_PATH",
		"GALLERY_ART_DIR", "GALLERY_URL_PREFIX", "GALLERY_FETCH_TIMEOUT",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_TO", "TO_EMAIL",
		"ADMIN_USERNAME", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %q", cfg.Port)
	}
	if cfg.Gallery.Source != "static" {
		t.Errorf("Expected static source, got %q", cfg.Gallery.Source)
	}
	if cfg.Gallery.StaticPath != "art/images.json" || cfg.Gallery.URLPrefix != "/art" {
		t.Errorf("Unexpected static defaults: %+v", cfg.Gallery)
	}
	if cfg.Gallery.FetchTimeout != 0 {
		t.Errorf("Expected no fetch timeout, got %v", cfg.Gallery.FetchTimeout)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != "587" {
		t.Errorf("Unexpected SMTP defaults: %+v", cfg.SMTP)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "base url selects api source",
			env:  map[string]string{"BASE_URL": "http://images.local"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Gallery.Source != "api" || cfg.Gallery.BaseURL != "http://images.local" {
					t.Errorf("Unexpected gallery config: %+v", cfg.Gallery)
				}
			},
		},
		{
			name: "explicit source wins",
			env:  map[string]string{"BASE_URL": "http://images.local", "GALLERY_SOURCE": "static"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Gallery.Source != "static" {
					t.Errorf("Expected static source, got %q", cfg.Gallery.Source)
				}
			},
		},
		{
			name: "nested keys and legacy names",
			env: map[string]string{
				"PORT":                  "9000",
				"GALLERY_FETCH_TIMEOUT": "5s",
				"SMTP_USER":             "site@example.com",
				"TO_EMAIL":              "owner@example.com",
				"ADMIN_USERNAME":        "curator",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected port 9000, got %q", cfg.Port)
				}
				if cfg.Gallery.FetchTimeout != 5*time.Second {
					t.Errorf("Expected 5s timeout, got %v", cfg.Gallery.FetchTimeout)
				}
				if cfg.SMTP.User != "site@example.com" || cfg.SMTP.To != "owner@example.com" {
					t.Errorf("Unexpected SMTP config: %+v", cfg.SMTP)
				}
				if cfg.Admin.Username != "curator" {
					t.Errorf("Expected admin curator, got %q", cfg.Admin.Username)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, expected %v", input, got, want)
		}
	}
}
