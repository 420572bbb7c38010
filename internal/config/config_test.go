package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single value", value: "docs.example.com", expected: []string{"docs.example.com"}},
		{name: "spaces and quotes", value: ` "10.0.0.0/8", '192.168.1.4' ,`, expected: []string{"10.0.0.0/8", "192.168.1.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"NAV_MANIFEST_FILE", "NAV_REDIS_ADDR", "NAV_WATCH", "NAV_RELOAD_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ManifestFile != "sidebars.js" {
		t.Errorf("ManifestFile = %q, want sidebars.js", cfg.ManifestFile)
	}
	if cfg.RedisEnabled() {
		t.Error("Redis should be disabled without NAV_REDIS_ADDR")
	}
	if !cfg.Watch {
		t.Error("Watch should default to true")
	}
	if cfg.ReloadInterval != time.Hour {
		t.Errorf("ReloadInterval = %v, want 1h", cfg.ReloadInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NAV_MANIFEST_FILE", "/site/sidebars.json")
	t.Setenv("NAV_DOCS_DIR", "/site/docs")
	t.Setenv("NAV_ALLOWED_CIDRS", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("NAV_REDIS_ADDR", "localhost:6379")
	t.Setenv("NAV_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("NAV_REDIS_PASSWORD", "secret")
	t.Setenv("NAV_RATE_BURST", "5")

	cfg := Load()
	if cfg.ManifestFile != "/site/sidebars.json" || cfg.DocsDir != "/site/docs" {
		t.Errorf("sources = %q, %q", cfg.ManifestFile, cfg.DocsDir)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v", cfg.AllowedCIDRS)
	}
	if !cfg.RedisEnabled() || cfg.RedisPassword != "secret" {
		t.Errorf("redis = %q, %q", cfg.RedisAddr, cfg.RedisPassword)
	}
	if cfg.RateBurst != 5 {
		t.Errorf("RateBurst = %d, want 5", cfg.RateBurst)
	}
}

func TestLoadPanicsOnMissingRedisPassword(t *testing.T) {
	t.Setenv("NAV_REDIS_ADDR", "localhost:6379")
	t.Setenv("NAV_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("NAV_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should have panicked")
		}
	}()
	Load()
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NAV_TEST_FROM_DOTENV=loaded\nNAV_TEST_PRESET=file\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("NAV_TEST_PRESET", "env")
	t.Setenv("NAV_TEST_FROM_DOTENV", "")
	os.Unsetenv("NAV_TEST_FROM_DOTENV")

	loaded, err := LoadEnvFiles()
	if err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0] != ".env" {
		t.Errorf("LoadEnvFiles() = %v, want [.env]", loaded)
	}
	if got := os.Getenv("NAV_TEST_FROM_DOTENV"); got != "loaded" {
		t.Errorf("NAV_TEST_FROM_DOTENV = %q, want loaded", got)
	}
	if got := os.Getenv("NAV_TEST_PRESET"); got != "env" {
		t.Errorf("NAV_TEST_PRESET = %q, existing variables must win", got)
	}
}
