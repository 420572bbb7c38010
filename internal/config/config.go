package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Sources
	ManifestFile   string        // sidebars file (.js, .cjs, .mjs, .json, .yaml, .yml)
	SiteFile       string        // optional site config; sets the broken-link policy
	DocsDir        string        // optional docs directory; enables the doc-ref check
	ReloadInterval time.Duration // periodic reload (0 = disabled)
	Watch          bool          // reload when the manifest file changes
	WatchDebounce  time.Duration // quiet period before a file change triggers a reload
	MetricsEnabled bool          // expose /metrics

	// Redis (optional, empty address = disabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when Redis is enabled
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs or ranges
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	RateBurst    int      // per-IP burst on /api
	RatePerMin   int      // per-IP sustained rate on /api
}

// envFiles are loaded in order; variables already set are never overridden.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads the .env files that exist and returns their names.
func LoadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", name, err)
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NAV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NAV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NAV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NAV_PRETTY_LOG", true),

		// Sources
		ManifestFile:   getenv("NAV_MANIFEST_FILE", "sidebars.js"),
		SiteFile:       getenv("NAV_SITE_FILE", ""),
		DocsDir:        getenv("NAV_DOCS_DIR", ""),
		ReloadInterval: mustDuration("NAV_RELOAD_INTERVAL", time.Hour),
		Watch:          mustBool("NAV_WATCH", true),
		WatchDebounce:  mustDuration("NAV_WATCH_DEBOUNCE", 500*time.Millisecond),
		MetricsEnabled: mustBool("NAV_METRICS", true),

		// Redis settings
		RedisAddr:             getenv("NAV_REDIS_ADDR", ""),
		RedisUser:             getenv("NAV_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NAV_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("NAV_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NAV_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("NAV_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("NAV_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NAV_TRUST_PROXY", false),
		RateBurst:    getenvInt("NAV_RATE_BURST", 20),
		RatePerMin:   getenvInt("NAV_RATE_PER_MIN", 120),
	}

	if cfg.RedisEnabled() && cfg.RedisPasswordRequired {
		cfg.RedisPassword = requireEnv("NAV_REDIS_PASSWORD")
	}
	if cfg.RateBurst <= 0 || cfg.RatePerMin <= 0 {
		panic(fmt.Sprintf("❌ FATAL: NAV_RATE_BURST and NAV_RATE_PER_MIN must be positive, got %d and %d", cfg.RateBurst, cfg.RatePerMin))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
