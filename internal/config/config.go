package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigError reports absent or invalid credentials/configuration. It is
// surfaced before any core operation is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

type Config struct {
	ListenPort      string        // ex: ":8650"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote bookmark store (Karakeep-compatible).
	KarakeepURL    string        // base URL, ex: https://keep.domain.ext
	KarakeepAPIKey string        // bearer token
	PageLimit      int           // page size for cursor pagination (default: 100)
	RequestTimeout time.Duration // per-request timeout for remote calls

	// Engine / schedulers.
	RefreshInterval  time.Duration // periodic silent reconciliation (0 = disabled)
	TabsPollInterval time.Duration // open-tabs poll interval while the view is active
	BridgeTimeout    time.Duration // per-call timeout for extension bridge requests
	CacheMaxText     int           // byte bound on cached bookmark text fields

	// CORS origins allowed to call the API (the SPA's origin).
	AllowedOrigins []string

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
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
}

// fileConfig is the optional yaml overlay (KARADECK_CONFIG_FILE). It only
// carries credentials and the handful of keys a user edits by hand; env
// vars win over file values.
type fileConfig struct {
	KarakeepURL    string   `yaml:"karakeep_url"`
	KarakeepAPIKey string   `yaml:"karakeep_api_key"`
	RedisAddr      string   `yaml:"redis_addr"`
	RedisPassword  string   `yaml:"redis_password"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load builds the configuration from environment variables with an
// optional yaml file overlay. Missing credentials return a *ConfigError
// instead of panicking so the CLI can report them cleanly.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("KARADECK_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Field: "KARADECK_CONFIG_FILE", Reason: err.Error()}
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, &ConfigError{Field: "KARADECK_CONFIG_FILE", Reason: "invalid yaml: " + err.Error()}
		}
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("KARADECK_LISTEN_PORT", ":8650"),
		ShutdownTimeout: mustDuration("KARADECK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("KARADECK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("KARADECK_PRETTY_LOG", true),

		// Remote store
		KarakeepURL:    fallback(os.Getenv("KARADECK_KARAKEEP_URL"), file.KarakeepURL),
		KarakeepAPIKey: fallback(os.Getenv("KARADECK_KARAKEEP_API_KEY"), file.KarakeepAPIKey),
		PageLimit:      getenvInt("KARADECK_PAGE_LIMIT", 100),
		RequestTimeout: mustDuration("KARADECK_REQUEST_TIMEOUT", 15*time.Second),

		// Engine / schedulers
		RefreshInterval:  mustDuration("KARADECK_REFRESH_INTERVAL", 5*time.Minute),
		TabsPollInterval: mustDuration("KARADECK_TABS_POLL_INTERVAL", 2*time.Second),
		BridgeTimeout:    mustDuration("KARADECK_BRIDGE_TIMEOUT", 5*time.Second),
		CacheMaxText:     getenvInt("KARADECK_CACHE_MAX_TEXT", 500),

		AllowedOrigins: fallbackSlice(splitAndTrim(os.Getenv("KARADECK_ALLOWED_ORIGINS")), file.AllowedOrigins),

		// Redis settings
		RedisAddr:             fallback(os.Getenv("KARADECK_REDIS_ADDR"), file.RedisAddr),
		RedisUser:             getenv("KARADECK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("KARADECK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         fallback(os.Getenv("KARADECK_REDIS_PASSWORD"), file.RedisPassword),
		RedisDB:               getenvInt("KARADECK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.KarakeepURL == "" {
		return nil, &ConfigError{Field: "KARADECK_KARAKEEP_URL", Reason: "remote store URL is required"}
	}
	if cfg.KarakeepAPIKey == "" {
		return nil, &ConfigError{Field: "KARADECK_KARAKEEP_API_KEY", Reason: "API key is required"}
	}
	if cfg.RedisAddr == "" {
		return nil, &ConfigError{Field: "KARADECK_REDIS_ADDR", Reason: "redis address is required"}
	}
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		return nil, &ConfigError{Field: "KARADECK_REDIS_PASSWORD", Reason: "required when KARADECK_REDIS_PASSWORD_REQUIRED=true"}
	}

	cfg.KarakeepURL = strings.TrimRight(cfg.KarakeepURL, "/")

	return cfg, nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func fallbackSlice(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
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
