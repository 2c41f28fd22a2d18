// Package config loads ChatMan's settings from environment variables,
// applies defaults and validates the result. Both binaries (the server and
// the review console) read the same variables, so DB_PATH always points
// them at the same store.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security header settings.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// IngestConfig controls the live chat connection.
type IngestConfig struct {
	Enabled       bool   // INGEST_ENABLED, defaults to true when a channel is set
	Channel       string // TWITCH_CHANNEL
	Username      string // TWITCH_USERNAME, empty = anonymous
	OAuthToken    string // TWITCH_OAUTH_TOKEN
	Persist       bool   // INGEST_PERSIST: write comments to the store
	TrackActivity bool   // INGEST_TRACK_ACTIVITY: feed the activity snapshot
	MaxUsers      int    // ACTIVITY_MAX_USERS, 0 = unbounded
}

// ReviewConfig holds the review queue limits.
type ReviewConfig struct {
	DefaultLimit int // UNREVIEWED_DEFAULT_LIMIT
	MaxLimit     int // UNREVIEWED_MAX_LIMIT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string
	FeedPath       string // polling endpoint of the activity page

	// Store
	DBPath string

	// Rate limiting
	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig
	Ingest   IngestConfig
	Review   ReviewConfig
	OTEL     OTELConfig
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	channel := strings.TrimSpace(getenv("TWITCH_CHANNEL", ""))
	cfg := Config{
		Port:              getenv("PORT", "5000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizePath(getenv("API_BASE_PATH", "/api/v1")),
		FeedPath:       normalizePath(getenv("FEED_PATH", "/data.json")),

		DBPath: getenv("DB_PATH", "chat.db"),

		RateRPS:   getfloat("RATE_RPS", 20.0),
		RateBurst: getint("RATE_BURST", 40),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		Ingest: IngestConfig{
			Enabled:       getbool("INGEST_ENABLED", channel != ""),
			Channel:       channel,
			Username:      strings.TrimSpace(getenv("TWITCH_USERNAME", "")),
			OAuthToken:    getenv("TWITCH_OAUTH_TOKEN", ""),
			Persist:       getbool("INGEST_PERSIST", true),
			TrackActivity: getbool("INGEST_TRACK_ACTIVITY", true),
			MaxUsers:      getint("ACTIVITY_MAX_USERS", 0),
		},
		Review: ReviewConfig{
			DefaultLimit: getint("UNREVIEWED_DEFAULT_LIMIT", 100),
			MaxLimit:     getint("UNREVIEWED_MAX_LIMIT", 1000),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "chatman"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 ||
		c.IdleTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if c.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.FeedPath == "/" {
		return errors.New("FEED_PATH must not be the root path")
	}
	if c.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if c.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if c.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if c.Ingest.Enabled && c.Ingest.Channel == "" {
		return errors.New("TWITCH_CHANNEL must be set when INGEST_ENABLED is true")
	}
	if (c.Ingest.Username == "") != (c.Ingest.OAuthToken == "") {
		return errors.New("TWITCH_USERNAME and TWITCH_OAUTH_TOKEN must be set together")
	}
	if c.Ingest.MaxUsers < 0 {
		return errors.New("ACTIVITY_MAX_USERS must be >= 0")
	}
	if c.Review.DefaultLimit < 0 || c.Review.MaxLimit < 1 {
		return errors.New("UNREVIEWED_DEFAULT_LIMIT must be >= 0 and UNREVIEWED_MAX_LIMIT >= 1")
	}
	if c.Review.DefaultLimit > c.Review.MaxLimit {
		return fmt.Errorf("UNREVIEWED_DEFAULT_LIMIT (%d) exceeds UNREVIEWED_MAX_LIMIT (%d)",
			c.Review.DefaultLimit, c.Review.MaxLimit)
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizePath ensures a leading '/' and strips trailing '/' (except root).
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
