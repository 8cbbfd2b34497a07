// Package config provides environment-driven configuration for the docgraph server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Engine kinds accepted by ENGINE.
const (
	EngineMemory   = "memory"
	EngineBleve    = "bleve"
	EnginePostgres = "postgres"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Engine           string
	BlevePath        string
	DatabaseURL      Secret
	DBMaxConns       int32
	VertexCollection string
	EdgeCollection   string
	MaxResultSize    int
	Port             string
	ListenHost       string
	CORSOrigins      []string
	LogLevel         string
	LogFormat        string
	RateLimit        int
	RateBurst        int
	HSTS             bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Engine:           strings.ToLower(envOrDefault("ENGINE", EngineMemory)),
		BlevePath:        envOrDefault("BLEVE_PATH", ""),
		DatabaseURL:      Secret(envOrDefault("DATABASE_URL", "")),
		VertexCollection: envOrDefault("VERTEX_COLLECTION", "vertex"),
		EdgeCollection:   envOrDefault("EDGE_COLLECTION", "edge"),
		Port:             envOrDefault("PORT", "3040"),
		ListenHost:       envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "text"),
		HSTS:             envOrDefault("HSTS", "false") == "true",
	}

	ints := []struct {
		key      string
		fallback string
		min, max int
		dst      *int
	}{
		{"MAX_RESULT_SIZE", "2500", 1, 10000, &cfg.MaxResultSize},
		{"RATE_LIMIT", "100", 1, 100000, &cfg.RateLimit},
		{"RATE_BURST", "200", 1, 100000, &cfg.RateBurst},
	}
	for _, in := range ints {
		n, err := strconv.Atoi(envOrDefault(in.key, in.fallback))
		if err != nil || n < in.min || n > in.max {
			return nil, fmt.Errorf("%s must be an integer between %d and %d", in.key, in.min, in.max)
		}
		*in.dst = n
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "20"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = int32(maxConns)

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()

	// validateLogging has already accepted the level.
	level, _ := logrus.ParseLevel(c.LogLevel)
	log.SetLevel(level)

	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
