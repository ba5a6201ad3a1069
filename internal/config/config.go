package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	BaseURL       string
	DBPath        string
	GeoIPPath     string
	LookupURL     string
	LookupTimeout time.Duration
	RateLimit     int
	RateWindow    time.Duration
	CacheSize     int
	BufferSize    int
	LogLevel      string
}

func Load() (*Config, error) {
	port := envOrDefault("RELINK_PORT", "8080")

	cfg := &Config{
		Port:          port,
		BaseURL:       strings.TrimRight(envOrDefault("RELINK_BASE_URL", "http://localhost:"+port), "/"),
		DBPath:        envOrDefault("RELINK_DB_PATH", "./relink.db"),
		GeoIPPath:     os.Getenv("RELINK_GEOIP_PATH"),
		LookupURL:     strings.TrimRight(envOrDefault("RELINK_LOOKUP_URL", "https://api.country.is"), "/"),
		LookupTimeout: parseDuration("RELINK_LOOKUP_TIMEOUT", 2*time.Second),
		RateLimit:     parseInt("RELINK_RATE_LIMIT", 10),
		RateWindow:    parseDuration("RELINK_RATE_WINDOW", time.Minute),
		CacheSize:     parseInt("RELINK_CACHE_SIZE", 10000),
		BufferSize:    parseInt("RELINK_BUFFER_SIZE", 50000),
		LogLevel:      envOrDefault("RELINK_LOG_LEVEL", "info"),
	}

	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RELINK_RATE_LIMIT must be positive")
	}
	if cfg.RateWindow <= 0 {
		return nil, fmt.Errorf("RELINK_RATE_WINDOW must be positive")
	}
	if cfg.LookupTimeout <= 0 {
		return nil, fmt.Errorf("RELINK_LOOKUP_TIMEOUT must be positive")
	}
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("RELINK_CACHE_SIZE must be positive")
	}
	if cfg.BufferSize <= 0 {
		return nil, fmt.Errorf("RELINK_BUFFER_SIZE must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
