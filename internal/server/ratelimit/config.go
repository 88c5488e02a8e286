package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a group of endpoints.
type EndpointConfig struct {
	Name   string        // Tier name, used in bucket keys and logs
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Global          EndpointConfig
	EndpointConfigs []EndpointConfig
	CleanupInterval time.Duration
	Whitelist       map[string]bool
}

// Default tiers
const (
	GlobalLimit  = 100
	GlobalWindow = 15 * time.Minute
	ReadLimit    = 60
	ReadWindow   = 10 * time.Minute
	WriteLimit   = 20
	WriteWindow  = 10 * time.Minute
)

// DefaultConfig returns the global, read and write tiers.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Global:          EndpointConfig{Name: "global", Path: "/api/", Limit: GlobalLimit, Window: GlobalWindow},
		EndpointConfigs: DefaultEndpointConfigs(ReadLimit, ReadWindow, WriteLimit, WriteWindow),
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
	}
}

// DefaultEndpointConfigs returns the read and write tiers for the matching API.
func DefaultEndpointConfigs(readLimit int, readWindow time.Duration, writeLimit int, writeWindow time.Duration) []EndpointConfig {
	read := func(path string) EndpointConfig {
		return EndpointConfig{Name: "read", Path: path, Method: http.MethodGet, Limit: readLimit, Window: readWindow}
	}
	write := func(path, method string) EndpointConfig {
		return EndpointConfig{Name: "write", Path: path, Method: method, Limit: writeLimit, Window: writeWindow}
	}

	return []EndpointConfig{
		// Writes, including the embedding-heavy matching run
		write("/api/matching/job/", http.MethodPost),
		write("/api/matching/map", http.MethodPost),
		write("/api/matching/map", http.MethodDelete),

		// Reads
		read("/api/matching/"),
		read("/api/requirements/"),
	}
}

// ParseIPList turns a list of addresses into a lookup set.
func ParseIPList(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
