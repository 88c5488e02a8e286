package ratelimit

import "strings"

// IsExempt reports whether a path is never rate limited.
func IsExempt(path string) bool {
	switch path {
	case "/health", "/api/health", "/metrics":
		return true
	}
	return false
}

// MatchEndpoint picks the tier for a request. An exact path wins; otherwise the
// longest configured path ending in "/" that prefixes the request path wins.
// Method must always match. Returns nil when no tier applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) &&
			(best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
