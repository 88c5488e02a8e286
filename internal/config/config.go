// Package config provides configuration loading and validation for storylift.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/server/ratelimit"
	"github.com/jeffbeard/storylift/internal/similarity"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "STORYLIFT_"

const maxConfigFileSize = 1024 * 1024

// Config is the full storylift configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Matching  MatchingConfig  `koanf:"matching"`
	Log       LogConfig       `koanf:"log"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `koanf:"provider"`
	Model     string `koanf:"model"`
	CacheDir  string `koanf:"cache_dir"`
	CacheSize int    `koanf:"cache_size"`
	OllamaURL string `koanf:"ollama_url"`
}

// MatchingConfig tunes ranking and the matching pipeline.
type MatchingConfig struct {
	Threshold      float64  `koanf:"threshold"`
	TopK           int      `koanf:"top_k"`
	Concurrency    int      `koanf:"concurrency"`
	LegacyPreview  bool     `koanf:"legacy_preview"`
	DomainKeywords []string `koanf:"domain_keywords"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `koanf:"json"`
	Debug bool `koanf:"debug"`
}

// RateLimitConfig configures the request tiers. Windows are Go durations ("15m").
type RateLimitConfig struct {
	Disabled     bool     `koanf:"disabled"`
	GlobalLimit  int      `koanf:"global_limit"`
	GlobalWindow string   `koanf:"global_window"`
	ReadLimit    int      `koanf:"read_limit"`
	ReadWindow   string   `koanf:"read_window"`
	WriteLimit   int      `koanf:"write_limit"`
	WriteWindow  string   `koanf:"write_window"`
	Whitelist    []string `koanf:"whitelist"`
}

// Load reads the optional YAML file at path, then applies STORYLIFT_ environment
// overrides, defaults and validation. An empty path skips the file.
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	STORYLIFT_SERVER_PORT        -> server.port
//	STORYLIFT_EMBEDDING_CACHE_DIR -> embedding.cache_dir
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s too large: %d bytes", path, info.Size())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return content, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// applyDefaults fills zero values. DATABASE_URL is honored when database.url is unset.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = embeddings.ProviderFastEmbed
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = embeddings.DefaultModel
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = embeddings.DefaultCacheSize
	}

	if cfg.Matching.Threshold == 0 {
		cfg.Matching.Threshold = 0.30
	}
	if cfg.Matching.TopK == 0 {
		cfg.Matching.TopK = 3
	}
	if cfg.Matching.Concurrency == 0 {
		cfg.Matching.Concurrency = 4
	}
	if len(cfg.Matching.DomainKeywords) == 0 {
		cfg.Matching.DomainKeywords = append([]string(nil), similarity.DefaultDomainKeywords...)
	}

	rl := &cfg.RateLimit
	if rl.GlobalLimit == 0 {
		rl.GlobalLimit = ratelimit.GlobalLimit
	}
	if rl.GlobalWindow == "" {
		rl.GlobalWindow = ratelimit.GlobalWindow.String()
	}
	if rl.ReadLimit == 0 {
		rl.ReadLimit = ratelimit.ReadLimit
	}
	if rl.ReadWindow == "" {
		rl.ReadWindow = ratelimit.ReadWindow.String()
	}
	if rl.WriteLimit == 0 {
		rl.WriteLimit = ratelimit.WriteLimit
	}
	if rl.WriteWindow == "" {
		rl.WriteWindow = ratelimit.WriteWindow.String()
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}

	switch c.Embedding.Provider {
	case embeddings.ProviderFastEmbed, embeddings.ProviderOllama:
	default:
		return fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.CacheSize < 0 {
		return fmt.Errorf("config error: 'embedding.cache_size' must be non-negative")
	}

	if c.Matching.Threshold < 0 || c.Matching.Threshold >= 1 {
		return fmt.Errorf("config error: 'matching.threshold' must be in [0, 1)")
	}
	if c.Matching.TopK < 0 {
		return fmt.Errorf("config error: 'matching.top_k' must be non-negative")
	}
	if c.Matching.Concurrency < 0 {
		return fmt.Errorf("config error: 'matching.concurrency' must be non-negative")
	}

	for name, w := range map[string]string{
		"global_window": c.RateLimit.GlobalWindow,
		"read_window":   c.RateLimit.ReadWindow,
		"write_window":  c.RateLimit.WriteWindow,
	} {
		d, err := time.ParseDuration(w)
		if err != nil {
			return fmt.Errorf("config error: 'ratelimit.%s': %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'ratelimit.%s' must be positive", name)
		}
	}

	return nil
}

// RateLimiter converts the rate limit section into limiter configuration.
// Call after Validate.
func (c *Config) RateLimiter() *ratelimit.Config {
	rl := c.RateLimit
	globalWindow, _ := time.ParseDuration(rl.GlobalWindow)
	readWindow, _ := time.ParseDuration(rl.ReadWindow)
	writeWindow, _ := time.ParseDuration(rl.WriteWindow)

	cfg := ratelimit.DefaultConfig()
	cfg.Enabled = !rl.Disabled
	cfg.Global.Limit = rl.GlobalLimit
	cfg.Global.Window = globalWindow
	cfg.EndpointConfigs = ratelimit.DefaultEndpointConfigs(rl.ReadLimit, readWindow, rl.WriteLimit, writeWindow)
	cfg.Whitelist = ratelimit.ParseIPList(rl.Whitelist)
	return cfg
}

// EmbeddingProvider converts the embedding section into provider configuration.
func (c *Config) EmbeddingProvider() embeddings.ProviderConfig {
	return embeddings.ProviderConfig{
		Provider: c.Embedding.Provider,
		Model:    c.Embedding.Model,
		CacheDir: c.Embedding.CacheDir,
		BaseURL:  c.Embedding.OllamaURL,
	}
}
