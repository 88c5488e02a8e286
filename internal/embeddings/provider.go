package embeddings

import (
	"context"
	"fmt"
	"strings"
)

const (
	// ProviderFastEmbed selects the local ONNX provider
	ProviderFastEmbed = "fastembed"
	// ProviderOllama selects the Ollama HTTP provider
	ProviderOllama = "ollama"

	// DefaultModel is the sentence-transformers model used for matching
	DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"
)

// Provider generates an embedding for a single text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// Factory builds a Provider. It is called once by Service.Initialize and again
// only if the previous attempt failed.
type Factory func(ctx context.Context) (Provider, error)

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "fastembed" or "ollama"
	Provider string
	// Model is the embedding model name
	Model string
	// CacheDir is the model cache directory (only used for FastEmbed)
	CacheDir string
	// MaxLength is the maximum input sequence length (only used for FastEmbed)
	MaxLength int
	// BaseURL is the Ollama URL (only used for Ollama)
	BaseURL string
	// ShowProgress enables progress bars for model downloads
	ShowProgress bool
}

// NewProvider creates a provider from the given configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderFastEmbed:
		return NewFastEmbedProvider(FastEmbedConfig{
			Model:        cfg.Model,
			CacheDir:     cfg.CacheDir,
			MaxLength:    cfg.MaxLength,
			ShowProgress: cfg.ShowProgress,
		})
	case ProviderOllama:
		return NewOllamaProvider(OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (supported: fastembed, ollama)", ErrInvalidConfig, cfg.Provider)
	}
}

// FactoryFor returns a Factory that defers NewProvider until first use.
func FactoryFor(cfg ProviderConfig) Factory {
	return func(ctx context.Context) (Provider, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewProvider(cfg)
	}
}
