package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrEmptyInput indicates empty input text
	ErrEmptyInput = errors.New("empty input text")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrNotInitialized is returned after Close or before a provider is loaded
	ErrNotInitialized = errors.New("embedding model not initialized")

	// ErrFastEmbedNotAvailable is returned when FastEmbed is not available (requires CGO).
	ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without CGO support, use the ollama provider instead)")
)

// Options configures a Service.
type Options struct {
	// CacheSize bounds the vector cache. Defaults to DefaultCacheSize.
	CacheSize int
	Logger    *zap.Logger
}

// Service owns a single embedding provider and the vector cache shared by all requests.
type Service struct {
	factory Factory
	logger  *zap.Logger
	cache   *Cache
	group   singleflight.Group

	mu       sync.Mutex
	provider Provider
}

// NewService creates a Service. The provider is not loaded until Initialize or the first Embed.
func NewService(factory Factory, opts Options) (*Service, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: provider factory required", ErrInvalidConfig)
	}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	cache, err := NewCache(size)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		factory: factory,
		logger:  logger,
		cache:   cache,
	}, nil
}

// Initialize loads the model once. Concurrent callers wait for the same load.
// A failed load leaves the service uninitialized so a later call can retry.
func (s *Service) Initialize(ctx context.Context) error {
	_, err := s.loadProvider(ctx)
	return err
}

func (s *Service) loadProvider(ctx context.Context) (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return s.provider, nil
	}

	start := time.Now()
	p, err := s.factory(ctx)
	if err != nil {
		GenerationErrors.WithLabelValues("load").Inc()
		s.logger.Error("failed to load embedding model", zap.Error(err))
		return nil, fmt.Errorf("loading embedding model: %w", err)
	}

	s.provider = p
	s.logger.Info("embedding model loaded",
		zap.Int("dimension", p.Dimension()),
		zap.Duration("took", time.Since(start)),
	)
	return p, nil
}

// Embed computes the embedding of text without touching the cache.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	p, err := s.loadProvider(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vec, err := p.Embed(ctx, text)
	GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		GenerationErrors.WithLabelValues("embed").Inc()
		return nil, err
	}
	return vec, nil
}

// EmbedCached returns the vector cached under key, computing and storing it on a miss.
// Concurrent misses for the same key share one computation. The shared computation
// ignores cancellation of whichever caller started it; each caller stops waiting
// when its own ctx is done.
// Returned slices are shared and must not be modified.
func (s *Service) EmbedCached(ctx context.Context, key Key, text string) ([]float32, error) {
	if vec, ok := s.cache.Get(key); ok {
		CacheHits.Inc()
		return vec, nil
	}
	CacheMisses.Inc()

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key.String(), func() (any, error) {
		if vec, ok := s.cache.Get(key); ok {
			return vec, nil
		}
		vec, err := s.Embed(shared, text)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, vec)
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float32), nil
	}
}

// CacheLen returns the number of cached vectors.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// ClearCache drops every cached vector.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// Dimension returns the loaded model's dimension, or 0 before initialization.
func (s *Service) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider == nil {
		return 0
	}
	return s.provider.Dimension()
}

// Close releases the model. A later Embed loads it again.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		return nil
	}
	err := s.provider.Close()
	s.provider = nil
	return err
}
