package embeddings

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCacheSize is the number of vectors kept before the oldest is evicted.
const DefaultCacheSize = 1000

// Key identifies a cached embedding. Version changes whenever the source
// content changes, so old entries are never read again.
type Key struct {
	Kind    string
	ID      string
	Version string
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Kind, k.ID, k.Version)
}

// Cache is a bounded, first-in-first-out vector cache.
// Reads use Peek so they never change eviction order.
type Cache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[Key, []float32]
	clearing bool
}

// NewCache creates a cache holding at most size entries.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: cache size must be positive, got %d", ErrInvalidConfig, size)
	}

	c := &Cache{}
	l, err := simplelru.NewLRU[Key, []float32](size, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// called with c.mu held
func (c *Cache) onEvict(_ Key, _ []float32) {
	if !c.clearing {
		CacheEvictions.Inc()
	}
}

// Get returns the vector stored under key.
func (c *Cache) Get(key Key) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(key)
}

// Add stores vec under key unless the key is already present.
// An existing entry keeps its original insertion position.
func (c *Cache) Add(key Key, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru.Contains(key) {
		return
	}
	c.lru.Add(key, vec)
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear drops every entry without counting evictions.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearing = true
	c.lru.Purge()
	c.clearing = false
}
