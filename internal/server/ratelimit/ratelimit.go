// Package ratelimit provides per-client rate limiting in tiers on top of golang.org/x/time/rate.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Tier       string
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	config *Config

	mu      sync.Mutex
	buckets map[string]*bucket

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Whitelist == nil {
		config.Whitelist = make(map[string]bool)
	}

	limiter := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow checks the global tier and then the endpoint tier for the client.
// A request must pass both, and a denied request spends no token in any tier.
// The returned Info describes the tier that decided.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || IsExempt(path) || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}

	var tiers []*EndpointConfig
	if g := &l.config.Global; g.Limit > 0 && strings.HasPrefix(path, g.Path) {
		tiers = append(tiers, g)
	}
	if ep := MatchEndpoint(path, method, l.config.EndpointConfigs); ep != nil && ep.Limit > 0 {
		tiers = append(tiers, ep)
	}

	info := Info{Allowed: true}
	now := time.Now()
	reserved := make([]*rate.Reservation, 0, len(tiers))
	for _, tier := range tiers {
		b := l.getBucket(clientID+":"+tier.Name, tier, now)
		r := b.limiter.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reserved {
				prev.CancelAt(now)
			}
			return false, Info{
				Allowed:    false,
				Tier:       tier.Name,
				Limit:      tier.Limit,
				Remaining:  0,
				RetryAfter: tier.Window,
			}
		}
		reserved = append(reserved, r)
		info = Info{
			Allowed:   true,
			Tier:      tier.Name,
			Limit:     tier.Limit,
			Remaining: max(0, int(b.limiter.TokensAt(now))),
		}
	}

	return true, info
}

// getBucket gets or creates the bucket for the given key.
func (l *Limiter) getBucket(key string, tier *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		// Refill one token every window/limit; a full window's worth may burst.
		every := tier.Window / time.Duration(tier.Limit)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), tier.Limit)}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets(time.Now().Add(-time.Hour))
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets not used since cutoff.
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) bucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
