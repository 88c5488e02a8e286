package embeddings

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type fakeProvider struct {
	calls  atomic.Int64
	delay  time.Duration
	err    error
	closed atomic.Bool

	mu   sync.Mutex
	seen []string
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, text)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (f *fakeProvider) Dimension() int { return 3 }

func (f *fakeProvider) Close() error {
	f.closed.Store(true)
	return nil
}

func factoryOf(p Provider) Factory {
	return func(context.Context) (Provider, error) { return p, nil }
}

// gatedProvider blocks each Embed until release is closed or ctx is done.
type gatedProvider struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int64
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		return []float32{float32(len(text)), 1, 0}, nil
	}
}

func (g *gatedProvider) Dimension() int { return 3 }

func (g *gatedProvider) Close() error { return nil }
