package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/snooker-app/store"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

// manualTickers hands out tickers that only fire when a test says so.
type manualTickers struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *manualTickers) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *manualTickers) last(t *testing.T) *manualTicker {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.tickers, "no ticker created")
	return f.tickers[len(f.tickers)-1]
}

func (f *manualTickers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

// fire delivers n ticks; each send returns once the tick loop has taken it.
func (m *manualTicker) fire(n int) {
	for i := 0; i < n; i++ {
		m.ch <- time.Now()
	}
}

func newTestRegistry(t *testing.T) (*SessionRegistry, *manualTickers) {
	t.Helper()
	tickers := &manualTickers{}
	r := NewSessionRegistry(RegistryConfig{
		Tables:    4,
		Pricing:   DefaultPricing,
		NewTicker: tickers.New,
	}, NewNotifier())
	t.Cleanup(r.Close)
	return r, tickers
}

var errDiskFull = errors.New("disk full")

// flakyKV wraps MemoryKV and can be told to fail reads or writes. beforeSet,
// when set, runs at the start of every write.
type flakyKV struct {
	*store.MemoryKV
	failGet   atomic.Bool
	failSet   atomic.Bool
	beforeSet func()
}

func newFlakyKV() *flakyKV {
	return &flakyKV{MemoryKV: store.NewMemoryKV()}
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet.Load() {
		return nil, errDiskFull
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.beforeSet != nil {
		f.beforeSet()
	}
	if f.failSet.Load() {
		return errDiskFull
	}
	return f.MemoryKV.Set(ctx, key, value)
}
