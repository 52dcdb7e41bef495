// Package connectivity tracks whether the remote store is reachable.
//
// The offline-first policy only ever asks for a point-in-time answer
// (IsCurrentlyOnline); transitions are published for the outbox drain and
// the CLI prompt.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/logging"
)

const (
	pingTimeout     = 3 * time.Second
	defaultInterval = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu   sync.Mutex
	subs map[chan bool]struct{}
}

// NewMonitor returns a Monitor checking every interval. A non-positive
// interval falls back to the default.
func NewMonitor(p Pinger, interval time.Duration, log logging.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		pinger:   p,
		interval: interval,
		log:      log.With("module", "connectivity"),
		subs:     make(map[chan bool]struct{}),
	}
}

func (m *Monitor) IsCurrentlyOnline() bool {
	return m.online.Load()
}

// Check pings the server once and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := m.pinger.Ping(ctx)
	cancel()

	m.set(ctx, err == nil)
	return err == nil
}

func (m *Monitor) set(ctx context.Context, online bool) {
	if m.online.Swap(online) == online {
		return
	}
	if online {
		m.log.Info(ctx, "switched to online mode")
	} else {
		m.log.Warn(ctx, "switched to offline mode")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs {
		// keep only the latest state
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Watch delivers every online/offline transition until ctx is done.
func (m *Monitor) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	out := make(chan bool)
	go func() {
		defer close(out)
		defer func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
		}()
		for {
			select {
			case v := <-ch:
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Fixed is a connectivity answer that never changes.
type Fixed bool

func (f Fixed) IsCurrentlyOnline() bool { return bool(f) }
