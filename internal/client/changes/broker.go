// Package changes fans out "local data changed" notifications from the
// SQLite repositories to whoever is watching a query.
//
// Notifications carry no data. A subscriber that is slow to read only ever
// has one pending notification: newer ones are merged into it, so a watcher
// always re-runs its query against the latest state.
package changes

import (
	"sync"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

// KindSession is published when the authenticated session changes.
const KindSession models.Kind = "session"

type Event struct {
	Kind   models.Kind
	UserID string
}

type subscriber struct {
	ch     chan Event
	filter func(Event) bool
}

type Broker struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

// Publish notifies every matching subscriber without blocking.
func (b *Broker) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		if s.filter != nil && !s.filter(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Subscribe registers a subscriber. filter may be nil to receive everything.
// The returned cancel func must be called to release the subscription; the
// channel is closed by it.
func (b *Broker) Subscribe(filter func(Event) bool) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	s := &subscriber{ch: make(chan Event, 1), filter: filter}
	b.subs[id] = s

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(s.ch)
		})
	}
}

// Match builds a filter for one kind, scoped to userID unless it is empty.
func Match(kind models.Kind, userID string) func(Event) bool {
	return func(ev Event) bool {
		return ev.Kind == kind && (userID == "" || ev.UserID == userID)
	}
}
