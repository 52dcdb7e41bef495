package offlinefirst

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

// ListPolicy is a Policy that also serves list queries.
type ListPolicy[T models.Entity] struct {
	*Policy[T]
	local  LocalListStore[T]
	remote RemoteListStore[T]
}

func NewListPolicy[T models.Entity](local LocalListStore[T], remote RemoteListStore[T], conn Connectivity, cfg Config) *ListPolicy[T] {
	return &ListPolicy[T]{
		Policy: NewPolicy[T](local, remote, conn, cfg),
		local:  local,
		remote: remote,
	}
}

func (p *ListPolicy[T]) ReadList(ctx context.Context, userID string, period models.Period) ([]T, error) {
	return p.readList(ctx, userID,
		fmt.Sprintf("period|%s|%s", userID, period),
		func() ([]T, error) { return p.local.ListByPeriod(ctx, userID, period) },
		func(ctx context.Context) []T { return p.remote.ListByPeriod(ctx, userID, period) },
	)
}

func (p *ListPolicy[T]) ReadListByCategory(ctx context.Context, userID, category string, period models.Period) ([]T, error) {
	return p.readList(ctx, userID,
		fmt.Sprintf("category|%s|%s|%s", userID, category, period),
		func() ([]T, error) { return p.local.ListByCategory(ctx, userID, category, period) },
		func(ctx context.Context) []T { return p.remote.ListByCategory(ctx, userID, category, period) },
	)
}

func (p *ListPolicy[T]) readList(ctx context.Context, userID, key string, local func() ([]T, error), remote func(context.Context) []T) ([]T, error) {
	items, err := local()
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	if !p.conn.IsCurrentlyOnline() {
		return []T{}, nil
	}

	v, _, _ := p.flight.Do(key, func() (any, error) {
		fctx, cancel := p.sharedContext(ctx)
		defer cancel()
		return remote(fctx), nil
	})
	fetched, _ := v.([]T)
	if len(fetched) == 0 {
		return []T{}, nil
	}

	deleted, err := p.pendingDeletes(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(fetched))
	for _, item := range fetched {
		if _, gone := deleted[item.EntityID()]; gone {
			continue
		}
		if err := p.local.Backfill(ctx, item); err != nil {
			p.log.Warn(ctx, "backfill failed", "id", item.EntityID(), "error", err)
		}
		result = append(result, item)
	}
	p.log.Debug(ctx, "list backfilled from remote", "count", len(result))
	return result, nil
}

// WatchList emits the list for the period now and again after every local
// change of the kind for userID, until ctx is done. A reader that falls behind
// only sees the latest list.
func (p *ListPolicy[T]) WatchList(ctx context.Context, userID string, period models.Period) <-chan []T {
	return p.watch(ctx, userID, func() ([]T, error) {
		return p.ReadList(ctx, userID, period)
	})
}

func (p *ListPolicy[T]) WatchListByCategory(ctx context.Context, userID, category string, period models.Period) <-chan []T {
	return p.watch(ctx, userID, func() ([]T, error) {
		return p.ReadListByCategory(ctx, userID, category, period)
	})
}

func (p *ListPolicy[T]) watch(ctx context.Context, userID string, eval func() ([]T, error)) <-chan []T {
	return Watch(ctx, p.changes, changes.Match(p.kind, userID), func() ([]T, bool) {
		items, err := eval()
		if err != nil {
			p.log.Error(ctx, "watch evaluation failed", "error", err)
			return nil, false
		}
		return items, true
	})
}

// Watch runs eval once and again after every broker event accepted by filter,
// delivering results on a channel that holds only the newest one. eval
// reporting false skips that round. The channel is closed when ctx is done.
func Watch[V any](ctx context.Context, broker *changes.Broker, filter func(changes.Event) bool, eval func() (V, bool)) <-chan V {
	out := make(chan V, 1)

	var events <-chan changes.Event
	cancel := func() {}
	if broker != nil {
		events, cancel = broker.Subscribe(filter)
	}

	go func() {
		defer close(out)
		defer cancel()

		for {
			if v, ok := eval(); ok {
				deliverLatest(out, v)
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

func deliverLatest[V any](out chan V, v V) {
	for {
		select {
		case out <- v:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
