package offlinefirst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	Kind models.Kind
	Mode WriteMode
	// Outbox is required in WriteModeOutbox.
	Outbox  Outbox
	Changes *changes.Broker
	Log     logging.Logger
	// OnQueued is called after a write was put in the outbox.
	OnQueued func()
	// FetchTimeout bounds a remote read shared by concurrent callers.
	FetchTimeout time.Duration
}

// Policy applies the offline-first rules to single-entity reads and to writes.
type Policy[T models.Entity] struct {
	kind     models.Kind
	local    LocalStore[T]
	remote   RemoteStore[T]
	conn     Connectivity
	mode     WriteMode
	outbox   Outbox
	changes  *changes.Broker
	log      logging.Logger
	onQueued func()

	fetchTimeout time.Duration
	flight       singleflight.Group
}

func NewPolicy[T models.Entity](local LocalStore[T], remote RemoteStore[T], conn Connectivity, cfg Config) *Policy[T] {
	mode := cfg.Mode
	if mode == "" {
		mode = WriteModeOutbox
	}
	if mode == WriteModeOutbox && cfg.Outbox == nil {
		panic("offlinefirst: outbox mode needs an outbox")
	}
	log := cfg.Log
	if log == nil {
		log = logging.NewNop()
	}
	return &Policy[T]{
		kind:     cfg.Kind,
		local:    local,
		remote:   remote,
		conn:     conn,
		mode:     mode,
		outbox:   cfg.Outbox,
		changes:  cfg.Changes,
		log:      log.With("module", "offlinefirst", "kind", string(cfg.Kind)),
		onQueued: cfg.OnQueued,

		fetchTimeout: cfg.FetchTimeout,
	}
}

func (p *Policy[T]) Kind() models.Kind { return p.kind }

// ReadOne returns the entity with id. found is false when neither store has it;
// err only reports a local store failure.
func (p *Policy[T]) ReadOne(ctx context.Context, userID, id string) (e T, found bool, err error) {
	e, err = p.local.Get(ctx, userID, id)
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return e, false, err
	}

	var zero T
	if !p.conn.IsCurrentlyOnline() {
		return zero, false, nil
	}

	key := fmt.Sprintf("get|%s|%s", userID, id)
	v, _, _ := p.flight.Do(key, func() (any, error) {
		fctx, cancel := p.sharedContext(ctx)
		defer cancel()
		r, ok := p.remote.Get(fctx, userID, id)
		if !ok {
			return nil, nil
		}
		return r, nil
	})
	r, ok := v.(T)
	if !ok {
		return zero, false, nil
	}

	deleted, err := p.pendingDeletes(ctx, userID)
	if err != nil {
		return zero, false, err
	}
	if _, gone := deleted[id]; gone {
		return zero, false, nil
	}

	if err := p.local.Backfill(ctx, r); err != nil {
		p.log.Warn(ctx, "backfill failed", "id", id, "error", err)
	}
	return r, true, nil
}

// sharedContext detaches a fetch made on behalf of every caller in a flight
// from the cancellation of the one that started it.
func (p *Policy[T]) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if p.fetchTimeout > 0 {
		return context.WithTimeout(ctx, p.fetchTimeout)
	}
	return ctx, func() {}
}

func (p *Policy[T]) pendingDeletes(ctx context.Context, userID string) (map[string]struct{}, error) {
	if p.outbox == nil {
		return nil, nil
	}
	return p.outbox.PendingDeletes(ctx, p.kind, userID)
}

func (p *Policy[T]) Add(ctx context.Context, e T) error {
	if err := p.local.Add(ctx, e); err != nil {
		return err
	}
	return p.propagate(ctx, models.OpAdd, e.OwnerID(), e.EntityID(), &e)
}

func (p *Policy[T]) Update(ctx context.Context, e T) error {
	if err := p.local.Update(ctx, e); err != nil {
		return err
	}
	return p.propagate(ctx, models.OpUpdate, e.OwnerID(), e.EntityID(), &e)
}

// Delete removes the entity locally; a missing entity is common.ErrNotFound
// and nothing is sent to the remote store.
func (p *Policy[T]) Delete(ctx context.Context, userID, id string) error {
	if err := p.local.Delete(ctx, userID, id); err != nil {
		return err
	}
	return p.propagate(ctx, models.OpDelete, userID, id, nil)
}

// propagate sends an already applied local write to the remote store, or
// handles it as offline.
func (p *Policy[T]) propagate(ctx context.Context, op models.Op, userID, id string, e *T) error {
	online := p.conn.IsCurrentlyOnline()

	if online && p.outbox != nil && p.mode == WriteModeOutbox {
		// an older queued op for the entity must reach the server first
		queued, err := p.outbox.Has(ctx, p.kind, id)
		if err != nil {
			return err
		}
		if queued {
			return p.offline(ctx, op, userID, id, e, false)
		}
	}

	if !online {
		return p.offline(ctx, op, userID, id, e, false)
	}

	if err := p.push(ctx, op, userID, id, e); err != nil {
		p.log.Warn(ctx, "remote write failed", "op", string(op), "id", id, "error", err)
		// a timed out write may still have been committed by the server
		return p.offline(ctx, op, userID, id, e, true)
	}

	if err := p.local.MarkSynced(ctx, userID, id, true); err != nil {
		p.log.Warn(ctx, "mark synced failed", "id", id, "error", err)
	}
	return nil
}

// push applies op remotely. A delete of something the server does not have is
// done; add and update fall back to each other when the server disagrees
// about existence.
func (p *Policy[T]) push(ctx context.Context, op models.Op, userID, id string, e *T) error {
	switch op {
	case models.OpDelete:
		err := p.remote.Delete(ctx, userID, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	case models.OpAdd:
		err := p.remote.Add(ctx, *e)
		if errors.Is(err, common.ErrAlreadyExists) {
			return p.remote.Update(ctx, *e)
		}
		return err
	case models.OpUpdate:
		err := p.remote.Update(ctx, *e)
		if errors.Is(err, common.ErrNotFound) {
			return p.remote.Add(ctx, *e)
		}
		return err
	}
	return fmt.Errorf("unknown op %q", op)
}

func (p *Policy[T]) offline(ctx context.Context, op models.Op, userID, id string, e *T, sent bool) error {
	if p.mode == WriteModeDrop {
		p.log.Debug(ctx, "write kept local only", "op", string(op), "id", id)
		return nil
	}

	var payload []byte
	if e != nil {
		b, err := json.Marshal(*e)
		if err != nil {
			return fmt.Errorf("encode outbox payload: %w", err)
		}
		payload = b
	}

	err := p.outbox.Enqueue(ctx, models.OutboxOp{
		Kind:     p.kind,
		EntityID: id,
		UserID:   userID,
		Op:       op,
		Payload:  payload,
		Sent:     sent,
	})
	if err != nil {
		return err
	}
	p.log.Info(ctx, "write queued", "op", string(op), "id", id)

	if p.onQueued != nil {
		p.onQueued()
	}
	return nil
}

// Replay pushes a queued op to the remote store.
func (p *Policy[T]) Replay(ctx context.Context, op models.OutboxOp) error {
	if op.Op == models.OpDelete {
		return p.push(ctx, op.Op, op.UserID, op.EntityID, nil)
	}

	var e T
	if err := json.Unmarshal(op.Payload, &e); err != nil {
		return fmt.Errorf("decode outbox payload: %w", err)
	}
	return p.push(ctx, op.Op, op.UserID, op.EntityID, &e)
}

func (p *Policy[T]) MarkSynced(ctx context.Context, userID, id string) error {
	return p.local.MarkSynced(ctx, userID, id, true)
}
