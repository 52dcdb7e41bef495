package offlinefirst

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Replayer pushes queued ops of one kind. Policy and ListPolicy implement it.
type Replayer interface {
	Replay(ctx context.Context, op models.OutboxOp) error
	MarkSynced(ctx context.Context, userID, id string) error
}

type SyncOutbox interface {
	Pending(ctx context.Context, userID string) ([]models.OutboxOp, error)
	MarkSent(ctx context.Context, seq int64) error
	Done(ctx context.Context, seq, revision int64) error
	Failed(ctx context.Context, seq int64, cause error) error
}

type Monitor interface {
	Connectivity
	Run(ctx context.Context) error
	Watch(ctx context.Context) <-chan bool
}

// Syncer replays the outbox of the signed in user against the server.
type Syncer struct {
	outbox   SyncOutbox
	monitor  Monitor
	user     func() (string, bool)
	interval time.Duration
	log      logging.Logger

	replayers map[models.Kind]Replayer
	kick      chan struct{}
	mu        sync.Mutex
}

func NewSyncer(outbox SyncOutbox, monitor Monitor, currentUser func() (string, bool), interval time.Duration, log logging.Logger) *Syncer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Syncer{
		outbox:    outbox,
		monitor:   monitor,
		user:      currentUser,
		interval:  interval,
		log:       log.With("module", "syncer"),
		replayers: make(map[models.Kind]Replayer),
		kick:      make(chan struct{}, 1),
	}
}

// Register must be called before Run.
func (s *Syncer) Register(kind models.Kind, r Replayer) {
	s.replayers[kind] = r
}

// Kick asks a running Syncer to drain soon.
func (s *Syncer) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Drain replays pending ops in order and returns how many were applied. It
// stops at the first failure so later ops never overtake an earlier one.
func (s *Syncer) Drain(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.monitor.IsCurrentlyOnline() {
		return 0, nil
	}
	userID, ok := s.user()
	if !ok {
		return 0, nil
	}

	ops, err := s.outbox.Pending(ctx, userID)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, op := range ops {
		r, ok := s.replayers[op.Kind]
		if !ok {
			return applied, fmt.Errorf("no replayer for kind %q", op.Kind)
		}

		if err := s.outbox.MarkSent(ctx, op.Seq); err != nil {
			return applied, err
		}
		if err := r.Replay(ctx, op); err != nil {
			s.log.Warn(ctx, "replay failed", "seq", op.Seq, "kind", string(op.Kind), "id", op.EntityID, "error", err)
			if ferr := s.outbox.Failed(ctx, op.Seq, err); ferr != nil {
				s.log.Error(ctx, "record outbox failure", "seq", op.Seq, "error", ferr)
			}
			return applied, err
		}

		err := s.outbox.Done(ctx, op.Seq, op.Revision)
		switch {
		case errors.Is(err, common.ErrNotFound):
			// a newer write was folded in while this one was in flight and
			// stays queued for the next drain
			applied++
			continue
		case err != nil:
			return applied, err
		}
		applied++

		if op.Op != models.OpDelete {
			if err := r.MarkSynced(ctx, op.UserID, op.EntityID); err != nil && !errors.Is(err, common.ErrNotFound) {
				s.log.Warn(ctx, "mark synced failed", "id", op.EntityID, "error", err)
			}
		}
	}

	if applied > 0 {
		s.log.Info(ctx, "outbox drained", "applied", applied)
	}
	return applied, nil
}

// Run keeps the connectivity monitor going and drains on every reconnect, on
// every interval tick and on Kick, until ctx is done.
func (s *Syncer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	transitions := s.monitor.Watch(ctx)

	g.Go(func() error {
		return s.monitor.Run(ctx)
	})

	g.Go(func() error {
		var tick <-chan time.Time
		if s.interval > 0 {
			t := time.NewTicker(s.interval)
			defer t.Stop()
			tick = t.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case online, ok := <-transitions:
				if !ok {
					return nil
				}
				if !online {
					continue
				}
			case <-tick:
			case <-s.kick:
			}
			if _, err := s.Drain(ctx); err != nil && ctx.Err() == nil {
				s.log.Debug(ctx, "drain stopped", "error", err)
			}
		}
	})

	return g.Wait()
}
