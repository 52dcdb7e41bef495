package offlinefirst

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

// LocalStore is the on-device persistence of one entity type. Get of a
// missing entity and Delete of a missing entity return common.ErrNotFound.
type LocalStore[T models.Entity] interface {
	Get(ctx context.Context, userID, id string) (T, error)
	Add(ctx context.Context, e T) error
	// Backfill stores a copy received from the remote store as synced.
	Backfill(ctx context.Context, e T) error
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, userID, id string) error
	MarkSynced(ctx context.Context, userID, id string, synced bool) error
}

type LocalListStore[T models.Entity] interface {
	LocalStore[T]
	ListByPeriod(ctx context.Context, userID string, p models.Period) ([]T, error)
	ListByCategory(ctx context.Context, userID, category string, p models.Period) ([]T, error)
}

// RemoteStore reads never fail: an unreachable store reports "nothing".
type RemoteStore[T models.Entity] interface {
	Get(ctx context.Context, userID, id string) (T, bool)
	Add(ctx context.Context, e T) error
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, userID, id string) error
}

type RemoteListStore[T models.Entity] interface {
	RemoteStore[T]
	ListByPeriod(ctx context.Context, userID string, p models.Period) []T
	ListByCategory(ctx context.Context, userID, category string, p models.Period) []T
}

type Connectivity interface {
	IsCurrentlyOnline() bool
}

type Outbox interface {
	Enqueue(ctx context.Context, op models.OutboxOp) error
	Has(ctx context.Context, kind models.Kind, entityID string) (bool, error)
	PendingDeletes(ctx context.Context, kind models.Kind, userID string) (map[string]struct{}, error)
}

// WriteMode decides what happens to a write made while offline.
type WriteMode string

const (
	// WriteModeOutbox queues the write for the Syncer.
	WriteModeOutbox WriteMode = "outbox"
	// WriteModeDrop keeps the write local only; it never reaches the server.
	WriteModeDrop WriteMode = "drop"
)

func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case WriteModeOutbox, "":
		return WriteModeOutbox, nil
	case WriteModeDrop:
		return WriteModeDrop, nil
	}
	return "", fmt.Errorf("unknown offline write mode %q", s)
}
