package offlinefirst

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/budgets"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeRemote[T models.Entity] struct {
	mu    sync.Mutex
	items []T

	getCalls    atomic.Int32
	listCalls   atomic.Int32
	addCalls    atomic.Int32
	updateCalls atomic.Int32
	deleteCalls atomic.Int32

	addErr    error
	updateErr error
	deleteErr error

	// addAppliedErr is returned after the add was stored, like a write that
	// timed out on the way back.
	addAppliedErr error
	onAdd         func()
	onGet         func(ctx context.Context)
}

func (f *fakeRemote[T]) owned(userID string) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []T{}
	for _, it := range f.items {
		if it.OwnerID() == userID {
			out = append(out, it)
		}
	}
	return out
}

func (f *fakeRemote[T]) find(id string) (T, int) {
	for i, it := range f.items {
		if it.EntityID() == id {
			return it, i
		}
	}
	var zero T
	return zero, -1
}

func (f *fakeRemote[T]) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, i := f.find(id)
	return i >= 0
}

func (f *fakeRemote[T]) Get(ctx context.Context, userID, id string) (T, bool) {
	f.getCalls.Add(1)
	if f.onGet != nil {
		f.onGet(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, i := f.find(id)
	if i < 0 || it.OwnerID() != userID {
		var zero T
		return zero, false
	}
	return it, true
}

func (f *fakeRemote[T]) ListByPeriod(_ context.Context, userID string, _ models.Period) []T {
	f.listCalls.Add(1)
	return f.owned(userID)
}

func (f *fakeRemote[T]) ListByCategory(_ context.Context, userID, _ string, _ models.Period) []T {
	f.listCalls.Add(1)
	return f.owned(userID)
}

func (f *fakeRemote[T]) Add(_ context.Context, e T) error {
	f.addCalls.Add(1)
	if f.onAdd != nil {
		f.onAdd()
	}
	if f.addErr != nil {
		return f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, i := f.find(e.EntityID()); i >= 0 {
		return common.ErrAlreadyExists
	}
	f.items = append(f.items, e)
	return f.addAppliedErr
}

func (f *fakeRemote[T]) Update(_ context.Context, e T) error {
	f.updateCalls.Add(1)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, i := f.find(e.EntityID())
	if i < 0 {
		return common.ErrNotFound
	}
	f.items[i] = e
	return nil
}

func (f *fakeRemote[T]) Delete(_ context.Context, _ string, id string) error {
	f.deleteCalls.Add(1)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, i := f.find(id)
	if i < 0 {
		return common.ErrNotFound
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return nil
}

type switchConn struct{ online atomic.Bool }

func newConn(online bool) *switchConn {
	c := &switchConn{}
	c.online.Store(online)
	return c
}

func (c *switchConn) IsCurrentlyOnline() bool { return c.online.Load() }

type fixture struct {
	db       *sql.DB
	broker   *changes.Broker
	outbox   *outbox.SQLiteRepository
	budgets  *budgets.SQLiteRepository
	expenses *transactions.SQLiteRepository
	incomes  *transactions.SQLiteRepository
	conn     *switchConn
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))

	broker := changes.NewBroker()
	return &fixture{
		db:       db,
		broker:   broker,
		outbox:   outbox.NewSQLiteRepository(db),
		budgets:  budgets.NewSQLiteRepository(db, broker),
		expenses: transactions.NewSQLiteRepository(db, models.KindExpense, broker),
		incomes:  transactions.NewSQLiteRepository(db, models.KindIncome, broker),
		conn:     newConn(online),
	}
}

func (f *fixture) config(kind models.Kind, mode WriteMode) Config {
	return Config{Kind: kind, Mode: mode, Outbox: f.outbox, Changes: f.broker}
}
