package outbox

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setup(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return NewSQLiteRepository(db)
}

func op(kind models.Kind, id string, o models.Op, payload string) models.OutboxOp {
	return models.OutboxOp{Kind: kind, EntityID: id, UserID: "1", Op: o, Payload: []byte(payload)}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name       string
		prev, next models.Op
		sent       bool
		want       models.Op
		keep       bool
	}{
		{"add+update", models.OpAdd, models.OpUpdate, false, models.OpAdd, true},
		{"add+delete", models.OpAdd, models.OpDelete, false, "", false},
		{"sent add+delete", models.OpAdd, models.OpDelete, true, models.OpDelete, true},
		{"sent add+update", models.OpAdd, models.OpUpdate, true, models.OpAdd, true},
		{"update+update", models.OpUpdate, models.OpUpdate, false, models.OpUpdate, true},
		{"update+delete", models.OpUpdate, models.OpDelete, false, models.OpDelete, true},
		{"delete+add", models.OpDelete, models.OpAdd, false, models.OpUpdate, true},
		{"delete+delete", models.OpDelete, models.OpDelete, false, models.OpDelete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := Coalesce(tt.prev, tt.next, tt.sent)
			assert.Equal(t, tt.keep, keep)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnqueue_MergesPerEntity(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpAdd, `{"v":1}`)))
	require.NoError(t, r.Enqueue(ctx, op(models.KindExpense, "e1", models.OpUpdate, `{"v":1}`)))
	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpUpdate, `{"v":2}`)))

	ops, err := r.Pending(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "b1", ops[0].EntityID, "merged op keeps its queue position")
	assert.Equal(t, models.OpAdd, ops[0].Op)
	assert.JSONEq(t, `{"v":2}`, string(ops[0].Payload))
	assert.Equal(t, models.OpUpdate, ops[1].Op)

	require.NoError(t, r.Enqueue(ctx, op(models.KindExpense, "e1", models.OpDelete, "")))
	dels, err := r.PendingDeletes(ctx, models.KindExpense, "1")
	require.NoError(t, err)
	assert.Contains(t, dels, "e1")
}

func TestEnqueue_AddThenDeleteLeavesNothing(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, op(models.KindIncome, "i1", models.OpAdd, `{}`)))
	require.NoError(t, r.Enqueue(ctx, op(models.KindIncome, "i1", models.OpDelete, "")))

	n, err := r.Count(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFailedAndDone(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpAdd, `{}`)))
	ops, err := r.Pending(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	seq := ops[0].Seq

	require.NoError(t, r.Failed(ctx, seq, errors.New("server unavailable")))
	require.NoError(t, r.Failed(ctx, seq, errors.New("still down")))

	ops, err = r.Pending(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, ops[0].Attempts)
	assert.Equal(t, "still down", ops[0].LastError)

	require.NoError(t, r.Done(ctx, seq, ops[0].Revision))
	require.ErrorIs(t, r.Done(ctx, seq, ops[0].Revision), common.ErrNotFound)

	ops, err = r.Pending(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDone_KeepsOpSupersededWhileInFlight(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpAdd, `{"v":1}`)))
	inFlight, err := r.Pending(ctx, "1")
	require.NoError(t, err)

	// a local update arrives while the add is being pushed
	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpUpdate, `{"v":2}`)))

	require.ErrorIs(t, r.Done(ctx, inFlight[0].Seq, inFlight[0].Revision), common.ErrNotFound)

	ops, err := r.Pending(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.EqualValues(t, 1, ops[0].Revision)
	assert.JSONEq(t, `{"v":2}`, string(ops[0].Payload))

	has, err := r.Has(ctx, models.KindBudget, "b1")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = r.Has(ctx, models.KindBudget, "b2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEnqueue_DeleteAfterSentAddIsKept(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpAdd, `{}`)))
	ops, err := r.Pending(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.False(t, ops[0].Sent)

	require.NoError(t, r.MarkSent(ctx, ops[0].Seq))
	require.NoError(t, r.Enqueue(ctx, op(models.KindBudget, "b1", models.OpDelete, "")))

	ops, err = r.Pending(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OpDelete, ops[0].Op)
	assert.True(t, ops[0].Sent)
	assert.Nil(t, ops[0].Payload)

	require.ErrorIs(t, r.MarkSent(ctx, 999), common.ErrNotFound)
}

func TestEnqueue_SentFlagSticksAcrossMerges(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	uncertain := op(models.KindIncome, "i1", models.OpAdd, `{"v":1}`)
	uncertain.Sent = true
	require.NoError(t, r.Enqueue(ctx, uncertain))
	require.NoError(t, r.Enqueue(ctx, op(models.KindIncome, "i1", models.OpUpdate, `{"v":2}`)))
	require.NoError(t, r.Enqueue(ctx, op(models.KindIncome, "i1", models.OpDelete, "")))

	dels, err := r.PendingDeletes(ctx, models.KindIncome, "1")
	require.NoError(t, err)
	assert.Contains(t, dels, "i1")
}
