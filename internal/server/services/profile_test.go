package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewProfileService(db, rm)
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.Get(ctx, "u1")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Save(ctx, "u1", &models.Profile{UserID: "someone-else", DisplayName: "Alice", Currency: " usd "}))
	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{UserID: "u1", DisplayName: "Alice", Currency: "USD", UpdatedAt: now}, got)

	require.NoError(t, s.Save(ctx, "u2", &models.Profile{Email: "b@example.com"}))
	p2, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, common.DefaultCurrency, p2.Currency)

	require.NoError(t, s.Delete(ctx, "u1"))
	require.ErrorIs(t, s.Delete(ctx, "u1"), common.ErrNotFound)
}
