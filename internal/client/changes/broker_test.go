package changes

import (
	"testing"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_FilterAndCoalesce(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe(Match(models.KindBudget, "u1"))
	defer cancel()

	b.Publish(Event{Kind: models.KindExpense, UserID: "u1"})
	b.Publish(Event{Kind: models.KindBudget, UserID: "u2"})
	assert.Len(t, ch, 0)

	for i := 0; i < 5; i++ {
		b.Publish(Event{Kind: models.KindBudget, UserID: "u1"})
	}
	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, Event{Kind: models.KindBudget, UserID: "u1"}, ev)
}

func TestBroker_CancelClosesAndIsIdempotent(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe(nil)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	b.Publish(Event{Kind: models.KindUser})
}

func TestBroker_NilPublishIsNoop(t *testing.T) {
	var b *Broker
	b.Publish(Event{Kind: models.KindUser})
}

func TestMatch_EmptyUserMatchesAll(t *testing.T) {
	f := Match(KindSession, "")
	assert.True(t, f(Event{Kind: KindSession, UserID: "x"}))
	assert.False(t, f(Event{Kind: models.KindUser}))
}
