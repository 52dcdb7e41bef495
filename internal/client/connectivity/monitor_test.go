package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	if f.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func TestCheck_TracksState(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, time.Hour, logging.NewNop())
	ctx := context.Background()

	assert.False(t, m.IsCurrentlyOnline())
	assert.True(t, m.Check(ctx))
	assert.True(t, m.IsCurrentlyOnline())

	p.fail.Store(true)
	assert.False(t, m.Check(ctx))
	assert.False(t, m.IsCurrentlyOnline())
}

func TestWatch_DeliversTransitionsOnly(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, time.Hour, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := m.Watch(ctx)

	m.Check(ctx)
	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no transition delivered")
	}

	m.Check(ctx)
	select {
	case v := <-ch:
		t.Fatalf("unexpected event %v without a transition", v)
	case <-time.After(50 * time.Millisecond):
	}

	p.fail.Store(true)
	m.Check(ctx)
	select {
	case v := <-ch:
		assert.False(t, v)
	case <-time.After(time.Second):
		t.Fatal("no transition delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRun_PingsUntilCancelled(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, 10*time.Millisecond, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsCurrentlyOnline())

	cancel()
	require.NoError(t, <-done)
}

func TestFixed(t *testing.T) {
	assert.True(t, Fixed(true).IsCurrentlyOnline())
	assert.False(t, Fixed(false).IsCurrentlyOnline())
}

func TestRun_NonPositiveIntervalUsesDefault(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, 0, logging.NewNop())
	assert.Equal(t, defaultInterval, m.interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
