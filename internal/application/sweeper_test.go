package application

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweepable struct {
	calls atomic.Int32
}

func (c *countingSweepable) Sweep() int {
	c.calls.Add(1)
	return 0
}

func TestSweeperSweepsOnEveryTick(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	target := &countingSweepable{}
	sweeper := NewSweeper(target, clk, 500*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	require.Eventually(t, func() bool {
		clk.Add(500 * time.Millisecond)
		return target.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeperRejectsSecondRun(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	target := &countingSweepable{}
	sweeper := NewSweeper(target, clk, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sweeper.Run(ctx) }()

	require.Eventually(t, func() bool {
		clk.Add(time.Second)
		return target.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	err := sweeper.Run(ctx)
	require.ErrorIs(t, err, ErrSweeperRunning)
}

func TestSweeperDefaultsInterval(t *testing.T) {
	t.Parallel()

	sweeper := NewSweeper(&countingSweepable{}, nil, 0, nil)
	assert.Equal(t, DefaultSweepInterval, sweeper.Interval())
}

func TestSweeperReclaimsCompleteSessions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	alice := f.join(t, "alice")
	f.join(t, "bob")
	f.join(t, "carol")
	f.join(t, "dave")
	f.mm.Disconnect(alice)

	sweeper := NewSweeper(f.mm, f.clock, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sweeper.Run(ctx) }()

	require.Eventually(t, func() bool {
		f.clock.Add(time.Second)
		stats := f.mm.Stats()
		return len(stats.Sessions) == 1
	}, 2*time.Second, 5*time.Millisecond)

	stats := f.mm.Stats()
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 0, stats.DoneSessions)
}
