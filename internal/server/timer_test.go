package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

const testTimeout = 5 * time.Second

func newTimerTable(t *testing.T) (*game.Table, []string) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	table := game.NewTable(game.Config{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
	}, randutil.New(7), logger)

	alice, err := table.Join("alice", 0)
	require.NoError(t, err)
	bob, err := table.Join("bob", 0)
	require.NoError(t, err)
	return table, []string{alice, bob}
}

func TestTurnTimerFoldsWhenCheckIsIllegal(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, ids := newTimerTable(t)
	timer := NewTurnTimer(table, mockClock, testTimeout, logger)
	table.SetOnUpdate(func(s *game.State) { timer.Observe(s) })

	require.NoError(t, table.StartHand())

	// Heads up the dealer posts the small blind and acts first, facing the
	// big blind. A check is illegal there so expiry must fold.
	actor, ok := table.CurrentTurn()
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(testTimeout).MustWait(ctx)

	s := table.Snapshot()
	assert.Equal(t, game.Showdown, s.Phase)
	require.Len(t, s.Winners, 1)
	assert.NotEqual(t, actor, s.Winners[0])
	assert.Contains(t, ids, s.Winners[0])
}

func TestTurnTimerChecksWhenLegal(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, _ := newTimerTable(t)
	timer := NewTurnTimer(table, mockClock, testTimeout, logger)
	table.SetOnUpdate(func(s *game.State) { timer.Observe(s) })

	require.NoError(t, table.StartHand())

	// Complete the preflop round so the next actor faces no bet.
	sb, ok := table.CurrentTurn()
	require.True(t, ok)
	require.NoError(t, table.Apply(sb, game.Call, 0))
	bb, ok := table.CurrentTurn()
	require.True(t, ok)
	require.NoError(t, table.Apply(bb, game.Check, 0))

	flopActor, ok := table.CurrentTurn()
	require.True(t, ok)
	require.Equal(t, game.Flop, table.Snapshot().Phase)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(testTimeout).MustWait(ctx)

	s := table.Snapshot()
	assert.Equal(t, game.Flop, s.Phase)
	for _, p := range s.Players {
		assert.False(t, p.Folded)
	}
	next, ok := table.CurrentTurn()
	require.True(t, ok)
	assert.NotEqual(t, flopActor, next)
}

func TestTurnTimerGrantsFullTimeoutAcrossStreets(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, ids := newTimerTable(t)
	alice, bob := ids[0], ids[1]
	timer := NewTurnTimer(table, mockClock, testTimeout, logger)
	table.SetOnUpdate(func(s *game.State) { timer.Observe(s) })

	require.NoError(t, table.StartHand())

	// Heads up the big blind both closes the preflop round and acts first
	// on the flop, so the turn stays on the same player across the street.
	require.NoError(t, table.Apply(alice, game.Call, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Burn most of the preflop deadline before the big blind acts.
	mockClock.Advance(testTimeout - time.Second).MustWait(ctx)
	require.NoError(t, table.Apply(bob, game.Check, 0))
	require.Equal(t, game.Flop, table.Snapshot().Phase)

	// The flop turn starts a fresh deadline; the leftover second from the
	// preflop one must not fire into it.
	mockClock.Advance(testTimeout - time.Second).MustWait(ctx)
	current, ok := table.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, bob, current, "flop turn timed out early")

	// The full timeout elapsing on the flop does expire the turn.
	mockClock.Advance(time.Second).MustWait(ctx)
	s := table.Snapshot()
	assert.Equal(t, game.Flop, s.Phase)
	current, ok = table.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, alice, current)
	for _, p := range s.Players {
		assert.False(t, p.Folded)
	}
}

func TestTurnTimerRearmsOnlyWhenTurnMoves(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, _ := newTimerTable(t)
	timer := NewTurnTimer(table, mockClock, testTimeout, logger)

	require.NoError(t, table.StartHand())
	s := table.Snapshot()

	timer.Observe(s)
	first := timer.deadline
	require.NotNil(t, first)

	// Same turn again leaves the existing deadline alone.
	timer.Observe(s)
	assert.Same(t, first, timer.deadline)
}

func TestTurnTimerDisabled(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, _ := newTimerTable(t)
	timer := NewTurnTimer(table, mockClock, 0, logger)

	require.NoError(t, table.StartHand())
	timer.Observe(table.Snapshot())

	assert.Nil(t, timer.deadline)
}

func TestTurnTimerStop(t *testing.T) {
	mockClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	table, _ := newTimerTable(t)
	timer := NewTurnTimer(table, mockClock, testTimeout, logger)

	require.NoError(t, table.StartHand())
	timer.Observe(table.Snapshot())
	require.NotNil(t, timer.deadline)

	timer.Stop()
	assert.Nil(t, timer.deadline)
}
