package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroomlabs/holdem/internal/game"
)

// TurnTimer auto-acts for players who let their turn lapse. It submits a
// synthetic check when legal and a fold otherwise, through the same
// single-writer path as any other action, so a race with a late client
// submission resolves to a harmless rejection for whichever side loses.
type TurnTimer struct {
	table   *game.Table
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	mu       sync.Mutex
	turnID   string
	phase    game.Phase
	handNum  int
	deadline *quartz.Timer
}

// NewTurnTimer creates a turn timer. A non-positive timeout disables it. The
// clock is injectable so tests drive expiry explicitly.
func NewTurnTimer(table *game.Table, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *TurnTimer {
	return &TurnTimer{
		table:   table,
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("turn-timer"),
	}
}

// Observe re-arms the timer against a fresh state snapshot. Call it with
// every published state. A new turn means a new full timeout; the same
// player holding the turn across a street or hand boundary counts as a new
// turn, so closing a round and acting first on the next street never
// inherits the previous deadline.
func (tt *TurnTimer) Observe(s *game.State) {
	if tt.timeout <= 0 {
		return
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()

	if s.CurrentPlayerID == tt.turnID && s.Phase == tt.phase && s.HandNum == tt.handNum {
		return
	}
	if tt.deadline != nil {
		tt.deadline.Stop()
		tt.deadline = nil
	}
	tt.turnID = s.CurrentPlayerID
	tt.phase = s.Phase
	tt.handNum = s.HandNum
	if tt.turnID == "" {
		return
	}

	playerID := tt.turnID
	tt.deadline = tt.clock.AfterFunc(tt.timeout, func() {
		tt.expire(playerID)
	})
}

// Stop cancels any pending deadline.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.deadline != nil {
		tt.deadline.Stop()
		tt.deadline = nil
	}
	tt.turnID = ""
}

func (tt *TurnTimer) expire(playerID string) {
	tt.logger.Info("turn timed out", "player", playerID)

	if err := tt.table.Apply(playerID, game.Check, 0); err == nil {
		return
	}
	if err := tt.table.Apply(playerID, game.Fold, 0); err != nil {
		// The turn already moved on and the stale submission bounced.
		tt.logger.Debug("synthetic fold rejected", "player", playerID, "error", err)
	}
}
