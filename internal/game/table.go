package game

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// Config holds per-table settings.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int
}

// Table owns the single writable State for one poker table. All mutating
// operations are serialized through one mutex so two actions never interleave
// against the same state; readers get consistent deep-copied snapshots.
type Table struct {
	mu       sync.Mutex
	cfg      Config
	state    *State
	rng      *rand.Rand
	logger   *log.Logger
	onUpdate func(*State)
}

// NewTable creates a table in the waiting phase. The random source is
// injectable for deterministic tests; pass nil for a time-seeded default.
func NewTable(cfg Config, rng *rand.Rand, logger *log.Logger) *Table {
	if rng == nil {
		rng = randutil.New(time.Now().UnixNano())
	}
	return &Table{
		cfg: cfg,
		state: &State{
			TableID:    uuid.NewString(),
			Phase:      Waiting,
			SmallBlind: cfg.SmallBlind,
			BigBlind:   cfg.BigBlind,
			DealerSeat: MaxSeats - 1, // first rotation lands on the lowest occupied seat
		},
		rng:    rng,
		logger: logger.WithPrefix("table"),
	}
}

// SetOnUpdate registers a callback invoked with a snapshot after every
// accepted state change. Used by the replication layer to broadcast the
// latest state; the callback runs on the writer's goroutine.
func (t *Table) SetOnUpdate(fn func(*State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// ID returns the table identifier.
func (t *Table) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.TableID
}

// Snapshot returns a deep copy of the current state.
func (t *Table) Snapshot() *State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Join seats a new player and returns the assigned player id. A non-positive
// buy-in takes the table's configured starting stack.
func (t *Table) Join(name string, buyIn int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if buyIn <= 0 {
		buyIn = t.cfg.StartingChips
	}
	p, err := t.state.Join(name, buyIn)
	if err != nil {
		return "", err
	}
	t.logger.Info("player joined", "player", name, "seat", p.SeatPosition, "chips", p.Chips)
	t.publish()
	return p.ID, nil
}

// Leave removes a seated player, folding them out of a hand in progress.
func (t *Table) Leave(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.state.Leave(playerID); err != nil {
		return err
	}
	t.logger.Info("player left", "player", playerID)
	t.publish()
	return nil
}

// StartHand starts the first hand with a freshly shuffled deck.
func (t *Table) StartHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.state.StartHand(deck.New(t.rng)); err != nil {
		return err
	}
	t.logger.Info("hand started", "hand", t.state.HandNum, "dealerSeat", t.state.DealerSeat)
	t.publish()
	return nil
}

// NextHand starts the following hand; legal only from showdown.
func (t *Table) NextHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.state.NextHand(deck.New(t.rng)); err != nil {
		return err
	}
	t.logger.Info("hand started", "hand", t.state.HandNum, "dealerSeat", t.state.DealerSeat)
	t.publish()
	return nil
}

// Apply submits one action for one player through the single-writer path.
// Late submissions for a player who is no longer on turn are rejected
// harmlessly, which is how timer/client races resolve.
func (t *Table) Apply(playerID string, action Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.state.Apply(playerID, action, amount); err != nil {
		return err
	}
	t.logger.Debug("action applied",
		"player", playerID, "action", action, "amount", amount,
		"phase", t.state.Phase, "pot", t.state.Pot, "currentBet", t.state.CurrentBet)
	t.publish()
	return nil
}

// CurrentTurn reports whose turn it is. ok is false between hands and at
// showdown, when nobody holds the turn.
func (t *Table) CurrentTurn() (playerID string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.state.CurrentPlayerID
	return id, id != ""
}

func (t *Table) publish() {
	if t.onUpdate != nil {
		t.onUpdate(t.state.Clone())
	}
}
