package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// newTestState seats one player per given stack, in seat order, on a 10/20
// table in the waiting phase. Player ids are "p0", "p1", ... for readability.
func newTestState(chips ...int) *State {
	s := &State{
		TableID:    "test-table",
		Phase:      Waiting,
		SmallBlind: 10,
		BigBlind:   20,
		DealerSeat: MaxSeats - 1,
	}
	for i, c := range chips {
		s.Players = append(s.Players, &Player{
			ID:           playerID(i),
			Name:         playerID(i),
			Chips:        c,
			SeatPosition: i,
		})
	}
	return s
}

func playerID(i int) string {
	return string(rune('p')) + string(rune('0'+i))
}

func newTestDeck(seed int64) *deck.Deck {
	return deck.New(randutil.New(seed))
}

func startTestHand(t *testing.T, s *State, seed int64) {
	t.Helper()
	require.NoError(t, s.StartHand(deck.New(randutil.New(seed))))
}

func bySeat(t *testing.T, s *State, seat int) *Player {
	t.Helper()
	p := s.PlayerAtSeat(seat)
	require.NotNil(t, p, "no player at seat %d", seat)
	return p
}

func mustApply(t *testing.T, s *State, playerID string, action Action, amount int) {
	t.Helper()
	require.NoError(t, s.Apply(playerID, action, amount))
}
