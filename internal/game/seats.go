package game

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Join seats a new player at the lowest free seat and returns them. The
// table holds at most MaxSeats players; a name already at the table is
// rejected. Players joining mid-hand sit out until the next hand starts.
func (s *State) Join(name string, buyIn int) (*Player, error) {
	if len(s.Players) >= MaxSeats {
		return nil, fmt.Errorf("table full: %w", ErrInvalidSeat)
	}
	if buyIn <= 0 {
		return nil, fmt.Errorf("buy-in must be positive: %w", ErrInvalidSeat)
	}
	for _, p := range s.Players {
		if p.Name == name {
			return nil, fmt.Errorf("%q already seated: %w", name, ErrInvalidSeat)
		}
	}

	taken := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		taken[p.SeatPosition] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}

	p := &Player{
		ID:           uuid.NewString(),
		Name:         name,
		Chips:        buyIn,
		SeatPosition: seat,
		// Dealt in at the next hand start; never into a hand in progress.
		Active: false,
	}
	s.Players = append(s.Players, p)
	sort.Slice(s.Players, func(i, j int) bool {
		return s.Players[i].SeatPosition < s.Players[j].SeatPosition
	})
	return p, nil
}

// Leave removes a seated player. Leaving mid-hand folds the player first so
// the hand can finish; chips they have already committed stay in the pot,
// while their stack leaves the table with them.
func (s *State) Leave(playerID string) error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("player %s not seated: %w", playerID, ErrInvalidSeat)
	}

	inHand := p.Active && !p.Folded && s.Phase != Waiting && s.Phase != Showdown
	if inHand {
		s.foldOut(p)
	}
	s.removePlayer(playerID)

	if inHand {
		return s.afterForcedFold(p)
	}
	return nil
}

// foldOut folds a player outside the normal turn order. Their live bet is
// swept to the pot immediately because the seat is going away.
func (s *State) foldOut(p *Player) {
	p.Folded = true
	p.Acted = true
	s.Pot += p.CurrentBet
	p.CurrentBet = 0
}

// afterForcedFold re-runs hand progression after a forced fold. The fold may
// have ended the hand, completed the betting round, or vacated the turn.
func (s *State) afterForcedFold(p *Player) error {
	if remaining := s.nonFolded(); len(remaining) == 1 {
		s.endHandByFold(remaining[0])
		return nil
	}
	if s.roundComplete() {
		return s.advancePhase()
	}
	if s.CurrentPlayerID == p.ID {
		s.CurrentPlayerID = ""
		if next := s.nextActorAfter(p.SeatPosition); next != nil {
			s.CurrentPlayerID = next.ID
		}
	}
	return nil
}

func (s *State) removePlayer(playerID string) {
	for i, p := range s.Players {
		if p.ID == playerID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return
		}
	}
}
