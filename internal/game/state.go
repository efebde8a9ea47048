// Package game implements the authoritative no-limit hold'em table engine:
// seating, blinds, the betting-round state machine, phase transitions,
// community card dealing and showdown settlement. The engine has no I/O of
// its own; it is driven entirely through discrete state transitions.
package game

import (
	"github.com/cardroomlabs/holdem/internal/deck"
)

// Phase is a stage of a hand.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// MaxSeats is the table capacity. Seats are numbered 0..MaxSeats-1.
const MaxSeats = 9

// State is the canonical game state. Exactly one mutable copy exists per
// table; every accepted operation transforms it atomically.
//
// Invariant: sum of player chips plus currentBets plus Pot is constant
// across a hand. Blind posting and payout are transfers; only joins and
// leaves change the total.
type State struct {
	TableID         string
	HandNum         int
	Phase           Phase
	Players         []*Player // sorted by seat position
	CommunityCards  []deck.Card
	Pot             int
	CurrentBet      int
	DealerSeat      int
	CurrentPlayerID string
	Deck            *deck.Deck
	SmallBlind      int
	BigBlind        int
	Winners         []string
}

// PlayerByID returns the seated player with the given id, or nil.
func (s *State) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerAtSeat returns the player occupying the seat, or nil.
func (s *State) PlayerAtSeat(seat int) *Player {
	for _, p := range s.Players {
		if p.SeatPosition == seat {
			return p
		}
	}
	return nil
}

// nonFolded returns players still holding live hands.
func (s *State) nonFolded() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p.Active && !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// canStillAct returns eligible players who are not all-in, in seat order.
func (s *State) canStillAct() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p.CanAct() {
			out = append(out, p)
		}
	}
	return out
}

// nextActorAfter scans seats circularly, strictly after the given seat, for
// the first player who can still act. Empty seats, folded players and all-in
// players are skipped. Returns nil when nobody can act.
func (s *State) nextActorAfter(seat int) *Player {
	for i := 1; i <= MaxSeats; i++ {
		if p := s.PlayerAtSeat((seat + i) % MaxSeats); p != nil && p.CanAct() {
			return p
		}
	}
	return nil
}

// nextActiveSeatAfter scans seats circularly, strictly after the given seat,
// for the next seat occupied by a player dealt into the hand.
func (s *State) nextActiveSeatAfter(seat int) int {
	for i := 1; i <= MaxSeats; i++ {
		t := (seat + i) % MaxSeats
		if p := s.PlayerAtSeat(t); p != nil && p.Active {
			return t
		}
	}
	return seat
}

// TotalChips returns all chips in the economy: stacks, live bets and pot.
func (s *State) TotalChips() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Chips + p.CurrentBet
	}
	return total
}

// Clone returns a deep copy with the deck elided. Readers use clones so they
// never observe an in-progress mutation; the deck stays with the writer.
func (s *State) Clone() *State {
	c := *s
	c.Deck = nil
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	if s.CommunityCards != nil {
		c.CommunityCards = append([]deck.Card(nil), s.CommunityCards...)
	}
	if s.Winners != nil {
		c.Winners = append([]string(nil), s.Winners...)
	}
	return &c
}
