package game

import "github.com/cardroomlabs/holdem/internal/deck"

// Player is a seated participant. Identity is stable across hands; per-hand
// fields are reset at every hand start.
type Player struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Chips        int         `json:"chips"`
	SeatPosition int         `json:"seatPosition"`
	HoleCards    []deck.Card `json:"holeCards,omitempty"`
	CurrentBet   int         `json:"currentBet"`

	// Active means dealt into the current hand. Players whose stack hit zero
	// stay seated as spectators until they leave or rebuy.
	Active       bool `json:"active"`
	Folded       bool `json:"folded"`
	AllIn        bool `json:"allIn"`
	Acted        bool `json:"acted"`
	IsDealer     bool `json:"isDealer"`
	IsSmallBlind bool `json:"isSmallBlind"`
	IsBigBlind   bool `json:"isBigBlind"`
}

// CanAct reports whether the player may still take actions this round.
// Folded and all-in players never act again in the current hand.
func (p *Player) CanAct() bool {
	return p.Active && !p.Folded && !p.AllIn
}

// Eligible reports whether the player is still contesting the pot.
func (p *Player) Eligible() bool {
	return !p.Folded && (p.Active || p.AllIn)
}

// resetForHand clears all per-hand state, keeping chips and seat. Active is
// decided by the caller based on the player's stack.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.Folded = false
	p.AllIn = false
	p.Acted = false
	p.IsDealer = false
	p.IsSmallBlind = false
	p.IsBigBlind = false
}

func (p *Player) clone() *Player {
	c := *p
	if p.HoleCards != nil {
		c.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	}
	return &c
}
