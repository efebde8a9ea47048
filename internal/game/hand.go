package game

import (
	"fmt"

	"github.com/cardroomlabs/holdem/internal/deck"
)

// StartHand deals the first hand of a session. Legal only from the waiting
// phase with at least two funded players seated.
func (s *State) StartHand(d *deck.Deck) error {
	if s.Phase != Waiting {
		return fmt.Errorf("start hand in %s: %w", s.Phase, ErrInvalidPhase)
	}
	return s.beginHand(d)
}

// NextHand moves from showdown into the next hand: per-hand state resets,
// chip stacks carry forward, busted players are parked as spectators, the
// button rotates and blinds are re-posted.
func (s *State) NextHand(d *deck.Deck) error {
	if s.Phase != Showdown {
		return fmt.Errorf("next hand in %s: %w", s.Phase, ErrInvalidPhase)
	}
	return s.beginHand(d)
}

// beginHand resets per-hand state and runs the hand-start sequence: activate
// funded players, rotate the button, deal hole cards, post blinds, set the
// first actor.
func (s *State) beginHand(d *deck.Deck) error {
	funded := 0
	for _, p := range s.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return fmt.Errorf("need at least 2 funded players, have %d: %w", funded, ErrIllegalAction)
	}

	s.Deck = d
	s.CommunityCards = nil
	s.Pot = 0
	s.CurrentBet = 0
	s.Winners = nil

	for _, p := range s.Players {
		p.resetForHand()
		p.Active = p.Chips > 0
	}

	s.DealerSeat = s.nextActiveSeatAfter(s.DealerSeat)

	for _, p := range s.Players {
		if !p.Active {
			continue
		}
		cards, err := s.Deck.Deal(2)
		if err != nil {
			return err
		}
		p.HoleCards = cards
	}

	s.postBlinds()
	s.Phase = Preflop
	s.HandNum++

	// A short-stacked blind can be all-in before anyone acts. Skip past dead
	// seats, and when nobody at all can act run the board out immediately.
	if cur := s.PlayerByID(s.CurrentPlayerID); cur != nil && !cur.CanAct() {
		s.CurrentPlayerID = ""
		if next := s.nextActorAfter(cur.SeatPosition); next != nil {
			s.CurrentPlayerID = next.ID
		}
	}
	if s.roundComplete() {
		return s.advancePhase()
	}
	return nil
}

// postBlinds assigns button/blind roles and posts the forced bets.
//
// Heads-up the dealer posts the small blind and acts first preflop. With
// three or more players the small blind sits after the dealer, the big blind
// after that, and the seat after the big blind is first to act.
func (s *State) postBlinds() {
	order := s.activeInSeatOrder()

	dealer := order[0]
	dealer.IsDealer = true

	var sb, bb, first *Player
	if len(order) == 2 {
		sb, bb = order[0], order[1]
		first = sb
	} else {
		sb, bb = order[1], order[2]
		first = order[3%len(order)]
	}

	sb.IsSmallBlind = true
	postBlind(sb, s.SmallBlind)
	bb.IsBigBlind = true
	postBlind(bb, s.BigBlind)

	// The table bet is the full big blind even when the big blind could only
	// post a partial stack.
	s.CurrentBet = s.BigBlind
	s.CurrentPlayerID = first.ID
}

// postBlind commits a forced bet. A stack shorter than the blind goes all-in
// for what it has rather than erroring.
func postBlind(p *Player, amount int) {
	pay := amount
	if pay > p.Chips {
		pay = p.Chips
	}
	p.Chips -= pay
	p.CurrentBet = pay
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// activeInSeatOrder returns the hand's players in circular seat order
// starting from the dealer.
func (s *State) activeInSeatOrder() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for i := 0; i < MaxSeats; i++ {
		if p := s.PlayerAtSeat((s.DealerSeat + i) % MaxSeats); p != nil && p.Active {
			out = append(out, p)
		}
	}
	return out
}
