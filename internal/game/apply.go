package game

import (
	"fmt"
)

// Apply validates and applies one action for one player. Only the player
// whose turn it is may act; anything else is rejected with the state left
// untouched. Amount is the target total bet for raises and ignored otherwise.
func (s *State) Apply(playerID string, action Action, amount int) error {
	switch s.Phase {
	case Waiting, Showdown:
		return fmt.Errorf("no betting in %s: %w", s.Phase, ErrInvalidPhase)
	}
	if s.CurrentPlayerID == "" || playerID != s.CurrentPlayerID {
		return fmt.Errorf("not player %s's turn: %w", playerID, ErrIllegalAction)
	}
	p := s.PlayerByID(playerID)
	if p == nil || !p.CanAct() {
		return fmt.Errorf("player %s cannot act: %w", playerID, ErrIllegalAction)
	}

	switch action {
	case Fold:
		p.Folded = true
		p.Acted = true

	case Check:
		if p.CurrentBet != s.CurrentBet {
			return fmt.Errorf("cannot check facing a bet of %d: %w", s.CurrentBet-p.CurrentBet, ErrIllegalAction)
		}
		p.Acted = true

	case Call:
		deficit := s.CurrentBet - p.CurrentBet
		if deficit <= 0 {
			return fmt.Errorf("nothing to call: %w", ErrIllegalAction)
		}
		pay := deficit
		if pay > p.Chips {
			pay = p.Chips
		}
		p.Chips -= pay
		p.CurrentBet += pay
		if p.Chips == 0 {
			p.AllIn = true
		}
		p.Acted = true

	case Raise:
		if amount <= s.CurrentBet {
			return fmt.Errorf("raise to %d must exceed table bet %d: %w", amount, s.CurrentBet, ErrIllegalAction)
		}
		cost := amount - p.CurrentBet
		if cost > p.Chips {
			return fmt.Errorf("raise to %d needs %d chips, have %d: %w", amount, cost, p.Chips, ErrIllegalAction)
		}
		p.Chips -= cost
		p.CurrentBet = amount
		s.CurrentBet = amount
		if p.Chips == 0 {
			p.AllIn = true
		}
		p.Acted = true

	case AllIn:
		if p.Chips == 0 {
			return fmt.Errorf("no chips to commit: %w", ErrIllegalAction)
		}
		p.CurrentBet += p.Chips
		p.Chips = 0
		if p.CurrentBet > s.CurrentBet {
			s.CurrentBet = p.CurrentBet
		}
		p.AllIn = true
		p.Acted = true

	default:
		return fmt.Errorf("unknown action %d: %w", action, ErrIllegalAction)
	}

	// A fold can leave a single live hand; that player wins at once without
	// showing cards.
	if remaining := s.nonFolded(); len(remaining) == 1 {
		s.endHandByFold(remaining[0])
		return nil
	}

	// Round completion is evaluated before advancing the turn, so we never
	// go scanning for a next actor that cannot exist.
	if s.roundComplete() {
		return s.advancePhase()
	}

	s.CurrentPlayerID = ""
	if next := s.nextActorAfter(p.SeatPosition); next != nil {
		s.CurrentPlayerID = next.ID
	}
	return nil
}

// roundComplete reports whether the betting round is settled: every player
// who can still act has matched the table bet and has acted. Preflop, while
// the table bet is still the bare big blind, the big blind keeps the option
// to raise and the round stays open until they use or decline it.
func (s *State) roundComplete() bool {
	for _, p := range s.canStillAct() {
		if p.CurrentBet != s.CurrentBet || !p.Acted {
			return false
		}
	}
	if s.Phase == Preflop && s.CurrentBet == s.BigBlind {
		for _, p := range s.canStillAct() {
			if p.IsBigBlind && !p.Acted {
				return false
			}
		}
	}
	return true
}

// endHandByFold settles a hand won without a showdown. All outstanding bets,
// including the final actor's, are swept into the pot and handed to the sole
// remaining player.
func (s *State) endHandByFold(winner *Player) {
	for _, p := range s.Players {
		s.Pot += p.CurrentBet
		p.CurrentBet = 0
	}
	winner.Chips += s.Pot
	s.Pot = 0
	s.CurrentBet = 0
	s.CurrentPlayerID = ""
	s.Winners = []string{winner.ID}
	s.Phase = Showdown
}

// advancePhase closes the betting round: bets are swept into the pot and the
// hand moves to the next phase. When fewer than two players can still act
// there is no more betting to be had, so the remaining community cards are
// dealt in one step and the hand goes straight to showdown.
//
// The deal happens before any bets move, so a failed deal leaves the round
// exactly as it was.
func (s *State) advancePhase() error {
	runOut := len(s.canStillAct()) < 2

	toDeal := 0
	switch {
	case runOut:
		toDeal = 5 - len(s.CommunityCards)
	case s.Phase == Preflop:
		toDeal = 3
	case s.Phase == Flop, s.Phase == Turn:
		toDeal = 1
	}
	if err := s.dealCommunity(toDeal); err != nil {
		return err
	}

	for _, p := range s.Players {
		s.Pot += p.CurrentBet
		p.CurrentBet = 0
		p.Acted = false
	}
	s.CurrentBet = 0
	s.CurrentPlayerID = ""

	if runOut {
		return s.settleShowdown()
	}

	switch s.Phase {
	case Preflop:
		s.Phase = Flop
	case Flop:
		s.Phase = Turn
	case Turn:
		s.Phase = River
	case River:
		return s.settleShowdown()
	}

	if next := s.nextActorAfter(s.DealerSeat); next != nil {
		s.CurrentPlayerID = next.ID
	}
	return nil
}

func (s *State) dealCommunity(n int) error {
	if n <= 0 {
		return nil
	}
	cards, err := s.Deck.Deal(n)
	if err != nil {
		return err
	}
	s.CommunityCards = append(s.CommunityCards, cards...)
	return nil
}
