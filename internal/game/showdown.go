package game

import (
	"github.com/thoas/go-funk"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/evaluator"
)

// DetermineWinners returns the ids of every player holding the best hand.
// Folded players and players without exactly two hole cards are excluded.
// With a single contender left the answer needs no evaluation at all, which
// also keeps fold-to-one wins from revealing cards.
func DetermineWinners(players []*Player, community []deck.Card) ([]string, error) {
	var contenders []*Player
	for _, p := range players {
		if !p.Folded && len(p.HoleCards) == 2 {
			contenders = append(contenders, p)
		}
	}
	if len(contenders) == 0 {
		return nil, nil
	}
	if len(contenders) == 1 {
		return []string{contenders[0].ID}, nil
	}

	var winners []string
	var best evaluator.Result
	for _, p := range contenders {
		cards := make([]deck.Card, 0, len(p.HoleCards)+len(community))
		cards = append(cards, p.HoleCards...)
		cards = append(cards, community...)
		result, err := evaluator.Evaluate(cards)
		if err != nil {
			return nil, err
		}
		switch cmp := evaluator.Compare(result, best); {
		case best.Category == 0 || cmp > 0:
			best = result
			winners = []string{p.ID}
		case cmp == 0:
			winners = append(winners, p.ID)
		}
	}
	return winners, nil
}

// settleShowdown compares the remaining hands and pays out the pot. Ties
// split the pot by integer division; a remainder from a non-divisible split
// is an accepted rounding loss, not paid to anyone.
func (s *State) settleShowdown() error {
	s.Phase = Showdown

	winners, err := DetermineWinners(s.Players, s.CommunityCards)
	if err != nil {
		return err
	}
	s.Winners = winners

	if len(winners) > 0 {
		share := s.Pot / len(winners)
		for _, p := range s.Players {
			if funk.ContainsString(winners, p.ID) {
				p.Chips += share
			}
		}
	}

	s.Pot = 0
	s.CurrentBet = 0
	s.CurrentPlayerID = ""
	return nil
}
