package server

import (
	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/game"
)

// CardView is the wire representation of a card.
type CardView struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// PlayerView is a player as seen by one particular viewer. HoleCards is only
// populated for the viewer's own seat, except at showdown where every live
// hand is revealed.
type PlayerView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Chips         int        `json:"chips"`
	SeatPosition  int        `json:"seatPosition"`
	CurrentBet    int        `json:"currentBet"`
	Active        bool       `json:"active"`
	Folded        bool       `json:"folded"`
	AllIn         bool       `json:"allIn"`
	IsDealer      bool       `json:"isDealer"`
	IsSmallBlind  bool       `json:"isSmallBlind"`
	IsBigBlind    bool       `json:"isBigBlind"`
	IsCurrentTurn bool       `json:"isCurrentTurn"`
	HoleCards     []CardView `json:"holeCards,omitempty"`
}

// StateView is the replicated table state tailored to one viewer.
type StateView struct {
	TableID         string       `json:"tableId"`
	HandNum         int          `json:"handNum"`
	Phase           string       `json:"phase"`
	CommunityCards  []CardView   `json:"communityCards"`
	Pot             int          `json:"pot"`
	CurrentBet      int          `json:"currentBet"`
	DealerSeat      int          `json:"dealerSeat"`
	CurrentPlayerID string       `json:"currentPlayerId,omitempty"`
	SmallBlind      int          `json:"smallBlind"`
	BigBlind        int          `json:"bigBlind"`
	Winners         []string     `json:"winners,omitempty"`
	Players         []PlayerView `json:"players"`
}

// NewStateView builds the viewer-specific projection of a state snapshot.
func NewStateView(s *game.State, viewerID string) StateView {
	view := StateView{
		TableID:         s.TableID,
		HandNum:         s.HandNum,
		Phase:           s.Phase.String(),
		CommunityCards:  cardViews(s.CommunityCards),
		Pot:             s.Pot,
		CurrentBet:      s.CurrentBet,
		DealerSeat:      s.DealerSeat,
		CurrentPlayerID: s.CurrentPlayerID,
		SmallBlind:      s.SmallBlind,
		BigBlind:        s.BigBlind,
		Winners:         s.Winners,
		Players:         make([]PlayerView, 0, len(s.Players)),
	}

	for _, p := range s.Players {
		pv := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Chips:         p.Chips,
			SeatPosition:  p.SeatPosition,
			CurrentBet:    p.CurrentBet,
			Active:        p.Active,
			Folded:        p.Folded,
			AllIn:         p.AllIn,
			IsDealer:      p.IsDealer,
			IsSmallBlind:  p.IsSmallBlind,
			IsBigBlind:    p.IsBigBlind,
			IsCurrentTurn: p.ID == s.CurrentPlayerID,
		}
		if p.ID == viewerID || (s.Phase == game.Showdown && !p.Folded) {
			pv.HoleCards = cardViews(p.HoleCards)
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

func cardViews(cards []deck.Card) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = CardView{Suit: c.Suit.Name(), Rank: c.Rank.String()}
	}
	return out
}
