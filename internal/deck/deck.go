package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrInsufficientCards is returned when a deal asks for more cards than the
// deck holds. With a 52-card deck, nine players and five community cards this
// is unreachable in normal play, but it is reported rather than panicking.
var ErrInsufficientCards = errors.New("insufficient cards in deck")

// Deck is an ordered sequence of unique cards, depleted by dealing. A deck is
// never replenished mid-hand; start a fresh one per hand with New.
type Deck struct {
	cards []Card
}

// New creates a standard 52-card deck shuffled uniformly with the provided
// random source. The source is injectable so tests can fix the order.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Deal removes and returns the top n cards from the deck.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("deal %d with %d remaining: %w", n, len(d.cards), ErrInsufficientCards)
	}
	dealt := d.cards[:n:n]
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
