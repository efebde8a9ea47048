// Package evaluator ranks poker hands. Given five to seven cards it finds the
// best five-card hand and defines a total order over hand strengths, used by
// the game engine to settle showdowns.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/cardroomlabs/holdem/internal/deck"
)

// Category is a hand category. Higher values beat lower values regardless of
// the cards involved: any flush beats any straight, and so on.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Result is the strength of an evaluated hand. Two results compare first by
// Category, then lexicographically by TieBreak (higher rank value wins at the
// first differing position; equal lists are a tie). Cards holds the winning
// five cards sorted rank-descending.
type Result struct {
	Category Category
	TieBreak []int
	Cards    []deck.Card
}

// Evaluate determines the best five-card hand from 5 to 7 cards. For more
// than five cards every five-card subset is evaluated and the maximum kept.
func Evaluate(cards []deck.Card) (Result, error) {
	n := len(cards)
	if n < 5 || n > 7 {
		return Result{}, fmt.Errorf("evaluate requires 5-7 cards, got %d", n)
	}
	if n == 5 {
		return evaluate5(cards), nil
	}

	var best Result
	combo := make([]deck.Card, 5)
	forEachCombination(n, 5, func(idx []int) {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		r := evaluate5(combo)
		if best.Category == 0 || Compare(r, best) > 0 {
			best = r
		}
	})
	return best, nil
}

// Compare orders two results: 1 if a wins, -1 if b wins, 0 on a tie.
func Compare(a, b Result) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	return CompareHighCards(a.TieBreak, b.TieBreak)
}

// CompareHighCards lexicographically compares two rank lists. It is used both
// for tie-breaking inside evaluation and for picking showdown winners.
func CompareHighCards(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// forEachCombination calls fn with every k-sized index combination of [0,n).
// The slice passed to fn is reused between calls.
func forEachCombination(n, k int, fn func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		// Advance to the next combination in lexicographic order.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// evaluate5 categorizes exactly five cards.
func evaluate5(cards []deck.Card) Result {
	sorted := make([]deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	ranks := make([]int, 5)
	for i, c := range sorted {
		ranks[i] = c.Value()
	}

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straight := isStraight(ranks)
	wheel := isWheel(ranks)

	counts := rankCounts(ranks)

	switch {
	case flush && straight && ranks[0] == int(deck.Ace):
		return Result{Category: RoyalFlush, TieBreak: ranks, Cards: sorted}

	case flush && (straight || wheel):
		return Result{Category: StraightFlush, TieBreak: straightTieBreak(ranks, wheel), Cards: sorted}

	case counts[0].n == 4:
		kicker := 0
		for _, r := range ranks {
			if r != counts[0].rank {
				kicker = r
				break
			}
		}
		return Result{Category: FourOfAKind, TieBreak: []int{counts[0].rank, kicker}, Cards: sorted}

	case counts[0].n == 3 && counts[1].n == 2:
		return Result{Category: FullHouse, TieBreak: []int{counts[0].rank, counts[1].rank}, Cards: sorted}

	case flush:
		return Result{Category: Flush, TieBreak: ranks, Cards: sorted}

	case straight || wheel:
		return Result{Category: Straight, TieBreak: straightTieBreak(ranks, wheel), Cards: sorted}

	case counts[0].n == 3:
		tb := []int{counts[0].rank}
		for _, r := range ranks {
			if r != counts[0].rank {
				tb = append(tb, r)
			}
		}
		return Result{Category: ThreeOfAKind, TieBreak: tb, Cards: sorted}

	case counts[0].n == 2 && counts[1].n == 2:
		high, low := counts[0].rank, counts[1].rank
		if low > high {
			high, low = low, high
		}
		kicker := 0
		for _, r := range ranks {
			if r != high && r != low {
				kicker = r
				break
			}
		}
		return Result{Category: TwoPair, TieBreak: []int{high, low, kicker}, Cards: sorted}

	case counts[0].n == 2:
		tb := []int{counts[0].rank}
		for _, r := range ranks {
			if r != counts[0].rank {
				tb = append(tb, r)
			}
		}
		return Result{Category: OnePair, TieBreak: tb, Cards: sorted}

	default:
		return Result{Category: HighCard, TieBreak: ranks, Cards: sorted}
	}
}

// isStraight reports whether rank-descending ranks form a consecutive run.
func isStraight(ranks []int) bool {
	for i := 0; i < len(ranks)-1; i++ {
		if ranks[i]-ranks[i+1] != 1 {
			return false
		}
	}
	return true
}

// isWheel reports the A-2-3-4-5 special case, which ranks as a 5-high
// straight with the ace counting as 1.
func isWheel(ranks []int) bool {
	return ranks[0] == int(deck.Ace) &&
		ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2
}

// straightTieBreak returns the tie-break list for a straight, demoting the
// ace to 1 for the wheel.
func straightTieBreak(ranks []int, wheel bool) []int {
	if wheel {
		return []int{5, 4, 3, 2, 1}
	}
	return ranks
}

type rankCount struct {
	rank int
	n    int
}

// rankCounts groups ranks by multiplicity, ordered by count descending then
// rank descending, so counts[0] is always the dominant group.
func rankCounts(ranks []int) []rankCount {
	byRank := make(map[int]int, 5)
	for _, r := range ranks {
		byRank[r]++
	}
	counts := make([]rankCount, 0, len(byRank))
	for r, n := range byRank {
		counts = append(counts, rankCount{rank: r, n: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].rank > counts[j].rank
	})
	return counts
}
