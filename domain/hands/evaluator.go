package hands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lazharichir/nutsrv/cards"
	"github.com/paulhankin/poker"
)

var ErrNotEnoughCards = errors.New("need at least five cards to evaluate a hand")

// Strength is the comparable value of one player's best five-card hand.
// Higher scores are better hands.
type Strength struct {
	ID          int
	Score       int16
	Description string
}

// Evaluator ranks hands. Tables depend on this so tests can stub outcomes.
type Evaluator interface {
	Evaluate(id int, hole [2]cards.Card, community cards.Cards) (Strength, error)
	RankTieGroups(strengths []Strength) [][]int
}

// PokerEvaluator is the Evaluator backed by github.com/paulhankin/poker
type PokerEvaluator struct{}

func NewPokerEvaluator() PokerEvaluator {
	return PokerEvaluator{}
}

// Evaluate returns the strength of the best five cards out of hole+community
func (PokerEvaluator) Evaluate(id int, hole [2]cards.Card, community cards.Cards) (Strength, error) {
	all := make([]poker.Card, 0, 2+len(community))
	for _, c := range append(cards.Cards{hole[0], hole[1]}, community...) {
		pc, err := toLibrary(c)
		if err != nil {
			return Strength{}, err
		}
		all = append(all, pc)
	}

	var score int16
	switch n := len(all); {
	case n == 7:
		var a7 [7]poker.Card
		copy(a7[:], all)
		score = poker.Eval7(&a7)
	case n == 5:
		var a5 [5]poker.Card
		copy(a5[:], all)
		score = poker.Eval5(&a5)
	case n == 6:
		score = bestOfFiveSubsets(all)
	default:
		return Strength{}, fmt.Errorf("%w: got %d", ErrNotEnoughCards, n)
	}

	desc, err := poker.Describe(all)
	if err != nil {
		desc = ""
	}

	return Strength{ID: id, Score: score, Description: desc}, nil
}

// RankTieGroups orders ids best-to-worst, grouping equal scores together
func (PokerEvaluator) RankTieGroups(strengths []Strength) [][]int {
	return RankTieGroups(strengths)
}

// RankTieGroups orders ids best-to-worst, grouping equal scores together.
// Ids within a group keep their input order.
func RankTieGroups(strengths []Strength) [][]int {
	if len(strengths) == 0 {
		return nil
	}

	sorted := make([]Strength, len(strengths))
	copy(sorted, strengths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	groups := [][]int{{sorted[0].ID}}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score == sorted[i-1].Score {
			last := len(groups) - 1
			groups[last] = append(groups[last], sorted[i].ID)
			continue
		}
		groups = append(groups, []int{sorted[i].ID})
	}
	return groups
}

func toLibrary(c cards.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case cards.Clubs:
		s = poker.Club
	case cards.Diamonds:
		s = poker.Diamond
	case cards.Hearts:
		s = poker.Heart
	case cards.Spades:
		s = poker.Spade
	default:
		return 0, fmt.Errorf("invalid suit in card %s", c)
	}
	// library ranks run 1..13 with the ace low
	r := poker.Rank(c.Rank)
	if c.Rank == cards.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}

func bestOfFiveSubsets(pcs []poker.Card) int16 {
	n := len(pcs)
	best := int16(-32768)
	var five [5]poker.Card
	choose := [5]int{}
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = pcs[choose[i]]
			}
			if score := poker.Eval5(&five); score > best {
				best = score
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best
}
