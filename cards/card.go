package cards

import (
	"fmt"
	"strings"
)

// CardFromString creates a card from its two-character shorthand
// e.g., "Ah" -> Card{Rank: Ace, Suit: Hearts}, "Tc" -> Card{Rank: Ten, Suit: Clubs}
func CardFromString(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %q", s)
	}

	var rank Rank
	switch s[0] {
	case 'A', 'a':
		rank = Ace
	case 'K', 'k':
		rank = King
	case 'Q', 'q':
		rank = Queen
	case 'J', 'j':
		rank = Jack
	case 'T', 't':
		rank = Ten
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(s[0] - '0')
	default:
		return Card{}, fmt.Errorf("invalid card rank: %q", s[:1])
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid card suit: %q", s[1:])
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse is CardFromString for fixtures; it panics on bad input.
func MustParse(shorthand ...string) Cards {
	out := make(Cards, 0, len(shorthand))
	for _, s := range shorthand {
		c, err := CardFromString(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// Suit represents a card suit
type Suit byte

const (
	Clubs    Suit = 'c'
	Diamonds Suit = 'd'
	Hearts   Suit = 'h'
	Spades   Suit = 's'
)

var AllSuits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Rank represents a card rank, deuce (2) to ace (14)
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankChars = "23456789TJQKA"

// Char returns the single-character rank symbol
func (r Rank) Char() byte {
	if r < Two || r > Ace {
		return '?'
	}
	return rankChars[r-Two]
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// String returns the shorthand of a card, e.g. "Ah"
func (c Card) String() string {
	return string([]byte{c.Rank.Char(), byte(c.Suit)})
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}

// Cards is an ordered list of cards
type Cards []Card

// Join renders the cards' shorthands separated by sep
func (cs Cards) Join(sep string) string {
	var b strings.Builder
	for i, c := range cs {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// String returns the cards separated by a space
func (cs Cards) String() string {
	return cs.Join(" ")
}
