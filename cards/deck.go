package cards

import (
	"errors"
	"math/rand"
	"time"
)

var ErrEmptyDeck = errors.New("deck is empty")

// Deck is a stack of cards; the top card is the last element
type Deck struct {
	cards Cards
	rng   *rand.Rand
}

// NewDeck creates an empty deck shuffled by a time-seeded source
func NewDeck() *Deck {
	return NewDeckWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewDeckWithRand creates an empty deck using the given random source
func NewDeckWithRand(rng *rand.Rand) *Deck {
	return &Deck{rng: rng}
}

// Fill resets the deck to the standard 52 cards
func (d *Deck) Fill() {
	d.cards = d.cards[:0]
	for _, suit := range AllSuits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
}

// Shuffle randomly permutes the remaining cards
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Pop removes and returns the top card
func (d *Deck) Pop() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Push puts a card on top of the deck
func (d *Deck) Push(c Card) {
	d.cards = append(d.cards, c)
}

// Count returns the number of remaining cards
func (d *Deck) Count() int {
	return len(d.cards)
}

// Empty removes all cards
func (d *Deck) Empty() {
	d.cards = d.cards[:0]
}
