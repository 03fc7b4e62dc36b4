package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckFill(t *testing.T) {
	deck := NewDeck()
	deck.Fill()
	require.Equal(t, 52, deck.Count())

	seen := make(map[Card]bool)
	for deck.Count() > 0 {
		c, err := deck.Pop()
		require.NoError(t, err)
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)

	// refill after draining
	deck.Fill()
	assert.Equal(t, 52, deck.Count())
}

func TestDeckShuffle(t *testing.T) {
	ordered := NewDeckWithRand(rand.New(rand.NewSource(1)))
	ordered.Fill()
	shuffled := NewDeckWithRand(rand.New(rand.NewSource(1)))
	shuffled.Fill()
	shuffled.Shuffle()

	differences := 0
	for ordered.Count() > 0 {
		a, _ := ordered.Pop()
		b, _ := shuffled.Pop()
		if a != b {
			differences++
		}
	}
	assert.NotZero(t, differences, "shuffle kept the fill order")

	// same seed, same order
	d1 := NewDeckWithRand(rand.New(rand.NewSource(42)))
	d2 := NewDeckWithRand(rand.New(rand.NewSource(42)))
	d1.Fill()
	d2.Fill()
	d1.Shuffle()
	d2.Shuffle()
	for d1.Count() > 0 {
		a, _ := d1.Pop()
		b, _ := d2.Pop()
		require.Equal(t, a, b)
	}
}

func TestDeckPopPush(t *testing.T) {
	deck := NewDeck()

	_, err := deck.Pop()
	assert.ErrorIs(t, err, ErrEmptyDeck)

	ah := Card{Rank: Ace, Suit: Hearts}
	deck.Push(Card{Rank: Two, Suit: Clubs})
	deck.Push(ah)
	assert.Equal(t, 2, deck.Count())

	c, err := deck.Pop()
	require.NoError(t, err)
	assert.Equal(t, ah, c)
	assert.Equal(t, 1, deck.Count())

	deck.Empty()
	assert.Zero(t, deck.Count())
}
