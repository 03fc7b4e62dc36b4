package hands

import (
	"testing"

	"github.com/lazharichir/nutsrv/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hole(a, b string) [2]cards.Card {
	cs := cards.MustParse(a, b)
	return [2]cards.Card{cs[0], cs[1]}
}

func TestEvaluate(t *testing.T) {
	ev := NewPokerEvaluator()
	board := cards.MustParse("Ah", "Kh", "Qh", "7c", "2d")

	t.Run("royal flush beats a pair", func(t *testing.T) {
		royal, err := ev.Evaluate(1, hole("Jh", "Th"), board)
		require.NoError(t, err)
		pair, err := ev.Evaluate(2, hole("7d", "3s"), board)
		require.NoError(t, err)

		assert.Greater(t, royal.Score, pair.Score)
		assert.Equal(t, 1, royal.ID)
		assert.NotEmpty(t, royal.Description)
	})

	t.Run("pair beats high card", func(t *testing.T) {
		pair, err := ev.Evaluate(1, hole("2c", "4s"), board)
		require.NoError(t, err)
		high, err := ev.Evaluate(2, hole("9s", "4d"), board)
		require.NoError(t, err)
		assert.Greater(t, pair.Score, high.Score)
	})

	t.Run("flop only", func(t *testing.T) {
		s, err := ev.Evaluate(1, hole("Ac", "Ad"), board[:3])
		require.NoError(t, err)
		assert.NotZero(t, s.Score)
	})

	t.Run("turn uses best five of six", func(t *testing.T) {
		trips, err := ev.Evaluate(1, hole("Ac", "Ad"), board[:4])
		require.NoError(t, err)
		pair, err := ev.Evaluate(2, hole("7d", "3s"), board[:4])
		require.NoError(t, err)
		assert.Greater(t, trips.Score, pair.Score)
	})

	t.Run("too few cards", func(t *testing.T) {
		_, err := ev.Evaluate(1, hole("Ac", "Ad"), board[:1])
		assert.ErrorIs(t, err, ErrNotEnoughCards)
	})
}

func TestRankTieGroups(t *testing.T) {
	ev := NewPokerEvaluator()
	board := cards.MustParse("Ah", "Kd", "Qc", "Js", "Th")

	a, err := ev.Evaluate(10, hole("2c", "3d"), board)
	require.NoError(t, err)
	b, err := ev.Evaluate(20, hole("4h", "5s"), board)
	require.NoError(t, err)
	assert.Equal(t, a.Score, b.Score, "both play the board straight")

	groups := RankTieGroups([]Strength{a, b})
	assert.Equal(t, [][]int{{10, 20}}, groups)

	groups = RankTieGroups([]Strength{
		{ID: 1, Score: 10},
		{ID: 2, Score: 30},
		{ID: 3, Score: 10},
		{ID: 4, Score: 20},
	})
	assert.Equal(t, [][]int{{2}, {4}, {1, 3}}, groups)

	assert.Nil(t, RankTieGroups(nil))
}
