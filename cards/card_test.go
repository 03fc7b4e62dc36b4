package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		{"Ace of hearts", "Ah", Card{Rank: Ace, Suit: Hearts}, false},
		{"Ace of hearts uppercase suit", "AH", Card{Rank: Ace, Suit: Hearts}, false},
		{"Ten of clubs", "Tc", Card{Rank: Ten, Suit: Clubs}, false},
		{"Lowercase ten", "td", Card{Rank: Ten, Suit: Diamonds}, false},
		{"Deuce of spades", "2s", Card{Rank: Two, Suit: Spades}, false},
		{"Nine of diamonds", "9d", Card{Rank: Nine, Suit: Diamonds}, false},
		{"King of clubs", "Kc", Card{Rank: King, Suit: Clubs}, false},

		{"Empty input", "", Card{}, true},
		{"Too short input", "A", Card{}, true},
		{"Long ten form", "10h", Card{}, true},
		{"Invalid suit", "Ax", Card{}, true},
		{"Invalid rank", "1h", Card{}, true},
		{"Reverse order", "hA", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err, "CardFromString(%q) should return an error", tt.input)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCardString(t *testing.T) {
	for _, s := range []string{"Ah", "Tc", "2s", "Qd", "9h"} {
		c, err := CardFromString(s)
		require.NoError(t, err)
		require.Equal(t, s, c.String())
	}
}

func TestCardsJoin(t *testing.T) {
	cs := MustParse("Ah", "Kd", "2c")
	require.Equal(t, "Ah:Kd:2c", cs.Join(":"))
	require.Equal(t, "Ah Kd 2c", cs.String())
	require.Equal(t, "", Cards{}.Join(":"))
}
