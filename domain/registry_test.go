package domain

import (
	"testing"

	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, maxPlayers ...int) *Registry {
	r := NewRegistry(quietLogger())
	for i, n := range maxPlayers {
		require.NoError(t, r.Add(NewGameController(i, GameConfig{MaxPlayers: n, Logger: quietLogger()})))
	}
	return r
}

func TestRegistryAddGet(t *testing.T) {
	r := newTestRegistry(t, 3, 2)

	g, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, g.ID())

	_, err = r.Get(7)
	assert.ErrorIs(t, err, ErrGameNotFound)

	err = r.Add(NewGameController(1, GameConfig{}))
	assert.ErrorIs(t, err, ErrGameExists)

	games := r.Games()
	require.Len(t, games, 2)
	assert.Equal(t, 0, games[0].ID())
	assert.Equal(t, 1, games[1].ID())
}

func TestRegistryRegister(t *testing.T) {
	r := newTestRegistry(t, 3, 3)

	require.NoError(t, r.Register(5, 0))
	g0, _ := r.Get(0)
	g1, _ := r.Get(1)
	assert.Equal(t, []int{5}, g0.PlayerList())

	require.NoError(t, r.Register(5, 0), "registering twice is a no-op")
	assert.Equal(t, []int{5}, g0.PlayerList())

	require.NoError(t, r.Register(5, 1))
	assert.Empty(t, g0.PlayerList(), "leaves the previous game")
	assert.Equal(t, []int{5}, g1.PlayerList())

	g, ok := r.GameOf(5)
	require.True(t, ok)
	assert.Equal(t, 1, g.ID())

	assert.ErrorIs(t, r.Register(5, 9), ErrGameNotFound)
}

func TestRegistryRegisterFullGame(t *testing.T) {
	r := newTestRegistry(t, 2)
	require.NoError(t, r.Register(1, 0))
	require.NoError(t, r.Register(2, 0))
	assert.ErrorIs(t, r.Register(3, 0), ErrGameFull)

	_, ok := r.GameOf(3)
	assert.False(t, ok)
}

func TestRegistryRunningGame(t *testing.T) {
	r := newTestRegistry(t, 2, 2)
	rec := &recorder{}
	r.AddEventHandler(rec.handle)

	require.NoError(t, r.Register(1, 0))
	require.NoError(t, r.Register(2, 0))
	r.Tick()

	g0, _ := r.Get(0)
	require.True(t, g0.Started())
	assert.Equal(t, []int{1, 2}, r.Recipients(0))

	var started bool
	for _, e := range rec.events {
		if _, ok := e.(events.GameStarted); ok {
			started = true
		}
	}
	assert.True(t, started, "game events reach registry handlers")

	err := r.Register(1, 1)
	assert.ErrorIs(t, err, ErrGameStarted, "cannot leave a running game")

	r.ClientDisconnected(1)
	_, ok := r.GameOf(1)
	assert.True(t, ok, "membership is kept while the game runs")
}

func TestRegistryClientDisconnected(t *testing.T) {
	r := newTestRegistry(t, 3)
	require.NoError(t, r.Register(1, 0))

	r.ClientDisconnected(1)

	_, ok := r.GameOf(1)
	assert.False(t, ok)
	g, _ := r.Get(0)
	assert.Empty(t, g.PlayerList())

	r.ClientDisconnected(42)
}

func TestRegistryGameEndedClearsMembership(t *testing.T) {
	r := newTestRegistry(t, 2)
	require.NoError(t, r.Register(1, 0))
	require.NoError(t, r.Register(2, 0))

	r.handleGameEvent(events.GameEnded{GameID: 0, Winner: 1})

	_, ok := r.GameOf(1)
	assert.False(t, ok)
	_, ok = r.GameOf(2)
	assert.False(t, ok)
}
