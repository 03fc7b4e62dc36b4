package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game with this id already exists")
)

// Registry is the process-wide set of games and tracks which game each client joined
type Registry struct {
	games      map[int]*GameController
	membership map[int]int
	logger     logrus.FieldLogger

	eventHandlers []events.EventHandler
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		games:      make(map[int]*GameController),
		membership: make(map[int]int),
		logger:     logger,
	}
}

// Add puts a game under the registry and forwards its events
func (r *Registry) Add(g *GameController) error {
	if g == nil {
		return errors.New("game is nil")
	}
	if _, exists := r.games[g.ID()]; exists {
		return fmt.Errorf("%w: %d", ErrGameExists, g.ID())
	}

	g.AddEventHandler(r.handleGameEvent)
	r.games[g.ID()] = g
	return nil
}

// Get retrieves a game by id
func (r *Registry) Get(id int) (*GameController, error) {
	g, exists := r.games[id]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	return g, nil
}

// Games returns all games ordered by id
func (r *Registry) Games() []*GameController {
	games := make([]*GameController, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].ID() < games[j].ID()
	})
	return games
}

// GameOf returns the game the client registered to, if any
func (r *Registry) GameOf(clientID int) (*GameController, bool) {
	gid, ok := r.membership[clientID]
	if !ok {
		return nil, false
	}
	g, ok := r.games[gid]
	return g, ok
}

// Register joins the client to a game, leaving the one it was in before
func (r *Registry) Register(clientID int, gameID int) error {
	g, err := r.Get(gameID)
	if err != nil {
		return err
	}

	if prev, ok := r.GameOf(clientID); ok && prev.IsPlayer(clientID) {
		if prev == g {
			return nil
		}
		if err := prev.RemovePlayer(clientID); err != nil {
			return fmt.Errorf("leaving game %d: %w", prev.ID(), err)
		}
		delete(r.membership, clientID)
	}

	if err := g.AddPlayer(clientID); err != nil {
		return err
	}
	r.membership[clientID] = gameID
	return nil
}

// ClientDisconnected tells the client's game that its connection is gone
func (r *Registry) ClientDisconnected(clientID int) {
	g, ok := r.GameOf(clientID)
	if !ok {
		return
	}
	g.PlayerDisconnected(clientID)
	if !g.Started() {
		delete(r.membership, clientID)
	}
}

// Recipients returns the clients that receive game-wide messages
func (r *Registry) Recipients(gameID int) []int {
	g, ok := r.games[gameID]
	if !ok {
		return nil
	}
	return g.PlayerList()
}

// Tick advances every game once, in id order
func (r *Registry) Tick() {
	for _, g := range r.Games() {
		if err := g.Tick(); err != nil {
			r.logger.WithError(err).WithField("game", g.ID()).Error("game tick failed")
		}
	}
}

func (r *Registry) handleGameEvent(event events.Event) {
	r.emitEvent(event)

	switch ev := event.(type) {
	case events.PlayerBroke:
		delete(r.membership, ev.PlayerID)
	case events.GameEnded:
		for cid, gid := range r.membership {
			if gid == ev.GameID {
				delete(r.membership, cid)
			}
		}
	}
}

// AddEventHandler adds an event handler to the registry
func (r *Registry) AddEventHandler(handler events.EventHandler) {
	r.eventHandlers = append(r.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (r *Registry) emitEvent(event events.Event) {
	for _, handler := range r.eventHandlers {
		handler(event)
	}
}
