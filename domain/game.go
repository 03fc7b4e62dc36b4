package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/lazharichir/nutsrv/cards"
	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/lazharichir/nutsrv/domain/hands"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameStarted       = errors.New("game already started")
	ErrGameFull          = errors.New("game is full")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadyRegistered = errors.New("player already registered")
	ErrInvalidPlayerMax  = errors.New("invalid player maximum")
)

const (
	MaxPlayers        = 10
	DefaultStartStake = 1500
)

// GameType identifies the kind of game; only sit'n'go exists
type GameType int

const GameTypeSNG GameType = 0

// GameConfig holds the settings for every table a controller creates
type GameConfig struct {
	MaxPlayers int
	StartStake int
	Blind      int
	Timeout    time.Duration

	NewDeck   func() *cards.Deck
	Evaluator hands.Evaluator
	Clock     func() time.Time
	Logger    logrus.FieldLogger
}

// GameController owns the roster of one game and drives its table
type GameController struct {
	id         int
	gameType   GameType
	started    bool
	maxPlayers int
	players    []*Player
	tables     []*Table
	cfg        GameConfig
	logger     logrus.FieldLogger

	eventHandlers []events.EventHandler
}

func NewGameController(id int, cfg GameConfig) *GameController {
	if cfg.MaxPlayers < 2 || cfg.MaxPlayers > MaxPlayers {
		cfg.MaxPlayers = MaxPlayers
	}
	if cfg.StartStake <= 0 {
		cfg.StartStake = DefaultStartStake
	}
	if cfg.Blind <= 0 {
		cfg.Blind = DefaultBlind
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultActionTimeout
	}
	if cfg.NewDeck == nil {
		cfg.NewDeck = cards.NewDeck
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = hands.NewPokerEvaluator()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &GameController{
		id:         id,
		gameType:   GameTypeSNG,
		maxPlayers: cfg.MaxPlayers,
		cfg:        cfg,
		logger:     cfg.Logger.WithField("game", id),
	}
}

func (g *GameController) ID() int { return g.id }
func (g *GameController) Type() GameType { return g.gameType }
func (g *GameController) Started() bool { return g.started }
func (g *GameController) MaxPlayers() int { return g.maxPlayers }
func (g *GameController) PlayerCount() int { return len(g.players) }
func (g *GameController) Tables() []*Table { return g.tables }

// PlayerList returns the client ids of the roster in join order
func (g *GameController) PlayerList() []int {
	ids := make([]int, 0, len(g.players))
	for _, p := range g.players {
		ids = append(ids, p.ClientID)
	}
	return ids
}

func (g *GameController) findPlayer(clientID int) *Player {
	for _, p := range g.players {
		if p.ClientID == clientID {
			return p
		}
	}
	return nil
}

// IsPlayer reports whether the client is on the roster
func (g *GameController) IsPlayer(clientID int) bool {
	return g.findPlayer(clientID) != nil
}

// AddPlayer adds a client to the roster with the starting stake
func (g *GameController) AddPlayer(clientID int) error {
	if g.started {
		return ErrGameStarted
	}
	if len(g.players) >= g.maxPlayers {
		return ErrGameFull
	}
	if g.findPlayer(clientID) != nil {
		return ErrAlreadyRegistered
	}

	g.players = append(g.players, NewPlayer(clientID, g.cfg.StartStake))
	g.logger.WithField("player", clientID).Debug("player joined")
	return nil
}

// RemovePlayer takes a client off the roster before the game starts
func (g *GameController) RemovePlayer(clientID int) error {
	if g.started {
		return ErrGameStarted
	}
	for i, p := range g.players {
		if p.ClientID == clientID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// SetPlayerAction records the player's next move; the table validates it on their turn
func (g *GameController) SetPlayerAction(clientID int, kind ActionKind, amount int) error {
	p := g.findPlayer(clientID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.SetAction(kind, amount)
	return nil
}

func (g *GameController) SetPlayerMax(n int) error {
	if n < 2 || n > MaxPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayerMax, n)
	}
	if g.started {
		return ErrGameStarted
	}
	g.maxPlayers = n
	return nil
}

// PlayerDisconnected removes the client before the start; afterwards the
// player stays seated and every turn of theirs is resolved automatically.
func (g *GameController) PlayerDisconnected(clientID int) {
	p := g.findPlayer(clientID)
	if p == nil {
		return
	}
	if !g.started {
		_ = g.RemovePlayer(clientID)
		return
	}
	p.MarkDisconnected()
	g.logger.WithField("player", clientID).Info("player disconnected mid-game")
}

// Tick starts the game once the roster is full, then steps every table once
func (g *GameController) Tick() error {
	if !g.started {
		if len(g.players) == g.maxPlayers {
			g.start()
		}
		return nil
	}

	var errs []error
	for _, t := range g.tables {
		finished, err := t.Step()
		if err != nil {
			errs = append(errs, fmt.Errorf("table %d: %w", t.ID, err))
			continue
		}
		if finished {
			g.end(t)
			break
		}
	}

	return errors.Join(errs...)
}

func (g *GameController) start() {
	g.started = true

	t := NewTable(g.id, len(g.tables), g.players, TableConfig{
		Blind:     g.cfg.Blind,
		Timeout:   g.cfg.Timeout,
		Deck:      g.cfg.NewDeck(),
		Evaluator: g.cfg.Evaluator,
		Clock:     g.cfg.Clock,
		Logger:    g.cfg.Logger,
	})
	t.RegisterEventHandler(g.handleTableEvent)
	g.tables = append(g.tables, t)

	g.logger.WithField("players", g.PlayerList()).Info("game started")

	g.emitEvent(events.GameStarted{GameID: g.id, Players: g.PlayerList(), At: g.cfg.Clock()})
	g.snap("start")
}

func (g *GameController) end(t *Table) {
	winner := -1
	if len(t.Seats) == 1 {
		p := t.Seats[0].Player
		winner = p.ClientID
		g.emitEvent(events.Chat{GameID: g.id, TableID: t.ID, To: p.ClientID, Text: "You won!", At: g.cfg.Clock()})
	}

	g.logger.WithField("winner", winner).Info("game ended")

	g.emitEvent(events.GameEnded{GameID: g.id, Winner: winner, At: g.cfg.Clock()})
	g.snap("end")

	g.reset()
}

// reset clears the roster so the game can be played again
func (g *GameController) reset() {
	g.started = false
	g.players = nil
	g.tables = nil
}

func (g *GameController) snap(payload string) {
	g.emitEvent(events.Snapshot{
		GameID:  g.id,
		TableID: events.NoTable,
		Kind:    events.SnapGameState,
		To:      events.Everyone,
		Payload: payload,
		At:      g.cfg.Clock(),
	})
}

func (g *GameController) handleTableEvent(event events.Event) {
	g.emitEvent(event)

	switch ev := event.(type) {
	case events.PlayerBroke:
		for i, p := range g.players {
			if p.ClientID == ev.PlayerID {
				g.players = append(g.players[:i], g.players[i+1:]...)
				break
			}
		}
	}
}

// AddEventHandler adds an event handler to the game
func (g *GameController) AddEventHandler(handler events.EventHandler) {
	g.eventHandlers = append(g.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (g *GameController) emitEvent(event events.Event) {
	for _, handler := range g.eventHandlers {
		handler(event)
	}
}
