package domain

import (
	"fmt"
	"time"

	"github.com/lazharichir/nutsrv/cards"
	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/lazharichir/nutsrv/domain/hands"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBlind         = 10
	DefaultActionTimeout = 60 * time.Second
)

// TableState is a step of the hand cycle
type TableState int

const (
	StateElectDealer TableState = iota
	StateNewRound
	StateBlinds
	StateBetting
	StateAllFolded
	StateShowdown
	StateEndRound
)

func (s TableState) String() string {
	switch s {
	case StateElectDealer:
		return "elect_dealer"
	case StateNewRound:
		return "new_round"
	case StateBlinds:
		return "blinds"
	case StateBetting:
		return "betting"
	case StateAllFolded:
		return "all_folded"
	case StateShowdown:
		return "showdown"
	case StateEndRound:
		return "end_round"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// BettingRound is the current street
type BettingRound int

const (
	RoundPreflop BettingRound = iota
	RoundFlop
	RoundTurn
	RoundRiver
)

func (r BettingRound) String() string {
	switch r {
	case RoundPreflop:
		return "preflop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	}
	return fmt.Sprintf("round(%d)", int(r))
}

// Seat binds a player to a position at the table for the current hand
type Seat struct {
	SeatNo  int
	Player  *Player
	Bet     int
	InRound bool
}

// TableConfig holds the rules and collaborators of a table.
// Zero values fall back to the defaults.
type TableConfig struct {
	Blind     int
	Timeout   time.Duration
	Deck      *cards.Deck
	Evaluator hands.Evaluator
	Clock     func() time.Time
	Logger    logrus.FieldLogger
}

// Table runs the hand cycle for a fixed set of seated players.
// It is not safe for concurrent use; the owning game loop drives it.
type Table struct {
	ID     int
	GameID int
	HandID string

	Seats     []*Seat
	Community cards.Cards
	Deck      *cards.Deck
	Pots      []*Pot

	Dealer  int
	SB      int
	BB      int
	Current int
	LastBet int

	BetAmount    int
	Round        BettingRound
	State        TableState
	NoMoreAction bool

	Blind   int
	Timeout time.Duration

	turnStarted   time.Time
	finished      bool
	clock         func() time.Time
	evaluator     hands.Evaluator
	logger        *logrus.Entry
	stateHandlers map[TableState]func() error
	eventHandlers []events.EventHandler
}

// NewTable seats the players in the given order. Seat 0 deals first.
func NewTable(gameID, tableID int, players []*Player, cfg TableConfig) *Table {
	if cfg.Blind <= 0 {
		cfg.Blind = DefaultBlind
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultActionTimeout
	}
	if cfg.Deck == nil {
		cfg.Deck = cards.NewDeck()
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

	t := &Table{
		ID:        tableID,
		GameID:    gameID,
		Deck:      cfg.Deck,
		Blind:     cfg.Blind,
		Timeout:   cfg.Timeout,
		State:     StateNewRound,
		Dealer:    0,
		Current:   -1,
		LastBet:   -1,
		clock:     cfg.Clock,
		evaluator: cfg.Evaluator,
		logger: cfg.Logger.WithFields(logrus.Fields{
			"game":  gameID,
			"table": tableID,
		}),
	}

	for i, p := range players {
		t.Seats = append(t.Seats, &Seat{SeatNo: i, Player: p})
	}

	t.registerStateHandlers()

	return t
}

func (t *Table) registerStateHandlers() {
	t.stateHandlers = map[TableState]func() error{
		StateElectDealer: t.stateElectDealer,
		StateNewRound:    t.stateNewRound,
		StateBlinds:      t.stateBlinds,
		StateBetting:     t.stateBetting,
		StateAllFolded:   t.stateAllFolded,
		StateShowdown:    t.stateShowdown,
		StateEndRound:    t.stateEndRound,
	}
}

// Step runs the handler of the current state once and reports whether the
// table is finished, i.e. only one seat is left.
func (t *Table) Step() (bool, error) {
	if t.finished {
		return true, nil
	}

	handler, ok := t.stateHandlers[t.State]
	if !ok {
		return false, fmt.Errorf("no handler for table state %s", t.State)
	}

	if err := handler(); err != nil {
		t.logger.WithError(err).WithField("state", t.State.String()).Error("table step failed")
		return false, err
	}

	return t.finished, nil
}

// Finished reports whether a single seat remains
func (t *Table) Finished() bool {
	return t.finished
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (t *Table) RegisterEventHandler(handler events.EventHandler) {
	t.eventHandlers = append(t.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (t *Table) emitEvent(event events.Event) {
	if t.logger.Logger.IsLevelEnabled(logrus.TraceLevel) {
		t.logger.WithField("event", event.Name()).Trace(litter.Sdump(event))
	}

	for _, handler := range t.eventHandlers {
		handler(event)
	}
}

func (t *Table) chat(text string) {
	t.emitEvent(events.Chat{GameID: t.GameID, TableID: t.ID, To: events.Everyone, Text: text, At: t.clock()})
}

func (t *Table) chatTo(p *Player, text string) {
	t.emitEvent(events.Chat{GameID: t.GameID, TableID: t.ID, To: p.ClientID, Text: text, At: t.clock()})
}

func (t *Table) sendSnapshot() {
	t.emitEvent(events.Snapshot{
		GameID:  t.GameID,
		TableID: t.ID,
		Kind:    events.SnapTable,
		To:      events.Everyone,
		Payload: t.SnapshotPayload(),
		At:      t.clock(),
	})
}

// nextSeat returns the seat after pos, wrapping around the ring
func (t *Table) nextSeat(pos int) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	if pos < 0 || pos >= n {
		pos = n - 1
	}
	return (pos + 1) % n
}

// nextInRound returns the next in-round seat after pos, or -1 when none but pos is left
func (t *Table) nextInRound(pos int) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	if pos < 0 || pos >= n {
		pos = n - 1
	}
	for i := 1; i < n; i++ {
		idx := (pos + i) % n
		if t.Seats[idx].InRound {
			return idx
		}
	}
	return -1
}

func (t *Table) countInRound() int {
	count := 0
	for _, s := range t.Seats {
		if s.InRound {
			count++
		}
	}
	return count
}

// allButOneAllin reports whether at most one in-round player still has chips behind
func (t *Table) allButOneAllin() bool {
	inRound, allin := 0, 0
	for _, s := range t.Seats {
		if !s.InRound {
			continue
		}
		inRound++
		if s.Player.Stake() == 0 {
			allin++
		}
	}
	return allin >= inRound-1
}

// SeatOf returns the seat index of the given client, or -1
func (t *Table) SeatOf(clientID int) int {
	for i, s := range t.Seats {
		if s.Player.ClientID == clientID {
			return i
		}
	}
	return -1
}

// ChipsInPlay sums stakes, street bets and pots
func (t *Table) ChipsInPlay() int {
	total := 0
	for _, s := range t.Seats {
		total += s.Player.Stake() + s.Bet
	}
	for _, p := range t.Pots {
		total += p.Amount
	}
	return total
}

// resetTurn starts the action clock for the current seat
func (t *Table) resetTurn() {
	t.turnStarted = t.clock()
}

func (t *Table) dealCards(n int) error {
	for i := 0; i < n; i++ {
		c, err := t.Deck.Pop()
		if err != nil {
			return fmt.Errorf("dealing community card: %w", err)
		}
		t.Community = append(t.Community, c)
	}
	return nil
}
