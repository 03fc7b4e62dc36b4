package events

import "time"

type EventHandler func(event Event)

type Event interface {
	Name() string
}

// Everyone addresses an event to every player registered in the game.
const Everyone = -1

// NoTable marks game-level events that do not belong to a table.
const NoTable = -1

type SnapshotKind int

const (
	SnapGameState SnapshotKind = 0
	SnapTable     SnapshotKind = 1
)

// Chat is a game or table message, either broadcast or private to one player
type Chat struct {
	GameID  int
	TableID int
	To      int
	Text    string
	At      time.Time
}

func (e Chat) Name() string { return "CHAT" }

// Snapshot carries the serialized state of a table, or the game start/end marker
type Snapshot struct {
	GameID  int
	TableID int
	Kind    SnapshotKind
	To      int
	Payload string
	At      time.Time
}

func (e Snapshot) Name() string { return "SNAPSHOT" }

type GameStarted struct {
	GameID  int
	Players []int
	At      time.Time
}

func (e GameStarted) Name() string { return "GAME_STARTED" }

type GameEnded struct {
	GameID int
	Winner int
	At     time.Time
}

func (e GameEnded) Name() string { return "GAME_ENDED" }

type HandStarted struct {
	GameID  int
	TableID int
	HandID  string
	Dealer  int
	Players []int
	At      time.Time
}

func (e HandStarted) Name() string { return "HAND_STARTED" }

type PlayerActed struct {
	GameID   int
	TableID  int
	HandID   string
	PlayerID int
	Action   string
	Amount   int
	Auto     bool
	At       time.Time
}

func (e PlayerActed) Name() string { return "PLAYER_ACTED" }

// HandEnded reports the chips each player received from the pots
type HandEnded struct {
	GameID   int
	TableID  int
	HandID   string
	Showdown bool
	Payouts  map[int]int
	At       time.Time
}

func (e HandEnded) Name() string { return "HAND_ENDED" }

type PlayerBroke struct {
	GameID   int
	TableID  int
	PlayerID int
	At       time.Time
}

func (e PlayerBroke) Name() string { return "PLAYER_BROKE" }
