package history

import (
	"sync"
	"time"

	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one finished hand
type Result struct {
	GameID   int         `json:"gameId"`
	TableID  int         `json:"tableId"`
	HandID   string      `json:"handId"`
	Showdown bool        `json:"showdown"`
	Payouts  map[int]int `json:"payouts"`
	At       time.Time   `json:"at"`
}

// Store is the interface for recording and reading hand results.
// Events other than HandEnded are accepted and ignored.
type Store interface {
	Append(event events.Event) error
	Results(gameID int) ([]Result, error)
}

func resultOf(event events.Event) (Result, bool) {
	ev, ok := event.(events.HandEnded)
	if !ok {
		return Result{}, false
	}

	payouts := make(map[int]int, len(ev.Payouts))
	for id, amount := range ev.Payouts {
		payouts[id] = amount
	}

	return Result{
		GameID:   ev.GameID,
		TableID:  ev.TableID,
		HandID:   ev.HandID,
		Showdown: ev.Showdown,
		Payouts:  payouts,
		At:       ev.At,
	}, true
}

// InMemoryStore keeps results per game in memory
type InMemoryStore struct {
	results map[int][]Result
	mutex   sync.RWMutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		results: make(map[int][]Result),
	}
}

// Append records the event if it ends a hand
func (s *InMemoryStore) Append(event events.Event) error {
	r, ok := resultOf(event)
	if !ok {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.results[r.GameID] = append(s.results[r.GameID], r)
	return nil
}

// Results returns the game's hands, oldest first
func (s *InMemoryStore) Results(gameID int) ([]Result, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// Make a copy so callers never share the backing array
	out := make([]Result, len(s.results[gameID]))
	copy(out, s.results[gameID])
	return out, nil
}

// Handler returns an event handler that appends every event to the store.
// Failures are logged; the game carries on without its ledger entry.
func Handler(store Store, logger logrus.FieldLogger) events.EventHandler {
	return func(event events.Event) {
		if err := store.Append(event); err != nil {
			logger.WithError(err).WithField("event", event.Name()).Error("failed to record event")
		}
	}
}
