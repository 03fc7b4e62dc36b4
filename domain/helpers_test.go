package domain

import (
	"io"
	"math/rand"
	"time"

	"github.com/lazharichir/nutsrv/cards"
	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/lazharichir/nutsrv/domain/hands"
	"github.com/sirupsen/logrus"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// stubEvaluator ranks players by a fixed score per client id
type stubEvaluator struct {
	scores map[int]int16
}

func (s stubEvaluator) Evaluate(id int, hole [2]cards.Card, community cards.Cards) (hands.Strength, error) {
	return hands.Strength{ID: id, Score: s.scores[id], Description: "stub"}, nil
}

func (s stubEvaluator) RankTieGroups(strengths []hands.Strength) [][]int {
	return hands.RankTieGroups(strengths)
}

// recorder collects emitted events
type recorder struct {
	events []events.Event
}

func (r *recorder) handle(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) chatsTo(clientID int) []string {
	var out []string
	for _, e := range r.events {
		if c, ok := e.(events.Chat); ok && c.To == clientID {
			out = append(out, c.Text)
		}
	}
	return out
}

func (r *recorder) handEnded() []events.HandEnded {
	var out []events.HandEnded
	for _, e := range r.events {
		if h, ok := e.(events.HandEnded); ok {
			out = append(out, h)
		}
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type tableFixture struct {
	table *Table
	clock *fakeClock
	rec   *recorder
	total int
}

// newTableFixture seats players with client ids 1..n and the given stakes
func newTableFixture(stakes ...int) *tableFixture {
	return newTableFixtureWith(stubEvaluator{scores: map[int]int16{}}, stakes...)
}

func newTableFixtureWith(ev hands.Evaluator, stakes ...int) *tableFixture {
	players := make([]*Player, len(stakes))
	total := 0
	for i, s := range stakes {
		players[i] = NewPlayer(i+1, s)
		total += s
	}

	clock := newFakeClock()
	rec := &recorder{}
	t := NewTable(0, 0, players, TableConfig{
		Blind:     10,
		Timeout:   60 * time.Second,
		Deck:      cards.NewDeckWithRand(rand.New(rand.NewSource(7))),
		Evaluator: ev,
		Clock:     clock.Now,
		Logger:    quietLogger(),
	})
	t.RegisterEventHandler(rec.handle)

	return &tableFixture{table: t, clock: clock, rec: rec, total: total}
}

// startHand runs NewRound and Blinds
func (f *tableFixture) startHand() {
	for f.table.State != StateBetting {
		if _, err := f.table.Step(); err != nil {
			panic(err)
		}
	}
}

// act records an action for the current seat and runs one step
func (f *tableFixture) act(kind ActionKind, amount int) {
	f.table.Seats[f.table.Current].Player.SetAction(kind, amount)
	if _, err := f.table.Step(); err != nil {
		panic(err)
	}
}

func (f *tableFixture) stake(seat int) int {
	return f.table.Seats[seat].Player.Stake()
}
