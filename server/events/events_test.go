package events

import (
	"testing"

	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	sent map[int][]string
}

func (f *fakeSender) SendTo(clientID int, line string) bool {
	if clientID == 99 {
		return false
	}
	if f.sent == nil {
		f.sent = make(map[int][]string)
	}
	f.sent[clientID] = append(f.sent[clientID], line)
	return true
}

type fakeRoster map[int][]int

func (f fakeRoster) Recipients(gameID int) []int {
	return f[gameID]
}

func newDispatcher() (*Dispatcher, *fakeSender) {
	logger, _ := test.NewNullLogger()
	sender := &fakeSender{}
	return NewDispatcher(sender, fakeRoster{0: {1, 2, 3}, 1: {7}}, logger), sender
}

func TestDispatchChat(t *testing.T) {
	d, sender := newDispatcher()

	d.HandleEvent(events.Chat{GameID: 0, TableID: 0, To: events.Everyone, Text: "Player 2 folded."})
	d.HandleEvent(events.Chat{GameID: 0, TableID: 0, To: 2, Text: "Your hole-cards: [Ah Kd]"})
	d.HandleEvent(events.Chat{GameID: 0, TableID: events.NoTable, To: 1, Text: "You won!"})
	d.HandleEvent(events.Chat{GameID: 0, TableID: 0, To: 99, Text: "gone"})

	assert.Equal(t, []string{"MSG 0:0 table Player 2 folded.", "MSG 0:-1 game You won!"}, sender.sent[1])
	assert.Equal(t, []string{"MSG 0:0 table Player 2 folded.", "MSG 0:0 table Your hole-cards: [Ah Kd]"}, sender.sent[2])
	assert.Equal(t, []string{"MSG 0:0 table Player 2 folded."}, sender.sent[3])
	assert.Empty(t, sender.sent[7])
}

func TestDispatchSnapshot(t *testing.T) {
	d, sender := newDispatcher()

	d.HandleEvent(events.Snapshot{GameID: 1, TableID: events.NoTable, Kind: events.SnapGameState, To: events.Everyone, Payload: "start"})
	d.HandleEvent(events.Snapshot{GameID: 1, TableID: 0, Kind: events.SnapTable, To: events.Everyone, Payload: "3:0 0:1:2:0"})

	assert.Equal(t, []string{"SNAP 1:-1 0 start", "SNAP 1:0 1 3:0 0:1:2:0"}, sender.sent[7])
	assert.Empty(t, sender.sent[1])
}

func TestDispatchIgnoresLifecycleEvents(t *testing.T) {
	d, sender := newDispatcher()

	d.HandleEvent(events.GameStarted{GameID: 0, Players: []int{1, 2, 3}})
	d.HandleEvent(events.HandEnded{GameID: 0, Payouts: map[int]int{1: 30}})

	assert.Empty(t, sender.sent)
}
