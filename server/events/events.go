package events

import (
	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/lazharichir/nutsrv/server/protocol"
	"github.com/sirupsen/logrus"
)

// Sender queues a protocol line for a client
type Sender interface {
	SendTo(clientID int, line string) bool
}

// Recipients resolves who receives a message addressed to everyone in a game
type Recipients interface {
	Recipients(gameID int) []int
}

// Dispatcher renders domain events as protocol pushes and routes them to clients
type Dispatcher struct {
	sender     Sender
	recipients Recipients
	logger     logrus.FieldLogger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(sender Sender, recipients Recipients, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		sender:     sender,
		recipients: recipients,
		logger:     logger,
	}
}

// HandleEvent processes domain events and sends them to clients
func (d *Dispatcher) HandleEvent(event events.Event) {
	switch e := event.(type) {
	case events.Chat:
		d.send(e.GameID, e.To, protocol.GameMessage(e.GameID, e.TableID, e.Text))

	case events.Snapshot:
		d.send(e.GameID, e.To, protocol.Snapshot(e.GameID, e.TableID, int(e.Kind), e.Payload))

	default:
		// lifecycle events only feed the log and the hand ledger
		d.logger.WithField("event", event.Name()).Debug("event not pushed to clients")
	}
}

func (d *Dispatcher) send(gameID, to int, line string) {
	if to != events.Everyone {
		if !d.sender.SendTo(to, line) {
			d.logger.WithField("client", to).Debug("recipient not connected")
		}
		return
	}

	for _, id := range d.recipients.Recipients(gameID) {
		d.sender.SendTo(id, line)
	}
}
