package connection

import (
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SendQueueSize bounds the outbound lines buffered per client
const SendQueueSize = 256

// State flags of a session
type State uint8

const (
	Connected State = 1 << iota
	Introduced
	SentInfo
	Authed
)

func (s State) Has(flag State) bool {
	return s&flag != 0
}

// Client represents a connected session
type Client struct {
	ID      int
	TraceID string
	Remote  string
	Name    string
	Version int
	State   State
	Send    chan string

	closed bool
}

// Manager handles all client connections
type Manager struct {
	clients map[int]*Client
	nextID  int
	logger  logrus.FieldLogger
	mutex   sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager(logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		clients: make(map[int]*Client),
		nextID:  1,
		logger:  logger,
	}
}

// Add registers a new connection and queues the given greeting for it.
// The greeting is built from the assigned client id.
func (m *Manager) Add(remote string, greeting func(clientID int) string) *Client {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client := &Client{
		ID:      m.nextID,
		TraceID: uuid.NewString(),
		Remote:  remote,
		State:   Connected,
		Send:    make(chan string, SendQueueSize),
	}
	client.Name = "client_" + strconv.Itoa(client.ID)
	m.nextID++
	m.clients[client.ID] = client

	m.logger.WithFields(logrus.Fields{
		"client": client.ID,
		"trace":  client.TraceID,
		"remote": remote,
	}).Info("client connected")

	if greeting != nil {
		m.enqueue(client, greeting(client.ID))
	}
	return client
}

// Remove forgets the client and closes its queue; the writer flushes what is
// left and closes the connection. Removing twice is a no-op.
func (m *Manager) Remove(clientID int) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	delete(m.clients, clientID)
	client.closed = true
	close(client.Send)

	m.logger.WithField("client", clientID).Info("connection closed")
	return true
}

// RemoveAll closes every client, used on shutdown
func (m *Manager) RemoveAll() {
	for _, id := range m.IDs() {
		m.Remove(id)
	}
}

// Get retrieves a client by id
func (m *Manager) Get(clientID int) (*Client, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	return client, ok
}

// IDs returns the connected client ids in ascending order
func (m *Manager) IDs() []int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]int, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Count is the number of connected clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// SendTo queues a line for one client. It reports false if the client is gone.
func (m *Manager) SendTo(clientID int, line string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	m.enqueue(client, line)
	return true
}

// Broadcast queues a line for every connected client
func (m *Manager) Broadcast(line string) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		m.enqueue(client, line)
	}
}

// enqueue never blocks; a client that does not drain its queue loses lines
func (m *Manager) enqueue(client *Client, line string) {
	if client.closed {
		return
	}
	select {
	case client.Send <- line:
	default:
		m.logger.WithFields(logrus.Fields{
			"client": client.ID,
			"line":   line,
		}).Warn("send queue full, dropping message")
	}
}
