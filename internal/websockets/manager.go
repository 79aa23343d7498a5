package websockets

import (
	"sync"
	"time"

	"applianceassist/internal/events"
	"applianceassist/internal/logger"
)

const (
	clientBuffer = 16
	writeTimeout = 10 * time.Second
)

// Conn is the subset of *websocket.Conn the manager uses.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	send chan events.Event
}

// Manager pushes order events to connected admin clients. Clients use them as
// a hint to re-fetch the order list.
type Manager struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	unsubscribe func()
	done        chan struct{}
	log         logger.Logger
}

func New(bus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets").Function("New")
	if bus == nil {
		return nil, log.ErrMsg("event bus is nil")
	}

	feed, unsubscribe := bus.Subscribe(events.ChannelOrders)
	m := &Manager{
		clients:     make(map[*client]struct{}),
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
		log:         logger.New("websockets"),
	}

	go m.fanOut(feed)
	return m, nil
}

func (m *Manager) fanOut(feed <-chan events.Event) {
	defer close(m.done)
	log := m.log.Function("fanOut")

	for event := range feed {
		m.mu.RLock()
		for c := range m.clients {
			select {
			case c.send <- event:
			default:
				log.Warn("client buffer full, dropping event", "type", event.Type)
			}
		}
		m.mu.RUnlock()
	}
}

// HandleWebSocket serves one connection until the peer goes away or the
// manager closes.
func (m *Manager) HandleWebSocket(conn Conn) {
	log := m.log.Function("HandleWebSocket")

	c := &client{send: make(chan events.Event, clientBuffer)}
	if !m.register(c) {
		_ = conn.Close()
		return
	}
	log.Info("admin client connected", "clients", m.ClientCount())

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		m.unregister(c)
		_ = conn.Close()
		<-readerDone
		log.Info("admin client disconnected", "clients", m.ClientCount())
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				log.Warn("failed to write event", "error", err, "type", event.Type)
				return
			}
		case <-readerDone:
			return
		}
	}
}

func (m *Manager) register(c *client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.clients[c] = struct{}{}
	return true
}

func (m *Manager) unregister(c *client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[c]; ok {
		delete(m.clients, c)
		close(c.send)
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Close disconnects every client and stops the fan-out.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for c := range m.clients {
		delete(m.clients, c)
		close(c.send)
	}
	m.mu.Unlock()

	m.unsubscribe()
	<-m.done
	return nil
}
