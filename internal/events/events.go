package events

import (
	"errors"
	"sync"
	"time"

	"applianceassist/internal/logger"

	"github.com/google/uuid"
)

const (
	ChannelOrders = "orders"

	TypeOrderCreated = "order.created"
	TypeOrderUpdated = "order.updated"

	subscriberBuffer = 32
)

var ErrBusClosed = errors.New("event bus is closed")

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(channel, eventType string, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Channel:   channel,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// EventBus is an in-process fan-out. Publish never blocks: a subscriber whose
// buffer is full misses the event.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[uint64]chan Event
	nextID      uint64
	closed      bool
	log         logger.Logger
}

func New() *EventBus {
	return &EventBus{
		subscribers: make(map[string]map[uint64]chan Event),
		log:         logger.New("events"),
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	for id, ch := range b.subscribers[channel] {
		select {
		case ch <- event:
		default:
			log.Warn("subscriber buffer full, dropping event", "channel", channel, "subscriber", id, "type", event.Type)
		}
	}

	return nil
}

// Subscribe returns a receive channel and a cancel func. The channel is closed
// by cancel or by Close, whichever comes first.
func (b *EventBus) Subscribe(channel string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	b.nextID++
	id := b.nextID
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[uint64]chan Event)
	}
	b.subscribers[channel][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subscribers[channel]; ok {
				if existing, ok := subs[id]; ok {
					delete(subs, id)
					close(existing)
				}
			}
		})
	}

	return ch, cancel
}

func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for channel, subs := range b.subscribers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subscribers, channel)
	}

	b.log.Function("Close").Info("event bus closed")
	return nil
}
