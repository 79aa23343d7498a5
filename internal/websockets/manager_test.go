package websockets

import (
	"errors"
	"sync"
	"testing"
	"time"

	"applianceassist/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	mu      sync.Mutex
	written []events.Event
	wrote   chan struct{}
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		wrote:  make(chan struct{}, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) WriteJSON(v any) error {
	event, ok := v.(events.Event)
	if !ok {
		return errors.New("unexpected payload")
	}
	f.mu.Lock()
	f.written = append(f.written, event)
	f.mu.Unlock()
	f.wrote <- struct{}{}
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("connection closed")
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) events() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.written...)
}

func waitForClients(t *testing.T, m *Manager, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return m.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestNew_NilBus(t *testing.T) {
	m, err := New(nil)
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestManager_ForwardsOrderEvents(t *testing.T) {
	bus := events.New()
	defer bus.Close()

	m, err := New(bus)
	require.NoError(t, err)
	defer m.Close()

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		m.HandleWebSocket(conn)
		close(done)
	}()
	waitForClients(t, m, 1)

	event := events.NewEvent(events.ChannelOrders, events.TypeOrderCreated, map[string]any{"id": "abc"})
	require.NoError(t, bus.Publish(events.ChannelOrders, event))

	select {
	case <-conn.wrote:
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}

	got := conn.events()
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeOrderCreated, got[0].Type)
	assert.Equal(t, "abc", got[0].Data["id"])

	conn.Close()
	<-done
	assert.Equal(t, 0, m.ClientCount())
}

func TestManager_IgnoresOtherChannels(t *testing.T) {
	bus := events.New()
	defer bus.Close()

	m, err := New(bus)
	require.NoError(t, err)
	defer m.Close()

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		m.HandleWebSocket(conn)
		close(done)
	}()
	waitForClients(t, m, 1)

	require.NoError(t, bus.Publish("system", events.NewEvent("system", "ping", nil)))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, conn.events())

	conn.Close()
	<-done
}

func TestManager_CloseDisconnectsClients(t *testing.T) {
	bus := events.New()
	defer bus.Close()

	m, err := New(bus)
	require.NoError(t, err)

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		m.HandleWebSocket(conn)
		close(done)
	}()
	waitForClients(t, m, 1)

	require.NoError(t, m.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after Close")
	}
	assert.NoError(t, m.Close())
}

func TestManager_RejectsAfterClose(t *testing.T) {
	bus := events.New()
	defer bus.Close()

	m, err := New(bus)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	conn := newFakeConn()
	m.HandleWebSocket(conn)

	select {
	case <-conn.closed:
	default:
		t.Fatal("connection should be closed when manager is closed")
	}
}
