package application

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
)

type emitted struct {
	event   domain.Event
	payload any
}

type recordingConn struct {
	id string

	mu       sync.Mutex
	events   []emitted
	handlers map[domain.Event]ports.Handler
	closed   bool
}

func newRecordingConn(id string) *recordingConn {
	return &recordingConn{id: id, handlers: map[domain.Event]ports.Handler{}}
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Emit(event domain.Event, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, emitted{event: event, payload: payload})
}

func (c *recordingConn) On(event domain.Event, handler ports.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = handler
}

func (c *recordingConn) Off(event domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) eventNames() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]domain.Event, 0, len(c.events))
	for _, e := range c.events {
		names = append(names, e.event)
	}
	return names
}

func (c *recordingConn) last(event domain.Event) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].event == event {
			return c.events[i].payload, true
		}
	}
	return nil, false
}

func (c *recordingConn) count(event domain.Event) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (c *recordingConn) deliver(event domain.Event, payload any) {
	c.mu.Lock()
	handler := c.handlers[event]
	c.mu.Unlock()
	if handler == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	handler(raw)
}

type endCall struct {
	session   domain.Session
	remaining []ports.Connection
}

type recordingBehavior struct {
	mu        sync.Mutex
	started   []domain.Session
	completes map[domain.SessionID]func()
	ended     []endCall
}

func newRecordingBehavior() *recordingBehavior {
	return &recordingBehavior{completes: map[domain.SessionID]func(){}}
}

func (b *recordingBehavior) Start(session domain.Session, _, _ ports.Connection, complete func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started = append(b.started, session)
	b.completes[session.ID] = complete
}

func (b *recordingBehavior) End(session domain.Session, remaining []ports.Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ended = append(b.ended, endCall{session: session, remaining: remaining})
}

func (b *recordingBehavior) complete(id domain.SessionID) {
	b.mu.Lock()
	complete := b.completes[id]
	b.mu.Unlock()
	complete()
}

func (b *recordingBehavior) endCalls() []endCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]endCall(nil), b.ended...)
}

type countingMetrics struct {
	mu        sync.Mutex
	joins     map[ports.JoinResult]int
	created   int
	completed map[domain.CompletionReason]int
	swept     int
	connected int
	waiting   int
	sessions  int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		joins:     map[ports.JoinResult]int{},
		completed: map[domain.CompletionReason]int{},
	}
}

func (m *countingMetrics) Join(result ports.JoinResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins[result]++
}

func (m *countingMetrics) SessionCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *countingMetrics) SessionCompleted(reason domain.CompletionReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[reason]++
}

func (m *countingMetrics) SessionsSwept(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swept += n
}

func (m *countingMetrics) Population(connected, waiting, sessions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected, m.waiting, m.sessions = connected, waiting, sessions
}

func sequentialIDs() func() domain.SessionID {
	var mu sync.Mutex
	n := 0
	return func() domain.SessionID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return domain.SessionID(fmt.Sprintf("s-%d", n))
	}
}

// queueForTest runs fn against the raw structures under the matchmaker lock.
func (m *Matchmaker) queueForTest(t *testing.T, fn func(*waitingQueue, *connectionRegistry)) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.queue, m.connections)
}
