package ports

import "github.com/bnema/pairline/internal/domain"

// Handler receives the raw JSON payload of an inbound event.
type Handler func(payload []byte)

// Connection is the capability set the matchmaker needs from a transport.
// Emit must never block: implementations queue the event and drop the
// connection when the queue is full.
type Connection interface {
	ID() string
	Emit(event domain.Event, payload any)
	On(event domain.Event, handler Handler)
	Off(event domain.Event)
	Close() error
}
