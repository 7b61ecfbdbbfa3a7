// Package relay is the default session behavior: it forwards chat and
// gameplay events between the two members of a session.
package relay

import (
	"encoding/json"
	"sync"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
	"go.uber.org/zap"
)

var sessionEvents = []domain.Event{
	domain.EventChatMessage,
	domain.EventMove,
	domain.EventGameOver,
}

type Behavior struct {
	log *zap.Logger
}

var _ ports.SessionBehavior = (*Behavior)(nil)

func New(log *zap.Logger) *Behavior {
	if log == nil {
		log = zap.NewNop()
	}
	return &Behavior{log: log.Named("relay")}
}

func (b *Behavior) Start(session domain.Session, first, second ports.Connection, complete func()) {
	var once sync.Once
	finish := func() { once.Do(complete) }

	b.attach(session, session.Members[0], first, second, finish)
	b.attach(session, session.Members[1], second, first, finish)
}

func (b *Behavior) attach(session domain.Session, name domain.Name, self, opponent ports.Connection, finish func()) {
	log := b.log.With(zap.String("session", string(session.ID)), zap.String("name", name.String()))

	self.On(domain.EventChatMessage, func(payload []byte) {
		var msg domain.ChatMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Debug("drop malformed chat message", zap.Error(err))
			return
		}
		out := domain.ChatMessage{Username: name, Message: msg.Message}
		self.Emit(domain.EventChatMessage, out)
		opponent.Emit(domain.EventChatMessage, out)
	})

	self.On(domain.EventMove, func(payload []byte) {
		var forwarded json.RawMessage
		if len(payload) > 0 {
			forwarded = append(json.RawMessage(nil), payload...)
		}
		opponent.Emit(domain.EventOpponentMove, forwarded)
	})

	self.On(domain.EventGameOver, func([]byte) {
		log.Debug("game over reported")
		finish()
	})
}

// End tells the members still connected why the session is over and stops
// relaying for them.
func (b *Behavior) End(session domain.Session, remaining []ports.Connection) {
	event := domain.EventSessionComplete
	if session.Reason == domain.ReasonDisconnect {
		event = domain.EventOpponentLeft
	}

	for _, conn := range remaining {
		for _, e := range sessionEvents {
			conn.Off(e)
		}
		conn.Emit(event, domain.SessionEnded{SessionID: session.ID})
	}

	b.log.Debug("session relay ended",
		zap.String("session", string(session.ID)),
		zap.String("reason", string(session.Reason)),
		zap.Int("notified", len(remaining)),
	)
}
