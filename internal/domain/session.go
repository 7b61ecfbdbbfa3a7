package domain

import (
	"fmt"
	"time"
)

type SessionID string
type SessionState string
type CompletionReason string

const (
	SessionActive   SessionState = "active"
	SessionComplete SessionState = "complete"

	// ReasonDisconnect means one member's transport closed.
	ReasonDisconnect CompletionReason = "disconnect"
	// ReasonFinished means the session behavior reported the match over.
	ReasonFinished CompletionReason = "finished"
	ReasonShutdown CompletionReason = "shutdown"
)

// Session is a bound pair of identities. Members are ordered by arrival.
type Session struct {
	ID          SessionID
	Members     [2]Name
	State       SessionState
	Reason      CompletionReason
	CreatedAt   time.Time
	CompletedAt time.Time
}

func NewSession(id SessionID, first, second Name, now time.Time) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("%w: session id is empty", ErrInvariantViolation)
	}
	if first == "" || second == "" {
		return Session{}, fmt.Errorf("%w: session member name is empty", ErrInvariantViolation)
	}
	if first == second {
		return Session{}, fmt.Errorf("%w: %q cannot be paired with itself", ErrInvariantViolation, first)
	}

	return Session{
		ID:        id,
		Members:   [2]Name{first, second},
		State:     SessionActive,
		CreatedAt: now,
	}, nil
}

func (s Session) Active() bool {
	return s.State == SessionActive
}

// Complete moves the session to SessionComplete. It reports false, and
// changes nothing, when the session was already complete.
func (s *Session) Complete(reason CompletionReason, now time.Time) bool {
	if s == nil || s.State == SessionComplete {
		return false
	}

	s.State = SessionComplete
	s.Reason = reason
	s.CompletedAt = now
	return true
}

func (s Session) Has(name Name) bool {
	return s.Members[0] == name || s.Members[1] == name
}

// Opponent returns the other member of the session.
func (s Session) Opponent(name Name) (Name, bool) {
	switch name {
	case s.Members[0]:
		return s.Members[1], true
	case s.Members[1]:
		return s.Members[0], true
	default:
		return "", false
	}
}
