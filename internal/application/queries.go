package application

import (
	"time"

	"github.com/bnema/pairline/internal/domain"
)

type IdentityView struct {
	Name      domain.Name      `json:"name"`
	ConnID    string           `json:"connId"`
	JoinedAt  time.Time        `json:"joinedAt"`
	Waiting   bool             `json:"waiting"`
	SessionID domain.SessionID `json:"sessionId,omitempty"`
}

type SessionView struct {
	ID          domain.SessionID        `json:"id"`
	Members     [2]domain.Name          `json:"members"`
	State       domain.SessionState     `json:"state"`
	Reason      domain.CompletionReason `json:"reason,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
}

// Stats is a consistent snapshot of the lobby taken under one lock.
type Stats struct {
	GeneratedAt    time.Time     `json:"generatedAt"`
	Connected      int           `json:"connected"`
	Waiting        []domain.Name `json:"waiting"`
	Sessions       []SessionView `json:"sessions"`
	ActiveSessions int           `json:"activeSessions"`
	DoneSessions   int           `json:"completeSessions"`
}

func sessionView(session domain.Session) SessionView {
	view := SessionView{
		ID:        session.ID,
		Members:   session.Members,
		State:     session.State,
		Reason:    session.Reason,
		CreatedAt: session.CreatedAt,
	}
	if !session.CompletedAt.IsZero() {
		completedAt := session.CompletedAt
		view.CompletedAt = &completedAt
	}
	return view
}
