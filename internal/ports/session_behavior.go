package ports

import "github.com/bnema/pairline/internal/domain"

// SessionBehavior runs whatever happens inside an established session.
//
// Start receives both members in session order; calling complete reports
// the match as finished. End is called exactly once per session, after it
// completed, with the members that are still connected. Both are invoked
// while the matchmaker holds its lock: they must not block and must not
// call back into the matchmaker synchronously. complete may be called from
// any goroutine later on.
type SessionBehavior interface {
	Start(session domain.Session, first, second Connection, complete func())
	End(session domain.Session, remaining []Connection)
}

type NoopSessionBehavior struct{}

func (NoopSessionBehavior) Start(domain.Session, Connection, Connection, func()) {}

func (NoopSessionBehavior) End(domain.Session, []Connection) {}
