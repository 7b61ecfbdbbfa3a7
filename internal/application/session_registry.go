package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/bnema/pairline/internal/domain"
)

type sessionEntry struct {
	session domain.Session
	seq     uint64
}

// sessionRegistry owns every session until the sweeper removes it.
// Not safe for concurrent use; the Matchmaker lock guards it.
type sessionRegistry struct {
	entries map[domain.SessionID]*sessionEntry
	nextSeq uint64
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[domain.SessionID]*sessionEntry)}
}

func (r *sessionRegistry) create(id domain.SessionID, first, second domain.Name, now time.Time) (*domain.Session, error) {
	if _, ok := r.entries[id]; ok {
		return nil, fmt.Errorf("%w: session id %q reused", domain.ErrInvariantViolation, id)
	}

	session, err := domain.NewSession(id, first, second, now)
	if err != nil {
		return nil, err
	}

	r.nextSeq++
	entry := &sessionEntry{session: session, seq: r.nextSeq}
	r.entries[id] = entry
	return &entry.session, nil
}

func (r *sessionRegistry) get(id domain.SessionID) (*domain.Session, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return &entry.session, true
}

// markComplete reports whether this call performed the transition.
func (r *sessionRegistry) markComplete(id domain.SessionID, reason domain.CompletionReason, now time.Time) bool {
	entry, ok := r.entries[id]
	if !ok {
		return false
	}
	return entry.session.Complete(reason, now)
}

// sweep deletes every complete session and returns what it removed.
func (r *sessionRegistry) sweep() []domain.Session {
	var removed []*sessionEntry
	for id, entry := range r.entries {
		if entry.session.Active() {
			continue
		}
		removed = append(removed, entry)
		delete(r.entries, id)
	}
	return sessionsInOrder(removed)
}

func (r *sessionRegistry) active() []domain.Session {
	var active []*sessionEntry
	for _, entry := range r.entries {
		if entry.session.Active() {
			active = append(active, entry)
		}
	}
	return sessionsInOrder(active)
}

func (r *sessionRegistry) list() []domain.Session {
	entries := make([]*sessionEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return sessionsInOrder(entries)
}

func (r *sessionRegistry) len() int {
	return len(r.entries)
}

func sessionsInOrder(entries []*sessionEntry) []domain.Session {
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	sessions := make([]domain.Session, 0, len(entries))
	for _, entry := range entries {
		sessions = append(sessions, entry.session)
	}
	return sessions
}
