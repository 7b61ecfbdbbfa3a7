package application

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Matchmaker. Zero values fall back to the system
// clock, no-op metrics and behavior, a no-op logger, DefaultMaxNameLength
// and random UUID session ids.
type Options struct {
	Clock         ports.Clock
	Metrics       ports.Metrics
	Behavior      ports.SessionBehavior
	Logger        *zap.Logger
	MaxNameLength int
	// NewSessionID defaults to random UUIDs.
	NewSessionID func() domain.SessionID
}

// Matchmaker owns the connection registry, the waiting queue and the
// session registry. A single mutex guards all three, so a dequeued pair
// and its session are always created in one step.
type Matchmaker struct {
	mu          sync.Mutex
	connections *connectionRegistry
	queue       *waitingQueue
	sessions    *sessionRegistry

	clock         ports.Clock
	metrics       ports.Metrics
	behavior      ports.SessionBehavior
	log           *zap.Logger
	maxNameLength int
	newSessionID  func() domain.SessionID
}

// NewMatchmaker returns an empty lobby.
func NewMatchmaker(opts Options) *Matchmaker {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = ports.NoopMetrics{}
	}
	if opts.Behavior == nil {
		opts.Behavior = ports.NoopSessionBehavior{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxNameLength <= 0 {
		opts.MaxNameLength = domain.DefaultMaxNameLength
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = func() domain.SessionID {
			return domain.SessionID(uuid.NewString())
		}
	}

	return &Matchmaker{
		connections:   newConnectionRegistry(),
		queue:         newWaitingQueue(),
		sessions:      newSessionRegistry(),
		clock:         opts.Clock,
		metrics:       opts.Metrics,
		behavior:      opts.Behavior,
		log:           opts.Logger.Named("matchmaker"),
		maxNameLength: opts.MaxNameLength,
		newSessionID:  opts.NewSessionID,
	}
}

// Join registers conn under rawName and puts it in the waiting queue.
// Rejections are reported to conn with a msg event and returned; they
// never change any state.
func (m *Matchmaker) Join(conn ports.Connection, rawName string) (domain.Name, error) {
	name, err := domain.NormalizeName(rawName, m.maxNameLength)
	if err != nil {
		conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextInvalidName})
		m.metrics.Join(ports.JoinInvalid)
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.connections.register(name, conn, m.clock.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateName):
			conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextDuplicateName})
			m.metrics.Join(ports.JoinDuplicate)
		default:
			conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextAlreadyJoined})
			m.metrics.Join(ports.JoinRejected)
		}
		m.log.Info("join rejected", zap.String("name", name.String()), zap.String("conn", conn.ID()), zap.Error(err))
		return "", err
	}

	if err := m.queue.enqueue(id); err != nil {
		m.connections.unregister(name)
		m.log.Error("enqueue new identity", zap.String("name", name.String()), zap.Error(err))
		conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextAlreadyJoined})
		m.metrics.Join(ports.JoinRejected)
		return "", err
	}

	m.metrics.Join(ports.JoinAccepted)
	m.log.Info("identity joined", zap.String("name", name.String()), zap.String("conn", conn.ID()))

	conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextSearching})
	conn.Emit(domain.EventJoinSuccess, nil)

	m.pairLocked()
	m.observeLocked()
	return name, nil
}

// Requeue puts an identity whose session has been swept back at the tail
// of the waiting queue.
func (m *Matchmaker) Requeue(conn ports.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.connections.lookupConn(conn.ID())
	if !ok {
		conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextNotRequeuable})
		return fmt.Errorf("%w: connection has not joined", domain.ErrNotRequeueable)
	}
	if m.queue.contains(id.name) {
		conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextNotRequeuable})
		return fmt.Errorf("%w: %q is already waiting", domain.ErrNotRequeueable, id.name)
	}
	// The identity stays bound until the sweeper removes its session, so it
	// is never a member of two sessions at once.
	if id.session != "" {
		if session, ok := m.sessions.get(id.session); ok {
			conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextNotRequeuable})
			return fmt.Errorf("%w: %q is still in %s session %s", domain.ErrNotRequeueable, id.name, session.State, id.session)
		}
	}

	id.session = ""
	if err := m.queue.enqueue(id); err != nil {
		m.log.Error("requeue identity", zap.String("name", id.name.String()), zap.Error(err))
		return err
	}

	m.log.Info("identity requeued", zap.String("name", id.name.String()))
	conn.Emit(domain.EventMsg, domain.Message{Text: domain.TextSearching})

	m.pairLocked()
	m.observeLocked()
	return nil
}

// Disconnect removes whatever conn left behind. Unknown or repeated
// disconnects are no-ops.
func (m *Matchmaker) Disconnect(conn ports.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.connections.lookupConn(conn.ID())
	if !ok {
		m.log.Debug("disconnect of unknown connection", zap.String("conn", conn.ID()))
		return
	}

	switch {
	case m.queue.remove(id.name):
		m.log.Info("waiting identity left", zap.String("name", id.name.String()))
	case id.session != "":
		if session, ok := m.sessions.get(id.session); ok && session.Has(id.name) {
			m.completeLocked(id.session, domain.ReasonDisconnect, id.name)
		}
	}

	m.connections.unregister(id.name)
	m.log.Info("identity disconnected", zap.String("name", id.name.String()))

	m.pairLocked()
	m.observeLocked()
}

// CompleteSession is how the session behavior reports a finished match.
// Completing an already complete session is a no-op.
func (m *Matchmaker) CompleteSession(sessionID domain.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions.get(sessionID); !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	m.completeLocked(sessionID, domain.ReasonFinished, "")
	m.observeLocked()
	return nil
}

// Sweep removes every complete session and returns how many it removed.
// Active sessions are never touched.
func (m *Matchmaker) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := m.sessions.sweep()
	for _, session := range removed {
		for _, member := range session.Members {
			if id, ok := m.connections.lookup(member); ok && id.session == session.ID {
				id.session = ""
			}
		}
	}

	if len(removed) > 0 {
		m.metrics.SessionsSwept(len(removed))
		m.log.Debug("swept complete sessions", zap.Int("count", len(removed)))
	}
	m.observeLocked()
	return len(removed)
}

// Shutdown completes every active session so remaining members are told
// before their connections close.
func (m *Matchmaker) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, session := range m.sessions.active() {
		m.completeLocked(session.ID, domain.ReasonShutdown, "")
	}
	m.observeLocked()
}

// Lookup reports the registered identity called name and where it is.
func (m *Matchmaker) Lookup(name domain.Name) (IdentityView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.connections.lookup(name)
	if !ok {
		return IdentityView{}, false
	}

	return IdentityView{
		Name:      id.name,
		ConnID:    id.conn.ID(),
		JoinedAt:  id.joinedAt,
		Waiting:   m.queue.contains(id.name),
		SessionID: id.session,
	}, true
}

// Session returns a copy of the session, active or awaiting sweep.
func (m *Matchmaker) Session(sessionID domain.SessionID) (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions.get(sessionID)
	if !ok {
		return domain.Session{}, false
	}
	return *session, true
}

// Stats snapshots the queue and sessions under one lock. Sessions are
// listed in creation order.
func (m *Matchmaker) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := m.sessions.list()
	stats := Stats{
		GeneratedAt: m.clock.Now(),
		Connected:   m.connections.len(),
		Waiting:     m.queue.names(),
		Sessions:    make([]SessionView, 0, len(sessions)),
	}
	for _, session := range sessions {
		stats.Sessions = append(stats.Sessions, sessionView(session))
		if session.Active() {
			stats.ActiveSessions++
		} else {
			stats.DoneSessions++
		}
	}
	return stats
}

// pairLocked drains the waiting queue two at a time in arrival order.
func (m *Matchmaker) pairLocked() {
	for {
		first, second, ok := m.queue.tryDequeuePair()
		if !ok {
			return
		}

		session, err := m.sessions.create(m.newSessionID(), first.name, second.name, m.clock.Now())
		if err != nil {
			m.queue.restore(first, second)
			m.log.Error("create session",
				zap.String("first", first.name.String()),
				zap.String("second", second.name.String()),
				zap.Error(err),
			)
			return
		}

		first.session = session.ID
		second.session = session.ID

		first.conn.Emit(domain.EventMatchFound, matchFound(*session, first.name))
		second.conn.Emit(domain.EventMatchFound, matchFound(*session, second.name))

		m.metrics.SessionCreated()
		m.log.Info("session created",
			zap.String("session", string(session.ID)),
			zap.String("first", first.name.String()),
			zap.String("second", second.name.String()),
		)

		sessionID := session.ID
		m.behavior.Start(*session, first.conn, second.conn, func() {
			if err := m.CompleteSession(sessionID); err != nil {
				m.log.Warn("session behavior completed unknown session", zap.String("session", string(sessionID)), zap.Error(err))
			}
		})
	}
}

// completeLocked transitions the session once and tells the behavior which
// members are still around. leaving is excluded from the remaining set.
func (m *Matchmaker) completeLocked(sessionID domain.SessionID, reason domain.CompletionReason, leaving domain.Name) {
	if !m.sessions.markComplete(sessionID, reason, m.clock.Now()) {
		return
	}

	session, _ := m.sessions.get(sessionID)
	remaining := make([]ports.Connection, 0, 2)
	for _, member := range session.Members {
		if member == leaving {
			continue
		}
		if id, ok := m.connections.lookup(member); ok && id.session == sessionID {
			remaining = append(remaining, id.conn)
		}
	}

	m.metrics.SessionCompleted(reason)
	m.log.Info("session complete",
		zap.String("session", string(sessionID)),
		zap.String("reason", string(reason)),
		zap.Int("remaining", len(remaining)),
	)
	m.behavior.End(*session, remaining)
}

func matchFound(session domain.Session, name domain.Name) domain.MatchFound {
	opponent, _ := session.Opponent(name)
	return domain.MatchFound{SessionID: session.ID, Opponent: opponent}
}

func (m *Matchmaker) observeLocked() {
	m.metrics.Population(m.connections.len(), m.queue.len(), m.sessions.len())
}
