package application

import (
	"fmt"
	"time"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
)

// identity is the live record of one joined connection.
type identity struct {
	name     domain.Name
	conn     ports.Connection
	joinedAt time.Time
	session  domain.SessionID
}

// connectionRegistry indexes identities by name and by connection id.
// Not safe for concurrent use; the Matchmaker lock guards it.
type connectionRegistry struct {
	byName map[domain.Name]*identity
	byConn map[string]*identity
}

func newConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{
		byName: make(map[domain.Name]*identity),
		byConn: make(map[string]*identity),
	}
}

func (r *connectionRegistry) register(name domain.Name, conn ports.Connection, now time.Time) (*identity, error) {
	if existing, ok := r.byConn[conn.ID()]; ok {
		return nil, fmt.Errorf("%w: as %q", domain.ErrAlreadyJoined, existing.name)
	}
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
	}

	id := &identity{name: name, conn: conn, joinedAt: now}
	r.byName[name] = id
	r.byConn[conn.ID()] = id
	return id, nil
}

func (r *connectionRegistry) unregister(name domain.Name) {
	id, ok := r.byName[name]
	if !ok {
		return
	}

	delete(r.byName, name)
	if current, ok := r.byConn[id.conn.ID()]; ok && current == id {
		delete(r.byConn, id.conn.ID())
	}
}

func (r *connectionRegistry) lookup(name domain.Name) (*identity, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *connectionRegistry) lookupConn(connID string) (*identity, bool) {
	id, ok := r.byConn[connID]
	return id, ok
}

func (r *connectionRegistry) len() int {
	return len(r.byName)
}
