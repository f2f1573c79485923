package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type connEntry struct {
	Conn   core.Connection
	Cancel context.CancelFunc
}

// ConnRegistry tracks live connections by identity so events that
// originate outside the target's own socket (a kick, a shutdown) can
// reach its transport and tear it down.
type ConnRegistry struct {
	mu    sync.RWMutex
	conns map[domain.Identity]*connEntry
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{conns: make(map[domain.Identity]*connEntry)}
}

func (r *ConnRegistry) Bind(id domain.Identity, conn core.Connection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("identity", string(id)).Msg("bound connection")
}

func (r *ConnRegistry) Unbind(id domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("identity", string(id)).Msg("unbound connection")
}

func (r *ConnRegistry) Get(id domain.Identity) (core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Cancel stops the identity's read/write pumps; the transport then runs
// its normal disconnect cleanup.
func (r *ConnRegistry) Cancel(id domain.Identity) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	e.Conn.Close()
	log.Info().Str("module", "app.registry").Str("identity", string(id)).Msg("canceled connection")
	return true
}
