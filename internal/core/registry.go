package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/domain"
)

// Registry owns the authoritative id → session mapping. Create is an
// atomic check-and-insert: however many callers race on one id, exactly
// one wins. The registry lock only ever guards map operations; per-room
// state is the session's own business, so rooms never block each other.
type Registry struct {
	scale domain.VoteScale

	mu    sync.RWMutex
	rooms map[domain.RoomID]*Session
}

func NewRegistry(scale domain.VoteScale) *Registry {
	return &Registry{
		scale: scale,
		rooms: make(map[domain.RoomID]*Session),
	}
}

func (r *Registry) Create(id domain.RoomID, capacity int, admin domain.Identity, adminName string, conn Connection) (*Session, error) {
	room, err := domain.NewRoom(id, admin, capacity)
	if err != nil {
		return nil, err
	}
	sess, err := newSession(room, r.scale, adminName, conn)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.rooms[id]; taken {
		return nil, domain.ErrRoomExists
	}
	r.rooms[id] = sess
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("admin", string(admin)).Int("capacity", capacity).Msg("room created")
	return sess, nil
}

func (r *Registry) Get(id domain.RoomID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.rooms[id]
	return sess, ok
}

// Remove drops the mapping, but only while it still points at sess.
// A freed id is immediately reusable, so an admin close and a sweep can
// both observe the same closed session and race to remove it; whichever
// loses must not take down a new room that already claimed the id.
func (r *Registry) Remove(id domain.RoomID, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[id] != sess {
		return
	}
	delete(r.rooms, id)
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room removed")
}

func (r *Registry) ListIDs() []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomID, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	return out
}

func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.rooms))
	for _, s := range r.rooms {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	return out
}
