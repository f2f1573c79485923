package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/domain"
)

// member pairs participant meta with its transport endpoint.
type member struct {
	meta *domain.Participant
	conn Connection
}

// Session is the state machine of one room. Every transition runs under
// mu for its full duration, so votes, kicks, joins, closes and sweeps
// on the same room never interleave. Member notifications are handed to
// connections while the lock is held; TrySend is non-blocking, so no
// network I/O happens under the lock and fan-out order matches the
// order transitions were applied.
type Session struct {
	room  *domain.Room
	scale domain.VoteScale

	mu           sync.Mutex
	members      map[domain.Identity]*member
	lastActivity time.Time
	closed       bool
}

func newSession(room *domain.Room, scale domain.VoteScale, adminName string, adminConn Connection) (*Session, error) {
	admin, err := domain.NewParticipant(room.Admin, adminName, true)
	if err != nil {
		return nil, err
	}
	return &Session{
		room:  room,
		scale: scale,
		members: map[domain.Identity]*member{
			room.Admin: {meta: admin, conn: adminConn},
		},
		lastActivity: time.Now(),
	}, nil
}

func (s *Session) ID() domain.RoomID       { return s.room.ID }
func (s *Session) Admin() domain.Identity  { return s.room.Admin }
func (s *Session) Scale() domain.VoteScale { return s.scale }

func (s *Session) Info() RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoomInfo{ID: s.room.ID, ParticipantCount: len(s.members)}
}

func (s *Session) Roster() []MemberDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rosterLocked()
}

// Join inserts a new participant and tells everyone else. A known
// identity joining again gets a fresh participant: its previous vote is
// gone, same as the original behaviour for reconnecting clients.
func (s *Session) Join(id domain.Identity, name string, conn Connection) ([]MemberDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrRoomNotFound
	}
	if _, rejoin := s.members[id]; !rejoin && len(s.members) >= s.room.Capacity {
		return nil, domain.ErrRoomFull
	}
	p, err := domain.NewParticipant(id, name, id == s.room.Admin)
	if err != nil {
		return nil, err
	}
	s.members[id] = &member{meta: p, conn: conn}
	s.touchLocked()
	s.broadcastLocked(UserJoined{Type: EventUserJoined, Identity: id, Name: name}, id)
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Str("identity", string(id)).Msg("participant joined")
	return s.rosterLocked(), nil
}

// Vote records a validated vote and fans out the fresh aggregate.
func (s *Session) Vote(id domain.Identity, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrRoomNotFound
	}
	m, ok := s.members[id]
	if !ok {
		return domain.ErrNotAMember
	}
	if err := s.scale.Validate(value); err != nil {
		return err
	}
	m.meta.SetVote(value)
	s.touchLocked()
	s.broadcastVotesLocked()
	return nil
}

// ResetVotes clears every participant's vote. Admin only. The broadcast
// is a dedicated event so clients can tell a reset from a round where
// nobody has voted yet. Idempotent: resetting a clean board is fine.
func (s *Session) ResetVotes(id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrRoomNotFound
	}
	if id != s.room.Admin {
		return domain.ErrNotAuthorized
	}
	for _, m := range s.members {
		m.meta.ClearVote()
	}
	s.touchLocked()
	s.broadcastLocked(VotesReset{Type: EventVotesReset})
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Msg("votes reset")
	return nil
}

// Kick removes target from the room. Admin only; the admin itself is
// not a kickable target, it closes the room instead. The target is
// notified directly so the transport can tear its connection down.
func (s *Session) Kick(id, target domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrRoomNotFound
	}
	if id != s.room.Admin || target == s.room.Admin {
		return domain.ErrNotAuthorized
	}
	m, ok := s.members[target]
	if !ok {
		return domain.ErrNotAMember
	}
	if f, ok := encode(Kicked{Type: EventKicked}); ok {
		_ = m.conn.TrySend(f)
	}
	hadVote := m.meta.Vote != nil
	delete(s.members, target)
	s.touchLocked()
	s.broadcastLocked(UserLeft{Type: EventUserLeft, Identity: target, Name: m.meta.Name})
	if hadVote {
		s.broadcastVotesLocked()
	}
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Str("identity", string(target)).Msg("participant kicked")
	return nil
}

// Close broadcasts closure and moves the session to its terminal state.
// Admin only. The caller removes the room from the registry afterwards.
func (s *Session) Close(id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrRoomNotFound
	}
	if id != s.room.Admin {
		return domain.ErrNotAuthorized
	}
	s.closeLocked()
	return nil
}

// Exit handles a voluntary departure or a transport disconnect. Admin
// departure always closes the room; a room is never left without its
// authority. Unknown identities are a no-op, which is what makes the
// disconnect cascade safe to run against every open room.
func (s *Session) Exit(id domain.Identity) (roomClosed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if id == s.room.Admin {
		s.closeLocked()
		return true
	}
	m, ok := s.members[id]
	if !ok {
		return false
	}
	hadVote := m.meta.Vote != nil
	delete(s.members, id)
	s.broadcastLocked(UserLeft{Type: EventUserLeft, Identity: id, Name: m.meta.Name})
	if hadVote {
		s.broadcastVotesLocked()
	}
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Str("identity", string(id)).Msg("participant left")
	return false
}

// CloseIfIdle is the sweeper's entry point. It takes the same lock as
// every other transition, so a sweep can never close a room mid-vote or
// double-broadcast closure against a racing admin close.
func (s *Session) CloseIfIdle(now time.Time, idleAfter time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	if now.Sub(s.lastActivity) <= idleAfter {
		return false
	}
	s.closeLocked()
	return true
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	if f, ok := encode(RoomClosed{Type: EventRoomClosed}); ok {
		for _, m := range s.members {
			_ = m.conn.TrySend(f)
		}
	}
	s.members = make(map[domain.Identity]*member)
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Msg("room closed")
}

// touchLocked keeps lastActivity monotonically non-decreasing.
func (s *Session) touchLocked() {
	if now := time.Now(); now.After(s.lastActivity) {
		s.lastActivity = now
	}
}

func (s *Session) participantsLocked() []*domain.Participant {
	out := make([]*domain.Participant, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.meta)
	}
	return out
}

func (s *Session) rosterLocked() []MemberDTO {
	out := make([]MemberDTO, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, MemberDTO{
			Identity: m.meta.Identity,
			Name:     m.meta.Name,
			Admin:    m.meta.Admin,
			Voted:    m.meta.Vote != nil,
		})
	}
	return out
}

func (s *Session) broadcastVotesLocked() {
	votes, avg := AggregateVotes(s.participantsLocked())
	s.broadcastLocked(VoteUpdate{Type: EventVoteUpdate, Votes: votes, AverageVote: avg})
}

func (s *Session) broadcastLocked(v any, except ...domain.Identity) {
	f, ok := encode(v)
	if !ok {
		return
	}
	for id, m := range s.members {
		skip := false
		for _, ex := range except {
			if id == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		_ = m.conn.TrySend(f)
	}
}

func encode(v any) (Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.session").Msg("encode event")
		return nil, false
	}
	return b, true
}
