package core

import "github.com/dkeye/Pointing/internal/domain"

// Frame is an encoded outbound payload.
type Frame []byte

// Connection is the transport endpoint a room fans out to.
// Owned by the adapter; the adapter must Close() it. TrySend never
// blocks, and sending to an already-closed connection is a no-op for
// the room, not a failure it has to handle.
type Connection interface {
	TrySend(Frame) error
	Close()
}

// MemberDTO is a read-only roster view for clients (no transport fields).
type MemberDTO struct {
	Identity domain.Identity `json:"identity"`
	Name     string          `json:"name"`
	Admin    bool            `json:"admin"`
	Voted    bool            `json:"voted"`
}

type RoomInfo struct {
	ID               domain.RoomID `json:"id"`
	ParticipantCount int           `json:"participant_count"`
}
