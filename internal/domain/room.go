package domain

import "time"

const MaxRoomIDLen = 36

type RoomID string

// Room carries the immutable facts of an estimation session. Mutable
// state (participants, votes, activity) lives in core, keyed by ID.
type Room struct {
	ID        RoomID
	Admin     Identity
	Capacity  int
	CreatedAt time.Time
}

func NewRoom(id RoomID, admin Identity, capacity int) (*Room, error) {
	if len(id) == 0 {
		return nil, ErrNameEmpty
	}
	if len(id) > MaxRoomIDLen {
		return nil, ErrNameTooLong
	}
	return &Room{
		ID:        id,
		Admin:     admin,
		Capacity:  capacity,
		CreatedAt: time.Now(),
	}, nil
}
