package orch

import (
	"github.com/dkeye/Pointing/internal/domain"
)

// Vote records a participant's estimate; the session fans out the new
// aggregate to the room.
func (o *Orchestrator) Vote(id domain.Identity, roomID domain.RoomID, value float64) error {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return sess.Vote(id, value)
}

// ResetVotes clears the board for a new round. Admin only.
func (o *Orchestrator) ResetVotes(id domain.Identity, roomID domain.RoomID) error {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return sess.ResetVotes(id)
}

// KickUser removes target from the room and tears down its transport.
func (o *Orchestrator) KickUser(id domain.Identity, roomID domain.RoomID, target domain.Identity) error {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := sess.Kick(id, target); err != nil {
		return err
	}
	o.Conns.Cancel(target)
	return nil
}
