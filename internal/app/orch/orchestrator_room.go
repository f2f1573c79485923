package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

// CreateRoom makes id's caller the admin and sole participant of a new
// room, and mints its session credential.
func (o *Orchestrator) CreateRoom(id domain.Identity, conn core.Connection, roomID domain.RoomID, name string, capacity int) (Credential, error) {
	capacity = o.clampCapacity(capacity)
	sess, err := o.Rooms.Create(roomID, capacity, id, name, conn)
	if err != nil {
		return Credential{}, err
	}
	token, err := o.Auth.Issue(id, roomID)
	if err != nil {
		// no credential means no usable room; roll the mapping back
		o.Rooms.Remove(roomID, sess)
		return Credential{}, err
	}
	return Credential{RoomID: roomID, Admin: id, Token: token, Members: sess.Roster()}, nil
}

// JoinRoom adds the caller as a participant and mints its credential.
// The roster in the reply lets late joiners see who is already there.
func (o *Orchestrator) JoinRoom(id domain.Identity, conn core.Connection, roomID domain.RoomID, name string) (Credential, error) {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return Credential{}, domain.ErrRoomNotFound
	}
	roster, err := sess.Join(id, name, conn)
	if err != nil {
		return Credential{}, err
	}
	token, err := o.Auth.Issue(id, roomID)
	if err != nil {
		sess.Exit(id)
		return Credential{}, err
	}
	return Credential{RoomID: roomID, Admin: sess.Admin(), Token: token, Members: roster}, nil
}

// CloseRoom is the admin's explicit shutdown of a room.
func (o *Orchestrator) CloseRoom(id domain.Identity, roomID domain.RoomID) error {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := sess.Close(id); err != nil {
		return err
	}
	o.Rooms.Remove(roomID, sess)
	return nil
}

// ExitRoom removes the caller from the room; if the caller is the
// admin the whole room closes.
func (o *Orchestrator) ExitRoom(id domain.Identity, roomID domain.RoomID) {
	sess, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	if sess.Exit(id) {
		o.Rooms.Remove(roomID, sess)
	}
}

// Disconnect is the correctness backstop for abrupt network loss: it
// applies exit semantics to every open room the identity belongs to,
// then forgets the connection. Identity-to-room lookup is not indexed,
// so it scans; exits on rooms the identity never joined are no-ops.
func (o *Orchestrator) Disconnect(id domain.Identity) {
	for _, roomID := range o.Rooms.ListIDs() {
		sess, ok := o.Rooms.Get(roomID)
		if !ok {
			continue
		}
		if sess.Exit(id) {
			o.Rooms.Remove(roomID, sess)
		}
	}
	o.Conns.Unbind(id)
	log.Info().Str("module", "app.orch").Str("identity", string(id)).Msg("disconnect handled")
}
