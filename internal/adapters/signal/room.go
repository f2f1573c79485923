package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

func (ctl *SignalWSController) handleCreateRoom(
	identity domain.Identity,
	conn *WsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Type            string `json:"type"`
		RoomID          string `json:"roomId"`
		Name            string `json:"name"`
		MaxParticipants int    `json:"maxParticipants"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"error": "bad_payload",
		})
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(identity) {
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"code":  "RateLimited",
			"error": "too many requests, please try again later",
		})
		return
	}

	cred, err := ctl.Orch.CreateRoom(identity, conn, domain.RoomID(p.RoomID), p.Name, p.MaxParticipants)
	if err != nil {
		ctl.sendError(conn, err)
		return
	}

	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", p.RoomID).Msg("room created")
	resp := struct {
		Type          string          `json:"type"`
		RoomID        domain.RoomID   `json:"roomId"`
		AdminIdentity domain.Identity `json:"adminIdentity"`
		Token         string          `json:"token"`
	}{
		Type:          core.EventRoomCreated,
		RoomID:        cred.RoomID,
		AdminIdentity: cred.Admin,
		Token:         cred.Token,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleJoinRoom(
	identity domain.Identity,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Name   string `json:"name"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"error": "bad_payload",
		})
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(identity) {
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"code":  "RateLimited",
			"error": "too many requests, please try again later",
		})
		return
	}

	cred, err := ctl.Orch.JoinRoom(identity, conn, domain.RoomID(p.RoomID), p.Name)
	if err != nil {
		ctl.sendError(conn, err)
		return
	}

	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", p.RoomID).Msg("joined room")
	resp := struct {
		Type          string           `json:"type"`
		RoomID        domain.RoomID    `json:"roomId"`
		AdminIdentity domain.Identity  `json:"adminIdentity"`
		Token         string           `json:"token"`
		Members       []core.MemberDTO `json:"members"`
	}{
		Type:          core.EventRoomJoined,
		RoomID:        cred.RoomID,
		AdminIdentity: cred.Admin,
		Token:         cred.Token,
		Members:       cred.Members,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleCloseRoom(
	identity domain.Identity,
	conn *WsSignalConn,
	roomID domain.RoomID,
) {
	if err := ctl.Orch.CloseRoom(identity, roomID); err != nil {
		ctl.sendError(conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", string(roomID)).Msg("room closed by admin")
}

// handleExitRoom sends no reply to the exiting identity; the room hears
// user_left, or room_closed when the admin walks out.
func (ctl *SignalWSController) handleExitRoom(
	identity domain.Identity,
	roomID domain.RoomID,
) {
	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", string(roomID)).Msg("exit room")
	ctl.Orch.ExitRoom(identity, roomID)
}
