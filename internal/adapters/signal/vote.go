package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

func (ctl *SignalWSController) handleVote(
	identity domain.Identity,
	conn *WsSignalConn,
	data []byte,
) {
	type votePayload struct {
		Type   string  `json:"type"`
		RoomID string  `json:"roomId"`
		Vote   float64 `json:"vote"`
	}
	var p votePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad vote payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"error": "bad_payload",
		})
		return
	}

	if err := ctl.Orch.Vote(identity, domain.RoomID(p.RoomID), p.Vote); err != nil {
		ctl.sendError(conn, err)
		return
	}
	log.Debug().Str("module", "signal").Str("identity", string(identity)).Str("room", p.RoomID).Float64("vote", p.Vote).Msg("vote accepted")
}

func (ctl *SignalWSController) handleResetVotes(
	identity domain.Identity,
	conn *WsSignalConn,
	roomID domain.RoomID,
) {
	if err := ctl.Orch.ResetVotes(identity, roomID); err != nil {
		ctl.sendError(conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", string(roomID)).Msg("votes reset")
}

func (ctl *SignalWSController) handleKickUser(
	identity domain.Identity,
	conn *WsSignalConn,
	data []byte,
) {
	type kickPayload struct {
		Type           string `json:"type"`
		RoomID         string `json:"roomId"`
		TargetIdentity string `json:"targetIdentity"`
	}
	var p kickPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad kick payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  core.EventError,
			"error": "bad_payload",
		})
		return
	}

	if err := ctl.Orch.KickUser(identity, domain.RoomID(p.RoomID), domain.Identity(p.TargetIdentity)); err != nil {
		ctl.sendError(conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("identity", string(identity)).Str("room", p.RoomID).Str("target", p.TargetIdentity).Msg("user kicked")
}
