package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

const writeWait = 5 * time.Second

// writePump is the socket's sole writer and the one that finally
// closes it, after every frame queued before teardown has gone out.
// A closed send channel still yields its buffered frames, so the
// normal receive case doubles as the drain on that path.
func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			ctl.flushPending(c)
			return
		case <-ticker.C:
			if err := c.writeFrame(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Info().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.writeFrame(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// flushPending writes whatever was queued before cancellation, so a
// frame enqueued right before teardown (a kick notice) still reaches
// the peer before the deferred socket close.
func (ctl *SignalWSController) flushPending(c *WsSignalConn) {
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeFrame(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, identity domain.Identity, c *WsSignalConn) {
	defer func() {
		// The cascade runs whether the client said exit_room or the
		// socket just died; it is the backstop for abrupt loss.
		log.Info().Str("module", "signal").Str("identity", string(identity)).Msg("readPump closing")
		c.Close()
		ctl.Orch.Disconnect(identity)
	}()

	// A peer that stops answering pings is dead; without the deadline
	// it would only surface at TCP-timeout scale.
	pongWait := ctl.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("identity", string(identity)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "signal").Str("identity", string(identity)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(identity, c, data)
		}
	}
}

func (ctl *SignalWSController) handleEvent(identity domain.Identity, c *WsSignalConn, data []byte) {
	var env struct {
		Type   string `json:"type"`
		Token  string `json:"token"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendJSON(c, map[string]any{
			"type":  core.EventError,
			"error": "bad_payload",
		})
		return
	}

	if ctl.Policy.RequiresAuth(env.Type) {
		claims, err := ctl.Orch.Auth.Verify(env.Token)
		if err != nil || claims.Identity != identity || claims.Room != domain.RoomID(env.RoomID) {
			ctl.sendError(c, domain.ErrAuthentication)
			return
		}
	}

	switch env.Type {
	case "create_room":
		ctl.handleCreateRoom(identity, c, data)
	case "join_room":
		ctl.handleJoinRoom(identity, c, data)
	case "vote":
		ctl.handleVote(identity, c, data)
	case "reset_votes":
		ctl.handleResetVotes(identity, c, domain.RoomID(env.RoomID))
	case "kick_user":
		ctl.handleKickUser(identity, c, data)
	case "close_room":
		ctl.handleCloseRoom(identity, c, domain.RoomID(env.RoomID))
	case "exit_room":
		ctl.handleExitRoom(identity, domain.RoomID(env.RoomID))
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendJSON(c, map[string]any{
			"type":  core.EventError,
			"error": "unknown_event",
		})
	}
}

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	ctl.sendJSON(c, map[string]any{"type": "pong"})
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendError reports a failed operation to the originating connection
// only. Errors are never broadcast and never end the connection.
func (ctl *SignalWSController) sendError(c *WsSignalConn, err error) {
	ctl.sendJSON(c, map[string]any{
		"type":  core.EventError,
		"code":  errCode(err),
		"error": err.Error(),
	})
}

func errCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomExists):
		return "RoomExists"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "RoomNotFound"
	case errors.Is(err, domain.ErrRoomFull):
		return "RoomFull"
	case errors.Is(err, domain.ErrNotAMember):
		return "NotAMember"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "NotAuthorized"
	case errors.Is(err, domain.ErrInvalidVote):
		return "InvalidVote"
	case errors.Is(err, domain.ErrAuthentication):
		return "AuthenticationError"
	default:
		return "BadRequest"
	}
}
