package signal

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Pointing/internal/app"
	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

func newTestController() *SignalWSController {
	o := &orch.Orchestrator{
		Rooms:           core.NewRegistry(domain.ScaleAny),
		Conns:           app.NewConnRegistry(),
		Auth:            app.NewTokenAuthority("test-secret", time.Hour, nil),
		DefaultCapacity: 4,
		MaxCapacity:     8,
	}
	return NewSignalWSController(o, app.DefaultPolicy(), NewRoomRateLimiter(100, time.Minute), 0, time.Minute)
}

// testConn builds a WsSignalConn that never touches a socket; frames
// land in the send channel where the write pump would pick them up.
func testConn() *WsSignalConn {
	return &WsSignalConn{send: make(chan core.Frame, 16)}
}

func nextEvent(t *testing.T, c *WsSignalConn) map[string]any {
	t.Helper()
	select {
	case f := <-c.send:
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		return m
	default:
		t.Fatal("no frame queued")
		return nil
	}
}

func drain(c *WsSignalConn) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestHandleEventRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	conn := testConn()

	ctl.handleEvent("id-1", conn, []byte("{nope"))
	ev := nextEvent(t, conn)
	assert.Equal(t, core.EventError, ev["type"])
}

func TestAuthGateBlocksUnauthenticatedEvents(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	conn := testConn()

	ctl.handleEvent("id-1", conn, []byte(`{"type":"vote","roomId":"R1","vote":5}`))
	ev := nextEvent(t, conn)
	assert.Equal(t, core.EventError, ev["type"])
	assert.Equal(t, "AuthenticationError", ev["code"])
}

func TestCreateVoteFlowThroughGate(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	conn := testConn()

	ctl.handleEvent("id-1", conn, []byte(`{"type":"create_room","roomId":"R1","name":"Alice","maxParticipants":3}`))
	ev := nextEvent(t, conn)
	require.Equal(t, core.EventRoomCreated, ev["type"])
	assert.Equal(t, "id-1", ev["adminIdentity"])
	token, _ := ev["token"].(string)
	require.NotEmpty(t, token)

	msg := fmt.Sprintf(`{"type":"vote","roomId":"R1","token":%q,"vote":5}`, token)
	ctl.handleEvent("id-1", conn, []byte(msg))
	ev = nextEvent(t, conn)
	require.Equal(t, core.EventVoteUpdate, ev["type"])
	assert.Equal(t, 5.0, ev["averageVote"])
}

func TestAuthGateRejectsForeignToken(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	adminConn := testConn()

	ctl.handleEvent("id-1", adminConn, []byte(`{"type":"create_room","roomId":"R1","name":"Alice"}`))
	ev := nextEvent(t, adminConn)
	require.Equal(t, core.EventRoomCreated, ev["type"])
	token := ev["token"].(string)

	// a different connection replaying the admin's token gets nowhere
	thief := testConn()
	msg := fmt.Sprintf(`{"type":"reset_votes","roomId":"R1","token":%q}`, token)
	ctl.handleEvent("id-2", thief, []byte(msg))
	ev = nextEvent(t, thief)
	assert.Equal(t, "AuthenticationError", ev["code"])
}

func TestAuthGateRejectsTokenForOtherRoom(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	conn := testConn()

	ctl.handleEvent("id-1", conn, []byte(`{"type":"create_room","roomId":"R1","name":"Alice"}`))
	ev := nextEvent(t, conn)
	require.Equal(t, core.EventRoomCreated, ev["type"])
	token := ev["token"].(string)
	drain(conn)

	msg := fmt.Sprintf(`{"type":"close_room","roomId":"R2","token":%q}`, token)
	ctl.handleEvent("id-1", conn, []byte(msg))
	ev = nextEvent(t, conn)
	assert.Equal(t, "AuthenticationError", ev["code"])
}

func TestUnknownEventNeedsAuthToo(t *testing.T) {
	t.Parallel()

	ctl := newTestController()
	conn := testConn()

	ctl.handleEvent("id-1", conn, []byte(`{"type":"brand_new_event"}`))
	ev := nextEvent(t, conn)
	assert.Equal(t, "AuthenticationError", ev["code"])
}

func TestErrCodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code string
	}{
		{domain.ErrRoomExists, "RoomExists"},
		{domain.ErrRoomNotFound, "RoomNotFound"},
		{domain.ErrRoomFull, "RoomFull"},
		{domain.ErrNotAMember, "NotAMember"},
		{domain.ErrNotAuthorized, "NotAuthorized"},
		{domain.ErrInvalidVote, "InvalidVote"},
		{domain.ErrAuthentication, "AuthenticationError"},
		{domain.ErrNameEmpty, "BadRequest"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.code, errCode(tc.err), tc.code)
	}
}
