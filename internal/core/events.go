package core

import "github.com/dkeye/Pointing/internal/domain"

// Wire event types. Payload field names are the contract with clients.
const (
	EventRoomCreated = "room_created"
	EventRoomJoined  = "room_joined"
	EventUserJoined  = "user_joined"
	EventVoteUpdate  = "vote_update"
	EventVotesReset  = "votes_reset"
	EventKicked      = "kicked"
	EventUserLeft    = "user_left"
	EventRoomClosed  = "room_closed"
	EventError       = "error"
)

type UserJoined struct {
	Type     string          `json:"type"`
	Identity domain.Identity `json:"identity"`
	Name     string          `json:"name"`
}

type VoteUpdate struct {
	Type  string                      `json:"type"`
	Votes map[domain.Identity]float64 `json:"votes"`
	// AverageVote is absent when no one has voted; it is never NaN.
	AverageVote *float64 `json:"averageVote,omitempty"`
}

type VotesReset struct {
	Type string `json:"type"`
}

type Kicked struct {
	Type string `json:"type"`
}

type UserLeft struct {
	Type     string          `json:"type"`
	Identity domain.Identity `json:"identity"`
	Name     string          `json:"name"`
}

type RoomClosed struct {
	Type string `json:"type"`
}
