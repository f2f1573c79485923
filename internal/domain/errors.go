package domain

import "errors"

// Operation outcomes reported back to the originating connection.
// These never terminate the connection and are never broadcast.
var (
	ErrRoomExists     = errors.New("room already exists")
	ErrRoomNotFound   = errors.New("room does not exist")
	ErrRoomFull       = errors.New("room is full")
	ErrNotAMember     = errors.New("not a member of this room")
	ErrNotAuthorized  = errors.New("only the room admin can do that")
	ErrInvalidVote    = errors.New("invalid vote value")
	ErrAuthentication = errors.New("authentication failed")

	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)
