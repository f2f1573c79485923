// Package domain contains the entities of an estimation session and
// their validation rules. No transport or concurrency logic here.
package domain

import "time"

const MaxDisplayNameLen = 36

// Identity is the per-connection identity. It is the only identity the
// system knows: a participant that reconnects under a new connection is
// a stranger and has to join again.
type Identity string

// Participant is one connection currently joined to a room. The admin
// is a Participant like any other, flagged rather than kept in a
// separate table, so vote aggregation stays uniform.
type Participant struct {
	Identity Identity
	Name     string
	Admin    bool
	Vote     *float64 // nil until the participant votes, nil again after a reset
	JoinedAt time.Time
}

func NewParticipant(id Identity, name string, admin bool) (*Participant, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{
		Identity: id,
		Name:     name,
		Admin:    admin,
		JoinedAt: time.Now(),
	}, nil
}

// SetVote records a vote already validated against the room's scale.
func (p *Participant) SetVote(v float64) {
	p.Vote = &v
}

func (p *Participant) ClearVote() {
	p.Vote = nil
}
