// Package orch ties the room registry, connection registry and token
// authority together behind one method per inbound operation. Errors
// are returned to the caller for the originating connection only; room
// members learn about accepted transitions through session broadcasts.
package orch

import (
	"github.com/dkeye/Pointing/internal/app"
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type Orchestrator struct {
	Rooms *core.Registry
	Conns *app.ConnRegistry
	Auth  *app.TokenAuthority

	DefaultCapacity int
	MaxCapacity     int
}

// Credential is the direct reply to a successful create or join.
type Credential struct {
	RoomID  domain.RoomID
	Admin   domain.Identity
	Token   string
	Members []core.MemberDTO
}

func (o *Orchestrator) clampCapacity(requested int) int {
	if requested <= 0 {
		return o.DefaultCapacity
	}
	if o.MaxCapacity > 0 && requested > o.MaxCapacity {
		return o.MaxCapacity
	}
	return requested
}
