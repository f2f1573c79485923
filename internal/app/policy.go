package app

// EventPolicy is the per-event-type authorization table: which inbound
// event types must present a verified token before they are processed.
// Creating and joining a room are how a credential is obtained in the
// first place, so they pass without one; everything else does not.
type EventPolicy map[string]bool

func DefaultPolicy() EventPolicy {
	return EventPolicy{
		"create_room": false,
		"join_room":   false,
		"ping":        false,
		"vote":        true,
		"reset_votes": true,
		"kick_user":   true,
		"close_room":  true,
		"exit_room":   true,
	}
}

// RequiresAuth reports whether eventType must pass the auth gate.
// Unknown event types require auth.
func (p EventPolicy) RequiresAuth(eventType string) bool {
	required, known := p[eventType]
	if !known {
		return true
	}
	return required
}
