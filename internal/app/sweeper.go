package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
)

// Sweeper reclaims idle rooms. Each sweep gives every room the same
// treatment an admin close would get, through the room's own lock, so
// sweeping and live traffic on the same room never interleave.
type Sweeper struct {
	Registry  *core.Registry
	Interval  time.Duration
	IdleAfter time.Duration
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.sweeper").Dur("interval", s.Interval).Dur("idle_after", s.IdleAfter).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweeper").Msg("sweeper stopped")
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *Sweeper) sweep(now time.Time) {
	for _, id := range s.Registry.ListIDs() {
		sess, ok := s.Registry.Get(id)
		if !ok {
			// closed between listing and lookup
			continue
		}
		if sess.CloseIfIdle(now, s.IdleAfter) {
			s.Registry.Remove(id, sess)
			log.Info().Str("module", "app.sweeper").Str("room", string(id)).Msg("closed idle room")
		}
	}
}
