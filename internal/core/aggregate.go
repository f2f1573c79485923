package core

import "github.com/dkeye/Pointing/internal/domain"

// AggregateVotes derives the raw vote map and arithmetic mean from the
// participant set. Votes live only on participants, so the aggregate
// can never drift from membership. A nil average means no one has
// voted; callers must not treat it as zero.
func AggregateVotes(participants []*domain.Participant) (map[domain.Identity]float64, *float64) {
	votes := make(map[domain.Identity]float64, len(participants))
	sum := 0.0
	for _, p := range participants {
		if p.Vote == nil {
			continue
		}
		votes[p.Identity] = *p.Vote
		sum += *p.Vote
	}
	if len(votes) == 0 {
		return votes, nil
	}
	avg := sum / float64(len(votes))
	return votes, &avg
}
