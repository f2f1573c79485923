package domain

import (
	"fmt"
	"math"
)

// VoteScale decides which numeric values a room accepts. The original
// deployments disagreed on this, so it is a configuration choice.
type VoteScale string

const (
	// ScaleAny accepts any non-negative finite number.
	ScaleAny VoteScale = "any"
	// ScaleFibonacci restricts votes to the usual pointing deck.
	ScaleFibonacci VoteScale = "fibonacci"
)

var fibonacciDeck = []float64{0, 1, 2, 3, 5, 8, 13, 20, 40, 100}

func ParseScale(s string) (VoteScale, error) {
	switch VoteScale(s) {
	case ScaleAny, ScaleFibonacci:
		return VoteScale(s), nil
	case "":
		return ScaleAny, nil
	default:
		return "", fmt.Errorf("unknown vote scale %q", s)
	}
}

// Validate reports whether v is an acceptable vote on this scale.
func (s VoteScale) Validate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrInvalidVote
	}
	if s != ScaleFibonacci {
		return nil
	}
	for _, card := range fibonacciDeck {
		if v == card {
			return nil
		}
	}
	return ErrInvalidVote
}
