/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import "time"

// Limits holds the tunable bounds and timings of a game.
type Limits struct {
	TimeLimitMin  int `json:"time_limit_min"`
	TimeLimitMax  int `json:"time_limit_max"`
	TimeLimitStep int `json:"time_limit_step"`
	RoundsMin     int `json:"rounds_min"`
	RoundsMax     int `json:"rounds_max"`
	MinTeams      int `json:"min_teams"`

	DefaultTimeLimit int `json:"default_time_limit"`
	DefaultRounds    int `json:"default_rounds"`

	// ExpiryDelay separates the timer reaching zero from the automatic end of the turn.
	ExpiryDelay time.Duration `json:"-"`
	// HandoffDelay separates the end of a turn from the next team (or round) becoming ready.
	HandoffDelay time.Duration `json:"-"`
}

func DefaultLimits() Limits {
	return Limits{
		TimeLimitMin:     15,
		TimeLimitMax:     180,
		TimeLimitStep:    15,
		RoundsMin:        1,
		RoundsMax:        10,
		MinTeams:         2,
		DefaultTimeLimit: 60,
		DefaultRounds:    3,
		ExpiryDelay:      time.Second,
		HandoffDelay:     2 * time.Second,
	}
}

// ClampTimeLimit bounds seconds to the configured range, snapped to the nearest step.
func (l Limits) ClampTimeLimit(seconds int) int {
	seconds = min(max(seconds, l.TimeLimitMin), l.TimeLimitMax)
	if l.TimeLimitStep <= 1 {
		return seconds
	}

	steps := (seconds - l.TimeLimitMin + l.TimeLimitStep/2) / l.TimeLimitStep
	seconds = l.TimeLimitMin + steps*l.TimeLimitStep

	// the max may not sit on a step boundary
	for seconds > l.TimeLimitMax {
		seconds -= l.TimeLimitStep
	}

	return seconds
}

func (l Limits) ClampRounds(n int) int {
	return min(max(n, l.RoundsMin), l.RoundsMax)
}
