/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import "time"

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

// Scheduler runs f once after d. The returned func cancels the callback if it has
// not fired yet. Callbacks must be delivered on the goroutine that owns the Game.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// TurnTimer counts down one turn in whole seconds. Every Start and Stop opens a
// new generation; ticks carrying an older generation are ignored.
type TurnTimer struct {
	state      TimerState
	timeLeft   int
	generation uint64
}

func NewTurnTimer() *TurnTimer {
	return &TurnTimer{state: TimerIdle}
}

func (t *TurnTimer) Start(limit int) uint64 {
	t.generation++
	t.state = TimerRunning
	t.timeLeft = max(limit, 0)

	if t.timeLeft == 0 {
		t.state = TimerExpired
	}

	return t.generation
}

// Tick counts one second down. It reports whether the tick was accepted and whether
// the timer expired on it.
func (t *TurnTimer) Tick(generation uint64) (accepted, expired bool) {
	if generation != t.generation || t.state != TimerRunning {
		return false, false
	}

	t.timeLeft--
	if t.timeLeft <= 0 {
		t.timeLeft = 0
		t.state = TimerExpired

		return true, true
	}

	return true, false
}

func (t *TurnTimer) Stop() {
	t.generation++
	t.state = TimerIdle
}

// Reset stops the timer and rewinds it to limit, ready for the next turn.
func (t *TurnTimer) Reset(limit int) {
	t.Stop()
	t.timeLeft = max(limit, 0)
}

func (t *TurnTimer) State() TimerState { return t.state }

func (t *TurnTimer) TimeLeft() int { return t.timeLeft }

func (t *TurnTimer) Generation() uint64 { return t.generation }

func (t *TurnTimer) Running() bool { return t.state == TimerRunning }
