/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import (
	"fmt"
	"time"
)

// manualClock is a Scheduler driven by Advance. With leaky set, stop funcs report
// success but the callback still fires, like a timer that raced its cancellation.
type manualClock struct {
	now     time.Duration
	timers  []*manualTimer
	created int
	leaky   bool
}

type manualTimer struct {
	at      time.Duration
	order   int
	f       func()
	fired   bool
	stopped bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) func() bool {
	t := &manualTimer{at: c.now + d, order: c.created, f: f}
	c.created++
	c.timers = append(c.timers, t)

	return func() bool {
		if t.fired || t.stopped {
			return false
		}
		if !c.leaky {
			t.stopped = true
		}
		return true
	}
}

func (c *manualClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > end {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.order < next.order) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = end
}

type countingWords struct {
	calls int
}

func (w *countingWords) NextWord(enabled []Category) (Word, error) {
	if len(enabled) == 0 {
		return Word{}, ErrNoCategories
	}
	w.calls++

	return Word{Text: fmt.Sprintf("word-%d", w.calls), Category: enabled[0].Name}, nil
}

type recorder struct {
	changes  int
	expiries int
	last     Snapshot
}

func (r *recorder) StateChanged(s Snapshot) {
	r.changes++
	r.last = s
}

func (r *recorder) TimerExpired(s Snapshot) {
	r.expiries++
	r.last = s
}

func newTestGame() (*Game, *manualClock, *recorder) {
	clock := &manualClock{}
	rec := &recorder{}

	return NewGame(DefaultLimits(), &countingWords{}, clock, rec), clock, rec
}

// runOutClock lets the current turn time out and waits for the handoff to finish.
func runOutClock(g *Game, c *manualClock) {
	l := g.limits
	c.Advance(time.Duration(g.session.TimeLimit)*time.Second + l.ExpiryDelay + l.HandoffDelay)
}
