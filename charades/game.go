/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package charades runs a game of team charades: setup, timed turns, rounds,
// and the final standings.
package charades

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
)

// TurnState is the progress of the current turn while a game is playing.
type TurnState string

const (
	TurnReady   TurnState = "ready"   // waiting for the team to begin
	TurnActive  TurnState = "active"  // timer running, words being guessed
	TurnExpired TurnState = "expired" // timer hit zero, turn about to end
	TurnHandoff TurnState = "handoff" // turn over, next team or round pending
)

// Listener is told about every state change. Implementations must not call back
// into the Game synchronously.
type Listener interface {
	StateChanged(s Snapshot)
	TimerExpired(s Snapshot)
}

type nopListener struct{}

func (nopListener) StateChanged(Snapshot) {}
func (nopListener) TimerExpired(Snapshot) {}

// Game is the turn and round state machine for one table.
//
// A Game is not safe for concurrent use: every method, and every callback handed
// to the Scheduler, must run on the same goroutine.
type Game struct {
	limits   Limits
	session  *Session
	words    WordProvider
	sched    Scheduler
	listener Listener

	phase       Phase
	round       int
	teamIndex   int
	turnsPlayed int
	turn        TurnState
	word        Word
	timer       *TurnTimer

	roundsCompleted int
	turnsCompleted  int

	// seq invalidates every callback scheduled before the last transition
	seq       uint64
	tickStop  func() bool
	delayStop func() bool
}

func NewGame(limits Limits, words WordProvider, sched Scheduler, listener Listener) *Game {
	if listener == nil {
		listener = nopListener{}
	}

	g := &Game{
		limits:   limits,
		session:  NewSession(limits),
		words:    words,
		sched:    sched,
		listener: listener,
		phase:    PhaseSetup,
		round:    1,
		timer:    NewTurnTimer(),
	}
	g.timer.Reset(g.session.TimeLimit)

	return g
}

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) ToggleCategory(id string) error {
	if g.phase != PhaseSetup {
		return ErrNotInSetup
	}

	if g.session.ToggleCategory(id) {
		g.notify()
	}

	return nil
}

func (g *Game) AddTeam() (Team, error) {
	if g.phase != PhaseSetup {
		return Team{}, ErrNotInSetup
	}

	t := g.session.AddTeam()
	g.notify()

	return t, nil
}

// RemoveTeam reports whether the team was removed. Removing a team that would drop
// the roster below the minimum is ignored, not an error.
func (g *Game) RemoveTeam(id string) (bool, error) {
	if g.phase != PhaseSetup {
		return false, ErrNotInSetup
	}

	removed := g.session.RemoveTeam(id)
	if removed {
		g.notify()
	}

	return removed, nil
}

func (g *Game) RenameTeam(id, name string) error {
	if g.phase != PhaseSetup {
		return ErrNotInSetup
	}

	if err := g.session.RenameTeam(id, name); err != nil {
		return err
	}
	g.notify()

	return nil
}

func (g *Game) SetTimeLimit(seconds int) (int, error) {
	if g.phase != PhaseSetup {
		return g.session.TimeLimit, ErrNotInSetup
	}

	applied := g.session.SetTimeLimit(seconds)
	g.timer.Reset(applied)
	g.notify()

	return applied, nil
}

func (g *Game) SetTotalRounds(n int) (int, error) {
	if g.phase != PhaseSetup {
		return g.session.TotalRounds, ErrNotInSetup
	}

	applied := g.session.SetTotalRounds(n)
	g.notify()

	return applied, nil
}

func (g *Game) CanStart() bool {
	return g.phase == PhaseSetup && g.session.CanStart()
}

// StartGame leaves setup. It returns the missing precondition when the game cannot start.
func (g *Game) StartGame() error {
	if g.phase != PhaseSetup {
		return ErrNotInSetup
	}

	if err := g.session.StartBlocker(); err != nil {
		return err
	}

	g.phase = PhasePlaying
	g.round = 1
	g.teamIndex = 0
	g.turnsPlayed = 0
	g.roundsCompleted = 0
	g.turnsCompleted = 0
	g.prepareTurn()
	g.notify()

	return nil
}

// BeginTurn draws the first word for the current team and starts its clock.
func (g *Game) BeginTurn() error {
	if g.phase != PhasePlaying {
		return ErrNotPlaying
	}
	if g.turn != TurnReady {
		return ErrTurnNotReady
	}

	g.draw()
	g.turn = TurnActive
	g.scheduleTick(g.timer.Start(g.session.TimeLimit))
	g.notify()

	return nil
}

// Correct scores a point for the current team and draws the next word. The clock
// keeps running.
func (g *Game) Correct() error {
	if err := g.requireActive(); err != nil {
		return err
	}

	g.session.Teams[g.teamIndex].Score++
	g.draw()
	g.notify()

	return nil
}

// Skip draws the next word without scoring.
func (g *Game) Skip() error {
	if err := g.requireActive(); err != nil {
		return err
	}

	g.draw()
	g.notify()

	return nil
}

// Incorrect ends the current turn early, exactly as if the clock had run out.
func (g *Game) Incorrect() error {
	if err := g.requireActive(); err != nil {
		return err
	}

	g.endTurn()

	return nil
}

// EndGame jumps straight to results, skipping any remaining rounds.
func (g *Game) EndGame() error {
	if g.phase != PhasePlaying {
		return ErrNotPlaying
	}

	g.finish()

	return nil
}

// Reset returns a finished game to setup with every score zeroed. Categories,
// teams, and timing are kept.
func (g *Game) Reset() error {
	if g.phase != PhaseResults {
		return ErrNotInResults
	}

	g.cancel()
	g.session.resetScores()
	g.phase = PhaseSetup
	g.round = 1
	g.teamIndex = 0
	g.turnsPlayed = 0
	g.roundsCompleted = 0
	g.turnsCompleted = 0
	g.turn = ""
	g.word = Word{}
	g.timer.Reset(g.session.TimeLimit)
	g.notify()

	return nil
}

// Close cancels every pending callback. The game is unusable afterwards.
func (g *Game) Close() {
	g.cancel()
	g.timer.Stop()
}

func (g *Game) requireActive() error {
	if g.phase != PhasePlaying {
		return ErrNotPlaying
	}
	if g.turn != TurnActive {
		return ErrTurnNotActive
	}

	return nil
}

func (g *Game) prepareTurn() {
	g.turn = TurnReady
	g.word = Word{}
	g.timer.Reset(g.session.TimeLimit)
}

func (g *Game) draw() {
	w, err := g.words.NextWord(g.session.EnabledCategories())
	if err != nil {
		panic(fmt.Sprintf("charades: drawing a word: %v", err))
	}

	g.word = w
}

func (g *Game) tick(generation uint64) {
	accepted, expired := g.timer.Tick(generation)
	if !accepted {
		return
	}

	if !expired {
		g.scheduleTick(generation)
		g.notify()

		return
	}

	g.turn = TurnExpired
	g.notify()
	g.listener.TimerExpired(g.Snapshot())

	g.after(g.limits.ExpiryDelay, g.endTurn)
}

func (g *Game) endTurn() {
	g.cancel()
	g.timer.Stop()

	g.turn = TurnHandoff
	g.turnsPlayed++
	g.turnsCompleted++

	if g.turnsPlayed >= len(g.session.Teams) {
		g.turnsPlayed = 0
		g.roundsCompleted++
		g.after(g.limits.HandoffDelay, g.advanceRound)
	} else {
		g.after(g.limits.HandoffDelay, g.nextTeam)
	}

	g.notify()
}

func (g *Game) nextTeam() {
	g.teamIndex = (g.teamIndex + 1) % len(g.session.Teams)
	g.prepareTurn()
	g.notify()
}

func (g *Game) advanceRound() {
	if g.round >= g.session.TotalRounds {
		g.finish()

		return
	}

	g.round++
	g.teamIndex = 0
	g.prepareTurn()
	g.notify()
}

func (g *Game) finish() {
	g.cancel()
	g.timer.Stop()

	g.phase = PhaseResults
	g.turn = ""
	g.word = Word{}
	g.notify()
}

func (g *Game) scheduleTick(generation uint64) {
	seq := g.seq
	g.tickStop = g.sched.AfterFunc(time.Second, func() {
		if seq != g.seq {
			return
		}
		g.tick(generation)
	})
}

func (g *Game) after(d time.Duration, f func()) {
	seq := g.seq
	g.delayStop = g.sched.AfterFunc(d, func() {
		if seq != g.seq {
			return
		}
		f()
	})
}

func (g *Game) cancel() {
	g.seq++

	if g.tickStop != nil {
		g.tickStop()
		g.tickStop = nil
	}
	if g.delayStop != nil {
		g.delayStop()
		g.delayStop = nil
	}
}

func (g *Game) notify() {
	g.listener.StateChanged(g.Snapshot())
}
