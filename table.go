// Dígalo con Mímica tables
//
// A table is one game of charades, hosted at /play/:tableid. Every screen that
// opens the table URL (the phone passed around the room, a laptop on the TV)
// sees the same state and may drive it.
//
// Features:
// - WebSockets per table ID: /play/:tableid and /play/:tableid/ws
// - One goroutine per table owns the game; intents and timer callbacks are
//   fed to it over channels, so the game only ever has a single writer
// - Full state snapshot broadcast after every change
// - "expired" signal sent when the clock runs out; the browser rings the bell
// - Rejected intents answered only to the client that sent them
// - Tables auto-reaped after configurable idle timeout
// - Random 8-char table IDs via crypto/rand, with server-side collision check
// - In-browser QR button to open the table on another screen, backed by go-qrcode

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/agustindinardi/DigaloConMimica/charades"
	"github.com/gorilla/websocket"
)

// Messages coming from clients
type ClientMessage struct {
	Type  string `json:"type"`            // see applyLocked for the accepted types
	ID    string `json:"id,omitempty"`    // toggle_category / remove_team / rename_team
	Name  string `json:"name,omitempty"`  // rename_team
	Value int    `json:"value,omitempty"` // set_time_limit / set_total_rounds
}

// StateMessage carries the full table state.
type StateMessage struct {
	Type  string            `json:"type"` // "state"
	State charades.Snapshot `json:"state"`
}

// SimpleMessage is for notifications ("expired", "rejected").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type intent struct {
	client *Client
	msg    ClientMessage
}

type Table struct {
	id      string
	clients map[*Client]bool
	game    *charades.Game

	register chan *Client
	unreg    chan *Client
	intents  chan intent
	events   chan func()
	done     chan struct{}

	closeOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	lastPhase  charades.Phase
}

func newTable(tableID string, limits charades.Limits, words charades.WordProvider) *Table {
	now := time.Now()
	t := &Table{
		id:         tableID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		intents:    make(chan intent),
		events:     make(chan func(), 8),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		lastPhase:  charades.PhaseSetup,
	}
	t.game = charades.NewGame(limits, words, t, t)

	tablesCreated.Inc()
	tablesActive.Inc()

	return t
}

func (t *Table) run(cfg *Config) {
	for {
		select {
		case c := <-t.register:
			t.mu.Lock()
			t.lastActive = time.Now()
			t.clients[c] = true
			t.sendLocked(c, StateMessage{Type: "state", State: t.game.Snapshot()})
			t.mu.Unlock()

		case c := <-t.unreg:
			t.mu.Lock()
			t.lastActive = time.Now()
			if _, ok := t.clients[c]; ok {
				delete(t.clients, c)
				close(c.send)
			}
			t.mu.Unlock()

		case in := <-t.intents:
			t.handleIntent(cfg, in)

		case f := <-t.events:
			t.mu.Lock()
			f()
			t.mu.Unlock()

		case <-t.done:
			t.mu.Lock()
			t.game.Close()
			for c := range t.clients {
				close(c.send)
				delete(t.clients, c)
			}
			t.mu.Unlock()

			tablesActive.Dec()
			logf(cfg, "TABLE: Closed %s after %s", t.id, time.Since(t.createdAt).Round(time.Second))

			return
		}
	}
}

// AfterFunc schedules f onto the table goroutine. It implements charades.Scheduler.
func (t *Table) AfterFunc(d time.Duration, f func()) func() bool {
	timer := time.AfterFunc(d, func() {
		select {
		case t.events <- f:
		case <-t.done:
		}
	})

	return timer.Stop
}

// StateChanged implements charades.Listener. The game only calls it from the
// table goroutine, which already holds t.mu.
func (t *Table) StateChanged(s charades.Snapshot) {
	if s.Phase == charades.PhaseResults && t.lastPhase != charades.PhaseResults {
		gamesFinished.Inc()
	}
	t.lastPhase = s.Phase

	t.broadcastLocked(StateMessage{Type: "state", State: s})
}

// TimerExpired implements charades.Listener.
func (t *Table) TimerExpired(s charades.Snapshot) {
	t.broadcastLocked(SimpleMessage{Type: "expired", Message: "Time's up!"})
}

func (t *Table) handleIntent(cfg *Config, in intent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastActive = time.Now()

	if err := t.applyLocked(in.msg); err != nil {
		logf(cfg, "TABLE: Rejected %q in %s: %v", in.msg.Type, t.id, err)

		t.sendLocked(in.client, SimpleMessage{
			Type:    "rejected",
			Message: err.Error(),
		})
	}
}

// applyLocked maps a client intent onto the game.
func (t *Table) applyLocked(msg ClientMessage) error {
	g := t.game

	switch msg.Type {
	case "toggle_category":
		return g.ToggleCategory(msg.ID)

	case "add_team":
		_, err := g.AddTeam()
		return err

	case "remove_team":
		_, err := g.RemoveTeam(msg.ID)
		return err

	case "rename_team":
		return g.RenameTeam(msg.ID, msg.Name)

	case "set_time_limit":
		_, err := g.SetTimeLimit(msg.Value)
		return err

	case "set_total_rounds":
		_, err := g.SetTotalRounds(msg.Value)
		return err

	case "start_game":
		if err := g.StartGame(); err != nil {
			return err
		}
		gamesStarted.Inc()

	case "begin_turn":
		if err := g.BeginTurn(); err != nil {
			return err
		}
		turnsPlayed.Inc()

	case "correct":
		if err := g.Correct(); err != nil {
			return err
		}
		correctGuesses.Inc()

	case "skip":
		return g.Skip()

	case "incorrect":
		return g.Incorrect()

	case "end_game":
		return g.EndGame()

	case "reset_game":
		return g.Reset()

	default:
		return fmt.Errorf("unknown action %q", msg.Type)
	}

	return nil
}

func (t *Table) sendLocked(c *Client, msg any) {
	if _, ok := t.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(t.clients, c)
		close(c.send)
	}
}

func (t *Table) broadcastLocked(msg any) {
	for client := range t.clients {
		select {
		case client.send <- msg:
		default:
			delete(t.clients, client)
			close(client.send)
		}
	}
}

func (t *Table) idleSince() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.lastActive
}

// close stops the table goroutine, which disconnects every client.
func (t *Table) close() {
	t.closeOnce.Do(func() {
		close(t.done)
	})
}

func (c *Client) readPump(t *Table) {
	defer func() {
		select {
		case t.unreg <- c:
		case <-t.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case t.intents <- intent{client: c, msg: msg}:
		case <-t.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
