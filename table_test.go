package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agustindinardi/DigaloConMimica/charades"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverMessage struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	State   charades.Snapshot `json:"state"`
}

func testServer(t *testing.T, cfg *Config) (*httptest.Server, *TableManager) {
	t.Helper()

	errs := make(chan error, 64)
	mux, tm := newRouter(cfg, charades.DefaultWordList(), errs)
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		srv.Close()
		tm.closeAll()
	})

	return srv, tm
}

func dialTable(t *testing.T, srv *httptest.Server, tableID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/play/" + tableID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// readUntil reads messages until match accepts one, skipping the rest.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg serverMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if match(msg) {
			return msg
		}
	}
}

func isState(match func(charades.Snapshot) bool) func(serverMessage) bool {
	return func(m serverMessage) bool {
		return m.Type == "state" && match(m.State)
	}
}

func sendIntent(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestTable_PlaysTurnsOverWebsocket(t *testing.T) {
	cfg := validConfig()
	cfg.handoffDelay = 20 * time.Millisecond
	srv, _ := testServer(t, cfg)
	conn := dialTable(t, srv, "abcdefgh")

	first := readUntil(t, conn, isState(func(s charades.Snapshot) bool { return true }))
	require.Equal(t, charades.PhaseSetup, first.State.Phase)
	require.Len(t, first.State.Session.Teams, 2)
	assert.True(t, first.State.CanStart)

	sendIntent(t, conn, ClientMessage{Type: "set_total_rounds", Value: 1})
	readUntil(t, conn, isState(func(s charades.Snapshot) bool { return s.Session.TotalRounds == 1 }))

	sendIntent(t, conn, ClientMessage{Type: "start_game"})
	readUntil(t, conn, isState(func(s charades.Snapshot) bool { return s.Phase == charades.PhasePlaying }))

	sendIntent(t, conn, ClientMessage{Type: "begin_turn"})
	active := readUntil(t, conn, isState(func(s charades.Snapshot) bool {
		return s.Turn != nil && s.Turn.State == charades.TurnActive
	}))
	assert.NotEmpty(t, active.State.Turn.Word)
	assert.NotEmpty(t, active.State.Turn.Category)

	sendIntent(t, conn, ClientMessage{Type: "correct"})
	readUntil(t, conn, isState(func(s charades.Snapshot) bool { return s.Session.Teams[0].Score == 1 }))

	sendIntent(t, conn, ClientMessage{Type: "incorrect"})
	next := readUntil(t, conn, isState(func(s charades.Snapshot) bool {
		return s.Turn != nil && s.Turn.State == charades.TurnReady && s.Turn.CurrentTeamIndex == 1
	}))
	assert.Equal(t, 1, next.State.Turn.CurrentRound)
	assert.Equal(t, 1, next.State.Turn.TurnsPlayedInRound)

	sendIntent(t, conn, ClientMessage{Type: "begin_turn"})
	readUntil(t, conn, isState(func(s charades.Snapshot) bool {
		return s.Turn != nil && s.Turn.State == charades.TurnActive
	}))
	sendIntent(t, conn, ClientMessage{Type: "incorrect"})

	done := readUntil(t, conn, isState(func(s charades.Snapshot) bool { return s.Phase == charades.PhaseResults }))
	require.NotNil(t, done.State.Results)
	assert.Equal(t, first.State.Session.Teams[0].ID, done.State.Results.Winner.ID)
	assert.Equal(t, 1, done.State.Results.TotalPoints)

	sendIntent(t, conn, ClientMessage{Type: "reset_game"})
	reset := readUntil(t, conn, isState(func(s charades.Snapshot) bool { return s.Phase == charades.PhaseSetup }))
	for _, team := range reset.State.Session.Teams {
		assert.Zero(t, team.Score)
	}
}

func TestTable_RejectsIllegalIntents(t *testing.T) {
	srv, _ := testServer(t, validConfig())
	conn := dialTable(t, srv, "rejected")
	readUntil(t, conn, isState(func(s charades.Snapshot) bool { return true }))

	sendIntent(t, conn, ClientMessage{Type: "dance"})
	msg := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "rejected" })
	assert.Contains(t, msg.Message, "unknown action")

	sendIntent(t, conn, ClientMessage{Type: "correct"})
	msg = readUntil(t, conn, func(m serverMessage) bool { return m.Type == "rejected" })
	assert.Equal(t, charades.ErrNotPlaying.Error(), msg.Message)

	for _, c := range charades.DefaultCategories() {
		sendIntent(t, conn, ClientMessage{Type: "toggle_category", ID: c.ID})
	}
	readUntil(t, conn, isState(func(s charades.Snapshot) bool { return !s.CanStart }))

	sendIntent(t, conn, ClientMessage{Type: "start_game"})
	msg = readUntil(t, conn, func(m serverMessage) bool { return m.Type == "rejected" })
	assert.Equal(t, charades.ErrNoCategories.Error(), msg.Message)
}

func TestTable_ScreensShareState(t *testing.T) {
	srv, _ := testServer(t, validConfig())
	phone := dialTable(t, srv, "shared01")
	tv := dialTable(t, srv, "shared01")

	readUntil(t, phone, isState(func(s charades.Snapshot) bool { return true }))
	readUntil(t, tv, isState(func(s charades.Snapshot) bool { return true }))

	sendIntent(t, phone, ClientMessage{Type: "add_team"})
	msg := readUntil(t, tv, isState(func(s charades.Snapshot) bool { return len(s.Session.Teams) == 3 }))
	assert.Equal(t, "Team 3", msg.State.Session.Teams[2].Name)

	sendIntent(t, tv, ClientMessage{Type: "rename_team", ID: msg.State.Session.Teams[2].ID, Name: "Los Mimos"})
	readUntil(t, phone, isState(func(s charades.Snapshot) bool {
		return len(s.Session.Teams) == 3 && s.Session.Teams[2].Name == "Los Mimos"
	}))
}

func TestTable_TimerExpiredBroadcast(t *testing.T) {
	table := newTable("expiry", charades.DefaultLimits(), charades.DefaultWordList())
	c := &Client{send: make(chan any, 1)}
	table.clients[c] = true

	table.TimerExpired(table.game.Snapshot())

	select {
	case msg := <-c.send:
		assert.Equal(t, SimpleMessage{Type: "expired", Message: "Time's up!"}, msg)
	default:
		assert.Fail(t, "expired signal was not sent")
	}
}

func TestTable_SlowClientDropped(t *testing.T) {
	table := newTable("slow", charades.DefaultLimits(), charades.DefaultWordList())
	c := &Client{send: make(chan any)}
	table.clients[c] = true

	table.broadcastLocked(SimpleMessage{Type: "expired"})

	assert.NotContains(t, table.clients, c)
	_, open := <-c.send
	assert.False(t, open)
}

func TestTableManager_Reap(t *testing.T) {
	cfg := validConfig()
	tm := newTableManager(0, cfg.limits(), charades.DefaultWordList())

	table := tm.getTable(cfg, "idle0001")
	assert.Same(t, table, tm.getTable(cfg, "idle0001"))
	assert.Equal(t, 1, tm.count())

	assert.Zero(t, tm.reap(time.Now().Add(-time.Hour)))

	table.mu.Lock()
	table.lastActive = time.Now().Add(-2 * time.Hour)
	table.mu.Unlock()

	assert.Equal(t, 1, tm.reap(time.Now().Add(-time.Hour)))
	assert.Zero(t, tm.count())

	select {
	case <-table.done:
	case <-time.After(time.Second):
		assert.Fail(t, "table was not closed")
	}
}

func TestTableManager_NewTableID(t *testing.T) {
	tm := newTableManager(0, charades.DefaultLimits(), charades.DefaultWordList())

	seen := make(map[string]bool)
	for range 100 {
		id := tm.newTableID()
		assert.Len(t, id, 8)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestRoutes(t *testing.T) {
	cfg := validConfig()
	cfg.metrics = true
	srv, _ := testServer(t, cfg)

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8"},
		{"/healthz", http.StatusOK, "text/plain; charset=utf-8"},
		{"/version", http.StatusOK, "text/plain; charset=utf-8"},
		{"/robots.txt", http.StatusOK, "text/plain; charset=utf-8"},
		{"/play/abcdefgh", http.StatusOK, "text/html; charset=utf-8"},
		{"/play/abcdefgh/qr", http.StatusOK, "image/png"},
		{"/assets/play/app.js", http.StatusOK, "text/javascript; charset=utf-8"},
		{"/assets/play/app.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/assets/play/missing.js", http.StatusNotFound, ""},
		{"/favicons/favicon.svg", http.StatusOK, "image/svg+xml"},
		{"/metrics", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := client.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
		})
	}

	resp, err := client.Get(srv.URL + "/play")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Regexp(t, `^/play/[A-Za-z0-9]{8}$`, resp.Header.Get("Location"))
}
