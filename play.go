package main

import (
	"crypto/rand"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/agustindinardi/DigaloConMimica/charades"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TableManager holds a set of tables keyed by table ID, so each $path/$tableid
// is its own isolated game.
type TableManager struct {
	mu          sync.Mutex
	tables      map[string]*Table
	idleTimeout time.Duration
	limits      charades.Limits
	words       charades.WordProvider
}

func newTableManager(idleTimeout time.Duration, limits charades.Limits, words charades.WordProvider) *TableManager {
	tm := &TableManager{
		tables:      make(map[string]*Table),
		idleTimeout: idleTimeout,
		limits:      limits,
		words:       words,
	}
	if idleTimeout > 0 {
		go tm.reaperLoop()
	}
	return tm
}

func (tm *TableManager) getTable(cfg *Config, tableID string) *Table {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if table, ok := tm.tables[tableID]; ok {
		return table
	}

	table := newTable(tableID, tm.limits, tm.words)
	tm.tables[tableID] = table
	go table.run(cfg)

	logf(cfg, "TABLE: Opened %s", tableID)

	return table
}

// newTableID generates a crypto-random table ID and ensures it doesn't
// collide with existing tables.
func (tm *TableManager) newTableID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		tm.mu.Lock()
		_, exists := tm.tables[id]
		tm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes tables that have been idle longer than idleTimeout.
func (tm *TableManager) reaperLoop() {
	ticker := time.NewTicker(tm.idleTimeout / 2)
	for range ticker.C {
		tm.reap(time.Now().Add(-tm.idleTimeout))
	}
}

func (tm *TableManager) reap(cutoff time.Time) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	reaped := 0
	for id, table := range tm.tables {
		if table.idleSince().Before(cutoff) {
			delete(tm.tables, id)
			table.close()
			reaped++
		}
	}

	return reaped
}

func (tm *TableManager) closeAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for id, table := range tm.tables {
		delete(tm.tables, id)
		table.close()
	}
}

func (tm *TableManager) count() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return len(tm.tables)
}

// WebSocket handler that picks the table based on :tableid
func serveWS(cfg *Config, tm *TableManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tableID := ps.ByName("tableid")
		if tableID == "" {
			http.Error(w, "missing table id", http.StatusBadRequest)
			return
		}

		table := tm.getTable(cfg, tableID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
		}

		select {
		case table.register <- client:
		case <-table.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "TABLE: Screen %s joined %s", realIP(r), tableID)

		go client.writePump()
		client.readPump(table)
	}
}

// QR handler: generates a PNG QR code for the current table URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tableID := ps.ByName("tableid")
	if tableID == "" {
		http.Error(w, "missing table id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:tableid/qr; strip trailing "/qr" to get the table URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func serveTablePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := assets.ReadFile("assets/play/index.html")
		if err != nil {
			http.Error(w, "missing client", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)
		w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' ws: wss:")

		page := strings.ReplaceAll(string(data), "{{prefix}}", cfg.prefix)

		_, _ = w.Write([]byte(page))
	}
}

// redirectNewTable handles GET /path by generating a new random table ID
// (with server-side collision detection) and redirecting to /path/:tableid.
func redirectNewTable(cfg *Config, path string, tm *TableManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tableID := tm.newTableID()
		logf(cfg, "TABLE: Created table %s/%s", path, tableID)
		http.Redirect(w, r, cfg.prefix+path+"/"+tableID, http.StatusTemporaryRedirect)
	}
}

// registerCharades sets up routes so that:
//   - $path                  → redirects to new random table (8-char ID)
//   - $path/:tableid         → HTML client
//   - $path/:tableid/ws      → WebSocket for that table
//   - $path/:tableid/qr      → PNG QR code for that table URL
func registerCharades(cfg *Config, path string, words charades.WordProvider, mux *httprouter.Router) *TableManager {
	tm := newTableManager(cfg.sessionTimeout, cfg.limits(), words)

	mux.GET(cfg.prefix+path, redirectNewTable(cfg, path, tm))

	mux.GET(cfg.prefix+path+"/:tableid", serveTablePage(cfg))

	mux.GET(cfg.prefix+path+"/:tableid/ws", serveWS(cfg, tm))

	mux.GET(cfg.prefix+path+"/:tableid/qr", qrHandler)

	return tm
}
