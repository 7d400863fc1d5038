// Package ws serves the face's remote surfaces: preview frames,
// diagnostics, control messages and health.
package ws

import (
	"encoding/json"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/driver/preview"
	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/reconcile"
)

const (
	writeWait = 200 * time.Millisecond
	// sendBuffer is how many broadcasts may queue per client before new
	// ones are dropped.
	sendBuffer = 8
)

// Loop is the face event loop as seen from the network.
type Loop interface {
	Post(face.Event) bool
	Snapshot() face.Snapshot
}

// client serializes writes to one connection. Broadcasts go through out
// and are written by pump, so a slow peer never blocks the sender.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	out  chan []byte
	quit chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, out: make(chan []byte, sendBuffer), quit: make(chan struct{})}
}

// enqueue queues b without blocking. It reports false when the queue is
// full or the client has gone.
func (c *client) enqueue(b []byte) bool {
	select {
	case <-c.quit:
		return false
	default:
	}
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

func (c *client) stop() { c.once.Do(func() { close(c.quit) }) }

func (c *client) pump(log zerolog.Logger) {
	for {
		select {
		case <-c.quit:
			return
		case b := <-c.out:
			if err := c.write(websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("write to client")
				c.stop()
				c.conn.Close()
				return
			}
		}
	}
}

func (c *client) write(mt int, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(mt, b)
}

type Hub struct {
	// Driver names the active output for /health.
	Driver string

	loop     Loop
	journal  *diag.Journal
	preview  *preview.Driver
	started  time.Time
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu     sync.RWMutex
	frames map[*client]bool
	diags  map[*client]bool
}

func NewHub(loop Loop, j *diag.Journal, log zerolog.Logger) *Hub {
	h := &Hub{
		loop:     loop,
		journal:  j,
		started:  time.Now(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log.With().Str("component", "ws").Logger(),
		frames:   map[*client]bool{},
		diags:    map[*client]bool{},
	}
	h.preview = preview.New(h.broadcastFrame, 50*time.Millisecond)
	if j != nil {
		j.Subscribe(h.pushDiag)
	}
	return h
}

// Write publishes a painted frame to preview clients.
func (h *Hub) Write(img image.Image) error { return h.preview.Write(img) }

func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/settings", h.HandleSettings)
	r.Post("/settings", h.HandleUpdateSettings)
	r.Get("/frames", h.HandleFramesWS)
	r.Get("/diag", h.HandleDiagWS)
	r.Get("/control", h.HandleControlWS)
	return r
}

func (h *Hub) upgrade(w http.ResponseWriter, r *http.Request) (*client, bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("upgrade failed")
		return nil, false
	}
	return newClient(conn), true
}

// drain reads until the peer goes away, then unregisters c.
func (h *Hub) drain(c *client, set map[*client]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, c)
		h.mu.Unlock()
		c.stop()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	if f, ok := h.preview.Last(); ok {
		b, _ := json.Marshal(f)
		_ = c.write(websocket.TextMessage, b)
	}
	h.mu.Lock()
	h.frames[c] = true
	h.mu.Unlock()
	go c.pump(h.log)
	go h.drain(c, h.frames)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	if h.journal != nil {
		for _, d := range h.journal.Recent() {
			b, _ := json.Marshal(d)
			_ = c.write(websocket.TextMessage, b)
		}
	}
	h.mu.Lock()
	h.diags[c] = true
	h.mu.Unlock()
	go c.pump(h.log)
	go h.drain(c, h.diags)
}

type reply struct {
	OK    bool   `json:"ok"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// HandleControlWS turns each inbound message into a face event. Text
// frames carry JSON, binary frames msgpack.
func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	c, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer c.conn.Close()
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		rep := h.control(mt, data)
		b, _ := json.Marshal(rep)
		if err := c.write(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (h *Hub) control(mt int, data []byte) reply {
	msg, err := decodeFrame(mt, data)
	if err != nil {
		return reply{Error: err.Error()}
	}
	ev, kind, err := DecodeControl(msg)
	if err != nil {
		h.log.Warn().Err(err).Msg("bad control message")
		return reply{Type: kind, Error: err.Error()}
	}
	if !h.loop.Post(ev) {
		return reply{Type: kind, Error: "face is not running"}
	}
	h.log.Debug().Str("type", kind).Msg("control message queued")
	return reply{OK: true, Type: kind}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s := h.loop.Snapshot()
	resp := map[string]any{
		"phase":    s.Phase,
		"frame_id": s.FrameID,
		"uptime_s": time.Since(h.started).Seconds(),
		"driver":   h.Driver,
		"state":    s.State,
		"metrics":  s.Metrics,
	}
	if h.journal != nil {
		resp["diagnostics"] = len(h.journal.Recent())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Hub) HandleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loop.Snapshot().Config)
}

// HandleUpdateSettings accepts the same key/value map as a config control
// message.
func (h *Hub) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeJSON(w, http.StatusBadRequest, reply{Error: "invalid JSON body"})
		return
	}
	if !h.loop.Post(face.MessageEvent{Values: reconcile.Message(values)}) {
		writeJSON(w, http.StatusServiceUnavailable, reply{Error: "face is not running"})
		return
	}
	writeJSON(w, http.StatusAccepted, reply{OK: true, Type: "config"})
}

func (h *Hub) broadcastFrame(f preview.Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	h.broadcast(h.frames, b)
}

func (h *Hub) pushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	h.broadcast(h.diags, b)
}

func (h *Hub) broadcast(set map[*client]bool, b []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		if !c.enqueue(b) {
			h.log.Debug().Msg("client behind; message dropped")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
