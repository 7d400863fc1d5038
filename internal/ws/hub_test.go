package ws

import (
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/coreman2200/constellation/internal/config"
	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/driver/preview"
	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/reconcile"
)

type fakeLoop struct {
	mu      sync.Mutex
	events  []face.Event
	stopped bool
}

func (l *fakeLoop) Post(ev face.Event) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.events = append(l.events, ev)
	return true
}

func (l *fakeLoop) Snapshot() face.Snapshot {
	return face.Snapshot{Phase: "active", FrameID: 7, Config: config.Defaults()}
}

func (l *fakeLoop) posted() []face.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]face.Event(nil), l.events...)
}

func serve(t *testing.T, loop Loop, j *diag.Journal) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub(loop, j, zerolog.Nop())
	h.Driver = "png"
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) reply {
	t.Helper()
	var rep reply
	require.NoError(t, conn.ReadJSON(&rep))
	return rep
}

func TestControlJSONConfig(t *testing.T) {
	loop := &fakeLoop{}
	_, srv := serve(t, loop, nil)
	conn := dial(t, srv, "/control")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"config","values":{"activity-goal":"12000","ring-visible":"0"}}`)))
	rep := readReply(t, conn)
	assert.True(t, rep.OK)
	assert.Equal(t, TypeConfig, rep.Type)

	evs := loop.posted()
	require.Len(t, evs, 1)
	assert.Equal(t, face.MessageEvent{Values: reconcile.Message{
		"activity-goal": "12000", "ring-visible": "0",
	}}, evs[0])
}

func TestControlMsgpackPower(t *testing.T) {
	loop := &fakeLoop{}
	_, srv := serve(t, loop, nil)
	conn := dial(t, srv, "/control")

	b, err := msgpack.Marshal(map[string]any{"type": "power", "percent": 55, "charging": true})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, b))
	assert.True(t, readReply(t, conn).OK)
	assert.Equal(t, []face.Event{face.PowerEvent{Percent: 55, Charging: true}}, loop.posted())
}

func TestControlRejectsBadMessages(t *testing.T) {
	loop := &fakeLoop{}
	_, srv := serve(t, loop, nil)
	conn := dial(t, srv, "/control")

	for _, msg := range []string{
		`not json`,
		`{"type":"warp"}`,
		`{"type":"activity","count":"lots"}`,
		`{"type":"config","values":3}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
		rep := readReply(t, conn)
		assert.False(t, rep.OK, msg)
		assert.NotEmpty(t, rep.Error, msg)
	}
	assert.Empty(t, loop.posted())
}

func TestControlWhenStopped(t *testing.T) {
	loop := &fakeLoop{stopped: true}
	_, srv := serve(t, loop, nil)
	conn := dial(t, srv, "/control")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"activity","count":5}`)))
	rep := readReply(t, conn)
	assert.False(t, rep.OK)
	assert.Equal(t, TypeActivity, rep.Type)
}

func TestDecodeControlTick(t *testing.T) {
	ev, kind, err := DecodeControl(map[string]any{"type": "tick", "time": "2024-03-15T13:05:07Z"})
	require.NoError(t, err)
	assert.Equal(t, TypeTick, kind)
	assert.Equal(t, 7, ev.(face.TickEvent).Time.Second())
}

func TestHealthAndSettings(t *testing.T) {
	_, srv := serve(t, &fakeLoop{}, diag.NewJournal(0))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "active", health["phase"])
	assert.Equal(t, "png", health["driver"])
	assert.Equal(t, 7.0, health["frame_id"])

	resp2, err := http.Get(srv.URL + "/settings")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var cfg config.Display
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&cfg))
	assert.Equal(t, config.Defaults(), cfg)
}

func TestUpdateSettings(t *testing.T) {
	loop := &fakeLoop{}
	_, srv := serve(t, loop, nil)

	resp, err := http.Post(srv.URL+"/settings", "application/json", strings.NewReader(`{"top-format":"step-count"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []face.Event{face.MessageEvent{Values: reconcile.Message{"top-format": "step-count"}}}, loop.posted())

	resp, err = http.Post(srv.URL+"/settings", "application/json", strings.NewReader(`[`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFramesSendsLatestOnConnect(t *testing.T) {
	h, srv := serve(t, &fakeLoop{}, nil)
	require.NoError(t, h.Write(image.NewRGBA(image.Rect(0, 0, 144, 168))))

	conn := dial(t, srv, "/frames")
	var f preview.Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, 144, f.W)
	assert.NotEmpty(t, f.PNG)
}

func TestDiagBacklog(t *testing.T) {
	j := diag.NewJournal(0)
	_, srv := serve(t, &fakeLoop{}, j)
	j.Report(diag.Diagnostic{Severity: diag.Warn, Code: diag.AssetMissing, Summary: "Bitmap not found"})

	conn := dial(t, srv, "/diag")
	var d diag.Diagnostic
	require.NoError(t, conn.ReadJSON(&d))
	assert.Equal(t, diag.AssetMissing, d.Code)
}

func TestClientQueueNeverBlocks(t *testing.T) {
	c := newClient(nil)
	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.enqueue([]byte("frame")))
	}
	assert.False(t, c.enqueue([]byte("one too many")))

	c.stop()
	c.stop()
	<-c.out
	assert.False(t, c.enqueue([]byte("after stop")))
}

func TestBroadcastSkipsStalledClient(t *testing.T) {
	h := NewHub(&fakeLoop{}, nil, zerolog.Nop())
	stalled := newClient(nil)
	h.frames[stalled] = true

	start := time.Now()
	for i := 0; i < 3*sendBuffer; i++ {
		h.broadcast(h.frames, []byte("frame"))
	}
	assert.Less(t, time.Since(start), writeWait)
	assert.Len(t, stalled.out, sendBuffer)
}
