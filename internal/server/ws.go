package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/noel/internal/scene"
)

// writeWait bounds a single frame write to one client.
const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type client struct {
	summary bool
}

// FrameHub broadcasts rendered snapshots to WebSocket viewers. It is the
// app's renderer: Render only records the latest frame, and a ticker sends
// it at the configured rate so slow clients never stall the render loop.
type FrameHub struct {
	interval time.Duration
	log      zerolog.Logger
	latest   atomic.Pointer[scene.Snapshot]
	clients  map[*websocket.Conn]client
	mu       sync.RWMutex
	done     chan struct{}
	once     sync.Once
}

// NewFrameHub creates a hub sending at most fps frames per second.
func NewFrameHub(fps int, logger zerolog.Logger) *FrameHub {
	if fps <= 0 {
		fps = 30
	}
	h := &FrameHub{
		interval: time.Second / time.Duration(fps),
		log:      logger.With().Str("component", "frames").Logger(),
		clients:  make(map[*websocket.Conn]client),
		done:     make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Render records snap as the next frame to broadcast.
func (h *FrameHub) Render(snap *scene.Snapshot) {
	h.latest.Store(snap)
}

// Clients returns the number of connected viewers.
func (h *FrameHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a WebSocket. Viewers that pass
// ?summary=1 receive the status summary instead of full transforms.
func (h *FrameHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = client{summary: r.URL.Query().Get("summary") == "1"}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("Viewer connected")

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *FrameHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Debug().Int("clients", n).Msg("Viewer disconnected")
	}
}

// Close disconnects every viewer and stops broadcasting.
func (h *FrameHub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		for conn := range h.clients {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	})
}

// broadcast sends each new frame once to every client.
func (h *FrameHub) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		snap := h.latest.Load()
		if snap == nil || snap.Frame == sent || h.Clients() == 0 {
			continue
		}
		sent = snap.Frame

		var full, summary []byte
		var failed []*websocket.Conn

		h.mu.RLock()
		for conn, c := range h.clients {
			msg, err := h.encode(snap, c.summary, &full, &summary)
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to encode frame")
				break
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				failed = append(failed, conn)
			}
		}
		h.mu.RUnlock()

		for _, conn := range failed {
			conn.Close()
			h.remove(conn)
		}
	}
}

// encode marshals snap at most once per flavour per frame.
func (h *FrameHub) encode(snap *scene.Snapshot, summary bool, full, short *[]byte) ([]byte, error) {
	var err error
	if summary {
		if *short == nil {
			*short, err = json.Marshal(snap.Summary())
		}
		return *short, err
	}
	if *full == nil {
		*full, err = json.Marshal(snap)
	}
	return *full, err
}
