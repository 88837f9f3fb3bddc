package ws

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sliderstack/sliderstack/pkg/marshal"
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/server/internal/store"
)

const (
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10

	// queueDepth is how many frames may wait for a slow subscriber before it
	// is dropped.
	queueDepth = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin checks belong to the reverse proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub streams the live container listing to WebSocket subscribers.
type Hub struct {
	store    *store.Store
	interval time.Duration

	mu      sync.Mutex
	subs    map[*subscriber]struct{}
	stopped bool
}

type subscriber struct {
	conn      *websocket.Conn
	component string // empty means every component
	frames    chan []byte
	last      []byte // guarded by Hub.mu
}

// New creates a Hub that reads from st and publishes every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		interval: interval,
		subs:     make(map[*subscriber]struct{}),
	}
}

// Run publishes on every tick until ctx is cancelled, then disconnects every
// subscriber and refuses new ones.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case <-t.C:
			h.publish()
		}
	}
}

// ServeHTTP upgrades the request and streams frames until the peer goes away.
// The optional component query parameter restricts the listing to one
// component. The current listing is sent right after the upgrade.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := &subscriber{
		conn:      conn,
		component: r.URL.Query().Get("component"),
		frames:    make(chan []byte, queueDepth),
	}
	first, err := encode(h.store.Containers(), sub.component)
	if err != nil {
		slog.Error("ws: encode live containers", "err", err)
		conn.Close()
		return
	}
	if !h.subscribe(sub, first) {
		conn.Close()
		return
	}
	defer h.unsubscribe(sub)

	go sub.write()
	sub.read()
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe(sub *subscriber, first []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	sub.last = first
	sub.frames <- first
	h.subs[sub] = struct{}{}
	return true
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	h.removeLocked(sub)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.frames)
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for sub := range h.subs {
		h.removeLocked(sub)
	}
}

// publish encodes one frame per distinct component filter and queues it for
// every subscriber whose view changed since its last frame.
func (h *Hub) publish() {
	live := h.store.Containers()
	frames := make(map[string][]byte)

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		frame, ok := frames[sub.component]
		if !ok {
			var err error
			if frame, err = encode(live, sub.component); err != nil {
				slog.Error("ws: encode live containers", "component", sub.component, "err", err)
				continue
			}
			frames[sub.component] = frame
		}
		if bytes.Equal(frame, sub.last) {
			continue
		}
		select {
		case sub.frames <- frame:
			sub.last = frame
		default:
			slog.Warn("ws: dropping slow subscriber", "remote", sub.conn.RemoteAddr().String())
			h.removeLocked(sub)
		}
	}
}

// encode returns the GetLiveContainersResponse bytes for live, restricted to
// component when it is non-empty. These are the same bytes GetLiveContainers
// returns over gRPC.
func encode(live []types.ContainerStatus, component string) ([]byte, error) {
	if component != "" {
		kept := make([]types.ContainerStatus, 0, len(live))
		for _, c := range live {
			if c.Component == component {
				kept = append(kept, c)
			}
		}
		live = kept
	}
	return marshal.MarshalLiveContainers(live).Marshal()
}

// write forwards queued frames and keeps the connection alive with pings.
func (s *subscriber) write() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		s.conn.Close()
	}()

	for {
		var err error
		select {
		case frame, ok := <-s.frames:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, nil) //nolint:errcheck
				return
			}
			err = s.conn.WriteMessage(websocket.BinaryMessage, frame)
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err = s.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

// read discards inbound frames and returns once the peer disconnects or stops
// answering pings.
func (s *subscriber) read() {
	defer s.conn.Close()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}
