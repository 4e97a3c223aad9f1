package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	wsPingInterval = 30 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsSendBuffer   = 64
	wsReadLimit    = 512
)

// Message types sent over the WebSocket.
const (
	MessageConnected  = "connected"
	MessageFileChange = "file_change"
)

// WebSocketMessage is the envelope of every frame the hub sends.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ConnectedData is the payload of the first frame on a connection.
type ConnectedData struct {
	Board string `json:"board,omitempty"` // empty when subscribed to all boards
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server binds to localhost; any origin may listen.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WebSocketHub fans file changes out to connected terminals. A connection
// may subscribe to one board with ?board=<name>.
type WebSocketHub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
	log    *log.Entry
}

// subscriber is one connection. Frames queue on send; a subscriber that
// falls a full buffer behind is disconnected rather than blocking others.
type subscriber struct {
	board string
	conn  *websocket.Conn
	send  chan []byte
}

func (s *subscriber) wants(change FileChange) bool {
	return s.board == "" || s.board == change.BoardName
}

func NewWebSocketHub(logger *log.Logger) *WebSocketHub {
	return &WebSocketHub{
		subs: make(map[*subscriber]struct{}),
		log:  logger.WithField("component", "ws"),
	}
}

// OnFileChange implements FileWatcherSubscriber.
func (h *WebSocketHub) OnFileChange(change FileChange) {
	frame, err := json.Marshal(WebSocketMessage{Type: MessageFileChange, Data: change})
	if err != nil {
		h.log.WithError(err).Error("failed to encode file change")
		return
	}

	var slow []*subscriber
	h.mu.RLock()
	for s := range h.subs {
		if !s.wants(change) {
			continue
		}
		select {
		case s.send <- frame:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.log.WithField("board", s.board).Warn("dropping slow websocket subscriber")
		h.remove(s)
	}
}

func (h *WebSocketHub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s] = struct{}{}
	return true
}

// remove forgets s and closes its queue, which ends its writer. Safe to
// call more than once.
func (h *WebSocketHub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.send)
	}
}

// SubscriberCount returns the number of live connections.
func (h *WebSocketHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeWS upgrades the request and streams changes until the peer leaves.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	s := &subscriber{
		board: r.URL.Query().Get("board"),
		conn:  conn,
		send:  make(chan []byte, wsSendBuffer),
	}
	hello, _ := json.Marshal(WebSocketMessage{Type: MessageConnected, Data: ConnectedData{Board: s.board}})
	s.send <- hello

	if !h.add(s) {
		conn.Close()
		return
	}
	h.log.WithField("board", s.board).Debug("websocket subscriber connected")

	go h.write(s)
	go h.read(s)
}

// read only watches for the peer going away; subscribers send nothing.
func (h *WebSocketHub) read(s *subscriber) {
	defer h.remove(s)

	s.conn.SetReadLimit(wsReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

// write owns the connection: it sends queued frames and pings, and closes
// the connection once the queue is closed.
func (h *WebSocketHub) write(s *subscriber) {
	ping := time.NewTicker(wsPingInterval)
	defer func() {
		ping.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
