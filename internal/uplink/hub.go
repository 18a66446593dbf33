package uplink

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	clientSendSize = 16
)

// subscriber is one websocket connection on /api/v1/stream.
type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans broadcast messages out to subscribers. All map access happens on
// the Run goroutine; slow subscribers are dropped rather than waited on.
type Hub struct {
	subs       map[*subscriber]bool
	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	done       chan struct{}
	log        *slog.Logger
}

// NewHub creates an idle hub. Call Run to start it.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		subs:       map[*subscriber]bool{},
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run services the hub until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for s := range h.subs {
				delete(h.subs, s)
				close(s.send)
			}
			return
		case s := <-h.register:
			h.subs[s] = true
			h.log.Info("subscriber connected", "id", s.id, "subscribers", len(h.subs))
		case s := <-h.unregister:
			if h.subs[s] {
				delete(h.subs, s)
				close(s.send)
				h.log.Info("subscriber disconnected", "id", s.id, "subscribers", len(h.subs))
			}
		case msg := <-h.broadcast:
			for s := range h.subs {
				select {
				case s.send <- msg:
				default:
					delete(h.subs, s)
					close(s.send)
					h.log.Warn("dropping slow subscriber", "id", s.id)
				}
			}
		}
	}
}

// Broadcast queues msg for every subscriber. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

// attach registers a new connection and starts its pumps. hello, if non-nil,
// is delivered before any broadcast.
func (h *Hub) attach(conn *websocket.Conn, hello []byte) bool {
	s := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientSendSize),
	}
	if hello != nil {
		s.send <- hello
	}
	select {
	case h.register <- s:
	case <-h.done:
		_ = conn.Close()
		return false
	}
	go h.writer(s)
	go h.reader(s)
	return true
}

func (h *Hub) writer(s *subscriber) {
	defer s.conn.Close()
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("subscriber write failed", "id", s.id, "err", err)
			return
		}
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "uplink closing"),
		time.Now().Add(writeWait))
}

// reader drains and discards inbound frames; the stream is read-only. It exists
// to notice disconnects.
func (h *Hub) reader(s *subscriber) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
