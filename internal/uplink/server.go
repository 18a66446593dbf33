package uplink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves the feed. The zero value is not usable; use NewServer.
type Server struct {
	feed *Feed
	hub  *Hub
	log  *slog.Logger

	// AccessLog receives Apache-style access lines. Defaults to Debug-level slog.
	AccessLog io.Writer

	httpSrv  *http.Server
	listener net.Listener
	cancel   context.CancelFunc
}

// NewServer wires a feed and its hub to an HTTP handler.
func NewServer(feed *Feed, hub *Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{feed: feed, hub: hub, log: log}
}

// Router returns the bare route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/transmissions", s.listTransmissions).Methods(http.MethodGet)
	api.HandleFunc("/transmissions/latest", s.latestTransmission).Methods(http.MethodGet)
	api.HandleFunc("/stream", s.stream).Methods(http.MethodGet)
	return r
}

// Handler returns the route table wrapped in access logging.
func (s *Server) Handler() http.Handler {
	w := s.AccessLog
	if w == nil {
		w = slogWriter{log: s.log}
	}
	return handlers.LoggingHandler(w, s.Router())
}

// Start listens on addr and runs the feed, hub and HTTP server on background
// goroutines until Shutdown or ctx cancellation.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("uplink listen %s: %w", addr, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	s.listener = ln
	s.cancel = cancel
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run(ctx)
	go s.feed.Run(ctx)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("uplink server stopped", "err", err)
		}
	}()
	s.log.Info("uplink listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and disconnects stream subscribers.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	s.cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("uplink shutdown: %w", err)
	}
	return nil
}

// --- Handlers ---

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "buffered": len(s.feed.Entries(0))}
	if d := s.feed.Dropped(); d > 0 {
		resp["dropped"] = d
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listTransmissions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.feed.Entries(limit))
}

func (s *Server) latestTransmission(w http.ResponseWriter, r *http.Request) {
	e, ok := s.feed.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "waiting for uplink")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("stream upgrade failed", "err", err)
		return
	}
	var hello []byte
	if e, ok := s.feed.Latest(); ok {
		hello, _ = json.Marshal(e)
	}
	s.hub.attach(conn, hello)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// slogWriter adapts slog to the io.Writer the access-log middleware wants.
type slogWriter struct {
	log *slog.Logger
}

func (sw slogWriter) Write(p []byte) (int, error) {
	sw.log.Debug("http", "access", strings.TrimSpace(string(p)))
	return len(p), nil
}
