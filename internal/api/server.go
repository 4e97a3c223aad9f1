package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Server wraps the HTTP server boards are persisted through.
type Server struct {
	httpServer *http.Server
	watcher    *FileWatcher
	wsHub      *WebSocketHub
	log        *log.Entry
}

// NewServer creates a server for pc listening on addr. File watching and
// the WebSocket endpoint are enabled when watch is true.
func NewServer(pc *ProjectContext, addr string, watch bool, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	NewHandler(pc, logger).RegisterRoutes(mux)

	entry := logger.WithField("component", "server")
	wsHub := NewWebSocketHub(logger)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	var watcher *FileWatcher
	if watch {
		var err error
		watcher, err = NewFileWatcher(pc.ProjectRoot, logger)
		if err != nil {
			entry.WithError(err).Warn("failed to create file watcher")
		} else {
			if pc.Cache != nil {
				watcher.Subscribe(EvictOnChange(pc.Cache))
			}
			watcher.Subscribe(wsHub)
		}
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      WithRequestID(Logging(logger, Cors(mux))),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher: watcher,
		wsHub:   wsHub,
		log:     entry,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. Blocks until shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			s.log.WithError(err).Warn("failed to start file watcher")
		}
	}
	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.log.WithError(err).Warn("failed to stop file watcher")
		}
	}
	// Hijacked connections aren't tracked by http.Server.
	s.wsHub.Close()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is configured to listen on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
