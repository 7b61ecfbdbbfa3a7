package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/pairline/internal/application"
	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Lobby is what the transport drives: the matchmaker.
type Lobby interface {
	Join(conn ports.Connection, rawName string) (domain.Name, error)
	Requeue(conn ports.Connection) error
	Disconnect(conn ports.Connection)
	Stats() application.Stats
}

type Options struct {
	MaxMessageBytes int64
	SendBuffer      int
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
	// Drain runs once the listener has stopped and before open
	// connections are closed.
	Drain func()
	// CheckOrigin defaults to accepting every origin.
	CheckOrigin func(r *http.Request) bool
}

type Server struct {
	lobby    Lobby
	opts     Options
	log      *zap.Logger
	router   *httprouter.Router
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*Conn]struct{}
	closed bool
	pumps  sync.WaitGroup
}

func NewServer(lobby Lobby, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = func(*http.Request) bool { return true }
	}

	s := &Server{
		lobby:  lobby,
		opts:   opts,
		log:    opts.Logger.Named("ws"),
		router: httprouter.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		conns: make(map[*Conn]struct{}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/ws", s.handleWebSocket)
	s.router.GET("/stats", s.handleStats)
	s.router.GET("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		s.router.Handler(http.MethodGet, "/metrics", s.opts.Metrics)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts on ln until ctx is done, then stops accepting, closes every
// open connection and waits for their disconnects to be reconciled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve http: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		s.CloseConnections()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}
	if s.opts.Drain != nil {
		s.opts.Drain()
	}
	s.CloseConnections()
	if err := <-errCh; err != nil {
		errs = append(errs, err)
	}
	s.log.Info("stopped")
	return errors.Join(errs...)
}

// ListenAndServe binds addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// CloseConnections closes every open websocket and waits until each one
// has gone through Disconnect. New upgrades are refused afterwards.
func (s *Server) CloseConnections() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	s.pumps.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := newConn(wsConn, s.opts.SendBuffer, s.log)
	s.bind(conn)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = wsConn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.pumps.Add(2)
	s.mu.Unlock()

	s.log.Debug("connection opened", zap.String("conn", conn.ID()), zap.String("remote", r.RemoteAddr))

	go func() {
		defer s.pumps.Done()
		conn.writePump()
	}()
	go func() {
		defer s.pumps.Done()
		conn.readPump(s.opts.MaxMessageBytes, s.release)
	}()
}

// bind installs the lobby-level events every connection understands.
func (s *Server) bind(conn *Conn) {
	conn.On(domain.EventJoin, func(payload []byte) {
		var req domain.JoinRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.log.Debug("malformed join request", zap.String("conn", conn.ID()), zap.Error(err))
		}
		if _, err := s.lobby.Join(conn, req.Name); err != nil {
			s.log.Debug("join refused", zap.String("conn", conn.ID()), zap.Error(err))
		}
	})
	conn.On(domain.EventRequeue, func([]byte) {
		if err := s.lobby.Requeue(conn); err != nil {
			s.log.Debug("requeue refused", zap.String("conn", conn.ID()), zap.Error(err))
		}
	})
}

func (s *Server) release(conn *Conn) {
	s.lobby.Disconnect(conn)

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()

	s.log.Debug("connection closed", zap.String("conn", conn.ID()))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.lobby.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
