// Package server implements the daemon's WebSocket accept loop (component
// M, spec.md §4.L): bind loopback-only, accept one connection per
// developer client, and run each connection's read loop through
// internal/dispatcher until it closes. Grounded on the teacher's
// internal/direct.Server (net.Listen + http.Serve + coder/websocket), with
// the JWT handoff auth stripped since nothing in spec.md calls for it on a
// local host.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/gitbobobo/tidyflow/internal/dispatcher"
	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/logger"
	"github.com/gitbobobo/tidyflow/internal/watcher"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

// maxMessageBytes caps a single inbound frame; file writes are already
// bounded at fsadapter.MaxFileSize well under this.
const maxMessageBytes = 4 * 1024 * 1024

// Server binds a loopback TCP listener and serves the daemon's single `/ws`
// endpoint.
type Server struct {
	Shared *handlercontext.Shared

	mu       sync.Mutex
	listener net.Listener
}

// Start listens on addr (normally 127.0.0.1:<port>) and serves until ctx is
// canceled or the listener fails.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	httpSrv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	logger.Info("server: listening", "addr", addr)

	select {
	case <-ctx.Done():
		logger.Info("server: shutting down")
		s.Shared.Registry.CloseAll()
		if s.Shared.Saver != nil {
			s.Shared.Saver.Stop()
		}
		return httpSrv.Close()
	case err := <-errCh:
		return err
	}
}

// Close stops the listener directly, used by callers that don't hold the
// ctx this Start was given.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

// handleWS upgrades one connection and runs its read loop until the socket
// closes, mirroring spec.md §4.L's one-actor-set-per-connection shape.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Warn("server: websocket accept failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageBytes)
	defer conn.CloseNow()

	ctx := r.Context()

	var sendMu sync.Mutex
	send := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		sendMu.Lock()
		defer sendMu.Unlock()
		return conn.Write(ctx, websocket.MessageText, data)
	}

	watchEvents := make(chan any, 64)
	hctx := handlercontext.New(s.Shared, send, watchEvents)
	defer hctx.CloseAllSubscriptions()

	hello := ws.Hello{Type: ws.TypeHello, Version: 1, Capabilities: []string{"flow_control", "integration_worktree"}}
	if err := send(hello); err != nil {
		return
	}

	go relayWatchEvents(ctx, hctx, watchEvents)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		dispatcher.Dispatch(ctx, hctx, data)
	}
}

// relayWatchEvents forwards a connection's watcher.FileChanged/
// GitStatusChanged values onto the wire as their ws DTOs, independent of
// the read loop (spec.md §4.E, §4.L).
func relayWatchEvents(ctx context.Context, hctx *handlercontext.Context, events <-chan any) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case watcher.FileChanged:
				hctx.Send(ws.FileChanged{Type: ws.TypeFileChanged, Project: e.Project, Workspace: e.Workspace, Paths: e.Paths, Kind: "changed"})
			case watcher.GitStatusChanged:
				hctx.Send(ws.GitStatusChanged{Type: ws.TypeGitStatusChanged, Project: e.Project, Workspace: e.Workspace})
			}
		}
	}
}
