// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

// Package admin serves the read-only HTTP surface of a relay:
// health, counters, the connected client table and a websocket spectator feed.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/server"
)

const (
	feedPeriodDefault = time.Second
	writeTimeout      = 5 * time.Second
	shutdownTimeout   = 2 * time.Second
)

// Relay is what the admin server reads. Both methods must be safe for concurrent use.
type Relay interface {
	Clients() []server.ClientInfo
	Metrics() *server.Metrics
}

// Feed is a single spectator frame, msgpack encoded.
type Feed struct {
	Seq     uint64              `msgpack:"seq"`
	Time    int64               `msgpack:"time"` // unix milliseconds
	Clients []server.ClientInfo `msgpack:"clients"`
}

type Metrics struct {
	Relay map[string]uint64           `json:"relay"`
	Frame map[string]frame.PhaseStats `json:"frame,omitempty"`
}

type Server struct {
	relay      Relay
	stats      *frame.Stats
	feedPeriod time.Duration
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func New(relay Relay, opts ...func(*Server)) *Server {
	s := &Server{
		relay:      relay,
		feedPeriod: feedPeriodDefault,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var WithLogger = func(log *slog.Logger) func(*Server) {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFrameStats adds the frame loop timings to the metrics output.
var WithFrameStats = func(stats *frame.Stats) func(*Server) {
	return func(s *Server) {
		s.stats = stats
	}
}

// WithFeedPeriod sets how often the spectator feed sends a frame.
var WithFeedPeriod = func(d time.Duration) func(*Server) {
	return func(s *Server) {
		if d > 0 {
			s.feedPeriod = d
		}
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /clients", s.handleClients)
	mux.HandleFunc("GET /ws", s.handleFeed)
	return mux
}

// ListenAndServe serves until the context is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("admin: failed to listen: %w", err)
	}

	return s.Serve(ctx, l)
}

func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("admin server started", "addr", l.Addr().String())
	defer s.log.Info("admin server stopped")

	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return fmt.Errorf("admin: %w", err)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := Metrics{Relay: s.relay.Metrics().Snapshot()}
	if s.stats != nil {
		m.Frame = s.stats.Snapshot()
	}

	s.writeJSON(w, m)
}

func (s *Server) handleClients(w http.ResponseWriter, _ *http.Request) {
	clients := s.relay.Clients()
	if clients == nil {
		clients = []server.ClientInfo{}
	}

	s.writeJSON(w, clients)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to write response", "err", err)
	}
}

// handleFeed streams the client table to a websocket spectator until either side closes.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	log := s.log.With("remote", r.RemoteAddr)
	log.Debug("spectator joined")
	defer log.Debug("spectator left")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// spectators never send anything, reading only detects the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.feedPeriod)
	defer ticker.Stop()

	var seq uint64
	for {
		data, err := msgpack.Marshal(&Feed{
			Seq:     seq,
			Time:    time.Now().UnixMilli(),
			Clients: s.relay.Clients(),
		})
		if err != nil {
			log.Error("failed to encode feed", "err", err)
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Debug("failed to write feed", "err", err)
			return
		}

		seq++

		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(time.Second))
			return
		case <-ticker.C:
		}
	}
}
