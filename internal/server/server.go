// internal/server/server.go

// Package server is the websocket transport in front of the game core. It
// owns the room registry and per-connection read loops, and wires each
// room's broadcast/unicast callbacks and state mirror. The game package
// never sees a connection.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/marou95/uno-server/internal/auth"
	"github.com/marou95/uno-server/internal/cache"
	"github.com/marou95/uno-server/internal/config"
	"github.com/marou95/uno-server/internal/game"
	"github.com/marou95/uno-server/internal/models"
)

// Server hosts every live room.
type Server struct {
	cfg *config.Config

	mu    sync.Mutex
	rooms map[string]*room // keyed by room code

	log *logrus.Entry
}

// New creates a server with an empty room registry.
func New(cfg *config.Config) *Server {
	return &Server{
		cfg:   cfg,
		rooms: make(map[string]*room),
		log:   logrus.WithField("component", "server"),
	}
}

// Handler returns the HTTP handler exposing the websocket endpoint and a
// health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/rooms", s.handleRooms)
	mux.HandleFunc("/rooms/{code}", s.handleRoomState)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// handleRooms lists joinable room codes. The mirror's registry is
// preferred so the listing spans every instance sharing the cache; with
// no cache configured the local registry answers.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	codes, err := cache.ListRooms(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("Room listing failed")
		http.Error(w, "room listing unavailable", http.StatusServiceUnavailable)
		return
	}
	if codes == nil {
		s.mu.Lock()
		for code := range s.rooms {
			codes = append(codes, code)
		}
		s.mu.Unlock()
	}
	if codes == nil {
		codes = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"rooms": codes}); err != nil {
		s.log.WithError(err).Debug("Room listing write failed")
	}
}

// handleRoomState serves one room's last mirrored state for observers.
// The cached copy is preferred; with no cache configured a locally hosted
// room answers with a spectator snapshot (no hands revealed).
func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	raw, err := cache.RoomState(r.Context(), code)
	if err != nil {
		s.log.WithError(err).Warn("Room state fetch failed")
		http.Error(w, "room state unavailable", http.StatusServiceUnavailable)
		return
	}
	if raw != nil {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(raw); err != nil {
			s.log.WithError(err).Debug("Room state write failed")
		}
		return
	}

	s.mu.Lock()
	rm := s.rooms[code]
	s.mu.Unlock()
	if rm == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rm.game.SnapshotFor("")); err != nil {
		s.log.WithError(err).Debug("Room state write failed")
	}
}

// ListenAndServe blocks serving HTTP until the context is canceled, then
// shuts down gracefully and disposes every room.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.ListenAddr).Info("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	for code, r := range s.rooms {
		r.game.Stop()
		delete(s.rooms, code)
	}
	s.mu.Unlock()

	return srv.Shutdown(shutdownCtx)
}

// handleWS upgrades the connection and runs its read loop. Query
// parameters: room (code, empty to create one), name, and token (signed
// device token; a raw deviceId parameter is accepted as a development
// fallback).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	deviceID := ""
	if token := q.Get("token"); token != "" {
		id, err := auth.VerifyDeviceToken([]byte(s.cfg.JWTSecret), token)
		if err != nil {
			http.Error(w, "invalid device token", http.StatusUnauthorized)
			return
		}
		deviceID = id
	} else {
		deviceID = q.Get("deviceId")
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket accept failed")
		return
	}

	rm := s.findOrCreateRoom(q.Get("room"))
	if rm == nil {
		conn.Close(websocket.StatusPolicyViolation, "room not found")
		return
	}

	// Attach before joining so the reconnection path can deliver its
	// state sync to the fresh connection.
	sessionID := models.NewSessionID("")
	rm.attach(sessionID, conn)
	if !rm.game.HandleJoin(sessionID, deviceID, q.Get("name")) {
		rm.detach(sessionID)
		conn.Close(websocket.StatusPolicyViolation, "room is full")
		return
	}

	rm.readLoop(r.Context(), sessionID, conn)
	rm.detach(sessionID)
	rm.game.HandleLeave(sessionID)

	s.reapIfEmpty(rm)
}

// findOrCreateRoom resolves a room code; an empty code creates a new room.
func (s *Server) findOrCreateRoom(code string) *room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code != "" {
		return s.rooms[code]
	}

	g := game.NewUnoGame(models.DefaultHouseRules())
	rm := newRoom(g)
	s.rooms[g.Code] = rm

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.RegisterRoom(ctx, g.Code); err != nil {
		s.log.WithError(err).Warn("Failed to register room code")
	}

	s.log.WithField("room", g.Code).Info("Room created")
	return rm
}

// reapIfEmpty disposes a room once no human connection remains and no
// in-progress game is worth preserving for reconnection.
func (s *Server) reapIfEmpty(rm *room) {
	if rm.connCount() > 0 {
		return
	}
	if rm.game.Phase() != game.PhaseLobby {
		// Keep the room alive through the disconnect grace window; the
		// core returns it to the lobby phase when the last human lapses.
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rm.connCount() > 0 {
		return
	}
	rm.game.Stop()
	delete(s.rooms, rm.game.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.DropRoom(ctx, rm.game.Code); err != nil {
		s.log.WithError(err).Warn("Failed to drop room code")
	}
	s.log.WithField("room", rm.game.Code).Info("Room disposed")
}
