// internal/server/room.go
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/marou95/uno-server/internal/cache"
	"github.com/marou95/uno-server/internal/game"
)

const writeTimeout = 5 * time.Second

// room pairs one game instance with its live connections and fans game
// events out to them.
type room struct {
	game *game.UnoGame

	mu    sync.Mutex
	conns map[string]*websocket.Conn // session id -> connection

	log *logrus.Entry
}

func newRoom(g *game.UnoGame) *room {
	r := &room{
		game:  g,
		conns: make(map[string]*websocket.Conn),
		log:   logrus.WithField("room", g.Code),
	}
	g.BroadcastFn = r.broadcast
	g.BroadcastToPlayerFn = r.sendTo
	g.Mirror = r.mirror
	return r
}

// attach registers a connection for fan-out.
func (r *room) attach(sessionID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sessionID] = conn
}

// detach forgets a connection; the session may later be rebound to a new
// one through the game's reconnection path.
func (r *room) detach(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, sessionID)
}

func (r *room) connCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// broadcast writes an event to every attached connection. Write failures
// are logged and left to the read loop to surface as disconnects.
func (r *room) broadcast(ev game.GameEvent) {
	r.mu.Lock()
	targets := make(map[string]*websocket.Conn, len(r.conns))
	for id, c := range r.conns {
		targets[id] = c
	}
	r.mu.Unlock()

	for id, conn := range targets {
		r.write(id, conn, ev)
	}
}

// sendTo writes an event to a single session's connection, if attached.
func (r *room) sendTo(sessionID string, ev game.GameEvent) {
	r.mu.Lock()
	conn := r.conns[sessionID]
	r.mu.Unlock()
	if conn == nil {
		return
	}
	r.write(sessionID, conn, ev)
}

func (r *room) write(sessionID string, conn *websocket.Conn, ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		r.log.WithError(err).WithField("session", sessionID).Debug("Event write failed")
	}
}

// mirror publishes the post-mutation state surface asynchronously; a slow
// or absent Redis must never stall a game callback.
func (r *room) mirror(state game.MirrorState) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomState(ctx, state.RoomCode, state); err != nil {
			r.log.WithError(err).Debug("State mirror publish failed")
		}
	}()
}

// readLoop decodes inbound commands and dispatches them to the game until
// the connection closes.
func (r *room) readLoop(ctx context.Context, sessionID string, conn *websocket.Conn) {
	for {
		var msg inboundMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			var closeErr websocket.CloseError
			if !errors.As(err, &closeErr) && ctx.Err() == nil {
				r.log.WithError(err).WithField("session", sessionID).Debug("Read loop ended")
			}
			return
		}
		r.dispatch(sessionID, msg)
	}
}

// dispatch maps one inbound command onto the game's mutation surface.
func (r *room) dispatch(sessionID string, msg inboundMessage) {
	switch msg.Type {
	case MsgSetInfo:
		r.game.HandleSetName(sessionID, msg.Name)
	case MsgToggleReady:
		r.game.HandleToggleReady(sessionID)
	case MsgStartGame:
		r.game.HandleStartGame(sessionID)
	case MsgPlayCard:
		r.game.HandlePlayCard(sessionID, msg.CardID, msg.ChosenColor)
	case MsgDrawCard:
		r.game.HandleDrawCard(sessionID)
	case MsgSayUno:
		r.game.HandleDeclareUno(sessionID)
	case MsgCatchUno:
		r.game.HandleCatchUno(sessionID)
	case MsgRestartGame:
		r.game.HandleRestartGame(sessionID)
	case MsgAddBot:
		r.game.HandleAddBot(sessionID)
	case MsgRemoveBot:
		r.game.HandleRemoveBot(sessionID, msg.BotID)
	case MsgRefresh:
		r.sendTo(sessionID, game.GameEvent{
			Type:  game.EventStateSync,
			State: r.game.SnapshotFor(sessionID),
		})
	default:
		r.log.WithField("type", msg.Type).Debug("Unknown message type")
	}
}
