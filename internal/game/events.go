// internal/game/events.go
package game

// GameEventType represents the type of a game-related event delivered to clients.
type GameEventType string

// Constants defining the GameEvent types used for client communication.
const (
	EventNotification   GameEventType = "notification"      // Public: free-text table announcement.
	EventInvalidMove    GameEventType = "invalid_move"      // Private: rejected play attempt.
	EventPlayableDrawn  GameEventType = "playable_drawn"    // Private: the card just drawn is playable.
	EventCanStack       GameEventType = "can_stack"         // Public: next seat may counter the draw-stack.
	EventDrawPenalty    GameEventType = "draw_penalty"      // Public: seat force-drew penalty cards.
	EventDeckReshuffled GameEventType = "deck_reshuffled"   // Public: discard pile recycled into draw pile.
	EventRoundWinner    GameEventType = "round_winner"      // Public: round over, winner announced.
	EventGameRestarted  GameEventType = "game_restarted"    // Public: host started a new round.
	EventPlayerJoined   GameEventType = "player_joined"     // Public: new seat occupied.
	EventPlayerLeft     GameEventType = "player_left"       // Public: seat vacated.
	EventPlayerDropped  GameEventType = "player_dropped"    // Public: seat lost its connection.
	EventPlayerReturned GameEventType = "player_returned"   // Public: disconnected seat reconnected.
	EventBotAdded       GameEventType = "bot_added"         // Public: automated seat added.
	EventBotRemoved     GameEventType = "bot_removed"       // Public: automated seat removed.
	EventStateSync      GameEventType = "state_sync"        // Private: full table snapshot for one viewer.
)

// GameEvent is the standard structure for notifying clients of state changes.
type GameEvent struct {
	Type    GameEventType  `json:"type"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`

	State *TableSnapshot `json:"state,omitempty"` // Populated for sync events only.
}

// notify broadcasts a plain notification to the whole table.
// Assumes lock is held by caller.
func (g *UnoGame) notify(msg string) {
	g.fireEvent(GameEvent{Type: EventNotification, Message: msg})
}

// fireEvent broadcasts an event to all seats via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *UnoGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to a single seat, skipping bots and
// disconnected players. Assumes lock is held by caller.
func (g *UnoGame) fireEventToPlayer(sessionID string, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	p := g.players[sessionID]
	if p == nil || p.IsBot() || !p.Connected {
		return
	}
	g.BroadcastToPlayerFn(sessionID, ev)
}
