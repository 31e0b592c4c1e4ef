// internal/game/reconnect.go
package game

import (
	"time"

	"github.com/marou95/uno-server/internal/models"
)

// Session continuity. A participant is keyed durably by device identity
// and transiently by session identity; reconnection rebinds the durable
// entry to a fresh session id and rewrites every live reference to the old
// one (players map key, turn-order entry, current-turn pointer,
// pending-penalty pointer, forced-draw timer) so in-flight state survives
// the transport change.

// HandleJoin registers a connection under sessionID. A previously unseen
// device identity creates a new seat; a device matching a disconnected
// seat reinstates it. Returns false when the room is full and the
// connection should be refused.
func (g *UnoGame) HandleJoin(sessionID, deviceID, name string) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if p := g.players[sessionID]; p != nil {
		p.Connected = true
		return true
	}

	// Recovery path: a disconnected seat with the same durable identity.
	if deviceID != "" {
		for oldID, p := range g.players {
			if p.DeviceID == deviceID && !p.Connected {
				g.reinstateSeat(oldID, sessionID, name, p)
				g.mirror()
				return true
			}
		}
	}

	if g.order.Len() >= g.Rules.MaxSeats {
		return false
	}

	if name == "" {
		name = "Guest"
	}
	if deviceID == "" {
		deviceID = "unknown"
	}
	p := &models.Player{
		SessionID: sessionID,
		DeviceID:  deviceID,
		Name:      name,
		Connected: true,
	}
	g.players[sessionID] = p
	g.order.Append(sessionID)

	g.log.WithField("player", name).Info("Player joined")
	g.fireEvent(GameEvent{
		Type:    EventPlayerJoined,
		Message: name + " joined the room.",
		Payload: map[string]any{"sessionId": sessionID, "name": name},
	})
	g.mirror()
	return true
}

// reinstateSeat rebinds a disconnected seat to a new transient identity.
// Assumes lock is held by caller.
func (g *UnoGame) reinstateSeat(oldID, newID, name string, p *models.Player) {
	g.cancelRemovalTimer(oldID)

	p.Connected = true
	p.SessionID = newID
	if name != "" {
		p.Name = name
	}

	delete(g.players, oldID)
	g.players[newID] = p

	g.order.Replace(oldID, newID)
	if g.currentTurnID == oldID {
		g.currentTurnID = newID
	}
	if g.pendingUnoID == oldID {
		g.pendingUnoID = newID
	}
	// A forced-draw timer armed for the old identity would discard itself
	// as stale; re-arm it under the new one.
	if _, ok := g.stackTimers[oldID]; ok {
		g.cancelStackTimer(oldID)
		g.scheduleStackTimer(newID)
	}

	g.log.WithField("player", p.Name).Info("Player reconnected")
	g.fireEvent(GameEvent{
		Type:    EventPlayerReturned,
		Message: p.Name + " reconnected!",
		Payload: map[string]any{"sessionId": newID, "name": p.Name},
	})
	g.fireEventToPlayer(newID, GameEvent{Type: EventStateSync, State: g.buildSnapshot(newID)})
}

// HandleLeave processes a connection loss. During the lobby the seat is
// removed immediately; once the game has committed to its seats the player
// is only marked disconnected and a removal grace timer starts.
func (g *UnoGame) HandleLeave(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.players[sessionID]
	if p == nil {
		return
	}

	if g.phase == PhaseLobby {
		delete(g.players, sessionID)
		g.order.Remove(sessionID)
		g.fireEvent(GameEvent{
			Type:    EventPlayerLeft,
			Message: p.Name + " left the room.",
			Payload: map[string]any{"sessionId": sessionID},
		})
		g.mirror()
		return
	}

	p.Connected = false
	g.fireEvent(GameEvent{
		Type:    EventPlayerDropped,
		Message: p.Name + " disconnected.",
		Payload: map[string]any{"sessionId": sessionID},
	})
	g.scheduleRemoval(sessionID)
	g.mirror()
}

// scheduleRemoval arms the disconnect grace timer for a seat.
// Assumes lock is held by caller.
func (g *UnoGame) scheduleRemoval(sessionID string) {
	g.cancelRemovalTimer(sessionID)
	g.removalTimers[sessionID] = time.AfterFunc(g.Rules.DisconnectGrace, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		delete(g.removalTimers, sessionID)
		// A reconnection rebinds the seat under a new session id and
		// cancels this timer; finding the old id still present and
		// disconnected means the grace window truly lapsed.
		p := g.players[sessionID]
		if p == nil || p.Connected {
			return
		}
		g.removeSeat(sessionID, p)
		g.mirror()
	})
}

// removeSeat permanently deletes a seat and repairs everything that
// referenced it. Assumes lock is held by caller.
func (g *UnoGame) removeSeat(sessionID string, p *models.Player) {
	wasTurn := g.currentTurnID == sessionID

	g.cancelStackTimer(sessionID)
	if g.pendingUnoID == sessionID {
		g.clearUnoWindow()
	}

	delete(g.players, sessionID)
	g.order.Remove(sessionID)

	g.log.WithField("player", p.Name).Info("Player removed after grace period")
	g.fireEvent(GameEvent{
		Type:    EventPlayerLeft,
		Message: p.Name + " was removed.",
		Payload: map[string]any{"sessionId": sessionID},
	})

	humans := 0
	for _, pl := range g.players {
		if !pl.IsBot() {
			humans++
		}
	}
	if humans < 1 {
		g.phase = PhaseLobby
		g.notify("Game aborted.")
		return
	}

	if g.phase == PhaseActive && wasTurn {
		g.advanceTurn(false)
	}
}

// cancelRemovalTimer stops and forgets a seat's disconnect grace timer.
// Assumes lock is held by caller.
func (g *UnoGame) cancelRemovalTimer(sessionID string) {
	if t, ok := g.removalTimers[sessionID]; ok {
		t.Stop()
		delete(g.removalTimers, sessionID)
	}
}
