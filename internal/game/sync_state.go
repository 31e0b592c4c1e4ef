// internal/game/sync_state.go
package game

import "github.com/marou95/uno-server/internal/models"

// SeatView is one seat's state as seen by a specific viewer. Hand contents
// are revealed only to the owning viewer; other seats see card counts.
type SeatView struct {
	SessionID      string        `json:"sessionId"`
	Name           string        `json:"name"`
	CardsRemaining int           `json:"cardsRemaining"`
	Ready          bool          `json:"isReady"`
	Connected      bool          `json:"isConnected"`
	HasDeclaredUno bool          `json:"hasSaidUno"`
	IsBot          bool          `json:"isBot"`
	IsCurrentTurn  bool          `json:"isCurrentTurn"`
	Hand           []models.Card `json:"hand,omitempty"` // self only
}

// TableSnapshot is the full table state tailored to one viewer.
type TableSnapshot struct {
	RoomCode      string       `json:"roomCode"`
	Phase         Phase        `json:"phase"`
	Winner        string       `json:"winner,omitempty"`
	Table         TableState   `json:"table"`
	Direction     int          `json:"direction"`
	DrawStack     int          `json:"drawStack"`
	DrawPileSize  int          `json:"drawPileSize"`
	DiscardTop    *models.Card `json:"discardTop,omitempty"`
	CurrentTurnID string       `json:"currentTurnId"`
	PendingUnoID  string       `json:"pendingUnoId,omitempty"`
	Seats         []SeatView   `json:"seats"`
}

// buildSnapshot assembles the table state from the viewer's perspective.
// Assumes lock is held by caller.
func (g *UnoGame) buildSnapshot(forSession string) *TableSnapshot {
	snap := &TableSnapshot{
		RoomCode:      g.Code,
		Phase:         g.phase,
		Winner:        g.winner,
		Table:         g.table,
		Direction:     g.order.Direction(),
		DrawStack:     g.drawStack,
		DrawPileSize:  len(g.drawPile),
		CurrentTurnID: g.currentTurnID,
		PendingUnoID:  g.pendingUnoID,
	}
	if n := len(g.discardPile); n > 0 {
		top := g.discardPile[n-1]
		snap.DiscardTop = &top
	}
	for _, seatID := range g.order.Seats() {
		p := g.players[seatID]
		if p == nil {
			continue
		}
		view := SeatView{
			SessionID:      p.SessionID,
			Name:           p.Name,
			CardsRemaining: len(p.Hand),
			Ready:          p.Ready,
			Connected:      p.Connected,
			HasDeclaredUno: p.HasDeclaredUno,
			IsBot:          p.IsBot(),
			IsCurrentTurn:  p.SessionID == g.currentTurnID,
		}
		if p.SessionID == forSession {
			view.Hand = append([]models.Card(nil), p.Hand...)
		}
		snap.Seats = append(snap.Seats, view)
	}
	return snap
}

// MirrorState is the unobfuscated state surface an external synchronization
// layer must keep consistent for observers: full registry including hand
// contents, both piles, and every table-state field.
type MirrorState struct {
	GameID        string           `json:"gameId"`
	RoomCode      string           `json:"roomCode"`
	Phase         Phase            `json:"phase"`
	Winner        string           `json:"winner,omitempty"`
	Table         TableState       `json:"table"`
	Direction     int              `json:"direction"`
	DrawStack     int              `json:"drawStack"`
	CurrentTurnID string           `json:"currentTurnId"`
	PendingUnoID  string           `json:"pendingUnoId,omitempty"`
	DrawPile      []models.Card    `json:"drawPile"`
	DiscardPile   []models.Card    `json:"discardPile"`
	Players       []*models.Player `json:"players"`
	SeatOrder     []string         `json:"seatOrder"`
}

// buildMirrorState copies the observable surface for asynchronous
// publication. Assumes lock is held by caller.
func (g *UnoGame) buildMirrorState() MirrorState {
	st := MirrorState{
		GameID:        g.ID.String(),
		RoomCode:      g.Code,
		Phase:         g.phase,
		Winner:        g.winner,
		Table:         g.table,
		Direction:     g.order.Direction(),
		DrawStack:     g.drawStack,
		CurrentTurnID: g.currentTurnID,
		PendingUnoID:  g.pendingUnoID,
		DrawPile:      append([]models.Card(nil), g.drawPile...),
		DiscardPile:   append([]models.Card(nil), g.discardPile...),
		SeatOrder:     append([]string(nil), g.order.Seats()...),
	}
	for _, seatID := range st.SeatOrder {
		if p := g.players[seatID]; p != nil {
			cp := *p
			cp.Hand = append([]models.Card(nil), p.Hand...)
			st.Players = append(st.Players, &cp)
		}
	}
	return st
}

// SnapshotFor returns a viewer-tailored snapshot, for transports serving
// explicit state-refresh requests.
func (g *UnoGame) SnapshotFor(sessionID string) *TableSnapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.buildSnapshot(sessionID)
}
