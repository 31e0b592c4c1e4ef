// internal/game/penalty.go
package game

import "time"

// Deferred-action subsystem for the low-hand declaration window and the
// draw-stack auto-resolution. Both follow the same policy: the handle is
// retained and canceled proactively when superseded, and the callback
// re-validates its precondition under the lock before touching anything,
// so a stale fire is a no-op rather than a double penalty.

// openUnoWindow marks the seat as the pending-penalty target and (re)arms
// the single global grace timer. Only one window can be open at a time
// since only one seat can just have played. Assumes lock is held by caller.
func (g *UnoGame) openUnoWindow(sessionID string) {
	g.cancelUnoTimer()
	g.pendingUnoID = sessionID
	g.unoTimer = time.AfterFunc(g.Rules.UnoGrace, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// Silent expiry: the window closes with no card penalty. A catch
		// or declaration processed first has already cleared the window
		// and canceled this timer; the single-slot invariant means any
		// open window found here is the one this timer was armed for,
		// even if the target's transient identity was rewritten since.
		if g.pendingUnoID == "" {
			return
		}
		g.pendingUnoID = ""
		g.unoTimer = nil
		g.mirror()
	})
}

// clearUnoWindow clears the pending target and cancels the grace timer.
// Assumes lock is held by caller.
func (g *UnoGame) clearUnoWindow() {
	g.pendingUnoID = ""
	g.cancelUnoTimer()
}

// cancelUnoTimer stops the grace timer if armed. Assumes lock is held by caller.
func (g *UnoGame) cancelUnoTimer() {
	if g.unoTimer != nil {
		g.unoTimer.Stop()
		g.unoTimer = nil
	}
}

// HandleDeclareUno processes a "say UNO" command. A seat may declare
// pre-emptively one turn early (hand size two); a declaration by the
// current pending-penalty target also closes its window.
func (g *UnoGame) HandleDeclareUno(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.players[sessionID]
	if p == nil {
		return
	}
	if len(p.Hand) <= 2 {
		p.HasDeclaredUno = true
		g.notify(p.Name + " shouted UNO!")
	}
	if g.pendingUnoID == sessionID {
		g.clearUnoWindow()
		g.notify(p.Name + " saved themselves!")
	}
	g.mirror()
}

// HandleCatchUno processes a catch attempt. It always targets whichever
// seat is currently pending; a catch after the window already closed is a
// no-op, never a double penalty.
func (g *UnoGame) HandleCatchUno(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	culpritID := g.pendingUnoID
	if culpritID == "" || culpritID == sessionID {
		return
	}
	culprit := g.players[culpritID]
	catcher := g.players[sessionID]
	if culprit == nil || catcher == nil {
		return
	}

	g.notify(catcher.Name + " caught " + culprit.Name + "!")
	g.applyPenalty(culprit, g.Rules.UnoPenaltyCount)
	g.clearUnoWindow()
	g.mirror()
}

// scheduleStackTimer arms the forced-draw timer for a seat that received a
// draw-stack it cannot (or does not) answer. Assumes lock is held by caller.
func (g *UnoGame) scheduleStackTimer(sessionID string) {
	g.cancelStackTimer(sessionID)
	g.stackTimers[sessionID] = time.AfterFunc(g.Rules.StackResolveDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		delete(g.stackTimers, sessionID)
		// Superseded if the turn moved on, the stack was answered, or the
		// seat disappeared in the meantime.
		if g.phase != PhaseActive || g.currentTurnID != sessionID || g.drawStack == 0 {
			return
		}
		p := g.players[sessionID]
		if p == nil {
			return
		}
		g.applyPenalty(p, g.drawStack)
		g.drawStack = 0
		p.HasDeclaredUno = false
		g.advanceTurn(false)
		g.mirror()
	})
}

// cancelStackTimer stops and forgets the forced-draw timer for a seat.
// Assumes lock is held by caller.
func (g *UnoGame) cancelStackTimer(sessionID string) {
	if t, ok := g.stackTimers[sessionID]; ok {
		t.Stop()
		delete(g.stackTimers, sessionID)
	}
}
