// internal/game/game.go
package game

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marou95/uno-server/internal/models"
)

// Phase is the lifecycle state of a room.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "playing"
	PhaseFinished Phase = "finished"
)

// botNames is the pool automated seats draw their display names from.
var botNames = []string{
	"Skipinator", "Trollwild", "Drawtwo", "Plusfour", "ReverseMaster",
	"UnoBot", "CardShark", "WildOne", "ColorChanger", "Botley",
}

// MirrorFn receives the full observable state surface after every mutation,
// for an external synchronization layer to replicate to observers.
type MirrorFn func(state MirrorState)

// UnoGame is the authoritative state and logic for a single room. All
// fields are guarded by Mu: every command handler and every timer callback
// acquires it, runs to completion, and re-validates its precondition, so
// invariants are stable within one callback and hazards arise only between
// callbacks.
type UnoGame struct {
	ID   uuid.UUID
	Code string

	Rules models.HouseRules

	players map[string]*models.Player // transient session id -> seat
	order   *TurnOrder

	drawPile    []models.Card
	discardPile []models.Card

	table     TableState
	drawStack int

	phase         Phase
	winner        string
	currentTurnID string
	pendingUnoID  string // seat under low-hand-penalty threat, "" when none

	// Retained timer handles, canceled proactively when superseded.
	// Every callback re-validates under the lock regardless.
	unoTimer      *time.Timer            // single global grace-window slot
	botTimers     map[string]*time.Timer // keyed by bot seat
	stackTimers   map[string]*time.Timer // keyed by the seat owing the stack
	removalTimers map[string]*time.Timer // keyed by disconnected seat

	Mu sync.Mutex

	// Communication callbacks; the core never touches the transport.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(sessionID string, ev GameEvent)
	Mirror              MirrorFn

	log *logrus.Entry
}

// NewUnoGame creates a room in the lobby phase with the given rules.
func NewUnoGame(rules models.HouseRules) *UnoGame {
	id := uuid.New()
	g := &UnoGame{
		ID:            id,
		Code:          newRoomCode(),
		Rules:         rules,
		players:       make(map[string]*models.Player),
		order:         NewTurnOrder(),
		phase:         PhaseLobby,
		botTimers:     make(map[string]*time.Timer),
		stackTimers:   make(map[string]*time.Timer),
		removalTimers: make(map[string]*time.Timer),
		log:           logrus.WithField("game", id.String()[:8]),
	}
	g.log = g.log.WithField("room", g.Code)
	return g
}

// newRoomCode returns a 5-letter room code for external discovery.
func newRoomCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 5)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}

// Stop cancels every outstanding timer. Called when the room is disposed.
func (g *UnoGame) Stop() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.cancelUnoTimer()
	for id := range g.botTimers {
		g.cancelBotTimer(id)
	}
	for id := range g.stackTimers {
		g.cancelStackTimer(id)
	}
	for id := range g.removalTimers {
		g.cancelRemovalTimer(id)
	}
}

// Phase returns the current lifecycle phase.
func (g *UnoGame) Phase() Phase {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.phase
}

// mirror pushes the post-mutation observable state to the external
// synchronization layer. Assumes lock is held by caller.
func (g *UnoGame) mirror() {
	if g.Mirror == nil {
		return
	}
	g.Mirror(g.buildMirrorState())
}

// ---------------------------------------------------------------------------
// Lobby commands
// ---------------------------------------------------------------------------

// HandleSetName updates a seat's display name.
func (g *UnoGame) HandleSetName(sessionID, name string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.players[sessionID]
	if p == nil {
		return
	}
	if name == "" {
		name = "Guest"
	}
	p.Name = name
	g.mirror()
}

// HandleToggleReady flips a seat's ready flag. Lobby phase only.
func (g *UnoGame) HandleToggleReady(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhaseLobby {
		return
	}
	p := g.players[sessionID]
	if p == nil {
		return
	}
	p.Ready = !p.Ready
	g.mirror()
}

// HandleStartGame deals and opens play when every seat is ready and at
// least two seats are present.
func (g *UnoGame) HandleStartGame(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhaseLobby {
		return
	}
	if g.players[sessionID] == nil {
		return
	}
	ready := 0
	for _, p := range g.players {
		if p.Ready {
			ready++
		}
	}
	if ready < 2 || ready != len(g.players) {
		return
	}
	g.startGameLocked()
	g.mirror()
}

// HandleRestartGame starts a new round. Finished phase only, restricted to
// the seat that joined first.
func (g *UnoGame) HandleRestartGame(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.phase != PhaseFinished {
		return
	}
	if g.order.First() != sessionID {
		return
	}
	g.log.Info("Host restarting game")
	g.fireEvent(GameEvent{Type: EventGameRestarted, Message: "Starting a new game!"})
	g.startGameLocked()
	g.mirror()
}

// startGameLocked resets piles and hands, deals, flips the opening card and
// hands the first turn to the seat that joined first.
// Assumes lock is held by caller.
func (g *UnoGame) startGameLocked() {
	g.cancelUnoTimer()
	for id := range g.botTimers {
		g.cancelBotTimer(id)
	}
	for id := range g.stackTimers {
		g.cancelStackTimer(id)
	}
	g.pendingUnoID = ""
	g.drawStack = 0
	g.winner = ""
	g.order.ResetDirection()
	g.discardPile = g.discardPile[:0]

	g.phase = PhaseActive
	g.buildDeck()
	g.shuffleDraw()

	for _, seatID := range g.order.Seats() {
		p := g.players[seatID]
		if p == nil {
			continue
		}
		p.Hand = p.Hand[:0]
		for i := 0; i < g.Rules.HandSize; i++ {
			g.drawToHand(p)
		}
		p.HasDeclaredUno = false
	}

	// Flip the opening card. The pile cannot be empty here with a sane
	// seat cap, but rebuild rather than crash if it ever is.
	if len(g.drawPile) == 0 {
		g.buildDeck()
		g.shuffleDraw()
	}
	first := g.drawPile[len(g.drawPile)-1]
	g.drawPile = g.drawPile[:len(g.drawPile)-1]
	g.discardPile = append(g.discardPile, first)

	g.table = TableState{Color: first.Color, Kind: first.Kind, Value: first.Value}
	if first.Color == models.ColorBlack {
		g.table.Color = models.RandomColor()
	}

	g.currentTurnID = g.order.First()
	g.log.WithField("firstTurn", g.currentTurnID).Info("Game started")

	if p := g.players[g.currentTurnID]; p != nil && p.IsBot() {
		g.scheduleBotTurn(g.currentTurnID)
	}
}

// ---------------------------------------------------------------------------
// Play commands
// ---------------------------------------------------------------------------

// HandlePlayCard validates and resolves a play from the given seat.
// chosenColor is meaningful only for wildcards.
func (g *UnoGame) HandlePlayCard(sessionID, cardID string, chosenColor models.CardColor) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.playCardLocked(sessionID, cardID, chosenColor)
	g.mirror()
}

// playCardLocked is the effect resolver. Assumes lock is held by caller.
func (g *UnoGame) playCardLocked(sessionID, cardID string, chosenColor models.CardColor) {
	if g.phase != PhaseActive || g.currentTurnID != sessionID {
		return
	}
	p := g.players[sessionID]
	if p == nil {
		return
	}
	idx := p.FindCard(cardID)
	if idx == -1 {
		return
	}
	card := p.Hand[idx]

	if !isPlayable(card, g.table) {
		g.fireEventToPlayer(sessionID, GameEvent{Type: EventInvalidMove, Message: "Invalid move"})
		return
	}

	g.discardFromHand(p, cardID)

	// Low-hand bookkeeping: an undeclared one-card hand opens the penalty
	// window; playing out of a pending window closes it.
	if len(p.Hand) == 1 && !p.HasDeclaredUno {
		g.openUnoWindow(sessionID)
	} else if g.pendingUnoID == sessionID {
		g.clearUnoWindow()
	}

	if len(p.Hand) == 0 {
		g.finishRound(p)
		return
	}

	if len(p.Hand) > 1 {
		p.HasDeclaredUno = false
	}

	if card.Color == models.ColorBlack {
		if chosenColor.IsPlayable() {
			g.table.Color = chosenColor
		}
	} else {
		g.table.Color = card.Color
	}
	g.table.Kind = card.Kind
	g.table.Value = card.Value

	skipNext := false
	switch card.Kind {
	case models.KindReverse:
		// With two seats rotation direction is meaningless; a reverse
		// acts as a skip instead.
		if g.order.Len() == 2 {
			skipNext = true
		} else {
			g.order.Reverse()
		}
	case models.KindSkip:
		skipNext = true
	case models.KindDraw2:
		g.drawStack += 2
	case models.KindWild4:
		g.drawStack += 4
	}

	g.advanceTurn(skipNext)
}

// finishRound ends the hand: records the winner, freezes play and cancels
// play-phase timers. Assumes lock is held by caller.
func (g *UnoGame) finishRound(winner *models.Player) {
	g.winner = winner.Name
	g.phase = PhaseFinished
	g.cancelUnoTimer()
	g.pendingUnoID = ""
	for id := range g.botTimers {
		g.cancelBotTimer(id)
	}
	for id := range g.stackTimers {
		g.cancelStackTimer(id)
	}
	g.log.WithField("winner", winner.Name).Info("Round finished")
	g.fireEvent(GameEvent{
		Type:    EventRoundWinner,
		Message: winner.Name + " wins the round!",
		Payload: map[string]any{"winner": winner.Name},
	})
}

// advanceTurn moves the current-turn pointer one step (two with skip) and
// arms whatever follow-up the new seat requires: a bot think timer, a
// "can stack" prompt, or a forced-draw timer. Assumes lock is held by caller.
func (g *UnoGame) advanceTurn(skip bool) {
	next := g.order.Next(g.currentTurnID, skip)
	if next == "" {
		// Empty order: the game cannot proceed; degrade to a no-op.
		return
	}

	// The previous seat's forced-draw timer, if any, is superseded.
	g.cancelStackTimer(g.currentTurnID)

	g.currentTurnID = next
	nextPlayer := g.players[next]

	if nextPlayer != nil && nextPlayer.IsBot() {
		g.scheduleBotTurn(next)
	}

	if g.drawStack > 0 && nextPlayer != nil {
		// A draw-two chain can be countered with another draw-two; a
		// wild-draw-four chain cannot.
		if g.table.Kind == models.KindDraw2 && nextPlayer.HasKind(models.KindDraw2) {
			g.fireEvent(GameEvent{
				Type:    EventCanStack,
				Message: nextPlayer.Name + " can stack!",
				Payload: map[string]any{"sessionId": next, "drawStack": g.drawStack},
			})
		} else {
			g.scheduleStackTimer(next)
		}
	}
}

// HandleDrawCard resolves a voluntary draw, or the whole pending
// draw-stack when one is owed.
func (g *UnoGame) HandleDrawCard(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.drawCardLocked(sessionID)
	g.mirror()
}

// drawCardLocked assumes lock is held by caller.
func (g *UnoGame) drawCardLocked(sessionID string) {
	if g.phase != PhaseActive || g.currentTurnID != sessionID {
		return
	}
	p := g.players[sessionID]
	if p == nil {
		return
	}

	if g.drawStack > 0 {
		// Accepting the stack resolves it atomically and passes the turn.
		g.cancelStackTimer(sessionID)
		g.applyPenalty(p, g.drawStack)
		g.drawStack = 0
		g.advanceTurn(false)
		return
	}

	newCard := g.drawToHand(p)
	p.HasDeclaredUno = false

	if newCard == nil {
		// Both piles are dead: the draw yields nothing and the turn is
		// kept. Documented liveness stall, not an error.
		g.log.Warn("Draw requested with no cards available")
		return
	}

	if !isPlayable(*newCard, g.table) {
		g.advanceTurn(false)
		return
	}

	if p.IsBot() {
		g.scheduleBotFollowUp(sessionID, newCard.ID)
	} else {
		g.fireEventToPlayer(sessionID, GameEvent{
			Type:    EventPlayableDrawn,
			Message: "Playable card drawn!",
			Payload: map[string]any{"cardId": newCard.ID},
		})
	}
}

// applyPenalty force-draws amount cards into the seat's hand. When the
// piles run out mid-penalty the remainder is truncated silently.
// Assumes lock is held by caller.
func (g *UnoGame) applyPenalty(p *models.Player, amount int) {
	g.fireEvent(GameEvent{
		Type:    EventDrawPenalty,
		Message: p.Name + " draws " + strconv.Itoa(amount) + " cards!",
		Payload: map[string]any{"sessionId": p.SessionID, "amount": amount},
	})
	for i := 0; i < amount; i++ {
		if g.drawToHand(p) == nil {
			g.log.WithFields(logrus.Fields{
				"player": p.Name, "owed": amount, "drawn": i,
			}).Warn("Penalty truncated, piles exhausted")
			break
		}
	}
}

// ---------------------------------------------------------------------------
// Bot seat management
// ---------------------------------------------------------------------------

// HandleAddBot appends an automated seat. Restricted to the seat that
// joined first; the seat cap applies.
func (g *UnoGame) HandleAddBot(sessionID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.order.First() != sessionID {
		return
	}
	if g.order.Len() >= g.Rules.MaxSeats {
		return
	}

	used := make(map[string]bool, len(g.players))
	for _, p := range g.players {
		used[p.Name] = true
	}
	var available []string
	for _, name := range botNames {
		if !used[name] {
			available = append(available, name)
		}
	}
	name := "Bot-" + strconv.Itoa(rand.IntN(1000))
	if len(available) > 0 {
		name = available[rand.IntN(len(available))]
	}

	bot := &models.Player{
		SessionID: models.NewSessionID(models.BotIDPrefix),
		Name:      name,
		Ready:     true,
		Connected: true,
	}
	g.players[bot.SessionID] = bot
	g.order.Append(bot.SessionID)

	g.log.WithField("bot", bot.Name).Info("Bot added")
	g.fireEvent(GameEvent{
		Type:    EventBotAdded,
		Message: bot.Name + " joined the game!",
		Payload: map[string]any{"sessionId": bot.SessionID, "name": bot.Name},
	})
	g.mirror()
}

// HandleRemoveBot removes an automated seat. Restricted to the seat that
// joined first. Removing the bot whose turn it is forwards the turn first
// so no ghost turn is left behind.
func (g *UnoGame) HandleRemoveBot(sessionID, botID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.order.First() != sessionID {
		return
	}
	bot := g.players[botID]
	if bot == nil || !bot.IsBot() {
		return
	}

	wasBotTurn := g.currentTurnID == botID

	g.cancelBotTimer(botID)
	g.cancelStackTimer(botID)
	if g.pendingUnoID == botID {
		g.clearUnoWindow()
	}

	delete(g.players, botID)
	g.order.Remove(botID)

	g.fireEvent(GameEvent{
		Type:    EventBotRemoved,
		Message: bot.Name + " was removed.",
		Payload: map[string]any{"sessionId": botID},
	})

	if g.phase == PhaseActive && wasBotTurn {
		// Index shifts from the removal are recomputed inside Next.
		g.advanceTurn(false)
	}
	g.mirror()
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// cardCount returns the conserved total across piles and hands.
// Assumes lock is held by caller.
func (g *UnoGame) cardCount() int {
	total := len(g.drawPile) + len(g.discardPile)
	for _, p := range g.players {
		total += len(p.Hand)
	}
	return total
}
