// internal/game/bot.go
package game

import (
	"math/rand/v2"
	"time"

	"github.com/marou95/uno-server/internal/models"
)

// Bot decision engine. A bot turn is a deferred action like any other:
// the think timer is retained keyed by the bot's seat, canceled when the
// bot is removed or its turn is superseded, and the callback re-validates
// that it is still this bot's turn before acting.

// scheduleBotTurn arms the think timer for a bot whose turn just started.
// Assumes lock is held by caller.
func (g *UnoGame) scheduleBotTurn(botID string) {
	g.cancelBotTimer(botID)
	g.botTimers[botID] = time.AfterFunc(g.Rules.BotThink, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		delete(g.botTimers, botID)
		if g.phase != PhaseActive || g.currentTurnID != botID {
			return
		}
		bot := g.players[botID]
		if bot == nil {
			return
		}
		g.runBotTurn(bot)
		g.mirror()
	})
}

// runBotTurn picks and executes the bot's move: the first playable card in
// hand order, else a draw. Assumes lock is held by caller.
func (g *UnoGame) runBotTurn(bot *models.Player) {
	playable := firstPlayable(bot.Hand, g.table)
	if playable == nil {
		g.drawCardLocked(bot.SessionID)
		return
	}

	var chosenColor models.CardColor
	if playable.IsWild() {
		chosenColor = models.RandomColor()
	}

	// Self-declare before a play that brings the hand to one card.
	if len(bot.Hand) == 2 && rand.Float64() < g.Rules.BotUnoChance {
		bot.HasDeclaredUno = true
		g.notify(bot.Name + " shouted UNO!")
	}

	g.playCardLocked(bot.SessionID, playable.ID, chosenColor)
}

// scheduleBotFollowUp arms the short delay after which a bot plays the
// playable card it just drew. Assumes lock is held by caller.
func (g *UnoGame) scheduleBotFollowUp(botID, cardID string) {
	g.cancelBotTimer(botID)
	g.botTimers[botID] = time.AfterFunc(g.Rules.BotFollowUp, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		delete(g.botTimers, botID)
		if g.phase != PhaseActive || g.currentTurnID != botID {
			return
		}
		bot := g.players[botID]
		if bot == nil {
			return
		}
		idx := bot.FindCard(cardID)
		if idx == -1 {
			return
		}
		var chosenColor models.CardColor
		if bot.Hand[idx].IsWild() {
			chosenColor = models.RandomColor()
		}
		g.playCardLocked(botID, cardID, chosenColor)
		g.mirror()
	})
}

// cancelBotTimer stops and forgets a bot's pending timer.
// Assumes lock is held by caller.
func (g *UnoGame) cancelBotTimer(botID string) {
	if t, ok := g.botTimers[botID]; ok {
		t.Stop()
		delete(g.botTimers, botID)
	}
}
