// internal/game/deck.go
package game

import (
	"math/rand/v2"

	"github.com/marou95/uno-server/internal/models"
)

// DeckSize is the total card count of a standard deck: per color one 0,
// two each of 1–9, two each of skip/reverse/draw2, plus 4 wild and 4 wild4.
const DeckSize = 108

// buildDeck repopulates the draw pile with the standard 108-card set in
// deterministic composition. Randomness enters only at shuffle.
// Assumes lock is held by caller.
func (g *UnoGame) buildDeck() {
	g.drawPile = g.drawPile[:0]
	for _, color := range models.PlayableColors {
		g.addCard(color, models.KindNumber, 0)
		for v := 1; v <= 9; v++ {
			g.addCard(color, models.KindNumber, v)
			g.addCard(color, models.KindNumber, v)
		}
		for _, kind := range []models.CardKind{models.KindSkip, models.KindReverse, models.KindDraw2} {
			g.addCard(color, kind, models.NoValue)
			g.addCard(color, kind, models.NoValue)
		}
	}
	for i := 0; i < 4; i++ {
		g.addCard(models.ColorBlack, models.KindWild, models.NoValue)
		g.addCard(models.ColorBlack, models.KindWild4, models.NoValue)
	}
}

// addCard appends a freshly minted card to the draw pile.
// Assumes lock is held by caller.
func (g *UnoGame) addCard(color models.CardColor, kind models.CardKind, value int) {
	g.drawPile = append(g.drawPile, models.NewCard(color, kind, value))
}

// shuffleDraw applies an unbiased Fisher-Yates permutation to the draw pile.
// Assumes lock is held by caller.
func (g *UnoGame) shuffleDraw() {
	shuffleCards(g.drawPile)
}

// shuffleCards permutes cards in place (Fisher-Yates, last index down to 1,
// swapping with a uniformly random earlier-or-equal index).
func shuffleCards(cards []models.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// drawToHand moves the top draw-pile card into the player's hand and
// returns it. When the draw pile is empty it recycles the discard pile
// first (keeping the top card, resetting wildcard colors, reshuffling).
// Returns nil without mutating anything when no card can be produced:
// both piles are effectively dead (discard holds at most one card).
// Assumes lock is held by caller.
func (g *UnoGame) drawToHand(p *models.Player) *models.Card {
	if len(g.drawPile) == 0 {
		if len(g.discardPile) <= 1 {
			return nil
		}
		g.recycleDiscard()
	}

	card := g.drawPile[len(g.drawPile)-1]
	g.drawPile = g.drawPile[:len(g.drawPile)-1]
	p.Hand = append(p.Hand, card)
	return &card
}

// recycleDiscard moves every discard-pile card except the top one into the
// draw pile, resetting played wildcards back to black so color selections
// do not leak into the next cycle. Emits one reshuffle notification.
// Assumes lock is held by caller; caller guarantees len(discardPile) > 1.
func (g *UnoGame) recycleDiscard() {
	top := g.discardPile[len(g.discardPile)-1]
	rest := g.discardPile[:len(g.discardPile)-1]

	for i, c := range rest {
		if c.IsWild() {
			c.Color = models.ColorBlack
			rest[i] = c
		}
	}
	shuffleCards(rest)

	g.drawPile = append(g.drawPile, rest...)
	g.discardPile = append(g.discardPile[:0], top)

	g.log.Info("Recycled discard pile into draw pile")
	g.fireEvent(GameEvent{Type: EventDeckReshuffled, Message: "Deck reshuffled!"})
}

// discardFromHand relocates the named card from the hand onto the discard
// pile. Silent no-op when the card is not present; callers validate
// membership first. Assumes lock is held by caller.
func (g *UnoGame) discardFromHand(p *models.Player, cardID string) {
	idx := p.FindCard(cardID)
	if idx == -1 {
		return
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.discardPile = append(g.discardPile, card)
}
