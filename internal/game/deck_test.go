// internal/game/deck_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marou95/uno-server/internal/models"
)

func TestBuildDeckComposition(t *testing.T) {
	g, _ := newTestGame(t)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.buildDeck()

	require.Len(t, g.drawPile, DeckSize)

	type key struct {
		color models.CardColor
		kind  models.CardKind
		value int
	}
	counts := make(map[key]int)
	for _, c := range g.drawPile {
		counts[key{c.Color, c.Kind, c.Value}]++
	}

	for _, color := range models.PlayableColors {
		assert.Equal(t, 1, counts[key{color, models.KindNumber, 0}], "one zero per color")
		for v := 1; v <= 9; v++ {
			assert.Equal(t, 2, counts[key{color, models.KindNumber, v}], "two of each 1-9 per color")
		}
		assert.Equal(t, 2, counts[key{color, models.KindSkip, models.NoValue}])
		assert.Equal(t, 2, counts[key{color, models.KindReverse, models.NoValue}])
		assert.Equal(t, 2, counts[key{color, models.KindDraw2, models.NoValue}])
	}
	assert.Equal(t, 4, counts[key{models.ColorBlack, models.KindWild, models.NoValue}])
	assert.Equal(t, 4, counts[key{models.ColorBlack, models.KindWild4, models.NoValue}])
}

func TestCardIDsAreUnique(t *testing.T) {
	g, _ := newTestGame(t)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.buildDeck()

	seen := make(map[string]bool, DeckSize)
	for _, c := range g.drawPile {
		assert.False(t, seen[c.ID], "duplicate card id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestShuffleKeepsMultiset(t *testing.T) {
	g, _ := newTestGame(t)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.buildDeck()

	before := make(map[string]bool, DeckSize)
	for _, c := range g.drawPile {
		before[c.ID] = true
	}

	g.shuffleDraw()

	require.Len(t, g.drawPile, DeckSize)
	for _, c := range g.drawPile {
		assert.True(t, before[c.ID], "shuffle must permute, not mint or drop")
	}
}

func TestShufflePositionDistribution(t *testing.T) {
	// A uniform permutation puts every card in every position equally
	// often. A biased swap partner (the classic off-by-one in
	// Fisher-Yates) skews individual cells by over ten percent, far
	// outside the statistical noise at this trial count.
	const (
		n      = 6
		trials = 30000
	)
	base := make([]models.Card, n)
	index := make(map[string]int, n)
	for i := range base {
		base[i] = card(models.ColorRed, models.KindNumber, i)
		index[base[i].ID] = i
	}

	var landed [n][n]int
	work := make([]models.Card, n)
	for trial := 0; trial < trials; trial++ {
		copy(work, base)
		shuffleCards(work)
		for pos, c := range work {
			landed[index[c.ID]][pos]++
		}
	}

	const (
		expected  = float64(trials) / n
		tolerance = expected * 0.06
	)
	for from := 0; from < n; from++ {
		for pos := 0; pos < n; pos++ {
			assert.InDelta(t, expected, float64(landed[from][pos]), tolerance,
				"card starting at %d landed in position %d a skewed number of times", from, pos)
		}
	}
}

func TestDrawRecyclesDiscardAndResetsWilds(t *testing.T) {
	g, mb := newTestGame(t)
	p := &models.Player{SessionID: "s", Name: "P"}

	wild := card(models.ColorBlack, models.KindWild, models.NoValue)
	wild.Color = models.ColorRed // color chosen when it was played
	top := card(models.ColorGreen, models.KindNumber, 4)

	g.Mu.Lock()
	g.drawPile = nil
	g.discardPile = []models.Card{wild, card(models.ColorBlue, models.KindNumber, 7), top}

	got := g.drawToHand(p)
	require.NotNil(t, got)
	assert.Len(t, p.Hand, 1)

	assert.Len(t, g.discardPile, 1, "only the top card stays behind")
	assert.Equal(t, top.ID, g.discardPile[0].ID)

	// One of the two recycled cards was drawn, one remains.
	assert.Len(t, g.drawPile, 1)
	for _, c := range append(append([]models.Card{}, g.drawPile...), p.Hand...) {
		if c.ID == wild.ID {
			assert.Equal(t, models.ColorBlack, c.Color, "a recycled wildcard forgets its chosen color")
		}
	}
	g.Mu.Unlock()

	require.NotNil(t, mb.findEventByType(EventDeckReshuffled))
}

func TestDrawFromDeadPilesReturnsNil(t *testing.T) {
	g, _ := newTestGame(t)
	p := &models.Player{SessionID: "s", Name: "P"}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.drawPile = nil
	g.discardPile = []models.Card{card(models.ColorGreen, models.KindNumber, 4)}

	assert.Nil(t, g.drawToHand(p))
	assert.Empty(t, p.Hand)
	assert.Len(t, g.discardPile, 1, "a dead draw mutates nothing")
}

func TestDiscardFromHandUnknownCardIsNoOp(t *testing.T) {
	g, _ := newTestGame(t)
	p := &models.Player{SessionID: "s", Name: "P", Hand: []models.Card{card(models.ColorRed, models.KindNumber, 5)}}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.discardFromHand(p, "no-such-id")
	assert.Len(t, p.Hand, 1)
	assert.Empty(t, g.discardPile)
}
