// internal/models/card.go
package models

import (
	"math/rand/v2"
)

// CardColor is one of the four suit colors, or ColorBlack for wildcards
// whose effective color is chosen at play time.
type CardColor string

const (
	ColorRed    CardColor = "red"
	ColorBlue   CardColor = "blue"
	ColorGreen  CardColor = "green"
	ColorYellow CardColor = "yellow"
	ColorBlack  CardColor = "black"
)

// PlayableColors are the colors a wildcard may assume.
var PlayableColors = [4]CardColor{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// RandomColor returns a uniformly random playable (non-black) color.
func RandomColor() CardColor {
	return PlayableColors[rand.IntN(len(PlayableColors))]
}

// IsPlayable reports whether c is one of the four assumable colors.
func (c CardColor) IsPlayable() bool {
	for _, pc := range PlayableColors {
		if c == pc {
			return true
		}
	}
	return false
}

// CardKind identifies a card's behavior class.
type CardKind string

const (
	KindNumber  CardKind = "number"
	KindSkip    CardKind = "skip"
	KindReverse CardKind = "reverse"
	KindDraw2   CardKind = "draw2"
	KindWild    CardKind = "wild"
	KindWild4   CardKind = "wild4"
)

// NoValue is the Value sentinel for non-numbered cards.
const NoValue = -1

// Card is an immutable value object. Cards move between the draw pile,
// hands and the discard pile by relocation (remove-then-append); no card
// is ever shared by reference between collections.
type Card struct {
	ID    string    `json:"id"`
	Color CardColor `json:"color"`
	Kind  CardKind  `json:"kind"`
	Value int       `json:"value"`
}

// IsWild reports whether the card's effective color is assigned at play time.
func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindWild4
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewCardID returns a short opaque card token (9 base36 characters).
func NewCardID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}

// NewCard constructs a card with a fresh identity token.
func NewCard(color CardColor, kind CardKind, value int) Card {
	return Card{ID: NewCardID(), Color: color, Kind: kind, Value: value}
}
