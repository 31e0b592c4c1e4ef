// internal/models/player.go
package models

import (
	"math/rand/v2"
	"strings"
)

// BotIDPrefix marks session ids that belong to automated seats.
const BotIDPrefix = "bot_"

// Player is a durable participant entry. SessionID is the transient
// connection identity and changes on reconnection; DeviceID is the durable
// key the reconnection manager correlates on.
type Player struct {
	SessionID string `json:"sessionId"`
	DeviceID  string `json:"-"`
	Name      string `json:"name"`

	Hand []Card `json:"hand"`

	Ready          bool `json:"isReady"`
	Connected      bool `json:"isConnected"`
	HasDeclaredUno bool `json:"hasSaidUno"`
}

// IsBot reports whether this seat is automated.
func (p *Player) IsBot() bool {
	return strings.HasPrefix(p.SessionID, BotIDPrefix)
}

// FindCard returns the index of the card with the given id in the player's
// hand, or -1 when absent.
func (p *Player) FindCard(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// HasKind reports whether any card of the given kind is in hand.
func (p *Player) HasKind(kind CardKind) bool {
	for _, c := range p.Hand {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// NewSessionID returns a short opaque session token for locally created
// seats (bots). Human session ids come from the transport layer.
func NewSessionID(prefix string) string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return prefix + string(b)
}
