// internal/models/house_rules.go
package models

import "time"

// HouseRules captures the game-time configuration of a room: seat cap,
// deal size, penalty windows and bot reaction delays. Tests shrink the
// delays; production rooms use the defaults.
type HouseRules struct {
	// MaxSeats is the seat cap (humans plus bots).
	MaxSeats int

	// HandSize is the number of cards dealt to each seat at game start.
	HandSize int

	// UnoGrace is how long an undeclared one-card hand stays catchable.
	UnoGrace time.Duration

	// StackResolveDelay is the pause before an unanswered draw-stack is
	// force-drawn by the seat it landed on.
	StackResolveDelay time.Duration

	// DisconnectGrace is how long a disconnected seat is held before
	// permanent removal.
	DisconnectGrace time.Duration

	// BotThink is the bot's reaction delay on a fresh turn.
	BotThink time.Duration

	// BotFollowUp is the shorter delay before a bot plays a card it just drew.
	BotFollowUp time.Duration

	// BotUnoChance is the probability a bot self-declares when its hand is
	// about to reach one card.
	BotUnoChance float64

	// UnoPenaltyCount is the draw penalty applied to a caught seat.
	UnoPenaltyCount int
}

// DefaultHouseRules returns the standard room configuration.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		MaxSeats:          6,
		HandSize:          7,
		UnoGrace:          3 * time.Second,
		StackResolveDelay: time.Second,
		DisconnectGrace:   60 * time.Second,
		BotThink:          1500 * time.Millisecond,
		BotFollowUp:       time.Second,
		BotUnoChance:      0.8,
		UnoPenaltyCount:   2,
	}
}
