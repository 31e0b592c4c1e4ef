// internal/game/rules.go
package game

import "github.com/marou95/uno-server/internal/models"

// TableState is the current matching criteria of the table, decoupled from
// the discard pile's literal top card so a wildcard's chosen color can
// override its printed color.
type TableState struct {
	Color models.CardColor `json:"currentColor"`
	Kind  models.CardKind  `json:"currentType"`
	Value int              `json:"currentValue"`
}

// isPlayable is the pure legality predicate: a wildcard is always legal;
// otherwise the card must match the table's effective color or kind,
// and a kind match between numbered cards additionally requires value
// equality. Turn ownership is the caller's concern, not legality's.
func isPlayable(card models.Card, table TableState) bool {
	if card.Color == models.ColorBlack {
		return true
	}
	if card.Color == table.Color {
		return true
	}
	if card.Kind == table.Kind {
		if card.Kind == models.KindNumber {
			return card.Value == table.Value
		}
		return true
	}
	return false
}

// firstPlayable scans the hand in existing order and returns the first
// legal card, or nil when nothing is playable.
func firstPlayable(hand []models.Card, table TableState) *models.Card {
	for i := range hand {
		if isPlayable(hand[i], table) {
			return &hand[i]
		}
	}
	return nil
}
