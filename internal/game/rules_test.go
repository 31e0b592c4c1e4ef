// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marou95/uno-server/internal/models"
)

func TestIsPlayable(t *testing.T) {
	redSeven := TableState{Color: models.ColorRed, Kind: models.KindNumber, Value: 7}
	blueSkip := TableState{Color: models.ColorBlue, Kind: models.KindSkip, Value: models.NoValue}
	// A played wildcard leaves a concrete chosen color on the table.
	greenAfterWild := TableState{Color: models.ColorGreen, Kind: models.KindWild, Value: models.NoValue}

	tests := []struct {
		name  string
		card  models.Card
		table TableState
		want  bool
	}{
		{"same color different number", card(models.ColorRed, models.KindNumber, 3), redSeven, true},
		{"same number different color", card(models.ColorBlue, models.KindNumber, 7), redSeven, true},
		{"different color and number", card(models.ColorBlue, models.KindNumber, 3), redSeven, false},
		{"action card matching color", card(models.ColorRed, models.KindSkip, models.NoValue), redSeven, true},
		{"action card wrong color on number", card(models.ColorGreen, models.KindDraw2, models.NoValue), redSeven, false},
		{"skip on skip any color", card(models.ColorYellow, models.KindSkip, models.NoValue), blueSkip, true},
		{"number wrong color on skip", card(models.ColorRed, models.KindNumber, 4), blueSkip, false},
		{"wild on anything", card(models.ColorBlack, models.KindWild, models.NoValue), redSeven, true},
		{"wild four on anything", card(models.ColorBlack, models.KindWild4, models.NoValue), blueSkip, true},
		{"chosen color honored after wild", card(models.ColorGreen, models.KindNumber, 9), greenAfterWild, true},
		{"printed wild color ignored after wild", card(models.ColorRed, models.KindNumber, 9), greenAfterWild, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPlayable(tt.card, tt.table))
		})
	}
}

func TestFirstPlayablePicksEarliest(t *testing.T) {
	table := TableState{Color: models.ColorRed, Kind: models.KindNumber, Value: 7}
	blocked := card(models.ColorBlue, models.KindNumber, 3)
	match := card(models.ColorRed, models.KindNumber, 1)
	alsoMatch := card(models.ColorBlack, models.KindWild, models.NoValue)

	got := firstPlayable([]models.Card{blocked, match, alsoMatch}, table)
	assert.NotNil(t, got)
	assert.Equal(t, match.ID, got.ID, "hand order decides among multiple legal cards")
}

func TestFirstPlayableNothingLegal(t *testing.T) {
	table := TableState{Color: models.ColorRed, Kind: models.KindNumber, Value: 7}
	hand := []models.Card{
		card(models.ColorBlue, models.KindNumber, 3),
		card(models.ColorGreen, models.KindSkip, models.NoValue),
	}
	assert.Nil(t, firstPlayable(hand, table))
}
