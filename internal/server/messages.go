// internal/server/messages.go
package server

import "github.com/marou95/uno-server/internal/models"

// Inbound command types accepted over the wire. The transport maps each to
// exactly one game command; identity comes from the connection, never the
// payload.
const (
	MsgSetInfo     = "setInfo"
	MsgToggleReady = "toggleReady"
	MsgStartGame   = "startGame"
	MsgPlayCard    = "playCard"
	MsgDrawCard    = "drawCard"
	MsgSayUno      = "sayUno"
	MsgCatchUno    = "catchUno"
	MsgRestartGame = "restartGame"
	MsgAddBot      = "addBot"
	MsgRemoveBot   = "removeBot"
	MsgRefresh     = "refresh"
)

// inboundMessage is the envelope every client command arrives in. Unused
// fields are simply left empty by the sender.
type inboundMessage struct {
	Type string `json:"type"`

	Name        string           `json:"name,omitempty"`
	CardID      string           `json:"cardId,omitempty"`
	ChosenColor models.CardColor `json:"chooseColor,omitempty"`
	BotID       string           `json:"botId,omitempty"`
}
