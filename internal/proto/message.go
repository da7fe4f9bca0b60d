package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeLogin    = "login"
	InboundTypeCreate   = "create"
	InboundTypeJoin     = "join"
	InboundTypeLeave    = "leave"
	InboundTypeUpdate   = "update"
	InboundTypeSettings = "settings"
	InboundTypeStart    = "start"
	InboundTypeList     = "list"

	OutboundTypeGames        = "games"
	OutboundTypeOK           = "ok"
	OutboundTypeError        = "error"
	OutboundTypeGameClosed   = "game_closed"
	OutboundTypeGameStarting = "game_starting"
)

// LoginData authenticates the connection; it must be the first inbound
// message on a lobby socket.
type LoginData struct {
	Token    string `json:"token"`
	Protocol int    `json:"protocol,omitempty"`
}

// CreateData requests a new lobby.
type CreateData struct {
	Name       string `json:"name"`
	Map        string `json:"map"`
	Mode       string `json:"mode,omitempty"`
	MaxPlayers int    `json:"max_players"`
}

// GameRefData names the lobby a join or leave request targets.
type GameRefData struct {
	Game string `json:"game"`
}

// UpdateData replaces the sender's participant state in its current lobby.
type UpdateData struct {
	Civilization string `json:"civilization"`
	Team         int    `json:"team"`
	Ready        bool   `json:"ready"`
}

// SettingsData replaces the host-editable lobby settings.
type SettingsData struct {
	Map        string `json:"map"`
	Mode       string `json:"mode,omitempty"`
	MaxPlayers int    `json:"max_players"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// GameInfo is one lobby snapshot inside a game list.
type GameInfo struct {
	Name         string            `json:"name"`
	Map          string            `json:"map"`
	Mode         string            `json:"mode,omitempty"`
	MaxPlayers   int               `json:"max_players"`
	Host         string            `json:"host"`
	Participants []ParticipantInfo `json:"participants"`
}

// ParticipantInfo is one player's state inside a lobby snapshot.
type ParticipantInfo struct {
	Name         string `json:"name"`
	Civilization string `json:"civilization"`
	Team         int    `json:"team"`
	Ready        bool   `json:"ready"`
	Host         bool   `json:"host"`
}

// OKData carries a plain confirmation text.
type OKData struct {
	Message string `json:"message"`
}

// GameClosedData names the lobby the host closed.
type GameClosedData struct {
	Game string `json:"game"`
}

// GameStartingData maps participant names to the addresses players need
// to connect to each other.
type GameStartingData struct {
	Game      string            `json:"game"`
	Addresses map[string]string `json:"addresses"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
