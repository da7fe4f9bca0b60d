package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventGameList delivers a snapshot of all open lobbies.
	EventGameList EventKind = iota
	// EventInfo is a plain text confirmation ("Joined Game.").
	EventInfo
	// EventError carries a domain error to the requester.
	EventError
	// EventGameClosed tells a participant the host closed the lobby.
	EventGameClosed
	// EventGameStarting delivers the participant name to address mapping
	// players need to connect to each other when the game begins.
	EventGameStarting
)

// Event is sent to clients to describe what happened in the lobby.
type Event struct {
	Kind EventKind
	Game string
	Text string
	// Games holds lobby snapshots for EventGameList.
	Games []Game
	// Addresses maps participant name to network address for
	// EventGameStarting.
	Addresses map[string]string
	Error     *LobbyError
}

func infoEvent(text string) *Event {
	return &Event{Kind: EventInfo, Text: text}
}

func errorEvent(err *LobbyError) *Event {
	return &Event{Kind: EventError, Error: err}
}
