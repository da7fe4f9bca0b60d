package core

// Error codes for domain errors.
const (
	ErrCodeNameTaken    = "name_taken"
	ErrCodeGameFull     = "game_full"
	ErrCodeGameNotFound = "game_not_found"
	ErrCodeInGame       = "already_in_game"
	ErrCodeNotHost      = "not_host"
	ErrCodeBadRequest   = "bad_request"
)

// LobbyError wraps a stable code and the user-facing message sent back to
// the requester.
type LobbyError struct {
	Code    string
	Message string
}

func (e *LobbyError) Error() string {
	return e.Message
}

var (
	// ErrNameTaken rejects a create request for a name already in use.
	ErrNameTaken = &LobbyError{ErrCodeNameTaken, "Game name already taken."}
	// ErrGameFull rejects a join request on a lobby at capacity.
	ErrGameFull = &LobbyError{ErrCodeGameFull, "Game is full."}
	// ErrGameNotFound rejects a request naming an unknown lobby.
	ErrGameNotFound = &LobbyError{ErrCodeGameNotFound, "Game does not exist."}
	// ErrAlreadyInGame rejects creating or joining while already in a lobby.
	ErrAlreadyInGame = &LobbyError{ErrCodeInGame, "Already in a game."}
	// ErrNotHost rejects host-only operations from other participants.
	ErrNotHost = &LobbyError{ErrCodeNotHost, "Only the host can do that."}
)
