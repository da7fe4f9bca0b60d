package core

import (
	"context"
	"sync"
)

// Registry owns the two shared collections: open lobbies keyed by game
// name and connected clients keyed by player name. A single mutex guards
// both, so every multi-step update that must stay consistent across them
// (join marks the client and inserts the participant, leave does the
// reverse) runs inside one critical section and is observed all-or-nothing.
type Registry struct {
	mu      sync.Mutex
	games   map[string]*Game
	clients map[string]*Client

	// released holds one channel per contended player name, closed when
	// that name's registration is removed. Register waits on it instead
	// of polling.
	released map[string]chan struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		games:    make(map[string]*Game),
		clients:  make(map[string]*Client),
		released: make(map[string]chan struct{}),
	}
}

// RegisterClient inserts the client under its player name, enforcing a
// single active session per identity. If the name is held by another
// session the call blocks until that session unregisters or ctx is
// cancelled (connection teardown must cancel ctx, otherwise a waiter for
// a never-leaving name is stuck forever).
func (r *Registry) RegisterClient(ctx context.Context, c *Client) error {
	for {
		r.mu.Lock()
		if _, taken := r.clients[c.Name]; !taken {
			r.clients[c.Name] = c
			r.mu.Unlock()
			return nil
		}
		ch, ok := r.released[c.Name]
		if !ok {
			ch = make(chan struct{})
			r.released[c.Name] = ch
		}
		r.mu.Unlock()

		select {
		case <-ch:
			// Name freed; race other waiters for it.
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RemoveClient deletes the client entry and wakes any sessions blocked in
// RegisterClient on the same name. Removing an absent name is a no-op.
// Callers that may still be in a game must run the leave protocol first
// (see Coordinator.Disconnect).
func (r *Registry) RemoveClient(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	if ch, ok := r.released[name]; ok {
		close(ch)
		delete(r.released, name)
	}
}

// Client returns the registered client for a player name.
func (r *Registry) Client(name string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[name]
	return c, ok
}

// CurrentGame returns the name of the lobby the client is in, if any.
func (r *Registry) CurrentGame(clientName string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientName]
	if !ok || c.Game == "" {
		return "", false
	}
	return c.Game, true
}

// CreateGame atomically checks the requested name and inserts a new lobby
// hosted by the requester, who is seeded as its only participant. The
// requester's current-game link is set in the same critical section.
func (r *Registry) CreateGame(host string, name string, settings GameSettings) (Game, *LobbyError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[host]; ok && c.Game != "" {
		return Game{}, ErrAlreadyInGame
	}
	if _, exists := r.games[name]; exists {
		return Game{}, ErrNameTaken
	}

	g := NewGame(name, host, settings)
	r.games[name] = g
	if c, ok := r.clients[host]; ok {
		c.Game = name
	}
	return g.Snapshot(), nil
}

// RemoveGame deletes the lobby unconditionally and clears the
// current-game link of every registered participant, keeping the
// link-iff-participant invariant in one step.
func (r *Registry) RemoveGame(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[name]
	if !ok {
		return
	}
	for participant := range g.Participants {
		if c, registered := r.clients[participant]; registered && c.Game == name {
			c.Game = ""
		}
	}
	delete(r.games, name)
}

// Game returns a snapshot of the named lobby.
func (r *Registry) Game(name string) (Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[name]
	if !ok {
		return Game{}, false
	}
	return g.Snapshot(), true
}

// ListGames returns a snapshot of all open lobbies. The snapshot is
// consistent at the moment of the call but not linearized against later
// creates or closes.
func (r *Registry) ListGames() []Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g.Snapshot())
	}
	return games
}

// Join atomically admits the client into the lobby: existence and
// capacity are validated and, on success, the participant entry and the
// client's current-game link are written in the same critical section.
// Re-validating inside the transaction closes the window between the
// coordinator's advisory pre-check and the commit, so a lobby can never
// be admitted past its capacity.
func (r *Registry) Join(clientName, gameName string) *LobbyError {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameName]
	if !ok {
		return ErrGameNotFound
	}
	if g.Full() {
		return ErrGameFull
	}
	if c, registered := r.clients[clientName]; registered {
		if c.Game != "" {
			return ErrAlreadyInGame
		}
		c.Game = gameName
	}
	g.AddParticipant(NewParticipant(clientName, false))
	return nil
}

// Leave atomically removes the client from the lobby's participant set
// and clears its current-game link. Both steps tolerate the client
// already being absent, so repeated leaves are idempotent.
func (r *Registry) Leave(clientName, gameName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[clientName]; ok && c.Game == gameName {
		c.Game = ""
	}
	if g, ok := r.games[gameName]; ok {
		g.RemoveParticipant(clientName)
	}
}

// UpdatePlayer replaces the participant's civilization, team and ready
// flag in place. Unknown lobby or a name absent from its participants is
// a silent no-op.
func (r *Registry) UpdatePlayer(gameName, playerName, civilization string, team int, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.games[gameName]; ok {
		g.UpdatePlayer(playerName, civilization, team, ready)
	}
}

// UpdateSettings commits new host-editable settings on the lobby.
func (r *Registry) UpdateSettings(gameName string, settings GameSettings) *LobbyError {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameName]
	if !ok {
		return ErrGameNotFound
	}
	g.ApplySettings(settings)
	return nil
}

// ResolveClients projects a set of participant names onto their
// registered sessions. Names without a live session are skipped; the
// second return lists them so callers can flag the divergence.
func (r *Registry) ResolveClients(names []string) ([]*Client, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients := make([]*Client, 0, len(names))
	var missing []string
	for _, name := range names {
		if c, ok := r.clients[name]; ok {
			clients = append(clients, c)
		} else {
			missing = append(missing, name)
		}
	}
	return clients, missing
}

// Addresses filters the client registry down to the given participant
// names and projects each to its network address.
func (r *Registry) Addresses(names []string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := make(map[string]string, len(names))
	for _, name := range names {
		if c, ok := r.clients[name]; ok {
			addrs[name] = c.Addr
		}
	}
	return addrs
}
