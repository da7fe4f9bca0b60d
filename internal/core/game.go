package core

// DefaultCivilization is assigned to a participant until they pick one.
const DefaultCivilization = "Random"

// Participant is a player's per-game state inside one lobby.
type Participant struct {
	Name         string
	Civilization string
	Team         int
	Ready        bool
	Host         bool
}

// NewParticipant constructs a participant with lobby defaults: not ready,
// random civilization, no team assignment.
func NewParticipant(name string, host bool) Participant {
	return Participant{
		Name:         name,
		Civilization: DefaultCivilization,
		Team:         0,
		Ready:        false,
		Host:         host,
	}
}

// GameSettings groups the host-editable lobby settings.
type GameSettings struct {
	MapName    string
	Mode       string
	MaxPlayers int
}

// Game is an open, joinable lobby. The registry owns all Game values;
// mutating methods must only be called while holding the registry lock.
type Game struct {
	Name         string
	MapName      string
	Mode         string
	MaxPlayers   int
	Host         string
	Participants map[string]Participant
}

// NewGame constructs a lobby hosted by host, who is seeded as its first
// (and flagged) participant.
func NewGame(name, host string, settings GameSettings) *Game {
	g := &Game{
		Name:         name,
		MapName:      settings.MapName,
		Mode:         settings.Mode,
		MaxPlayers:   settings.MaxPlayers,
		Host:         host,
		Participants: make(map[string]Participant),
	}
	g.AddParticipant(NewParticipant(host, true))
	return g
}

// Full reports whether the lobby has reached its capacity.
func (g *Game) Full() bool {
	return len(g.Participants) >= g.MaxPlayers
}

// AddParticipant inserts or overwrites a participant entry.
func (g *Game) AddParticipant(p Participant) {
	g.Participants[p.Name] = p
}

// RemoveParticipant deletes a participant entry. Removing an absent name
// is a no-op.
func (g *Game) RemoveParticipant(name string) {
	delete(g.Participants, name)
}

// UpdatePlayer replaces the mutable fields of the named participant.
// An absent name is a silent no-op.
func (g *Game) UpdatePlayer(name, civilization string, team int, ready bool) {
	p, ok := g.Participants[name]
	if !ok {
		return
	}
	p.Civilization = civilization
	p.Team = team
	p.Ready = ready
	g.Participants[name] = p
}

// ApplySettings replaces the host-editable settings.
func (g *Game) ApplySettings(settings GameSettings) {
	g.MapName = settings.MapName
	g.Mode = settings.Mode
	g.MaxPlayers = settings.MaxPlayers
}

// ParticipantNames returns the current participant names.
func (g *Game) ParticipantNames() []string {
	names := make([]string, 0, len(g.Participants))
	for name := range g.Participants {
		names = append(names, name)
	}
	return names
}

// Snapshot returns a deep copy safe to read outside the registry lock.
func (g *Game) Snapshot() Game {
	copied := *g
	copied.Participants = make(map[string]Participant, len(g.Participants))
	for name, p := range g.Participants {
		copied.Participants[name] = p
	}
	return copied
}
