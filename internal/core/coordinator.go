package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Confirmation texts sent back to the requester.
const (
	TextGameCreated = "Created Game."
	TextGameJoined  = "Joined Game."
	TextGameLeft    = "Left Game."
)

// Coordinator implements the protocol-level lobby actions as compositions
// of registry transactions plus outbound notifications. One instance is
// shared by every session handler; it holds no state of its own beyond
// the registry reference.
type Coordinator struct {
	registry *Registry
	log      *zerolog.Logger
}

// NewCoordinator builds a coordinator over the given registry.
func NewCoordinator(registry *Registry, logger *zerolog.Logger) *Coordinator {
	return &Coordinator{registry: registry, log: logger}
}

// Registry exposes the underlying registry for read-only surfaces such as
// the REST listing endpoint.
func (co *Coordinator) Registry() *Registry {
	return co.registry
}

// Connect registers the client session, blocking while another session
// still holds the same player name. ctx must be tied to the connection so
// teardown cancels a pending wait.
func (co *Coordinator) Connect(ctx context.Context, client *Client) error {
	if err := co.registry.RegisterClient(ctx, client); err != nil {
		return err
	}
	co.log.Info().Str("player", client.Name).Str("addr", client.Addr).Msg("client connected")
	return nil
}

// Disconnect removes the session. A client still in a lobby leaves it
// first, with the same semantics as an explicit leave request. Safe to
// call for a client that never completed Connect.
func (co *Coordinator) Disconnect(client *Client) {
	if gameName, ok := co.registry.CurrentGame(client.Name); ok {
		co.Leave(client, gameName)
	}
	co.registry.RemoveClient(client.Name)
	co.log.Info().Str("player", client.Name).Msg("client disconnected")
}

// CreateGame opens a new lobby hosted by the client and confirms or
// rejects with a distinguishing error ("name taken").
func (co *Coordinator) CreateGame(client *Client, name string, settings GameSettings) {
	_, lerr := co.registry.CreateGame(client.Name, name, settings)
	if lerr != nil {
		co.reply(client, errorEvent(lerr))
		return
	}
	co.log.Info().Str("player", client.Name).Str("game", name).
		Str("map", settings.MapName).Int("max_players", settings.MaxPlayers).
		Msg("game created")
	co.reply(client, infoEvent(TextGameCreated))
}

// Join admits the client into the named lobby. The advisory pre-check
// against a snapshot produces the distinguishing rejection; the registry
// transaction re-validates before committing, so a concurrent fill-up or
// close between the two steps still results in a rejection, never an
// over-admission.
func (co *Coordinator) Join(client *Client, gameName string) {
	g, ok := co.registry.Game(gameName)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}
	if g.Full() {
		co.reply(client, errorEvent(ErrGameFull))
		return
	}

	if lerr := co.registry.Join(client.Name, gameName); lerr != nil {
		co.reply(client, errorEvent(lerr))
		return
	}
	co.log.Info().Str("player", client.Name).Str("game", gameName).Msg("joined game")
	co.reply(client, infoEvent(TextGameJoined))
}

// Leave removes the client from the lobby. The host leaving closes the
// lobby: every current participant, the host included, gets a
// closed-by-host notification and the game is removed from the registry.
// Any other participant leaving keeps the lobby open.
func (co *Coordinator) Leave(client *Client, gameName string) {
	g, ok := co.registry.Game(gameName)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}

	if g.Host == client.Name {
		co.fanOut(g, &Event{Kind: EventGameClosed, Game: gameName})
		co.registry.RemoveGame(gameName)
		co.log.Info().Str("game", gameName).Str("host", client.Name).Msg("game closed by host")
		return
	}

	co.registry.Leave(client.Name, gameName)
	co.log.Info().Str("player", client.Name).Str("game", gameName).Msg("left game")
	co.reply(client, infoEvent(TextGameLeft))
}

// UpdatePlayer replaces the client's own participant state in its current
// lobby. A client in no lobby, or one whose name is somehow absent from
// the participant set, is a silent no-op.
func (co *Coordinator) UpdatePlayer(client *Client, civilization string, team int, ready bool) {
	gameName, ok := co.registry.CurrentGame(client.Name)
	if !ok {
		return
	}
	co.registry.UpdatePlayer(gameName, client.Name, civilization, team, ready)
	co.log.Debug().Str("player", client.Name).Str("game", gameName).
		Str("civilization", civilization).Int("team", team).Bool("ready", ready).
		Msg("player updated")
}

// UpdateSettings commits new lobby settings. Host-only.
func (co *Coordinator) UpdateSettings(client *Client, settings GameSettings) {
	gameName, ok := co.registry.CurrentGame(client.Name)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}
	g, ok := co.registry.Game(gameName)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}
	if g.Host != client.Name {
		co.reply(client, errorEvent(ErrNotHost))
		return
	}
	if lerr := co.registry.UpdateSettings(gameName, settings); lerr != nil {
		co.reply(client, errorEvent(lerr))
		return
	}
	co.log.Info().Str("game", gameName).Str("map", settings.MapName).
		Int("max_players", settings.MaxPlayers).Msg("game settings updated")
}

// StartGame announces the start of the client's lobby: every participant
// receives the participant-name to address mapping needed to connect to
// each other. Host-only.
func (co *Coordinator) StartGame(client *Client) {
	gameName, ok := co.registry.CurrentGame(client.Name)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}
	g, ok := co.registry.Game(gameName)
	if !ok {
		co.reply(client, errorEvent(ErrGameNotFound))
		return
	}
	if g.Host != client.Name {
		co.reply(client, errorEvent(ErrNotHost))
		return
	}

	names := g.ParticipantNames()
	addrs := co.registry.Addresses(names)
	co.fanOut(g, &Event{Kind: EventGameStarting, Game: gameName, Addresses: addrs})
	co.log.Info().Str("game", gameName).Int("players", len(addrs)).Msg("game starting")
}

// ListGames sends the requester a snapshot of all open lobbies.
func (co *Coordinator) ListGames(client *Client) {
	co.reply(client, &Event{Kind: EventGameList, Games: co.registry.ListGames()})
}

// Broadcast enqueues the event onto every current participant of the
// lobby. Membership is snapshot before delivery, so a participant leaving
// in between may still receive it and one joining will not.
func (co *Coordinator) Broadcast(gameName string, ev *Event) {
	g, ok := co.registry.Game(gameName)
	if !ok {
		return
	}
	co.fanOut(g, ev)
}

// fanOut resolves the snapshot's participants through the client registry
// and enqueues the event for each, fire-and-forget. A participant name
// without a live session means the referential-integrity invariant has
// already been violated; it is logged as a fault and skipped.
func (co *Coordinator) fanOut(g Game, ev *Event) {
	clients, missing := co.registry.ResolveClients(g.ParticipantNames())
	for _, name := range missing {
		co.log.Error().Str("player", name).Str("game", g.Name).
			Msg("participant has no registered session; registry diverged")
	}
	for _, c := range clients {
		if !c.send(ev) {
			co.log.Warn().Str("player", c.Name).Str("game", g.Name).
				Msg("event queue full; dropping notification")
		}
	}
}

// reply enqueues an event for the requester only.
func (co *Coordinator) reply(client *Client, ev *Event) {
	if !client.send(ev) {
		co.log.Warn().Str("player", client.Name).Msg("event queue full; dropping reply")
	}
}
