package http

import (
	"encoding/json"
	"sort"

	"github.com/vovakirdan/lobby-server/internal/core"
	"github.com/vovakirdan/lobby-server/internal/proto"
)

// dispatch decodes one inbound request and runs the matching coordinator
// action. A non-nil proto.Error is a protocol-level rejection the caller
// should write back; a non-nil error means the message was unreadable and
// the connection should drop.
func dispatch(co *core.Coordinator, client *core.Client, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreate:
		var create proto.CreateData
		if err := json.Unmarshal(inbound.Data, &create); err != nil {
			return nil, err
		}
		if create.Name == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "game name is required"}, nil
		}
		if create.MaxPlayers <= 0 {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "max_players must be positive"}, nil
		}
		co.CreateGame(client, create.Name, core.GameSettings{
			MapName:    create.Map,
			Mode:       create.Mode,
			MaxPlayers: create.MaxPlayers,
		})
		return nil, nil
	case proto.InboundTypeJoin:
		var join proto.GameRefData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, err
		}
		if join.Game == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "game is required"}, nil
		}
		co.Join(client, join.Game)
		return nil, nil
	case proto.InboundTypeLeave:
		var leave proto.GameRefData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, err
		}
		if leave.Game == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "game is required"}, nil
		}
		co.Leave(client, leave.Game)
		return nil, nil
	case proto.InboundTypeUpdate:
		var update proto.UpdateData
		if err := json.Unmarshal(inbound.Data, &update); err != nil {
			return nil, err
		}
		co.UpdatePlayer(client, update.Civilization, update.Team, update.Ready)
		return nil, nil
	case proto.InboundTypeSettings:
		var settings proto.SettingsData
		if err := json.Unmarshal(inbound.Data, &settings); err != nil {
			return nil, err
		}
		if settings.MaxPlayers <= 0 {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "max_players must be positive"}, nil
		}
		co.UpdateSettings(client, core.GameSettings{
			MapName:    settings.Map,
			Mode:       settings.Mode,
			MaxPlayers: settings.MaxPlayers,
		})
		return nil, nil
	case proto.InboundTypeStart:
		co.StartGame(client)
		return nil, nil
	case proto.InboundTypeList:
		co.ListGames(client)
		return nil, nil
	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventGameList:
		infos := make([]proto.GameInfo, 0, len(event.Games))
		for _, g := range event.Games {
			infos = append(infos, gameInfoFromSnapshot(g))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeGames,
			Data: infos,
		}
	case core.EventInfo:
		return proto.Outbound{
			Type: proto.OutboundTypeOK,
			Data: proto.OKData{Message: event.Text},
		}
	case core.EventGameClosed:
		return proto.Outbound{
			Type: proto.OutboundTypeGameClosed,
			Data: proto.GameClosedData{Game: event.Game},
		}
	case core.EventGameStarting:
		return proto.Outbound{
			Type: proto.OutboundTypeGameStarting,
			Data: proto.GameStartingData{
				Game:      event.Game,
				Addresses: event.Addresses,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func gameInfoFromSnapshot(g core.Game) proto.GameInfo {
	participants := make([]proto.ParticipantInfo, 0, len(g.Participants))
	for _, p := range g.Participants {
		participants = append(participants, proto.ParticipantInfo{
			Name:         p.Name,
			Civilization: p.Civilization,
			Team:         p.Team,
			Ready:        p.Ready,
			Host:         p.Host,
		})
	}
	// Stable order for clients and tests.
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})
	return proto.GameInfo{
		Name:         g.Name,
		Map:          g.MapName,
		Mode:         g.Mode,
		MaxPlayers:   g.MaxPlayers,
		Host:         g.Host,
		Participants: participants,
	}
}
