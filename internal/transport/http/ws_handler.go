package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobby-server/internal/auth"
	"github.com/vovakirdan/lobby-server/internal/config"
	"github.com/vovakirdan/lobby-server/internal/core"
	"github.com/vovakirdan/lobby-server/internal/proto"
	"github.com/vovakirdan/lobby-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to a lobby session.
type WSHandler struct {
	coordinator *core.Coordinator
	auth        *auth.Service
	queueSize   int
	log         *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(coordinator *core.Coordinator, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		coordinator: coordinator,
		auth:        authService,
		queueSize:   cfg.ClientQueueSize,
		log:         logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()
	connID := utils.NewConnID()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", connID).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := h.login(ctx, conn, r.RemoteAddr)
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", connID).Msg("ws login failed")
		conn.Close(websocket.StatusPolicyViolation, "login required")
		return
	}

	// Registration blocks while a previous session still holds this
	// player name; cancel releases the wait when the connection drops.
	if err := h.coordinator.Connect(ctx, client); err != nil {
		h.log.Warn().Err(err).Str("conn_id", connID).Str("player", client.Name).
			Msg("registration wait aborted")
		conn.Close(websocket.StatusTryAgainLater, "session still active")
		return
	}
	defer h.coordinator.Disconnect(client)

	// The write loop is not running yet, so this write cannot interleave.
	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type: proto.OutboundTypeOK,
		Data: proto.OKData{Message: "Logged in."},
	}); err != nil {
		h.log.Warn().Err(err).Str("conn_id", connID).Msg("write login ack")
		return
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", connID).Str("player", client.Name).
				Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// login reads the mandatory first message, validates its token and builds
// the session record. The session is not registered yet.
func (h *WSHandler) login(ctx context.Context, conn *websocket.Conn, remoteAddr string) (*core.Client, error) {
	var inbound proto.Inbound
	if err := wsjson.Read(ctx, conn, &inbound); err != nil {
		return nil, err
	}
	if inbound.Type != proto.InboundTypeLogin {
		return nil, errors.New("first message must be login")
	}

	var login proto.LoginData
	if err := json.Unmarshal(inbound.Data, &login); err != nil {
		return nil, err
	}

	claims, err := h.auth.ValidateToken(login.Token)
	if err != nil {
		writeErr := wsjson.Write(ctx, conn, proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "unauthorized", Msg: "invalid token"},
		})
		if writeErr != nil {
			return nil, writeErr
		}
		return nil, err
	}

	return core.NewClient(claims.Username, remoteAddr, closerFunc(conn.CloseNow), h.queueSize), nil
}

// closerFunc adapts the websocket close function to the opaque handle the
// core holds.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		protoErr, err := dispatch(h.coordinator, client, inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("player", client.Name).Msg("failed to decode inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("player", client.Name).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
