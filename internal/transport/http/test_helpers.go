package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobby-server/internal/auth"
	"github.com/vovakirdan/lobby-server/internal/config"
	"github.com/vovakirdan/lobby-server/internal/core"
	"github.com/vovakirdan/lobby-server/internal/proto"
	"github.com/vovakirdan/lobby-server/internal/store/sqlite"
)

// startTestServer wires an in-memory store, auth service and coordinator
// behind an httptest server.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	logger := zerolog.Nop()
	coordinator := core.NewCoordinator(core.NewRegistry(), &logger)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(coordinator, authService, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

// guestToken obtains a guest token through the REST API.
func guestToken(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	resp, err := ts.Client().Post(ts.URL+"/api/guest", "application/json", nil)
	if err != nil {
		t.Fatalf("guest login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("guest login status: %d", resp.StatusCode)
	}

	var body AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode guest response: %v", err)
	}
	return body.Token
}

// registerToken registers a named account through the REST API.
func registerToken(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(RegisterRequest{Username: username, Password: password})
	resp, err := ts.Client().Post(ts.URL+"/api/register", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		t.Fatalf("register status: %d", resp.StatusCode)
	}

	var body AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return body.Token
}

// dialRaw opens a lobby socket without logging in.
func dialRaw(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

// sendRaw writes a pre-built inbound envelope.
func sendRaw(t *testing.T, ctx context.Context, conn *websocket.Conn, inbound proto.Inbound) {
	t.Helper()

	if err := wsjson.Write(ctx, conn, inbound); err != nil {
		t.Fatalf("send %s: %v", inbound.Type, err)
	}
}

// stdRequest builds an authenticated REST request against the test server.
func stdRequest(ts *httptest.Server, method, path, token string) (*stdhttp.Request, error) {
	req, err := stdhttp.NewRequest(method, ts.URL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// dialLobby opens a lobby socket and completes the login handshake.
func dialLobby(t *testing.T, ctx context.Context, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })

	loginPayload, _ := json.Marshal(proto.LoginData{Token: token})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeLogin, Data: loginPayload}); err != nil {
		t.Fatalf("send login: %v", err)
	}

	mustReadOutbound(t, ctx, conn, proto.OutboundTypeOK)
	return conn
}

// sendInbound marshals data into an inbound envelope and writes it.
func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", msgType, err)
	}
}

// rawOutbound mirrors proto.Outbound with raw data for test decoding.
type rawOutbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// mustReadOutbound reads messages until one of the wanted type arrives.
func mustReadOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) rawOutbound {
	t.Helper()

	for {
		var outbound rawOutbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound (waiting for %s): %v", wantType, err)
		}
		if outbound.Type == wantType {
			return outbound
		}
	}
}
