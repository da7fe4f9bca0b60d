// Command lobby_smoke is a manual end-to-end check against a running
// server: it logs in as a guest, creates a lobby, lists games and prints
// every event it receives until interrupted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/lobby-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("lobby_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	gameName := flag.String("game", "smoke-test", "lobby name to create")
	mapName := flag.String("map", "arena", "map for the created lobby")
	maxPlayers := flag.Int("max-players", 4, "capacity of the created lobby")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	token, err := guestLogin(ctx, *baseURL)
	if err != nil {
		return fmt.Errorf("guest login: %w", err)
	}
	log.Println("guest token obtained")

	wsURL := strings.Replace(*baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		return wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload})
	}

	if err := send(proto.InboundTypeLogin, proto.LoginData{Token: token, Protocol: proto.ProtocolVersion}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := send(proto.InboundTypeCreate, proto.CreateData{
		Name:       *gameName,
		Map:        *mapName,
		MaxPlayers: *maxPlayers,
	}); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := send(proto.InboundTypeList, struct{}{}); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	for {
		var outbound map[string]any
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		pretty, _ := json.MarshalIndent(outbound, "", "  ")
		log.Printf("<- %s", pretty)
	}
}

func guestLogin(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/guest", nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Token, nil
}
