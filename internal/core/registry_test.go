package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCreateGameDuplicateName(t *testing.T) {
	r := NewRegistry()

	if _, lerr := r.CreateGame("alice", "g1", GameSettings{MaxPlayers: 4}); lerr != nil {
		t.Fatalf("first create failed: %v", lerr)
	}
	if _, lerr := r.CreateGame("bob", "g1", GameSettings{MaxPlayers: 4}); lerr != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", lerr)
	}
}

func TestConcurrentCreateSameNameExactlyOneWins(t *testing.T) {
	const n = 32
	r := NewRegistry()

	var wg sync.WaitGroup
	results := make(chan *LobbyError, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			_, lerr := r.CreateGame(host, "contested", GameSettings{MaxPlayers: 8})
			results <- lerr
		}(string(rune('a' + i)))
	}
	wg.Wait()
	close(results)

	wins, taken := 0, 0
	for lerr := range results {
		switch lerr {
		case nil:
			wins++
		case ErrNameTaken:
			taken++
		default:
			t.Fatalf("unexpected error: %v", lerr)
		}
	}
	if wins != 1 || taken != n-1 {
		t.Fatalf("wins = %d, taken = %d, want 1 and %d", wins, taken, n-1)
	}
	if got := len(r.ListGames()); got != 1 {
		t.Fatalf("registry holds %d games, want 1", got)
	}
}

func TestRegisterClientBlocksUntilNameFrees(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	first := NewClient("alice", "10.0.0.1:1", nil, 0)
	if err := r.RegisterClient(ctx, first); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	done := make(chan error, 1)
	second := NewClient("alice", "10.0.0.2:2", nil, 0)
	go func() {
		done <- r.RegisterClient(ctx, second)
	}()

	// The duplicate must not fail fast.
	select {
	case err := <-done:
		t.Fatalf("duplicate register returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	r.RemoveClient("alice")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("second register failed after release: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second register did not complete after release")
	}

	if c, ok := r.Client("alice"); !ok || c != second {
		t.Fatal("registry does not hold the second session")
	}
}

func TestRegisterClientWaitIsCancellable(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterClient(context.Background(), NewClient("alice", "", nil, 0)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.RegisterClient(ctx, NewClient("alice", "", nil, 0))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled wait did not return")
	}

	// The stale waiter must not steal the name once it frees up.
	r.RemoveClient("alice")
	if err := r.RegisterClient(context.Background(), NewClient("alice", "", nil, 0)); err != nil {
		t.Fatalf("register after cancel failed: %v", err)
	}
}

func TestJoinFullGameFailsWithoutMutation(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, "alice")
	mustRegister(t, r, "bob")
	carol := mustRegister(t, r, "carol")

	if _, lerr := r.CreateGame("alice", "g1", GameSettings{MaxPlayers: 2}); lerr != nil {
		t.Fatalf("create failed: %v", lerr)
	}
	if lerr := r.Join("bob", "g1"); lerr != nil {
		t.Fatalf("join failed: %v", lerr)
	}

	if lerr := r.Join("carol", "g1"); lerr != ErrGameFull {
		t.Fatalf("expected ErrGameFull, got %v", lerr)
	}

	g, _ := r.Game("g1")
	if len(g.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(g.Participants))
	}
	if carol.Game != "" {
		t.Fatalf("rejected join set current-game link to %q", carol.Game)
	}
}

func TestJoinSetsLinkAndParticipant(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, "alice")
	bob := mustRegister(t, r, "bob")

	if _, lerr := r.CreateGame("alice", "g1", GameSettings{MaxPlayers: 4}); lerr != nil {
		t.Fatalf("create failed: %v", lerr)
	}
	if lerr := r.Join("bob", "g1"); lerr != nil {
		t.Fatalf("join failed: %v", lerr)
	}

	g, _ := r.Game("g1")
	p, ok := g.Participants["bob"]
	if !ok {
		t.Fatal("joiner missing from participants")
	}
	if p.Host {
		t.Fatal("joiner must not carry the host flag")
	}
	if bob.Game != "g1" {
		t.Fatalf("current-game link = %q, want g1", bob.Game)
	}
}

func TestJoinUnknownGame(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, "bob")

	if lerr := r.Join("bob", "ghost"); lerr != ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", lerr)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, "alice")
	bob := mustRegister(t, r, "bob")

	if _, lerr := r.CreateGame("alice", "g1", GameSettings{MaxPlayers: 4}); lerr != nil {
		t.Fatalf("create failed: %v", lerr)
	}
	if lerr := r.Join("bob", "g1"); lerr != nil {
		t.Fatalf("join failed: %v", lerr)
	}

	r.Leave("bob", "g1")
	r.Leave("bob", "g1")

	g, _ := r.Game("g1")
	if _, ok := g.Participants["bob"]; ok {
		t.Fatal("participant still present after leave")
	}
	if bob.Game != "" {
		t.Fatalf("current-game link = %q after leave", bob.Game)
	}
}

func TestRemoveGameClearsParticipantLinks(t *testing.T) {
	r := NewRegistry()
	alice := mustRegister(t, r, "alice")
	bob := mustRegister(t, r, "bob")

	if _, lerr := r.CreateGame("alice", "g1", GameSettings{MaxPlayers: 4}); lerr != nil {
		t.Fatalf("create failed: %v", lerr)
	}
	if lerr := r.Join("bob", "g1"); lerr != nil {
		t.Fatalf("join failed: %v", lerr)
	}

	r.RemoveGame("g1")

	if _, ok := r.Game("g1"); ok {
		t.Fatal("game still listed after removal")
	}
	if alice.Game != "" || bob.Game != "" {
		t.Fatalf("links not cleared: alice=%q bob=%q", alice.Game, bob.Game)
	}
}

func TestAddressesProjection(t *testing.T) {
	r := NewRegistry()
	mustRegisterAddr(t, r, "alice", "10.0.0.1:7000")
	mustRegisterAddr(t, r, "bob", "10.0.0.2:7000")

	addrs := r.Addresses([]string{"alice", "bob", "ghost"})

	if len(addrs) != 2 {
		t.Fatalf("addresses = %d entries, want 2", len(addrs))
	}
	if addrs["alice"] != "10.0.0.1:7000" || addrs["bob"] != "10.0.0.2:7000" {
		t.Fatalf("unexpected projection: %v", addrs)
	}
}

func mustRegister(t *testing.T, r *Registry, name string) *Client {
	t.Helper()
	return mustRegisterAddr(t, r, name, "")
}

func mustRegisterAddr(t *testing.T, r *Registry, name, addr string) *Client {
	t.Helper()
	c := NewClient(name, addr, nil, 0)
	if err := r.RegisterClient(context.Background(), c); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return c
}
