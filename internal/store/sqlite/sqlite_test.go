package sqlite

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetPlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePlayer(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if created.ID == 0 || created.Username != "alice" || created.IsGuest {
		t.Fatalf("unexpected player: %+v", created)
	}

	got, err := s.GetPlayerByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.ID != created.ID || got.PasswordHash != "hash" {
		t.Fatalf("unexpected player: %+v", got)
	}
}

func TestCreatePlayerDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreatePlayer(ctx, "alice", "hash"); err != nil {
		t.Fatalf("create player: %v", err)
	}
	if _, err := s.CreatePlayer(ctx, "alice", "hash2"); err == nil {
		t.Fatal("expected UNIQUE constraint error for duplicate username")
	}
}

func TestGuestPlayerLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	guest, err := s.CreateGuestPlayer(ctx, "0123456789abcdef")
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	if !guest.IsGuest {
		t.Fatal("guest flag not set")
	}
	if guest.Username != "guest_01234567" {
		t.Fatalf("unexpected guest username: %q", guest.Username)
	}

	got, err := s.GetPlayerBySessionID(ctx, "0123456789abcdef")
	if err != nil {
		t.Fatalf("get guest by session: %v", err)
	}
	if got.ID != guest.ID {
		t.Fatalf("lookup returned wrong player: %+v", got)
	}

	// Guest accounts are invisible to username login.
	if _, err := s.GetPlayerByUsername(ctx, guest.Username); err == nil {
		t.Fatal("guest account resolvable via username lookup")
	}
}

func TestGetPlayerNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetPlayerByUsername(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestTouchLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreatePlayer(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if err := s.TouchLastLogin(ctx, p.ID); err != nil {
		t.Fatalf("touch last login: %v", err)
	}
}
