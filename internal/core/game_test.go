package core

import "testing"

func TestNewGameSeedsHostParticipant(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MapName: "arena", Mode: "deathmatch", MaxPlayers: 4})

	if g.Host != "alice" {
		t.Fatalf("host = %q, want alice", g.Host)
	}
	p, ok := g.Participants["alice"]
	if !ok {
		t.Fatal("host is not a participant")
	}
	if !p.Host {
		t.Fatal("host participant missing host flag")
	}
	if p.Ready {
		t.Fatal("new participant should not be ready")
	}
	if p.Civilization != DefaultCivilization {
		t.Fatalf("civilization = %q, want %q", p.Civilization, DefaultCivilization)
	}
}

func TestGameFull(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MapName: "arena", MaxPlayers: 2})
	if g.Full() {
		t.Fatal("game with one of two slots filled reported full")
	}
	g.AddParticipant(NewParticipant("bob", false))
	if !g.Full() {
		t.Fatal("game at capacity not reported full")
	}
}

func TestUpdatePlayerReplacesFields(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MaxPlayers: 4})
	g.AddParticipant(NewParticipant("bob", false))

	g.UpdatePlayer("bob", "Britons", 2, true)

	p := g.Participants["bob"]
	if p.Civilization != "Britons" || p.Team != 2 || !p.Ready {
		t.Fatalf("unexpected participant after update: %+v", p)
	}
	if p.Host {
		t.Fatal("update must not grant the host flag")
	}
}

func TestUpdatePlayerUnknownNameIsNoOp(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MaxPlayers: 4})

	g.UpdatePlayer("ghost", "Britons", 2, true)

	if len(g.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(g.Participants))
	}
	if _, ok := g.Participants["ghost"]; ok {
		t.Fatal("no-op update inserted a participant")
	}
}

func TestApplySettings(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MapName: "arena", Mode: "ffa", MaxPlayers: 2})

	g.ApplySettings(GameSettings{MapName: "islands", Mode: "teams", MaxPlayers: 6})

	if g.MapName != "islands" || g.Mode != "teams" || g.MaxPlayers != 6 {
		t.Fatalf("settings not applied: %+v", g)
	}
	if g.Host != "alice" {
		t.Fatal("settings update must not change the host")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := NewGame("g1", "alice", GameSettings{MaxPlayers: 4})
	snap := g.Snapshot()

	g.AddParticipant(NewParticipant("bob", false))
	g.UpdatePlayer("alice", "Huns", 1, true)

	if len(snap.Participants) != 1 {
		t.Fatalf("snapshot grew with the live game: %d participants", len(snap.Participants))
	}
	if snap.Participants["alice"].Ready {
		t.Fatal("snapshot observed a later in-place update")
	}
}
