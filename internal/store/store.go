package store

import (
	"context"
	"time"
)

// Player is a persisted account. Lobby and session state never touches
// the store; only accounts survive a restart.
type Player struct {
	ID           int64
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string // set for guest accounts only
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

// PlayerStore provides account persistence.
type PlayerStore interface {
	// CreatePlayer creates an account with a pre-hashed password.
	CreatePlayer(ctx context.Context, username, passwordHash string) (*Player, error)
	// CreateGuestPlayer creates a temporary guest account keyed by a
	// random session id.
	CreateGuestPlayer(ctx context.Context, sessionID string) (*Player, error)
	// GetPlayerByUsername retrieves a non-guest account.
	GetPlayerByUsername(ctx context.Context, username string) (*Player, error)
	// GetPlayerBySessionID retrieves a guest account.
	GetPlayerBySessionID(ctx context.Context, sessionID string) (*Player, error)
	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id int64) error
}

// Store aggregates all storage interfaces.
type Store interface {
	PlayerStore
	Close() error
}
