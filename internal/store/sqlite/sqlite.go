package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/lobby-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_guest      BOOLEAN NOT NULL DEFAULT 0,
	session_id    TEXT,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_players_session ON players(session_id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreatePlayer creates an account with a pre-hashed password.
func (s *SQLiteStore) CreatePlayer(ctx context.Context, username, passwordHash string) (*store.Player, error) {
	query := `
		INSERT INTO players (username, password_hash, is_guest)
		VALUES (?, ?, 0)
	`
	result, err := s.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.getPlayerByID(ctx, id)
}

// CreateGuestPlayer creates a temporary guest account with a session id.
func (s *SQLiteStore) CreateGuestPlayer(ctx context.Context, sessionID string) (*store.Player, error) {
	query := `
		INSERT INTO players (username, password_hash, is_guest, session_id)
		VALUES (?, '', 1, ?)
	`
	guestUsername := "guest_" + sessionID[:8]

	result, err := s.db.ExecContext(ctx, query, guestUsername, sessionID)
	if err != nil {
		return nil, fmt.Errorf("insert guest player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.getPlayerByID(ctx, id)
}

func (s *SQLiteStore) getPlayerByID(ctx context.Context, id int64) (*store.Player, error) {
	query := `
		SELECT id, username, password_hash, is_guest, COALESCE(session_id, ''), created_at, last_login_at
		FROM players
		WHERE id = ?
	`
	return s.scanPlayer(s.db.QueryRowContext(ctx, query, id))
}

// GetPlayerByUsername retrieves a non-guest account by username.
func (s *SQLiteStore) GetPlayerByUsername(ctx context.Context, username string) (*store.Player, error) {
	query := `
		SELECT id, username, password_hash, is_guest, COALESCE(session_id, ''), created_at, last_login_at
		FROM players
		WHERE username = ? AND is_guest = 0
	`
	return s.scanPlayer(s.db.QueryRowContext(ctx, query, username))
}

// GetPlayerBySessionID retrieves a guest account by session id.
func (s *SQLiteStore) GetPlayerBySessionID(ctx context.Context, sessionID string) (*store.Player, error) {
	query := `
		SELECT id, username, password_hash, is_guest, COALESCE(session_id, ''), created_at, last_login_at
		FROM players
		WHERE session_id = ? AND is_guest = 1
	`
	return s.scanPlayer(s.db.QueryRowContext(ctx, query, sessionID))
}

// TouchLastLogin records a successful login time.
func (s *SQLiteStore) TouchLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE players SET last_login_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanPlayer(row *sql.Row) (*store.Player, error) {
	var p store.Player
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.PasswordHash,
		&p.IsGuest,
		&p.SessionID,
		&p.CreatedAt,
		&p.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player not found: %w", err)
		}
		return nil, fmt.Errorf("query player: %w", err)
	}
	return &p, nil
}
