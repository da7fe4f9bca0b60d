package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/lobby-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPlayerExists is returned when registering an existing username.
	ErrPlayerExists = errors.New("player already exists")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides authentication operations.
type Service struct {
	store     store.PlayerStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(playerStore store.PlayerStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     playerStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a new player with hashed password and returns a JWT token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	existing, err := s.store.GetPlayerByUsername(ctx, username)
	if err == nil && existing != nil {
		return "", ErrPlayerExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	player, err := s.store.CreatePlayer(ctx, username, hashedPassword)
	if err != nil {
		return "", fmt.Errorf("create player: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, player.ID, player.Username, false)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// Login validates credentials and returns a JWT token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	player, err := s.store.GetPlayerByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(player.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.store.TouchLastLogin(ctx, player.ID); err != nil {
		return "", fmt.Errorf("touch last login: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, player.ID, player.Username, false)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// CreateGuestPlayer creates a temporary guest account and returns a JWT token.
func (s *Service) CreateGuestPlayer(ctx context.Context) (token, sessionID string, err error) {
	sessionID = strings.ReplaceAll(uuid.NewString(), "-", "")

	player, err := s.store.CreateGuestPlayer(ctx, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("create guest player: %w", err)
	}

	token, err = GenerateToken(s.jwtConfig, player.ID, player.Username, true)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}

	return token, sessionID, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
