package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// SessionManager issues, rotates and revokes session pairs. The only state it
// keeps is the single refresh token persisted on each user, so issuing a new
// pair invalidates every earlier refresh token of that user.
type SessionManager struct {
	users  ports.UserRepository
	tokens *TokenCodec
	log    zerolog.Logger
}

func NewSessionManager(users ports.UserRepository, tokens *TokenCodec, log zerolog.Logger) *SessionManager {
	return &SessionManager{users: users, tokens: tokens, log: log}
}

// Login issues a fresh pair for an already verified user and persists the
// refresh token, overwriting any previous one.
func (m *SessionManager) Login(ctx context.Context, user *domain.User) (*domain.SessionPair, error) {
	pair, err := m.issue(user.ID)
	if err != nil {
		return nil, err
	}
	if err := m.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("login: persist refresh token: %w", err)
	}

	m.log.Info().Str("user_id", user.ID).Msg("session started")
	return pair, nil
}

// Refresh exchanges the presented refresh token for a new pair. The swap is a
// compare-and-set on the persisted token: of two concurrent refreshes with the
// same token only one succeeds, the other gets domain.ErrTokenMismatch.
func (m *SessionManager) Refresh(ctx context.Context, presented string) (*domain.SessionPair, error) {
	if presented == "" {
		return nil, domain.ErrUnauthorized
	}

	userID, err := m.tokens.Verify(presented, TokenRefresh)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if user.RefreshToken == "" || user.RefreshToken != presented {
		m.log.Warn().Str("user_id", userID).Msg("stale refresh token presented")
		return nil, domain.ErrTokenMismatch
	}

	pair, err := m.issue(userID)
	if err != nil {
		return nil, err
	}
	swapped, err := m.users.RotateRefreshToken(ctx, userID, presented, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: rotate: %w", err)
	}
	if !swapped {
		return nil, domain.ErrTokenMismatch
	}

	m.log.Info().Str("user_id", userID).Msg("session rotated")
	return pair, nil
}

// Logout clears the persisted refresh token. Calling it twice is harmless.
func (m *SessionManager) Logout(ctx context.Context, userID string) error {
	if err := m.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.log.Info().Str("user_id", userID).Msg("session revoked")
	return nil
}

func (m *SessionManager) issue(userID string) (*domain.SessionPair, error) {
	access, err := m.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := m.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &domain.SessionPair{AccessToken: access, RefreshToken: refresh}, nil
}
