package service

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// AuthService implements registration, login, refresh and logout by combining
// the credential verifier with the session manager.
type AuthService struct {
	credentials *CredentialVerifier
	sessions    *SessionManager
}

func NewAuthService(credentials *CredentialVerifier, sessions *SessionManager) *AuthService {
	return &AuthService{credentials: credentials, sessions: sessions}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.credentials.Register(ctx, in)
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, *domain.SessionPair, error) {
	user, err := s.credentials.VerifyLogin(ctx, login, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.sessions.Login(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.SessionPair, error) {
	return s.sessions.Refresh(ctx, refreshToken)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Logout(ctx, userID)
}
