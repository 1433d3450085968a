package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// AccountService maintains the acting user's own profile and serves the
// user-centric joins (channel page, watch history).
type AccountService struct {
	users       ports.UserRepository
	blobs       ports.BlobStore
	credentials *CredentialVerifier
	log         zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	blobs ports.BlobStore,
	credentials *CredentialVerifier,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{users: users, blobs: blobs, credentials: credentials, log: log}
}

func (s *AccountService) ChangePassword(ctx context.Context, actor *domain.User, oldPassword, newPassword string) error {
	return s.credentials.ChangePassword(ctx, actor.ID, oldPassword, newPassword)
}

// UpdateAccount replaces fullname and email. Both are required.
func (s *AccountService) UpdateAccount(ctx context.Context, actor *domain.User, fullname, email string) (*domain.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeIdentity(email)
	if fullname == "" || email == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", domain.ErrValidation)
	}
	updated, err := s.users.UpdateAccount(ctx, actor.ID, fullname, email)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", actor.ID).Msg("account details updated")
	return updated, nil
}

func (s *AccountService) UpdateAvatar(ctx context.Context, actor *domain.User, file ports.Upload) (*domain.User, error) {
	asset, err := s.blobs.Upload(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	return s.users.UpdateAvatar(ctx, actor.ID, asset.URL)
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, actor *domain.User, file ports.Upload) (*domain.User, error) {
	asset, err := s.blobs.Upload(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("update cover image: %w", err)
	}
	return s.users.UpdateCoverImage(ctx, actor.ID, asset.URL)
}

// ChannelProfile returns the public page of username with subscription counts
// and whether viewer subscribes to it.
func (s *AccountService) ChannelProfile(ctx context.Context, username string, viewer *domain.User) (*domain.ChannelProfile, error) {
	username = normalizeIdentity(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", domain.ErrValidation)
	}
	var viewerID string
	if viewer != nil {
		viewerID = viewer.ID
	}
	profile, err := s.users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("channel %q: %w", username, domain.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (s *AccountService) WatchHistory(ctx context.Context, actor *domain.User) ([]domain.WatchedVideo, error) {
	history, err := s.users.WatchHistory(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	return history, nil
}
