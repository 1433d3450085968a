package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// UserRepository defines persistence for identities. Lookups that miss return
// domain.ErrUserNotFound; unique-index violations return domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin matches login against either the username or the email.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// FindSummaries resolves public projections for ids; unknown ids are skipped.
	FindSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)

	// SetRefreshToken overwrites the persisted refresh token. An empty token
	// clears the field.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken replaces presented with next only if presented is still
	// the persisted value. It reports whether the swap happened.
	RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAccount(ctx context.Context, id, fullname, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (*domain.User, error)

	PushWatchHistory(ctx context.Context, id, videoID string) error
	WatchHistory(ctx context.Context, id string) ([]domain.WatchedVideo, error)
	// ChannelProfile joins subscription edges onto the user named username.
	// viewerID may be empty.
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
}
