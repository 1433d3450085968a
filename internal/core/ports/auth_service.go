package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// RegisterInput carries the data required to enroll a new user.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Fullname   string
	Avatar     *Upload // required
	CoverImage *Upload // optional
}

// AuthService covers registration and the session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, login, password string) (*domain.User, *domain.SessionPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.SessionPair, error)
	Logout(ctx context.Context, userID string) error
}

// IdentityResolver turns a bearer credential into the acting user.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, bearer string) (*domain.User, error)
}

// AccountService covers profile maintenance of the acting user.
type AccountService interface {
	ChangePassword(ctx context.Context, actor *domain.User, oldPassword, newPassword string) error
	UpdateAccount(ctx context.Context, actor *domain.User, fullname, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, actor *domain.User, file Upload) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, actor *domain.User, file Upload) (*domain.User, error)
	ChannelProfile(ctx context.Context, username string, viewer *domain.User) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, actor *domain.User) ([]domain.WatchedVideo, error)
}
