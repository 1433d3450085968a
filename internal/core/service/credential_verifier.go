package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// CredentialVerifier owns password hashes: it creates them at registration and
// compares them at login. No other service reads User.PasswordHash.
type CredentialVerifier struct {
	users    ports.UserRepository
	blobs    ports.BlobStore
	hashCost int
	log      zerolog.Logger
}

func NewCredentialVerifier(users ports.UserRepository, blobs ports.BlobStore, log zerolog.Logger) *CredentialVerifier {
	return &CredentialVerifier{users: users, blobs: blobs, hashCost: bcrypt.DefaultCost, log: log}
}

// Register validates the input, uploads the profile images and stores the new
// user with a bcrypt hash of its password.
func (v *CredentialVerifier) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := normalizeIdentity(in.Username)
	email := normalizeIdentity(in.Email)
	fullname := strings.TrimSpace(in.Fullname)
	password := strings.TrimSpace(in.Password)

	for _, f := range []struct{ name, value string }{
		{"username", username},
		{"email", email},
		{"fullname", fullname},
		{"password", password},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if in.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrValidation)
	}

	exists, err := v.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	avatar, err := v.blobs.Upload(ctx, *in.Avatar)
	if err != nil {
		return nil, fmt.Errorf("register: avatar: %w", err)
	}
	var cover string
	if in.CoverImage != nil {
		asset, err := v.blobs.Upload(ctx, *in.CoverImage)
		if err != nil {
			return nil, fmt.Errorf("register: cover image: %w", err)
		}
		cover = asset.URL
	}

	// The raw password is hashed, not the trimmed one.
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), v.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := v.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		Fullname:     fullname,
		Avatar:       avatar.URL,
		CoverImage:   cover,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	v.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// VerifyLogin resolves login as a username or an email and checks password
// against the stored hash.
func (v *CredentialVerifier) VerifyLogin(ctx context.Context, login, password string) (*domain.User, error) {
	login = normalizeIdentity(login)
	if login == "" {
		return nil, fmt.Errorf("%w: username or email is required", domain.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	user, err := v.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if !v.matches(user, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the password of userID after checking the old one.
func (v *CredentialVerifier) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	user, err := v.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !v.matches(user, oldPassword) {
		return fmt.Errorf("%w: invalid old password", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), v.hashCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := v.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	v.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (v *CredentialVerifier) matches(user *domain.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		v.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash is unusable")
	}
	return err == nil
}

// normalizeIdentity folds usernames and emails to one canonical form so that
// visually identical inputs resolve to the same account.
func normalizeIdentity(s string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
}
