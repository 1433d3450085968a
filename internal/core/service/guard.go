package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// Guard resolves bearer credentials into users.
type Guard struct {
	users  ports.UserRepository
	tokens *TokenCodec
}

func NewGuard(users ports.UserRepository, tokens *TokenCodec) *Guard {
	return &Guard{users: users, tokens: tokens}
}

// ResolveIdentity verifies an access token and loads its subject. All token
// failures, expiry included, are reported as domain.ErrInvalidToken.
func (g *Guard) ResolveIdentity(ctx context.Context, bearer string) (*domain.User, error) {
	if bearer == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := g.tokens.Verify(bearer, TokenAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

// ownedPtr is satisfied by pointers to resource structs that implement
// domain.Ownable, which lets a nil resource be detected without reflection.
type ownedPtr[R any] interface {
	*R
	domain.Ownable
}

// AssertOwnership fails with domain.ErrNotFound when resource is nil and with
// domain.ErrForbidden when actor does not own it. Every resource type goes
// through this one check.
func AssertOwnership[R any, P ownedPtr[R]](resource P, actor *domain.User) error {
	if resource == nil {
		return domain.ErrNotFound
	}
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if resource.OwnerID() != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}

// LoadOwned fetches a resource with find and asserts actor owns it. Existence
// is always checked before ownership, so a missing resource is a 404 for
// everyone and an existing one is a 403 for non-owners.
func LoadOwned[R any, P ownedPtr[R]](
	ctx context.Context,
	id string,
	find func(context.Context, string) (P, error),
	actor *domain.User,
) (P, error) {
	resource, err := find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnership[R, P](resource, actor); err != nil {
		return nil, err
	}
	return resource, nil
}
