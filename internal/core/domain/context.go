package domain

import "context"

type actorKey struct{}

// WithActor returns a copy of ctx carrying the authenticated user.
func WithActor(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

// ActorFrom returns the authenticated user stored by WithActor, if any.
func ActorFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(actorKey{}).(*User)
	return u, ok && u != nil
}
