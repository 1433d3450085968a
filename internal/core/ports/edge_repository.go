package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// EdgeRepository stores relation edges. The store enforces uniqueness of
// (subject, kind, object); Insert reports a violation as domain.ErrEdgeExists.
type EdgeRepository interface {
	// Find returns domain.ErrNotFound when no edge exists for the triple.
	Find(ctx context.Context, subject string, kind domain.RelationKind, object string) (*domain.Edge, error)
	Insert(ctx context.Context, e *domain.Edge) (*domain.Edge, error)
	// Delete removes the edge by id. Deleting a missing edge is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteByObject removes every edge of kind pointing at object.
	DeleteByObject(ctx context.Context, kind domain.RelationKind, object string) (int64, error)

	CountByObject(ctx context.Context, kind domain.RelationKind, object string) (int64, error)
	CountBySubject(ctx context.Context, kind domain.RelationKind, subject string) (int64, error)
	// List methods order by creation time, newest first.
	ListByObject(ctx context.Context, kind domain.RelationKind, object string, page domain.PageRequest) ([]*domain.Edge, int64, error)
	ListBySubject(ctx context.Context, kind domain.RelationKind, subject string, page domain.PageRequest) ([]*domain.Edge, int64, error)
}
