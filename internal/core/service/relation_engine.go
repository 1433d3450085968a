package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// RelationEngine flips (subject, kind, object) edges between present and
// absent. Correctness under concurrent duplicate toggles rests on the store's
// unique index over the triple, not on the find-then-write order used here.
type RelationEngine struct {
	edges ports.EdgeRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewRelationEngine(edges ports.EdgeRepository, log zerolog.Logger) *RelationEngine {
	return &RelationEngine{edges: edges, log: log, now: time.Now}
}

// Toggle removes the edge if it exists and creates it otherwise.
func (e *RelationEngine) Toggle(ctx context.Context, subject string, kind domain.RelationKind, object string) (domain.ToggleResult, error) {
	if err := checkTriple(subject, kind, object); err != nil {
		return domain.ToggleResult{}, err
	}
	if !kind.AllowsSelf() && subject == object {
		return domain.ToggleResult{}, domain.ErrSelfRelation
	}

	existing, err := e.edges.Find(ctx, subject, kind, object)
	switch {
	case err == nil:
		if err := e.edges.Delete(ctx, existing.ID); err != nil {
			return domain.ToggleResult{}, fmt.Errorf("toggle %s: delete: %w", kind, err)
		}
		e.log.Debug().Str("subject", subject).Str("kind", string(kind)).Str("object", object).Msg("relation removed")
		return domain.ToggleResult{Active: false}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.ToggleResult{}, fmt.Errorf("toggle %s: find: %w", kind, err)
	}

	_, err = e.edges.Insert(ctx, &domain.Edge{
		Subject:   subject,
		Kind:      kind,
		Object:    object,
		CreatedAt: e.now().UTC(),
	})
	if err != nil {
		// A concurrent duplicate toggle created the edge first; the relation
		// is active either way.
		if errors.Is(err, domain.ErrEdgeExists) {
			e.log.Debug().Str("subject", subject).Str("kind", string(kind)).Msg("concurrent toggle collapsed")
			return domain.ToggleResult{Active: true}, nil
		}
		return domain.ToggleResult{}, fmt.Errorf("toggle %s: insert: %w", kind, err)
	}
	e.log.Debug().Str("subject", subject).Str("kind", string(kind)).Str("object", object).Msg("relation created")
	return domain.ToggleResult{Active: true}, nil
}

// IsActive reports whether the edge exists.
func (e *RelationEngine) IsActive(ctx context.Context, subject string, kind domain.RelationKind, object string) (bool, error) {
	_, err := e.edges.Find(ctx, subject, kind, object)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Purge drops every edge of kind pointing at object. Used when the object
// itself is deleted.
func (e *RelationEngine) Purge(ctx context.Context, kind domain.RelationKind, object string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown relation %q", domain.ErrValidation, kind)
	}
	n, err := e.edges.DeleteByObject(ctx, kind, object)
	if err != nil {
		return fmt.Errorf("purge %s: %w", kind, err)
	}
	e.log.Debug().Str("kind", string(kind)).Str("object", object).Int64("removed", n).Msg("relations purged")
	return nil
}

// Count returns the number of subjects holding kind towards object.
func (e *RelationEngine) Count(ctx context.Context, kind domain.RelationKind, object string) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: unknown relation %q", domain.ErrValidation, kind)
	}
	return e.edges.CountByObject(ctx, kind, object)
}

// ListSubjects pages through the edges pointing at object, newest first.
func (e *RelationEngine) ListSubjects(ctx context.Context, kind domain.RelationKind, object string, page domain.PageRequest) (domain.Page[*domain.Edge], error) {
	return paginate(page, func() ([]*domain.Edge, int64, error) {
		return e.edges.ListByObject(ctx, kind, object, page)
	})
}

// ListObjects pages through the edges held by subject, newest first.
func (e *RelationEngine) ListObjects(ctx context.Context, kind domain.RelationKind, subject string, page domain.PageRequest) (domain.Page[*domain.Edge], error) {
	return paginate(page, func() ([]*domain.Edge, int64, error) {
		return e.edges.ListBySubject(ctx, kind, subject, page)
	})
}

func checkTriple(subject string, kind domain.RelationKind, object string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown relation %q", domain.ErrValidation, kind)
	}
	if subject == "" || object == "" {
		return fmt.Errorf("%w: relation needs a subject and an object", domain.ErrValidation)
	}
	return nil
}
