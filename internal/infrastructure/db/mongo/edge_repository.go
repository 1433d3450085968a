package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// EdgeRepository stores likes and subscriptions as one document per active
// relation. The unique (subject, kind, object) index is what serialises
// concurrent toggles.
type EdgeRepository struct {
	coll *mongo.Collection
}

func NewEdgeRepository(db *mongo.Database) *EdgeRepository {
	return &EdgeRepository{coll: db.Collection(collectionEdges)}
}

type mongoEdge struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Subject   primitive.ObjectID `bson:"subject"`
	Kind      string             `bson:"kind"`
	Object    primitive.ObjectID `bson:"object"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

func (me *mongoEdge) toDomain() *domain.Edge {
	return &domain.Edge{
		ID:        me.ID.Hex(),
		Subject:   me.Subject.Hex(),
		Kind:      domain.RelationKind(me.Kind),
		Object:    me.Object.Hex(),
		CreatedAt: me.CreatedAt.Time().UTC(),
	}
}

func (r *EdgeRepository) Find(ctx context.Context, subject string, kind domain.RelationKind, object string) (*domain.Edge, error) {
	filter, err := tripleFilter(subject, kind, object)
	if err != nil {
		return nil, err
	}
	me, err := findOne[mongoEdge](ctx, r.coll, filter, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return me.toDomain(), nil
}

func (r *EdgeRepository) Insert(ctx context.Context, e *domain.Edge) (*domain.Edge, error) {
	subject, err := objectID(e.Subject, fmt.Errorf("%w: malformed subject id", domain.ErrValidation))
	if err != nil {
		return nil, err
	}
	object, err := objectID(e.Object, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEdge{
		Subject:   subject,
		Kind:      string(e.Kind),
		Object:    object,
		CreatedAt: primitive.NewDateTimeFromTime(e.CreatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEdgeExists
		}
		return nil, fmt.Errorf("insert edge: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *EdgeRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

func (r *EdgeRepository) DeleteByObject(ctx context.Context, kind domain.RelationKind, object string) (int64, error) {
	oid, ok := parseID(object)
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"object": oid, "kind": string(kind)})
	if err != nil {
		return 0, fmt.Errorf("delete edges: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *EdgeRepository) CountByObject(ctx context.Context, kind domain.RelationKind, object string) (int64, error) {
	return r.count(ctx, kind, "object", object)
}

func (r *EdgeRepository) CountBySubject(ctx context.Context, kind domain.RelationKind, subject string) (int64, error) {
	return r.count(ctx, kind, "subject", subject)
}

func (r *EdgeRepository) ListByObject(ctx context.Context, kind domain.RelationKind, object string, page domain.PageRequest) ([]*domain.Edge, int64, error) {
	return r.list(ctx, kind, "object", object, page)
}

func (r *EdgeRepository) ListBySubject(ctx context.Context, kind domain.RelationKind, subject string, page domain.PageRequest) ([]*domain.Edge, int64, error) {
	return r.list(ctx, kind, "subject", subject, page)
}

// EnsureIndexes creates the uniqueness index over the triple and the lookup
// index for the object side. The unique index also serves subject lookups.
func (r *EdgeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subject", Value: 1}, {Key: "kind", Value: 1}, {Key: "object", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "object", Value: 1}, {Key: "kind", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *EdgeRepository) count(ctx context.Context, kind domain.RelationKind, side, id string) (int64, error) {
	oid, ok := parseID(id)
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{side: oid, "kind": string(kind)})
	if err != nil {
		return 0, fmt.Errorf("count edges: %w", err)
	}
	return n, nil
}

func (r *EdgeRepository) list(ctx context.Context, kind domain.RelationKind, side, id string, page domain.PageRequest) ([]*domain.Edge, int64, error) {
	oid, ok := parseID(id)
	if !ok {
		return []*domain.Edge{}, 0, nil
	}
	q := ports.ListQuery{Page: page, Sort: domain.SortSpec{Field: "created_at", Desc: true}}
	return findPage(ctx, r.coll, bson.M{side: oid, "kind": string(kind)}, q, (*mongoEdge).toDomain)
}

func tripleFilter(subject string, kind domain.RelationKind, object string) (bson.M, error) {
	s, err := objectID(subject, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	o, err := objectID(object, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return bson.M{"subject": s, "kind": string(kind), "object": o}, nil
}
