package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type TweetRepository struct {
	coll  *mongo.Collection
	clock func() time.Time
}

func NewTweetRepository(db *mongo.Database) *TweetRepository {
	return &TweetRepository{coll: db.Collection(collectionTweets), clock: time.Now}
}

type mongoTweet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Owner     primitive.ObjectID `bson:"owner"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mt *mongoTweet) toDomain() *domain.Tweet {
	return &domain.Tweet{
		ID:        mt.ID.Hex(),
		Content:   mt.Content,
		Owner:     mt.Owner.Hex(),
		CreatedAt: mt.CreatedAt.UTC(),
		UpdatedAt: mt.UpdatedAt.UTC(),
	}
}

func (r *TweetRepository) Create(ctx context.Context, t *domain.Tweet) (*domain.Tweet, error) {
	owner, err := objectID(t.Owner, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTweet{Content: t.Content, Owner: owner, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert tweet: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TweetRepository) FindByID(ctx context.Context, id string) (*domain.Tweet, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mt, err := findOne[mongoTweet](ctx, r.coll, bson.M{"_id": oid}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mt.toDomain(), nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID string, q ports.ListQuery) ([]*domain.Tweet, int64, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return []*domain.Tweet{}, 0, nil
	}
	return findPage(ctx, r.coll, bson.M{"owner": owner}, q, (*mongoTweet).toDomain)
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id, content string) (*domain.Tweet, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mt, err := updateOne[mongoTweet](ctx, r.coll, oid,
		bson.M{"$set": bson.M{"content": content, "updated_at": r.clock().UTC()}}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mt.toDomain(), nil
}

func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id, domain.ErrNotFound)
}

func (r *TweetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
