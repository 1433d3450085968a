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

type CommentRepository struct {
	coll  *mongo.Collection
	clock func() time.Time
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(collectionComments), clock: time.Now}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Video     primitive.ObjectID `bson:"video"`
	Owner     primitive.ObjectID `bson:"owner"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mc *mongoComment) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        mc.ID.Hex(),
		Content:   mc.Content,
		VideoID:   mc.Video.Hex(),
		Owner:     mc.Owner.Hex(),
		CreatedAt: mc.CreatedAt.UTC(),
		UpdatedAt: mc.UpdatedAt.UTC(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	video, err := objectID(c.VideoID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(c.Owner, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoComment{Content: c.Content, Video: video, Owner: owner, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mc, err := findOne[mongoComment](ctx, r.coll, bson.M{"_id": oid}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, q ports.ListQuery) ([]*domain.Comment, int64, error) {
	video, ok := parseID(videoID)
	if !ok {
		return []*domain.Comment{}, 0, nil
	}
	return findPage(ctx, r.coll, bson.M{"video": video}, q, (*mongoComment).toDomain)
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mc, err := updateOne[mongoComment](ctx, r.coll, oid,
		bson.M{"$set": bson.M{"content": content, "updated_at": r.clock().UTC()}}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id, domain.ErrNotFound)
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "video", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
