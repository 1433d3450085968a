package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type VideoRepository struct {
	coll  *mongo.Collection
	clock func() time.Time
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{coll: db.Collection(collectionVideos), clock: time.Now}
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoFile   string             `bson:"video_file"`
	Thumbnail   string             `bson:"thumbnail"`
	Duration    float64            `bson:"duration"`
	Views       int64              `bson:"views"`
	IsPublished bool               `bson:"is_published"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mv *mongoVideo) toDomain() *domain.Video {
	return &domain.Video{
		ID:          mv.ID.Hex(),
		Title:       mv.Title,
		Description: mv.Description,
		VideoFile:   mv.VideoFile,
		Thumbnail:   mv.Thumbnail,
		Duration:    mv.Duration,
		Views:       mv.Views,
		IsPublished: mv.IsPublished,
		Owner:       mv.Owner.Hex(),
		CreatedAt:   mv.CreatedAt.UTC(),
		UpdatedAt:   mv.UpdatedAt.UTC(),
	}
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	owner, err := objectID(v.Owner, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoVideo{
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		Owner:       owner,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mv, err := findOne[mongoVideo](ctx, r.coll, bson.M{"_id": oid}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mv.toDomain(), nil
}

// FindByIDs returns the videos that still exist among ids, in no particular
// order.
func (r *VideoRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Video, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Video{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoVideo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	out := make([]*domain.Video, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *VideoRepository) List(ctx context.Context, f ports.VideoFilter) ([]*domain.Video, int64, error) {
	filter := bson.M{}
	if f.Owner != "" {
		owner, ok := parseID(f.Owner)
		if !ok {
			return []*domain.Video{}, 0, nil
		}
		filter["owner"] = owner
	}
	if f.PublishedOnly {
		filter["is_published"] = true
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.Query.Sort.Field == domain.SortFieldLikes {
		return r.listByLikes(ctx, filter, f.Query)
	}
	return findPage(ctx, r.coll, filter, f.Query, (*mongoVideo).toDomain)
}

// listByLikes pages through the matching videos ordered by how many
// likes-video edges point at them.
func (r *VideoRepository) listByLikes(ctx context.Context, filter bson.M, q ports.ListQuery) ([]*domain.Video, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}
	if total == 0 || q.Page.Skip() >= total {
		return []*domain.Video{}, total, nil
	}

	dir := 1
	if q.Sort.Desc {
		dir = -1
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.M{
			"from": collectionEdges,
			"let":  bson.M{"video": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{
					"kind":  string(domain.RelationLikesVideo),
					"$expr": bson.M{"$eq": bson.A{"$object", "$$video"}},
				}},
				bson.M{"$project": bson.M{"_id": 1}},
			},
			"as": "like_edges",
		}}},
		{{Key: "$addFields", Value: bson.M{"likes": bson.M{"$size": "$like_edges"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "likes", Value: dir}, {Key: "_id", Value: dir}}}},
		{{Key: "$skip", Value: q.Page.Skip()}},
		{{Key: "$limit", Value: int64(q.Page.Size)}},
		{{Key: "$project", Value: bson.M{"like_edges": 0}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos by likes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoVideo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode videos: %w", err)
	}
	out := make([]*domain.Video, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}

func (r *VideoRepository) Update(ctx context.Context, id string, upd ports.VideoUpdate) (*domain.Video, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": r.clock().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Thumbnail != nil {
		set["thumbnail"] = *upd.Thumbnail
	}
	if upd.IsPublished != nil {
		set["is_published"] = *upd.IsPublished
	}
	mv, err := updateOne[mongoVideo](ctx, r.coll, oid, bson.M{"$set": set}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mv.toDomain(), nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id, domain.ErrNotFound)
}

func (r *VideoRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

// SumViewsByOwner adds up the view counters of every video of ownerID.
func (r *VideoRepository) SumViewsByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": owner}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$views"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum views: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode view sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// EnsureIndexes creates the indexes used by channel listings and search.
func (r *VideoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
