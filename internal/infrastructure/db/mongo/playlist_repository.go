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

type PlaylistRepository struct {
	coll  *mongo.Collection
	clock func() time.Time
}

func NewPlaylistRepository(db *mongo.Database) *PlaylistRepository {
	return &PlaylistRepository{coll: db.Collection(collectionPlaylists), clock: time.Now}
}

type mongoPlaylist struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Videos      []primitive.ObjectID `bson:"videos"`
	Owner       primitive.ObjectID   `bson:"owner"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (mp *mongoPlaylist) toDomain() *domain.Playlist {
	return &domain.Playlist{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
		Videos:      hexIDs(mp.Videos),
		Owner:       mp.Owner.Hex(),
		CreatedAt:   mp.CreatedAt.UTC(),
		UpdatedAt:   mp.UpdatedAt.UTC(),
	}
}

func (r *PlaylistRepository) Create(ctx context.Context, p *domain.Playlist) (*domain.Playlist, error) {
	owner, err := objectID(p.Owner, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPlaylist{
		Name:        p.Name,
		Description: p.Description,
		Videos:      objectIDs(p.Videos),
		Owner:       owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id string) (*domain.Playlist, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	mp, err := findOne[mongoPlaylist](ctx, r.coll, bson.M{"_id": oid}, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mp.toDomain(), nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID string, q ports.ListQuery) ([]*domain.Playlist, int64, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return []*domain.Playlist{}, 0, nil
	}
	return findPage(ctx, r.coll, bson.M{"owner": owner}, q, (*mongoPlaylist).toDomain)
}

func (r *PlaylistRepository) Update(ctx context.Context, id string, upd ports.PlaylistUpdate) (*domain.Playlist, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	return r.apply(ctx, id, bson.M{"$set": set})
}

// AddVideo appends videoID once; adding a present video is a no-op.
func (r *PlaylistRepository) AddVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error) {
	vid, err := objectID(videoID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return r.apply(ctx, id, bson.M{"$addToSet": bson.M{"videos": vid}})
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error) {
	vid, err := objectID(videoID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return r.apply(ctx, id, bson.M{"$pull": bson.M{"videos": vid}})
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id, domain.ErrNotFound)
}

func (r *PlaylistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *PlaylistRepository) apply(ctx context.Context, id string, update bson.M) (*domain.Playlist, error) {
	oid, err := objectID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updated_at"] = r.clock().UTC()

	mp, err := updateOne[mongoPlaylist](ctx, r.coll, oid, update, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return mp.toDomain(), nil
}
