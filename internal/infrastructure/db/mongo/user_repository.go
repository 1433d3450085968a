package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// watchHistoryLimit caps the number of entries kept per user.
const watchHistoryLimit = 100

type UserRepository struct {
	coll  *mongo.Collection
	db    *mongo.Database
	clock func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers), db: db, clock: time.Now}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	Fullname     string               `bson:"fullname"`
	Avatar       string               `bson:"avatar"`
	CoverImage   string               `bson:"cover_image,omitempty"`
	PasswordHash string               `bson:"password_hash"`
	RefreshToken string               `bson:"refresh_token,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watch_history,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		Fullname:     mu.Fullname,
		Avatar:       mu.Avatar,
		CoverImage:   mu.CoverImage,
		PasswordHash: mu.PasswordHash,
		RefreshToken: mu.RefreshToken,
		WatchHistory: hexIDs(mu.WatchHistory),
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

// mongoUserSummary is the projection joined into other documents.
type mongoUserSummary struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Fullname string             `bson:"fullname"`
	Avatar   string             `bson:"avatar"`
}

var summaryProjection = bson.M{"username": 1, "fullname": 1, "avatar": 1}

func (s mongoUserSummary) toDomain() domain.UserSummary {
	return domain.UserSummary{ID: s.ID.Hex(), Username: s.Username, Fullname: s.Fullname, Avatar: s.Avatar}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		Fullname:     user.Fullname,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findUser(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findUser(ctx, bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *UserRepository) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	mu, err := findOne[mongoUser](ctx, r.coll, filter, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUserSummary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode user summaries: %w", err)
	}
	for _, d := range docs {
		out[d.ID.Hex()] = d.toDomain()
	}
	return out, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": r.clock().UTC()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": r.clock().UTC()},
		}
	}
	return r.updateByID(ctx, id, update)
}

// RotateRefreshToken matches on both the id and the presented token, so two
// concurrent rotations of the same token cannot both modify the document.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return false, err
	}
	if presented == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "refresh_token": presented},
		bson.M{"$set": bson.M{"refresh_token": next, "updated_at": r.clock().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": r.clock().UTC()}})
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id, fullname, email string) (*domain.User, error) {
	return r.updateAndGet(ctx, id, bson.M{"fullname": fullname, "email": email})
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, url string) (*domain.User, error) {
	return r.updateAndGet(ctx, id, bson.M{"avatar": url})
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id, url string) (*domain.User, error) {
	return r.updateAndGet(ctx, id, bson.M{"cover_image": url})
}

// PushWatchHistory appends videoID and keeps only the newest entries.
func (r *UserRepository) PushWatchHistory(ctx context.Context, id, videoID string) error {
	vid, err := objectID(videoID, domain.ErrNotFound)
	if err != nil {
		return err
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"watch_history": bson.M{
		"$each":  bson.A{vid},
		"$slice": -watchHistoryLimit,
	}}})
}

type watchedVideoDoc struct {
	Video    mongoVideo         `bson:",inline"`
	OwnerDoc []mongoUserSummary `bson:"owner_doc"`
}

// WatchHistory resolves the user's history into videos with their owners,
// most recent first. Each video appears once.
func (r *UserRepository) WatchHistory(ctx context.Context, id string) ([]domain.WatchedVideo, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history := objectIDs(user.WatchHistory)
	if len(history) == 0 {
		return []domain.WatchedVideo{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": history}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "owner_doc",
			"pipeline":     bson.A{bson.M{"$project": summaryProjection}},
		}}},
	}
	cur, err := r.db.Collection(collectionVideos).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	defer cur.Close(ctx)

	var docs []watchedVideoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode watch history: %w", err)
	}
	byID := make(map[primitive.ObjectID]domain.WatchedVideo, len(docs))
	for i := range docs {
		wv := domain.WatchedVideo{Video: *docs[i].Video.toDomain()}
		if len(docs[i].OwnerDoc) > 0 {
			wv.OwnerSummary = docs[i].OwnerDoc[0].toDomain()
		}
		byID[docs[i].Video.ID] = wv
	}

	out := make([]domain.WatchedVideo, 0, len(byID))
	seen := make(map[primitive.ObjectID]bool, len(byID))
	for i := len(history) - 1; i >= 0; i-- {
		wv, ok := byID[history[i]]
		if !ok || seen[history[i]] {
			continue
		}
		seen[history[i]] = true
		out = append(out, wv)
	}
	return out, nil
}

type channelProfileDoc struct {
	ID                primitive.ObjectID `bson:"_id"`
	Username          string             `bson:"username"`
	Fullname          string             `bson:"fullname"`
	Email             string             `bson:"email"`
	Avatar            string             `bson:"avatar"`
	CoverImage        string             `bson:"cover_image"`
	SubscribersCount  int64              `bson:"subscribers_count"`
	SubscribedToCount int64              `bson:"subscribed_to_count"`
	IsSubscribed      bool               `bson:"is_subscribed"`
}

// ChannelProfile joins the subscription edges on both sides of the user in a
// single aggregation.
func (r *UserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	edgesOf := func(side string) bson.M {
		return bson.M{
			"from": collectionEdges,
			"let":  bson.M{"uid": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$" + side, "$$uid"}},
					bson.M{"$eq": bson.A{"$kind", string(domain.RelationSubscribesTo)}},
				}}}},
				bson.M{"$project": bson.M{"subject": 1}},
			},
			"as": side + "_edges",
		}
	}

	var isSubscribed any = false
	if viewer, err := primitive.ObjectIDFromHex(viewerID); err == nil {
		isSubscribed = bson.M{"$in": bson.A{viewer, "$object_edges.subject"}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$lookup", Value: edgesOf("object")}},
		{{Key: "$lookup", Value: edgesOf("subject")}},
		{{Key: "$project", Value: bson.M{
			"username":            1,
			"fullname":            1,
			"email":               1,
			"avatar":              1,
			"cover_image":         1,
			"subscribers_count":   bson.M{"$size": "$object_edges"},
			"subscribed_to_count": bson.M{"$size": "$subject_edges"},
			"is_subscribed":       isSubscribed,
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("channel profile: %w", err)
	}
	defer cur.Close(ctx)

	var docs []channelProfileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode channel profile: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrUserNotFound
	}
	d := docs[0]
	return &domain.ChannelProfile{
		ID:                d.ID.Hex(),
		Username:          d.Username,
		Fullname:          d.Fullname,
		Email:             d.Email,
		Avatar:            d.Avatar,
		CoverImage:        d.CoverImage,
		SubscribersCount:  d.SubscribersCount,
		SubscribedToCount: d.SubscribedToCount,
		IsSubscribed:      d.IsSubscribed,
	}, nil
}

// EnsureIndexes creates the unique identity indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) updateAndGet(ctx context.Context, id string, fields bson.M) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	fields["updated_at"] = r.clock().UTC()
	mu, err := updateOne[mongoUser](ctx, r.coll, oid, bson.M{"$set": fields}, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return mu.toDomain(), nil
}
