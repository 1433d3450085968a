package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// CommentService manages comments on videos.
type CommentService interface {
	List(ctx context.Context, videoID string, page domain.PageRequest) (domain.Page[*domain.Comment], error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	Add(ctx context.Context, actor *domain.User, videoID, content string) (*domain.Comment, error)
	Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// TweetService manages tweets.
type TweetService interface {
	Create(ctx context.Context, actor *domain.User, content string) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Tweet], error)
	Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// PlaylistService manages playlists. Reads of a single playlist are owner-only.
type PlaylistService interface {
	Create(ctx context.Context, actor *domain.User, name, description string) (*domain.Playlist, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Playlist], error)
	Update(ctx context.Context, actor *domain.User, id string, upd PlaylistUpdate) (*domain.Playlist, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	AddVideo(ctx context.Context, actor *domain.User, id, videoID string) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, actor *domain.User, id, videoID string) (*domain.Playlist, error)
}

// PublishVideoInput carries a new video and its files.
type PublishVideoInput struct {
	Title       string
	Description string
	VideoFile   *Upload // required
	Thumbnail   *Upload // optional
}

// UpdateVideoInput carries optional changes; nil fields are left untouched.
type UpdateVideoInput struct {
	Title       *string
	Description *string
	IsPublished *bool
	Thumbnail   *Upload
}

// ListVideosInput selects published videos for the public listing.
type ListVideosInput struct {
	Search string
	Owner  string
	SortBy string
	Desc   bool
	Page   domain.PageRequest
}

// VideoService manages videos.
type VideoService interface {
	List(ctx context.Context, in ListVideosInput) (domain.Page[*domain.Video], error)
	Publish(ctx context.Context, actor *domain.User, in PublishVideoInput) (*domain.Video, error)
	// Get returns the video and counts a view. viewer may be nil.
	Get(ctx context.Context, id string, viewer *domain.User, viewerKey string) (*domain.Video, error)
	Update(ctx context.Context, actor *domain.User, id string, in UpdateVideoInput) (*domain.Video, error)
	TogglePublish(ctx context.Context, actor *domain.User, id string) (*domain.Video, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
