package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// ListQuery is the paging and ordering part of every list call.
type ListQuery struct {
	Page domain.PageRequest
	Sort domain.SortSpec
}

// Each repository below returns domain.ErrNotFound when a lookup by id misses
// or the id is malformed. List methods return the requested page and the total
// number of matching documents.

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID string, q ListQuery) ([]*domain.Comment, int64, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

// TweetRepository persists tweets.
type TweetRepository interface {
	Create(ctx context.Context, t *domain.Tweet) (*domain.Tweet, error)
	FindByID(ctx context.Context, id string) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*domain.Tweet, int64, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistUpdate carries optional playlist fields; nil means unchanged.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// PlaylistRepository persists playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, p *domain.Playlist) (*domain.Playlist, error)
	FindByID(ctx context.Context, id string) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*domain.Playlist, int64, error)
	Update(ctx context.Context, id string, upd PlaylistUpdate) (*domain.Playlist, error)
	AddVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID string) (*domain.Playlist, error)
	Delete(ctx context.Context, id string) error
}

// VideoFilter selects videos for listing.
type VideoFilter struct {
	Owner         string // empty = any owner
	Search        string // case-insensitive match on title or description
	PublishedOnly bool
	Query         ListQuery
}

// VideoUpdate carries optional video fields; nil means unchanged.
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
	IsPublished *bool
}

// VideoRepository persists videos and serves the channel reductions.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.Video) (*domain.Video, error)
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Video, error)
	List(ctx context.Context, f VideoFilter) ([]*domain.Video, int64, error)
	Update(ctx context.Context, id string, upd VideoUpdate) (*domain.Video, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	SumViewsByOwner(ctx context.Context, ownerID string) (int64, error)
}
