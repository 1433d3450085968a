package ports

import (
	"context"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// LikeService toggles and lists likes.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, actor *domain.User, videoID string) (domain.ToggleResult, error)
	ToggleCommentLike(ctx context.Context, actor *domain.User, commentID string) (domain.ToggleResult, error)
	ToggleTweetLike(ctx context.Context, actor *domain.User, tweetID string) (domain.ToggleResult, error)
	VideoLikers(ctx context.Context, videoID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error)
	LikedVideos(ctx context.Context, actor *domain.User, page domain.PageRequest) (domain.Page[*domain.Video], error)
}

// SubscriptionService toggles and lists channel subscriptions.
type SubscriptionService interface {
	Toggle(ctx context.Context, actor *domain.User, channelID string) (domain.ToggleResult, error)
	Subscribers(ctx context.Context, channelID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error)
	SubscribedChannels(ctx context.Context, subscriberID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error)
}

// DashboardService serves channel aggregates.
type DashboardService interface {
	ChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID string, sort domain.VideoSort, page domain.PageRequest) (domain.Page[*domain.Video], error)
}
