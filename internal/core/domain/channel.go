package domain

import "time"

// ChannelStats is the dashboard summary of a channel. All numbers are computed
// at query time.
type ChannelStats struct {
	Channel         UserSummary `json:"channel"`
	SubscriberCount int64       `json:"subscriber_count"`
	VideoCount      int64       `json:"video_count"`
	TotalViews      int64       `json:"total_views"`
	JoinedAt        time.Time   `json:"joined_at"`
}

// ChannelProfile is a user's public channel page as seen by a viewer.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Fullname          string `json:"fullname"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"cover_image"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// WatchedVideo is a watch-history entry with its owner resolved.
type WatchedVideo struct {
	Video
	OwnerSummary UserSummary `json:"owner_summary"`
}

// VideoSort names the orderings offered on channel video listings.
type VideoSort string

const (
	VideoSortNewest    VideoSort = "newest"
	VideoSortOldest    VideoSort = "oldest"
	VideoSortPopular   VideoSort = "popular"
	VideoSortMostLiked VideoSort = "mostLiked"
)

// SortFieldLikes orders videos by their live like count. Stores compute it
// from likes-video edges, it is not a stored field.
const SortFieldLikes = "likes"

// Spec returns the store ordering for s; unknown values order newest first.
func (s VideoSort) Spec() SortSpec {
	switch s {
	case VideoSortOldest:
		return SortSpec{Field: "created_at"}
	case VideoSortPopular:
		return SortSpec{Field: "views", Desc: true}
	case VideoSortMostLiked:
		return SortSpec{Field: SortFieldLikes, Desc: true}
	default:
		return SortSpec{Field: "created_at", Desc: true}
	}
}
