package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// LikeService toggles likes on videos, comments and tweets. The liked target
// must exist before an edge is created or removed.
type LikeService struct {
	relations *RelationEngine
	users     ports.UserRepository
	videos    ports.VideoRepository
	comments  ports.CommentRepository
	tweets    ports.TweetRepository
	log       zerolog.Logger
}

func NewLikeService(
	relations *RelationEngine,
	users ports.UserRepository,
	videos ports.VideoRepository,
	comments ports.CommentRepository,
	tweets ports.TweetRepository,
	log zerolog.Logger,
) *LikeService {
	return &LikeService{
		relations: relations,
		users:     users,
		videos:    videos,
		comments:  comments,
		tweets:    tweets,
		log:       log,
	}
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, actor *domain.User, videoID string) (domain.ToggleResult, error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return domain.ToggleResult{}, err
	}
	return s.relations.Toggle(ctx, actor.ID, domain.RelationLikesVideo, videoID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actor *domain.User, commentID string) (domain.ToggleResult, error) {
	if _, err := s.comments.FindByID(ctx, commentID); err != nil {
		return domain.ToggleResult{}, err
	}
	return s.relations.Toggle(ctx, actor.ID, domain.RelationLikesComment, commentID)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, actor *domain.User, tweetID string) (domain.ToggleResult, error) {
	if _, err := s.tweets.FindByID(ctx, tweetID); err != nil {
		return domain.ToggleResult{}, err
	}
	return s.relations.Toggle(ctx, actor.ID, domain.RelationLikesTweet, tweetID)
}

// VideoLikers lists the users who like videoID, most recent first.
func (s *LikeService) VideoLikers(ctx context.Context, videoID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	edges, err := s.relations.ListSubjects(ctx, domain.RelationLikesVideo, videoID, page)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, fmt.Errorf("video likers: %w", err)
	}
	return summarize(ctx, s.users, edges, func(e *domain.Edge) string { return e.Subject })
}

// LikedVideos lists the videos actor likes, most recently liked first. Deleting
// a video purges its likes; a video missing between the edge read and the
// video read is skipped.
func (s *LikeService) LikedVideos(ctx context.Context, actor *domain.User, page domain.PageRequest) (domain.Page[*domain.Video], error) {
	edges, err := s.relations.ListObjects(ctx, domain.RelationLikesVideo, actor.ID, page)
	if err != nil {
		return domain.Page[*domain.Video]{}, fmt.Errorf("liked videos: %w", err)
	}
	ids := make([]string, 0, len(edges.Items))
	for _, e := range edges.Items {
		ids = append(ids, e.Object)
	}
	videos, err := s.videos.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Page[*domain.Video]{}, fmt.Errorf("liked videos: %w", err)
	}
	byID := make(map[string]*domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	out := domain.MapPage(edges, func(e *domain.Edge) *domain.Video { return byID[e.Object] })
	out.Items = compact(out.Items)
	return out, nil
}

// purgeLikes drops the likes of a deleted target. The target is already gone,
// so a failure is logged and not returned.
func purgeLikes(ctx context.Context, relations *RelationEngine, log zerolog.Logger, kind domain.RelationKind, id string) {
	if relations == nil {
		return
	}
	if err := relations.Purge(ctx, kind, id); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Str("object", id).Msg("likes of deleted target not purged")
	}
}

// summarize resolves the user on one side of each edge into a public summary,
// keeping edge order.
func summarize(ctx context.Context, users ports.UserRepository, edges domain.Page[*domain.Edge], side func(*domain.Edge) string) (domain.Page[domain.UserSummary], error) {
	ids := make([]string, 0, len(edges.Items))
	for _, e := range edges.Items {
		ids = append(ids, side(e))
	}
	summaries, err := users.FindSummaries(ctx, ids)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, fmt.Errorf("resolve users: %w", err)
	}

	out := domain.MapPage(edges, func(e *domain.Edge) domain.UserSummary { return summaries[side(e)] })
	kept := out.Items[:0]
	for _, s := range out.Items {
		if s.ID != "" {
			kept = append(kept, s)
		}
	}
	out.Items = kept
	return out, nil
}

func compact[T any](items []*T) []*T {
	kept := items[:0]
	for _, it := range items {
		if it != nil {
			kept = append(kept, it)
		}
	}
	return kept
}
