package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type CommentService struct {
	comments  ports.CommentRepository
	videos    ports.VideoRepository
	relations *RelationEngine
	log       zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, videos ports.VideoRepository, relations *RelationEngine, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, videos: videos, relations: relations, log: log}
}

// List returns the comments of a video, newest first.
func (s *CommentService) List(ctx context.Context, videoID string, page domain.PageRequest) (domain.Page[*domain.Comment], error) {
	return paginate(page, func() ([]*domain.Comment, int64, error) {
		return s.comments.ListByVideo(ctx, videoID, ports.ListQuery{
			Page: page,
			Sort: domain.SortSpec{Field: "created_at", Desc: true},
		})
	})
}

func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

func (s *CommentService) Add(ctx context.Context, actor *domain.User, videoID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", domain.ErrValidation)
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.comments.Create(ctx, &domain.Comment{
		Content:   content,
		VideoID:   videoID,
		Owner:     actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.log.Info().Str("comment_id", created.ID).Str("video_id", videoID).Str("owner", actor.ID).Msg("comment added")
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", domain.ErrValidation)
	}
	if _, err := LoadOwned(ctx, id, s.comments.FindByID, actor); err != nil {
		return nil, err
	}
	return s.comments.UpdateContent(ctx, id, content)
}

func (s *CommentService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := LoadOwned(ctx, id, s.comments.FindByID, actor); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	purgeLikes(ctx, s.relations, s.log, domain.RelationLikesComment, id)
	s.log.Info().Str("comment_id", id).Str("owner", actor.ID).Msg("comment deleted")
	return nil
}
