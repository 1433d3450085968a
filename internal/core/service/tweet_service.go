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

type TweetService struct {
	tweets    ports.TweetRepository
	relations *RelationEngine
	log       zerolog.Logger
}

func NewTweetService(tweets ports.TweetRepository, relations *RelationEngine, log zerolog.Logger) *TweetService {
	return &TweetService{tweets: tweets, relations: relations, log: log}
}

func (s *TweetService) Create(ctx context.Context, actor *domain.User, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: tweet content cannot be empty", domain.ErrValidation)
	}
	now := time.Now().UTC()
	created, err := s.tweets.Create(ctx, &domain.Tweet{
		Content:   content,
		Owner:     actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}
	s.log.Info().Str("tweet_id", created.ID).Str("owner", actor.ID).Msg("tweet created")
	return created, nil
}

// ListByUser returns the tweets of userID, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Tweet], error) {
	return paginate(page, func() ([]*domain.Tweet, int64, error) {
		return s.tweets.ListByOwner(ctx, userID, ports.ListQuery{
			Page: page,
			Sort: domain.SortSpec{Field: "created_at", Desc: true},
		})
	})
}

func (s *TweetService) Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: tweet content cannot be empty", domain.ErrValidation)
	}
	if _, err := LoadOwned(ctx, id, s.tweets.FindByID, actor); err != nil {
		return nil, err
	}
	return s.tweets.UpdateContent(ctx, id, content)
}

func (s *TweetService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := LoadOwned(ctx, id, s.tweets.FindByID, actor); err != nil {
		return err
	}
	if err := s.tweets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	purgeLikes(ctx, s.relations, s.log, domain.RelationLikesTweet, id)
	s.log.Info().Str("tweet_id", id).Str("owner", actor.ID).Msg("tweet deleted")
	return nil
}
