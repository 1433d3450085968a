package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type SubscriptionService struct {
	relations *RelationEngine
	users     ports.UserRepository
	log       zerolog.Logger
}

func NewSubscriptionService(relations *RelationEngine, users ports.UserRepository, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{relations: relations, users: users, log: log}
}

// Toggle subscribes actor to channelID or cancels an existing subscription.
// Subscribing to oneself fails with domain.ErrSelfRelation.
func (s *SubscriptionService) Toggle(ctx context.Context, actor *domain.User, channelID string) (domain.ToggleResult, error) {
	if actor.ID == channelID {
		return domain.ToggleResult{}, domain.ErrSelfRelation
	}
	if err := s.requireChannel(ctx, channelID); err != nil {
		return domain.ToggleResult{}, err
	}
	res, err := s.relations.Toggle(ctx, actor.ID, domain.RelationSubscribesTo, channelID)
	if err != nil {
		return domain.ToggleResult{}, err
	}
	s.log.Info().Str("subscriber", actor.ID).Str("channel", channelID).Bool("subscribed", res.Active).Msg("subscription toggled")
	return res, nil
}

// Subscribers lists who subscribes to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	edges, err := s.relations.ListSubjects(ctx, domain.RelationSubscribesTo, channelID, page)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, fmt.Errorf("subscribers: %w", err)
	}
	return summarize(ctx, s.users, edges, func(e *domain.Edge) string { return e.Subject })
}

// SubscribedChannels lists the channels subscriberID follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string, page domain.PageRequest) (domain.Page[domain.UserSummary], error) {
	if err := s.requireChannel(ctx, subscriberID); err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	edges, err := s.relations.ListObjects(ctx, domain.RelationSubscribesTo, subscriberID, page)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, fmt.Errorf("subscribed channels: %w", err)
	}
	return summarize(ctx, s.users, edges, func(e *domain.Edge) string { return e.Object })
}

func (s *SubscriptionService) requireChannel(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: channel id is required", domain.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("channel %s: %w", id, domain.ErrNotFound)
		}
		return err
	}
	return nil
}
