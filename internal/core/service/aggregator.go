package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// paginate runs one list query and wraps its result in the page envelope.
func paginate[T any](page domain.PageRequest, fetch func() ([]T, int64, error)) (domain.Page[T], error) {
	items, total, err := fetch()
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(items, total, page), nil
}

// Aggregator computes channel level numbers live from the store.
type Aggregator struct {
	users  ports.UserRepository
	videos ports.VideoRepository
	edges  ports.EdgeRepository
	log    zerolog.Logger
}

func NewAggregator(users ports.UserRepository, videos ports.VideoRepository, edges ports.EdgeRepository, log zerolog.Logger) *Aggregator {
	return &Aggregator{users: users, videos: videos, edges: edges, log: log}
}

// ChannelStats counts subscribers and videos and sums views for channelID.
// The three reads are independent and run concurrently.
func (a *Aggregator) ChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	channel, err := a.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	stats := &domain.ChannelStats{Channel: channel.Summary(), JoinedAt: channel.CreatedAt}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := a.edges.CountByObject(gctx, domain.RelationSubscribesTo, channelID)
		stats.SubscriberCount = n
		return err
	})
	g.Go(func() error {
		n, err := a.videos.CountByOwner(gctx, channelID)
		stats.VideoCount = n
		return err
	})
	g.Go(func() error {
		n, err := a.videos.SumViewsByOwner(gctx, channelID)
		stats.TotalViews = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("channel stats: %w", err)
	}
	return stats, nil
}

// ChannelVideos lists the published videos of channelID.
func (a *Aggregator) ChannelVideos(ctx context.Context, channelID string, sort domain.VideoSort, page domain.PageRequest) (domain.Page[*domain.Video], error) {
	if _, err := a.channel(ctx, channelID); err != nil {
		return domain.Page[*domain.Video]{}, err
	}
	return paginate(page, func() ([]*domain.Video, int64, error) {
		return a.videos.List(ctx, ports.VideoFilter{
			Owner:         channelID,
			PublishedOnly: true,
			Query:         ports.ListQuery{Page: page, Sort: sort.Spec()},
		})
	})
}

func (a *Aggregator) channel(ctx context.Context, channelID string) (*domain.User, error) {
	if channelID == "" {
		return nil, fmt.Errorf("%w: channel id is required", domain.ErrValidation)
	}
	channel, err := a.users.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
		}
		return nil, err
	}
	return channel, nil
}
