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

// ViewDeduper decides whether a read of a video counts as a new view.
type ViewDeduper interface {
	MarkView(ctx context.Context, videoID, viewerKey string) (bool, error)
}

var videoSortFields = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"views":      "views",
	"duration":   "duration",
	"title":      "title",
}

type VideoService struct {
	videos ports.VideoRepository
	users  ports.UserRepository
	blobs  ports.BlobStore
	views     ViewDeduper
	relations *RelationEngine
	log       zerolog.Logger
}

func NewVideoService(
	videos ports.VideoRepository,
	users ports.UserRepository,
	blobs ports.BlobStore,
	views ViewDeduper,
	relations *RelationEngine,
	log zerolog.Logger,
) *VideoService {
	return &VideoService{videos: videos, users: users, blobs: blobs, views: views, relations: relations, log: log}
}

// List returns published videos matching in. Unknown sort fields fall back to
// creation time.
func (s *VideoService) List(ctx context.Context, in ports.ListVideosInput) (domain.Page[*domain.Video], error) {
	sort := domain.SortSpec{Field: "created_at", Desc: true}
	if field, ok := videoSortFields[in.SortBy]; ok {
		sort = domain.SortSpec{Field: field, Desc: in.Desc}
	}
	return paginate(in.Page, func() ([]*domain.Video, int64, error) {
		return s.videos.List(ctx, ports.VideoFilter{
			Owner:         in.Owner,
			Search:        strings.TrimSpace(in.Search),
			PublishedOnly: true,
			Query:         ports.ListQuery{Page: in.Page, Sort: sort},
		})
	})
}

func (s *VideoService) Publish(ctx context.Context, actor *domain.User, in ports.PublishVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if in.VideoFile == nil {
		return nil, fmt.Errorf("%w: video file is required", domain.ErrValidation)
	}

	media, err := s.blobs.Upload(ctx, *in.VideoFile)
	if err != nil {
		return nil, err
	}
	var thumbnail string
	if in.Thumbnail != nil {
		asset, err := s.blobs.Upload(ctx, *in.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumbnail = asset.URL
	}

	now := time.Now().UTC()
	created, err := s.videos.Create(ctx, &domain.Video{
		Title:       title,
		Description: description,
		VideoFile:   media.URL,
		Thumbnail:   thumbnail,
		Duration:    media.Duration,
		IsPublished: true,
		Owner:       actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("publish video: %w", err)
	}
	s.log.Info().Str("video_id", created.ID).Str("owner", actor.ID).Msg("video published")
	return created, nil
}

// Get returns a video and records a view. Unpublished videos are visible to
// their owner only. viewerKey identifies anonymous viewers for view dedup.
func (s *VideoService) Get(ctx context.Context, id string, viewer *domain.User, viewerKey string) (*domain.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && (viewer == nil || viewer.ID != video.Owner) {
		return nil, domain.ErrNotFound
	}

	if viewer != nil {
		viewerKey = viewer.ID
		if err := s.users.PushWatchHistory(ctx, viewer.ID, video.ID); err != nil {
			s.log.Warn().Err(err).Str("video_id", video.ID).Str("user_id", viewer.ID).Msg("watch history not updated")
		}
	}

	first := true
	if s.views != nil && viewerKey != "" {
		first, err = s.views.MarkView(ctx, video.ID, viewerKey)
		if err != nil {
			s.log.Warn().Err(err).Str("video_id", video.ID).Msg("view dedup unavailable, counting view")
			first = true
		}
	}
	if first {
		if err := s.videos.IncrementViews(ctx, video.ID); err != nil {
			s.log.Warn().Err(err).Str("video_id", video.ID).Msg("view not counted")
		} else {
			video.Views++
		}
	}
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, actor *domain.User, id string, in ports.UpdateVideoInput) (*domain.Video, error) {
	current, err := LoadOwned(ctx, id, s.videos.FindByID, actor)
	if err != nil {
		return nil, err
	}

	var upd ports.VideoUpdate
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		upd.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		upd.Description = &desc
	}
	upd.IsPublished = in.IsPublished
	if in.Thumbnail != nil {
		asset, err := s.blobs.Upload(ctx, *in.Thumbnail)
		if err != nil {
			return nil, err
		}
		upd.Thumbnail = &asset.URL
	}
	if upd == (ports.VideoUpdate{}) {
		return current, nil
	}
	return s.videos.Update(ctx, id, upd)
}

// TogglePublish flips the published flag of an owned video.
func (s *VideoService) TogglePublish(ctx context.Context, actor *domain.User, id string) (*domain.Video, error) {
	video, err := LoadOwned(ctx, id, s.videos.FindByID, actor)
	if err != nil {
		return nil, err
	}
	published := !video.IsPublished
	updated, err := s.videos.Update(ctx, id, ports.VideoUpdate{IsPublished: &published})
	if err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}
	s.log.Info().Str("video_id", id).Bool("published", published).Msg("video visibility changed")
	return updated, nil
}

func (s *VideoService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := LoadOwned(ctx, id, s.videos.FindByID, actor); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	purgeLikes(ctx, s.relations, s.log, domain.RelationLikesVideo, id)
	s.log.Info().Str("video_id", id).Str("owner", actor.ID).Msg("video deleted")
	return nil
}
