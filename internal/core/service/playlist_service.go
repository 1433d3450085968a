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

type PlaylistService struct {
	playlists ports.PlaylistRepository
	videos    ports.VideoRepository
	log       zerolog.Logger
}

func NewPlaylistService(playlists ports.PlaylistRepository, videos ports.VideoRepository, log zerolog.Logger) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, log: log}
}

func (s *PlaylistService) Create(ctx context.Context, actor *domain.User, name, description string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	now := time.Now().UTC()
	created, err := s.playlists.Create(ctx, &domain.Playlist{
		Name:        name,
		Description: description,
		Videos:      []string{},
		Owner:       actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	s.log.Info().Str("playlist_id", created.ID).Str("owner", actor.ID).Msg("playlist created")
	return created, nil
}

// Get returns a playlist to its owner only.
func (s *PlaylistService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Playlist, error) {
	return LoadOwned(ctx, id, s.playlists.FindByID, actor)
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[*domain.Playlist], error) {
	return paginate(page, func() ([]*domain.Playlist, int64, error) {
		return s.playlists.ListByOwner(ctx, userID, ports.ListQuery{
			Page: page,
			Sort: domain.SortSpec{Field: "created_at", Desc: true},
		})
	})
}

// Update changes name and/or description. A blank name is ignored rather than
// stored; a blank description clears it.
func (s *PlaylistService) Update(ctx context.Context, actor *domain.User, id string, upd ports.PlaylistUpdate) (*domain.Playlist, error) {
	current, err := LoadOwned(ctx, id, s.playlists.FindByID, actor)
	if err != nil {
		return nil, err
	}

	var clean ports.PlaylistUpdate
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" {
			clean.Name = &name
		}
	}
	if upd.Description != nil {
		desc := strings.TrimSpace(*upd.Description)
		clean.Description = &desc
	}
	if clean.Name == nil && clean.Description == nil {
		return current, nil
	}
	return s.playlists.Update(ctx, id, clean)
}

func (s *PlaylistService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := LoadOwned(ctx, id, s.playlists.FindByID, actor); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	s.log.Info().Str("playlist_id", id).Str("owner", actor.ID).Msg("playlist deleted")
	return nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, actor *domain.User, id, videoID string) (*domain.Playlist, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", domain.ErrValidation)
	}
	playlist, err := LoadOwned(ctx, id, s.playlists.FindByID, actor)
	if err != nil {
		return nil, err
	}
	if playlist.Contains(videoID) {
		return nil, fmt.Errorf("%w: video is already in the playlist", domain.ErrValidation)
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.playlists.AddVideo(ctx, id, videoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, actor *domain.User, id, videoID string) (*domain.Playlist, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", domain.ErrValidation)
	}
	if _, err := LoadOwned(ctx, id, s.playlists.FindByID, actor); err != nil {
		return nil, err
	}
	return s.playlists.RemoveVideo(ctx, id, videoID)
}
