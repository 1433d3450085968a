package api

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// In-memory adapters for exercising the router end to end.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*domain.User{}} }

func (r *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) update(id string, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	cp := *u
	return &cp, nil
}

func (r *memUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *user
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *memUsers) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == login || u.Email == login })
}

func (r *memUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *memUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	_, err := r.find(func(u *domain.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

func (r *memUsers) FindSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := map[string]domain.UserSummary{}
	for _, id := range ids {
		if u, err := r.FindByID(ctx, id); err == nil {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *memUsers) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.update(id, func(u *domain.User) { u.RefreshToken = token })
	return err
}

func (r *memUsers) RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error) {
	swapped := false
	_, err := r.update(id, func(u *domain.User) {
		if u.RefreshToken == presented {
			u.RefreshToken = next
			swapped = true
		}
	})
	return swapped, err
}

func (r *memUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.update(id, func(u *domain.User) { u.PasswordHash = passwordHash })
	return err
}

func (r *memUsers) UpdateAccount(ctx context.Context, id, fullname, email string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Fullname, u.Email = fullname, email })
}

func (r *memUsers) UpdateAvatar(ctx context.Context, id, url string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Avatar = url })
}

func (r *memUsers) UpdateCoverImage(ctx context.Context, id, url string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.CoverImage = url })
}

func (r *memUsers) PushWatchHistory(ctx context.Context, id, videoID string) error {
	_, err := r.update(id, func(u *domain.User) { u.WatchHistory = append(u.WatchHistory, videoID) })
	return err
}

func (r *memUsers) WatchHistory(ctx context.Context, id string) ([]domain.WatchedVideo, error) {
	return nil, nil
}

func (r *memUsers) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	u, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.ChannelProfile{ID: u.ID, Username: u.Username, Fullname: u.Fullname, Avatar: u.Avatar}, nil
}

type memVideos struct {
	ports.VideoRepository
	mu     sync.Mutex
	videos map[string]*domain.Video
}

func newMemVideos() *memVideos { return &memVideos{videos: map[string]*domain.Video{}} }

func (r *memVideos) seed(v domain.Video) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uuid.NewString()
	r.videos[v.ID] = &v
	return v.ID
}

func (r *memVideos) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

type memComments struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
}

func newMemComments() *memComments { return &memComments{comments: map[string]*domain.Comment{}} }

func (r *memComments) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.comments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memComments) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memComments) ListByVideo(ctx context.Context, videoID string, q ports.ListQuery) ([]*domain.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := min(int(q.Page.Skip()), len(all))
	end := min(start+q.Page.Size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *memComments) UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (r *memComments) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type memBlobs struct{}

func (memBlobs) Upload(ctx context.Context, file ports.Upload) (*domain.Asset, error) {
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return nil, domain.ErrUploadFailed
	}
	return &domain.Asset{URL: "https://cdn.test/" + file.Filename}, nil
}
