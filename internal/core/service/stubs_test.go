package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	findErr error // if set, FindByID returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.WatchHistory = append([]string(nil), u.WatchHistory...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == login || u.Email == login {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.FindByLogin(ctx, username)
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindSummaries(_ context.Context, ids []string) (map[string]domain.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *stubUserRepo) RotateRefreshToken(_ context.Context, id, presented, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.RefreshToken != presented {
		return false, nil
	}
	u.RefreshToken = next
	return true, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) mutate(id string, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateAccount(_ context.Context, id, fullname, email string) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) { u.Fullname, u.Email = fullname, email })
}

func (r *stubUserRepo) UpdateAvatar(_ context.Context, id, url string) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) { u.Avatar = url })
}

func (r *stubUserRepo) UpdateCoverImage(_ context.Context, id, url string) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) { u.CoverImage = url })
}

func (r *stubUserRepo) PushWatchHistory(_ context.Context, id, videoID string) error {
	_, err := r.mutate(id, func(u *domain.User) { u.WatchHistory = append(u.WatchHistory, videoID) })
	return err
}

func (r *stubUserRepo) WatchHistory(_ context.Context, id string) ([]domain.WatchedVideo, error) {
	return []domain.WatchedVideo{}, nil
}

func (r *stubUserRepo) ChannelProfile(_ context.Context, username, _ string) (*domain.ChannelProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return &domain.ChannelProfile{ID: u.ID, Username: u.Username}, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// stubEdgeRepo enforces the (subject, kind, object) uniqueness the real
// collection gets from its compound index.
type stubEdgeRepo struct {
	mu        sync.Mutex
	edges     map[string]*domain.Edge
	seq       int
	hideFinds bool // if set, Find always misses, forcing the insert path
}

func newStubEdgeRepo() *stubEdgeRepo {
	return &stubEdgeRepo{edges: make(map[string]*domain.Edge)}
}

func edgeKey(subject string, kind domain.RelationKind, object string) string {
	return subject + "|" + string(kind) + "|" + object
}

func (r *stubEdgeRepo) Find(_ context.Context, subject string, kind domain.RelationKind, object string) (*domain.Edge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideFinds {
		return nil, domain.ErrNotFound
	}
	e, ok := r.edges[edgeKey(subject, kind, object)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEdgeRepo) Insert(_ context.Context, e *domain.Edge) (*domain.Edge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := edgeKey(e.Subject, e.Kind, e.Object)
	if _, ok := r.edges[key]; ok {
		return nil, domain.ErrEdgeExists
	}
	r.seq++
	clone := *e
	clone.ID = fmt.Sprintf("e%d", r.seq)
	r.edges[key] = &clone
	out := clone
	return &out, nil
}

func (r *stubEdgeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.edges {
		if e.ID == id {
			delete(r.edges, k)
		}
	}
	return nil
}

func (r *stubEdgeRepo) DeleteByObject(_ context.Context, kind domain.RelationKind, object string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, e := range r.edges {
		if e.Kind == kind && e.Object == object {
			delete(r.edges, k)
			n++
		}
	}
	return n, nil
}

func (r *stubEdgeRepo) filter(match func(*domain.Edge) bool) []*domain.Edge {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Edge
	for _, e := range r.edges {
		if match(e) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *stubEdgeRepo) CountByObject(_ context.Context, kind domain.RelationKind, object string) (int64, error) {
	return int64(len(r.filter(func(e *domain.Edge) bool { return e.Kind == kind && e.Object == object }))), nil
}

func (r *stubEdgeRepo) CountBySubject(_ context.Context, kind domain.RelationKind, subject string) (int64, error) {
	return int64(len(r.filter(func(e *domain.Edge) bool { return e.Kind == kind && e.Subject == subject }))), nil
}

func (r *stubEdgeRepo) ListByObject(_ context.Context, kind domain.RelationKind, object string, page domain.PageRequest) ([]*domain.Edge, int64, error) {
	all := r.filter(func(e *domain.Edge) bool { return e.Kind == kind && e.Object == object })
	return window(all, page), int64(len(all)), nil
}

func (r *stubEdgeRepo) ListBySubject(_ context.Context, kind domain.RelationKind, subject string, page domain.PageRequest) ([]*domain.Edge, int64, error) {
	all := r.filter(func(e *domain.Edge) bool { return e.Kind == kind && e.Subject == subject })
	return window(all, page), int64(len(all)), nil
}

func window[T any](all []T, page domain.PageRequest) []T {
	start := int(page.Skip())
	if start >= len(all) {
		return []T{}
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

type stubVideoRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Video
	seq  int
	// edges, when set, backs the likes ordering.
	edges *stubEdgeRepo
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{byID: make(map[string]*domain.Video)}
}

func (r *stubVideoRepo) Create(_ context.Context, v *domain.Video) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *v
	if clone.ID == "" {
		r.seq++
		clone.ID = fmt.Sprintf("v%d", r.seq)
	}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVideoRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Video, error) {
	var out []*domain.Video
	for _, id := range ids {
		if v, err := r.FindByID(ctx, id); err == nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVideoRepo) List(_ context.Context, f ports.VideoFilter) ([]*domain.Video, int64, error) {
	r.mu.Lock()
	var matched []*domain.Video
	for _, v := range r.byID {
		if f.Owner != "" && v.Owner != f.Owner {
			continue
		}
		if f.PublishedOnly && !v.IsPublished {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(v.Title+" "+v.Description), strings.ToLower(f.Search)) {
			continue
		}
		clone := *v
		matched = append(matched, &clone)
	}
	r.mu.Unlock()

	less := func(a, b *domain.Video) bool {
		switch f.Query.Sort.Field {
		case "views":
			return a.Views < b.Views
		case "title":
			return a.Title < b.Title
		case domain.SortFieldLikes:
			return r.likes(a.ID) < r.likes(b.ID)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if f.Query.Sort.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return window(matched, f.Query.Page), int64(len(matched)), nil
}

func (r *stubVideoRepo) likes(id string) int64 {
	if r.edges == nil {
		return 0
	}
	n, _ := r.edges.CountByObject(context.Background(), domain.RelationLikesVideo, id)
	return n
}

func (r *stubVideoRepo) Update(_ context.Context, id string, upd ports.VideoUpdate) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		v.Title = *upd.Title
	}
	if upd.Description != nil {
		v.Description = *upd.Description
	}
	if upd.Thumbnail != nil {
		v.Thumbnail = *upd.Thumbnail
	}
	if upd.IsPublished != nil {
		v.IsPublished = *upd.IsPublished
	}
	clone := *v
	return &clone, nil
}

func (r *stubVideoRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *stubVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubVideoRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.byID {
		if v.Owner == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubVideoRepo) SumViewsByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.byID {
		if v.Owner == ownerID {
			n += v.Views
		}
	}
	return n, nil
}

type stubCommentRepo struct {
	byID map[string]*domain.Comment
	seq  int
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byID: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) ListByVideo(_ context.Context, videoID string, q ports.ListQuery) ([]*domain.Comment, int64, error) {
	var all []*domain.Comment
	for _, c := range r.byID {
		if c.VideoID == videoID {
			clone := *c
			all = append(all, &clone)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, q.Page), int64(len(all)), nil
}

func (r *stubCommentRepo) UpdateContent(_ context.Context, id, content string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Content = content
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubTweetRepo struct {
	byID map[string]*domain.Tweet
	seq  int
}

func newStubTweetRepo() *stubTweetRepo {
	return &stubTweetRepo{byID: make(map[string]*domain.Tweet)}
}

func (r *stubTweetRepo) Create(_ context.Context, t *domain.Tweet) (*domain.Tweet, error) {
	r.seq++
	clone := *t
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTweetRepo) FindByID(_ context.Context, id string) (*domain.Tweet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTweetRepo) ListByOwner(_ context.Context, ownerID string, q ports.ListQuery) ([]*domain.Tweet, int64, error) {
	var all []*domain.Tweet
	for _, t := range r.byID {
		if t.Owner == ownerID {
			clone := *t
			all = append(all, &clone)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, q.Page), int64(len(all)), nil
}

func (r *stubTweetRepo) UpdateContent(_ context.Context, id, content string) (*domain.Tweet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Content = content
	clone := *t
	return &clone, nil
}

func (r *stubTweetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubPlaylistRepo struct {
	byID map[string]*domain.Playlist
	seq  int
}

func newStubPlaylistRepo() *stubPlaylistRepo {
	return &stubPlaylistRepo{byID: make(map[string]*domain.Playlist)}
}

func clonePlaylist(p *domain.Playlist) *domain.Playlist {
	clone := *p
	clone.Videos = append([]string{}, p.Videos...)
	return &clone
}

func (r *stubPlaylistRepo) Create(_ context.Context, p *domain.Playlist) (*domain.Playlist, error) {
	r.seq++
	clone := clonePlaylist(p)
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.byID[clone.ID] = clone
	return clonePlaylist(clone), nil
}

func (r *stubPlaylistRepo) FindByID(_ context.Context, id string) (*domain.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePlaylist(p), nil
}

func (r *stubPlaylistRepo) ListByOwner(_ context.Context, ownerID string, q ports.ListQuery) ([]*domain.Playlist, int64, error) {
	var all []*domain.Playlist
	for _, p := range r.byID {
		if p.Owner == ownerID {
			all = append(all, clonePlaylist(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, q.Page), int64(len(all)), nil
}

func (r *stubPlaylistRepo) Update(_ context.Context, id string, upd ports.PlaylistUpdate) (*domain.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	return clonePlaylist(p), nil
}

func (r *stubPlaylistRepo) AddVideo(_ context.Context, id, videoID string) (*domain.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !p.Contains(videoID) {
		p.Videos = append(p.Videos, videoID)
	}
	return clonePlaylist(p), nil
}

func (r *stubPlaylistRepo) RemoveVideo(_ context.Context, id, videoID string) (*domain.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	kept := p.Videos[:0]
	for _, v := range p.Videos {
		if v != videoID {
			kept = append(kept, v)
		}
	}
	p.Videos = kept
	return clonePlaylist(p), nil
}

func (r *stubPlaylistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubBlobStore drains uploads and hands back a predictable URL.
type stubBlobStore struct {
	uploads int
	err     error
}

func (s *stubBlobStore) Upload(_ context.Context, file ports.Upload) (*domain.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	if file.Body != nil {
		_, _ = io.Copy(io.Discard, file.Body)
	}
	s.uploads++
	return &domain.Asset{URL: "https://cdn.test/" + file.Filename, Duration: 42}, nil
}

type stubViewDeduper struct {
	seen map[string]bool
	err  error
}

func (d *stubViewDeduper) MarkView(_ context.Context, videoID, viewerKey string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	key := videoID + "|" + viewerKey
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}
