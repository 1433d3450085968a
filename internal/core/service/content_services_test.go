package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

var (
	alice = &domain.User{ID: "alice"}
	bob   = &domain.User{ID: "bob"}
)

func strPtr(s string) *string { return &s }

func seedVideo(t *testing.T, videos *stubVideoRepo, owner string, published bool) *domain.Video {
	t.Helper()
	v, err := videos.Create(context.Background(), &domain.Video{Title: "t", Owner: owner, IsPublished: published})
	if err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return v
}

func TestCommentService_OwnershipFlow(t *testing.T) {
	videos := newStubVideoRepo()
	comments := newStubCommentRepo()
	svc := NewCommentService(comments, videos, nil, zerolog.Nop())
	ctx := context.Background()
	v := seedVideo(t, videos, "bob", true)

	c, err := svc.Add(ctx, alice, v.ID, "  first!  ")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if c.Content != "first!" || c.Owner != "alice" {
		t.Fatalf("unexpected comment: %+v", c)
	}

	if _, err := svc.Update(ctx, bob, c.ID, "hijack"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign update, got %v", err)
	}
	if err := svc.Delete(ctx, bob, c.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign delete, got %v", err)
	}
	if got, _ := svc.Get(ctx, c.ID); got.Content != "first!" {
		t.Fatalf("forbidden call mutated the comment: %+v", got)
	}

	if err := svc.Delete(ctx, alice, c.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, bob, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing comment must be 404 for anyone, got %v", err)
	}
}

func TestCommentService_Validation(t *testing.T) {
	videos := newStubVideoRepo()
	svc := NewCommentService(newStubCommentRepo(), videos, nil, zerolog.Nop())
	v := seedVideo(t, videos, "bob", true)

	if _, err := svc.Add(context.Background(), alice, v.ID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Add(context.Background(), alice, "missing", "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown video, got %v", err)
	}
}

func TestCommentService_ListPages(t *testing.T) {
	videos := newStubVideoRepo()
	svc := NewCommentService(newStubCommentRepo(), videos, nil, zerolog.Nop())
	v := seedVideo(t, videos, "bob", true)
	for i := 0; i < 25; i++ {
		if _, err := svc.Add(context.Background(), alice, v.ID, "c"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	page, err := svc.List(context.Background(), v.ID, domain.NewPageRequest(3, 10))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page.Items) != 5 || page.TotalPages != 3 || page.HasNext || !page.HasPrev {
		t.Fatalf("unexpected last page: items=%d %+v", len(page.Items), page)
	}
}

func TestTweetService_CRUD(t *testing.T) {
	svc := NewTweetService(newStubTweetRepo(), nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	tw, err := svc.Create(ctx, alice, "hello")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Update(ctx, bob, tw.ID, "x"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	updated, err := svc.Update(ctx, alice, tw.ID, "hello again")
	if err != nil || updated.Content != "hello again" {
		t.Fatalf("owner update failed: %+v %v", updated, err)
	}

	page, _ := svc.ListByUser(ctx, "alice", domain.NewPageRequest(1, 10))
	if page.TotalCount != 1 {
		t.Fatalf("expected one tweet, got %d", page.TotalCount)
	}
	if err := svc.Delete(ctx, alice, tw.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestPlaylistService_VideosAndVisibility(t *testing.T) {
	videos := newStubVideoRepo()
	svc := NewPlaylistService(newStubPlaylistRepo(), videos, zerolog.Nop())
	ctx := context.Background()
	v := seedVideo(t, videos, "bob", true)

	if _, err := svc.Create(ctx, alice, "mix", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation without description, got %v", err)
	}
	p, err := svc.Create(ctx, alice, "mix", "my mix")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(ctx, bob, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("playlist must be owner-only, got %v", err)
	}
	if _, err := svc.AddVideo(ctx, bob, p.ID, v.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	p, err = svc.AddVideo(ctx, alice, p.ID, v.ID)
	if err != nil || len(p.Videos) != 1 {
		t.Fatalf("AddVideo failed: %+v %v", p, err)
	}
	if _, err := svc.AddVideo(ctx, alice, p.ID, v.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate video, got %v", err)
	}
	if _, err := svc.AddVideo(ctx, alice, p.ID, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown video, got %v", err)
	}

	p, err = svc.RemoveVideo(ctx, alice, p.ID, v.ID)
	if err != nil || len(p.Videos) != 0 {
		t.Fatalf("RemoveVideo failed: %+v %v", p, err)
	}

	p, err = svc.Update(ctx, alice, p.ID, ports.PlaylistUpdate{Name: strPtr("  "), Description: strPtr("renamed")})
	if err != nil || p.Name != "mix" || p.Description != "renamed" {
		t.Fatalf("Update should ignore a blank name: %+v %v", p, err)
	}
}

func TestVideoService_PublishAndGet(t *testing.T) {
	videos := newStubVideoRepo()
	users := newStubUserRepo()
	users.put(&domain.User{ID: "alice", Username: "alice"})
	users.put(&domain.User{ID: "bob", Username: "bob"})
	views := &stubViewDeduper{}
	svc := NewVideoService(videos, users, &stubBlobStore{}, views, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Publish(ctx, alice, ports.PublishVideoInput{Title: "t", Description: "d"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation without a file, got %v", err)
	}
	v, err := svc.Publish(ctx, alice, ports.PublishVideoInput{
		Title:       "Cats",
		Description: "cats",
		VideoFile:   &ports.Upload{Filename: "cats.mp4", Body: strings.NewReader("mp4")},
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if v.VideoFile != "https://cdn.test/cats.mp4" || v.Duration != 42 || !v.IsPublished {
		t.Fatalf("unexpected video: %+v", v)
	}

	got, err := svc.Get(ctx, v.ID, bob, "")
	if err != nil || got.Views != 1 {
		t.Fatalf("first view not counted: %+v %v", got, err)
	}
	got, _ = svc.Get(ctx, v.ID, bob, "")
	if got.Views != 1 {
		t.Fatalf("repeated view by the same viewer counted twice: %d", got.Views)
	}
	got, _ = svc.Get(ctx, v.ID, nil, "203.0.113.7")
	if got.Views != 2 {
		t.Fatalf("anonymous view not counted: %d", got.Views)
	}
	stored, _ := users.FindByID(ctx, "bob")
	if len(stored.WatchHistory) != 2 {
		t.Fatalf("watch history not recorded: %v", stored.WatchHistory)
	}
}

func TestVideoService_DedupFailureStillCounts(t *testing.T) {
	videos := newStubVideoRepo()
	svc := NewVideoService(videos, newStubUserRepo(), &stubBlobStore{}, &stubViewDeduper{err: errors.New("redis down")}, nil, zerolog.Nop())
	v := seedVideo(t, videos, "alice", true)

	got, err := svc.Get(context.Background(), v.ID, nil, "anon")
	if err != nil || got.Views != 1 {
		t.Fatalf("view must count when dedup is unavailable: %+v %v", got, err)
	}
}

func TestVideoService_UnpublishedHiddenFromOthers(t *testing.T) {
	videos := newStubVideoRepo()
	users := newStubUserRepo()
	users.put(&domain.User{ID: "alice"})
	svc := NewVideoService(videos, users, &stubBlobStore{}, nil, nil, zerolog.Nop())
	ctx := context.Background()
	v := seedVideo(t, videos, "alice", true)

	if _, err := svc.TogglePublish(ctx, bob, v.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	toggled, err := svc.TogglePublish(ctx, alice, v.ID)
	if err != nil || toggled.IsPublished {
		t.Fatalf("TogglePublish failed: %+v %v", toggled, err)
	}

	if _, err := svc.Get(ctx, v.ID, bob, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unpublished video visible to non-owner: %v", err)
	}
	if _, err := svc.Get(ctx, v.ID, alice, ""); err != nil {
		t.Fatalf("owner cannot see own draft: %v", err)
	}

	page, _ := svc.List(ctx, ports.ListVideosInput{Page: domain.NewPageRequest(1, 10)})
	if page.TotalCount != 0 {
		t.Fatalf("unpublished video listed publicly")
	}
}

func TestVideoService_UpdateAndDelete(t *testing.T) {
	videos := newStubVideoRepo()
	blobs := &stubBlobStore{}
	svc := NewVideoService(videos, newStubUserRepo(), blobs, nil, nil, zerolog.Nop())
	ctx := context.Background()
	v := seedVideo(t, videos, "alice", true)

	if _, err := svc.Update(ctx, alice, v.ID, ports.UpdateVideoInput{Title: strPtr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
	updated, err := svc.Update(ctx, alice, v.ID, ports.UpdateVideoInput{
		Title:     strPtr("New"),
		Thumbnail: &ports.Upload{Filename: "thumb.jpg"},
	})
	if err != nil || updated.Title != "New" || updated.Thumbnail != "https://cdn.test/thumb.jpg" {
		t.Fatalf("Update failed: %+v %v", updated, err)
	}

	if err := svc.Delete(ctx, bob, v.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, alice, v.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, alice, v.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
