package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

type aggregatorFixture struct {
	users  *stubUserRepo
	videos *stubVideoRepo
	edges  *stubEdgeRepo
	agg    *Aggregator
}

func newAggregatorFixture() *aggregatorFixture {
	users := newStubUserRepo()
	videos := newStubVideoRepo()
	edges := newStubEdgeRepo()
	videos.edges = edges
	return &aggregatorFixture{
		users:  users,
		videos: videos,
		edges:  edges,
		agg:    NewAggregator(users, videos, edges, zerolog.Nop()),
	}
}

func TestAggregator_ChannelStats(t *testing.T) {
	f := newAggregatorFixture()
	ctx := context.Background()
	joined := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	f.users.put(&domain.User{ID: "c1", Username: "chan", CreatedAt: joined})

	_, _ = f.videos.Create(ctx, &domain.Video{Owner: "c1", Views: 10, IsPublished: true})
	_, _ = f.videos.Create(ctx, &domain.Video{Owner: "c1", Views: 5})
	_, _ = f.videos.Create(ctx, &domain.Video{Owner: "other", Views: 100})

	engine := NewRelationEngine(f.edges, zerolog.Nop())
	for _, sub := range []string{"u1", "u2", "u3"} {
		_, _ = engine.Toggle(ctx, sub, domain.RelationSubscribesTo, "c1")
	}
	_, _ = engine.Toggle(ctx, "u3", domain.RelationSubscribesTo, "c1")

	stats, err := f.agg.ChannelStats(ctx, "c1")
	if err != nil {
		t.Fatalf("ChannelStats returned error: %v", err)
	}
	if stats.SubscriberCount != 2 {
		t.Fatalf("expected 2 subscribers, got %d", stats.SubscriberCount)
	}
	if stats.VideoCount != 2 {
		t.Fatalf("expected 2 videos, got %d", stats.VideoCount)
	}
	if stats.TotalViews != 15 {
		t.Fatalf("expected 15 views, got %d", stats.TotalViews)
	}
	if !stats.JoinedAt.Equal(joined) || stats.Channel.Username != "chan" {
		t.Fatalf("channel identity not carried: %+v", stats)
	}
}

func TestAggregator_ChannelStats_UnknownChannel(t *testing.T) {
	f := newAggregatorFixture()
	if _, err := f.agg.ChannelStats(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.agg.ChannelStats(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAggregator_ChannelVideos_PublishedOnlyAndSorted(t *testing.T) {
	f := newAggregatorFixture()
	ctx := context.Background()
	f.users.put(&domain.User{ID: "c1", Username: "chan"})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, views := range []int64{3, 9, 1} {
		_, _ = f.videos.Create(ctx, &domain.Video{
			Owner:       "c1",
			Views:       views,
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	_, _ = f.videos.Create(ctx, &domain.Video{Owner: "c1", Views: 1000, IsPublished: false})

	page, err := f.agg.ChannelVideos(ctx, "c1", domain.VideoSortPopular, domain.NewPageRequest(1, 2))
	if err != nil {
		t.Fatalf("ChannelVideos returned error: %v", err)
	}
	if page.TotalCount != 3 || page.TotalPages != 2 || !page.HasNext || page.HasPrev {
		t.Fatalf("unexpected page arithmetic: %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0].Views != 9 || page.Items[1].Views != 3 {
		t.Fatalf("expected most viewed first, got %+v", page.Items)
	}

	page, _ = f.agg.ChannelVideos(ctx, "c1", domain.VideoSortOldest, domain.NewPageRequest(1, 10))
	if page.Items[0].Views != 3 {
		t.Fatalf("expected oldest first, got %+v", page.Items[0])
	}
}

func TestAggregator_ChannelVideosMostLiked(t *testing.T) {
	f := newAggregatorFixture()
	ctx := context.Background()
	f.users.put(&domain.User{ID: "c1", Username: "chan"})
	engine := NewRelationEngine(f.edges, zerolog.Nop())

	var ids []string
	for i, likers := range [][]string{{"u1"}, {"u1", "u2", "u3"}, {}, {"u2", "u3"}} {
		v, _ := f.videos.Create(ctx, &domain.Video{
			Owner:       "c1",
			Views:       int64(100 - i),
			IsPublished: true,
		})
		ids = append(ids, v.ID)
		for _, u := range likers {
			_, _ = engine.Toggle(ctx, u, domain.RelationLikesVideo, v.ID)
		}
	}

	page, err := f.agg.ChannelVideos(ctx, "c1", domain.VideoSortMostLiked, domain.NewPageRequest(1, 3))
	if err != nil {
		t.Fatalf("ChannelVideos returned error: %v", err)
	}
	if page.TotalCount != 4 || !page.HasNext {
		t.Fatalf("unexpected page arithmetic: %+v", page)
	}
	got := []string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID}
	want := []string{ids[1], ids[3], ids[0]}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected most liked first: got %v want %v", got, want)
		}
	}
}
