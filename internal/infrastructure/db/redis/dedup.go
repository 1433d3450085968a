package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewWindow = time.Hour

// ViewDeduper counts a video view at most once per viewer per window.
// Key format: views:<video_id>:<viewer_key>
type ViewDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewViewDeduper creates a ViewDeduper wrapping the given Redis client. A
// non-positive window falls back to one hour.
func NewViewDeduper(client *redis.Client, window time.Duration) *ViewDeduper {
	if window <= 0 {
		window = viewWindow
	}
	return &ViewDeduper{client: client, window: window}
}

// MarkView records the view and reports whether it is the first one from
// viewerKey inside the current window.
func (d *ViewDeduper) MarkView(ctx context.Context, videoID, viewerKey string) (bool, error) {
	first, err := d.client.SetNX(ctx, d.key(videoID, viewerKey), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup: %w", err)
	}
	return first, nil
}

func (d *ViewDeduper) key(videoID, viewerKey string) string {
	return fmt.Sprintf("views:%s:%s", videoID, viewerKey)
}
