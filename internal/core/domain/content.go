package domain

import "time"

// Comment is a remark left by a user on a video.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"video"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) OwnerID() string { return c.Owner }

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tweet) OwnerID() string { return t.Owner }

// Playlist is an ordered, owner-curated list of video ids.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Videos      []string  `json:"videos"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Playlist) OwnerID() string { return p.Owner }

// Contains reports whether videoID is already part of the playlist.
func (p *Playlist) Contains(videoID string) bool {
	for _, v := range p.Videos {
		if v == videoID {
			return true
		}
	}
	return false
}

// Video is an uploaded media item. Views is a plain counter incremented on read.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"video_file"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *Video) OwnerID() string { return v.Owner }

// Asset is the result of a blob upload.
type Asset struct {
	URL      string
	Duration float64
}
