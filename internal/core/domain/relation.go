package domain

import "time"

// RelationKind names the relation an edge represents.
type RelationKind string

const (
	RelationLikesVideo   RelationKind = "likes-video"
	RelationLikesComment RelationKind = "likes-comment"
	RelationLikesTweet   RelationKind = "likes-tweet"
	RelationSubscribesTo RelationKind = "subscribes-to"
)

// Valid reports whether k is one of the known relation kinds.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationLikesVideo, RelationLikesComment, RelationLikesTweet, RelationSubscribesTo:
		return true
	}
	return false
}

// AllowsSelf reports whether subject and object may be the same id.
func (k RelationKind) AllowsSelf() bool {
	return k != RelationSubscribesTo
}

// Edge is one active relation. Its existence is the state: there is at most
// one edge per (Subject, Kind, Object) and no flag on it.
type Edge struct {
	ID        string       `json:"id"`
	Subject   string       `json:"subject"`
	Kind      RelationKind `json:"kind"`
	Object    string       `json:"object"`
	CreatedAt time.Time    `json:"created_at"`
}

// ToggleResult reports the state of the relation after a toggle.
type ToggleResult struct {
	Active bool `json:"active"`
}
