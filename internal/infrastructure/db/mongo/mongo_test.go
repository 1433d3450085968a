package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

func TestSortDoc_AddsIDTieBreaker(t *testing.T) {
	got := sortDoc(domain.SortSpec{Field: "views", Desc: true})
	want := bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: -1}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("sortDoc = %v, want %v", got, want)
	}

	got = sortDoc(domain.SortSpec{})
	if got[0].Key != "created_at" || got[0].Value != 1 {
		t.Fatalf("empty sort should order by created_at ascending, got %v", got)
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(ports.ListQuery{Page: domain.NewPageRequest(3, 20)})
	if *opts.Skip != 40 || *opts.Limit != 20 {
		t.Fatalf("unexpected skip/limit: %d/%d", *opts.Skip, *opts.Limit)
	}
}

func TestObjectIDs_SkipsMalformed(t *testing.T) {
	oid := primitive.NewObjectID()
	got := objectIDs([]string{oid.Hex(), "nope", ""})
	if len(got) != 1 || got[0] != oid {
		t.Fatalf("objectIDs = %v", got)
	}
	if _, err := objectID("nope", domain.ErrNotFound); err != domain.ErrNotFound {
		t.Fatalf("malformed id must map to the given error, got %v", err)
	}
	if hex := hexIDs(got); hex[0] != oid.Hex() {
		t.Fatalf("hexIDs round trip failed: %v", hex)
	}
}

func TestEdgeToDomain(t *testing.T) {
	doc := mongoEdge{
		ID:      primitive.NewObjectID(),
		Subject: primitive.NewObjectID(),
		Kind:    string(domain.RelationLikesVideo),
		Object:  primitive.NewObjectID(),
	}
	e := doc.toDomain()
	if e.Kind != domain.RelationLikesVideo || e.Subject != doc.Subject.Hex() || e.Object != doc.Object.Hex() {
		t.Fatalf("unexpected edge: %+v", e)
	}
}
