package ports

import (
	"context"
	"io"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// Upload is a file received from the client, not yet stored.
type Upload struct {
	Filename string
	Body     io.Reader
}

// BlobStore stores binary media and hands back a public URL. Failures are
// reported wrapped in domain.ErrUploadFailed.
type BlobStore interface {
	Upload(ctx context.Context, file Upload) (*domain.Asset, error)
}
