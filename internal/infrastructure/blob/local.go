// Package blob stores uploaded media on the local filesystem and serves it
// under a public base URL.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// maxUploadBytes bounds a single stored object.
const maxUploadBytes = 512 << 20

type LocalStore struct {
	dir     string
	baseURL string
	log     zerolog.Logger
}

// NewLocalStore creates dir if needed and returns a store publishing objects
// under baseURL.
func NewLocalStore(dir, baseURL string, log zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), log: log}, nil
}

// Upload copies file.Body into a new uniquely named object. The stored name
// keeps a readable form of the original filename. Duration is left at zero:
// the local store does not probe media.
func (s *LocalStore) Upload(ctx context.Context, file ports.Upload) (*domain.Asset, error) {
	if file.Body == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrUploadFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	name := objectName(file.Filename)
	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	n, err := io.Copy(f, io.LimitReader(file.Body, maxUploadBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxUploadBytes {
		err = fmt.Errorf("object exceeds %d bytes", maxUploadBytes)
	}
	if err != nil {
		_ = os.Remove(dst)
		s.log.Warn().Err(err).Str("filename", file.Filename).Msg("upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	s.log.Debug().Str("object", name).Int64("bytes", n).Msg("object stored")
	return &domain.Asset{URL: s.baseURL + "/" + name}, nil
}

// objectName is <uuid>-<slug><ext>, where slug is an ASCII rendering of the
// original base name.
func objectName(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug(strings.TrimSuffix(base, filepath.Ext(base)))
	if !validExt(ext) {
		ext = ""
	}
	if stem == "" {
		return uuid.NewString() + ext
	}
	return uuid.NewString() + "-" + stem + ext
}

func slug(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	s, _, _ = transform.String(t, s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	return s
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
