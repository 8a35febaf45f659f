// Package avatar stores user profile images and hands back a public URL for
// each stored image.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrUnsupportedType is returned for content types outside the small
	// allow-list of web image formats.
	ErrUnsupportedType = errors.New("avatar: unsupported content type")

	// ErrTooLarge is returned when the upload exceeds MaxSize.
	ErrTooLarge = errors.New("avatar: image too large")
)

// MaxSize caps avatar uploads at 5 MiB.
const MaxSize = 5 << 20

// Store persists avatar images. Implementations return the public URL the
// stored image is served from.
type Store interface {
	// Put stores the image for the user, replacing any previous avatar, and
	// returns its public URL. The content type must be one of the supported
	// image formats.
	Put(ctx context.Context, userID, contentType string, r io.Reader) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FSStore writes avatars to a local directory served as static files.
type FSStore struct {
	// Dir is the directory images are written into.
	Dir string

	// BasePath is the URL path prefix the directory is served under,
	// e.g. "/static/avatars".
	BasePath string
}

// NewFSStore creates the backing directory if needed.
func NewFSStore(dir, basePath string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &FSStore{Dir: dir, BasePath: basePath}, nil
}

func (s *FSStore) Put(ctx context.Context, userID, contentType string, r io.Reader) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	// Write to a temp file first so a failed upload never clobbers the
	// current avatar.
	tmp, err := os.CreateTemp(s.Dir, "upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(r, MaxSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if n > MaxSize {
		return "", ErrTooLarge
	}

	name := userID + ext
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", err
	}

	// Stale images in other formats would shadow nothing but waste disk.
	for t, e := range extensions {
		if t == contentType {
			continue
		}
		_ = os.Remove(filepath.Join(s.Dir, userID+e))
	}

	return s.BasePath + "/" + name, nil
}
