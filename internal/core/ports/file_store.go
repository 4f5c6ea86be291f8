package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded files and exposes their public URL paths.
type FileStore interface {
	// Save writes r under kind (e.g. "screenshots", "avatars", "resumes")
	// with a collision-free name derived from filename, returning the public
	// URL path of the stored file.
	Save(ctx context.Context, kind, filename string, r io.Reader) (string, error)
	// Remove deletes the file behind a previously returned URL path. Removing
	// a missing file is not an error.
	Remove(ctx context.Context, urlPath string) error
}
