// Package storage persists uploaded files on local disk, under a directory
// the HTTP layer serves statically at /uploads/.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// URLPrefix is the public path prefix uploaded files are served under.
const URLPrefix = "/uploads"

// Local is a ports.FileStore backed by a directory on disk. Stored names are
// derived from a fresh xid so concurrent uploads of same-named files never
// collide.
type Local struct {
	dir string
}

// NewLocal creates (if needed) the base upload directory and returns a store
// rooted at it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save streams r into <dir>/<kind>/<xid><ext> and returns the public URL path.
func (l *Local) Save(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kind = sanitize(kind)
	if err := os.MkdirAll(filepath.Join(l.dir, kind), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	name := xid.New().String() + strings.ToLower(filepath.Ext(filename))
	dst := filepath.Join(l.dir, kind, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return path.Join(URLPrefix, kind, name), nil
}

// Remove deletes the file behind a previously returned URL path. A missing
// file is not an error.
func (l *Local) Remove(ctx context.Context, urlPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel := strings.TrimPrefix(urlPath, URLPrefix)
	rel = strings.TrimPrefix(rel, "/")
	// Reject anything trying to walk out of the upload root.
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// Dir returns the base directory, for mounting as a static route.
func (l *Local) Dir() string {
	return l.dir
}

func sanitize(kind string) string {
	kind = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, strings.ToLower(kind))
	if kind == "" {
		kind = "misc"
	}
	return kind
}
