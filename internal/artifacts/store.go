// Package artifacts writes downloaded job outputs to disk.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const tempPattern = ".clipper-tmp-*"

// Save streams r into dest through a temp file in the same directory and renames it
// into place, so dest is either absent or complete. It returns the bytes written.
func Save(ctx context.Context, dest string, r io.Reader) (int64, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return 0, errors.New("destination path is required")
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create parent for %s: %w", dest, err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, fmt.Errorf("create temp file for %s: %w", dest, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return n, fmt.Errorf("write temp file for %s: %w", dest, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return n, fmt.Errorf("chmod temp file for %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return n, fmt.Errorf("close temp file for %s: %w", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		cleanup()
		return n, fmt.Errorf("atomic rename for %s: %w", dest, err)
	}
	return n, nil
}

// DefaultName picks a local file name for an artifact link: the link's base name when
// it has one, otherwise <jobID><fallbackExt>.
func DefaultName(link, jobID, fallbackExt string) string {
	clean := link
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	base := path.Base(strings.TrimSpace(clean))
	if base == "" || base == "." || base == "/" {
		return sanitize(jobID) + fallbackExt
	}
	if path.Ext(base) == "" {
		base += fallbackExt
	}
	return sanitize(base)
}

func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "artifact"
	}
	return name
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
