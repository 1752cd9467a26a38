package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/fetch"
	"github.com/projecteru2/preload/progress"
	"github.com/projecteru2/preload/types"
)

var _ fetch.Fetcher = (*Fetcher)(nil)

// Fetcher reads local paths and file:// URLs into memory.
type Fetcher struct {
	maxBytes int64
}

// New creates a local file fetcher.
func New(conf config.FetchConfig) *Fetcher {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxBytes
	}
	return &Fetcher{maxBytes: maxBytes}
}

func (f *Fetcher) Fetch(ctx context.Context, img *types.Image, tracker progress.Tracker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := Path(img.Locator)
	if err != nil {
		return err
	}

	fd, err := os.Open(path) //nolint:gosec // caller-supplied image path
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer fd.Close() //nolint:errcheck

	info, err := fd.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", fetch.ErrUnsupported, path)
	}

	data, digest, err := fetch.ReadAll(fd, img.Locator, info.Size(), f.maxBytes, tracker)
	if err != nil {
		return err
	}
	return fetch.Fill(img, data, digest, "")
}

// Path turns a locator into a filesystem path. Plain paths pass through;
// file:// URLs are decoded; any other scheme is rejected.
func Path(locator string) (string, error) {
	if !strings.Contains(locator, "://") {
		return locator, nil
	}
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", locator, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: scheme %q", fetch.ErrUnsupported, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote file host %q", fetch.ErrUnsupported, u.Host)
	}
	return u.Path, nil
}
