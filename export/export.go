package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/preload/lock"
	"github.com/projecteru2/preload/lock/flock"
	"github.com/projecteru2/preload/preload"
	"github.com/projecteru2/preload/types"
	"github.com/projecteru2/preload/utils"
)

const (
	ManifestFile = "manifest.json"
	lockFile     = ".preload.lock"
)

// Manifest describes one exported session.
type Manifest struct {
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Loaded    int       `json:"loaded"`
	Failed    int       `json:"failed"`
	Images    []Entry   `json:"images"`
}

// Entry is one locator of the session, in submission order.
type Entry struct {
	*types.Image
	Status string `json:"status"` // "loaded" or "failed"
	File   string `json:"file,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Write stores every loaded image of res in dir as <sha256>.<format> and
// replaces dir/manifest.json. The directory is locked for the duration so
// concurrent exports into the same place do not interleave. Blobs are
// content addressed; one that already exists with content is left alone.
func Write(ctx context.Context, dir string, res preload.Result) (*Manifest, error) {
	if err := utils.EnsureDirs(dir); err != nil {
		return nil, err
	}
	var m *Manifest
	err := lock.WithLock(ctx, flock.New(filepath.Join(dir, lockFile)), func() error {
		var err error
		m, err = write(ctx, dir, res)
		return err
	})
	return m, err
}

func write(ctx context.Context, dir string, res preload.Result) (*Manifest, error) {
	logger := log.WithFunc("export.Write")
	m := &Manifest{
		CreatedAt: time.Now().UTC(),
		Total:     len(res.All),
		Loaded:    len(res.Loaded),
		Failed:    len(res.Failed),
		Images:    make([]Entry, 0, len(res.All)),
	}

	for _, img := range res.All {
		entry := Entry{Image: img, Status: "loaded"}
		if !img.Loaded() {
			entry.Status = "failed"
			entry.Error = img.Err.Error()
			m.Images = append(m.Images, entry)
			continue
		}
		entry.File = BlobName(img)
		path := filepath.Join(dir, entry.File)
		if utils.ValidFile(path) {
			logger.Debugf(ctx, "blob %s already exported, skipping", entry.File)
		} else if err := utils.AtomicWriteFile(path, img.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", img.Locator, err)
		}
		m.Images = append(m.Images, entry)
	}

	if err := utils.AtomicWriteJSON(filepath.Join(dir, ManifestFile), m); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	logger.Infof(ctx, "exported %d/%d images to %s", m.Loaded, m.Total, dir)
	return m, nil
}

// BlobName is the file name a loaded image is exported under.
func BlobName(img *types.Image) string {
	ext := img.Format
	if ext == "" {
		ext = "bin"
	}
	return img.Digest.Hex() + "." + ext
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	var m Manifest
	if err := utils.ReadJSON(filepath.Join(dir, ManifestFile), &m); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return &m, nil
}
