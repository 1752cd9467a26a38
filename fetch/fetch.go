package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/projecteru2/preload/images"
	"github.com/projecteru2/preload/progress"
	fetchProgress "github.com/projecteru2/preload/progress/fetch"
	"github.com/projecteru2/preload/types"
)

// report every 64 KiB
const progressInterval = 64 << 10

var (
	ErrStatus      = errors.New("fetch: unexpected status")
	ErrTooLarge    = errors.New("fetch: body exceeds size limit")
	ErrNotImage    = errors.New("fetch: not a decodable image")
	ErrUnsupported = errors.New("fetch: unsupported locator")
)

// Fetcher loads one locator into memory. On success it fills the payload
// fields of img and returns nil; on failure it returns the cause and leaves
// the payload empty. Byte progress goes to tracker as fetch.Event values.
type Fetcher interface {
	Fetch(ctx context.Context, img *types.Image, tracker progress.Tracker) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, img *types.Image, tracker progress.Tracker) error

func (f FetcherFunc) Fetch(ctx context.Context, img *types.Image, tracker progress.Tracker) error {
	return f(ctx, img, tracker)
}

// ReadAll reads r into memory, at most maxBytes, hashing along the way and
// emitting progress for locator. total is the expected size or -1.
func ReadAll(r io.Reader, locator string, total, maxBytes int64, tracker progress.Tracker) ([]byte, images.Digest, error) {
	tracker = progress.OrNop(tracker)
	tracker.OnEvent(fetchProgress.Event{Locator: locator, BytesTotal: total})

	if maxBytes > 0 && total > maxBytes {
		return nil, "", fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, total, maxBytes)
	}

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	h := images.NewHasher()
	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	pw := &progressWriter{w: &buf, locator: locator, total: total, tracker: tracker}
	written, err := io.Copy(pw, io.TeeReader(src, h))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", locator, err)
	}
	if maxBytes > 0 && written > maxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	tracker.OnEvent(fetchProgress.Event{Locator: locator, BytesTotal: total, BytesDone: written, Done: true})
	return buf.Bytes(), h.Digest(), nil
}

// Fill decodes the image header of data and records payload and metadata on img.
// contentType may be empty; it is then sniffed from data.
func Fill(img *types.Image, data []byte, digest images.Digest, contentType string) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotImage, img.Locator, err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	img.Data = data
	img.Size = int64(len(data))
	img.Digest = digest
	img.ContentType = contentType
	img.Format = format
	img.Width = cfg.Width
	img.Height = cfg.Height
	return nil
}

// progressWriter wraps an io.Writer and periodically emits download progress events.
type progressWriter struct {
	w          io.Writer
	locator    string
	written    int64
	total      int64
	tracker    progress.Tracker
	lastReport int64
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)
	if pw.written-pw.lastReport >= progressInterval {
		pw.lastReport = pw.written
		pw.tracker.OnEvent(fetchProgress.Event{
			Locator:    pw.locator,
			BytesTotal: pw.total,
			BytesDone:  pw.written,
		})
	}
	return n, err
}
