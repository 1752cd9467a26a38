package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/fetch"
	"github.com/projecteru2/preload/progress"
	"github.com/projecteru2/preload/types"
)

var _ fetch.Fetcher = (*Fetcher)(nil)

// Fetcher GETs images over HTTP(S) into memory.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	headers  map[string]string
	agent    string
}

// New builds a Fetcher from the fetch section of the config. client may be
// nil, in which case a client with conf.Timeout is used.
func New(conf config.FetchConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: conf.Timeout}
	}
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxBytes
	}
	return &Fetcher{
		client:   client,
		maxBytes: maxBytes,
		headers:  conf.Headers,
		agent:    conf.UserAgent,
	}
}

// Fetch downloads img.Locator. Non-200 responses, oversized bodies and bodies
// that are not a decodable image all fail the load.
func (f *Fetcher) Fetch(ctx context.Context, img *types.Image, tracker progress.Tracker) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.Locator, nil)
	if err != nil {
		return fmt.Errorf("create HTTP request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.agent != "" {
		req.Header.Set("User-Agent", f.agent)
	}
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", img.Locator, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP GET %s: %w: %s", img.Locator, fetch.ErrStatus, resp.Status)
	}

	data, digest, err := fetch.ReadAll(resp.Body, img.Locator, resp.ContentLength, f.maxBytes, tracker)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", img.Locator, err)
	}
	if err := fetch.Fill(img, data, digest, resp.Header.Get("Content-Type")); err != nil {
		return err
	}
	log.WithFunc("http.Fetch").Debugf(ctx, "fetched %s: %s %dx%d, %d bytes in %s",
		img.Locator, img.Format, img.Width, img.Height, img.Size, time.Since(start))
	return nil
}
