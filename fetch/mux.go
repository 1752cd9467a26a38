package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/projecteru2/preload/progress"
	"github.com/projecteru2/preload/types"
)

// Mux routes http(s) locators to one fetcher and everything else to another.
type Mux struct {
	HTTP  Fetcher
	Local Fetcher
}

// IsURL returns true if the locator looks like an HTTP(S) URL.
func IsURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

func (m Mux) Fetch(ctx context.Context, img *types.Image, tracker progress.Tracker) error {
	f := m.Local
	if IsURL(img.Locator) {
		f = m.HTTP
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, img.Locator)
	}
	return f.Fetch(ctx, img, tracker)
}
