package types

import "github.com/projecteru2/preload/images"

// Image is the handle for one locator submitted to a preload session.
// Fields past Locator are filled by the fetcher when the load settles;
// Err is non-nil exactly when the load failed.
type Image struct {
	Index   int    `json:"index"`
	Locator string `json:"locator"`

	Data        []byte        `json:"-"`
	Size        int64         `json:"size,omitempty"`
	Digest      images.Digest `json:"digest,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Format      string        `json:"format,omitempty"` // png, jpeg, gif
	Width       int           `json:"width,omitempty"`
	Height      int           `json:"height,omitempty"`

	Err error `json:"-"`
}

// NewImages builds one handle per locator, preserving submission order.
func NewImages(locators []string) []*Image {
	imgs := make([]*Image, len(locators))
	for i, loc := range locators {
		imgs[i] = &Image{Index: i, Locator: loc}
	}
	return imgs
}

// Loaded reports whether the image settled successfully.
func (i *Image) Loaded() bool {
	return i.Err == nil
}
