package fetch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/preload/images"
	"github.com/projecteru2/preload/internal/testutils"
	"github.com/projecteru2/preload/progress"
	fetchProgress "github.com/projecteru2/preload/progress/fetch"
	"github.com/projecteru2/preload/types"
)

func TestReadAll(t *testing.T) {
	data := bytes.Repeat([]byte{1}, 3*progressInterval+10)
	var events []fetchProgress.Event
	tracker := progress.NewTracker(func(e fetchProgress.Event) { events = append(events, e) })

	got, digest, err := ReadAll(bytes.NewReader(data), "loc", int64(len(data)), 0, tracker)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, images.DigestOf(data), digest)

	require.GreaterOrEqual(t, len(events), 3)
	assert.Zero(t, events[0].BytesDone)
	last := events[len(events)-1]
	assert.True(t, last.Done)
	assert.Equal(t, int64(len(data)), last.BytesDone)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].BytesDone, events[i-1].BytesDone)
	}
}

func TestReadAllTooLarge(t *testing.T) {
	_, _, err := ReadAll(strings.NewReader("0123456789"), "loc", -1, 5, nil)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, err = ReadAll(strings.NewReader("0123456789"), "loc", 10, 5, nil)
	assert.ErrorIs(t, err, ErrTooLarge)

	got, _, err := ReadAll(strings.NewReader("01234"), "loc", -1, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(got))
}

func TestFill(t *testing.T) {
	data := testutils.PNG(t, 3, 2)
	img := &types.Image{Locator: "a.png"}
	require.NoError(t, Fill(img, data, images.DigestOf(data), ""))
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len(data)), img.Size)

	bad := &types.Image{Locator: "a.txt"}
	err := Fill(bad, []byte("hello"), "", "")
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, bad.Data)
}

func TestMux(t *testing.T) {
	var routed []string
	mk := func(name string) Fetcher {
		return FetcherFunc(func(_ context.Context, _ *types.Image, _ progress.Tracker) error {
			routed = append(routed, name)
			return nil
		})
	}
	m := Mux{HTTP: mk("http"), Local: mk("local")}
	ctx := context.Background()

	require.NoError(t, m.Fetch(ctx, &types.Image{Locator: "https://x/a.png"}, nil))
	require.NoError(t, m.Fetch(ctx, &types.Image{Locator: "/tmp/a.png"}, nil))
	assert.Equal(t, []string{"http", "local"}, routed)

	err := Mux{}.Fetch(ctx, &types.Image{Locator: "http://x"}, nil)
	assert.True(t, errors.Is(err, ErrUnsupported))
}
