package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdcore "github.com/projecteru2/preload/cmd/core"
	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/export"
	"github.com/projecteru2/preload/internal/testutils"
)

// execute runs the fetch command with the log presenter and no idle wait,
// returning what it printed.
func execute(ctx context.Context, args ...string) (string, error) {
	conf := config.DefaultConfig()
	cmd := Command(Handler{BaseHandler: cmdcore.BaseHandler{ConfProvider: func() *config.Config { return conf }}})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--no-tui", "--idle", "0s"}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestFetchMixedResults(t *testing.T) {
	srv := testutils.ImageServer(t, map[string][]byte{
		"/a.png": testutils.PNG(t, 4, 3),
		"/b.png": nil,
	})
	local := testutils.WriteFile(t, "c.png", testutils.PNG(t, 2, 2))

	out, err := execute(t.Context(), srv.URL+"/a.png", srv.URL+"/b.png", srv.URL+"/missing.png", local)
	require.NoError(t, err)

	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "4x3")
	assert.Contains(t, out, "2x2")
	assert.Contains(t, out, "2 loaded, 2 failed, 4 total")

	// rows follow submission order
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	assert.Contains(t, lines[1], "/a.png")
	assert.Contains(t, lines[2], "/b.png")
	assert.Contains(t, lines[3], "/missing.png")
	assert.Contains(t, lines[4], local)
}

func TestFetchInterruptedStillReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	local := testutils.WriteFile(t, "ok.png", testutils.PNG(t, 1, 1))
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	out, err := execute(ctx, "--output", dir, srv.URL+"/slow.png", local)
	require.NoError(t, err)
	assert.Contains(t, out, "canceled")
	assert.Contains(t, out, "1 loaded, 1 failed, 2 total")

	m, err := export.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Loaded)
	assert.Equal(t, 1, m.Failed)
}

func TestFetchOutput(t *testing.T) {
	srv := testutils.ImageServer(t, map[string][]byte{"/a.png": testutils.PNG(t, 5, 5)})
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t.Context(), "--quiet", "--output", dir, srv.URL+"/a.png", srv.URL+"/gone.png")
	require.NoError(t, err)

	m, err := export.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Total)
	assert.Equal(t, 1, m.Loaded)
	require.Len(t, m.Images, 2)

	loaded := m.Images[0]
	assert.Equal(t, "loaded", loaded.Status)
	assert.Equal(t, 5, loaded.Width)
	require.NotEmpty(t, loaded.File)
	data, err := os.ReadFile(filepath.Join(dir, loaded.File))
	require.NoError(t, err)
	assert.Equal(t, testutils.PNG(t, 5, 5), data)

	assert.Equal(t, "failed", m.Images[1].Status)
	assert.Empty(t, m.Images[1].File)
	assert.NotEmpty(t, m.Images[1].Error)
}

func TestFetchListMergesArgs(t *testing.T) {
	first := testutils.WriteFile(t, "1.png", testutils.PNG(t, 1, 1))
	second := testutils.WriteFile(t, "2.png", testutils.PNG(t, 2, 1))
	list := testutils.WriteFile(t, "list.txt", []byte("# more\n"+second+"\n"))

	out, err := execute(t.Context(), "--list", list, first)
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Contains(t, out, "2 loaded, 0 failed, 2 total")
}

func TestFetchNoLocators(t *testing.T) {
	_, err := execute(t.Context())
	assert.Error(t, err)
}
