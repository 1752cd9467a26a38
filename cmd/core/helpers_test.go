package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/preload/config"
)

func TestReadLocators(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("# header\nhttps://a/1.png\n\n  /tmp/2.png  \n"), 0o600))

	got, err := ReadLocators(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1.png", "/tmp/2.png"}, got)

	_, err = ReadLocators(path + ".missing")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("64MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(64<<20), n)

	_, err = ParseSize("lots")
	assert.Error(t, err)
}

func TestConf(t *testing.T) {
	_, err := BaseHandler{}.Conf()
	assert.Error(t, err)

	_, err = BaseHandler{ConfProvider: func() *config.Config { return nil }}.Conf()
	assert.Error(t, err)

	conf := config.DefaultConfig()
	got, err := BaseHandler{ConfProvider: func() *config.Config { return conf }}.Conf()
	require.NoError(t, err)
	assert.Same(t, conf, got)
}
