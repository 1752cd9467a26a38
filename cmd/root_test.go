package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/preload/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	configureEnv(v)

	conf, err := loadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOptions(), conf.Preload)
	assert.Equal(t, int64(config.DefaultMaxBytes), conf.Fetch.MaxBytes)
	assert.Equal(t, "info", conf.Log.Level)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("PRELOAD_FETCH_MAX_BYTES", "1024")
	t.Setenv("PRELOAD_FETCH_TIMEOUT", "3s")
	t.Setenv("PRELOAD_PRELOAD_COMPLETE_IDLE_TIME", "2s")
	t.Setenv("PRELOAD_PRELOAD_LOADING_MESSAGE", "Warming {total}")
	t.Setenv("PRELOAD_LOG_LEVEL", "debug")

	v := viper.New()
	configureEnv(v)

	conf, err := loadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), conf.Fetch.MaxBytes)
	assert.Equal(t, 3*time.Second, conf.Fetch.Timeout)
	assert.Equal(t, 2*time.Second, conf.Preload.CompleteIdleTime)
	assert.Equal(t, "Warming 4", conf.Preload.LoadingText(4))
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoadConfigFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fetch": {"max_bytes": 2048, "user_agent": "file"}}`), 0o600))
	t.Setenv("PRELOAD_FETCH_USER_AGENT", "env")

	v := viper.New()
	configureEnv(v)

	conf, err := loadConfig(v, path)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), conf.Fetch.MaxBytes)
	assert.Equal(t, "env", conf.Fetch.UserAgent)

	_, err = loadConfig(viper.New(), path+".missing")
	assert.Error(t, err)
}
