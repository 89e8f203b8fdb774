package adapter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
import:
  timeout: 5s
images:
  camera_command: fswebcam
logging:
  level: debug
`), 0644))

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Import.Timeout)
	assert.Equal(t, "fswebcam", cfg.Images.CameraCommand)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults
	assert.Equal(t, 500, cfg.Images.MaxHeight)
	assert.Equal(t, 3*time.Second, cfg.UI.StatusDuration)
	assert.True(t, cfg.UI.Fixtures)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("NOMNOM_LOGGING_LEVEL", "error")
	t.Setenv("NOMNOM_IMAGES_MAX_HEIGHT", "120")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 120, cfg.Images.MaxHeight)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Opener.Command = "firefox --new-tab"
	cfg.Import.Timeout = 7 * time.Second

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "firefox --new-tab", loaded.Opener.Command)
	assert.Equal(t, 7*time.Second, loaded.Import.Timeout)
}

func TestParseLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestOpener_Open(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := NewOpener("browser --new-window", NullLogger())
	o.run = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, o.Open("https://example.com/r"))
	assert.Equal(t, "browser", gotName)
	assert.Equal(t, []string{"--new-window", "https://example.com/r"}, gotArgs)

	assert.Error(t, o.Open(""))

	o.run = func(string, ...string) error { return errors.New("not found") }
	assert.Error(t, o.Open("https://example.com"))
}

func TestNewCamera_DisabledWithoutCommand(t *testing.T) {
	assert.Nil(t, NewCamera("", nil, nil))
}

func TestCamera_CaptureCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cam := NewCamera("sleep", []string{"5"}, NullLogger())
	err := cam.Capture(ctx, filepath.Join(t.TempDir(), "x.jpg"))
	assert.Error(t, err)
}
