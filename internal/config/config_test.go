package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	opts := Default()
	require.Equal(t, 72, opts.MaxSupportedLevel)
	require.Equal(t, 11, opts.MayhemMax)
	require.False(t, opts.AllowFabricator)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), opts)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_supported_level: 80\nallow_fabricator: true\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 80, opts.MaxSupportedLevel)
	require.True(t, opts.AllowFabricator)
	require.Equal(t, 11, opts.MayhemMax) // untouched field keeps its default
}
