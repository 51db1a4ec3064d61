package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vfind/internal/common"
)

func TestConfigDir(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")

		dir := ConfigDir()
		assert.NotEmpty(t, dir)
		assert.True(t, strings.HasSuffix(dir, ".vfind"), "should end with .vfind")
	})

	t.Run("override with VFIND_CONFIG_DIR", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/test-vfind-config")

		assert.Equal(t, "/tmp/test-vfind-config", ConfigDir())
		assert.Equal(t, filepath.Join("/tmp/test-vfind-config", "settings.yaml"), SettingsPath())
	})
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.False(t, settings.UTC)
	assert.False(t, settings.Long)
	assert.False(t, settings.Summary)
	assert.False(t, settings.Gitignore)
	assert.Equal(t, ColorAuto, settings.Color)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Empty(t, settings.Excludes)
	assert.NoError(t, settings.Validate())
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		t.Setenv(EnvConfigDir, t.TempDir())

		settings, err := LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), *settings)
	})

	t.Run("values from file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigDir, dir)

		content := `
utc: true
long: true
summary: true
gitignore: true
color: never
log_level: debug
excludes:
  - "*.o"
  - vendor/
`
		require.NoError(t, os.WriteFile(SettingsPath(), []byte(content), 0600))

		settings, err := LoadSettings()
		require.NoError(t, err)
		assert.True(t, settings.UTC)
		assert.True(t, settings.Long)
		assert.True(t, settings.Summary)
		assert.True(t, settings.Gitignore)
		assert.Equal(t, ColorNever, settings.Color)
		assert.Equal(t, []string{"*.o", "vendor/"}, settings.Excludes)

		level, err := settings.Level()
		require.NoError(t, err)
		assert.Equal(t, log.DebugLevel, level)
	})

	t.Run("partial file gets defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("long: true\n"), 0600))

		settings, err := LoadSettingsFromPath(path)
		require.NoError(t, err)
		assert.True(t, settings.Long)
		assert.Equal(t, ColorAuto, settings.Color)
		assert.Equal(t, "warn", settings.LogLevel)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("long: [unterminated\n"), 0600))

		_, err := LoadSettingsFromPath(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrUsage))
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, content := range []string{"color: sometimes\n", "log_level: loud\n"} {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			_, err := LoadSettingsFromPath(path)
			require.Error(t, err, content)
			assert.True(t, errors.Is(err, common.ErrUsage), content)
		}
	})
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"ALWAYS", ColorAlways, false},
		{" never ", ColorNever, false},
		{"rainbow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrUsage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitSettings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv(EnvConfigDir, dir)

	path, err := InitSettings()
	require.NoError(t, err)
	assert.Equal(t, SettingsPath(), path)

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *settings)

	// An existing file is left alone.
	require.NoError(t, os.WriteFile(path, []byte("long: true\n"), 0600))
	_, err = InitSettings()
	require.NoError(t, err)
	settings, err = LoadSettings()
	require.NoError(t, err)
	assert.True(t, settings.Long)
}
