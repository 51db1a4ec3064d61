// Package config loads the vfind settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vfind/internal/artifacts"
	"vfind/internal/common"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "VFIND_CONFIG_DIR"

// Color modes accepted by the color setting and the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ConfigDir returns the configuration directory path.
// Uses VFIND_CONFIG_DIR if set, otherwise defaults to ~/.vfind.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".vfind")
}

// SettingsPath returns the settings file path
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}

// Settings are the user defaults applied before command-line flags.
type Settings struct {
	UTC       bool     `yaml:"utc"`       // dates in UTC (default: false)
	Long      bool     `yaml:"long"`      // long listing (default: false)
	Summary   bool     `yaml:"summary"`   // per-root summary (default: false)
	Gitignore bool     `yaml:"gitignore"` // honor .gitignore files (default: false)
	Color     string   `yaml:"color"`     // auto, always, never (default: auto)
	LogLevel  string   `yaml:"log_level"` // trace, debug, info, warn, error (default: warn)
	Excludes  []string `yaml:"excludes"`  // glob patterns of skipped paths
}

// ApplyDefaults fills zero-value fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.Color == "" {
		s.Color = ColorAuto
	}
	if s.LogLevel == "" {
		s.LogLevel = "warn"
	}
}

// Validate checks the enumerated settings.
func (s *Settings) Validate() error {
	if _, err := ParseColor(s.Color); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (s *Settings) Level() (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s.LogLevel)))
	if err != nil {
		return log.WarnLevel, fmt.Errorf("%w: invalid log_level %q", common.ErrUsage, s.LogLevel)
	}
	return level, nil
}

// ParseColor normalizes a color mode.
func ParseColor(mode string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("%w: invalid color mode %q (want auto, always or never)", common.ErrUsage, mode)
}

// DefaultSettings parses the embedded default settings.
func DefaultSettings() Settings {
	var settings Settings
	if err := yaml.Unmarshal(artifacts.GlobalSettings, &settings); err != nil {
		panic("failed to parse embedded settings: " + err.Error())
	}
	settings.ApplyDefaults()
	return settings
}

// LoadSettings loads ~/.vfind/settings.yaml, falling back to the embedded
// defaults when the file does not exist.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFromPath(SettingsPath())
}

// LoadSettingsFromPath loads settings from a specific file path.
func LoadSettingsFromPath(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("[CONFIG] %s not found, using defaults", path)
			settings := DefaultSettings()
			return &settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrUsage, path, err)
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("[CONFIG] loaded %s", path)
	return &settings, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0700)
}

// InitSettings writes the default settings file unless one already exists.
// It returns the path of the settings file.
func InitSettings() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := SettingsPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, artifacts.GlobalSettings, 0600); err != nil {
			return "", fmt.Errorf("failed to create default settings: %w", err)
		}
	}
	return path, nil
}
