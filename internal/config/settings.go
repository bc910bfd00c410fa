package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	ioutils "github.com/handiism/xspf-curator/internal/io"
	"github.com/handiism/xspf-curator/internal/model"
)

// Keys understood by Settings.Get and Settings.Put.
const (
	KeyMusicLocation = "music.location"
	KeyOpenLocation  = "open.location"
	KeySaveLocation  = "save.location"
	KeyDefaultTitle  = "default.title"
	KeyMaxScans      = "max.concurrent.scans"
)

// Environment variables consulted by ApplyEnv and DefaultPath.
const (
	EnvMusicLocation = "XSPF_MUSIC_LOCATION"
	EnvConfigPath    = "XSPF_CONFIG"
)

// Store is a string key/value settings store.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
}

// Settings holds all configuration options.
type Settings struct {
	// Locations
	MusicLocation string `json:"music_location"` // one or more roots joined by the OS list separator
	OpenLocation  string `json:"open_location"`
	SaveLocation  string `json:"save_location"`

	// Playlist defaults
	DefaultTitle string `json:"default_title"`

	// Scanning
	MaxConcurrentScans  int `json:"max_concurrent_scans"`
	WatchDebounceMillis int `json:"watch_debounce_ms"`
}

var _ Store = (*Settings)(nil)

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		MusicLocation:       filepath.Join(homeDir, "Music"),
		OpenLocation:        homeDir,
		SaveLocation:        homeDir,
		DefaultTitle:        "",
		MaxConcurrentScans:  4,
		WatchDebounceMillis: 500,
	}
}

// DefaultPath returns the settings file location: $XSPF_CONFIG when set,
// otherwise xspf-curator/settings.json under the user config directory.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "xspf-curator.json")
	}
	return filepath.Join(dir, "xspf-curator", "settings.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from environment variables.
func (s *Settings) ApplyEnv() {
	if music := os.Getenv(EnvMusicLocation); music != "" {
		s.MusicLocation = music
	}
}

// Get returns the value stored under key. Unknown keys and empty values
// report false.
func (s *Settings) Get(key string) (string, bool) {
	var value string
	switch key {
	case KeyMusicLocation:
		value = s.MusicLocation
	case KeyOpenLocation:
		value = s.OpenLocation
	case KeySaveLocation:
		value = s.SaveLocation
	case KeyDefaultTitle:
		value = s.DefaultTitle
	case KeyMaxScans:
		value = strconv.Itoa(s.MaxConcurrentScans)
	}
	return value, value != ""
}

// Put stores value under key. Unknown keys are ignored.
func (s *Settings) Put(key, value string) {
	switch key {
	case KeyMusicLocation:
		s.MusicLocation = value
	case KeyOpenLocation:
		s.OpenLocation = value
	case KeySaveLocation:
		s.SaveLocation = value
	case KeyDefaultTitle:
		s.DefaultTitle = value
	case KeyMaxScans:
		if n, err := strconv.Atoi(value); err == nil {
			s.MaxConcurrentScans = n
		}
	}
}

// HasValidLocations reports whether every location setting is non-empty.
func (s *Settings) HasValidLocations() bool {
	return s.MusicLocation != "" && s.OpenLocation != "" && s.SaveLocation != ""
}

// MusicRoots splits the music location into individual library roots.
func MusicRoots(store Store) []string {
	value, ok := store.Get(KeyMusicLocation)
	if !ok {
		return nil
	}
	return model.SplitRoots(value)
}

// WatchDebounce returns the watcher quiet period.
func (s *Settings) WatchDebounce() time.Duration {
	return time.Duration(s.WatchDebounceMillis) * time.Millisecond
}
