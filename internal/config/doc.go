// Package config provides configuration management for xspf-curator.
//
// This package handles:
//   - Loading and saving settings from a JSON file
//   - Default configuration values and environment overrides
//   - The Store interface through which the rest of the program reads
//     the music library root and the default open/save locations
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Music library at ~/Music, four parallel album scans
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	// A missing file yields the defaults.
//
// # Key/Value Access
//
// Settings implements Store so callers depend only on Get/Put:
//
//	root, ok := store.Get(config.KeyMusicLocation)
//	store.Put(config.KeySaveLocation, "/home/me/Playlists")
package config
