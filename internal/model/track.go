package model

import (
	"path"
	"strings"
)

// FilePrefix is prepended to a normalized path to form a playable location.
const FilePrefix = "file:///"

// Track represents a single playable file in a playlist.
//
// Two tracks are equal when their normalized paths are equal; the title
// takes no part in equality. Tracks loaded from a location without the
// file:/// prefix have an empty Path and are treated as path-less.
type Track struct {
	// Path is the file path with backslashes converted to forward slashes.
	// Empty for path-less tracks.
	Path string

	// Location is the playable form, FilePrefix + Path for scanned files.
	Location string

	// Title is the display title, derived from the file name on scan.
	Title string
}

// NewTrack creates a Track for the file at p.
//
// The path is normalized to forward slashes, the location is built from
// it and the title is the file name without its final extension:
//
//	NewTrack("/music/Song.Name.mp3").Title // "Song.Name"
//	NewTrack("/music/README").Title        // "README"
func NewTrack(p string) Track {
	normalized := NormalizePath(p)
	return Track{
		Path:     normalized,
		Location: FilePrefix + normalized,
		Title:    DeriveTitle(normalized),
	}
}

// TrackFromLocation rebuilds a Track from its serialized strings.
//
// Location and title are kept as given. The path is derived by stripping
// FilePrefix; a location without the prefix yields a path-less track.
func TrackFromLocation(location, title string) Track {
	t := Track{Location: location, Title: title}
	if strings.HasPrefix(location, FilePrefix) {
		t.Path = strings.TrimPrefix(location, FilePrefix)
	}
	return t
}

// HasPath reports whether the track's file path could be derived.
func (t Track) HasPath() bool {
	return t.Path != ""
}

// Equal compares tracks by normalized path.
func (t Track) Equal(other Track) bool {
	return t.Path == other.Path
}

// SearchText is the string the browse filter matches against.
func (t Track) SearchText() string {
	if t.HasPath() {
		return t.Path
	}
	return t.Title
}

// AlbumKey returns the directory the track's file lives in.
func (t Track) AlbumKey() (string, bool) {
	if !t.HasPath() {
		return "", false
	}
	return path.Dir(t.Path), true
}

func (t Track) String() string {
	return t.Title
}

// NormalizePath converts backslashes to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// DeriveTitle returns the last path element without its final extension.
// A leading dot does not start an extension.
func DeriveTitle(p string) string {
	name := path.Base(NormalizePath(p))
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
