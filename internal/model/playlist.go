package model

// PlaylistVersion is the version marker written to new documents.
const PlaylistVersion = 1

// Playlist is the document persisted in XSPF form.
//
// Track order is playback order. A playlist with no tracks is valid.
type Playlist struct {
	// Title is the playlist title.
	Title string

	// Tracks contains the tracks in playback order.
	Tracks []Track

	// Version is carried through serialization and not interpreted.
	Version int
}

// NewPlaylist creates a Playlist at the current version.
func NewPlaylist(title string, tracks []Track) *Playlist {
	return &Playlist{
		Title:   title,
		Tracks:  tracks,
		Version: PlaylistVersion,
	}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}
