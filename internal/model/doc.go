// Package model defines the core data structures shared by the scanner,
// the XSPF codec and the playlist store.
//
// # Track
//
// Track is one playable file, identified by its normalized path:
//
//	track := model.NewTrack(`C:\Music\Artist\01 Song.mp3`)
//	fmt.Println(track.Path)     // C:/Music/Artist/01 Song.mp3
//	fmt.Println(track.Location) // file:///C:/Music/Artist/01 Song.mp3
//	fmt.Println(track.Title)    // 01 Song
//
// Tracks read back from a playlist file are built in two phases with
// TrackFromLocation: the location and title strings are kept verbatim and
// the path is derived only when the location carries the file:/// prefix.
//
// # Playlist
//
// Playlist is the document persisted in XSPF form: a title, an ordered
// track list and a version marker.
//
// # AlbumDir
//
// AlbumDir is a directory discovered under the music library root. It is
// the item type of the album browser.
package model
