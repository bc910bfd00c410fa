// Package tui provides a Bubble Tea album manager for xspf-curator.
//
// The screen has two panes: albums discovered in the music library on the
// left and albums selected for the playlist on the right. Selecting and
// deselecting albums only edits the selection; applying it scans the new
// albums in the background and merges them into the playlist on the UI
// goroutine.
//
// # Keys
//
//	/        filter the library pane
//	tab      switch pane
//	enter    add (library) or remove (selection) the highlighted album
//	a        apply the selection to the playlist
//	s        save the playlist
//	r        rediscover albums
//	n        start a new playlist
//	q, esc   quit
//
// Starting a new playlist or quitting with unsaved changes first asks
// whether to save (s), discard (d) or cancel (esc).
//
// When the library root is watched, changes on disk trigger rediscovery.
package tui
