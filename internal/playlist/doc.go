// Package playlist holds the in-memory playlist being curated.
//
// A Store owns three things:
//   - the master track list, exposed as a filterable collection for browsing
//   - an index from album directory to the tracks that directory contributed
//   - a modified flag and the file the playlist was last loaded from or saved to
//
// Albums are the unit of curation. Adding an album materializes every file
// beneath the directory; removing it takes exactly those tracks back out.
// Reconcile applies a whole selection of albums at once:
//
//	store := playlist.NewStore()
//	if err := store.Reconcile([]string{"/music/A", "/music/B"}); err != nil {
//	    // some albums failed to scan; the rest were applied
//	}
//	final, err := store.Save("/home/me/road-trip")
//	// final == "/home/me/road-trip.xspf"
//
// A Store is not safe for concurrent use. Scans may run in parallel, but
// their results must be merged through PutAlbum from a single goroutine.
package playlist
