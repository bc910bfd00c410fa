// Package curator provides the orchestration logic for building playlists
// out of album directories.
//
// # Manager
//
// The Manager coordinates the whole curation process:
//
//  1. Read the music library roots from the settings store
//  2. Discover candidate albums under every root
//  3. Plan the change between the playlist's albums and a selection
//  4. Materialize the new albums concurrently
//  5. Merge the results into the playlist from a single goroutine
//  6. Save the playlist as XSPF
//
// # Basic Usage
//
//	manager := curator.NewManager(settings, playlist.NewStore(), func(event curator.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	albums, err := manager.Discover(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.Apply(ctx, []string{string(albums[0])})
//	if err != nil {
//	    log.Print(err) // albums that failed to scan; the rest were applied
//	}
//
//	path, err := manager.Save("")
//
// # Concurrency
//
// Album scans run in parallel, bounded by the max.concurrent.scans setting.
// Prepare only reads the playlist and may run on a background goroutine;
// Commit mutates it and must be called from the goroutine that owns the
// playlist. Apply does both in sequence.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback is invoked from scanning goroutines while albums are being
// materialized and must be safe for concurrent use.
package curator
