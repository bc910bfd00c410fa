// Package scanner turns directories on disk into albums and tracks.
//
// Two traversals serve two different questions:
//
//   - DiscoverAlbums finds directories that directly contain at least one
//     file. A directory whose files all live in subdirectories is not an
//     album; its subdirectories are. Results are in post-order, so deeper
//     directories come before their ancestors.
//   - MaterializeAlbum collects every file anywhere beneath one chosen
//     album directory, so albums split into disc folders stay whole.
//
// Both fail as a whole: on any I/O error no partial result is returned.
//
// # Parallel materialization
//
// MaterializeAll scans several albums concurrently with a bounded
// errgroup. Each album succeeds or fails on its own; merging the results
// into a playlist is left to the caller, which must do it from a single
// goroutine.
//
// # Watching
//
// Watcher reports (debounced) changes anywhere under a library root so a
// browser can re-run discovery.
package scanner
