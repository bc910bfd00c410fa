// Package collection provides an ordered, searchable container used to
// browse large file sets interactively.
//
// A Collection keeps every inserted item in insertion order and derives an
// "active" view from the last applied filter. The active view is
// recomputed after every mutation, so it never goes stale:
//
//	albums := collection.New[model.AlbumDir]()
//	albums.InsertAll(discovered)
//	albums.SetFilter("pink floyd")   // items containing both tokens
//	albums.Insert(newDir)            // re-filtered with "pink floyd"
//	all := albums.SnapshotAll()      // unaffected by the filter
//
// # Change events
//
// Listeners registered with Subscribe are called synchronously, exactly
// once per mutating call:
//
//   - EventInserted with the inserted range in active-view indices
//   - EventRemoved with the removed master index
//   - EventReset when the active view was rebuilt wholesale
package collection
