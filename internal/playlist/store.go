package playlist

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/handiism/xspf-curator/internal/collection"
	ioutils "github.com/handiism/xspf-curator/internal/io"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/handiism/xspf-curator/internal/scanner"
	"github.com/handiism/xspf-curator/internal/xspf"
)

// Store is the playlist being edited.
type Store struct {
	tracks *collection.Collection[model.Track]

	// albums maps album key to the tracks it contributed; order keeps the
	// keys in insertion order.
	albums map[string][]model.Track
	order  []string

	title    string
	modified bool
	source   string

	logger hclog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store operations.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty, unmodified Store with no source location.
func NewStore(opts ...Option) *Store {
	s := &Store{
		tracks: collection.New[model.Track](),
		albums: make(map[string][]model.Track),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tracks returns the browse view over the master track list. Callers may
// filter and subscribe to it; mutations should go through the Store.
func (s *Store) Tracks() *collection.Collection[model.Track] {
	return s.tracks
}

// Snapshot returns every track in playback order, ignoring any filter.
func (s *Store) Snapshot() []model.Track {
	return s.tracks.SnapshotAll()
}

// Len returns the total number of tracks.
func (s *Store) Len() int {
	return s.tracks.Size()
}

// Subscribe registers fn for change events on the track list.
func (s *Store) Subscribe(fn collection.Listener) (unsubscribe func()) {
	return s.tracks.Subscribe(fn)
}

// SetFilter filters the browse view. Saving is never affected by it.
func (s *Store) SetFilter(query string) {
	s.tracks.SetFilter(query)
}

// AddAlbum materializes dir and appends its tracks under dir's album key.
//
// On failure nothing changes. Adding an album that is already loaded is a
// no-op.
func (s *Store) AddAlbum(dir string) error {
	if s.HasAlbum(dir) {
		s.logger.Debug("album already loaded", "dir", dir)
		return nil
	}

	tracks, err := scanner.MaterializeAlbum(dir)
	if err != nil {
		return err
	}

	s.PutAlbum(dir, tracks)
	return nil
}

// PutAlbum registers already-materialized tracks under dir's album key and
// appends them to the track list in one batch. Tracks already present in
// the playlist are skipped so that no track belongs to two albums. It
// returns the number of tracks appended.
func (s *Store) PutAlbum(dir string, tracks []model.Track) int {
	key := albumKey(dir)
	if _, ok := s.albums[key]; ok {
		return 0
	}

	present := make(map[string]struct{}, s.tracks.Size())
	for _, t := range s.tracks.SnapshotAll() {
		present[t.Path] = struct{}{}
	}

	added := make([]model.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := present[t.Path]; ok {
			continue
		}
		present[t.Path] = struct{}{}
		added = append(added, t)
	}

	s.albums[key] = added
	s.order = append(s.order, key)
	s.tracks.InsertAll(added)
	s.modified = true

	s.logger.Debug("album added", "album", key, "tracks", len(added), "skipped", len(tracks)-len(added))
	return len(added)
}

// RemoveAlbum removes every track dir contributed and forgets the album.
// It reports false, changing nothing, when dir is not a loaded album.
func (s *Store) RemoveAlbum(dir string) bool {
	key := albumKey(dir)
	bucket, ok := s.albums[key]
	if !ok {
		return false
	}

	delete(s.albums, key)
	s.order = removeKey(s.order, key)
	removed := s.tracks.RemoveAll(bucket)
	s.modified = true

	s.logger.Debug("album removed", "album", key, "tracks", removed)
	return true
}

// HasAlbum reports whether dir is a loaded album.
func (s *Store) HasAlbum(dir string) bool {
	_, ok := s.albums[albumKey(dir)]
	return ok
}

// Albums returns the loaded album keys in the order they were added.
func (s *Store) Albums() []string {
	return append([]string(nil), s.order...)
}

// AlbumTracks returns the tracks registered under dir.
func (s *Store) AlbumTracks(dir string) []model.Track {
	return append([]model.Track(nil), s.albums[albumKey(dir)]...)
}

// Plan computes what Reconcile(targets) would do: the loaded albums
// missing from targets, in load order, and the targets not yet loaded, in
// target order. Both results are album keys.
func (s *Store) Plan(targets []string) (remove, add []string) {
	wanted := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		key := albumKey(target)
		if _, dup := wanted[key]; dup {
			continue
		}
		wanted[key] = struct{}{}
		if _, loaded := s.albums[key]; !loaded {
			add = append(add, key)
		}
	}

	for _, key := range s.order {
		if _, ok := wanted[key]; !ok {
			remove = append(remove, key)
		}
	}
	return remove, add
}

// Reconcile makes the loaded albums equal to targets: albums not in
// targets are removed first, then missing targets are materialized and
// added. Albums that fail to scan are skipped and their errors joined
// into the result. Calling Reconcile again with the same targets changes
// nothing.
func (s *Store) Reconcile(targets []string) error {
	remove, add := s.Plan(targets)

	for _, key := range remove {
		s.RemoveAlbum(key)
	}

	var errs []error
	for _, key := range add {
		if err := s.AddAlbum(key); err != nil {
			s.logger.Warn("album scan failed", "album", key, "error", err)
			errs = append(errs, err)
		}
	}

	s.logger.Info("playlist reconciled", "removed", len(remove), "added", len(add)-len(errs), "failed", len(errs))
	return errors.Join(errs...)
}

// AddTrack appends a single track outside of any album.
func (s *Store) AddTrack(t model.Track) {
	s.tracks.Insert(t)
	s.modified = true
}

// RemoveTrack removes the first track equal to t. It reports false when
// no such track exists. Album keys are left in place; the track is only
// dropped from the bucket that held it.
func (s *Store) RemoveTrack(t model.Track) bool {
	if !s.tracks.Remove(t) {
		return false
	}
	s.forget([]model.Track{t})
	s.modified = true
	return true
}

// RemoveAt removes the tracks at the given master indices in one batch
// and returns how many were removed.
func (s *Store) RemoveAt(indices ...int) int {
	all := s.tracks.SnapshotAll()
	var removed []model.Track
	for _, i := range indices {
		if i >= 0 && i < len(all) {
			removed = append(removed, all[i])
		}
	}

	n := s.tracks.RemoveIndices(indices...)
	if n > 0 {
		s.forget(removed)
		s.modified = true
	}
	return n
}

// forget drops tracks from the album buckets that no longer exist in the
// master list.
func (s *Store) forget(tracks []model.Track) {
	for _, t := range tracks {
		if s.tracks.Contains(t) {
			continue
		}
		for key, bucket := range s.albums {
			for i, candidate := range bucket {
				if candidate.Equal(t) {
					s.albums[key] = append(bucket[:i:i], bucket[i+1:]...)
					break
				}
			}
		}
	}
}

// Reset empties the playlist for a new, unsaved document.
func (s *Store) Reset() {
	s.albums = make(map[string][]model.Track)
	s.order = nil
	s.title = ""
	s.modified = false
	s.source = ""
	s.tracks.Clear()
}

// Load replaces the playlist with the document at location.
//
// Albums are rebuilt by grouping tracks by parent directory; tracks
// without a file path remain in the list but belong to no album. On
// failure the store is unchanged.
func (s *Store) Load(location string) error {
	p, err := xspf.Load(location)
	if err != nil {
		return err
	}

	albums := make(map[string][]model.Track)
	var order []string
	for _, t := range p.Tracks {
		dir, ok := t.AlbumKey()
		if !ok {
			continue
		}
		key := model.AlbumKey(dir)
		if _, seen := albums[key]; !seen {
			order = append(order, key)
		}
		albums[key] = append(albums[key], t)
	}

	s.albums = albums
	s.order = order
	s.title = p.Title
	s.modified = false
	s.source = location
	s.tracks.Replace(p.Tracks)

	s.logger.Info("playlist loaded", "path", location, "tracks", len(p.Tracks), "albums", len(order))
	return nil
}

// Save writes the full track list to location and returns the path
// written, which carries the .xspf extension. An empty title is replaced
// by the file's base name. On success the store is marked unmodified and
// location becomes its source.
func (s *Store) Save(location string) (string, error) {
	title := s.title
	if title == "" {
		title = DefaultTitle(location)
	}

	final, err := xspf.Write(location, model.NewPlaylist(title, s.tracks.SnapshotAll()))
	if err != nil {
		return "", err
	}

	s.title = title
	s.modified = false
	s.source = final

	s.logger.Info("playlist saved", "path", final, "tracks", s.tracks.Size())
	return final, nil
}

// Title returns the playlist title.
func (s *Store) Title() string {
	return s.title
}

// SetTitle changes the playlist title.
func (s *Store) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.modified = true
}

// IsModified reports whether the playlist changed since it was last
// loaded, saved or reset.
func (s *Store) IsModified() bool {
	return s.modified
}

// SourceLocation returns the file the playlist was last loaded from or
// saved to, or "" for a new playlist.
func (s *Store) SourceLocation() string {
	return s.source
}

// DefaultTitle derives a playlist title from a save location: the base
// name without the .xspf extension.
func DefaultTitle(location string) string {
	base := filepath.Base(ioutils.EnsureExtension(location, xspf.Extension))
	return strings.TrimSuffix(base, xspf.Extension)
}

func albumKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return model.AlbumKey(dir)
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i:i], keys[i+1:]...)
		}
	}
	return keys
}
