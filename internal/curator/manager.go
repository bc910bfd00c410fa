package curator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/handiism/xspf-curator/internal/config"
	apperrors "github.com/handiism/xspf-curator/internal/errors"
	ioutils "github.com/handiism/xspf-curator/internal/io"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/handiism/xspf-curator/internal/playlist"
	"github.com/handiism/xspf-curator/internal/scanner"
)

// DefaultMaxConcurrentScans is used when the settings carry no usable limit.
const DefaultMaxConcurrentScans = 4

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a curation progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Changes is a prepared, not yet applied, album selection.
type Changes struct {
	// Remove lists loaded album keys that are not in the selection.
	Remove []string

	// Results holds one scan per album key to be added, in selection order.
	Results []scanner.Result
}

// Empty reports whether applying c would change nothing.
func (c *Changes) Empty() bool {
	return len(c.Remove) == 0 && len(c.Results) == 0
}

// Manager coordinates album discovery and playlist edits.
type Manager struct {
	settings config.Store
	store    *playlist.Store
	logger   hclog.Logger

	albums      []model.AlbumDir
	scannedDirs int32
	totalDirs   int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the Manager.
func WithLogger(logger hclog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Manager over store. A nil store gets a fresh
// empty playlist.
func NewManager(settings config.Store, store *playlist.Store, onProgress func(ProgressEvent), opts ...Option) *Manager {
	if store == nil {
		store = playlist.NewStore()
	}

	m := &Manager{
		settings:   settings,
		store:      store,
		logger:     hclog.NewNullLogger(),
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the playlist the Manager edits.
func (m *Manager) Store() *playlist.Store {
	return m.store
}

// Discover finds candidate albums under every configured music root.
func (m *Manager) Discover(ctx context.Context) ([]model.AlbumDir, error) {
	roots := config.MusicRoots(m.settings)
	if len(roots) == 0 {
		return nil, apperrors.NewValidationError("music library location is not set", "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Discovering albums in %d location(s)", len(roots)), Level: LevelVerbose})
	m.logger.Debug("discovering albums", "roots", roots)

	albums, err := scanner.DiscoverAll(roots)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Discovery failed: %v", err), Level: LevelError})
		return nil, err
	}

	m.mu.Lock()
	m.albums = albums
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d album(s)", len(albums)), Level: LevelInfo})
	return albums, nil
}

// Albums returns the result of the last successful Discover.
func (m *Manager) Albums() []model.AlbumDir {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AlbumDir(nil), m.albums...)
}

// Prepare plans the change to targets and materializes the albums to be
// added. It reads the playlist but does not modify it. The returned error
// is non-nil only when ctx is cancelled.
func (m *Manager) Prepare(ctx context.Context, targets []string) (*Changes, error) {
	remove, add := m.store.Plan(targets)

	atomic.StoreInt32(&m.scannedDirs, 0)
	atomic.StoreInt32(&m.totalDirs, int32(len(add)))

	results, err := scanner.MaterializeAllFunc(ctx, add, m.maxScans(), func(r scanner.Result) {
		atomic.AddInt32(&m.scannedDirs, 1)
		if r.Err == nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Scanned %s (%d tracks)", r.Dir, len(r.Tracks)), Level: LevelVerbose})
		}
	})
	if err != nil {
		return nil, err
	}

	return &Changes{Remove: remove, Results: results}, nil
}

// Commit merges prepared changes into the playlist: albums to remove go
// first, then every successful scan is added. Failed scans are skipped and
// their errors joined into the result.
func (m *Manager) Commit(changes *Changes) error {
	for _, key := range changes.Remove {
		if m.store.RemoveAlbum(key) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Removed album %s", key), Level: LevelInfo})
		}
	}

	var errs []error
	for _, r := range changes.Results {
		if r.Err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error scanning %s: %v", r.Dir, r.Err), Level: LevelError})
			m.logger.Warn("album scan failed", "album", r.Dir, "error", r.Err)
			errs = append(errs, r.Err)
			continue
		}

		n := m.store.PutAlbum(r.Dir, r.Tracks)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Added album %s (%d tracks)", r.Dir, n), Level: LevelSuccess})
	}

	m.logger.Info("selection applied", "removed", len(changes.Remove), "added", len(changes.Results)-len(errs), "failed", len(errs))
	return errors.Join(errs...)
}

// Apply makes the playlist's albums match targets.
func (m *Manager) Apply(ctx context.Context, targets []string) error {
	changes, err := m.Prepare(ctx, targets)
	if err != nil {
		return err
	}
	return m.Commit(changes)
}

// GetProgress returns how many albums the current Prepare has scanned.
func (m *Manager) GetProgress() (scanned, total int32) {
	return atomic.LoadInt32(&m.scannedDirs), atomic.LoadInt32(&m.totalDirs)
}

// Open replaces the playlist with the file at path.
func (m *Manager) Open(path string) error {
	if err := m.store.Load(path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error opening %s: %v", path, err), Level: LevelError})
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Opened %s (%d tracks)", path, m.store.Len()), Level: LevelInfo})
	return nil
}

// Save writes the playlist and returns the path written.
//
// An empty path means the playlist's source location, or, for a new
// playlist, a file named after the title in the configured save location.
func (m *Manager) Save(path string) (string, error) {
	if path == "" {
		path = m.defaultSavePath()
	}
	if path == "" {
		return "", apperrors.NewValidationError("no save location", "")
	}

	final, err := m.store.Save(path)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving %s: %v", path, err), Level: LevelError})
		return "", err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", final), Level: LevelSuccess})
	return final, nil
}

// New starts an empty, unsaved playlist.
func (m *Manager) New() {
	m.store.Reset()
	m.logger.Debug("new playlist")
}

func (m *Manager) defaultSavePath() string {
	if source := m.store.SourceLocation(); source != "" {
		return source
	}

	dir, ok := m.settings.Get(config.KeySaveLocation)
	if !ok {
		return ""
	}

	title := m.store.Title()
	if title == "" {
		title, _ = m.settings.Get(config.KeyDefaultTitle)
	}
	name := ioutils.SanitizeFileName(title)
	if name == "" {
		name = "playlist"
	}
	return filepath.Join(dir, name)
}

func (m *Manager) maxScans() int {
	value, ok := m.settings.Get(config.KeyMaxScans)
	if !ok {
		return DefaultMaxConcurrentScans
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return DefaultMaxConcurrentScans
	}
	return n
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
