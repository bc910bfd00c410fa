package curator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/xspf-curator/internal/config"
	apperrors "github.com/handiism/xspf-curator/internal/errors"
	"github.com/handiism/xspf-curator/internal/model"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(level ProgressLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

func newTestManager(t *testing.T, music string) (*Manager, *config.Settings, *recorder) {
	t.Helper()
	settings := &config.Settings{
		MusicLocation:      music,
		OpenLocation:       t.TempDir(),
		SaveLocation:       t.TempDir(),
		MaxConcurrentScans: 2,
	}
	rec := &recorder{}
	return NewManager(settings, nil, rec.record), settings, rec
}

func TestDiscover(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFiles(t, first, "A/1.mp3")
	writeFiles(t, second, "B/1.mp3", "C/1.mp3")

	m, _, rec := newTestManager(t, first+string(os.PathListSeparator)+second)

	albums, err := m.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, albums, 3)
	assert.Equal(t, model.AlbumDir(filepath.Join(first, "A")), albums[0])
	assert.Equal(t, albums, m.Albums())
	assert.Equal(t, 1, rec.count(LevelInfo))
}

func TestDiscover_NoRoots(t *testing.T) {
	m, _, _ := newTestManager(t, "")

	_, err := m.Discover(context.Background())
	assert.True(t, apperrors.IsValidation(err))
}

func TestDiscover_MissingRoot(t *testing.T) {
	m, _, rec := newTestManager(t, filepath.Join(t.TempDir(), "missing"))

	_, err := m.Discover(context.Background())
	assert.Error(t, err)
	assert.Empty(t, m.Albums())
	assert.Equal(t, 1, rec.count(LevelError))
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3", "A/2.mp3", "B/1.mp3")
	a, b := filepath.Join(root, "A"), filepath.Join(root, "B")

	m, _, rec := newTestManager(t, root)

	require.NoError(t, m.Apply(context.Background(), []string{a, b}))
	assert.Equal(t, 3, m.Store().Len())
	assert.Equal(t, 2, rec.count(LevelSuccess))

	scanned, total := m.GetProgress()
	assert.Equal(t, int32(2), scanned)
	assert.Equal(t, int32(2), total)

	require.NoError(t, m.Apply(context.Background(), []string{b}))
	assert.Equal(t, []string{model.AlbumKey(b)}, m.Store().Albums())
	assert.Equal(t, 1, m.Store().Len())
}

func TestApply_PartialFailure(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3")
	a := filepath.Join(root, "A")

	m, _, rec := newTestManager(t, root)

	err := m.Apply(context.Background(), []string{filepath.Join(root, "gone"), a})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.Equal(t, []string{model.AlbumKey(a)}, m.Store().Albums())
	assert.Equal(t, 1, rec.count(LevelError))
}

func TestApply_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3")

	m, _, _ := newTestManager(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Apply(ctx, []string{filepath.Join(root, "A")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Store().Len())
	assert.False(t, m.Store().IsModified())
}

func TestPrepareThenCommit(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3")

	m, _, _ := newTestManager(t, root)

	changes, err := m.Prepare(context.Background(), []string{filepath.Join(root, "A")})
	require.NoError(t, err)
	assert.False(t, changes.Empty())
	assert.Equal(t, 0, m.Store().Len())

	require.NoError(t, m.Commit(changes))
	assert.Equal(t, 1, m.Store().Len())

	changes, err = m.Prepare(context.Background(), []string{filepath.Join(root, "A")})
	require.NoError(t, err)
	assert.True(t, changes.Empty())
}

func TestSave_DefaultLocation(t *testing.T) {
	m, settings, _ := newTestManager(t, t.TempDir())
	m.Store().SetTitle("Road Trip")

	final, err := m.Save("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.SaveLocation, "Road Trip.xspf"), final)

	// A saved playlist is saved back to where it came from.
	m.Store().AddTrack(model.NewTrack("/music/song.mp3"))
	again, err := m.Save("")
	require.NoError(t, err)
	assert.Equal(t, final, again)
}

func TestSave_UntitledPlaylist(t *testing.T) {
	m, settings, _ := newTestManager(t, t.TempDir())

	final, err := m.Save("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.SaveLocation, "playlist.xspf"), final)
	assert.Equal(t, "playlist", m.Store().Title())
}

func TestSave_NoLocation(t *testing.T) {
	m := NewManager(&config.Settings{}, nil, nil)

	_, err := m.Save("")
	assert.True(t, apperrors.IsValidation(err))
}

func TestOpenAndNew(t *testing.T) {
	m, _, rec := newTestManager(t, t.TempDir())
	m.Store().AddTrack(model.NewTrack("/music/song.mp3"))

	path, err := m.Save(filepath.Join(t.TempDir(), "mix"))
	require.NoError(t, err)

	m.New()
	assert.Equal(t, 0, m.Store().Len())
	assert.Empty(t, m.Store().SourceLocation())

	require.NoError(t, m.Open(path))
	assert.Equal(t, 1, m.Store().Len())
	assert.Equal(t, path, m.Store().SourceLocation())

	assert.Error(t, m.Open(filepath.Join(t.TempDir(), "missing.xspf")))
	assert.Equal(t, 1, rec.count(LevelError))
}

func TestMaxScans(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{8, 8},
		{0, DefaultMaxConcurrentScans},
		{-1, DefaultMaxConcurrentScans},
	}

	for _, tt := range tests {
		m := NewManager(&config.Settings{MaxConcurrentScans: tt.limit}, nil, nil)
		if got := m.maxScans(); got != tt.want {
			t.Errorf("maxScans() with %d = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
