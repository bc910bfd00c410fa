package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func albumPaths(albums []model.AlbumDir) []string {
	paths := make([]string, len(albums))
	for i, a := range albums {
		paths[i] = string(a)
	}
	return paths
}

func TestDiscoverAlbums_PostOrder(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3", "A/B/2.mp3")

	albums, err := DiscoverAlbums(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "A", "B"),
		filepath.Join(root, "A"),
	}, albumPaths(albums))
}

func TestDiscoverAlbums_OnlyDirectFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Artist/Album One/01.mp3",
		"Artist/Album One/02.mp3",
		"Artist/Album Two/CD1/01.flac",
		"Artist/Album Two/CD2/01.flac",
		"Loose/track.ogg",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Empty", "Deeper"), 0755))

	albums, err := DiscoverAlbums(root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Artist", "Album One"),
		filepath.Join(root, "Artist", "Album Two", "CD1"),
		filepath.Join(root, "Artist", "Album Two", "CD2"),
		filepath.Join(root, "Loose"),
	}, albumPaths(albums))
}

func TestDiscoverAlbums_RootWithFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "top.mp3", "sub/inner.mp3")

	albums, err := DiscoverAlbums(root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "sub"), root}, albumPaths(albums))
}

func TestDiscoverAlbums_Validation(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.mp3")

	_, err := DiscoverAlbums("")
	assert.True(t, apperrors.IsValidation(err))

	_, err = DiscoverAlbums(filepath.Join(root, "missing"))
	assert.True(t, apperrors.IsValidation(err))

	_, err = DiscoverAlbums(filepath.Join(root, "file.mp3"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestDiscoverAll(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFiles(t, first, "a/1.mp3")
	writeFiles(t, second, "b/1.mp3")

	albums, err := DiscoverAll([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(first, "a"), filepath.Join(second, "b")}, albumPaths(albums))
}

func TestMaterializeAlbum_Recursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Album/01 Intro.mp3",
		"Album/CD1/02 Song.Name.mp3",
		"Album/CD2/03 Outro.mp3",
		"Album/CD2/cover",
	)

	tracks, err := MaterializeAlbum(filepath.Join(root, "Album"))
	require.NoError(t, err)
	require.Len(t, tracks, 4)

	seen := map[string]bool{}
	var titles []string
	for _, track := range tracks {
		assert.False(t, seen[track.Path], "duplicate track %s", track.Path)
		seen[track.Path] = true
		assert.Equal(t, model.FilePrefix+track.Path, track.Location)
		titles = append(titles, track.Title)
	}
	assert.ElementsMatch(t, []string{"01 Intro", "02 Song.Name", "03 Outro", "cover"}, titles)
}

func TestMaterializeAlbum_FailureYieldsNothing(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := t.TempDir()
	writeFiles(t, root, "Album/01.mp3", "Album/locked/02.mp3")
	locked := filepath.Join(root, "Album", "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	tracks, err := MaterializeAlbum(filepath.Join(root, "Album"))

	assert.Nil(t, tracks)
	assert.True(t, apperrors.IsFilesystem(err))
}

// writeLoop places a symbolic link that points at itself in dir; stat on
// it fails with ELOOP whatever the user's privileges.
func writeLoop(t *testing.T, dir string) {
	t.Helper()
	if err := os.Symlink("loop", filepath.Join(dir, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestDiscoverAlbums_FailureYieldsNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "A/1.mp3", "B/2.mp3")
	writeLoop(t, filepath.Join(root, "B"))

	albums, err := DiscoverAlbums(root)

	assert.Nil(t, albums)
	require.Error(t, err)
	assert.True(t, apperrors.IsFilesystem(err))
}

func TestDiscoverAll_FailureYieldsNothing(t *testing.T) {
	good, bad := t.TempDir(), t.TempDir()
	writeFiles(t, good, "A/1.mp3")
	writeFiles(t, bad, "B/2.mp3")
	writeLoop(t, filepath.Join(bad, "B"))

	albums, err := DiscoverAll([]string{good, bad})

	assert.Nil(t, albums)
	assert.True(t, apperrors.IsFilesystem(err))
}

func TestMaterializeAlbum_LoopYieldsNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "Album/01.mp3", "Album/CD2/02.mp3")
	writeLoop(t, filepath.Join(root, "Album", "CD2"))

	tracks, err := MaterializeAlbum(filepath.Join(root, "Album"))

	assert.Nil(t, tracks)
	require.Error(t, err)
	assert.True(t, apperrors.IsFilesystem(err))
}

func TestMaterializeAll(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a/1.mp3", "a/2.mp3", "b/1.mp3")

	dirs := []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "missing"),
		filepath.Join(root, "b"),
	}
	results, err := MaterializeAll(context.Background(), dirs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, dirs[0], results[0].Dir)
	assert.Len(t, results[0].Tracks, 2)
	assert.NoError(t, results[0].Err)

	assert.True(t, apperrors.IsValidation(results[1].Err))
	assert.Empty(t, results[1].Tracks)

	assert.Len(t, results[2].Tracks, 1)
}

func TestMaterializeAllFunc_ReportsEachAlbum(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a/1.mp3", "b/1.mp3", "c/1.mp3")

	var mu sync.Mutex
	var seen []string
	dirs := []string{filepath.Join(root, "a"), filepath.Join(root, "b"), filepath.Join(root, "c")}

	_, err := MaterializeAllFunc(context.Background(), dirs, 3, func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Dir)
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, dirs, seen)
}

func TestMaterializeAll_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a/1.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := MaterializeAll(ctx, []string{filepath.Join(root, "a")}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestWatcher_SignalsOnChange(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "Album/01.mp3")

	w, err := NewWatcher(root, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	writeFiles(t, root, "Album/02.mp3")

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
