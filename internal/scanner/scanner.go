package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
	"github.com/handiism/xspf-curator/internal/model"
	"golang.org/x/sync/errgroup"
)

// DiscoverAlbums returns every directory under root, root included, that
// directly contains at least one file.
//
// The walk is depth-first and a directory is reported after all of its
// children, so for /music/A/1.mp3 and /music/A/B/2.mp3 the result is
// [/music/A/B, /music/A]. Sibling order is the order os.ReadDir returns.
//
// Any read failure aborts the scan and nothing is returned.
func DiscoverAlbums(root string) ([]model.AlbumDir, error) {
	abs, err := resolveDir(root)
	if err != nil {
		return nil, err
	}

	var albums []model.AlbumDir
	if err := discover(abs, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// DiscoverAll runs DiscoverAlbums for each root and concatenates the
// results in root order. The first failing root aborts the whole call.
func DiscoverAll(roots []string) ([]model.AlbumDir, error) {
	var all []model.AlbumDir
	for _, root := range roots {
		albums, err := DiscoverAlbums(root)
		if err != nil {
			return nil, err
		}
		all = append(all, albums...)
	}
	return all, nil
}

func discover(dir string, albums *[]model.AlbumDir) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return apperrors.NewFilesystemError("album discovery failed", dir, err)
	}

	hasFiles := false
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := discover(path, albums); err != nil {
				return err
			}
			continue
		}

		isFile, err := isRegularFile(path, entry)
		if err != nil {
			return apperrors.NewFilesystemError("album discovery failed", path, err)
		}
		if isFile {
			hasFiles = true
		}
	}

	if hasFiles {
		*albums = append(*albums, model.AlbumDir(dir))
	}
	return nil
}

// MaterializeAlbum returns one Track per file anywhere beneath dir, in
// walk order. On any I/O error the tracks gathered so far are discarded.
func MaterializeAlbum(dir string) ([]model.Track, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	var tracks []model.Track
	walkErr := filepath.WalkDir(abs, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		isFile, err := isRegularFile(path, entry)
		if err != nil {
			return err
		}
		if isFile {
			tracks = append(tracks, model.NewTrack(path))
		}
		return nil
	})
	if walkErr != nil {
		return nil, apperrors.NewFilesystemError("album materialization failed", abs, walkErr)
	}

	return tracks, nil
}

// Result is the outcome of materializing one album.
type Result struct {
	Dir    string
	Tracks []model.Track
	Err    error
}

// MaterializeAll materializes dirs with at most limit scans in flight.
//
// Results are returned in the order of dirs; each carries its own error.
// The returned error is non-nil only when ctx was cancelled, in which
// case albums that had not started are reported with ctx's error.
func MaterializeAll(ctx context.Context, dirs []string, limit int) ([]Result, error) {
	return MaterializeAllFunc(ctx, dirs, limit, nil)
}

// MaterializeAllFunc is MaterializeAll with a callback invoked as each
// album finishes. done runs on the scanning goroutines and must be safe
// for concurrent use; it must not touch a playlist.
func MaterializeAllFunc(ctx context.Context, dirs []string, limit int, done func(Result)) ([]Result, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, dir := range dirs {
		results[i].Dir = dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			results[i].Tracks, results[i].Err = MaterializeAlbum(dir)
			if done != nil {
				done(results[i])
			}
			return nil
		})
	}

	return results, g.Wait()
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		return "", apperrors.NewValidationError("directory is required", "")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", apperrors.NewFilesystemError("cannot resolve directory", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewValidationError("directory does not exist", abs)
		}
		return "", apperrors.NewFilesystemError("cannot stat directory", abs, err)
	}
	if !info.IsDir() {
		return "", apperrors.NewValidationError("not a directory", abs)
	}

	return abs, nil
}

// isRegularFile reports whether entry is a regular file. Symbolic links
// count when they resolve to a regular file; dangling links and links to
// directories do not.
func isRegularFile(path string, entry fs.DirEntry) (bool, error) {
	mode := entry.Type()
	if mode.IsRegular() {
		return true, nil
	}
	if mode&fs.ModeSymlink == 0 {
		return false, nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
