package model

import (
	"path"
	"path/filepath"
	"strings"
)

// AlbumDir is a directory that directly contains at least one file.
//
// It is the item type shown by the album browser; filtering matches
// against the full directory path.
type AlbumDir string

// SearchText returns the directory path.
func (a AlbumDir) SearchText() string {
	return string(a)
}

// Equal compares album directories by normalized key.
func (a AlbumDir) Equal(other AlbumDir) bool {
	return a.Key() == other.Key()
}

// Key returns the album index key for the directory.
func (a AlbumDir) Key() string {
	return AlbumKey(string(a))
}

// Name returns the last element of the directory path.
func (a AlbumDir) Name() string {
	return path.Base(a.Key())
}

func (a AlbumDir) String() string {
	return string(a)
}

// AlbumKey normalizes a directory into the form used to index albums:
// forward slashes, no trailing separator, no "." or ".." elements.
func AlbumKey(dir string) string {
	return path.Clean(NormalizePath(dir))
}

// SplitRoots splits a list of library roots joined with the OS list
// separator (":" on Unix, ";" on Windows). Empty entries are dropped.
func SplitRoots(list string) []string {
	var roots []string
	for _, root := range filepath.SplitList(list) {
		root = strings.TrimSpace(root)
		if root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}
