package output

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/handiism/xspf-curator/internal/model"
)

// AlbumMarker prefixes tree nodes that are albums.
const AlbumMarker = "* "

// AlbumTree lays discovered albums out as a directory tree under a root.
type AlbumTree struct {
	label  string
	root   string
	albums map[string]bool
}

// NewAlbumTree creates an empty tree labelled with root. Albums are placed
// relative to the absolute form of root, so a relative root matches the
// absolute paths discovery returns.
func NewAlbumTree(root string) *AlbumTree {
	label := filepath.Clean(root)
	abs := label
	if a, err := filepath.Abs(root); err == nil {
		abs = a
	}
	return &AlbumTree{label: label, root: abs, albums: make(map[string]bool)}
}

// Insert records album. It reports false when album is not under the
// tree's root.
func (t *AlbumTree) Insert(album model.AlbumDir) bool {
	dir := filepath.Clean(string(album))
	if a, err := filepath.Abs(dir); err == nil {
		dir = a
	}
	rel, err := filepath.Rel(t.root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	t.albums[filepath.ToSlash(rel)] = true
	return true
}

// Render prints the tree. Albums are marked with AlbumMarker; directories
// that only group albums are not.
func (t *AlbumTree) Render() string {
	rootLabel := t.label
	if t.albums["."] {
		rootLabel = AlbumMarker + rootLabel
	}
	tree := gotree.New(rootLabel)
	dirs := map[string]gotree.Tree{".": tree}

	paths := make([]string, 0, len(t.albums))
	for p := range t.albums {
		if p != "." {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var getDir func(string) gotree.Tree
	getDir = func(p string) gotree.Tree {
		if dir, ok := dirs[p]; ok {
			return dir
		}
		parent := getDir(parentOf(p))
		label := baseOf(p)
		if t.albums[p] {
			label = AlbumMarker + label
		}
		dir := parent.Add(label)
		dirs[p] = dir
		return dir
	}

	for _, p := range paths {
		getDir(p)
	}
	return tree.Print()
}

// RenderAlbums renders one tree per root. Albums outside every root are
// ignored.
func RenderAlbums(roots []string, albums []model.AlbumDir) string {
	var b strings.Builder
	for _, root := range roots {
		tree := NewAlbumTree(root)
		for _, album := range albums {
			tree.Insert(album)
		}
		b.WriteString(tree.Render())
	}
	return b.String()
}

func parentOf(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return "."
}

func baseOf(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}
