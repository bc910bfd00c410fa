package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/handiism/xspf-curator/internal/collection"
	"github.com/handiism/xspf-curator/internal/config"
	"github.com/handiism/xspf-curator/internal/curator"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/handiism/xspf-curator/internal/output"
	"github.com/handiism/xspf-curator/internal/playlist"
	"github.com/handiism/xspf-curator/internal/scanner"
)

func (a *app) newManager(store *playlist.Store) *curator.Manager {
	if store == nil {
		store = playlist.NewStore(playlist.WithLogger(a.logger.Named("playlist")))
	}
	return curator.NewManager(a.settings, store, a.reporter(), curator.WithLogger(a.logger.Named("curator")))
}

// discover lists candidate albums, optionally as a tree, and optionally
// keeps listing them whenever the library changes.
func (a *app) discover(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	treeFlag := fs.Bool("tree", false, "Render albums as a directory tree")
	watchFlag := fs.Bool("watch", false, "Rediscover when the library changes")
	filterFlag := fs.String("filter", "", "Only list albums whose path matches every word")
	fs.Parse(args)

	manager := a.newManager(nil)
	list := func() error {
		albums, err := manager.Discover(ctx)
		if err != nil {
			return err
		}
		albums = filterAlbums(albums, *filterFlag)

		if *treeFlag {
			fmt.Print(output.RenderAlbums(config.MusicRoots(a.settings), albums))
			return nil
		}
		for _, album := range albums {
			fmt.Println(album)
		}
		return nil
	}

	if err := list(); err != nil {
		return err
	}
	if !*watchFlag {
		return nil
	}

	roots := config.MusicRoots(a.settings)
	changes := make(chan struct{}, 1)
	for _, root := range roots {
		w, err := scanner.NewWatcher(root, a.settings.WatchDebounce())
		if err != nil {
			return err
		}
		defer w.Close()

		go func() {
			for {
				select {
				case <-w.Events():
					select {
					case changes <- struct{}{}:
					default:
					}
				case err := <-w.Errors():
					a.logger.Warn("watcher error", "root", root, "error", err)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	fmt.Fprintf(os.Stderr, "Watching %s for changes...\n", a.roots())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			fmt.Printf("\n--- %s ---\n", time.Now().Format(time.TimeOnly))
			if err := list(); err != nil {
				a.logger.Error("discovery failed", "error", err)
			}
		}
	}
}

// build creates a new playlist from albums and saves it.
func (a *app) build(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outFlag := fs.String("o", "", "Playlist file to write (.xspf is appended if missing)")
	titleFlag := fs.String("title", "", "Playlist title (default: settings or file name)")
	filterFlag := fs.String("filter", "", "Select discovered albums whose path matches every word")
	fs.Parse(args)

	manager := a.newManager(nil)
	targets, err := a.targets(ctx, manager, fs.Args(), *filterFlag)
	if err != nil {
		return err
	}

	title := *titleFlag
	if title == "" {
		title = a.settings.DefaultTitle
	}
	manager.Store().SetTitle(title)

	if err := a.apply(ctx, manager, targets); err != nil {
		return err
	}

	path, err := manager.Save(*outFlag)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d tracks from %d %s\n", path, manager.Store().Len(), len(manager.Store().Albums()),
		output.Plural(len(manager.Store().Albums()), "album", "albums"))
	return nil
}

// sync makes an existing playlist's albums match the given selection.
func (a *app) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	filterFlag := fs.String("filter", "", "Select discovered albums whose path matches every word")
	dryRunFlag := fs.Bool("dry-run", false, "Print the changes without applying them")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("sync needs a playlist file")
	}
	path := fs.Arg(0)

	manager := a.newManager(nil)
	if err := manager.Open(path); err != nil {
		return err
	}

	targets, err := a.targets(ctx, manager, fs.Args()[1:], *filterFlag)
	if err != nil {
		return err
	}

	if *dryRunFlag {
		remove, add := manager.Store().Plan(targets)
		for _, key := range remove {
			fmt.Println("-", key)
		}
		for _, key := range add {
			fmt.Println("+", key)
		}
		return nil
	}

	if err := a.apply(ctx, manager, targets); err != nil {
		return err
	}
	if !manager.Store().IsModified() {
		fmt.Println("Playlist already up to date.")
		return nil
	}

	saved, err := manager.Save("")
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d tracks\n", saved, manager.Store().Len())
	return nil
}

// show prints a playlist's tracks.
func (a *app) show(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	filterFlag := fs.String("filter", "", "Only list tracks whose path matches every word")
	albumsFlag := fs.Bool("albums", false, "List album directories instead of tracks")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("show needs a playlist file")
	}

	store := playlist.NewStore(playlist.WithLogger(a.logger.Named("playlist")))
	if err := store.Load(fs.Arg(0)); err != nil {
		return err
	}

	if *albumsFlag {
		return output.WriteAlbumList(os.Stdout, store.Albums())
	}

	store.SetFilter(*filterFlag)
	return output.WriteTrackList(os.Stdout, store.Title(), store.Tracks().Active(), a.terminal)
}

// targets resolves the album selection: explicit directories when given,
// otherwise every discovered album matching filter.
func (a *app) targets(ctx context.Context, manager *curator.Manager, dirs []string, filter string) ([]string, error) {
	if len(dirs) > 0 {
		return dirs, nil
	}
	if filter == "" {
		return nil, errors.New("give album directories or a -filter over the library")
	}

	albums, err := manager.Discover(ctx)
	if err != nil {
		return nil, err
	}

	matched := filterAlbums(albums, filter)
	targets := make([]string, len(matched))
	for i, album := range matched {
		targets[i] = string(album)
	}
	a.logger.Debug("albums selected", "filter", filter, "count", len(targets))
	return targets, nil
}

// apply runs the selection through the manager with a progress bar on
// terminals.
func (a *app) apply(ctx context.Context, manager *curator.Manager, targets []string) error {
	_, add := manager.Store().Plan(targets)
	if !a.terminal || len(add) == 0 {
		return manager.Apply(ctx, targets)
	}

	bar := progressbar.NewOptions(len(add),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scanning albums"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				scanned, _ := manager.GetProgress()
				bar.Set(int(scanned))
			}
		}
	}()

	changes, err := manager.Prepare(ctx, targets)
	close(done)
	bar.Finish()
	if err != nil {
		return err
	}
	return manager.Commit(changes)
}

func filterAlbums(albums []model.AlbumDir, query string) []model.AlbumDir {
	if query == "" {
		return albums
	}
	c := collection.New[model.AlbumDir]()
	c.InsertAll(albums)
	c.SetFilter(query)
	return c.Active()
}
