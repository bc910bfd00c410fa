package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	"github.com/handiism/xspf-curator/internal/collection"
	"github.com/handiism/xspf-curator/internal/config"
	"github.com/handiism/xspf-curator/internal/curator"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/handiism/xspf-curator/internal/playlist"
	"github.com/handiism/xspf-curator/internal/scanner"
)

// State represents the current UI state.
type State int

const (
	StateDiscovering State = iota
	StateBrowse
	StateApplying
)

type pane int

const (
	paneLibrary pane = iota
	paneSelection
)

// action is a discarding operation that waits on the unsaved-changes prompt.
type action int

const (
	actionNone action = iota
	actionNew
	actionQuit
)

const maxLogs = 6

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   curator.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	focus    pane
	filter   textinput.Model
	spinner  spinner.Model
	progress progress.Model

	settings *config.Settings
	manager  *curator.Manager
	logger   hclog.Logger
	events   chan curator.ProgressEvent
	watchers []*scanner.Watcher

	// library holds discovered albums behind the filter; selection is the
	// set of album keys to apply, in selection order.
	library   *collection.Collection[model.AlbumDir]
	selection *collection.Collection[model.AlbumDir]
	cursors   [2]int

	// confirm is the action held back until the user saves or discards
	// a modified playlist.
	confirm action

	logs []LogEntry
	err  error

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model over store.
func NewModel(settings *config.Settings, store *playlist.Store, logger hclog.Logger) Model {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "filter albums"
	ti.CharLimit = 200
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	events := make(chan curator.ProgressEvent, 64)
	manager := curator.NewManager(settings, store, func(event curator.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	}, curator.WithLogger(logger))

	selection := collection.New[model.AlbumDir]()
	for _, key := range store.Albums() {
		selection.Insert(model.AlbumDir(key))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateDiscovering,
		filter:    ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		manager:   manager,
		logger:    logger,
		events:    events,
		library:   collection.New[model.AlbumDir](),
		selection: selection,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Message types
type (
	// ProgressMsg carries a progress event from the manager.
	ProgressMsg struct {
		Event curator.ProgressEvent
	}

	// DiscoveredMsg is sent when album discovery completes.
	DiscoveredMsg struct {
		Albums []model.AlbumDir
		Err    error
	}

	// PreparedMsg is sent when the albums to add have been scanned.
	PreparedMsg struct {
		Changes *curator.Changes
		Err     error
	}

	// LibraryChangedMsg is sent when a watched root changes on disk.
	LibraryChangedMsg struct {
		Watcher int
	}

	// WatchErrMsg is sent when a watcher reports an error.
	WatchErrMsg struct {
		Watcher int
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.discover(), m.waitForEvent()}
	for i := range m.watchers {
		cmds = append(cmds, m.waitForChange(i))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if m.confirm != actionNone {
			return m.handleConfirm(msg)
		}
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.appendLog(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case DiscoveredMsg:
		m.state = StateBrowse
		if msg.Err != nil {
			m.err = msg.Err
			break
		}
		m.err = nil
		m.library.Replace(msg.Albums)
		m.clampCursors()

	case PreparedMsg:
		m.state = StateBrowse
		switch {
		case msg.Err != nil:
			m.err = msg.Err
		case msg.Changes.Empty():
			m.appendLog(curator.ProgressEvent{Message: "Playlist already matches the selection", Level: curator.LevelInfo})
		default:
			m.err = m.manager.Commit(msg.Changes)
		}

	case LibraryChangedMsg:
		cmds = append(cmds, m.waitForChange(msg.Watcher))
		if m.state == StateBrowse {
			m.state = StateDiscovering
			cmds = append(cmds, m.discover(), m.spinner.Tick)
		}

	case WatchErrMsg:
		m.logger.Warn("watcher error", "error", msg.Err)
		cmds = append(cmds, m.waitForChange(msg.Watcher))

	case TickMsg:
		if m.state == StateApplying {
			scanned, total := m.manager.GetProgress()
			var percent float64
			if total > 0 {
				percent = float64(scanned) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.request(actionQuit)
	case "enter", "esc", "tab":
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != m.library.Filter() {
		m.library.SetFilter(m.filter.Value())
		m.clampCursors()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m.request(actionQuit)

	case "tab":
		m.focus = 1 - m.focus

	case "up", "k":
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}

	case "down", "j":
		if m.cursors[m.focus] < m.paneLen(m.focus)-1 {
			m.cursors[m.focus]++
		}

	case "/":
		m.focus = paneLibrary
		cmd := m.filter.Focus()
		return m, cmd

	case "enter", " ":
		m.toggle()

	case "a":
		if m.state == StateBrowse {
			m.state = StateApplying
			m.err = nil
			return m, tea.Batch(m.prepare(), m.spinner.Tick, m.tickProgress())
		}

	case "s":
		if m.state == StateBrowse {
			if _, err := m.manager.Save(""); err != nil {
				m.err = err
			}
		}

	case "r":
		if m.state == StateBrowse {
			m.state = StateDiscovering
			return m, tea.Batch(m.discover(), m.spinner.Tick)
		}

	case "n":
		if m.state == StateBrowse {
			return m.request(actionNew)
		}
	}

	return m, nil
}

// request runs a discarding action, or asks first when the playlist has
// unsaved changes.
func (m Model) request(a action) (tea.Model, tea.Cmd) {
	if m.manager.Store().IsModified() {
		m.confirm = a
		return m, nil
	}
	return m.perform(a)
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.confirm
	switch msg.String() {
	case "s", "y":
		m.confirm = actionNone
		if _, err := m.manager.Save(""); err != nil {
			m.err = err
			return m, nil
		}
		return m.perform(a)

	case "d", "n":
		m.confirm = actionNone
		return m.perform(a)

	case "esc", "c":
		m.confirm = actionNone

	case "ctrl+c":
		// A second interrupt quits without saving.
		return m.quit()
	}
	return m, nil
}

func (m Model) perform(a action) (tea.Model, tea.Cmd) {
	switch a {
	case actionQuit:
		return m.quit()
	case actionNew:
		m.manager.New()
		m.selection.Clear()
		m.clampCursors()
	}
	return m, nil
}

// toggle adds the highlighted library album to the selection, or removes
// the highlighted selection entry.
func (m *Model) toggle() {
	i := m.cursors[m.focus]
	if i >= m.paneLen(m.focus) {
		return
	}

	switch m.focus {
	case paneLibrary:
		album := m.library.At(i)
		if !m.selection.Contains(album) {
			m.selection.Insert(album)
		}
	case paneSelection:
		m.selection.RemoveAt(i)
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	for p := range m.cursors {
		n := m.paneLen(pane(p))
		if m.cursors[p] >= n {
			m.cursors[p] = max(n-1, 0)
		}
	}
}

func (m Model) paneLen(p pane) int {
	if p == paneLibrary {
		return m.library.Len()
	}
	return m.selection.Len()
}

func (m *Model) appendLog(event curator.ProgressEvent) {
	if event.Level == curator.LevelVerbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	for _, w := range m.watchers {
		w.Close()
	}
	return m, tea.Quit
}

// targets returns the selection as directories for the manager.
func (m Model) targets() []string {
	albums := m.selection.SnapshotAll()
	dirs := make([]string, len(albums))
	for i, album := range albums {
		dirs[i] = string(album)
	}
	return dirs
}

func (m Model) discover() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		albums, err := manager.Discover(ctx)
		return DiscoveredMsg{Albums: albums, Err: err}
	}
}

// prepare scans the albums to add off the UI goroutine. The merge happens
// in Update when PreparedMsg arrives.
func (m Model) prepare() tea.Cmd {
	manager, ctx, targets := m.manager, m.ctx, m.targets()
	return func() tea.Msg {
		changes, err := manager.Prepare(ctx, targets)
		return PreparedMsg{Changes: changes, Err: err}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

func (m Model) waitForChange(i int) tea.Cmd {
	w := m.watchers[i]
	return func() tea.Msg {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return nil
			}
			return LibraryChangedMsg{Watcher: i}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return WatchErrMsg{Watcher: i, Err: err}
		}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("xspf-curator"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.playlistLine()))
	b.WriteString("\n\n")

	if !m.settings.HasValidLocations() {
		b.WriteString(warningStyle.Render("! Some locations are not set; check the settings file."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.filter.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPane(paneLibrary, fmt.Sprintf("Library (%d)", m.library.Len())),
		" ",
		m.renderPane(paneSelection, fmt.Sprintf("Selection (%d)", m.selection.Len())),
	))
	b.WriteString("\n")

	switch m.state {
	case StateDiscovering:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Discovering albums..."))
		b.WriteString("\n")
	case StateApplying:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Scanning albums..."))
		b.WriteString("\n")
		b.WriteString(m.progress.View())
		b.WriteString("\n")
	}

	if m.confirm != actionNone {
		b.WriteString(warningStyle.Render("! The playlist has unsaved changes. Save them? (s: save, d: discard, esc: cancel)"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) playlistLine() string {
	store := m.manager.Store()
	name := store.SourceLocation()
	if name == "" {
		name = "new playlist"
	}
	if store.IsModified() {
		name += " *"
	}
	return fmt.Sprintf("%s, %d tracks in %d albums", name, store.Len(), len(store.Albums()))
}

func (m Model) renderPane(p pane, title string) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(title))
	b.WriteString("\n")

	rows := m.visibleRows()
	n := m.paneLen(p)
	start := max(0, m.cursors[p]-rows+1)
	for i := start; i < n && i < start+rows; i++ {
		var album model.AlbumDir
		if p == paneLibrary {
			album = m.library.At(i)
		} else {
			album = m.selection.At(i)
		}

		line := "  " + album.Name()
		if p == paneLibrary && m.selection.Contains(album) {
			line = "✓ " + album.Name()
		}
		if i == m.cursors[p] && p == m.focus {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if n == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
	}

	style := paneStyle
	if p == m.focus {
		style = focusedPaneStyle
	}
	return style.Width(m.paneWidth()).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) visibleRows() int {
	if m.height == 0 {
		return 15
	}
	return max(m.height-18, 5)
}

func (m Model) paneWidth() int {
	if m.width == 0 {
		return 36
	}
	return max(m.width/2-4, 20)
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case curator.LevelError:
			style = errorStyle
			prefix = "✗"
		case curator.LevelWarning:
			style = warningStyle
			prefix = "!"
		case curator.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case curator.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	if m.confirm != actionNone {
		return "s: save • d: discard • esc: cancel"
	}
	if m.filter.Focused() {
		return "enter/esc: done filtering"
	}
	switch m.state {
	case StateDiscovering, StateApplying:
		return "q: quit"
	}
	return "/: filter • tab: pane • enter: toggle • a: apply • s: save • r: rescan • n: new • q: quit"
}

// Options configures Run.
type Options struct {
	Settings *config.Settings
	Store    *playlist.Store
	Logger   hclog.Logger

	// Watch rediscovers albums when a music root changes on disk.
	Watch bool
}

// Run starts the TUI application.
func Run(opts Options) error {
	m := NewModel(opts.Settings, opts.Store, opts.Logger)

	if opts.Watch {
		for _, root := range config.MusicRoots(opts.Settings) {
			w, err := scanner.NewWatcher(root, opts.Settings.WatchDebounce())
			if err != nil {
				m.logger.Warn("cannot watch music root", "root", root, "error", err)
				continue
			}
			m.watchers = append(m.watchers, w)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	for _, w := range m.watchers {
		w.Close()
	}
	return err
}
