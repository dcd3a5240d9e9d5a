package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gvascope/gvascope/internal/config"
	"github.com/gvascope/gvascope/internal/gvas"
	"github.com/gvascope/gvascope/internal/intake"
	"github.com/gvascope/gvascope/internal/prefs"
	"github.com/gvascope/gvascope/internal/search"
	"github.com/gvascope/gvascope/internal/tree"
	"github.com/gvascope/gvascope/internal/watch"
)

// mode represents the current input mode.
type mode int

const (
	modeTree mode = iota
	modeSearch
	modePicker
	modePrompt
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       gvas.Uploader
	Config       config.Config
	Watch        <-chan watch.Event
	ThemeName    string
	PrefsPath    string
	InitialFiles []string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    gvas.Uploader
	cfg       config.Config
	prefsPath string
	watch     <-chan watch.Event

	// UI state
	theme    Theme
	keys     keyMap
	mode     mode
	showHelp bool
	width    int
	height   int
	ready    bool

	// Save state
	header     *gvas.SaveHeader
	tree       *tree.Tree
	engine     *search.Engine
	controller *intake.Controller
	overlay    intake.OverlayCounter

	// Tree view state
	rows     []row
	cursor   int
	viewport viewport.Model

	// Widgets
	spinner     spinner.Model
	searchInput textinput.Model
	pathInput   textinput.Model
	picker      filepicker.Model

	// searchSeq invalidates stale debounce ticks; only the latest wins.
	searchSeq int

	initialFiles []string
	lastSaveDir  string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	styles := theme.Styles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.AccentText),
	)

	si := textinput.New()
	si.Prompt = "/"
	si.Placeholder = "search names and values"
	si.CharLimit = 256

	pi := textinput.New()
	pi.Prompt = "path> "
	pi.Placeholder = "/path/to/SaveGame.sav"
	pi.CharLimit = 1024

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.UserHomeDir()
	fp.ShowHidden = false

	return Model{
		ctx:          ctx,
		client:       opts.Client,
		cfg:          opts.Config,
		prefsPath:    prefsPath,
		watch:        opts.Watch,
		theme:        theme,
		keys:         DefaultKeyMap(),
		controller:   intake.New(),
		spinner:      sp,
		searchInput:  si,
		pathInput:    pi,
		picker:       fp,
		initialFiles: opts.InitialFiles,
	}
}

// Messages

type submitMsg struct {
	paths []string
}

type uploadDoneMsg struct {
	name string
	resp *gvas.UploadResponse
}

type uploadFailedMsg struct {
	name string
	err  error
}

type watchEventMsg watch.Event

type searchDebounceMsg struct {
	seq   int
	query string
}

// Commands

// uploadCmd reads the file and posts it to the decoder daemon.
func (m Model) uploadCmd(path string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	name := filepath.Base(path)
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadFailedMsg{name: name, err: err}
		}
		defer func() { _ = f.Close() }()

		resp, err := client.Upload(ctx, name, f)
		if err != nil {
			return uploadFailedMsg{name: name, err: err}
		}
		return uploadDoneMsg{name: name, resp: resp}
	}
}

// waitForWatchCmd blocks on the drop-directory event channel.
func waitForWatchCmd(ch <-chan watch.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchEventMsg(ev)
	}
}

func searchDebounceCmd(seq int, query string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if ch := m.watch; ch != nil {
		cmds = append(cmds, waitForWatchCmd(ch))
	}
	if len(m.initialFiles) > 0 {
		paths := m.initialFiles
		cmds = append(cmds, func() tea.Msg { return submitMsg{paths: paths} })
	}
	return tea.Batch(cmds...)
}

// submit runs the intake state machine and starts the upload for the first
// path. Extra paths are discarded; zero paths is a no-op.
func (m *Model) submit(paths ...string) tea.Cmd {
	file, ok := m.controller.Begin(paths)
	if !ok {
		return nil
	}
	m.lastSaveDir = filepath.Dir(file)
	return tea.Batch(m.uploadCmd(file), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, treeHeight(msg.Height))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = treeHeight(msg.Height)
		}
		m.picker.Height = treeHeight(msg.Height)
		m.refreshRows()
		return m, nil

	case submitMsg:
		cmd := m.submit(msg.paths...)
		return m, cmd

	case uploadDoneMsg:
		m.controller.Complete(msg.name)
		m.applyResponse(msg.resp)
		return m, nil

	case uploadFailedMsg:
		// The previously loaded save stays on screen.
		m.controller.Fail(msg.name, failureText(msg.err))
		return m, nil

	case watchEventMsg:
		cmd := m.handleWatchEvent(watch.Event(msg))
		return m, tea.Batch(cmd, waitForWatchCmd(m.watch))

	case searchDebounceMsg:
		if msg.seq == m.searchSeq {
			m.runSearch(msg.query)
		}
		return m, nil

	case spinner.TickMsg:
		if m.controller.State() == intake.Uploading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Route remaining messages (directory reads, cursor blinks) to the
	// active widget.
	var cmd tea.Cmd
	switch m.mode {
	case modePicker:
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.mode = modeTree
			return m, tea.Batch(cmd, m.submit(path))
		}
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case modePrompt:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

// applyResponse replaces the current save wholesale. An absent or empty
// property list still replaces the previous tree.
func (m *Model) applyResponse(resp *gvas.UploadResponse) {
	if resp == nil {
		resp = &gvas.UploadResponse{}
	}
	m.header = resp.Header
	m.tree = tree.Build(resp.Properties)
	m.engine = search.New(m.tree)
	m.searchInput.SetValue("")
	m.searchSeq++
	m.cursor = 0
	m.refreshRows()
	if m.ready {
		m.viewport.GotoTop()
	}
}

// handleWatchEvent maps drop-directory activity onto the overlay counter and
// submits files once they have settled.
func (m *Model) handleWatchEvent(ev watch.Event) tea.Cmd {
	switch ev.Kind {
	case watch.Activity:
		m.overlay.Enter()
	case watch.Ended:
		m.overlay.Leave()
	case watch.Settled:
		m.overlay.Drop()
		return m.submit(ev.Path)
	}
	return nil
}

// runSearch recomputes matches and moves the cursor to the active one.
func (m *Model) runSearch(query string) {
	if m.engine == nil {
		return
	}
	m.engine.Search(query)
	m.jumpToActive()
}

// jumpToActive refreshes visible rows (activation may have expanded
// ancestors) and scrolls the active match into view.
func (m *Model) jumpToActive() {
	m.refreshRows()
	active := m.engine.Active()
	if active == nil {
		return
	}
	if idx := m.rowIndexOf(active); idx >= 0 {
		m.cursor = idx
		m.scrollToCursor()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modePicker:
		return m.handlePickerKey(msg)
	case modePrompt:
		return m.handlePromptKey(msg)
	}

	return m.handleTreeKey(msg)
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{
				Theme:       m.theme.Name,
				LastSaveDir: m.lastSaveDir,
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.query())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		if m.engine != nil {
			m.engine.Next()
			m.jumpToActive()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.engine != nil && m.engine.Query() != "" {
			m.engine.Next()
			m.jumpToActive()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		if m.engine != nil {
			m.engine.Previous()
			m.jumpToActive()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.query() != "" {
			m.clearSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenPicker):
		m.mode = modePicker
		if m.lastSaveDir != "" {
			m.picker.CurrentDirectory = m.lastSaveDir
		}
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.PathPrompt):
		m.mode = modePrompt
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keys.Toggle):
		m.toggleAtCursor()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveCursor(-m.viewport.Height / 2)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveCursor(m.viewport.Height / 2)
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.clearSearch()
		m.mode = modeTree
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searchSeq++ // cancel any in-flight debounce
		m.runSearch(strings.TrimSpace(m.searchInput.Value()))
		m.mode = modeTree
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if after := m.searchInput.Value(); after != before {
		m.searchSeq++
		return m, tea.Batch(cmd,
			searchDebounceCmd(m.searchSeq, strings.TrimSpace(after), m.cfg.Debounce()))
	}
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.mode = modeTree
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = modeTree
		return m, tea.Batch(cmd, m.submit(path))
	}
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeTree
		m.pathInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		path := strings.TrimSpace(m.pathInput.Value())
		m.mode = modeTree
		m.pathInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.submit(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// query returns the query the engine currently holds.
func (m Model) query() string {
	if m.engine == nil {
		return ""
	}
	return m.engine.Query()
}

func (m *Model) clearSearch() {
	m.searchSeq++
	m.searchInput.SetValue("")
	m.runSearch("")
}

// failureText derives the status message for a failed upload.
func failureText(err error) string {
	var ue *gvas.UploadError
	if errors.As(err, &ue) {
		return ue.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	switch m.mode {
	case modePicker:
		return m.renderPicker()
	case modePrompt:
		return m.renderPrompt()
	}

	return m.renderMain()
}
