package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatos/pog/internal/logging"
	"github.com/pmatos/pog/internal/prefs"
	"github.com/pmatos/pog/internal/search"
	"github.com/pmatos/pog/internal/server"
	"github.com/pmatos/pog/internal/source"
	"github.com/pmatos/pog/internal/worker"
)

const (
	// defaultPageLines sizes the first lines request, before the terminal
	// reports its dimensions.
	defaultPageLines = 50

	// searchBufferLines is how far past the viewport a windowed search
	// extends, split evenly between both sides by search.SearchWindow.
	searchBufferLines = 100
)

// Options configures the UI.
type Options struct {
	Context        context.Context
	Source         source.Source
	Worker         *worker.Worker
	ServerRequests <-chan server.Request
	FileSize       int64
	ThemeName      string
	HideGutter     bool
	PrefsPath      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	worker      *worker.Worker
	serverReqs  <-chan server.Request
	prefsPath   string
	displayName string
	totalLines  int
	fileSize    int64

	// UI state
	theme      Theme
	keys       keyMap
	hideGutter bool
	width      int
	height     int
	ready      bool
	showHelp   bool

	// Viewport state
	topLine         int
	lines           []source.NumberedLine
	latestRequestID uint64
	latestSearchID  uint64

	// Marks and search
	marks        Marks
	session      *search.Session
	searchActive bool
	searchInput  textinput.Model
	searchInfo   string

	errMsg string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "regex pattern"
	ti.CharLimit = 200

	return Model{
		ctx:         ctx,
		worker:      opts.Worker,
		serverReqs:  opts.ServerRequests,
		prefsPath:   prefsPath,
		displayName: opts.Source.DisplayName(),
		totalLines:  opts.Source.LineCount(),
		fileSize:    opts.FileSize,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		hideGutter:  opts.HideGutter,
		marks:       make(Marks),
		session:     search.NewSession(),
		searchInput: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		waitForWorker(m.worker.Responses()),
	}
	if m.serverReqs != nil {
		cmds = append(cmds, waitForServer(m.serverReqs))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.requestLines()
		return m, nil

	case workerRespMsg:
		m.handleWorkerResponse(msg.resp)
		return m, waitForWorker(m.worker.Responses())

	case serverReqMsg:
		msg.req.Reply <- m.handleCommand(msg.req.Command)
		return m, waitForServer(m.serverReqs)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	styles := m.theme.Styles()

	if m.showHelp {
		return m.renderHelp(styles)
	}

	var b strings.Builder
	b.WriteString(m.renderLines(styles))
	b.WriteString("\n")
	if m.searchActive {
		b.WriteString(m.renderSearchBar(styles))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(styles))
	return b.String()
}

// pageLines is the number of file lines the viewport shows. Two rows are
// reserved for the search and status bars.
func (m Model) pageLines() int {
	if m.height == 0 {
		return defaultPageLines
	}
	if m.height <= 3 {
		return 1
	}
	return m.height - 2
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleGutter):
		m.hideGutter = !m.hideGutter
		m.savePrefs()

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.findMatch(search.Forward)

	case key.Matches(msg, m.keys.PrevMatch):
		m.findMatch(search.Backward)

	case key.Matches(msg, m.keys.Escape):
		if m.session.Active() {
			m.clearSearch()
		}

	case key.Matches(msg, m.keys.Down):
		m.scrollTo(m.topLine + 1)

	case key.Matches(msg, m.keys.Up):
		m.scrollTo(m.topLine - 1)

	case key.Matches(msg, m.keys.PageDown):
		m.scrollTo(m.topLine + m.pageLines())

	case key.Matches(msg, m.keys.PageUp):
		m.scrollTo(m.topLine - m.pageLines())

	case key.Matches(msg, m.keys.HalfPageDown):
		m.scrollTo(m.topLine + m.pageLines()/2)

	case key.Matches(msg, m.keys.HalfPageUp):
		m.scrollTo(m.topLine - m.pageLines()/2)

	case key.Matches(msg, m.keys.Top):
		m.scrollTo(0)

	case key.Matches(msg, m.keys.Bottom):
		m.scrollTo(m.totalLines - m.pageLines())
	}

	return m, nil
}

// handleSearchInput handles keyboard input while the search bar is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		pattern := m.searchInput.Value()
		if pattern == "" {
			m.closeSearchBar()
			return m, nil
		}
		if err := m.session.SetPattern(pattern); err != nil {
			m.searchInfo = err.Error()
			return m, nil
		}
		m.searchInfo = "Searching..."
		m.closeSearchBar()
		m.submitSearch(true)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closeSearchBar()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) closeSearchBar() {
	m.searchActive = false
	m.searchInput.Blur()
}

// clearSearch ends the session and redraws without highlights.
func (m *Model) clearSearch() {
	m.session.Clear()
	m.searchInfo = ""
	m.searchInput.SetValue("")
	m.requestLines()
}

// findMatch submits an asynchronous find-next scan from the viewport top.
func (m *Model) findMatch(dir search.Direction) {
	if !m.session.Active() {
		return
	}
	m.worker.Submit(worker.FindNextMatch{
		Pattern:   m.session.Pattern(),
		FromLine:  m.topLine,
		Direction: dir,
		RequestID: worker.NextRequestID(),
	})
}

// scrollTo moves the viewport top, requests the new page, and re-runs the
// windowed search when the viewport has escaped the searched range.
func (m *Model) scrollTo(line int) {
	maxTop := m.totalLines - m.pageLines()
	if maxTop < 0 {
		maxTop = 0
	}
	if line > maxTop {
		line = maxTop
	}
	if line < 0 {
		line = 0
	}
	m.topLine = line
	m.requestLines()

	if m.session.Active() && m.session.NeedsResearch(m.topLine, m.pageLines(), searchBufferLines) {
		m.submitSearch(false)
	}
}

// requestLines asks the worker for the current page. The request ID makes
// stale responses droppable once a newer request exists.
func (m *Model) requestLines() {
	id := worker.NextRequestID()
	m.latestRequestID = id
	m.worker.Submit(worker.GetLines{
		Start:     m.topLine,
		Count:     m.pageLines(),
		RequestID: id,
	})
}

// submitSearch runs the session pattern over the window around the current
// viewport.
func (m *Model) submitSearch(navigateToFirst bool) {
	start, end := search.SearchWindow(m.topLine, m.pageLines(), searchBufferLines, m.totalLines)
	id := worker.NextRequestID()
	m.latestSearchID = id
	m.worker.Submit(worker.SearchRange{
		Pattern:         m.session.Pattern(),
		StartLine:       start,
		EndLine:         end,
		RequestID:       id,
		NavigateToFirst: navigateToFirst,
	})
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, HideGutter: m.hideGutter}); err != nil {
		logging.Log(logging.CompUI).Warn("failed to save prefs", "error", err)
	}
}

// handleWorkerResponse applies one worker response to the model.
func (m *Model) handleWorkerResponse(resp any) {
	switch r := resp.(type) {
	case worker.Lines:
		// Only display the most recent request; scroll bursts over a slow
		// source settle on the final position.
		if r.RequestID == m.latestRequestID {
			m.lines = r.Lines
			m.topLine = r.Start
			m.errMsg = ""
		}

	case worker.Error:
		m.errMsg = r.Message
		logging.Log(logging.CompUI).Error("worker request failed", "error", r.Message)

	case worker.SearchResults:
		// A newer search supersedes this one; dropping keeps a scroll-burst
		// of re-searches from replaying intermediate windows.
		if r.RequestID != m.latestSearchID {
			return
		}
		m.session.Update(r.Matches, r.SearchedStart, r.SearchedEnd)
		if len(r.Matches) == 0 {
			m.searchInfo = "No matches"
		} else {
			m.searchInfo = fmt.Sprintf("%d matches", len(r.Matches))
			if r.NavigateToFirst {
				if first, ok := m.session.CurrentMatch(); ok {
					m.scrollTo(first.Line)
					return
				}
			}
		}
		// Redraw with the new highlights.
		m.requestLines()

	case worker.FoundMatch:
		if r.Found {
			m.searchInfo = fmt.Sprintf("Match at line %d", r.Match.Line+1)
			m.session.SelectLine(r.Match.Line)
			m.scrollTo(r.Match.Line)
		} else {
			m.searchInfo = "No more matches"
		}
	}
}

// handleCommand applies one control-server command and builds its response.
func (m *Model) handleCommand(cmd any) server.Response {
	switch c := cmd.(type) {
	case server.Goto:
		if c.Line == 0 || c.Line > m.totalLines {
			return lineOutOfRange(c.Line, m.totalLines)
		}
		m.scrollTo(c.Line - 1)
		return server.OK("")

	case server.LineCount:
		return server.OK(strconv.Itoa(m.totalLines))

	case server.Top:
		return server.OK(strconv.Itoa(m.topLine + 1))

	case server.Size:
		return server.OK(strconv.FormatInt(m.fileSize, 10))

	case server.Mark:
		if c.Line == 0 || c.Line > m.totalLines {
			return lineOutOfRange(c.Line, m.totalLines)
		}
		if c.Region == nil {
			m.marks.MarkLine(c.Line-1, c.Color)
		} else {
			m.marks.MarkRegion(c.Line-1, c.Region.Start-1, c.Region.End-1, c.Color)
		}
		m.requestLines()
		return server.OK("")

	case server.Unmark:
		if c.Line == 0 || c.Line > m.totalLines {
			return lineOutOfRange(c.Line, m.totalLines)
		}
		var removed bool
		if c.Region == nil {
			removed = m.marks.UnmarkLine(c.Line - 1)
		} else {
			removed = m.marks.UnmarkRegion(c.Line-1, c.Region.Start-1, c.Region.End-1)
		}
		if !removed {
			return server.Errorf("line %d is not marked", c.Line)
		}
		m.requestLines()
		return server.OK("")

	case server.Search:
		if err := m.session.SetPattern(c.Pattern); err != nil {
			return server.Errorf("%s", err)
		}
		// Sync the on-screen search state with the scripted search.
		m.searchInput.SetValue(c.Pattern)
		m.searchInfo = "Searching..."
		m.submitSearch(true)
		return server.OK("")

	case server.SearchNext:
		return m.syncFindMatch(search.Forward)

	case server.SearchPrev:
		return m.syncFindMatch(search.Backward)

	case server.SearchClear:
		m.clearSearch()
		return server.OK("")
	}

	return server.Errorf("unknown command")
}

// syncFindMatch runs a find-next scan and waits for the result, so scripted
// callers get the match position in the reply.
func (m *Model) syncFindMatch(dir search.Direction) server.Response {
	if !m.session.Active() {
		return server.Errorf("no active search")
	}
	if m.session.Pattern() == "" {
		return server.Errorf("no search pattern")
	}

	reply := make(chan *worker.FindResult, 1)
	m.worker.Submit(worker.FindNextMatch{
		Pattern:   m.session.Pattern(),
		FromLine:  m.topLine,
		Direction: dir,
		RequestID: worker.NextRequestID(),
		Reply:     reply,
	})

	// Keep draining worker responses while waiting: the response channel is
	// bounded, and a backlog of earlier requests could otherwise wedge the
	// worker before it ever reaches this find request.
	for {
		select {
		case res := <-reply:
			if res == nil {
				return server.Errorf("no more matches")
			}
			return server.OK(fmt.Sprintf("%d %d %d", res.Line+1, res.Col+1, res.Length))
		case resp := <-m.worker.Responses():
			m.handleWorkerResponse(resp)
		}
	}
}

func lineOutOfRange(line, total int) server.Response {
	return server.Errorf("line out of range: requested %d, file has %d lines", line, total)
}

// Messages

type workerRespMsg struct{ resp any }

type serverReqMsg struct{ req server.Request }

// Commands

func waitForWorker(ch <-chan any) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-ch
		if !ok {
			return nil
		}
		return workerRespMsg{resp: resp}
	}
}

func waitForServer(ch <-chan server.Request) tea.Cmd {
	return func() tea.Msg {
		req, ok := <-ch
		if !ok {
			return nil
		}
		return serverReqMsg{req: req}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
