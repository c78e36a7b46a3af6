package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pomojira/internal/backend"
	"github.com/five82/pomojira/internal/jira"
	"github.com/five82/pomojira/internal/logging"
	"github.com/five82/pomojira/internal/pomodoro"
	"github.com/five82/pomojira/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewSettings View = iota
	ViewIssues
	ViewTimer
)

const (
	defaultWindowTitle = "Jira Pomodoro Timer"
	msgTooShort        = "Elapsed time was under one minute, so nothing was logged to Jira."
)

// Options configures the UI.
type Options struct {
	Context        context.Context
	Service        backend.IssueService
	Store          *prefs.Store
	Logger         *slog.Logger
	RequestTimeout time.Duration

	// TickEvery, RelabelEvery, Now and CopyToClipboard default to one
	// second, thirty seconds, time.Now and the system clipboard.
	TickEvery       time.Duration
	RelabelEvery    time.Duration
	Now             func() time.Time
	CopyToClipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	service    backend.IssueService
	store      *prefs.Store
	logger     *slog.Logger
	reqTimeout time.Duration
	tickEvery  time.Duration
	relabel    time.Duration
	now        func() time.Time
	copyText   func(string) error

	// UI state
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	flash    string

	// Settings state
	settings settingsForm

	// Issue list state
	issues      []jira.Issue
	selected    int
	loading     bool
	fetchSeq    uint64
	fetchErr    string
	lastRefresh time.Time
	relabeling  bool
	minutes     int

	// Timer state
	timer      pomodoro.Timer
	submitting bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = prefs.Open(prefs.DefaultPath())
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	reqTimeout := opts.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = 20 * time.Second
	}
	tickEvery := opts.TickEvery
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	relabel := opts.RelabelEvery
	if relabel <= 0 {
		relabel = 30 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	copyText := opts.CopyToClipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	p := store.Prefs()
	m := Model{
		ctx:        ctx,
		service:    opts.Service,
		store:      store,
		logger:     logger,
		reqTimeout: reqTimeout,
		tickEvery:  tickEvery,
		relabel:    relabel,
		now:        now,
		copyText:   copyText,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:      GetTheme(p.Theme),
		minutes:    prefs.ClampMinutes(p.PomodoroMinutes),
	}

	if _, ok := store.Credentials(); ok {
		m.view = ViewIssues
		m.loading = true
		m.fetchSeq = 1
	} else {
		m.view = ViewSettings
		m.settings = newSettingsForm(prefs.Credentials{})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(defaultWindowTitle)}
	if m.loading {
		creds, _ := m.store.Credentials()
		cmds = append(cmds, m.fetchIssuesCmd(m.fetchSeq, creds), m.spinner.Tick)
	} else {
		cmds = append(cmds, textinput.Blink)
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
		m.help.Width = msg.Width
		m.settings.setWidth(msg.Width)
		m.ready = true
		return m, nil

	case issuesMsg:
		return m.handleIssues(msg)

	case tickMsg:
		return m.handleTick(msg)

	case worklogMsg:
		return m.handleWorklog(msg)

	case relabelMsg:
		// Redraws the footer's "refreshed ... ago" label.
		if m.lastRefresh.IsZero() {
			m.relabeling = false
			return m, nil
		}
		return m, m.relabelCmd()

	case spinner.TickMsg:
		if !m.loading && !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input housekeeping
	if m.view == ViewSettings {
		var cmd tea.Cmd
		m.settings.inputs[m.settings.focus], cmd = m.settings.inputs[m.settings.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Batch(tea.SetWindowTitle(defaultWindowTitle), tea.Quit)
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.view {
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewTimer:
		return m.handleTimerKey(msg)
	default:
		return m.handleIssuesKey(msg)
	}
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) && m.hasCredentials() {
		m.view = ViewIssues
		return m, nil
	}

	cmd, submit := m.settings.update(msg, m.keys)
	if !submit {
		return m, cmd
	}

	creds, ok := m.settings.credentials()
	if !ok {
		return m, nil
	}
	if err := m.store.SaveCredentials(creds); err != nil {
		// The store keeps them in memory, so the session can continue.
		m.logger.Warn("credentials not persisted", "error", err)
		m.modal = newNotice(noticeError, "Credentials could not be saved and will be forgotten on exit.\nError: "+err.Error())
	}
	m.logger.Info("credentials saved", "domain", creds.Domain, "email", creds.Email)

	m.view = ViewIssues
	m.issues = nil
	m.selected = 0
	cmd = m.startFetch()
	return m, cmd
}

func (m Model) handleIssuesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		cmd := m.startFetch()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.issues)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, len(m.issues)-1)

	case key.Matches(msg, m.keys.MoreMinutes):
		m.adjustMinutes(1)
	case key.Matches(msg, m.keys.FewerMinutes):
		m.adjustMinutes(-1)

	case key.Matches(msg, m.keys.CopyKey):
		m.copySelectedKey()

	case key.Matches(msg, m.keys.EditSettings):
		creds, _ := m.store.Credentials()
		m.settings = newSettingsForm(creds)
		m.settings.setWidth(m.width)
		m.view = ViewSettings
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ClearAuth):
		m.clearCredentials()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Start):
		return m.startTimer()
	}
	return m, nil
}

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Stop):
		if m.submitting {
			return m, nil
		}
		outcome, ok := m.timer.Stop(m.now())
		if !ok {
			return m, nil
		}
		m.logger.Info("pomodoro stopped", "issue", outcome.Issue.Key, "seconds", outcome.Seconds)
		return m.finishSession(outcome)
	}
	return m, nil
}

// startFetch requests the issue list. Any fetch already in flight is superseded.
func (m *Model) startFetch() tea.Cmd {
	creds, ok := m.store.Credentials()
	if !ok {
		return nil
	}
	m.fetchSeq++
	m.loading = true
	m.fetchErr = ""
	return tea.Batch(m.fetchIssuesCmd(m.fetchSeq, creds), m.spinner.Tick)
}

func (m Model) handleIssues(msg issuesMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Warn("fetch issues failed", "error", msg.err)
		m.fetchErr = fetchErrorText(msg.err)
		return m, nil
	}
	m.issues = msg.issues
	m.lastRefresh = msg.at
	if m.selected >= len(m.issues) {
		m.selected = max(0, len(m.issues)-1)
	}
	m.logger.Debug("issues loaded", "count", len(m.issues))
	if m.relabeling {
		return m, nil
	}
	m.relabeling = true
	return m, m.relabelCmd()
}

func (m Model) startTimer() (tea.Model, tea.Cmd) {
	if m.loading || len(m.issues) == 0 {
		return m, nil
	}
	issue := m.issues[m.selected]
	gen := m.timer.Start(issue, m.minutes, m.now())
	m.view = ViewTimer
	m.logger.Info("pomodoro started", "issue", issue.Key, "minutes", m.minutes)
	return m, tea.Batch(m.tickCmd(gen), tea.SetWindowTitle(m.windowTitle()))
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	// Ticks armed for an earlier session die here without re-arming.
	if msg.gen != m.timer.Generation() || !m.timer.Running() {
		return m, nil
	}
	outcome, done := m.timer.Tick(m.now())
	if done {
		m.logger.Info("pomodoro finished", "issue", outcome.Issue.Key, "seconds", outcome.Seconds)
		return m.finishSession(outcome)
	}
	return m, tea.Batch(m.tickCmd(msg.gen), tea.SetWindowTitle(m.windowTitle()))
}

// finishSession submits a finished session or explains why it was skipped.
func (m Model) finishSession(outcome pomodoro.Outcome) (tea.Model, tea.Cmd) {
	resetTitle := tea.SetWindowTitle(defaultWindowTitle)
	if !outcome.Loggable() {
		m.logger.Info("session under one minute, not logged", "issue", outcome.Issue.Key, "seconds", outcome.Seconds)
		m.endSession()
		m.modal = newNotice(noticeInfo, msgTooShort)
		return m, resetTitle
	}
	creds, _ := m.store.Credentials()
	m.submitting = true
	return m, tea.Batch(resetTitle, m.submitWorklogCmd(outcome, creds), m.spinner.Tick)
}

func (m Model) handleWorklog(msg worklogMsg) (tea.Model, tea.Cmd) {
	if !m.submitting {
		return m, nil
	}
	m.endSession()
	if msg.err != nil {
		m.logger.Error("add worklog failed", "issue", msg.outcome.Issue.Key, "seconds", msg.outcome.Seconds, "error", msg.err)
		m.modal = newNotice(noticeError, worklogErrorText(msg.err))
		return m, nil
	}
	m.logger.Info("worklog added", "issue", msg.outcome.Issue.Key, "seconds", msg.outcome.Seconds)
	m.modal = newNotice(noticeSuccess, fmt.Sprintf("Worklog of %d minutes added to %s.", msg.outcome.Minutes(), msg.outcome.Issue.Key))
	cmd := m.startFetch()
	return m, cmd
}

func (m *Model) endSession() {
	m.timer.Reset()
	m.submitting = false
	m.view = ViewIssues
}

func (m *Model) clearCredentials() {
	if err := m.store.ClearCredentials(); err != nil {
		m.logger.Warn("clear credentials", "error", err)
	}
	m.logger.Info("credentials cleared")
	// Invalidate any fetch still in flight for the old account.
	m.fetchSeq++
	m.loading = false
	m.issues = nil
	m.selected = 0
	m.fetchErr = ""
	m.lastRefresh = time.Time{}
	m.settings = newSettingsForm(prefs.Credentials{})
	m.settings.setWidth(m.width)
	m.view = ViewSettings
}

func (m *Model) adjustMinutes(delta int) {
	next, err := m.store.SetPomodoroMinutes(m.minutes + delta)
	m.minutes = next
	if err != nil {
		m.logger.Warn("save pomodoro length", "error", err)
		m.flash = "Could not save preferences"
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if err := m.store.SetTheme(m.theme.Name); err != nil {
		m.logger.Warn("save theme", "error", err)
	}
}

func (m *Model) copySelectedKey() {
	if len(m.issues) == 0 {
		return
	}
	issueKey := m.issues[m.selected].Key
	if err := m.copyText(issueKey); err != nil {
		m.logger.Debug("clipboard write failed", "error", err)
		m.flash = "Clipboard unavailable"
		return
	}
	m.flash = "Copied " + issueKey
}

func (m Model) hasCredentials() bool {
	_, ok := m.store.Credentials()
	return ok
}

// windowTitle mirrors the countdown in the terminal title.
func (m Model) windowTitle() string {
	if !m.timer.Running() {
		return defaultWindowTitle
	}
	return m.timer.Clock() + " - " + m.timer.Issue().Summary
}

func fetchErrorText(err error) string {
	if se, ok := backend.AsStatusError(err); ok {
		return fmt.Sprintf("Failed to fetch issues. Status: %d. Please check credentials and connection.", se.StatusCode)
	}
	return "Failed to fetch issues. Please check credentials and connection."
}

// worklogErrorText never shows transport details; those only go to the log.
func worklogErrorText(err error) string {
	se, ok := backend.AsStatusError(err)
	if !ok {
		return "Failed to log work.\nError: Server error"
	}
	detail := se.Message
	if detail == "" {
		detail = "Server error"
	}
	return fmt.Sprintf("Failed to log work. Status: %d.\nError: %s", se.StatusCode, detail)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	height := max(0, m.height-2)
	var body string
	switch m.view {
	case ViewSettings:
		body = m.renderSettings()
	case ViewTimer:
		body = m.renderTimer(height)
	default:
		body = m.renderIssues(height)
	}
	return lipgloss.NewStyle().Width(m.width).Height(height).MaxHeight(height).Render(body)
}

// Messages

type tickMsg struct {
	gen uint64
	at  time.Time
}

type relabelMsg struct{}

type issuesMsg struct {
	seq    uint64
	issues []jira.Issue
	err    error
	at     time.Time
}

type worklogMsg struct {
	outcome pomodoro.Outcome
	err     error
}

// Commands

func (m Model) tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m Model) relabelCmd() tea.Cmd {
	return tea.Tick(m.relabel, func(time.Time) tea.Msg {
		return relabelMsg{}
	})
}

func (m Model) fetchIssuesCmd(seq uint64, creds prefs.Credentials) tea.Cmd {
	parent, service, timeout, now := m.ctx, m.service, m.reqTimeout, m.now
	return func() tea.Msg {
		if service == nil {
			return issuesMsg{seq: seq, err: fmt.Errorf("no issue service configured")}
		}
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		issues, err := service.FetchIssues(ctx, creds)
		return issuesMsg{seq: seq, issues: issues, err: err, at: now()}
	}
}

func (m Model) submitWorklogCmd(outcome pomodoro.Outcome, creds prefs.Credentials) tea.Cmd {
	parent, service, timeout := m.ctx, m.service, m.reqTimeout
	return func() tea.Msg {
		if service == nil {
			return worklogMsg{outcome: outcome, err: fmt.Errorf("no issue service configured")}
		}
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		err := service.AddWorklog(ctx, creds, outcome.Issue.Key, outcome.Seconds)
		return worklogMsg{outcome: outcome, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// the context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
