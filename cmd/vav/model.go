package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daviddao/voiceagent_viewer/internal/conversation"
	"github.com/daviddao/voiceagent_viewer/internal/format"
	"github.com/daviddao/voiceagent_viewer/internal/render"
	"github.com/daviddao/voiceagent_viewer/internal/viewstate"
)

// fetcher is the part of the backend client the UI needs.
type fetcher interface {
	ListConversations(ctx context.Context) ([]conversation.Summary, error)
	GetConversation(ctx context.Context, id string) (*conversation.Detail, error)
}

// --- Messages ---

type listLoadedMsg struct {
	ticket    viewstate.Ticket
	summaries []conversation.Summary
	err       error
}

type detailLoadedMsg struct {
	ticket viewstate.Ticket
	detail *conversation.Detail
	err    error
}

// --- Key bindings ---

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
	Enter   key.Binding
	Esc     key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open conversation")),
	Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Esc, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Esc},
		{k.Refresh, k.Help, k.Quit},
	}
}

// contextHelp returns help text appropriate for the current mode.
func contextHelp(mode viewstate.Mode) string {
	if mode == viewstate.ModeDetail {
		return "j/k: scroll | esc: back to list | r: reload | ?: help | q: quit"
	}
	return "j/k: select | enter: open | r: reload | ?: help | q: quit"
}

// --- Model ---

type uiModel struct {
	ctx       context.Context
	client    fetcher
	formatter format.Formatter
	logger    *slog.Logger
	baseURL   string

	state   viewstate.State
	pending viewstate.Ticket // list fetch started by newModel
	screen  render.Screen

	// startID is opened once the first list arrives, then cleared.
	startID string

	cursor   int
	width    int
	height   int
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	showHelp bool

	lastRefresh time.Time
}

func newModel(ctx context.Context, c fetcher, f format.Formatter, logger *slog.Logger) uiModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := uiModel{
		ctx:       ctx,
		client:    c,
		formatter: f,
		logger:    logger,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		help:      help.New(),
	}
	m.state, m.pending = viewstate.New().Init()
	m.refreshScreen()
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(m.fetchList(m.pending), m.spinner.Tick)
}

func (m uiModel) fetchList(t viewstate.Ticket) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		sums, err := c.ListConversations(ctx)
		return listLoadedMsg{ticket: t, summaries: sums, err: err}
	}
}

func (m uiModel) fetchDetail(t viewstate.Ticket) tea.Cmd {
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		d, err := c.GetConversation(ctx, t.ID)
		return detailLoadedMsg{ticket: t, detail: d, err: err}
	}
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = m.contentHeight()
		if m.screen.Detail != nil {
			m.viewport.SetContent(renderDetail(m.screen.Detail, msg.Width))
		}

	case listLoadedMsg:
		if m.state.Stale(msg.ticket) {
			m.logger.Debug("stale response dropped", "op", msg.ticket.Op, "generation", m.state.Generation())
			return m, nil
		}
		m.state = m.state.ApplyList(msg.ticket, msg.summaries, msg.err)
		m.lastRefresh = time.Now()
		if msg.err != nil {
			m.logger.Error("fetch failed", "op", msg.ticket.Op, "error", msg.err)
		} else {
			m.logger.Info("conversations loaded", "count", len(msg.summaries))
		}
		m.cursor = clampCursor(m.cursor, len(m.state.Summaries))
		m.refreshScreen()

		if id := m.startID; id != "" {
			m.startID = ""
			if i := m.state.FindSummary(id); i >= 0 {
				m.cursor = i
			}
			return m.selectConversation(id)
		}

	case detailLoadedMsg:
		if m.state.Stale(msg.ticket) {
			m.logger.Debug("stale response dropped", "op", msg.ticket.Op, "id", msg.ticket.ID, "generation", m.state.Generation())
			return m, nil
		}
		m.state = m.state.ApplyDetail(msg.ticket, msg.detail, msg.err)
		if msg.err != nil {
			m.logger.Error("fetch failed", "op", msg.ticket.Op, "id", msg.ticket.ID, "error", msg.err)
		}
		m.refreshScreen()
		m.viewport.GotoTop()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.viewport.Height = m.contentHeight()

	case key.Matches(msg, keys.Refresh):
		var t viewstate.Ticket
		m.state, t = m.state.Init()
		m.refreshScreen()
		return m, m.fetchList(t)

	case key.Matches(msg, keys.Esc):
		next, err := m.state.GoBack()
		if err != nil {
			return m, nil
		}
		m.state = next
		m.refreshScreen()

	case key.Matches(msg, keys.Enter):
		if m.state.Mode != viewstate.ModeList || m.cursor >= len(m.state.Summaries) {
			return m, nil
		}
		return m.selectConversation(m.state.Summaries[m.cursor].ID)

	case key.Matches(msg, keys.Up):
		if m.state.Mode == viewstate.ModeDetail {
			m.viewport.LineUp(1)
		} else if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.state.Mode == viewstate.ModeDetail {
			m.viewport.LineDown(1)
		} else if m.cursor < len(m.state.Summaries)-1 {
			m.cursor++
		}

	default:
		if m.state.Mode == viewstate.ModeDetail {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m uiModel) selectConversation(id string) (tea.Model, tea.Cmd) {
	next, t, err := m.state.Select(id)
	if err != nil {
		if !errors.Is(err, viewstate.ErrInvalidTransition) {
			m.logger.Error("select", "id", id, "error", err)
		}
		return m, nil
	}
	m.state = next
	m.refreshScreen()
	m.logger.Debug("opening conversation", "id", id, "generation", m.state.Generation())
	return m, m.fetchDetail(t)
}

// refreshScreen re-projects the state after a transition.
func (m *uiModel) refreshScreen() {
	m.screen = render.Project(m.state, m.formatter)
	logWarnings(m.logger, m.screen.Warnings)
	if m.screen.Detail != nil {
		m.viewport.SetContent(renderDetail(m.screen.Detail, m.width))
	} else {
		m.viewport.SetContent("")
	}
}

// contentHeight is the space left for the body.
func (m uiModel) contentHeight() int {
	h := m.height - 5 // title + tabs + status + padding
	if m.showHelp {
		h -= 3
	}
	if m.screen.Banner != "" {
		h -= 2
	}
	return max(1, h)
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}
