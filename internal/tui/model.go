// Package tui implements an interactive, cursor-paged statement browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/alertledger/internal/cli"
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/service"
)

type navigation int

const (
	navStay navigation = iota
	navNext
	navPrev
)

// chromeHeight is the number of lines outside the table body.
const chromeHeight = 8

// Model holds the browser state. history is a stack of the cursors that
// loaded each earlier page; cursor loaded the current one.
type Model struct {
	ctx        context.Context
	err        error
	page       *service.Page
	cursor     string
	history    []string
	help       help.Model
	keymap     KeyMap
	table      table.Model
	cfg        Config
	width      int
	height     int
	loading    bool
	showDetail bool
	quitting   bool
}

// New creates a browser model. It reads nothing until Init runs.
func New(ctx context.Context, cfg Config) Model {
	widths := []int{10, 6, 18, 18, 16, 5}
	columns := make([]table.Column, len(cli.StatementHeaders))
	for i, title := range cli.StatementHeaders {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, cfg.Height-chromeHeight)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = cfg.Theme.Selected
	t.SetStyles(s)

	return Model{
		ctx:     ctx,
		cfg:     cfg,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		table:   t,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.load("", navStay)
}

func (m Model) load(cursor string, nav navigation) tea.Cmd {
	ctx, store, cfg := m.ctx, m.cfg.Storage, m.cfg
	return func() tea.Msg {
		page, err := store.ListStatements(ctx, cfg.AccountID, cfg.Filter, cursor, cfg.Limit)
		return pageLoadedMsg{page: page, cursor: cursor, nav: nav, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-chromeHeight))
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		switch msg.nav {
		case navNext:
			m.history = append(m.history, m.cursor)
		case navPrev:
			m.history = m.history[:len(m.history)-1]
		}
		m.cursor = msg.cursor
		m.page = msg.page
		m.table.SetRows(rows(msg.page.Statements))
		m.table.SetCursor(0)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Detail):
		m.showDetail = !m.showDetail
		return m, nil

	case key.Matches(msg, m.keymap.NextPage):
		if m.loading || m.page == nil || !m.page.HasMore() {
			return m, nil
		}
		m.loading = true
		return m, m.load(m.page.NextCursor, navNext)

	case key.Matches(msg, m.keymap.PrevPage):
		if m.loading || len(m.history) == 0 {
			return m, nil
		}
		m.loading = true
		return m, m.load(m.history[len(m.history)-1], navPrev)

	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.load(m.cursor, navStay)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// PageNumber is the 1-based index of the page on screen.
func (m Model) PageNumber() int {
	return len(m.history) + 1
}

// Selected returns the highlighted statement, if any.
func (m Model) Selected() *model.Statement {
	if m.page == nil {
		return nil
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.page.Statements) {
		return nil
	}
	return m.page.Statements[idx]
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	theme := m.cfg.Theme
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Statements · %s", m.cfg.AccountID)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(theme.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.page == nil:
		b.WriteString(theme.Status.Render("Loading…"))
		b.WriteString("\n")
	case len(m.page.Statements) == 0:
		b.WriteString(theme.Status.Render("No statements."))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(theme.Status.Render(m.status()))
		b.WriteString("\n")
	}

	if m.showDetail {
		if stmt := m.Selected(); stmt != nil {
			b.WriteString(cli.RenderStatement(stmt))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) status() string {
	more := "last page"
	if m.page.HasMore() {
		more = "more available"
	}
	return fmt.Sprintf("Page %d · %d statements · %s", m.PageNumber(), len(m.page.Statements), more)
}

func rows(stmts []*model.Statement) []table.Row {
	out := make([]table.Row, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, table.Row(cli.StatementRow(s)))
	}
	return out
}
