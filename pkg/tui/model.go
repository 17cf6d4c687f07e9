// Package tui is the terminal front end of the dataset browser.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/dsxplorer/pkg/browser"
)

const (
	maxColumnWidth = 48
	// lines used around the table by the header and the footer
	chromeHeight   = 9
	defaultHeight  = 20
	selectedMarker = "*"
)

// changedMsg tells the model the browser state moved.
type changedMsg struct{}

// noticeMsg is a notification emitted by the browser.
type noticeMsg struct {
	message  string
	severity browser.Severity
}

// selectionMsg carries the URI of the first selected item.
type selectionMsg struct {
	uri string
}

// Events carries the browser callbacks into the bubbletea program. It is the
// Notifier given to the browser; state changes are coalesced.
type Events struct {
	ch chan tea.Msg
}

// NewEvents creates the event queue of one program.
func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, 64)}
}

// Notify queues a notification. It never blocks the browser; notifications
// are dropped when the program is not keeping up.
func (e *Events) Notify(message string, severity browser.Severity) {
	e.send(noticeMsg{message: message, severity: severity})
}

func (e *Events) changed(browser.State) {
	e.send(changedMsg{})
}

func (e *Events) selected(uri string) {
	e.send(selectionMsg{uri: uri})
}

func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

func (e *Events) listen() tea.Cmd {
	return func() tea.Msg {
		return <-e.ch
	}
}

// Model is the bubbletea model displaying one browser.
type Model struct {
	browser *browser.Browser
	events  *Events

	state     browser.State
	view      browser.TableConfig
	location  string
	selected  map[int]bool
	selection string
	notice    *noticeMsg
	filtering bool

	table   table.Model
	filter  textinput.Model
	keyMap  KeyMap
	help    help.Model
	spinner spinner.Model

	windowWidth  int
	windowHeight int
}

// New creates the model of b. events must be the notifier b was created
// with so that its notifications reach the screen.
func New(b *browser.Browser, events *Events) *Model {
	if events == nil {
		events = NewEvents()
	}
	b.OnChange(events.changed)
	b.OnSelectionChange(events.selected)

	t := table.New(
		table.WithHeight(defaultHeight),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.CharLimit = 256

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	m := &Model{
		browser:      b,
		events:       events,
		selected:     map[int]bool{},
		table:        t,
		filter:       ti,
		keyMap:       DefaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		windowWidth:  80,
		windowHeight: defaultHeight + chromeHeight,
	}
	m.sync()
	return m
}

// Init implements the bubbletea.Model interface
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.events.listen(), m.spinner.Tick)
}

// Update implements the bubbletea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.sync()
		return m, m.events.listen()

	case noticeMsg:
		m.notice = &msg
		return m, m.events.listen()

	case selectionMsg:
		m.selection = msg.uri
		return m, m.events.listen()

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(3, msg.Height-chromeHeight))
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilter(msg)
		}
		return m.handleNavigation(msg)
	}
	return m, nil
}

func (m *Model) handleFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Apply):
		m.filtering = false
		m.filter.Blur()
		m.table.Focus()
		m.browser.SetFilterText(m.filter.Value())
		return m, nil
	case key.Matches(msg, m.keyMap.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.table.Focus()
		m.filter.SetValue(m.state.Filter.FilteringTextDisplay)
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *Model) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Open):
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		if _, err := m.browser.OpenRow(row.Index); err != nil {
			m.notice = &noticeMsg{message: err.Error(), severity: browser.SeverityError}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Back):
		crumbs := m.state.Breadcrumbs
		if len(crumbs) < 2 {
			return m, nil
		}
		if err := m.browser.NavigateHref(crumbs[len(crumbs)-2].Href); err != nil {
			m.notice = &noticeMsg{message: err.Error(), severity: browser.SeverityError}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Filter):
		m.filtering = true
		m.table.Blur()
		m.filter.SetValue(m.state.Filter.FilteringTextDisplay)
		m.filter.CursorEnd()
		return m, m.filter.Focus()

	case key.Matches(msg, m.keyMap.NextPage):
		p := m.state.Pagination
		if p.CurrentPageIndex < p.PagesCount || p.OpenEnd {
			m.browser.SetPage(p.CurrentPageIndex + 1)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevPage):
		if p := m.state.Pagination; p.CurrentPageIndex > 1 {
			m.browser.SetPage(p.CurrentPageIndex - 1)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Select):
		row, ok := m.currentRow()
		if !ok || !row.Selectable {
			return m, nil
		}
		if m.selected[row.Index] {
			delete(m.selected, row.Index)
		} else {
			m.selected[row.Index] = true
		}
		indexes := make([]int, 0, len(m.selected))
		for i := range m.selected {
			indexes = append(indexes, i)
		}
		slices.Sort(indexes)
		m.browser.Select(indexes)
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		m.notice = nil
		m.browser.Refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) currentRow() (browser.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return browser.Row{}, false
	}
	return m.view.Rows[i], true
}

// sync reads the browser state and rebuilds the table.
func (m *Model) sync() {
	m.state = m.browser.State()
	m.view = m.browser.Table()

	location := browser.EncodeHref(m.state.Context)
	moved := location != m.location
	m.location = location
	if len(m.state.SelectedItems) == 0 {
		clear(m.selected)
	}

	cursor := m.table.Cursor()
	if moved {
		cursor = 0
		if !m.filtering {
			m.filter.SetValue(m.state.Filter.FilteringTextDisplay)
		}
	}

	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		marker := ""
		if r.Selected {
			marker = selectedMarker
		}
		rows = append(rows, append(table.Row{marker}, r.Cells...))
	}
	// rows are cleared first, the table renders them against the new columns
	m.table.SetRows(nil)
	m.table.SetColumns(columns(m.view))
	m.table.SetRows(rows)
	m.table.SetCursor(min(cursor, max(len(rows)-1, 0)))
}

func columns(view browser.TableConfig) []table.Column {
	cols := []table.Column{{Title: "", Width: len(selectedMarker)}}
	for i, c := range view.Columns {
		width := lipgloss.Width(c.Header)
		for _, r := range view.Rows {
			if i < len(r.Cells) {
				width = max(width, lipgloss.Width(r.Cells[i]))
			}
		}
		cols = append(cols, table.Column{Title: c.Header, Width: min(width, maxColumnWidth)})
	}
	return cols
}

// View implements the bubbletea.Model interface
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.breadcrumbs())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.view.Title))
	b.WriteString("\n\n")

	if len(m.view.Rows) == 0 && !m.state.Loading {
		b.WriteString(emptyStyle.Render(m.view.Empty))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	b.WriteString(m.status())
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(m.filter.View())
	case m.state.Filter.FilteringTextDisplay != "":
		b.WriteString(statusStyle.Render("Filter: " + m.state.Filter.FilteringTextDisplay))
	default:
		b.WriteString(statusStyle.Render(m.view.FilterPlaceholder))
	}
	b.WriteString("\n")

	if m.selection != "" {
		b.WriteString(selectionStyle.Render("Selected: " + m.selection))
	}
	b.WriteString("\n")

	if m.notice != nil {
		style, ok := noticeStyles[m.notice.severity]
		if !ok {
			style = noticeStyles[browser.SeverityInfo]
		}
		b.WriteString(style.Render(m.notice.message))
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keyMap))
	return b.String()
}

func (m *Model) breadcrumbs() string {
	crumbs := m.state.Breadcrumbs
	parts := make([]string, 0, len(crumbs))
	for i, c := range crumbs {
		if i == len(crumbs)-1 {
			parts = append(parts, currentCrumbStyle.Render(c.Text))
			continue
		}
		parts = append(parts, crumbStyle.Render(c.Text))
	}
	return strings.Join(parts, crumbStyle.Render(" / "))
}

func (m *Model) status() string {
	if m.state.Loading {
		return m.spinner.View() + statusStyle.Render(" Loading")
	}
	p := m.state.Pagination
	pages := fmt.Sprintf("%d", p.PagesCount)
	if p.OpenEnd {
		pages += "+"
	}
	return statusStyle.Render(fmt.Sprintf("%s · %d items · page %d of %s",
		m.state.Mode(), len(m.state.Filter.FilteredItems), p.CurrentPageIndex, pages))
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(b *browser.Browser, events *Events) error {
	p := tea.NewProgram(New(b, events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
