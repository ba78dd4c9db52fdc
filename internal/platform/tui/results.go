package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// Results board layout constants
const (
	minWidthForSidebar = 90 // Minimum width to show the tab sidebar
	sidebarWidth       = 20
	maxMatches         = 100
)

// fightersTab is the extra tab after the modes.
const fightersTab = "Fighters"

// ResultsKeyMap defines the key bindings for the results board.
type ResultsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel shows recent matches per mode and per-fighter totals.
type ResultsModel struct {
	tabs        []registry.GameInfo // Modes followed by the fighters tab
	tab         int
	store       *storage.Store
	matches     []storage.MatchResult
	fighters    []storage.FighterStats
	err         error
	table       table.Model
	help        help.Model
	keys        ResultsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewResultsModel creates a results board sized width x height.
func NewResultsModel(store *storage.Store, width, height int) ResultsModel {
	tabs := append(registry.List(), registry.GameInfo{ID: "", Title: fightersTab})

	h := help.New()
	h.ShowAll = false

	m := ResultsModel{
		tabs:        tabs,
		store:       store,
		keys:        DefaultResultsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.load()
	return m
}

func (m *ResultsModel) onFighters() bool {
	return m.tabs[m.tab].Title == fightersTab && m.tabs[m.tab].ID == ""
}

// columns returns the columns of the current tab, with the widest one
// stretched to the available width.
func (m *ResultsModel) columns() []table.Column {
	var cols []table.Column
	if m.onFighters() {
		cols = []table.Column{
			{Title: "Fighter", Width: 12},
			{Title: "Played", Width: 7},
			{Title: "W", Width: 4},
			{Title: "L", Width: 4},
			{Title: "D", Width: 4},
			{Title: "Win%", Width: 6},
			{Title: "Last", Width: 12},
		}
	} else {
		cols = []table.Column{
			{Title: "Date", Width: 12},
			{Title: "P1", Width: 10},
			{Title: "P2", Width: 10},
			{Title: "HP", Width: 8},
			{Title: "Winner", Width: 7},
			{Title: "End", Width: 8},
		}
	}

	avail := m.width - 6
	if m.showSidebar {
		avail -= sidebarWidth + 4
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if extra := avail - used; extra > 0 {
		cols[0].Width += min(extra, 8)
	}
	return cols
}

func (m *ResultsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load queries the store for the current tab and rebuilds the table.
func (m *ResultsModel) load() {
	m.matches, m.fighters, m.err = nil, nil, nil
	if m.store != nil {
		if m.onFighters() {
			m.fighters, m.err = m.store.FighterStats()
		} else {
			m.matches, m.err = m.store.RecentMatches(m.tabs[m.tab].ID, maxMatches)
		}
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

func (m *ResultsModel) rows() []table.Row {
	if m.onFighters() {
		rows := make([]table.Row, len(m.fighters))
		for i, f := range m.fighters {
			rows[i] = table.Row{
				f.Kind,
				fmt.Sprintf("%d", f.Matches),
				fmt.Sprintf("%d", f.Wins),
				fmt.Sprintf("%d", f.Losses),
				fmt.Sprintf("%d", f.Draws),
				fmt.Sprintf("%.0f", f.WinRate()*100),
				f.LastPlayed.Format("Jan 02 15:04"),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.P1Kind,
			r.P2Kind,
			fmt.Sprintf("%d-%d", r.P1HP, r.P2HP),
			winnerLabel(r.Winner),
			r.EndReason,
		}
	}
	return rows
}

func winnerLabel(w int) string {
	if w == 0 {
		return "draw"
	}
	return fmt.Sprintf("P%d", w)
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results board.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results board.
func (m ResultsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("RESULTS - "+m.tabs[m.tab].Title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ResultsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	for i, t := range m.tabs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.tab {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + t.Title))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", m.renderTable())
}

func (m ResultsModel) renderNarrowLayout() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(t.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + t.Title + " ")
		}
	}
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.tabs[m.tab].Title)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tabLine),
		"",
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderTable()))
}

func (m ResultsModel) renderTable() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return boxStyle.Render(emptyStyle.Render("Could not load results:\n" + m.err.Error()))
	case len(m.matches) == 0 && len(m.fighters) == 0:
		return boxStyle.Render(emptyStyle.Render("No matches recorded yet.\nFinish a fight to see it here!"))
	}
	return boxStyle.Render(m.table.View())
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ResultsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ResultsModel) IsQuitting() bool {
	return m.quitting
}

// RunResults runs the results board.
// Returns true if user wants to go back to menu, false if quitting.
func RunResults(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewResultsModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ResultsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
