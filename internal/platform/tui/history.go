package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/battlesim/internal/registry"
	"github.com/vovakirdan/battlesim/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show scenario list sidebar
	sidebarWidth       = 24  // Width of scenario list sidebar
	maxBattles         = 100 // Max battles to load
)

var historyHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	NextScenario key.Binding
	PrevScenario key.Binding
	Quit         key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScenario, k.PrevScenario, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScenario, k.PrevScenario},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextScenario: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scenario"),
		),
		PrevScenario: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scenario"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded battles.
type HistoryModel struct {
	scenarios   []registry.GameInfo
	cursor      int
	store       *storage.Store
	battles     []storage.BattleRecord
	stats       *storage.ScenarioStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history browser starting at the given scenario.
// Scenarios that only exist in the database are listed after registered ones.
func NewHistoryModel(store *storage.Store, scenario string, width, height int) HistoryModel {
	h := help.New()
	h.Width = width

	m := HistoryModel{
		scenarios:   historyScenarios(store),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	for i, s := range m.scenarios {
		if s.ID == scenario {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	m.load()

	return m
}

func historyScenarios(store *storage.Store) []registry.GameInfo {
	list := registry.List()
	if store == nil {
		return list
	}

	known := make(map[string]bool, len(list))
	for _, info := range list {
		known[info.ID] = true
	}

	all, err := store.GetAllScenarioStats()
	if err != nil {
		return list
	}
	var extra []string
	for id := range all {
		if !known[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		list = append(list, registry.GameInfo{ID: id, Title: id})
	}
	return list
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Winner", Width: 12},
		{Title: "Result", Width: 12},
		{Title: "Rounds", Width: 7},
		{Title: "Seed", Width: 20},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	if tableWidth < 75 {
		// Drop the seed column on narrow terminals
		columns = columns[:4]
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Room for header, stats, help
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

// current returns the selected scenario ID.
func (m HistoryModel) current() string {
	if len(m.scenarios) == 0 {
		return ""
	}
	return m.scenarios[m.cursor].ID
}

// load fetches battles and stats for the selected scenario.
func (m *HistoryModel) load() {
	m.battles, m.stats, m.loadErr = nil, nil, nil

	if m.store != nil && len(m.scenarios) > 0 {
		id := m.current()
		m.battles, m.loadErr = m.store.RecentBattles(id, maxBattles)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetScenarioStats(id)
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded battles.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.battles))
	for i, b := range m.battles {
		winner := b.Winner
		if winner == "" {
			winner = "-"
		}
		row := table.Row{
			humanize.Time(b.CreatedAt),
			winner,
			b.Reason,
			humanize.Comma(int64(b.Rounds)),
			fmt.Sprintf("%d", b.Seed),
		}
		rows[i] = row[:len(m.table.Columns())]
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScenario):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scenarios)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevScenario):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scenarios)) % len(m.scenarios)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "BATTLE HISTORY"
	if len(m.scenarios) > 0 {
		title = fmt.Sprintf("BATTLE HISTORY - %s", m.scenarios[m.cursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(historyHelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected scenario.
func (m HistoryModel) statsLine() string {
	if m.loadErr != nil {
		return "error: " + m.loadErr.Error()
	}
	return FormatStats(m.stats)
}

// FormatStats renders scenario statistics as one line of text.
func FormatStats(st *storage.ScenarioStats) string {
	if st == nil || st.Battles == 0 {
		return "no battles recorded"
	}

	names := make([]string, 0, len(st.Wins))
	for name := range st.Wins {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := []string{fmt.Sprintf("%s battles", humanize.Comma(int64(st.Battles)))}
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, st.Wins[name]))
	}
	if st.Draws > 0 {
		parts = append(parts, fmt.Sprintf("draws %d", st.Draws))
	}
	if st.RoundLimits > 0 {
		parts = append(parts, fmt.Sprintf("round limits %d", st.RoundLimits))
	}
	parts = append(parts, fmt.Sprintf("avg %s rounds", humanize.FormatFloat("#,###.#", st.AvgRounds)))
	parts = append(parts, "last "+humanize.Time(st.LastPlayed))
	return strings.Join(parts, " | ")
}

// renderWideLayout renders the table with a scenario sidebar.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scenarios\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.scenarios {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + shorten(s.Title, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the table with the scenario name above it.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.scenarios) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.scenarios[m.cursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.battles) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No battles recorded yet.\nRun one with: battlesim run " + m.current())
	}

	return m.table.View()
}

// RunHistory runs the history browser.
func RunHistory(store *storage.Store, scenario string, width, height int) error {
	model := NewHistoryModel(store, scenario, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// centerText centers text within a given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
