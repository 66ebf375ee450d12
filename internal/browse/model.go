// Package browse provides the Bubble Tea browser for stored analysis runs.
package browse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/raplyzer/internal/corpus"
	"github.com/verte-zerg/raplyzer/internal/model"
	"github.com/verte-zerg/raplyzer/internal/phonetics"
	"github.com/verte-zerg/raplyzer/internal/report"
)

const (
	tabArtists = iota
	tabSongs
	tabRhymes
)

// Song table orderings.
const (
	orderAverage = iota
	orderLongest
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	textStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	rhymeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Model implements the Bubble Tea run browser.
type Model struct {
	run       model.Run
	cfg       model.ReportConfig
	bracketed bool

	tabs      []string
	activeTab int

	artistTable table.Model
	songTable   table.Model
	rhymes      viewport.Model

	// artistFilter restricts the song table to one artist when set.
	artistFilter string
	songOrder    int

	width  int
	height int
}

// NewModel constructs a browser over a stored run.
func NewModel(run model.Run, cfg model.ReportConfig) *Model {
	m := &Model{
		run:  run,
		cfg:  cfg,
		tabs: []string{"Artists", "Songs", "Rhymes"},
	}
	if profile, err := phonetics.Lookup(run.Lang); err == nil {
		m.bracketed = profile.Phonetic()
	}
	m.artistTable = newTable(artistColumns(), 1)
	m.songTable = newTable(songColumns(), 1)
	m.rhymes = viewport.New(0, 0)
	m.artistTable.Focus()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "enter":
			if m.activeTab == tabArtists {
				m.selectArtist()
			}
			return m, nil
		case "esc":
			if m.artistFilter != "" {
				m.artistFilter = ""
				m.refresh()
			}
			return m, nil
		case "o":
			if m.activeTab == tabSongs {
				m.songOrder = (m.songOrder + 1) % 2
				m.refresh()
			}
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabArtists:
			m.artistTable, cmd = m.artistTable.Update(msg)
		case tabSongs:
			m.songTable, cmd = m.songTable.Update(msg)
		default:
			m.rhymes, cmd = m.rhymes.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.artistTable.SetWidth(m.width)
	m.artistTable.SetHeight(max(bodyHeight-1, 1))
	m.songTable.SetWidth(m.width)
	m.songTable.SetHeight(max(bodyHeight-1, 1))
	m.rhymes.Width = m.width
	m.rhymes.Height = bodyHeight
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.artistTable.Blur()
	m.songTable.Blur()
	switch m.activeTab {
	case tabArtists:
		m.artistTable.Focus()
	case tabSongs:
		m.songTable.Focus()
	}
}

func (m *Model) selectArtist() {
	ranked := report.RankArtists(m.run.Artists)
	idx := m.artistTable.Cursor()
	if idx < 0 || idx >= len(ranked) {
		return
	}
	m.artistFilter = ranked[idx].Artist
	m.refresh()
	m.moveTab(tabSongs - m.activeTab)
}

func (m *Model) refresh() {
	m.artistTable.SetRows(artistRows(report.RankArtists(m.run.Artists)))
	m.songTable.SetRows(songRows(m.filteredSongs(), m.songOrder))
	m.songTable.GotoTop()
	m.rhymes.SetContent(m.renderRhymes())
}

func (m *Model) filteredSongs() []model.SongScore {
	if m.artistFilter == "" {
		return m.run.Songs
	}
	var out []model.SongScore
	for _, s := range m.run.Songs {
		if s.Artist == m.artistFilter {
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	summary := fmt.Sprintf("Run %s  %s  lang=%s  lookback=%d  songs=%d",
		shortID(m.run.ID), m.run.StartedAt.Local().Format("2006-01-02 15:04"),
		m.run.Lang, m.run.Lookback, len(m.run.Songs))
	if m.artistFilter != "" {
		summary += "  artist=" + corpus.DisplayName(m.artistFilter)
	}
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	switch m.activeTab {
	case tabArtists:
		help = "Nav: left/right  Songs of artist: enter  Quit: q"
	case tabSongs:
		help = "Nav: left/right  Order: o  Clear artist: esc  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabArtists:
		if len(m.run.Artists) == 0 {
			return "No artists in this run."
		}
		return tableMutedStyle.Render(m.artistTable.View())
	case tabSongs:
		if len(m.filteredSongs()) == 0 {
			return "No songs in this run."
		}
		return tableMutedStyle.Render(m.songTable.View())
	default:
		return m.rhymes.View()
	}
}

func (m *Model) renderRhymes() string {
	limit := m.cfg.TopRhymes
	if limit <= 0 {
		limit = report.DefaultTopRhymes
	}
	top := report.TopRhymes(m.filteredSongs(), limit)
	if len(top) == 0 {
		return "No rhymes found."
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	blocks := make([]string, 0, len(top))
	for i, s := range top {
		title := titleStyle.Render(fmt.Sprintf("%d. [%d] %s / %s", i+1, s.LongestLength,
			corpus.DisplayName(s.Artist), corpus.DisplayName(strings.TrimSuffix(s.Song, ".txt"))))
		blocks = append(blocks, title+"\n"+wrapExcerpt(s.LongestExcerpt, m.bracketed, width))
	}
	return strings.Join(blocks, "\n\n")
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	return t
}

func artistColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Avg", Width: 7},
		{Title: "Songs", Width: 6},
		{Title: "Words", Width: 8},
		{Title: "Vocabulary", Width: 10},
		{Title: "Artist", Width: 30},
	}
}

func songColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Avg", Width: 7},
		{Title: "Longest", Width: 8},
		{Title: "Words", Width: 6},
		{Title: "Artist", Width: 20},
		{Title: "Album", Width: 20},
		{Title: "Song", Width: 30},
	}
}

func artistRows(artists []model.ArtistScore) []table.Row {
	rows := make([]table.Row, 0, len(artists))
	for i, a := range artists {
		vocab := "-"
		if a.Vocabulary > 0 {
			vocab = strconv.Itoa(a.Vocabulary)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", a.AvgRhymeLength),
			strconv.Itoa(a.Songs),
			strconv.Itoa(a.TotalWords),
			vocab,
			corpus.DisplayName(a.Artist),
		})
	}
	return rows
}

func songRows(songs []model.SongScore, order int) []table.Row {
	sorted := append([]model.SongScore(nil), songs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == orderLongest && sorted[i].LongestLength != sorted[j].LongestLength {
			return sorted[i].LongestLength > sorted[j].LongestLength
		}
		return sorted[i].AvgRhymeLength > sorted[j].AvgRhymeLength
	})
	rows := make([]table.Row, 0, len(sorted))
	for i, s := range sorted {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", s.AvgRhymeLength),
			strconv.Itoa(s.LongestLength),
			strconv.Itoa(s.Words),
			corpus.DisplayName(s.Artist),
			corpus.DisplayName(s.Album),
			corpus.DisplayName(strings.TrimSuffix(s.Song, ".txt")),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
