// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/timesdrill/internal/model"
	"github.com/verte-zerg/timesdrill/internal/stats"
)

const (
	tabOverview = iota
	tabTables
	tabFacts
)

const plotHeight = 8

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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src      stats.Loader
	problems []model.Problem
	cfg      model.StatsConfig

	report stats.Report

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    table.Model
	facts     table.Model

	width  int
	height int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
}

// NewModel constructs a stats UI model.
func NewModel(src stats.Loader, problems []model.Problem, cfg model.StatsConfig) *Model {
	m := &Model{
		src:      src,
		problems: problems,
		cfg:      cfg,
		tabs:     []string{"Overview", "Tables", "Slowest Facts"},
		overview: viewport.New(0, 0),
		tables:   newTable(tableColumns()),
		facts:    newTable(factColumns()),
	}
	m.settingsInputs = []textinput.Model{
		newSettingsInput("Last N questions (0 = all): "),
		newSettingsInput("Curve window: "),
	}
	m.refreshReport()
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "/":
			return m.startSettings()
		case "g", "home":
			m.gotoTop()
			return m, nil
		case "G", "end":
			m.gotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabTables:
			m.tables, cmd = m.tables.Update(msg)
		case tabFacts:
			m.facts, cmd = m.facts.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
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

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 6
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable(cols []table.Column) table.Model {
	t := table.New(table.WithColumns(cols), table.WithHeight(1))
	t.SetStyles(tableStyles())
	return t
}

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Table", Width: 6},
		{Title: "Questions", Width: 9},
		{Title: "Mistakes", Width: 8},
		{Title: "Avg Time (ms)", Width: 13},
	}
}

func factColumns() []table.Column {
	return []table.Column{
		{Title: "Fact", Width: 8},
		{Title: "Score (ms)", Width: 10},
		{Title: "Questions", Width: 9},
		{Title: "Mistakes", Width: 8},
		{Title: "Last (ms)", Width: 9},
	}
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

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.settingsError != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	// The table header takes two lines including its border.
	rowsHeight := maxInt(1, bodyHeight-2)
	m.tables.SetWidth(m.width)
	m.tables.SetHeight(rowsHeight)
	m.facts.SetWidth(m.width)
	m.facts.SetHeight(rowsHeight)
	for i := range m.settingsInputs {
		m.settingsInputs[i].Width = maxInt(6, m.width-lipgloss.Width(m.settingsInputs[i].Prompt)-2)
	}
	m.renderOverview()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.tables.Blur()
	m.facts.Blur()
	switch m.activeTab {
	case tabTables:
		m.tables.Focus()
	case tabFacts:
		m.facts.Focus()
	}
}

func (m *Model) gotoTop() {
	switch m.activeTab {
	case tabTables:
		m.tables.GotoTop()
	case tabFacts:
		m.facts.GotoTop()
	default:
		m.overview.GotoTop()
	}
}

func (m *Model) gotoBottom() {
	switch m.activeTab {
	case tabTables:
		m.tables.GotoBottom()
	case tabFacts:
		m.facts.GotoBottom()
	default:
		m.overview.GotoBottom()
	}
}

func (m *Model) refreshReport() {
	m.report = stats.BuildReport(context.Background(), m.src, m.problems, m.cfg)
	m.tables.SetRows(tableRows(m.report.Tables))
	m.facts.SetRows(factRows(m.report.Slowest))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Log) == 0 {
		return "No attempts recorded yet."
	}
	cards := renderSummaryCards(report.Summary, width)
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Log, window, width, plotHeight, true); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(sum model.Summary, width int) string {
	cards := []string{
		metricCard("Questions", strconv.Itoa(sum.TotalAttempts)),
		metricCard("Mistakes", strconv.Itoa(sum.TotalMistakes)),
		metricCard("Best Table", stats.FormatTable(sum, true)),
		metricCard("Worst Table", stats.FormatTable(sum, false)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func tableRows(reports []stats.TableReport) []table.Row {
	rows := make([]table.Row, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, table.Row{
			r.Table + " ✕",
			strconv.Itoa(r.Attempts),
			strconv.Itoa(r.Mistakes),
			fmt.Sprintf("%.1f", r.MeanMs()),
		})
	}
	return rows
}

func factRows(facts []stats.FactReport) []table.Row {
	rows := make([]table.Row, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, table.Row{
			f.Text,
			fmt.Sprintf("%.0f", f.Score),
			strconv.Itoa(f.Attempts),
			strconv.Itoa(f.Mistakes),
			strconv.FormatInt(f.LastMs, 10),
		})
	}
	return rows
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
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: last=%s  window=%d", last, m.cfg.CurveWindow)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.settingsMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.settingsInputs {
			lines = append(lines, input.View())
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabTables:
		if len(m.report.Tables) == 0 {
			return "No table stats found."
		}
		return tableMutedStyle.Render(m.tables.View())
	case tabFacts:
		if len(m.report.Slowest) == 0 {
			return "No facts practiced yet."
		}
		return tableMutedStyle.Render(m.facts.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down  Window: -/=  Settings: /  Quit: q"
	if m.settingsMode {
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	}
	out := headerStyle.Render(help)
	if m.settingsError != "" {
		out += "\n" + errorStyle.Render(m.settingsError)
	}
	return out
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.settingsInputs[0].SetValue(last)
	m.settingsInputs[1].SetValue(strconv.Itoa(m.cfg.CurveWindow))
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseSettings(m.settingsInputs[0].Value(), m.settingsInputs[1].Value())
		if err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.settingsMode = false
		m.settingsError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	m.settingsIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func parseSettings(lastInput, windowInput string) (model.StatsConfig, error) {
	last := 0
	if s := strings.TrimSpace(lastInput); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}
	window := 1
	if s := strings.TrimSpace(windowInput); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}
	return model.StatsConfig{Last: last, CurveWindow: window}, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
