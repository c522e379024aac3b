// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/timesdrill/internal/bank"
	"github.com/verte-zerg/timesdrill/internal/cue"
	"github.com/verte-zerg/timesdrill/internal/history"
	"github.com/verte-zerg/timesdrill/internal/model"
	"github.com/verte-zerg/timesdrill/internal/scheduler"
	"github.com/verte-zerg/timesdrill/internal/session"
	statsPkg "github.com/verte-zerg/timesdrill/internal/stats"
)

// Recorder persists completed attempts.
type Recorder interface {
	Append(ctx context.Context, log model.HistoryLog, rec model.AttemptRecord) (model.HistoryLog, error)
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	recorder Recorder
	sched    *scheduler.Scheduler
	problems []model.Problem
	player   cue.Player
	now      func() time.Time

	width  int
	height int

	log     model.HistoryLog
	sess    *session.Session
	table   int
	last    session.Event
	saveErr error
}

var (
	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Foreground(lipgloss.Color("#F0F0F0"))
	cardCorrectStyle  = cardStyle.BorderForeground(lipgloss.Color("#52C41A"))
	cardRejectedStyle = cardStyle.BorderForeground(lipgloss.Color("#FF4D4F"))
	inputStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	tabActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Underline(true).Padding(0, 1)
	tabStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	helpText          = "0-9 answer  backspace/x clear  ←/→ table  r reset mistakes  q quit"
)

// NewModel constructs a practice TUI model and presents the first problem.
func NewModel(cfg model.Config, rec Recorder, sched *scheduler.Scheduler, problems []model.Problem, log model.HistoryLog, player cue.Player) *Model {
	if player == nil {
		player = cue.Silent{}
	}
	m := &Model{
		config:   cfg,
		recorder: rec,
		sched:    sched,
		problems: problems,
		player:   player,
		now:      time.Now,
		log:      log,
		table:    cfg.Table,
	}
	m.showNext()
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
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete, tea.KeyEsc:
			return m, m.handleToken(session.ClearToken)
		case tea.KeySpace:
			return m, m.handleToken("")
		case tea.KeyLeft, tea.KeyShiftTab:
			m.switchTable(-1)
			return m, nil
		case tea.KeyRight, tea.KeyTab:
			m.switchTable(1)
			return m, nil
		case tea.KeyRunes:
			return m, m.handleRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTables(),
		"",
		m.renderCard(),
		"",
		renderKeypad(),
	)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		switch r {
		case 'q':
			return tea.Quit
		case 'x', 'c':
			cmds = append(cmds, m.handleToken(session.ClearToken))
		case 'r':
			m.sess.ResetMistakes()
		case 'h':
			m.switchTable(-1)
		case 'l':
			m.switchTable(1)
		default:
			cmds = append(cmds, m.handleToken(string(r)))
		}
	}
	return tea.Batch(cmds...)
}

// handleToken applies one keypad token. Unknown tokens are dropped.
func (m *Model) handleToken(token string) tea.Cmd {
	action, ok := session.ParseAction(token)
	if !ok {
		return nil
	}
	res := m.sess.Apply(action)
	if res.Event == session.EventIgnored {
		return nil
	}
	m.last = res.Event
	if res.Event == session.EventCorrect && res.Record != nil {
		m.record(*res.Record)
		m.showNext()
	}
	return m.playCue(res.Cue)
}

func (m *Model) record(rec model.AttemptRecord) {
	log, err := m.recorder.Append(context.Background(), m.log, rec)
	m.log = log
	if err != nil {
		if !errors.Is(err, history.ErrPersist) {
			err = fmt.Errorf("%w: %v", history.ErrPersist, err)
		}
		m.saveErr = err
		return
	}
	m.saveErr = nil
}

// SaveErr returns the last failed save, or nil once a later save succeeds.
func (m *Model) SaveErr() error {
	return m.saveErr
}

// playCue runs the player off the update loop; nothing waits for it.
func (m *Model) playCue(c model.Cue) tea.Cmd {
	if c == model.CueNone {
		return nil
	}
	player := m.player
	return func() tea.Msg {
		player.Play(c)
		return nil
	}
}

func (m *Model) scope() []model.Problem {
	if !m.config.ScopeToTable {
		return m.problems
	}
	return bank.ForTable(m.problems, m.table)
}

func (m *Model) showNext() {
	problem := m.sched.SelectNext(m.log, m.scope())
	m.sess = session.New(problem, m.now)
}

func tableChoices() []int {
	return append([]int{bank.AllTables}, bank.Tables()...)
}

func (m *Model) switchTable(delta int) {
	choices := tableChoices()
	idx := 0
	for i, t := range choices {
		if t == m.table {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(choices)) % len(choices)
	m.setTable(choices[idx])
}

func (m *Model) setTable(table int) {
	if table == m.table {
		return
	}
	m.table = table
	m.last = session.EventIgnored
	m.showNext()
}

func tableLabel(t int) string {
	if t == bank.AllTables {
		return "All"
	}
	return strconv.Itoa(t)
}

func (m *Model) renderTables() string {
	parts := make([]string, 0, len(tableChoices()))
	for _, t := range tableChoices() {
		if t == m.table {
			parts = append(parts, tabActiveStyle.Render(tableLabel(t)))
		} else {
			parts = append(parts, tabStyle.Render(tableLabel(t)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderCard() string {
	style := cardStyle
	switch m.last {
	case session.EventCorrect:
		style = cardCorrectStyle
	case session.EventRejected:
		style = cardRejectedStyle
	}
	text := fmt.Sprintf("%s = %s", m.sess.Problem().Text, inputStyle.Render(m.sess.Buffer()+"▏"))
	return style.Render(text)
}

func (m *Model) renderFooter() string {
	sum := statsPkg.Summarize(m.log)
	segments := []string{
		fmt.Sprintf("Questions %d", sum.TotalAttempts),
		fmt.Sprintf("Mistakes %d", sum.TotalMistakes),
		fmt.Sprintf("Best table %s", statsPkg.FormatTable(sum, true)),
		fmt.Sprintf("Worst table %s", statsPkg.FormatTable(sum, false)),
	}
	if m.sess != nil && m.sess.Mistakes() > 0 {
		segments = append(segments, fmt.Sprintf("This one %d", m.sess.Mistakes()))
	}
	lines := []string{
		footerStyle.Render(strings.Join(segments, "  ")),
		footerStyle.Render(helpText),
	}
	if m.saveErr != nil {
		lines = append(lines, errorStyle.Render(m.saveErr.Error()))
	}
	return strings.Join(lines, "\n")
}
