package statsui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/timesdrill/internal/bank"
	"github.com/verte-zerg/timesdrill/internal/model"
)

type fakeLoader struct {
	log   model.HistoryLog
	calls int
}

func (f *fakeLoader) Load(context.Context) model.HistoryLog {
	f.calls++
	return f.log
}

func sampleLog() model.HistoryLog {
	return model.HistoryLog{
		{ProblemText: bank.Text(7, 8), ElapsedMillis: 4000, MistakeCount: 2},
		{ProblemText: bank.Text(3, 4), ElapsedMillis: 1000, MistakeCount: 0},
		{ProblemText: bank.Text(7, 6), ElapsedMillis: 3000, MistakeCount: 1},
	}
}

func newSizedModel(t *testing.T, log model.HistoryLog) (*Model, *fakeLoader) {
	t.Helper()
	src := &fakeLoader{log: log}
	m := NewModel(src, bank.Generate(), model.StatsConfig{CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, src
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsSummaryCards(t *testing.T) {
	m, _ := newSizedModel(t, sampleLog())
	view := m.View()
	for _, want := range []string{"Overview", "Questions", "Mistakes", "Best Table", "Worst Table"} {
		assert.Contains(t, view, want)
	}
}

func TestOverviewEmptyHistory(t *testing.T) {
	m, _ := newSizedModel(t, nil)
	assert.Contains(t, m.View(), "No attempts recorded yet.")
}

func TestTabsCycle(t *testing.T) {
	m, _ := newSizedModel(t, sampleLog())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabTables, m.activeTab)
	assert.Contains(t, m.View(), "7 ✕")

	m.Update(key("l"))
	require.Equal(t, tabFacts, m.activeTab)
	assert.Contains(t, m.View(), bank.Text(7, 8))

	m.Update(key("l"))
	assert.Equal(t, tabOverview, m.activeTab, "expected wrap to overview")
	m.Update(key("h"))
	assert.Equal(t, tabFacts, m.activeTab, "expected wrap back to facts")
}

func TestCurveWindowKeys(t *testing.T) {
	m, _ := newSizedModel(t, sampleLog())
	m.Update(key("="))
	assert.Equal(t, 5, m.cfg.CurveWindow)
	m.Update(key("="))
	assert.Equal(t, 10, m.cfg.CurveWindow)
	m.Update(key("-"))
	m.Update(key("-"))
	assert.Equal(t, 1, m.cfg.CurveWindow)
}

func TestSettingsApplyReloads(t *testing.T) {
	m, src := newSizedModel(t, sampleLog())
	before := src.calls
	m.Update(key("/"))
	require.True(t, m.settingsMode)

	m.settingsInputs[0].SetValue("2")
	m.settingsInputs[1].SetValue("3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.settingsMode)
	assert.Equal(t, model.StatsConfig{Last: 2, CurveWindow: 3}, m.cfg)
	assert.Equal(t, before+1, src.calls, "expected report reload")
	assert.Len(t, m.report.Log, 2)
}

func TestSettingsRejectInvalid(t *testing.T) {
	m, _ := newSizedModel(t, sampleLog())
	m.Update(key("/"))
	m.settingsInputs[1].SetValue("0")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.settingsMode, "expected settings mode to stay open")
	assert.Contains(t, m.View(), "invalid curve window")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.settingsMode)
	assert.Empty(t, m.settingsError)
}

func TestParseSettings(t *testing.T) {
	cfg, err := parseSettings("", "")
	require.NoError(t, err)
	assert.Equal(t, model.StatsConfig{Last: 0, CurveWindow: 1}, cfg)

	_, err = parseSettings("-1", "5")
	assert.Error(t, err, "negative last")
	_, err = parseSettings("3", "x")
	assert.Error(t, err, "non-numeric window")
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{20, 25, 15},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, nextCurveWindow(tc.in), "next(%d)", tc.in)
		assert.Equal(t, tc.prev, prevCurveWindow(tc.in), "prev(%d)", tc.in)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newSizedModel(t, sampleLog())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
