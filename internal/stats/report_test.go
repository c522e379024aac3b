package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/timesdrill/internal/bank"
	"github.com/verte-zerg/timesdrill/internal/model"
)

type staticLoader model.HistoryLog

func (l staticLoader) Load(context.Context) model.HistoryLog {
	return model.HistoryLog(l)
}

func TestBuildReport(t *testing.T) {
	log := staticLoader{
		{ProblemText: "9 ✕ 9", ElapsedMillis: 8000, MistakeCount: 4},
		{ProblemText: "3 ✕ 4", ElapsedMillis: 1000},
		{ProblemText: "6 ✕ 7", ElapsedMillis: 5000, MistakeCount: 1},
		{ProblemText: "3 ✕ 4", ElapsedMillis: 3000},
	}
	report := BuildReport(context.Background(), log, bank.Generate(), model.StatsConfig{Last: 3})
	require.Len(t, report.Log, 3)
	assert.Equal(t, 1, report.Summary.TotalMistakes)
	require.Len(t, report.Tables, 2)
	assert.Equal(t, "3", report.Tables[0].Table)
	require.Len(t, report.Slowest, 2)
	assert.Equal(t, "6 ✕ 7", report.Slowest[0].Text)
	assert.Equal(t, 2000.0, report.Slowest[1].Score)
}

func TestSlowestFactsLimit(t *testing.T) {
	log := model.HistoryLog{
		{ProblemText: "2 ✕ 2", ElapsedMillis: 100},
		{ProblemText: "2 ✕ 3", ElapsedMillis: 100},
		{ProblemText: "2 ✕ 4", ElapsedMillis: 900},
		{ProblemText: "0 ✕ 0", ElapsedMillis: 5000},
	}
	facts := SlowestFacts(log, bank.Generate(), 2)
	require.Len(t, facts, 2)
	assert.Equal(t, "2 ✕ 4", facts[0].Text)
	assert.Equal(t, "2 ✕ 2", facts[1].Text)
	assert.Equal(t, int64(900), facts[0].LastMs)
	assert.Equal(t, 1, facts[0].Attempts)
}
