package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/timesdrill/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		log: model.HistoryLog{
			{ProblemText: "3 ✕ 4", ElapsedMillis: 100, MistakeCount: 0},
			{ProblemText: "9 ✕ 5", ElapsedMillis: 900, MistakeCount: 2},
		},
		saveErr: errors.New("history not saved: disk full"),
	}
	out := m.renderFooter()
	for _, want := range []string{"Questions 2", "Mistakes 2", "Best table 3", "Worst table 9", "history not saved: disk full"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderFooterEmptyHistory(t *testing.T) {
	m := &Model{}
	out := m.renderFooter()
	for _, want := range []string{"Questions 0", "Best table -", "Worst table -"} {
		assert.Contains(t, out, want)
	}
}
