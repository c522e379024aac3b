package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/timesdrill/internal/model"
	"github.com/verte-zerg/timesdrill/internal/scheduler"
)

// FactReport summarizes one problem's history.
type FactReport struct {
	Text     string
	Score    float64
	Attempts int
	Mistakes int
	LastMs   int64
}

// SlowestFacts returns up to n seen problems with the highest scheduler score.
// Ties are broken by text.
func SlowestFacts(log model.HistoryLog, bank []model.Problem, n int) []FactReport {
	scores := scheduler.Scores(log, bank)
	byText := map[string]*FactReport{}
	for _, rec := range log {
		score, ok := scores[rec.ProblemText]
		if !ok {
			continue
		}
		r, ok := byText[rec.ProblemText]
		if !ok {
			r = &FactReport{Text: rec.ProblemText, Score: score}
			byText[rec.ProblemText] = r
		}
		r.Attempts++
		r.Mistakes += rec.MistakeCount
		r.LastMs = rec.ElapsedMillis
	}
	out := make([]FactReport, 0, len(byText))
	for _, r := range byText {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Text < out[j].Text
		}
		return out[i].Score > out[j].Score
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SortTablesNumeric orders table reports by table number.
func SortTablesNumeric(reports []TableReport) []TableReport {
	out := append([]TableReport(nil), reports...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aerr := strconv.Atoi(out[i].Table)
		b, berr := strconv.Atoi(out[j].Table)
		if aerr != nil || berr != nil {
			return out[i].Table < out[j].Table
		}
		return a < b
	})
	return out
}

// RenderSlowest prints the slowest facts.
func RenderSlowest(w io.Writer, facts []FactReport) error {
	if len(facts) == 0 {
		_, err := fmt.Fprintln(w, "No facts practiced yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Slowest Facts (recent average)"); err != nil {
		return err
	}
	headers := []string{"Fact", "Score (ms)", "Questions", "Mistakes", "Last (ms)"}
	rows := make([][]string, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []string{
			f.Text,
			fmt.Sprintf("%.0f", f.Score),
			fmt.Sprintf("%d", f.Attempts),
			fmt.Sprintf("%d", f.Mistakes),
			fmt.Sprintf("%d", f.LastMs),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
