// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/timesdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TableReport aggregates attempts for one times table.
type TableReport struct {
	Table     string
	Attempts  int
	Mistakes  int
	ElapsedMs int64
}

// MeanMs returns the mean response time of the table.
func (r TableReport) MeanMs() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.ElapsedMs) / float64(r.Attempts)
}

// TableOf returns the table label of a problem text: its first token.
func TableOf(problemText string) string {
	fields := strings.Fields(problemText)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TableReports groups the log by table in first-seen order.
func TableReports(log model.HistoryLog) []TableReport {
	index := map[string]int{}
	var out []TableReport
	for _, rec := range log {
		table := TableOf(rec.ProblemText)
		if table == "" {
			continue
		}
		i, ok := index[table]
		if !ok {
			i = len(out)
			index[table] = i
			out = append(out, TableReport{Table: table})
		}
		out[i].Attempts++
		out[i].Mistakes += rec.MistakeCount
		out[i].ElapsedMs += rec.ElapsedMillis
	}
	return out
}

// Summarize derives the running totals and the best and worst tables.
// Ties go to the table seen first in the log.
func Summarize(log model.HistoryLog) model.Summary {
	var sum model.Summary
	sum.TotalAttempts = len(log)
	for _, rec := range log {
		sum.TotalMistakes += rec.MistakeCount
	}
	tables := TableReports(log)
	if len(tables) == 0 {
		return sum
	}
	best, worst := tables[0], tables[0]
	for _, t := range tables[1:] {
		if t.MeanMs() < best.MeanMs() {
			best = t
		}
		if t.MeanMs() > worst.MeanMs() {
			worst = t
		}
	}
	sum.BestTable = best.Table
	sum.WorstTable = worst.Table
	sum.HasTables = true
	return sum
}

// ElapsedSeries returns response times in seconds, oldest first.
func ElapsedSeries(log model.HistoryLog) []float64 {
	out := make([]float64, len(log))
	for i, rec := range log {
		out[i] = float64(rec.ElapsedMillis) / 1000.0
	}
	return out
}

// MistakeSeries returns the mistake count of each attempt, oldest first.
func MistakeSeries(log model.HistoryLog) []float64 {
	out := make([]float64, len(log))
	for i, rec := range log {
		out[i] = float64(rec.MistakeCount)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = clamp(idx, 0, len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatTable renders the table label for display; empty means none yet.
func FormatTable(sum model.Summary, best bool) string {
	if !sum.HasTables {
		return "-"
	}
	if best {
		return sum.BestTable
	}
	return sum.WorstTable
}

// RenderSummary prints the running totals.
func RenderSummary(w io.Writer, log model.HistoryLog) error {
	if len(log) == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded yet.")
		return err
	}
	sum := Summarize(log)
	var total int64
	for _, rec := range log {
		total += rec.ElapsedMillis
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Questions: %d", sum.TotalAttempts),
		fmt.Sprintf("Mistakes: %d", sum.TotalMistakes),
		fmt.Sprintf("Avg time: %.2fs", float64(total)/float64(len(log))/1000.0),
		fmt.Sprintf("Best table: %s", FormatTable(sum, true)),
		fmt.Sprintf("Worst table: %s", FormatTable(sum, false)),
		fmt.Sprintf("Recent: %s", Sparkline(tail(ElapsedSeries(log), 40))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTableReport prints per-table aggregates.
func RenderTableReport(w io.Writer, log model.HistoryLog) error {
	reports := TableReports(log)
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No table stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Table"); err != nil {
		return err
	}
	headers := []string{"Table", "Questions", "Mistakes", "Avg Time (ms)"}
	rows := make([][]string, 0, len(reports))
	for _, r := range SortTablesNumeric(reports) {
		rows = append(rows, []string{
			r.Table + " ✕",
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Mistakes),
			fmt.Sprintf("%.1f", r.MeanMs()),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints the response time and mistake curves.
func RenderCurves(w io.Writer, log model.HistoryLog, window int) error {
	return RenderCurvesWithSize(w, log, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, log model.HistoryLog, window, totalWidth, height int, useColor bool) error {
	if len(log) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotSeriesWithColor(w, "Response Time (s)", []Series{
		{Name: "Time", Values: MovingAverage(ElapsedSeries(log), window)},
	}, width, height, useColor); err != nil {
		return err
	}
	return PlotSeriesWithColor(w, "Mistakes per Question", []Series{
		{Name: "Mistakes", Values: MovingAverage(MistakeSeries(log), window)},
	}, width, height, useColor)
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
