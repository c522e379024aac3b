package stats

import (
	"context"

	"github.com/verte-zerg/timesdrill/internal/model"
)

// Loader provides the persisted history.
type Loader interface {
	Load(ctx context.Context) model.HistoryLog
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Log     model.HistoryLog
	Summary model.Summary
	Tables  []TableReport
	Slowest []FactReport
}

// SlowestLimit caps the facts listed in a report.
const SlowestLimit = 10

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Loader, bank []model.Problem, cfg model.StatsConfig) Report {
	log := src.Load(ctx)
	if cfg.Last > 0 && len(log) > cfg.Last {
		log = log[len(log)-cfg.Last:]
	}
	return Report{
		Log:     log,
		Summary: Summarize(log),
		Tables:  SortTablesNumeric(TableReports(log)),
		Slowest: SlowestFacts(log, bank, SlowestLimit),
	}
}
