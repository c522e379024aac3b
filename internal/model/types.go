// Package model defines shared data structures.
package model

// Problem is a single multiplication fact.
type Problem struct {
	Left   int
	Right  int
	Text   string
	Answer int
	Decoys []int
}

// AttemptRecord captures a completed problem instance.
type AttemptRecord struct {
	ProblemText   string `json:"problemText"`
	ElapsedMillis int64  `json:"elapsedMillis"`
	MistakeCount  int    `json:"mistakeCount"`
}

// HistoryLog is the chronological list of attempts, oldest first.
type HistoryLog []AttemptRecord

// Append returns a new log with rec added. The receiver is left untouched.
func (l HistoryLog) Append(rec AttemptRecord) HistoryLog {
	out := make(HistoryLog, len(l), len(l)+1)
	copy(out, l)
	return append(out, rec)
}

// Cue is a feedback signal emitted by answer transitions.
type Cue int

const (
	CueNone Cue = iota
	CueSuccess
	CueFailure
)

// Summary holds the running stats shown under the keypad.
type Summary struct {
	TotalAttempts int
	TotalMistakes int
	// BestTable and WorstTable are only meaningful when HasTables is set.
	BestTable  string
	WorstTable string
	HasTables  bool
}

// ShuffleMode selects the permutation used before ranking candidates.
type ShuffleMode string

const (
	ShuffleInsert  ShuffleMode = "insert"
	ShuffleUniform ShuffleMode = "uniform"
)

// Config defines practice settings.
type Config struct {
	Table         int
	ScopeToTable  bool
	Shuffle       ShuffleMode
	Bell          bool
	BellOnSuccess bool
}

// StatsConfig defines options for stats output.
type StatsConfig struct {
	Last        int
	CurveWindow int
}
