// Package scheduler picks the next problem, favoring slow and unseen facts.
package scheduler

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/timesdrill/internal/model"
)

const (
	// RecentWindow is how many of the latest attempts feed a problem's score.
	RecentWindow = 4
	// UnseenScore is the score of a problem with no attempts.
	UnseenScore = 10000.0
)

// Candidate is a problem with its difficulty score.
type Candidate struct {
	Problem model.Problem
	Score   float64
	Seen    int
}

// Scheduler orders problems by recent response time.
type Scheduler struct {
	rnd  *rand.Rand
	mode model.ShuffleMode
}

// New returns a Scheduler seeded with the current time.
func New(mode model.ShuffleMode) *Scheduler {
	return NewWithSource(mode, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Scheduler drawing from src.
func NewWithSource(mode model.ShuffleMode, src rand.Source) *Scheduler {
	if mode == "" {
		mode = model.ShuffleInsert
	}
	return &Scheduler{rnd: rand.New(src), mode: mode}
}

// Mode reports the shuffle in use.
func (s *Scheduler) Mode() model.ShuffleMode {
	return s.mode
}

// SelectNext returns the highest scoring problem of bank.
// It returns the zero Problem only when bank is empty.
func (s *Scheduler) SelectNext(log model.HistoryLog, bank []model.Problem) model.Problem {
	ranked := s.Ranked(log, bank)
	if len(ranked) == 0 {
		return model.Problem{}
	}
	return ranked[0].Problem
}

// Ranked shuffles bank and stable-sorts it by descending score, so equal
// scores keep their shuffled order.
func (s *Scheduler) Ranked(log model.HistoryLog, bank []model.Problem) []Candidate {
	groups := groupRecent(log)
	shuffled := s.shuffle(bank)
	out := make([]Candidate, len(shuffled))
	for i, p := range shuffled {
		g := groups[p.Text]
		out[i] = Candidate{Problem: p, Score: scoreOf(g), Seen: len(g)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Scores maps every problem text in bank to its score.
func Scores(log model.HistoryLog, bank []model.Problem) map[string]float64 {
	groups := groupRecent(log)
	scores := make(map[string]float64, len(bank))
	for _, p := range bank {
		scores[p.Text] = scoreOf(groups[p.Text])
	}
	return scores
}

// groupRecent groups elapsed times by problem text, newest first.
func groupRecent(log model.HistoryLog) map[string][]int64 {
	groups := map[string][]int64{}
	for _, rec := range log {
		g := groups[rec.ProblemText]
		groups[rec.ProblemText] = append([]int64{rec.ElapsedMillis}, g...)
	}
	return groups
}

func scoreOf(newestFirst []int64) float64 {
	count := len(newestFirst)
	if count > RecentWindow {
		count = RecentWindow
	}
	if count == 0 {
		return UnseenScore
	}
	var total int64
	for _, v := range newestFirst[:count] {
		total += v
	}
	avg := float64(total) / float64(count)
	if avg == 0 {
		// A zero average is treated as unseen.
		return UnseenScore
	}
	return avg
}

func (s *Scheduler) shuffle(bank []model.Problem) []model.Problem {
	if s.mode == model.ShuffleUniform {
		out := append([]model.Problem(nil), bank...)
		s.rnd.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		return out
	}
	return insertShuffle(s.rnd, bank)
}

// insertShuffle inserts each item at round(rand*len) of the growing result.
// The permutation is not uniform.
func insertShuffle(rnd *rand.Rand, bank []model.Problem) []model.Problem {
	out := make([]model.Problem, 0, len(bank))
	for _, p := range bank {
		idx := int(math.Round(rnd.Float64() * float64(len(out))))
		out = append(out, model.Problem{})
		copy(out[idx+1:], out[idx:])
		out[idx] = p
	}
	return out
}
