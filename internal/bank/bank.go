// Package bank builds the fixed universe of multiplication problems.
package bank

import (
	"fmt"

	"github.com/verte-zerg/timesdrill/internal/model"
)

const (
	// MinFactor and MaxFactor bound both factors of every problem.
	MinFactor = 2
	MaxFactor = 12

	decoySpread = 2
)

// AllTables is the table filter value that keeps every problem.
const AllTables = 0

// Generate returns every problem for factors MinFactor..MaxFactor, left-major.
func Generate() []model.Problem {
	size := MaxFactor - MinFactor + 1
	problems := make([]model.Problem, 0, size*size)
	for left := MinFactor; left <= MaxFactor; left++ {
		for right := MinFactor; right <= MaxFactor; right++ {
			problems = append(problems, newProblem(left, right))
		}
	}
	return problems
}

// Text formats the identity label for a factor pair.
func Text(left, right int) string {
	return fmt.Sprintf("%d ✕ %d", left, right)
}

func newProblem(left, right int) model.Problem {
	answer := left * right
	return model.Problem{
		Left:   left,
		Right:  right,
		Text:   Text(left, right),
		Answer: answer,
		Decoys: decoys(left, right, answer),
	}
}

// decoys keeps scan order; the answer itself is excluded.
func decoys(left, right, answer int) []int {
	seen := map[int]struct{}{answer: {}}
	out := []int{}
	for lo := -decoySpread; lo <= decoySpread; lo++ {
		for ro := -decoySpread; ro <= decoySpread; ro++ {
			v := (left + lo) * (right + ro)
			if v <= 0 {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Tables lists the selectable tables in ascending order.
func Tables() []int {
	out := make([]int, 0, MaxFactor-MinFactor+1)
	for t := MinFactor; t <= MaxFactor; t++ {
		out = append(out, t)
	}
	return out
}

// ValidTable reports whether table is AllTables or within the factor range.
func ValidTable(table int) bool {
	return table == AllTables || (table >= MinFactor && table <= MaxFactor)
}

// ForTable returns the problems whose left factor is table.
// AllTables returns problems unchanged.
func ForTable(problems []model.Problem, table int) []model.Problem {
	if table == AllTables {
		return problems
	}
	out := make([]model.Problem, 0, MaxFactor-MinFactor+1)
	for _, p := range problems {
		if p.Left == table {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a problem by its text.
func Lookup(problems []model.Problem, text string) (model.Problem, bool) {
	for _, p := range problems {
		if p.Text == text {
			return p, true
		}
	}
	return model.Problem{}, false
}
