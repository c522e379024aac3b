// Package session implements the answer input state machine for one problem.
package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/timesdrill/internal/model"
)

// ActionKind classifies a keypad token.
type ActionKind int

const (
	ActionDigit ActionKind = iota
	ActionClear
	ActionBlank
)

// ClearToken is the keypad label of the clear key.
const ClearToken = "✕"

// Action is a parsed keypad token.
type Action struct {
	Kind  ActionKind
	Digit int
}

// Digit returns the action for d (0-9).
func Digit(d int) Action {
	return Action{Kind: ActionDigit, Digit: d}
}

// Clear returns the clear action.
func Clear() Action {
	return Action{Kind: ActionClear}
}

// ParseAction maps a keypad token to an action. Unknown tokens report false.
func ParseAction(token string) (Action, bool) {
	switch strings.ToLower(token) {
	case "":
		return Action{Kind: ActionBlank}, true
	case ClearToken, "clear":
		return Clear(), true
	}
	if len(token) == 1 && token[0] >= '0' && token[0] <= '9' {
		return Digit(int(token[0] - '0')), true
	}
	return Action{}, false
}

// Event is the outcome of applying an action.
type Event int

const (
	EventIgnored Event = iota
	EventContinue
	EventCleared
	EventRejected
	EventCorrect
)

func (e Event) String() string {
	switch e {
	case EventContinue:
		return "continue"
	case EventCleared:
		return "cleared"
	case EventRejected:
		return "rejected"
	case EventCorrect:
		return "correct"
	default:
		return "ignored"
	}
}

// Result reports a transition. Record is set only for EventCorrect.
type Result struct {
	Event  Event
	Cue    model.Cue
	Record *model.AttemptRecord
}

// Session holds the answer buffer and mistake count for one problem.
type Session struct {
	problem   model.Problem
	answer    string
	buffer    string
	mistakes  int
	startedAt time.Time
	done      bool
	now       func() time.Time
}

// New starts a session for problem. A nil clock uses time.Now.
func New(problem model.Problem, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		problem:   problem,
		answer:    strconv.Itoa(problem.Answer),
		now:       now,
		startedAt: now(),
	}
}

// Problem returns the problem being answered.
func (s *Session) Problem() model.Problem { return s.problem }

// Buffer returns the digits entered so far.
func (s *Session) Buffer() string { return s.buffer }

// Mistakes returns the rejected submissions so far.
func (s *Session) Mistakes() int { return s.mistakes }

// Done reports whether the problem was answered.
func (s *Session) Done() bool { return s.done }

// ResetMistakes zeroes the mistake counter.
func (s *Session) ResetMistakes() {
	s.mistakes = 0
}

// Apply feeds one action into the session.
func (s *Session) Apply(a Action) Result {
	if s.done {
		return Result{Event: EventIgnored}
	}
	switch a.Kind {
	case ActionClear:
		s.buffer = ""
		return Result{Event: EventCleared}
	case ActionDigit:
		if a.Digit < 0 || a.Digit > 9 {
			return Result{Event: EventIgnored}
		}
		return s.applyDigit(a.Digit)
	default:
		return Result{Event: EventIgnored}
	}
}

func (s *Session) applyDigit(d int) Result {
	candidate := s.buffer + strconv.Itoa(d)
	if n, err := strconv.Atoi(candidate); err == nil && n == s.problem.Answer {
		s.buffer = candidate
		s.done = true
		elapsed := s.now().Sub(s.startedAt).Milliseconds()
		if elapsed < 0 {
			elapsed = 0
		}
		return Result{
			Event: EventCorrect,
			Cue:   model.CueSuccess,
			Record: &model.AttemptRecord{
				ProblemText:   s.problem.Text,
				ElapsedMillis: elapsed,
				MistakeCount:  s.mistakes,
			},
		}
	}
	if strings.HasPrefix(s.answer, candidate) {
		s.buffer = candidate
		return Result{Event: EventContinue}
	}
	s.buffer = ""
	s.mistakes++
	return Result{Event: EventRejected, Cue: model.CueFailure}
}
