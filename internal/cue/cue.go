// Package cue plays answer feedback signals.
package cue

import (
	"io"
	"sync"

	"github.com/verte-zerg/timesdrill/internal/model"
)

// Player plays a feedback cue. Implementations must not block for long.
type Player interface {
	Play(c model.Cue)
}

// Silent ignores every cue.
type Silent struct{}

// Play implements Player.
func (Silent) Play(model.Cue) {}

const bel = "\a"

// Bell rings the terminal bell.
type Bell struct {
	mu        sync.Mutex
	out       io.Writer
	onFailure bool
	onSuccess bool
}

// NewBell returns a Bell writing to out.
func NewBell(out io.Writer, onFailure, onSuccess bool) *Bell {
	return &Bell{out: out, onFailure: onFailure, onSuccess: onSuccess}
}

// Play implements Player.
func (b *Bell) Play(c model.Cue) {
	switch {
	case c == model.CueFailure && b.onFailure:
	case c == model.CueSuccess && b.onSuccess:
	default:
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.out, bel); err != nil {
		// Best-effort cue.
		_ = err
	}
}

// FromConfig picks a player for the practice settings.
func FromConfig(cfg model.Config, out io.Writer) Player {
	if !cfg.Bell && !cfg.BellOnSuccess {
		return Silent{}
	}
	return NewBell(out, cfg.Bell, cfg.BellOnSuccess)
}
