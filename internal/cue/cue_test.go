package cue

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/timesdrill/internal/model"
)

func TestBellFailureOnly(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, true, false)
	b.Play(model.CueSuccess)
	b.Play(model.CueNone)
	assert.Equal(t, "", buf.String())
	b.Play(model.CueFailure)
	assert.Equal(t, "\a", buf.String())
}

func TestBellBoth(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, true, true)
	b.Play(model.CueSuccess)
	b.Play(model.CueFailure)
	assert.Equal(t, "\a\a", buf.String())
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, Silent{}, FromConfig(model.Config{}, &buf))
	assert.IsType(t, &Bell{}, FromConfig(model.Config{Bell: true}, &buf))
	assert.IsType(t, &Bell{}, FromConfig(model.Config{BellOnSuccess: true}, &buf))
}
