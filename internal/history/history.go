// Package history persists the attempt log in a single key-value slot.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/timesdrill/internal/model"
)

// DefaultKey is the slot holding the serialized log.
const DefaultKey = "results"

// ErrPersist marks a failed write of the log.
var ErrPersist = errors.New("history not saved")

// Slot is the key-value storage the log lives in.
type Slot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store loads and saves the HistoryLog.
type Store struct {
	slot Slot
	key  string
	logf func(format string, args ...any)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the sink for recovered load problems.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *Store) {
		s.logf = logf
	}
}

// New returns a Store backed by slot under key. An empty key uses DefaultKey.
func New(slot Slot, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{slot: slot, key: key, logf: func(string, ...any) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted log. Missing or unreadable data yields an empty log.
func (s *Store) Load(ctx context.Context) model.HistoryLog {
	raw, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.logf("failed to read history: %v\n", err)
		return model.HistoryLog{}
	}
	if !ok || raw == "" {
		return model.HistoryLog{}
	}
	log, err := Decode([]byte(raw))
	if err != nil {
		s.logf("ignoring unreadable history: %v\n", err)
		return model.HistoryLog{}
	}
	return log
}

// Append adds rec to log and persists the whole result.
// The returned log includes rec even when the write fails.
func (s *Store) Append(ctx context.Context, log model.HistoryLog, rec model.AttemptRecord) (model.HistoryLog, error) {
	next := log.Append(rec)
	if err := s.Save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}

// Save overwrites the slot with log.
func (s *Store) Save(ctx context.Context, log model.HistoryLog) error {
	blob, err := Encode(log)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.slot.Put(ctx, s.key, string(blob)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Reset removes the persisted log.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.slot.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	return nil
}

// Encode serializes log as a JSON array.
func Encode(log model.HistoryLog) ([]byte, error) {
	if log == nil {
		log = model.HistoryLog{}
	}
	return json.Marshal(log)
}

// Decode parses a JSON array of attempt records.
func Decode(data []byte) (model.HistoryLog, error) {
	var log model.HistoryLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, err
	}
	if log == nil {
		return model.HistoryLog{}, nil
	}
	for i, rec := range log {
		if rec.ElapsedMillis < 0 || rec.MistakeCount < 0 {
			return nil, fmt.Errorf("record %d has negative values", i)
		}
	}
	return log, nil
}
