package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/timesdrill/internal/model"
	"github.com/verte-zerg/timesdrill/internal/store"
)

type memSlot struct {
	data    map[string]string
	getErr  error
	putErr  error
	putSeen int
}

func newMemSlot() *memSlot {
	return &memSlot{data: map[string]string{}}
}

func (m *memSlot) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memSlot) Put(_ context.Context, key, value string) error {
	m.putSeen++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memSlot) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func sampleLog() model.HistoryLog {
	return model.HistoryLog{
		{ProblemText: "3 ✕ 4", ElapsedMillis: 100, MistakeCount: 0},
		{ProblemText: "3 ✕ 5", ElapsedMillis: 300, MistakeCount: 1},
		{ProblemText: "12 ✕ 12", ElapsedMillis: 4200, MistakeCount: 3},
	}
}

func TestLoadMissingSlot(t *testing.T) {
	st := New(newMemSlot(), "")
	log := st.Load(context.Background())
	assert.NotNil(t, log)
	assert.Empty(t, log)
}

func TestLoadCorruptSlot(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":        "{{{",
		"wrong shape":     `{"problemText":"3 ✕ 4"}`,
		"negative values": `[{"problemText":"3 ✕ 4","elapsedMillis":-5,"mistakeCount":0}]`,
	} {
		t.Run(name, func(t *testing.T) {
			slot := newMemSlot()
			slot.data[DefaultKey] = raw
			var logged []string
			st := New(slot, DefaultKey, WithLogger(func(format string, _ ...any) {
				logged = append(logged, format)
			}))
			assert.Empty(t, st.Load(context.Background()))
			assert.Len(t, logged, 1)
		})
	}
}

func TestLoadNullBlob(t *testing.T) {
	slot := newMemSlot()
	slot.data[DefaultKey] = "null"
	log := New(slot, "").Load(context.Background())
	assert.NotNil(t, log)
	assert.Empty(t, log)
}

func TestLoadReadErrorDegrades(t *testing.T) {
	slot := newMemSlot()
	slot.getErr = errors.New("disk gone")
	assert.Empty(t, New(slot, "").Load(context.Background()))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	slot := newMemSlot()
	st := New(slot, "")
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, sampleLog()))
	assert.Equal(t, sampleLog(), st.Load(ctx))
}

func TestEncodeWireFormat(t *testing.T) {
	blob, err := Encode(model.HistoryLog{{ProblemText: "3 ✕ 4", ElapsedMillis: 1500, MistakeCount: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"problemText":"3 ✕ 4","elapsedMillis":1500,"mistakeCount":2}]`, string(blob))

	blob, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blob))
}

func TestAppendPersistsWholeLog(t *testing.T) {
	slot := newMemSlot()
	st := New(slot, "")
	ctx := context.Background()

	base := sampleLog()[:1]
	next, err := st.Append(ctx, base, sampleLog()[1])
	require.NoError(t, err)
	assert.Len(t, base, 1, "input log must not be mutated")
	assert.Equal(t, sampleLog()[:2], next)
	assert.Equal(t, sampleLog()[:2], st.Load(ctx))
}

func TestAppendWriteFailure(t *testing.T) {
	slot := newMemSlot()
	st := New(slot, "")
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, sampleLog()[:1]))

	slot.putErr = errors.New("quota exceeded")
	next, err := st.Append(ctx, sampleLog()[:1], sampleLog()[1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Len(t, next, 2)
	assert.Equal(t, sampleLog()[:1], st.Load(ctx), "previous blob must survive a failed write")
}

func TestResetClearsSlot(t *testing.T) {
	slot := newMemSlot()
	st := New(slot, "")
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, sampleLog()))
	require.NoError(t, st.Reset(ctx))
	assert.Empty(t, st.Load(ctx))
}

func TestSQLiteBackedRoundTrip(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "timesdrill.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	st := New(db, "")
	ctx := context.Background()
	log := st.Load(ctx)
	for _, rec := range sampleLog() {
		log, err = st.Append(ctx, log, rec)
		require.NoError(t, err)
	}
	assert.Equal(t, sampleLog(), New(db, "").Load(ctx))
}
