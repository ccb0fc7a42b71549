package recorder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

type fakeStore struct {
	records []entity.ActivityRecord
	err     error
}

func (f *fakeStore) AppendActivity(_ context.Context, rec entity.ActivityRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

type staticRules struct{ rs *rules.RuleSet }

func (s staticRules) Rules() *rules.RuleSet { return s.rs }

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestRecordAppendsOneRecordPerSample(t *testing.T) {
	var buf bytes.Buffer
	rs := rules.New(nil,
		[]entity.DisplayMapping{
			{ID: 1, MatchType: entity.MatchProcess, MatchValue: "devenv.exe", DisplayName: "Visual Studio", Priority: 10, Enabled: true},
			{ID: 2, MatchType: entity.MatchProject, MatchValue: "MyApp123", DisplayName: "Client Site", Priority: 5, Enabled: true},
		},
		[]entity.ProjectTag{{ID: 1, Name: "Client", Keywords: []string{"myapp"}, Color: "#ff0000", Enabled: true}},
		testLogger(&buf))
	store := &fakeStore{}
	rec := New(store, staticRules{rs}, 5, true, testLogger(&buf))

	ts := time.Date(2026, 3, 2, 9, 30, 15, 400, time.Local)
	sample := entity.Sample{Timestamp: ts, ProcessName: "devenv.exe", WindowTitle: "MyApp123 (Debugging) - Microsoft Visual Studio"}

	for i := 0; i < 2; i++ {
		stored, err := rec.Record(context.Background(), sample)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), stored.ID)
		assert.Equal(t, "Visual Studio - Client Site", stored.Label)
	}
	require.Len(t, store.records, 2, "identical samples are never merged")

	got := store.records[0]
	assert.Equal(t, "Visual Studio - Client Site", got.Label)
	assert.Equal(t, entity.Development, got.Category)
	assert.Equal(t, "Client", got.ProjectTag)
	assert.True(t, got.IsActive)
	assert.Equal(t, 5, got.DurationSeconds)
	assert.Equal(t, ts.Truncate(time.Second), got.Timestamp)
}

func TestRecordActiveBit(t *testing.T) {
	store := &fakeStore{}
	rec := New(store, nil, 0, true, testLogger(&bytes.Buffer{}))

	tests := []struct {
		idle, away, want bool
	}{
		{false, false, true},
		{true, false, false},
		{false, true, false},
		{true, true, false},
	}
	for _, tt := range tests {
		r := rec.Preview(entity.Sample{ProcessName: "x.exe", IsIdle: tt.idle, CameraAway: tt.away})
		assert.Equal(t, tt.want, r.IsActive)
		assert.Equal(t, entity.DefaultQuantum, r.DurationSeconds)
	}
}

func TestRecordCleansStoredTitle(t *testing.T) {
	rec := New(&fakeStore{}, nil, 5, true, nil)

	r := rec.Preview(entity.Sample{ProcessName: "msedge.exe", WindowTitle: "Login Page and 5 more pages - Work - Microsoft Edge"})
	assert.Equal(t, "Login Page - Work", r.WindowTitle)
	assert.Equal(t, "Browser: Login Page", r.Label)
	assert.Empty(t, r.ProjectTag)

	r = rec.Preview(entity.Sample{ProcessName: "explorer.exe"})
	assert.Equal(t, "Desktop", r.WindowTitle)
	assert.Equal(t, "Desktop", r.Label)
}

func TestRecordStorageFailure(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{err: errors.New("disk I/O error")}
	rec := New(store, nil, 5, true, testLogger(&buf))

	stored, err := rec.Record(context.Background(), entity.Sample{ProcessName: "slack.exe"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Zero(t, stored)
	assert.Empty(t, store.records)
	assert.Contains(t, buf.String(), "failed to record activity")
}

func TestConfigure(t *testing.T) {
	rec := New(&fakeStore{}, nil, 5, true, nil)
	rec.Configure(10, false)

	r := rec.Preview(entity.Sample{ProcessName: "devenv.exe", WindowTitle: "MyApp - Microsoft Visual Studio"})
	assert.Equal(t, 10, r.DurationSeconds)
	assert.Equal(t, "App: devenv", r.Label)
}
