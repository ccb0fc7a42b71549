package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitymonitor/config"
	"activitymonitor/entity"
	"activitymonitor/presence"
	"activitymonitor/recorder"
	"activitymonitor/rules"
)

type memStore struct {
	mu      sync.Mutex
	records []entity.ActivityRecord
	err     error
	pruned  []int
}

func (m *memStore) AppendActivity(_ context.Context, rec entity.ActivityRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, rec)
	return int64(len(m.records)), nil
}

func (m *memStore) PruneOlderThan(_ context.Context, days int, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = append(m.pruned, days)
	return 0, nil
}

func (m *memStore) all() []entity.ActivityRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.ActivityRecord(nil), m.records...)
}

type staticRules struct{ reloads int }

func (s *staticRules) Rules() *rules.RuleSet            { return rules.Empty() }
func (s *staticRules) Reload(ctx context.Context) error { s.reloads++; return nil }

// rotatingRules hands out a different project mapping on every call, so a
// second classification of the same sample would give another label.
type rotatingRules struct{ calls atomic.Int32 }

func (r *rotatingRules) Rules() *rules.RuleSet {
	n := r.calls.Add(1)
	return rules.New(nil, []entity.DisplayMapping{{
		ID: 1, MatchType: entity.MatchProject, MatchValue: "MyApp",
		DisplayName: fmt.Sprintf("Client %d", n), Priority: 1, Enabled: true,
	}}, nil, nil)
}

type fakeWindow struct {
	w   Window
	ok  bool
	err error
}

func (f *fakeWindow) ActiveWindow(context.Context) (Window, bool, error) { return f.w, f.ok, f.err }

type fakeIdle struct{ d time.Duration }

func (f *fakeIdle) IdleTime(context.Context) (time.Duration, error) { return f.d, nil }

type fakeNames map[int32]string

func (f fakeNames) ProcessName(_ context.Context, pid int32) (string, error) {
	if n, ok := f[pid]; ok {
		return n, nil
	}
	return "", errors.New("gone")
}

type fakeCamera struct {
	face  bool
	calls int
}

func (f *fakeCamera) FacePresent(context.Context) (bool, error) { f.calls++; return f.face, nil }

type harness struct {
	t      *Tracker
	store  *memStore
	rules  *staticRules
	window *fakeWindow
	idle   *fakeIdle
	clock  time.Time
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := &harness{
		store:  &memStore{},
		rules:  &staticRules{},
		window: &fakeWindow{},
		idle:   &fakeIdle{},
		clock:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local),
	}
	rec := recorder.New(h.store, h.rules, cfg.PollingIntervalSeconds, cfg.IDEDetection, logger)
	h.t = NewTracker(cfg, rec, h.rules, h.store, logger)
	h.t.Windows = h.window
	h.t.Idle = h.idle
	h.t.Names = fakeNames{42: "devenv.exe"}
	h.t.now = func() time.Time { return h.clock }
	h.t.monitor = presence.NewMonitor(cfg.IdleTimeout(), cfg.Camera.Enabled, h.clock, logger)
	h.t.camera = presence.NewCameraGate(time.Duration(cfg.Camera.AwayThresholdSeconds)*time.Second, h.clock)
	return h
}

func (h *harness) tick(t *testing.T) entity.ActivityRecord {
	t.Helper()
	require.NoError(t, h.t.Tick(context.Background()))
	recs := h.store.all()
	require.NotEmpty(t, recs)
	h.clock = h.clock.Add(5 * time.Second)
	return recs[len(recs)-1]
}

func TestTickRecordsFocusedWindow(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.window.w = Window{PID: 42, Title: "Program.cs - MyApp - Microsoft Visual Studio"}
	h.window.ok = true

	var seen []Status
	h.t.SetOnStatus(func(st Status) { seen = append(seen, st) })

	rec := h.tick(t)
	assert.Equal(t, "MyApp", rec.Label)
	assert.Equal(t, entity.Development, rec.Category)
	assert.Equal(t, "devenv.exe", rec.ProcessName)
	assert.True(t, rec.IsActive)
	assert.Equal(t, 5, rec.DurationSeconds)

	require.Len(t, seen, 1)
	assert.Equal(t, "MyApp", seen[0].Label)
	assert.Equal(t, "ActivityMonitor: MyApp", Tooltip(seen[0]))
}

func TestStatusMatchesStoredRecord(t *testing.T) {
	cfg := config.DefaultConfig()
	h := newHarness(t, cfg)
	rot := &rotatingRules{}
	h.t.recorder = recorder.New(h.store, rot, cfg.PollingIntervalSeconds, cfg.IDEDetection, nil)
	h.window.w = Window{PID: 42, Title: "Program.cs - MyApp - Microsoft Visual Studio"}
	h.window.ok = true

	for i := 0; i < 3; i++ {
		rec := h.tick(t)
		assert.Equal(t, fmt.Sprintf("Client %d", i+1), rec.Label)
		assert.Equal(t, rec.Label, h.t.Status().Label)
		assert.Equal(t, rec.IsActive, h.t.Status().Active)
	}
	assert.Equal(t, int32(3), rot.calls.Load(), "one classification per tick")
}

func TestTickWithoutFocusIsDesktop(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.window.err = ErrUnsupported

	rec := h.tick(t)
	assert.Equal(t, "Desktop", rec.Label)
	assert.Equal(t, entity.System, rec.Category)
	assert.Equal(t, "Desktop", rec.WindowTitle)
}

func TestTickUnknownProcess(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.window.w = Window{PID: 7, Title: "Some Tool - Main"}
	h.window.ok = true

	rec := h.tick(t)
	assert.Equal(t, unknownProcess, rec.ProcessName)
	assert.Equal(t, "Window: Some Tool", rec.Label)
}

func TestIdleMarksRecordInactive(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.idle.d = 2 * time.Minute
	assert.True(t, h.tick(t).IsActive)

	h.idle.d = 3 * time.Minute
	assert.False(t, h.tick(t).IsActive)

	cfg := config.DefaultConfig()
	cfg.IdleTimeoutMinutes = 10
	h.t.Apply(cfg)
	assert.True(t, h.tick(t).IsActive, "threshold change applies on the next tick")
}

func TestCameraAway(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Camera.Enabled = true
	cfg.Camera.CheckIntervalSeconds = 10
	cfg.Camera.AwayThresholdSeconds = 30
	h := newHarness(t, cfg)
	cam := &fakeCamera{face: false}
	h.t.Presence = cam

	var active []bool
	for i := 0; i < 10; i++ {
		rec := h.tick(t)
		active = append(active, rec.IsActive)
	}
	// Probed at 0s, 10s, 20s, 30s, 40s; away from 30s on.
	assert.Equal(t, 5, cam.calls)
	assert.Equal(t, []bool{true, true, true, true, true, true, false, false, false, false}, active)

	cam.face = true
	h.clock = h.clock.Add(10 * time.Second)
	assert.True(t, h.tick(t).IsActive)
}

func TestPauseSkipsRecording(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	var seen []Status
	h.t.SetOnStatus(func(st Status) { seen = append(seen, st) })

	h.t.Pause()
	h.t.Pause()
	require.NoError(t, h.t.Tick(context.Background()))
	assert.Empty(t, h.store.all())
	assert.True(t, h.t.Paused())
	require.Len(t, seen, 1)
	assert.Equal(t, "ActivityMonitor: paused", Tooltip(seen[0]))

	h.t.Resume()
	h.tick(t)
	assert.Len(t, h.store.all(), 1)
}

func TestTickStorageFailure(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.store.err = errors.New("disk full")
	err := h.t.Tick(context.Background())
	assert.ErrorIs(t, err, recorder.ErrStorage)
	assert.Empty(t, h.t.Status().Label)
}

func TestApplyReconfiguresRecorder(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	cfg := config.DefaultConfig()
	cfg.PollingIntervalSeconds = 10
	cfg.IDEDetection = false
	h.t.Apply(cfg)

	h.window.w = Window{PID: 42, Title: "Program.cs - MyApp - Microsoft Visual Studio"}
	h.window.ok = true
	rec := h.tick(t)
	assert.Equal(t, 10, rec.DurationSeconds)
	assert.NotEqual(t, "MyApp", rec.Label)
	assert.Same(t, cfg, h.t.Config())
}

func TestRunPrunesAndPolls(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KeepDataDays = 30
	h := newHarness(t, cfg)
	h.t.every = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.t.Run(ctx) }()

	require.Eventually(t, func() bool { return len(h.store.all()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	assert.Equal(t, []int{30}, h.store.pruned)
}

func TestSetOnStatusWhileRunning(t *testing.T) {
	h := newHarness(t, config.DefaultConfig())
	h.t.every = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.t.Run(ctx) }()

	var calls atomic.Int32
	stop := make(chan struct{})
	swapped := make(chan struct{})
	go func() {
		defer close(swapped)
		tk := time.NewTicker(time.Millisecond)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				h.t.SetOnStatus(func(Status) { calls.Add(1) })
			}
		}
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 5 }, 2*time.Second, time.Millisecond)
	close(stop)
	<-swapped
	cancel()
	require.NoError(t, <-done)
}

func TestReloadReadsConfigFile(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	cfg := config.DefaultConfig()
	cfg.IdleTimeoutMinutes = 7
	require.NoError(t, cfg.Save(path))

	h := newHarness(t, config.DefaultConfig())
	h.t.ConfigPath = path
	require.NoError(t, h.t.Reload(context.Background()))
	assert.Equal(t, 7, h.t.Config().IdleTimeoutMinutes)
	assert.Equal(t, 1, h.rules.reloads)
}
