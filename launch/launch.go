// Package launch runs the poll loop: every tick it samples the focused
// window, the input idle time and optionally the camera, and hands one
// sample to the recorder.
package launch

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"activitymonitor/config"
	"activitymonitor/entity"
	"activitymonitor/presence"
)

const retentionEvery = 24 * time.Hour

// Placeholder sampled when no window has focus.
const (
	desktopProcess = "explorer.exe"
	desktopTitle   = "Desktop"
	unknownProcess = "Unknown"
)

// Recorder is the part of recorder.Recorder the loop drives.
type Recorder interface {
	Record(ctx context.Context, s entity.Sample) (entity.ActivityRecord, error)
	Configure(quantumSeconds int, ideDetection bool)
}

// Reloader rebuilds the in-memory rule set from storage.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Pruner applies the retention window.
type Pruner interface {
	PruneOlderThan(ctx context.Context, days int, now time.Time) (int64, error)
}

// Status is what the tray shows.
type Status struct {
	Label  string
	Active bool
	Paused bool
	At     time.Time
}

// Tracker owns the poll loop. Sources default to the platform ones and may
// be replaced before Run.
type Tracker struct {
	Windows  WindowSource
	Idle     IdleSource
	Names    ProcessNamer
	Presence PresenceSource

	// ConfigPath is reread on SIGHUP when set.
	ConfigPath string

	recorder Recorder
	rules    Reloader
	store    Pruner
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	cfg         *config.Config
	monitor     *presence.Monitor
	camera      *presence.CameraGate
	cameraAway  bool
	lastCamera  time.Time
	status      Status
	onStatus    func(Status)
	every       time.Duration
	resetTicker chan time.Duration

	paused atomic.Bool
}

// NewTracker wires a Tracker for cfg.
func NewTracker(cfg *config.Config, rec Recorder, rules Reloader, store Pruner, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	windows, idle := PlatformSources()
	now := time.Now()
	return &Tracker{
		Windows:     windows,
		Idle:        idle,
		Names:       Gopsutil{},
		recorder:    rec,
		rules:       rules,
		store:       store,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
		monitor:     presence.NewMonitor(cfg.IdleTimeout(), cfg.Camera.Enabled, now, logger),
		camera:      presence.NewCameraGate(time.Duration(cfg.Camera.AwayThresholdSeconds)*time.Second, now),
		resetTicker: make(chan time.Duration, 1),
	}
}

// Config returns the configuration in effect.
func (t *Tracker) Config() *config.Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Apply swaps in a new configuration. The idle threshold, camera,
// polling interval and IDE detection take effect on the next tick.
func (t *Tracker) Apply(cfg *config.Config) {
	t.mu.Lock()
	old := t.cfg
	t.cfg = cfg
	t.monitor.SetThreshold(cfg.IdleTimeout())
	t.monitor.SetCamera(cfg.Camera.Enabled)
	if old.Camera.AwayThresholdSeconds != cfg.Camera.AwayThresholdSeconds || !old.Camera.Enabled {
		t.camera = presence.NewCameraGate(time.Duration(cfg.Camera.AwayThresholdSeconds)*time.Second, t.now())
		t.cameraAway = false
		t.lastCamera = time.Time{}
	}
	t.mu.Unlock()

	t.recorder.Configure(cfg.PollingIntervalSeconds, cfg.IDEDetection)
	if old.PollingIntervalSeconds != cfg.PollingIntervalSeconds {
		select {
		case t.resetTicker <- cfg.PollingInterval():
		default:
		}
	}
	t.logger.Info("configuration applied",
		"polling_interval", cfg.PollingInterval(),
		"idle_timeout", cfg.IdleTimeout(),
		"camera", cfg.Camera.Enabled)
}

func (t *Tracker) Pause()  { t.setPaused(true) }
func (t *Tracker) Resume() { t.setPaused(false) }

func (t *Tracker) Paused() bool { return t.paused.Load() }

func (t *Tracker) setPaused(p bool) {
	if t.paused.Swap(p) == p {
		return
	}
	if p {
		t.logger.Info("tracking paused")
	} else {
		t.logger.Info("tracking resumed")
	}
	t.mu.Lock()
	t.status.Paused = p
	st := t.status
	t.mu.Unlock()
	t.notify(st)
}

// Status returns the state after the last tick.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SetOnStatus installs fn to be called after every recorded tick and on
// pause or resume. It is safe to call while Run is live.
func (t *Tracker) SetOnStatus(fn func(Status)) {
	t.mu.Lock()
	t.onStatus = fn
	t.mu.Unlock()
}

func (t *Tracker) notify(st Status) {
	t.mu.Lock()
	fn := t.onStatus
	t.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Sample reads every source once. Source failures never abort a tick:
// a missing window reads as the desktop, a failed idle probe as no idle
// time, a failed camera probe as present.
func (t *Tracker) Sample(ctx context.Context) entity.Sample {
	now := t.now()

	s := entity.Sample{Timestamp: now, ProcessName: desktopProcess, WindowTitle: desktopTitle}
	w, ok, err := t.Windows.ActiveWindow(ctx)
	if err != nil {
		t.logger.Debug("active window unavailable", "error", err)
	}
	if ok {
		s.WindowTitle = w.Title
		s.ProcessName = unknownProcess
		if w.PID > 0 {
			name, err := t.Names.ProcessName(ctx, w.PID)
			if err != nil {
				t.logger.Debug("process name unavailable", "pid", w.PID, "error", err)
			} else {
				s.ProcessName = name
			}
		}
	}

	idleFor, err := t.Idle.IdleTime(ctx)
	if err != nil {
		t.logger.Debug("idle time unavailable", "error", err)
		idleFor = 0
	}

	st := t.monitor.Update(idleFor, t.observeCamera(ctx, now), now)
	switch {
	case st.BecameIdle:
		t.logger.Info("user became idle", "active_for", st.ActiveDuration.Round(time.Second), "camera_away", st.CameraAway)
	case st.BecameActive:
		t.logger.Info("user became active", "idle_for", st.IdleDuration.Round(time.Second))
	}
	s.IsIdle = st.InputIdle
	s.CameraAway = st.CameraAway
	return s
}

// observeCamera probes the presence source at most once per
// check interval and reuses the last answer in between.
func (t *Tracker) observeCamera(ctx context.Context, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.cfg.Camera.Enabled || t.Presence == nil {
		return false
	}
	interval := time.Duration(t.cfg.Camera.CheckIntervalSeconds) * time.Second
	if !t.lastCamera.IsZero() && now.Sub(t.lastCamera) < interval {
		return t.cameraAway
	}
	t.lastCamera = now
	face, err := t.Presence.FacePresent(ctx)
	if err != nil {
		t.logger.Debug("camera check failed", "error", err)
		face = true
	}
	t.cameraAway = t.camera.Observe(face, now)
	return t.cameraAway
}

// Tick samples and records once. It does nothing while paused.
func (t *Tracker) Tick(ctx context.Context) error {
	if t.Paused() {
		return nil
	}
	s := t.Sample(ctx)
	rec, err := t.recorder.Record(ctx, s)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.status = Status{Label: rec.Label, Active: rec.IsActive, Paused: t.Paused(), At: rec.Timestamp}
	st := t.status
	t.mu.Unlock()
	t.notify(st)
	return nil
}

// Prune applies keep_data_days once.
func (t *Tracker) Prune(ctx context.Context) {
	days := t.Config().KeepDataDays
	n, err := t.store.PruneOlderThan(ctx, days, t.now())
	if err != nil {
		t.logger.Error("retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		t.logger.Info("old activities removed", "count", n, "keep_days", days)
	}
}

// Reload rereads the config file, when there is one, then the rules.
func (t *Tracker) Reload(ctx context.Context) error {
	if t.ConfigPath != "" {
		cfg, err := config.Load(t.ConfigPath)
		if err != nil {
			t.logger.Warn("keeping current config", "path", t.ConfigPath, "error", err)
		} else {
			t.Apply(cfg)
		}
	}
	return t.rules.Reload(ctx)
}

func (t *Tracker) interval() time.Duration {
	if t.every > 0 {
		return t.every
	}
	return t.Config().PollingInterval()
}

// Run polls until ctx is done. A failed tick is logged and skipped.
func (t *Tracker) Run(ctx context.Context) error {
	t.Prune(ctx)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	ticker := time.NewTicker(t.interval())
	defer ticker.Stop()
	retention := time.NewTicker(retentionEvery)
	defer retention.Stop()

	t.logger.Info("tracking started", "polling_interval", t.interval())
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracking stopped")
			return nil
		case <-ticker.C:
			if err := t.Tick(ctx); err != nil {
				t.logger.Warn("tick skipped", "error", err)
			}
		case d := <-t.resetTicker:
			if t.every == 0 {
				ticker.Reset(d)
			}
		case <-retention.C:
			t.Prune(ctx)
		case <-hup:
			t.logger.Info("reload requested")
			if err := t.Reload(ctx); err != nil {
				t.logger.Error("reload failed", "error", err)
			}
		}
	}
}
