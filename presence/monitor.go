// Package presence turns raw input idle time and camera observations into
// the active bit stamped on each record, and reports transitions.
package presence

import (
	"log/slog"
	"sync"
	"time"
)

// State is the result of one Update.
type State struct {
	Active     bool
	InputIdle  bool
	CameraAway bool

	// Set on the tick where the active bit flips.
	BecameIdle   bool
	BecameActive bool

	// Length of the period that just ended, set together with the edge.
	IdleDuration   time.Duration
	ActiveDuration time.Duration
}

// Monitor tracks the active/idle state across ticks. A Monitor is safe for
// concurrent use; SetThreshold may be called while the poll loop runs.
type Monitor struct {
	mu          sync.Mutex
	threshold   time.Duration
	useCamera   bool
	wasActive   bool
	activeSince time.Time
	idleSince   time.Time
	logger      *slog.Logger
}

// NewMonitor returns a Monitor that starts in the active state at now.
func NewMonitor(threshold time.Duration, useCamera bool, now time.Time, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		threshold:   threshold,
		useCamera:   useCamera,
		wasActive:   true,
		activeSince: now,
		logger:      logger,
	}
}

// SetThreshold changes the input idle timeout.
func (m *Monitor) SetThreshold(d time.Duration) {
	m.mu.Lock()
	m.threshold = d
	m.mu.Unlock()
}

// SetCamera enables or disables the camera-away override.
func (m *Monitor) SetCamera(enabled bool) {
	m.mu.Lock()
	m.useCamera = enabled
	m.mu.Unlock()
}

// Active reports the state from the last Update.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wasActive
}

// Update folds one observation into the state. The user is active only
// when input is recent and, with the camera enabled, not away.
func (m *Monitor) Update(idleFor time.Duration, cameraAway bool, now time.Time) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{
		InputIdle:  idleFor >= m.threshold,
		CameraAway: m.useCamera && cameraAway,
	}
	st.Active = !st.InputIdle && !st.CameraAway

	switch {
	case m.wasActive && !st.Active:
		st.BecameIdle = true
		st.ActiveDuration = now.Sub(m.activeSince)
		m.idleSince = now
		m.logger.Debug("user became idle", "active_for", st.ActiveDuration, "camera_away", st.CameraAway)
	case !m.wasActive && st.Active:
		st.BecameActive = true
		if !m.idleSince.IsZero() {
			st.IdleDuration = now.Sub(m.idleSince)
		}
		m.activeSince = now
		m.idleSince = time.Time{}
		m.logger.Debug("user became active", "idle_for", st.IdleDuration)
	}
	m.wasActive = st.Active
	return st
}

// CameraGate converts per-frame face detection into an away flag: the
// user is away once no face has been seen for the threshold.
type CameraGate struct {
	mu        sync.Mutex
	threshold time.Duration
	lastFace  time.Time
}

// NewCameraGate starts as present at now.
func NewCameraGate(threshold time.Duration, now time.Time) *CameraGate {
	return &CameraGate{threshold: threshold, lastFace: now}
}

// Observe records one detection result and returns whether the user is away.
func (g *CameraGate) Observe(facePresent bool, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if facePresent {
		g.lastFace = now
	}
	return now.Sub(g.lastFace) >= g.threshold
}
