package launch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ErrUnsupported is returned by sources that cannot run on this platform.
var ErrUnsupported = errors.New("launch: not supported on this platform")

// Window is the focused window as reported by the desktop.
type Window struct {
	PID   int32
	Title string
}

// WindowSource reports the focused window. ok is false when nothing has
// focus.
type WindowSource interface {
	ActiveWindow(ctx context.Context) (w Window, ok bool, err error)
}

// IdleSource reports the time since the last keyboard or mouse input.
type IdleSource interface {
	IdleTime(ctx context.Context) (time.Duration, error)
}

// PresenceSource reports whether a face is in front of the camera.
type PresenceSource interface {
	FacePresent(ctx context.Context) (bool, error)
}

// ProcessNamer resolves a PID to its executable name.
type ProcessNamer interface {
	ProcessName(ctx context.Context, pid int32) (string, error)
}

// PlatformSources returns the window and idle sources for the running OS.
func PlatformSources() (WindowSource, IdleSource) {
	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" {
		return XDoTool{}, XPrintIdle{}
	}
	return unsupported{}, unsupported{}
}

// XDoTool reads the focused X11 window with the xdotool binary.
type XDoTool struct{}

func (XDoTool) ActiveWindow(ctx context.Context) (Window, bool, error) {
	id, err := output(ctx, "xdotool", "getactivewindow")
	if err != nil || id == "" {
		// xdotool exits non-zero when no window has focus.
		var exitErr *exec.ExitError
		if err == nil || errors.As(err, &exitErr) {
			return Window{}, false, nil
		}
		return Window{}, false, err
	}
	title, err := output(ctx, "xdotool", "getwindowname", id)
	if err != nil {
		return Window{}, false, err
	}
	w := Window{Title: title}
	if pid, err := output(ctx, "xdotool", "getwindowpid", id); err == nil {
		if n, err := strconv.ParseInt(pid, 10, 32); err == nil {
			w.PID = int32(n)
		}
	}
	return w, true, nil
}

// XPrintIdle reads the X11 idle time with the xprintidle binary.
type XPrintIdle struct{}

func (XPrintIdle) IdleTime(ctx context.Context) (time.Duration, error) {
	out, err := output(ctx, "xprintidle")
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

type unsupported struct{}

func (unsupported) ActiveWindow(context.Context) (Window, bool, error) {
	return Window{}, false, ErrUnsupported
}

func (unsupported) IdleTime(context.Context) (time.Duration, error) {
	return 0, ErrUnsupported
}

// Gopsutil names processes through gopsutil.
type Gopsutil struct{}

func (Gopsutil) ProcessName(ctx context.Context, pid int32) (string, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return "", fmt.Errorf("process %d not found: %w", pid, err)
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("process %d name: %w", pid, err)
	}
	return name, nil
}
