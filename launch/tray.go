package launch

import (
	"context"
	"os"

	"github.com/getlantern/systray"
)

const appTitle = "ActivityMonitor"

// Tooltip renders a status for the tray icon.
func Tooltip(st Status) string {
	switch {
	case st.Paused:
		return appTitle + ": paused"
	case st.Label == "":
		return appTitle + ": starting"
	case st.Active:
		return appTitle + ": " + st.Label
	default:
		return appTitle + ": idle (" + st.Label + ")"
	}
}

// StartTray runs the tray icon on the calling goroutine until Quit is
// clicked or ctx is done; either way it calls stop. It installs the status
// callback on t. iconPath may be empty.
func StartTray(ctx context.Context, t *Tracker, iconPath string, stop func()) {
	onReady := func() {
		if iconPath != "" {
			if icon, err := os.ReadFile(iconPath); err == nil {
				systray.SetIcon(icon)
			}
		}
		systray.SetTitle(appTitle)
		systray.SetTooltip(Tooltip(t.Status()))

		mStatus := systray.AddMenuItem("Starting", "Current activity")
		mStatus.Disable()
		systray.AddSeparator()
		mPause := systray.AddMenuItemCheckbox("Pause tracking", "Stop recording until resumed", t.Paused())
		mQuit := systray.AddMenuItem("Quit", "Quit the application")

		t.SetOnStatus(func(st Status) {
			systray.SetTooltip(Tooltip(st))
			mStatus.SetTitle(Tooltip(st))
		})

		go func() {
			for {
				select {
				case <-mPause.ClickedCh:
					if mPause.Checked() {
						mPause.Uncheck()
						t.Resume()
					} else {
						mPause.Check()
						t.Pause()
					}
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				case <-ctx.Done():
					systray.Quit()
					return
				}
			}
		}()
	}
	systray.Run(onReady, stop)
}
