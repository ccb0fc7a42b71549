package classify

import (
	"regexp"
	"strings"

	"activitymonitor/entity"
)

type app struct {
	key  string
	name string
}

var (
	browserProcesses = []string{"chrome", "firefox", "msedge", "brave", "opera", "edge"}

	browserSuffixes = []string{
		" - Microsoft Edge", " - Microsoft\u200b Edge",
		" - Google Chrome", " - Mozilla Firefox",
		" - Brave", " - Opera",
	}

	communicationApps = []app{
		{"slack", "Slack"},
		{"zoom", "Zoom"},
		{"discord", "Discord"},
		{"webex", "Webex"},
		{"whatsapp", "WhatsApp"},
		{"telegram", "Telegram"},
		{"signal", "Signal"},
		{"skype", "Skype"},
	}

	remoteApps = []app{
		{"mstsc", "Remote Desktop"},
		{"rdcman", "RD Connection Manager"},
		{"anydesk", "AnyDesk"},
		{"teamviewer", "TeamViewer"},
		{"rustdesk", "RustDesk"},
		{"vmconnect", "Hyper-V Connect"},
		{"vmware", "VMware"},
		{"virtualbox", "VirtualBox"},
	}

	// "vpn" precedes "openvpn", so OpenVPN reports as the generic VPN.
	securityApps = []app{
		{"forticlient", "FortiClient VPN"},
		{"vpn", "VPN"},
		{"openvpn", "OpenVPN"},
		{"wireguard", "WireGuard"},
		{"cisco", "Cisco VPN"},
		{"globalprotect", "GlobalProtect"},
		{"defender", "Windows Defender"},
		{"malwarebytes", "Malwarebytes"},
	}

	editorProcesses = []string{"notepad", "notepad++", "sublime", "atom", "textpad", "ultraedit"}
	editorSuffixes  = []string{" - notepad++", " - notepad", " - sublime text", " - atom"}

	terminalProcesses = []string{"windowsterminal", "cmd", "powershell", "conhost", "wsl"}
	mediaProcesses    = []string{"music", "vlc", "media", "groove", "itunes", "foobar"}
	systemProcesses   = []string{"taskmgr", "control", "mmc", "regedit", "services", "perfmon", "resmon"}

	morePages = regexp.MustCompile(`(?i)\s+and\s+\d+\s+more\s+pages?\s*$`)
)

func detectBrowser(in input) (Result, bool) {
	if !containsAny(in.procLower, browserProcesses) {
		return Result{}, false
	}
	if page := browserPageTitle(in.title); page != "" {
		return Result{Label: "Browser: " + ellipsize(page, 60), Category: entity.Browser}, true
	}
	return Result{Label: "Browser", Category: entity.Browser}, true
}

// browserPageTitle reduces "Page and 5 more pages - Work - Microsoft Edge"
// to "Page". A trailing segment of at most 20 characters without spaces is
// taken to be a browser profile name.
func browserPageTitle(title string) string {
	for _, suffix := range browserSuffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSuffix(title, suffix)
			break
		}
	}
	if i := strings.LastIndex(title, " - "); i >= 0 {
		profile := strings.TrimSpace(title[i+3:])
		if len([]rune(profile)) <= 20 && !strings.Contains(profile, " ") {
			title = title[:i]
		}
	}
	title = morePages.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func detectCommunication(in input) (Result, bool) {
	for _, a := range communicationApps {
		if strings.Contains(in.procLower, a.key) || strings.Contains(in.titleLower, a.key) {
			return Result{Label: a.name, Category: entity.Communication}, true
		}
	}
	return Result{}, false
}

func detectRemoteDesktop(in input) (Result, bool) {
	for _, a := range remoteApps {
		if !strings.Contains(in.procLower, a.key) {
			continue
		}
		if in.title != "" && in.title != a.name {
			conn := truncate(strings.SplitN(in.title, " - ", 2)[0], 40)
			return Result{Label: a.name + ": " + conn, Category: entity.RemoteDesktop}, true
		}
		return Result{Label: a.name, Category: entity.RemoteDesktop}, true
	}
	return Result{}, false
}

func detectSecurity(in input) (Result, bool) {
	for _, a := range securityApps {
		if strings.Contains(in.procLower, a.key) || strings.Contains(in.titleLower, a.key) {
			return Result{Label: a.name, Category: entity.Security}, true
		}
	}
	return Result{}, false
}

func detectEditor(in input) (Result, bool) {
	if !containsAny(in.procLower, editorProcesses) {
		return Result{}, false
	}
	if name := editorFilename(in.title); name != "" {
		return Result{Label: "Editor: " + name, Category: entity.Editor}, true
	}
	return Result{Label: "Editor: " + trimExe(in.process), Category: entity.Editor}, true
}

// editorFilename strips the editor suffix and the unsaved marker from
// titles like "*notes.txt - Notepad++".
func editorFilename(title string) string {
	lower := strings.ToLower(title)
	for _, suffix := range editorSuffixes {
		if i := strings.Index(lower, suffix); i >= 0 {
			title = title[:i]
			break
		}
	}
	return strings.TrimSpace(strings.TrimLeft(title, "*"))
}

func detectOffice(in input) (Result, bool) {
	p := in.procLower
	switch {
	case strings.Contains(p, "outlook"):
		return Result{Label: "Outlook", Category: entity.Email}, true
	case containsAny(p, []string{"winword", "word"}):
		return officeResult("Word", in.title), true
	case containsAny(p, []string{"excel", "xlim"}):
		return officeResult("Excel", in.title), true
	case containsAny(p, []string{"powerpnt", "powerpoint"}):
		return officeResult("PowerPoint", in.title), true
	case strings.Contains(p, "onenote"):
		return Result{Label: "OneNote", Category: entity.Office}, true
	}
	return Result{}, false
}

func officeResult(appName, title string) Result {
	if doc := officeDocument(appName, title); doc != "" {
		return Result{Label: appName + ": " + doc, Category: entity.Office}
	}
	return Result{Label: appName, Category: entity.Office}
}

// officeDocument returns the document part of "Report.docx - Word",
// ignoring the generic placeholder names.
func officeDocument(appName, title string) string {
	if title == "" {
		return ""
	}
	doc := strings.TrimSpace(strings.SplitN(title, " - ", 2)[0])
	if oneOf(strings.ToLower(doc), []string{"document", "book", "presentation", strings.ToLower(appName)}) {
		return ""
	}
	return truncate(doc, 50)
}

func detectTerminal(in input) (Result, bool) {
	if !containsAny(in.procLower, terminalProcesses) {
		return Result{}, false
	}
	if in.title == "" {
		return Result{Label: "Terminal", Category: entity.Terminal}, true
	}
	if dir := TerminalDirectory(in.title); dir != "" {
		return Result{Label: "Terminal: " + dir, Category: entity.Terminal}, true
	}
	return Result{Label: "Terminal: " + truncate(in.title, 50), Category: entity.Terminal}, true
}

func detectMedia(in input) (Result, bool) {
	if strings.Contains(in.procLower, "spotify") {
		if in.title != "" && in.title != "Spotify" {
			return Result{Label: "Spotify: " + truncate(in.title, 50), Category: entity.Media}, true
		}
		return Result{Label: "Spotify", Category: entity.Media}, true
	}
	if containsAny(in.procLower, mediaProcesses) {
		return Result{Label: "Media Player", Category: entity.Media}, true
	}
	return Result{}, false
}

func detectExplorer(in input) (Result, bool) {
	if !strings.Contains(in.procLower, "explorer") {
		return Result{}, false
	}
	if in.title == "" || oneOf(in.titleLower, []string{"program manager", "desktop"}) {
		return Result{Label: "Desktop", Category: entity.System}, true
	}
	return Result{Label: "Explorer: " + truncate(in.title, 50), Category: entity.System}, true
}

func detectSystemTool(in input) (Result, bool) {
	if containsAny(in.procLower, systemProcesses) {
		return Result{Label: "System Tools", Category: entity.System}, true
	}
	return Result{}, false
}
