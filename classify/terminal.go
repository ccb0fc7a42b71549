package classify

import (
	"regexp"
	"strings"
)

var (
	shellNames = []string{"ubuntu", "bash", "zsh", "sh", "powershell", "cmd", "pwsh", "fish", "terminal", "console", "wsl"}

	promptPath  = regexp.MustCompile(`[:\s](~?/[^\s]+|/[^\s]+)`)
	windowsPath = regexp.MustCompile(`[A-Za-z]:[/\\][^\s]*`)
	leadingPath = regexp.MustCompile(`^(~?/[^\s]+)`)
	wslPath     = regexp.MustCompile(`(?i)/mnt/[a-z]/[^\s]*`)
	driveLetter = regexp.MustCompile(`^[a-zA-Z]$`)
)

// TerminalDirectory returns the last path component of the working
// directory shown in a terminal title, or "" when the title has no path.
//
//	"user@host: ~/Projects/MyApp"  -> "MyApp"
//	"MINGW64:/c/Projects/MyApp"    -> "MyApp"
//	"C:\Projects\MyApp"            -> "MyApp"
//	"/mnt/c/Projects/MyApp"        -> "MyApp"
//	"Ubuntu"                       -> ""
func TerminalDirectory(title string) string {
	title = strings.TrimSpace(title)
	if title == "" || oneOf(strings.ToLower(title), shellNames) {
		return ""
	}

	var path string
	if m := promptPath.FindStringSubmatch(title); m != nil {
		path = m[1]
	} else if m := windowsPath.FindString(title); m != "" {
		path = m
	} else if m := leadingPath.FindStringSubmatch(title); m != nil {
		path = m[1]
	} else if m := wslPath.FindString(title); m != "" {
		path = m
	}
	if path == "" {
		return ""
	}

	path = strings.TrimRight(strings.ReplaceAll(path, `\`, "/"), "/")
	last := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		last = path[i+1:]
	}
	last = strings.TrimSpace(last)
	if last == "" || driveLetter.MatchString(last) || len([]rune(last)) > 50 {
		return ""
	}
	return last
}
