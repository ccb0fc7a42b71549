package classify

import (
	"regexp"
	"strings"

	"activitymonitor/entity"
)

const (
	visualStudioMarker = "microsoft visual studio"
	vscodeMarker       = "visual studio code"
)

var (
	visualStudioProcesses = []string{"devenv.exe", "devenv"}
	vscodeProcesses       = []string{"code.exe", "code", "code - insiders.exe"}

	// Non-project Visual Studio windows.
	visualStudioSkip = []string{"start page", "getting started", "welcome", "options", "about"}
	vscodeSkip       = []string{"welcome", "settings", "extensions", "keyboard shortcuts"}

	visualStudioTitle = regexp.MustCompile(`(?i)^(?:.*?\s+-\s+)?([^-()]+?)(?:\s*\([^)]*\))?\s*-\s*Microsoft Visual Studio`)
	vscodeTitle       = regexp.MustCompile(`(?i)^(?:.*? - )?([^-\[\]]+?)(?:\s*\[.*?\])?\s*-\s*Visual Studio Code`)

	trailingParens  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingBracket = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
	anyBracket      = regexp.MustCompile(`\s*\[.*?\]\s*`)
)

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, v := range subs {
		if strings.Contains(s, v) {
			return true
		}
	}
	return false
}

func detectVisualStudio(in input) (Result, bool) {
	if !oneOf(in.procLower, visualStudioProcesses) && !strings.Contains(in.titleLower, visualStudioMarker) {
		return Result{}, false
	}
	name := visualStudioSolution(in.title)
	if name == "" {
		return Result{}, false
	}
	return Result{Label: name, Category: entity.Development}, true
}

// visualStudioSolution extracts the solution name from titles such as
//
//	"MyApp - Microsoft Visual Studio"
//	"MyApp (Running) - Microsoft Visual Studio"
//	"Program.cs - MyApp - Microsoft Visual Studio"
//	"MyApp - Microsoft Visual Studio [Administrator]"
//
// A first segment that looks like a file name (a dot followed by at most
// five characters) yields to the second segment. Dotted solution names
// like "Contoso.Web" hit the same rule.
func visualStudioSolution(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	if containsAny(lower, visualStudioSkip) || !strings.Contains(lower, visualStudioMarker) {
		return ""
	}

	parts := strings.Split(title, " - ")
	if len(parts) >= 2 {
		solution := stripStatus(parts[0])
		if looksLikeFilename(solution) && len(parts) >= 3 {
			solution = stripStatus(parts[1])
		}
		if solution != "" && !oneOf(strings.ToLower(solution), []string{"untitled", "new project"}) {
			return solution
		}
	}

	if m := visualStudioTitle.FindStringSubmatch(title); m != nil {
		project := strings.TrimSpace(m[1])
		if project != "" && !oneOf(strings.ToLower(project), []string{"untitled", "new project", "start page"}) {
			return project
		}
	}
	return ""
}

// stripStatus removes one trailing "(Running)"-style group and one
// trailing "[Administrator]"-style group. Parentheses that are not at the
// end of the segment are kept, as is a segment made only of a group.
func stripStatus(s string) string {
	s = strings.TrimSpace(s)
	if out := strings.TrimSpace(trailingParens.ReplaceAllString(s, "")); out != "" {
		s = out
	}
	if out := strings.TrimSpace(trailingBracket.ReplaceAllString(s, "")); out != "" {
		s = out
	}
	return s
}

func looksLikeFilename(s string) bool {
	i := strings.LastIndex(s, ".")
	return i >= 0 && len(s)-i-1 <= 5
}

func detectVSCode(in input) (Result, bool) {
	if !oneOf(in.procLower, vscodeProcesses) && !strings.Contains(in.titleLower, vscodeMarker) {
		return Result{}, false
	}
	name := vscodeWorkspace(in.title)
	if name == "" {
		return Result{}, false
	}
	return Result{Label: name, Category: entity.Development}, true
}

// vscodeWorkspace extracts the folder or workspace from titles such as
// "main.go - myproject - Visual Studio Code" or
// "main.go - myproject [WSL: Ubuntu] - Visual Studio Code".
func vscodeWorkspace(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	if containsAny(lower, vscodeSkip) {
		return ""
	}
	rejected := []string{"untitled", "output", "terminal", "debug console"}

	if m := vscodeTitle.FindStringSubmatch(title); m != nil {
		project := strings.TrimSpace(m[1])
		if project != "" && !oneOf(strings.ToLower(project), rejected) {
			return project
		}
	}

	parts := strings.Split(title, " - ")
	if len(parts) >= 3 && strings.Contains(strings.ToLower(parts[len(parts)-1]), vscodeMarker) {
		project := strings.TrimSpace(anyBracket.ReplaceAllString(parts[len(parts)-2], ""))
		if project != "" && !oneOf(strings.ToLower(project), rejected[:3]) {
			return project
		}
	}
	return ""
}
