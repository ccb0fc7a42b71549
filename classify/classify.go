// Package classify maps a raw (process name, window title) pair to a
// human readable label and a category.
//
// Classification is a total function: every input resolves to a
// non-empty label and a category from entity.AllCategories.
package classify

import (
	"strings"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

// Unknown is the label used when neither a process name nor a title is available.
const Unknown = "Unknown"

// Result is the outcome of classifying one sample.
type Result struct {
	Label    string
	Category entity.Category
}

// input carries the lowered forms so detectors do not recompute them.
type input struct {
	process    string
	title      string
	procLower  string
	titleLower string
	rules      *rules.RuleSet
}

// detector is one link of the classification chain. detect returns false
// to let the next detector try.
type detector struct {
	name   string
	detect func(in input) (Result, bool)
}

// Classifier runs the detector chain.
type Classifier struct {
	// IDEDetection enables the Visual Studio and VS Code workspace detectors.
	IDEDetection bool
}

// Default classifies with every detector enabled.
var Default = Classifier{IDEDetection: true}

// Classify is Default.Classify.
func Classify(processName, windowTitle string, rs *rules.RuleSet) Result {
	return Default.Classify(processName, windowTitle, rs)
}

// Classify returns the label and category for a sample. It never returns
// an empty label.
func (c Classifier) Classify(processName, windowTitle string, rs *rules.RuleSet) Result {
	in := input{
		process: strings.TrimSpace(processName),
		title:   strings.TrimSpace(windowTitle),
		rules:   rs,
	}
	in.procLower = strings.ToLower(in.process)
	in.titleLower = strings.ToLower(in.title)

	for _, d := range c.chain() {
		if res, ok := d.detect(in); ok && res.Label != "" {
			return res
		}
	}
	return fallback(in)
}

func (c Classifier) chain() []detector {
	if c.IDEDetection {
		return fullChain
	}
	return fullChain[2:]
}

// fullChain is evaluated in order; the first detector to return a label wins.
var fullChain = []detector{
	{"visual-studio", detectVisualStudio},
	{"vscode", detectVSCode},
	{"keyword-rules", detectKeywordRule},
	{"browser", detectBrowser},
	{"teams", detectTeams},
	{"communication", detectCommunication},
	{"remote-desktop", detectRemoteDesktop},
	{"security", detectSecurity},
	{"editor", detectEditor},
	{"office", detectOffice},
	{"terminal", detectTerminal},
	{"media", detectMedia},
	{"explorer", detectExplorer},
	{"system", detectSystemTool},
}

func detectKeywordRule(in input) (Result, bool) {
	kr, ok := in.rules.MatchKeyword(in.process, in.title)
	if !ok {
		return Result{}, false
	}
	cat := kr.Category
	if cat == "" {
		cat = entity.Other
	}
	return Result{Label: kr.Name, Category: cat}, true
}

func fallback(in input) Result {
	if in.process != "" && !strings.EqualFold(in.process, Unknown) {
		if name := trimExe(in.process); name != "" {
			return Result{Label: "App: " + name, Category: entity.Other}
		}
	}
	if in.title != "" {
		first := strings.TrimSpace(strings.SplitN(in.title, " - ", 2)[0])
		if first != "" {
			return Result{Label: "Window: " + truncate(first, 50), Category: entity.Other}
		}
	}
	return Result{Label: Unknown, Category: entity.Other}
}

func trimExe(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		name = name[:len(name)-4]
	} else if strings.EqualFold(name, ".exe") {
		return ""
	}
	return strings.TrimSpace(name)
}
