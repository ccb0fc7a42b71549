package rules

import (
	"strings"

	"activitymonitor/entity"
)

// Remap applies the display mappings to a classified label and returns
// the label to store and show.
//
// Three independent passes run over the enabled mappings: process name to
// app name, label to project name, and window title to project name. The
// window pass runs last and overrides the project pass. The result is
// "{app} - {project}", collapsed to one part when both are equal or only
// one is set.
func Remap(label, processName, windowTitle string, rs *RuleSet) string {
	app, hasApp := firstMatch(rs.Mappings(entity.MatchProcess), processName)

	project := label
	if name, ok := firstMatch(rs.Mappings(entity.MatchProject), label); ok {
		project = name
	}
	if name, ok := firstMatch(rs.Mappings(entity.MatchWindow), windowTitle); ok {
		project = name
	}

	switch {
	case hasApp && project != "":
		if strings.EqualFold(app, project) {
			return app
		}
		return app + " - " + project
	case hasApp:
		return app
	default:
		return project
	}
}

func firstMatch(mappings []entity.DisplayMapping, value string) (string, bool) {
	if value == "" {
		return "", false
	}
	lower := strings.ToLower(value)
	for _, m := range mappings {
		if strings.Contains(lower, strings.ToLower(m.MatchValue)) {
			return m.DisplayName, true
		}
	}
	return "", false
}

// MatchTag returns the first enabled project tag with a keyword found in
// the process name or window title.
func MatchTag(processName, windowTitle string, rs *RuleSet) (entity.ProjectTag, bool) {
	proc := strings.ToLower(processName)
	title := strings.ToLower(windowTitle)
	for _, tag := range rs.Tags() {
		for _, kw := range tag.Keywords {
			k := strings.ToLower(kw)
			if strings.Contains(proc, k) || strings.Contains(title, k) {
				return tag, true
			}
		}
	}
	return entity.ProjectTag{}, false
}
