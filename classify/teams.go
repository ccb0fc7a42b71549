package classify

import (
	"regexp"
	"strings"

	"activitymonitor/entity"
)

const teams = "Teams"

var (
	teamsSuffix = regexp.MustCompile(`(?i)^(.+?)\s*[-|]\s*Microsoft\s*Teams\s*$`)
	teamsChat   = regexp.MustCompile(`(?i)^(.+?)\s*\|\s*Chat\s*$`)
	teamsGroup  = regexp.MustCompile(`(?i)^Chat\s*\|\s*(.+)$`)

	meetingWords = []string{"meeting", "call with", "scheduled", "standup", "sync",
		"review", "planning", "retro", "1:1", "1-1", "one-on-one"}
	teamsUIWords = []string{"activity", "calendar", "files", "apps", "search", "settings",
		"notifications", "teams and channels", "new teams"}
)

func detectTeams(in input) (Result, bool) {
	if !strings.Contains(in.procLower, "teams") && !strings.Contains(in.titleLower, "teams") {
		return Result{}, false
	}
	return Result{Label: TeamsContext(in.title), Category: entity.Communication}, true
}

// TeamsContext turns a Teams window title into "Teams - <meeting>",
// "Teams - Chat: <people>" or plain "Teams".
func TeamsContext(title string) string {
	title = strings.TrimSpace(title)
	lower := strings.ToLower(title)
	if oneOf(lower, []string{"", "teams", "microsoft teams"}) {
		return teams
	}

	if m := teamsSuffix.FindStringSubmatch(title); m != nil {
		if ctx := strings.TrimSpace(m[1]); ctx != "" && !strings.EqualFold(ctx, "microsoft") {
			return teams + " - " + ellipsize(ctx, 50)
		}
	}
	if m := teamsChat.FindStringSubmatch(title); m != nil {
		if who := strings.TrimSpace(m[1]); who != "" {
			return teams + " - Chat: " + ellipsize(who, 40)
		}
	}
	if m := teamsGroup.FindStringSubmatch(title); m != nil {
		if who := strings.TrimSpace(m[1]); who != "" {
			return teams + " - Chat: " + ellipsize(who, 40)
		}
	}

	if containsAny(lower, meetingWords) {
		return teams + " - " + ellipsize(firstSegment(title), 50)
	}

	// A bare name with spaces is most likely a call or chat window.
	n := len([]rune(title))
	if !containsAny(lower, teamsUIWords) && strings.Contains(title, " ") && n >= 3 && n <= 60 {
		if clean := firstSegment(title); clean != "" {
			return teams + " - " + ellipsize(clean, 50)
		}
	}
	return teams
}

func firstSegment(title string) string {
	s := strings.SplitN(title, " - ", 2)[0]
	s = strings.SplitN(s, " | ", 2)[0]
	return strings.TrimSpace(s)
}
