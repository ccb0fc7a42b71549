// Package view renders reports as terminal tables.
package view

import (
	"fmt"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"activitymonitor/entity"
	"activitymonitor/report"
)

// Theme holds the styles of one catppuccin flavour.
type Theme struct {
	flavor catppuccin.Flavor

	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Active lipgloss.Style
	Idle   lipgloss.Style
	Error  lipgloss.Style
}

// NewTheme returns the theme for a flavour name; unknown names get mocha.
func NewTheme(name string) Theme {
	var fl catppuccin.Flavor
	switch strings.ToLower(name) {
	case "latte":
		fl = catppuccin.Latte
	case "frappe":
		fl = catppuccin.Frappe
	case "macchiato":
		fl = catppuccin.Macchiato
	default:
		fl = catppuccin.Mocha
	}
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return Theme{
		flavor: fl,
		Title:  lipgloss.NewStyle().Bold(true).Foreground(c(fl.Mauve())),
		Header: lipgloss.NewStyle().Bold(true).Foreground(c(fl.Lavender())),
		Label:  lipgloss.NewStyle().Foreground(c(fl.Text())),
		Muted:  lipgloss.NewStyle().Foreground(c(fl.Overlay1())),
		Active: lipgloss.NewStyle().Foreground(c(fl.Green())),
		Idle:   lipgloss.NewStyle().Foreground(c(fl.Yellow())),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(c(fl.Red())),
	}
}

// Accent cycles through the flavour's accent colours, for groups that
// have no colour of their own.
func (th Theme) Accent(i int) lipgloss.Color {
	fl := th.flavor
	accents := []catppuccin.Color{
		fl.Blue(), fl.Peach(), fl.Green(), fl.Pink(), fl.Teal(),
		fl.Mauve(), fl.Yellow(), fl.Sapphire(), fl.Maroon(), fl.Flamingo(),
	}
	return lipgloss.Color(accents[((i%len(accents))+len(accents))%len(accents)].Hex)
}

func cell(s string, width int) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "..."
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func labelWidth(labels []string) int {
	w := 20
	for _, l := range labels {
		if n := lipgloss.Width(l); n > w {
			w = n
		}
	}
	if w > 60 {
		w = 60
	}
	return w
}

// Daily renders a flat summary with the day totals.
func (th Theme) Daily(day string, rows []report.Summary, tot report.DayTotals, rounding int) string {
	var b strings.Builder
	b.WriteString(th.Title.Render("Activity for "+day) + "\n\n")
	if len(rows) == 0 {
		b.WriteString(th.Muted.Render("No activity recorded.") + "\n")
		return b.String()
	}

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	lw := labelWidth(labels)

	b.WriteString(th.Header.Render(cell("Project", lw)+cell("Active", 10)+cell("Idle", 10)+"Count") + "\n")
	for _, r := range rows {
		b.WriteString(th.Label.Render(cell(r.Label, lw)) +
			th.Active.Render(cell(report.FormatDuration(r.ActiveSeconds, rounding), 10)) +
			th.Idle.Render(cell(report.FormatDuration(r.IdleSeconds(), rounding), 10)) +
			th.Muted.Render(fmt.Sprint(r.ActivityCount)) + "\n")
	}
	b.WriteString("\n" + th.Muted.Render(fmt.Sprintf("Active %s, idle %s, %.0f%% active",
		report.FormatDuration(tot.ActiveSeconds, rounding),
		report.FormatDuration(tot.IdleSeconds, rounding),
		tot.ActivePercent)) + "\n")
	return b.String()
}

// Groups renders category or tag rollups with their children indented.
func (th Theme) Groups(title string, groups []report.Group, rounding int) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(title) + "\n\n")
	if len(groups) == 0 {
		b.WriteString(th.Muted.Render("No activity recorded.") + "\n")
		return b.String()
	}

	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Name)
		for _, c := range g.Children {
			labels = append(labels, "  "+c.Label)
		}
	}
	lw := labelWidth(labels)

	for i, g := range groups {
		color := th.Accent(i)
		if g.Color != "" {
			color = lipgloss.Color(g.Color)
		}
		head := lipgloss.NewStyle().Bold(true).Foreground(color)
		b.WriteString(head.Render(cell(g.Name, lw)) +
			th.Active.Render(report.FormatDuration(g.ActiveSeconds, rounding)) + "\n")
		for _, c := range g.Children {
			b.WriteString(th.Label.Render(cell("  "+c.Label, lw)) +
				th.Muted.Render(report.FormatDuration(c.ActiveSeconds, rounding)) + "\n")
		}
	}
	return b.String()
}

// Week renders the weekday grid, Sunday first.
func (th Theme) Week(grid report.WeekGrid) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(fmt.Sprintf("Week of %s", grid.Start.Format("2006-01-02"))) + "\n\n")
	if len(grid.Rows) == 0 {
		b.WriteString(th.Muted.Render("No activity recorded.") + "\n")
		return b.String()
	}

	labels := make([]string, len(grid.Rows))
	for i, r := range grid.Rows {
		labels[i] = r.Label
	}
	lw := labelWidth(labels)

	head := cell("Project", lw)
	for _, d := range report.Weekdays() {
		head += cell(d, 7)
	}
	b.WriteString(th.Header.Render(head+"Total") + "\n")

	for _, r := range grid.Rows {
		line := th.Label.Render(cell(r.Label, lw))
		for _, s := range r.Days {
			style := th.Active
			if s == 0 {
				style = th.Muted
			}
			line += style.Render(cell(report.Cell(s), 7))
		}
		b.WriteString(line + th.Header.Render(report.Hours(r.Total)) + "\n")
	}

	foot := cell("Total", lw)
	for _, s := range grid.DayTotals {
		foot += cell(report.Cell(s), 7)
	}
	b.WriteString(th.Header.Render(foot+report.Hours(grid.Total)) + "\n")
	return b.String()
}

// Timeline renders the merged segments of a day and the list entries.
func (th Theme) Timeline(segs []report.Segment, list []report.ListEntry, rounding int) string {
	var b strings.Builder
	b.WriteString(th.Title.Render("Timeline") + "\n\n")
	for _, s := range segs {
		style := th.Active
		state := "active"
		if !s.Active {
			style, state = th.Idle, "idle"
		}
		b.WriteString(th.Muted.Render(s.Start.Format("15:04:05")+"-"+s.End.Format("15:04:05")) + "  " +
			style.Render(cell(state, 7)) + th.Label.Render(s.Label) + "\n")
	}
	if len(list) == 0 {
		return b.String()
	}
	b.WriteString("\n" + th.Header.Render(cell("Time", 10)+cell("Duration", 10)+"Project / Window") + "\n")
	for _, e := range list {
		b.WriteString(th.Muted.Render(cell(e.Start.Format("15:04:05"), 10)) +
			cell(report.FormatDuration(e.DurationSeconds, rounding), 10) +
			th.Label.Render(e.Label) + th.Muted.Render("  "+e.WindowTitle) + "\n")
	}
	return b.String()
}

// Record renders one classified record with its relabel suggestions.
func (th Theme) Record(rec entity.ActivityRecord, suggestions []string) string {
	var b strings.Builder
	row := func(k, v string) {
		b.WriteString(th.Header.Render(cell(k, 12)) + th.Label.Render(v) + "\n")
	}
	row("Label", rec.Label)
	cat := string(rec.Category)
	if cat == "" {
		cat = "-"
	}
	row("Category", cat)
	tag := rec.ProjectTag
	if tag == "" {
		tag = "-"
	}
	row("Tag", tag)
	row("Title", rec.WindowTitle)
	if len(suggestions) > 0 {
		row("Suggestions", strings.Join(suggestions, ", "))
	}
	return b.String()
}

// Timesheet renders hours per external project.
func (th Theme) Timesheet(day string, hours map[string]float64, projects []string) string {
	var b strings.Builder
	b.WriteString(th.Title.Render("Timesheet for "+day) + "\n\n")
	if len(projects) == 0 {
		b.WriteString(th.Muted.Render("No mapped project tags.") + "\n")
		return b.String()
	}
	for _, p := range projects {
		b.WriteString(th.Label.Render(cell(p, 30)) + th.Active.Render(fmt.Sprintf("%.2fh", hours[p])) + "\n")
	}
	return b.String()
}

// Table renders rows under a header, sizing each column to its widest cell.
func (th Theme) Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h) + 2
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(widths); i++ {
			if w := lipgloss.Width(r[i]) + 2; w > widths[i] {
				widths[i] = min(w, 62)
			}
		}
	}

	var b strings.Builder
	line := func(style lipgloss.Style, cols []string) {
		var s string
		for i := range widths {
			v := ""
			if i < len(cols) {
				v = cols[i]
			}
			s += cell(v, widths[i])
		}
		b.WriteString(style.Render(strings.TrimRight(s, " ")) + "\n")
	}
	line(th.Header, headers)
	for _, r := range rows {
		line(th.Label, r)
	}
	if len(rows) == 0 {
		b.WriteString(th.Muted.Render("(none)") + "\n")
	}
	return b.String()
}
