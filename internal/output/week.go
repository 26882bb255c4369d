package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/ihildy/weekhours/internal/clock"
	"github.com/ihildy/weekhours/internal/week"
)

const progressWidth = 30

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	weekendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4299E1"))
)

// ColorEnabled reports whether w is a terminal worth styling.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WeekSummary is the JSON form of a rendered week.
type WeekSummary struct {
	WeekStart  string     `json:"week_start"`
	TotalHours float64    `json:"total_hours"`
	GoalHours  float64    `json:"goal_hours"`
	Days       []DayTotal `json:"days"`
}

type DayTotal struct {
	Day      string         `json:"day"`
	Weekend  bool           `json:"weekend"`
	Hours    float64        `json:"hours"`
	Sessions []week.Session `json:"sessions"`
}

func SummarizeWeek(weekStart string, w week.Week, goal float64) WeekSummary {
	s := WeekSummary{WeekStart: weekStart, TotalHours: week.TotalHours(w), GoalHours: goal, Days: make([]DayTotal, 0, len(w))}
	for _, d := range w {
		sessions := d.Sessions
		if sessions == nil {
			sessions = []week.Session{}
		}
		s.Days = append(s.Days, DayTotal{Day: d.Day, Weekend: week.IsWeekend(d.Day), Hours: week.DayHours(d), Sessions: sessions})
	}
	return s
}

// RenderWeek lays out one row per session with per-day hours, then the
// weekly total and a progress bar toward goal.
func RenderWeek(weekStart string, w week.Week, goal float64, color bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	dayWidth := runewidth.StringWidth("Day")
	for _, d := range w {
		if n := runewidth.StringWidth(d.Day); n > dayWidth {
			dayWidth = n
		}
	}
	const timeWidth = 8

	var b strings.Builder
	if weekStart != "" {
		fmt.Fprintf(&b, "Week of %s\n", weekStart)
	}
	header := fmt.Sprintf("%s  %s  %s  %s  %s",
		runewidth.FillRight("Day", dayWidth), runewidth.FillRight("#", 2),
		runewidth.FillRight("In", timeWidth), runewidth.FillRight("Out", timeWidth), "Hours")
	b.WriteString(style(headerStyle, header))
	b.WriteString("\n")

	for _, d := range w {
		label := d.Day
		if week.IsWeekend(d.Day) {
			label += "*"
		}
		if len(d.Sessions) == 0 {
			row := fmt.Sprintf("%s  %s  %s", runewidth.FillRight(label, dayWidth+1), runewidth.FillRight("-", 2), "(no sessions)")
			b.WriteString(rowStyle(style, d.Day, row))
			b.WriteString("\n")
			continue
		}
		for i, s := range d.Sessions {
			name := ""
			if i == 0 {
				name = label
			}
			row := fmt.Sprintf("%s  %s  %s  %s  %5.2f",
				runewidth.FillRight(name, dayWidth+1),
				runewidth.FillRight(fmt.Sprintf("%d", i+1), 2),
				runewidth.FillRight(displayTime(s.CheckIn), timeWidth),
				runewidth.FillRight(displayTime(s.CheckOut), timeWidth),
				week.SessionHours(s.CheckIn, s.CheckOut))
			b.WriteString(rowStyle(style, d.Day, row))
			b.WriteString("\n")
		}
	}

	total := week.TotalHours(w)
	b.WriteString("* weekend, not counted\n")
	b.WriteString(style(totalStyle, fmt.Sprintf("Total: %.2f / %.0f hours", total, goal)))
	b.WriteString("\n")
	b.WriteString(ProgressBar(total, goal, color))
	return b.String()
}

// ProgressBar draws progress toward the weekly goal, capped at 100%.
func ProgressBar(total, goal float64, color bool) string {
	pct := 0.0
	if goal > 0 {
		pct = total / goal
	}
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	if color {
		bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth))
		return bar.ViewAs(pct)
	}
	filled := int(pct*progressWidth + 0.5)
	return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("#", filled), strings.Repeat(".", progressWidth-filled), pct*100)
}

func rowStyle(style func(lipgloss.Style, string) string, day, row string) string {
	if week.IsWeekend(day) {
		return style(weekendStyle, row)
	}
	return row
}

func displayTime(v string) string {
	if v == "" {
		return "--:--"
	}
	if f := clock.Format12h(v); f != "" {
		return f
	}
	return v
}
