// Package tui provides the Bubble Tea week editor.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ihildy/weekhours/internal/clock"
	"github.com/ihildy/weekhours/internal/output"
	"github.com/ihildy/weekhours/internal/week"
)

const (
	statusClearDelay = 2 * time.Second
	minuteStep       = 5
)

// SaveFunc pushes a week and returns the week the backend confirmed.
type SaveFunc func(ctx context.Context, w week.Week) (week.Week, error)

type savedMsg struct {
	week week.Week
	err  error
}

type clearStatusMsg struct {
	seq int
}

type row struct {
	day     int
	session int // -1 for a day with no sessions
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	activeStyle  = lipgloss.NewStyle().Reverse(true)
	weekendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the interactive week editor.
type Model struct {
	week      week.Week
	weekStart string
	goal      float64
	save      SaveFunc
	keys      keyMap

	rows   []row
	cursor int
	field  week.Field
	picker clock.Picker

	status    string
	statusSeq int
	saving    bool
	dirty     bool
}

func NewModel(w week.Week, weekStart string, goal float64, save SaveFunc) *Model {
	m := &Model{
		week:      w.Clone(),
		weekStart: weekStart,
		goal:      goal,
		save:      save,
		keys:      defaultKeyMap(),
		field:     week.FieldCheckIn,
	}
	m.rebuildRows()
	m.loadPicker()
	return m
}

// Week returns the week as currently edited.
func (m *Model) Week() week.Week { return m.week.Clone() }

// Dirty reports whether there are edits not yet confirmed by a save.
func (m *Model) Dirty() bool { return m.dirty }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			return m, m.setStatus("Save failed: " + msg.err.Error())
		}
		m.week = msg.week.Clone()
		m.dirty = false
		m.rebuildRows()
		m.loadPicker()
		return m, m.setStatus("Saved successfully!")
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Field):
		if m.field == week.FieldCheckIn {
			m.field = week.FieldCheckOut
		} else {
			m.field = week.FieldCheckIn
		}
		m.loadPicker()
	case key.Matches(msg, m.keys.HourUp):
		m.applyPicker(func(p *clock.Picker) (string, bool) { return p.StepHour(1) })
	case key.Matches(msg, m.keys.HourDown):
		m.applyPicker(func(p *clock.Picker) (string, bool) { return p.StepHour(-1) })
	case key.Matches(msg, m.keys.MinuteUp):
		m.applyPicker(func(p *clock.Picker) (string, bool) { return p.StepMinute(minuteStep) })
	case key.Matches(msg, m.keys.MinuteDown):
		m.applyPicker(func(p *clock.Picker) (string, bool) { return p.StepMinute(-minuteStep) })
	case key.Matches(msg, m.keys.Period):
		m.applyPicker(func(p *clock.Picker) (string, bool) { return p.TogglePeriod() })
	case key.Matches(msg, m.keys.Clear):
		r := m.current()
		m.edit(func(w week.Week) (week.Week, bool) { return w.UpdateSession(r.day, r.session, m.field, "") })
		m.loadPicker()
	case key.Matches(msg, m.keys.Add):
		r := m.current()
		if m.edit(func(w week.Week) (week.Week, bool) { return w.AddSession(r.day) }) {
			m.cursor = m.lastRowOf(r.day)
			m.loadPicker()
		}
	case key.Matches(msg, m.keys.Remove):
		r := m.current()
		if m.edit(func(w week.Week) (week.Week, bool) { return w.RemoveSession(r.day, r.session) }) {
			m.cursor = m.rowIndex(r.day, r.session-1)
			m.loadPicker()
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.startSave()
	}
	return m, nil
}

func (m *Model) startSave() tea.Cmd {
	if m.saving || m.save == nil {
		return nil
	}
	m.saving = true
	m.status = "Saving..."
	m.statusSeq++
	snapshot := m.week.Clone()
	save := m.save
	return func() tea.Msg {
		confirmed, err := save(context.Background(), snapshot)
		return savedMsg{week: confirmed, err: err}
	}
}

// setStatus shows a message and schedules its removal. A newer message
// cancels the pending clear of an older one.
func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusClearDelay, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) edit(fn func(week.Week) (week.Week, bool)) bool {
	next, ok := fn(m.week)
	if !ok {
		return false
	}
	m.week = next
	m.dirty = true
	m.rebuildRows()
	return true
}

// applyPicker changes the picker for the focused cell and writes the value
// only once both hour and minute are chosen.
func (m *Model) applyPicker(fn func(*clock.Picker) (string, bool)) {
	r := m.current()
	if r.session < 0 {
		return
	}
	value, ok := fn(&m.picker)
	if !ok {
		return
	}
	m.edit(func(w week.Week) (week.Week, bool) { return w.UpdateSession(r.day, r.session, m.field, value) })
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.rows) {
		return
	}
	m.cursor = next
	m.loadPicker()
}

func (m *Model) loadPicker() {
	m.picker = clock.FromValue(m.currentValue())
}

func (m *Model) currentValue() string {
	r := m.current()
	if r.session < 0 || r.day >= len(m.week) || r.session >= len(m.week[r.day].Sessions) {
		return ""
	}
	s := m.week[r.day].Sessions[r.session]
	if m.field == week.FieldCheckOut {
		return s.CheckOut
	}
	return s.CheckIn
}

func (m *Model) current() row {
	if len(m.rows) == 0 {
		return row{day: -1, session: -1}
	}
	return m.rows[m.cursor]
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for di, d := range m.week {
		if len(d.Sessions) == 0 {
			m.rows = append(m.rows, row{day: di, session: -1})
			continue
		}
		for si := range d.Sessions {
			m.rows = append(m.rows, row{day: di, session: si})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rowIndex finds the row for a day's session, falling back to the day's
// first row.
func (m *Model) rowIndex(day, session int) int {
	first := -1
	for i, r := range m.rows {
		if r.day != day {
			continue
		}
		if first < 0 {
			first = i
		}
		if r.session == session {
			return i
		}
	}
	if first < 0 {
		return m.cursor
	}
	return first
}

func (m *Model) lastRowOf(day int) int {
	last := m.cursor
	for i, r := range m.rows {
		if r.day == day {
			last = i
		}
	}
	return last
}

func (m *Model) View() string {
	var b strings.Builder
	title := "Weekly hours"
	if m.weekStart != "" {
		title += " · week of " + m.weekStart
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		d := m.week[r.day]
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		name := ""
		if r.session <= 0 {
			name = d.Day
		}
		var line string
		if r.session < 0 {
			line = fmt.Sprintf("%-10s (no sessions)", name)
		} else {
			s := d.Sessions[r.session]
			in, out := cell(s.CheckIn), cell(s.CheckOut)
			if i == m.cursor {
				if m.field == week.FieldCheckIn {
					in = activeStyle.Render(m.pickerCell(in))
				} else {
					out = activeStyle.Render(m.pickerCell(out))
				}
			}
			line = fmt.Sprintf("%-10s %s  →  %s  %5.2fh", name, in, out, week.SessionHours(s.CheckIn, s.CheckOut))
		}
		if week.IsWeekend(d.Day) {
			line = weekendStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	total := week.TotalHours(m.week)
	b.WriteString(fmt.Sprintf("\nTotal: %.2f / %.0f hours (weekends excluded)\n", total, m.goal))
	b.WriteString(output.ProgressBar(total, m.goal, true))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

// pickerCell shows a partial picker selection that has not been written yet.
func (m *Model) pickerCell(written string) string {
	if _, ok := m.picker.Value(); ok || (!m.picker.HourSet() && !m.picker.MinuteSet()) {
		return written
	}
	h, mm := "--", "--"
	if m.picker.HourSet() {
		h = fmt.Sprintf("%02d", m.picker.Hour)
	}
	if m.picker.MinuteSet() {
		mm = fmt.Sprintf("%02d", m.picker.Minute)
	}
	return fmt.Sprintf("%s:%s %s", h, mm, m.picker.Period)
}

func (m *Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func cell(v string) string {
	if f := clock.Format12h(v); f != "" {
		return f
	}
	return "--:-- --"
}

// Run starts the editor and returns the final model once the user quits.
func Run(m *Model) (*Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("run editor: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok {
		return m, nil
	}
	return fm, nil
}
