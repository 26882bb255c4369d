package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihildy/weekhours/internal/week"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestPartialPickerDoesNotWrite(t *testing.T) {
	m := NewModel(week.NewEmptyWeek(), "2026-10-12", 40, nil)

	press(t, m, runes("+"))
	assert.Equal(t, "", m.Week()[0].Sessions[0].CheckIn, "hour alone must not write")
	assert.False(t, m.Dirty())
	assert.Contains(t, m.View(), "01:-- AM")

	press(t, m, runes(">"))
	assert.Equal(t, "01:00", m.Week()[0].Sessions[0].CheckIn)
	assert.True(t, m.Dirty())
}

func TestPickerEditsAndTotal(t *testing.T) {
	w, _ := week.NewEmptyWeek().UpdateSession(0, 0, week.FieldCheckIn, "09:00")
	m := NewModel(w, "", 40, nil)

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for i := 0; i < 5; i++ {
		press(t, m, runes("+"))
	}
	press(t, m, runes(">"))
	press(t, m, runes("p"))

	assert.Equal(t, "17:00", m.Week()[0].Sessions[0].CheckOut)
	assert.Contains(t, m.View(), "Total: 8.00 / 40 hours")
}

func TestAddAndRemoveSession(t *testing.T) {
	m := NewModel(week.NewEmptyWeek(), "", 40, nil)

	press(t, m, runes("a"))
	require.Len(t, m.Week()[0].Sessions, 2)
	assert.Equal(t, 1, m.cursor)

	press(t, m, runes("x"))
	assert.Len(t, m.Week()[0].Sessions, 1)

	press(t, m, runes("x"))
	assert.Len(t, m.Week()[0].Sessions, 0)
	assert.Contains(t, m.View(), "(no sessions)")

	press(t, m, runes("a"))
	assert.Len(t, m.Week()[0].Sessions, 1)
}

func TestCursorStaysInBounds(t *testing.T) {
	m := NewModel(week.NewEmptyWeek(), "", 40, nil)
	press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	for i := 0; i < 20; i++ {
		press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 6, m.cursor)
}

func TestSaveSuccessReplacesWeek(t *testing.T) {
	confirmed, _ := week.NewEmptyWeek().UpdateSession(2, 0, week.FieldCheckIn, "08:00")
	var pushed week.Week
	save := func(_ context.Context, w week.Week) (week.Week, error) {
		pushed = w
		return confirmed, nil
	}
	m := NewModel(week.NewEmptyWeek(), "", 40, save)
	press(t, m, runes("a"))

	cmd := press(t, m, runes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Saving...", m.status)

	msg := cmd()
	clearCmd := press(t, m, msg)
	require.NotNil(t, clearCmd)
	assert.Len(t, pushed[0].Sessions, 2)
	assert.Equal(t, "Saved successfully!", m.status)
	assert.Equal(t, "08:00", m.Week()[2].Sessions[0].CheckIn)
	assert.False(t, m.Dirty())

	press(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	save := func(context.Context, week.Week) (week.Week, error) {
		return nil, errors.New("failed to save week data: nope")
	}
	m := NewModel(week.NewEmptyWeek(), "", 40, save)
	press(t, m, runes("a"))

	cmd := press(t, m, runes("s"))
	press(t, m, cmd())

	assert.True(t, strings.HasPrefix(m.status, "Save failed"))
	assert.Len(t, m.Week()[0].Sessions, 2)
	assert.True(t, m.Dirty())
}

func TestStaleStatusClearIgnored(t *testing.T) {
	m := NewModel(week.NewEmptyWeek(), "", 40, nil)
	m.setStatus("first")
	old := m.statusSeq
	m.setStatus("second")
	press(t, m, clearStatusMsg{seq: old})
	assert.Equal(t, "second", m.status)
}

func TestQuit(t *testing.T) {
	m := NewModel(week.NewEmptyWeek(), "", 40, nil)
	cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
