package week

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Field string

const (
	FieldCheckIn  Field = "checkIn"
	FieldCheckOut Field = "checkOut"
)

var DaysOfWeek = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Session struct {
	CheckIn  string `json:"checkIn" yaml:"checkIn" toml:"checkIn"`
	CheckOut string `json:"checkOut" yaml:"checkOut" toml:"checkOut"`
}

type DayData struct {
	Day      string    `json:"day" yaml:"day" toml:"day"`
	Sessions []Session `json:"sessions" yaml:"sessions" toml:"sessions"`
}

// Week is the seven-day model in Monday..Sunday order. Editing methods never
// mutate the receiver.
type Week []DayData

// UnmarshalJSON decodes a list of days. Any other JSON value, such as the
// backend's `{}` default for a fresh record, decodes to an empty week.
func (w *Week) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*w = nil
		return nil
	}
	var days []DayData
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*w = days
	return nil
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checkin", "in", "check-in":
		return FieldCheckIn, nil
	case "checkout", "out", "check-out":
		return FieldCheckOut, nil
	}
	return "", fmt.Errorf("invalid field %q (allowed: in, out)", s)
}

func DayIndex(name string) (int, bool) {
	for i, d := range DaysOfWeek {
		if strings.EqualFold(d, strings.TrimSpace(name)) {
			return i, true
		}
	}
	return -1, false
}

func NewEmptyWeek() Week {
	w := make(Week, 0, len(DaysOfWeek))
	for _, day := range DaysOfWeek {
		w = append(w, DayData{Day: day, Sessions: []Session{{}}})
	}
	return w
}

func (w Week) Clone() Week {
	if w == nil {
		return nil
	}
	out := make(Week, len(w))
	for i, d := range w {
		out[i] = DayData{Day: d.Day, Sessions: append([]Session(nil), d.Sessions...)}
		if d.Sessions != nil && out[i].Sessions == nil {
			out[i].Sessions = []Session{}
		}
	}
	return out
}

// UpdateSession replaces one field of one session. Out-of-range indices and
// unknown fields leave the copy unchanged and report false.
func (w Week) UpdateSession(dayIndex, sessionIndex int, field Field, value string) (Week, bool) {
	out := w.Clone()
	if !w.validSession(dayIndex, sessionIndex) {
		return out, false
	}
	s := &out[dayIndex].Sessions[sessionIndex]
	switch field {
	case FieldCheckIn:
		s.CheckIn = value
	case FieldCheckOut:
		s.CheckOut = value
	default:
		return w.Clone(), false
	}
	return out, true
}

func (w Week) AddSession(dayIndex int) (Week, bool) {
	out := w.Clone()
	if dayIndex < 0 || dayIndex >= len(w) {
		return out, false
	}
	out[dayIndex].Sessions = append(out[dayIndex].Sessions, Session{})
	return out, true
}

// RemoveSession drops one session by position. Removing a day's only session
// is allowed and leaves the day with an empty list.
func (w Week) RemoveSession(dayIndex, sessionIndex int) (Week, bool) {
	out := w.Clone()
	if !w.validSession(dayIndex, sessionIndex) {
		return out, false
	}
	sessions := make([]Session, 0, len(out[dayIndex].Sessions)-1)
	for i, s := range out[dayIndex].Sessions {
		if i != sessionIndex {
			sessions = append(sessions, s)
		}
	}
	out[dayIndex].Sessions = sessions
	return out, true
}

func (w Week) validSession(dayIndex, sessionIndex int) bool {
	if dayIndex < 0 || dayIndex >= len(w) {
		return false
	}
	return sessionIndex >= 0 && sessionIndex < len(w[dayIndex].Sessions)
}

func Validate(w Week) error {
	if len(w) != len(DaysOfWeek) {
		return fmt.Errorf("week must have %d days, got %d", len(DaysOfWeek), len(w))
	}
	for i, d := range w {
		if d.Day != DaysOfWeek[i] {
			return fmt.Errorf("day %d must be %s, got %q", i+1, DaysOfWeek[i], d.Day)
		}
		for j, s := range d.Sessions {
			if err := validateTime(s.CheckIn); err != nil {
				return fmt.Errorf("%s session %d check-in: %w", d.Day, j+1, err)
			}
			if err := validateTime(s.CheckOut); err != nil {
				return fmt.Errorf("%s session %d check-out: %w", d.Day, j+1, err)
			}
		}
	}
	return nil
}

func validateTime(s string) error {
	if s == "" {
		return nil
	}
	_, err := parseHHMM(s)
	return err
}

func ParseDateYYYYMMDD(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func WeekStartMonday(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

func FormatDayHuman(d DayData) string {
	filled := make([]string, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		if s.CheckIn == "" && s.CheckOut == "" {
			continue
		}
		filled = append(filled, fmt.Sprintf("%s-%s", orDash(s.CheckIn), orDash(s.CheckOut)))
	}
	if len(filled) == 0 {
		return fmt.Sprintf("%s: no sessions", d.Day)
	}
	return fmt.Sprintf("%s: %s (%.2fh)", d.Day, strings.Join(filled, ", "), DayHours(d))
}

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}
