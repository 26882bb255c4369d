// Package clock converts between 12-hour picker selections and the 24-hour
// HH:MM strings stored in a week.
package clock

import (
	"fmt"
	"strconv"
	"strings"
)

type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// Picker holds an hour (1-12), minute (0-59) and period selection. Either
// part may be unset; a partial selection produces no value.
type Picker struct {
	Hour   int
	Minute int
	Period Period

	hourSet   bool
	minuteSet bool
}

// FromValue loads a picker from an HH:MM value. Empty or malformed values
// give an unset picker.
func FromValue(value string) Picker {
	p := Picker{Period: AM}
	h, m, ok := split(value)
	if !ok {
		return p
	}
	switch {
	case h == 0:
		p.Hour, p.Period = 12, AM
	case h < 12:
		p.Hour, p.Period = h, AM
	case h == 12:
		p.Hour, p.Period = 12, PM
	default:
		p.Hour, p.Period = h-12, PM
	}
	p.Minute = m
	p.hourSet, p.minuteSet = true, true
	return p
}

func (p Picker) HourSet() bool   { return p.hourSet }
func (p Picker) MinuteSet() bool { return p.minuteSet }

// Value returns the 24-hour HH:MM string. 12 AM is hour 00 and 12 PM stays 12.
func (p Picker) Value() (string, bool) {
	if !p.hourSet || !p.minuteSet {
		return "", false
	}
	h := p.Hour
	if p.Period == PM {
		if h != 12 {
			h += 12
		}
	} else if h == 12 {
		h = 0
	}
	return fmt.Sprintf("%02d:%02d", h, p.Minute), true
}

func (p *Picker) SetHour(h int) (string, bool) {
	if h < 1 || h > 12 {
		return "", false
	}
	p.Hour, p.hourSet = h, true
	return p.Value()
}

func (p *Picker) SetMinute(m int) (string, bool) {
	if m < 0 || m > 59 {
		return "", false
	}
	p.Minute, p.minuteSet = m, true
	return p.Value()
}

func (p *Picker) SetPeriod(period Period) (string, bool) {
	if period != AM && period != PM {
		return "", false
	}
	p.Period = period
	return p.Value()
}

func (p *Picker) TogglePeriod() (string, bool) {
	if p.Period == PM {
		return p.SetPeriod(AM)
	}
	return p.SetPeriod(PM)
}

// StepHour moves the hour by delta, wrapping within 1-12. An unset hour
// starts from 12 before stepping.
func (p *Picker) StepHour(delta int) (string, bool) {
	h := 12
	if p.hourSet {
		h = p.Hour
	}
	h = ((h-1+delta)%12+12)%12 + 1
	return p.SetHour(h)
}

// StepMinute moves the minute by delta, wrapping within 0-59. An unset minute
// becomes 00 without stepping.
func (p *Picker) StepMinute(delta int) (string, bool) {
	if !p.minuteSet {
		return p.SetMinute(0)
	}
	m := ((p.Minute+delta)%60 + 60) % 60
	return p.SetMinute(m)
}

func HourOptions() []string {
	out := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		out = append(out, fmt.Sprintf("%02d", i))
	}
	return out
}

func MinuteOptions() []string {
	out := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		out = append(out, fmt.Sprintf("%02d", i))
	}
	return out
}

// Format12h renders an HH:MM value as "hh:mm AM". Empty or malformed input
// renders as "".
func Format12h(value string) string {
	p := FromValue(value)
	if !p.hourSet {
		return ""
	}
	return fmt.Sprintf("%02d:%02d %s", p.Hour, p.Minute, p.Period)
}

func split(value string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
