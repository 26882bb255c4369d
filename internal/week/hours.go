package week

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// SessionHours returns the elapsed hours between two HH:MM values. A checkout
// earlier than the checkin wraps past midnight. Empty or malformed input is 0.
func SessionHours(checkIn, checkOut string) float64 {
	if checkIn == "" || checkOut == "" {
		return 0
	}
	start, err := parseHHMM(checkIn)
	if err != nil {
		return 0
	}
	end, err := parseHHMM(checkOut)
	if err != nil {
		return 0
	}
	diff := end - start
	if diff < 0 {
		diff += minutesPerDay
	}
	return float64(diff) / 60.0
}

func DayHours(d DayData) float64 {
	total := 0.0
	for _, s := range d.Sessions {
		total += SessionHours(s.CheckIn, s.CheckOut)
	}
	return total
}

func IsWeekend(day string) bool {
	return strings.EqualFold(day, "Saturday") || strings.EqualFold(day, "Sunday")
}

// TotalHours sums every weekday session. Saturday and Sunday never count.
func TotalHours(w Week) float64 {
	total := 0.0
	for _, d := range w {
		if IsWeekend(d.Day) {
			continue
		}
		total += DayHours(d)
	}
	return total
}

func parseHHMM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("must be HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute")
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range")
	}
	return h*60 + m, nil
}

// ParseTime checks an HH:MM value and returns it zero-padded.
func ParseTime(s string) (string, error) {
	mins, err := parseHHMM(s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60), nil
}
