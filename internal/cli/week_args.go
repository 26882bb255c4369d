package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ihildy/weekhours/internal/week"
)

// parseDayArg accepts a weekday name ("mon", "Monday") or a YYYY-MM-DD date
// and returns the index into the week.
func parseDayArg(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("--day is required")
	}
	if idx, ok := week.DayIndex(raw); ok {
		return idx, nil
	}
	if len(raw) >= 3 {
		for i, name := range week.DaysOfWeek {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(raw)) {
				return i, nil
			}
		}
	}
	if t, err := week.ParseDateYYYYMMDD(raw, time.Local); err == nil {
		return (int(t.Weekday()) + 6) % 7, nil
	}
	return 0, fmt.Errorf("invalid day %q, expected a weekday name or YYYY-MM-DD", raw)
}

// parseSessionArg converts a 1-based session number into an index.
func parseSessionArg(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("--session must be >= 1")
	}
	return n - 1, nil
}

// parseTimeArg validates an HH:MM flag value. An empty value clears the field.
func parseTimeArg(flag, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	v, err := week.ParseTime(raw)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", flag, err)
	}
	return v, nil
}

func confirmAction(app *App, message string, yes bool) error {
	if yes {
		return nil
	}
	ok, err := app.PromptConfirm(message)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted by user")
	}
	return nil
}
