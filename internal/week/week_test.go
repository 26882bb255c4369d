package week

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestSessionHours(t *testing.T) {
	cases := []struct {
		in, out string
		want    float64
	}{
		{"09:00", "17:00", 8},
		{"22:00", "06:00", 8},
		{"", "17:00", 0},
		{"09:00", "", 0},
		{"09:15", "09:45", 0.5},
		{"10:00", "10:00", 0},
		{"ab:cd", "17:00", 0},
		{"25:00", "17:00", 0},
		{"9", "17:00", 0},
	}
	for _, tc := range cases {
		if got := SessionHours(tc.in, tc.out); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("SessionHours(%q, %q) = %v, want %v", tc.in, tc.out, got, tc.want)
		}
	}
}

func TestTotalHoursExcludesWeekend(t *testing.T) {
	w := NewEmptyWeek()
	if got := TotalHours(w); got != 0 {
		t.Fatalf("empty week total = %v, want 0", got)
	}

	w, _ = w.UpdateSession(0, 0, FieldCheckIn, "09:00")
	w, _ = w.UpdateSession(0, 0, FieldCheckOut, "17:00")
	w, _ = w.UpdateSession(5, 0, FieldCheckIn, "09:00")
	w, _ = w.UpdateSession(5, 0, FieldCheckOut, "17:00")
	w, _ = w.UpdateSession(6, 0, FieldCheckIn, "08:00")
	w, _ = w.UpdateSession(6, 0, FieldCheckOut, "12:00")

	if got := TotalHours(w); got != 8 {
		t.Fatalf("total = %v, want 8 (weekend excluded)", got)
	}
}

func TestTotalHoursSumsMultipleSessions(t *testing.T) {
	w := NewEmptyWeek()
	w, _ = w.UpdateSession(2, 0, FieldCheckIn, "08:00")
	w, _ = w.UpdateSession(2, 0, FieldCheckOut, "12:00")
	w, _ = w.AddSession(2)
	w, _ = w.UpdateSession(2, 1, FieldCheckIn, "12:30")
	w, _ = w.UpdateSession(2, 1, FieldCheckOut, "17:00")
	if got := TotalHours(w); got != 8.5 {
		t.Fatalf("total = %v, want 8.5", got)
	}
}

func TestAddThenRemoveRestoresDay(t *testing.T) {
	w := NewEmptyWeek()
	w, _ = w.UpdateSession(1, 0, FieldCheckIn, "07:00")
	before := w.Clone()

	added, ok := w.AddSession(1)
	if !ok || len(added[1].Sessions) != 2 {
		t.Fatalf("AddSession failed: ok=%v sessions=%d", ok, len(added[1].Sessions))
	}
	removed, ok := added.RemoveSession(1, 1)
	if !ok {
		t.Fatalf("RemoveSession reported no-op")
	}
	if len(removed[1].Sessions) != len(before[1].Sessions) || removed[1].Sessions[0] != before[1].Sessions[0] {
		t.Fatalf("day not restored: %+v vs %+v", removed[1], before[1])
	}
}

func TestRemoveLastSessionLeavesEmptyDay(t *testing.T) {
	w := NewEmptyWeek()
	out, ok := w.RemoveSession(3, 0)
	if !ok {
		t.Fatalf("expected removal of the only session to be allowed")
	}
	if out[3].Sessions == nil || len(out[3].Sessions) != 0 {
		t.Fatalf("expected empty non-nil session list, got %#v", out[3].Sessions)
	}
	if len(w[3].Sessions) != 1 {
		t.Fatalf("input week was mutated")
	}
	if got := DayHours(out[3]); got != 0 {
		t.Fatalf("empty day hours = %v", got)
	}
}

func TestUpdateSessionOutOfRangeIsNoop(t *testing.T) {
	w := NewEmptyWeek()
	w, _ = w.UpdateSession(0, 0, FieldCheckIn, "09:00")

	for _, idx := range [][2]int{{-1, 0}, {7, 0}, {0, 1}, {0, -1}, {100, 100}} {
		out, ok := w.UpdateSession(idx[0], idx[1], FieldCheckOut, "17:00")
		if ok {
			t.Fatalf("UpdateSession(%d, %d) should be a no-op", idx[0], idx[1])
		}
		for i := range w {
			if len(out[i].Sessions) != len(w[i].Sessions) || out[i].Sessions[0] != w[i].Sessions[0] {
				t.Fatalf("day %d changed by no-op update", i)
			}
		}
	}

	if _, ok := w.UpdateSession(0, 0, Field("bogus"), "x"); ok {
		t.Fatalf("unknown field should be a no-op")
	}
}

func TestEditsDoNotMutateInput(t *testing.T) {
	w := NewEmptyWeek()
	out, ok := w.UpdateSession(4, 0, FieldCheckIn, "10:00")
	if !ok {
		t.Fatalf("update failed")
	}
	if w[4].Sessions[0].CheckIn != "" {
		t.Fatalf("input week was mutated")
	}
	if out[4].Sessions[0].CheckIn != "10:00" {
		t.Fatalf("update not applied")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(NewEmptyWeek()); err != nil {
		t.Fatalf("empty week should validate: %v", err)
	}
	w := NewEmptyWeek()
	w[0].Day = "Sunday"
	if err := Validate(w); err == nil {
		t.Fatalf("expected day order error")
	}
	w = NewEmptyWeek()
	w[1].Sessions[0].CheckOut = "24:30"
	if err := Validate(w); err == nil {
		t.Fatalf("expected invalid time error")
	}
	if err := Validate(w[:3]); err == nil {
		t.Fatalf("expected day count error")
	}
}

func TestParseFieldAndDayIndex(t *testing.T) {
	if f, err := ParseField("in"); err != nil || f != FieldCheckIn {
		t.Fatalf("ParseField(in) = %v, %v", f, err)
	}
	if f, err := ParseField("checkOut"); err != nil || f != FieldCheckOut {
		t.Fatalf("ParseField(checkOut) = %v, %v", f, err)
	}
	if _, err := ParseField("lunch"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if i, ok := DayIndex("friday"); !ok || i != 4 {
		t.Fatalf("DayIndex(friday) = %d, %v", i, ok)
	}
	if _, ok := DayIndex("Funday"); ok {
		t.Fatalf("expected unknown day")
	}
}

func TestParseTimePads(t *testing.T) {
	got, err := ParseTime("9:05")
	if err != nil || got != "09:05" {
		t.Fatalf("ParseTime = %q, %v", got, err)
	}
	if _, err := ParseTime("noon"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWeekStartMonday(t *testing.T) {
	d, _ := time.ParseInLocation("2006-01-02", "2026-02-18", time.UTC) // Wednesday
	if got := WeekStartMonday(d).Format("2006-01-02"); got != "2026-02-16" {
		t.Fatalf("unexpected week start: %s", got)
	}
	sun, _ := time.ParseInLocation("2006-01-02", "2026-02-22", time.UTC)
	if got := WeekStartMonday(sun).Format("2006-01-02"); got != "2026-02-16" {
		t.Fatalf("unexpected week start for Sunday: %s", got)
	}
}

func TestUnmarshalNonListIsEmptyWeek(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, `""`, ` {"Monday": []} `} {
		w := NewEmptyWeek()
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if len(w) != 0 {
			t.Fatalf("Unmarshal(%s) = %d days, want 0", raw, len(w))
		}
	}

	var w Week
	if err := json.Unmarshal([]byte(`[{"day":"Monday","sessions":[{"checkIn":"09:00","checkOut":"17:00"}]}]`), &w); err != nil {
		t.Fatalf("Unmarshal list: %v", err)
	}
	if len(w) != 1 || w[0].Sessions[0].CheckOut != "17:00" {
		t.Fatalf("Unmarshal list = %+v", w)
	}

	if err := json.Unmarshal([]byte(`[{"day":7}]`), &w); err == nil {
		t.Fatalf("expected error for malformed day list")
	}
}
