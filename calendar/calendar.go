package calendar

import "time"

// ID identifies a holiday calendar.
type ID string

const (
	// NoHolidays treats every weekday as a business day.
	NoHolidays ID = "NONE"
	TARGET     ID = "TARGET"
	London     ID = "GBLO"
	NewYork    ID = "USNY"
	Tokyo      ID = "JPTO"
)

var holidaySets = map[ID]map[string]struct{}{}

// RegisterHolidays adds holiday dates (YYYY-MM-DD) to a calendar.
// Built-in calendars start weekend-only; venue holiday files can be
// loaded at startup.
func RegisterHolidays(cal ID, dates []string) {
	set, ok := holidaySets[cal]
	if !ok {
		set = make(map[string]struct{}, len(dates))
		holidaySets[cal] = set
	}
	for _, d := range dates {
		set[d] = struct{}{}
	}
}

func isHoliday(cal ID, t time.Time) bool {
	set, ok := holidaySets[cal]
	if !ok {
		return false
	}
	_, ok = set[t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay checks weekends and the calendar's holiday set.
func IsBusinessDay(cal ID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal ID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal ID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal ID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}
