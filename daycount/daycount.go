package daycount

import "time"

// Convention names a day count convention.
type Convention string

const (
	Act360     Convention = "ACT/360"
	Act365F    Convention = "ACT/365F"
	Thirty360E Convention = "30E/360"
)

// YearFraction computes the year fraction between two dates under the
// given convention. Unknown conventions fall back to ACT/365F.
func YearFraction(start, end time.Time, convention Convention) float64 {
	switch convention {
	case Act360:
		return Days(start, end) / 360.0
	case Act365F:
		return Days(start, end) / 365.0
	case Thirty360E:
		// 30E/360 (Eurobond basis): day-of-month capped at 30.
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// Days returns the number of calendar days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// AddMonths behaves like Excel's EDATE, avoiding Go's month
// normalization surprises (Jan 31 + 1M = Feb 28/29, not Mar 2/3).
func AddMonths(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}
	d := t.AddDate(0, months, 0)
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
