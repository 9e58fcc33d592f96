// Package index defines floating rate index conventions and their date
// arithmetic (fixing, effective and maturity dates).
package index

import (
	"time"

	"github.com/meenmo/ratecalc/calendar"
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
)

// Ibor describes a term deposit style floating rate index such as
// EURIBOR-3M. The zero value is not a valid index.
type Ibor struct {
	Name          string
	Currency      currency.Code
	TenorMonths   int
	FixingLagDays int // business days from fixing to effective
	Calendar      calendar.ID
	DayCount      daycount.Convention
}

// Standard indices. Holiday calendars default to weekend-only; register
// venue holidays via the calendar package for production use.
var (
	GBPLibor3M = Ibor{Name: "GBP-LIBOR-3M", Currency: currency.GBP, TenorMonths: 3, FixingLagDays: 0, Calendar: calendar.London, DayCount: daycount.Act365F}
	GBPLibor6M = Ibor{Name: "GBP-LIBOR-6M", Currency: currency.GBP, TenorMonths: 6, FixingLagDays: 0, Calendar: calendar.London, DayCount: daycount.Act365F}
	Euribor3M  = Ibor{Name: "EUR-EURIBOR-3M", Currency: currency.EUR, TenorMonths: 3, FixingLagDays: 2, Calendar: calendar.TARGET, DayCount: daycount.Act360}
	Euribor6M  = Ibor{Name: "EUR-EURIBOR-6M", Currency: currency.EUR, TenorMonths: 6, FixingLagDays: 2, Calendar: calendar.TARGET, DayCount: daycount.Act360}
	USDLibor3M = Ibor{Name: "USD-LIBOR-3M", Currency: currency.USD, TenorMonths: 3, FixingLagDays: 2, Calendar: calendar.NewYork, DayCount: daycount.Act360}
)

var builtin = map[string]Ibor{
	GBPLibor3M.Name: GBPLibor3M,
	GBPLibor6M.Name: GBPLibor6M,
	Euribor3M.Name:  Euribor3M,
	Euribor6M.Name:  Euribor6M,
	USDLibor3M.Name: USDLibor3M,
}

// ByName looks up a built-in index by its name.
func ByName(name string) (Ibor, bool) {
	ix, ok := builtin[name]
	return ix, ok
}

// EffectiveFromFixing returns the deposit effective date for a fixing date.
func (ix Ibor) EffectiveFromFixing(fixing time.Time) time.Time {
	return calendar.AdjustFollowing(ix.Calendar, calendar.AddBusinessDays(ix.Calendar, fixing, ix.FixingLagDays))
}

// MaturityFromEffective returns the deposit maturity for an effective date.
func (ix Ibor) MaturityFromEffective(effective time.Time) time.Time {
	return calendar.Adjust(ix.Calendar, daycount.AddMonths(effective, ix.TenorMonths))
}

// FixingFromEffective returns the fixing date implied by an effective date.
func (ix Ibor) FixingFromEffective(effective time.Time) time.Time {
	return calendar.AddBusinessDays(ix.Calendar, effective, -ix.FixingLagDays)
}
