package product_test

import (
	"testing"
	"time"

	"github.com/meenmo/ratecalc/calendar"
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/index"
	"github.com/meenmo/ratecalc/product"
)

var (
	test3M = index.Ibor{Name: "TEST-3M", Currency: currency.GBP, TenorMonths: 3, FixingLagDays: 0, Calendar: calendar.NoHolidays, DayCount: daycount.Act365F}
	test6M = index.Ibor{Name: "TEST-6M", Currency: currency.GBP, TenorMonths: 6, FixingLagDays: 0, Calendar: calendar.NoHolidays, DayCount: daycount.Act365F}
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestFraExpandDefaults(t *testing.T) {
	t.Parallel()

	p, err := product.Fra{
		Notional:  1_000_000,
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 7, 10),
		FixedRate: 0.025,
		Index:     test3M,
	}.Expand()
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	fra := p.(*product.ExpandedFra)

	if fra.Ccy != currency.GBP {
		t.Fatalf("currency defaults to the index currency, got %s", fra.Ccy)
	}
	if !fra.PaymentDate.Equal(d(2024, 4, 10)) {
		t.Fatalf("payment date defaults to start date, got %s", fra.PaymentDate.Format("2006-01-02"))
	}
	if fra.Discounting != product.DiscountingISDA {
		t.Fatalf("discounting defaults to ISDA, got %s", fra.Discounting)
	}
	// Fixing date implied by the start date with a zero fixing lag.
	if !fra.FloatingRate.FixingDate.Equal(d(2024, 4, 10)) {
		t.Fatalf("fixing date = %s", fra.FloatingRate.FixingDate.Format("2006-01-02"))
	}
	if fra.FloatingRate.Interpolated() {
		t.Fatalf("single index observation expected")
	}
	// Year fraction under the index day count, ACT/365F over 91 days.
	if want := 91.0 / 365.0; fra.YearFraction != want {
		t.Fatalf("year fraction = %v, want %v", fra.YearFraction, want)
	}
}

func TestFraExpandValidation(t *testing.T) {
	t.Parallel()

	base := product.Fra{
		Notional:  1_000_000,
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 7, 10),
		FixedRate: 0.025,
		Index:     test3M,
	}

	noNotional := base
	noNotional.Notional = 0
	if _, err := noNotional.Expand(); err == nil {
		t.Fatalf("expected error for zero notional")
	}

	reversed := base
	reversed.StartDate, reversed.EndDate = base.EndDate, base.StartDate
	if _, err := reversed.Expand(); err == nil {
		t.Fatalf("expected error for reversed dates")
	}

	badDisc := base
	badDisc.Discounting = "FRINGE"
	if _, err := badDisc.Expand(); err == nil {
		t.Fatalf("expected error for unknown discounting convention")
	}
}

func TestFraExpandInterpolatedNormalizesTenorOrder(t *testing.T) {
	t.Parallel()

	// The longer index passed first is swapped into place.
	p, err := product.Fra{
		Notional:          1_000_000,
		StartDate:         d(2024, 4, 10),
		EndDate:           d(2024, 9, 10),
		FixedRate:         0.025,
		Index:             test6M,
		IndexInterpolated: &test3M,
	}.Expand()
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	fra := p.(*product.ExpandedFra)
	if !fra.FloatingRate.Interpolated() {
		t.Fatalf("expected interpolated observation")
	}
	indices := fra.FloatingRate.Indices()
	if indices[0].Name != "TEST-3M" || indices[1].Name != "TEST-6M" {
		t.Fatalf("indices not normalized short-first: %v, %v", indices[0].Name, indices[1].Name)
	}
}

func TestFraExpandInterpolatedValidation(t *testing.T) {
	t.Parallel()

	sameTenor := test3M
	sameTenor.Name = "OTHER-3M"
	_, err := product.Fra{
		Notional:          1_000_000,
		StartDate:         d(2024, 4, 10),
		EndDate:           d(2024, 9, 10),
		FixedRate:         0.025,
		Index:             test3M,
		IndexInterpolated: &sameTenor,
	}.Expand()
	if err == nil {
		t.Fatalf("expected error for equal tenors")
	}

	otherCcy := test6M
	otherCcy.Currency = currency.USD
	_, err = product.Fra{
		Notional:          1_000_000,
		StartDate:         d(2024, 4, 10),
		EndDate:           d(2024, 9, 10),
		FixedRate:         0.025,
		Index:             test3M,
		IndexInterpolated: &otherCcy,
	}.Expand()
	if err == nil {
		t.Fatalf("expected error for currency mismatch")
	}
}

func TestTermDepositExpand(t *testing.T) {
	t.Parallel()

	p, err := product.TermDeposit{
		Notional:  2_000_000,
		StartDate: d(2024, 4, 10),
		EndDate:   d(2024, 10, 10),
		Rate:      0.03,
		Ccy:       currency.EUR,
	}.Expand()
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	dep := p.(*product.ExpandedTermDeposit)
	// Day count defaults to ACT/360 over 183 days.
	if want := 183.0 / 360.0; dep.YearFraction != want {
		t.Fatalf("year fraction = %v, want %v", dep.YearFraction, want)
	}
	if dep.Kind() != product.KindTermDeposit || dep.Currency() != currency.EUR {
		t.Fatalf("identity wrong: %s %s", dep.Kind(), dep.Currency())
	}

	if _, err := (product.TermDeposit{Notional: 1, StartDate: d(2024, 4, 10), EndDate: d(2024, 10, 10), Rate: 0.03}).Expand(); err == nil {
		t.Fatalf("expected error for missing currency")
	}
	if _, err := (product.TermDeposit{Notional: 1, StartDate: d(2024, 10, 10), EndDate: d(2024, 4, 10), Rate: 0.03, Ccy: currency.EUR}).Expand(); err == nil {
		t.Fatalf("expected error for reversed dates")
	}
}
