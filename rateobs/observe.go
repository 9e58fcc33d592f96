// Package rateobs derives floating rates and their point sensitivities
// from a market data view: historical fixings for past dates, curve
// implied forwards for future dates, and the linear tenor interpolation
// used by off-cycle accrual periods.
package rateobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/index"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/sensitivity"
)

// ErrArithmetic is returned for numerically degenerate inputs, such as
// interpolating between two indices with coinciding maturities.
var ErrArithmetic = errors.New("arithmetic error")

// Observation describes how a floating rate is determined for an accrual
// period: a single index fixed on a date, or two indices of different
// tenors blended linearly by day count weight.
type Observation struct {
	Index      index.Ibor
	LongIndex  *index.Ibor // nil for a single-index observation
	FixingDate time.Time
}

// IborObservation returns a single-index observation.
func IborObservation(ix index.Ibor, fixingDate time.Time) Observation {
	return Observation{Index: ix, FixingDate: fixingDate}
}

// InterpolatedObservation returns a two-index observation blending the
// short and long tenor rates.
func InterpolatedObservation(short, long index.Ibor, fixingDate time.Time) Observation {
	return Observation{Index: short, LongIndex: &long, FixingDate: fixingDate}
}

// Interpolated reports whether the observation blends two indices.
func (o Observation) Interpolated() bool {
	return o.LongIndex != nil
}

// Indices returns the distinct indices referenced by the observation.
func (o Observation) Indices() []index.Ibor {
	if o.LongIndex == nil {
		return []index.Ibor{o.Index}
	}
	return []index.Ibor{o.Index, *o.LongIndex}
}

// Rate returns the observed rate for the accrual period [startDate, endDate].
func Rate(obs Observation, startDate, endDate time.Time, view *marketdata.View) (float64, error) {
	if !obs.Interpolated() {
		return indexRate(obs.Index, obs.FixingDate, view)
	}
	wShort, wLong, err := interpolationWeights(obs, endDate)
	if err != nil {
		return 0, err
	}
	rShort, err := indexRate(obs.Index, obs.FixingDate, view)
	if err != nil {
		return 0, err
	}
	rLong, err := indexRate(*obs.LongIndex, obs.FixingDate, view)
	if err != nil {
		return 0, err
	}
	return wShort*rShort + wLong*rLong, nil
}

// RateSensitivity returns the point sensitivity of the observed rate. For
// an interpolated observation the result holds exactly two entries ordered
// [short, long], each scaled by its interpolation weight; historical
// fixings contribute no sensitivity.
func RateSensitivity(obs Observation, startDate, endDate time.Time, view *marketdata.View) (*sensitivity.Builder, error) {
	if !obs.Interpolated() {
		return indexRateSensitivity(obs.Index, obs.FixingDate, view)
	}
	wShort, wLong, err := interpolationWeights(obs, endDate)
	if err != nil {
		return nil, err
	}
	short, err := indexRateSensitivity(obs.Index, obs.FixingDate, view)
	if err != nil {
		return nil, err
	}
	long, err := indexRateSensitivity(*obs.LongIndex, obs.FixingDate, view)
	if err != nil {
		return nil, err
	}
	return short.MultipliedBy(wShort).Combine(long.MultipliedBy(wLong)), nil
}

// interpolationWeights computes the linear day-count weights of the short
// and long indices. Day counts are measured from the fixing date to each
// index's maturity (off the short index's effective date) and to the
// accrual end date.
func interpolationWeights(obs Observation, accrualEndDate time.Time) (wShort, wLong float64, err error) {
	fixing := obs.FixingDate
	effective := obs.Index.EffectiveFromFixing(fixing)
	daysShort := daycount.Days(fixing, obs.Index.MaturityFromEffective(effective))
	daysLong := daycount.Days(fixing, obs.LongIndex.MaturityFromEffective(effective))
	daysCoupon := daycount.Days(fixing, accrualEndDate)

	span := daysLong - daysShort
	if span == 0 {
		return 0, 0, fmt.Errorf("%w: indices %s and %s have coinciding maturities for fixing %s",
			ErrArithmetic, obs.Index.Name, obs.LongIndex.Name, fixing.Format("2006-01-02"))
	}
	wShort = (daysLong - daysCoupon) / span
	wLong = (daysCoupon - daysShort) / span
	return wShort, wLong, nil
}

// indexRate resolves one index's rate on a fixing date. Fixing dates in
// the past come from the historical series; the valuation date itself uses
// the series when the fixing is already published, else the curve forward;
// future dates always use the curve forward.
func indexRate(ix index.Ibor, fixingDate time.Time, view *marketdata.View) (float64, error) {
	valuation := view.ValuationDate()
	if !fixingDate.After(valuation) {
		if rate, ok := view.FixingSeries(ix.Name).Value(fixingDate); ok {
			return rate, nil
		}
		if fixingDate.Before(valuation) {
			return 0, fmt.Errorf("%w: no fixing for index %s on %s",
				marketdata.ErrMissingData, ix.Name, fixingDate.Format("2006-01-02"))
		}
	}
	return forwardRate(ix, fixingDate, view)
}

// forwardRate derives the curve-implied simple forward rate over the
// index's deposit period.
func forwardRate(ix index.Ibor, fixingDate time.Time, view *marketdata.View) (float64, error) {
	curve, err := view.Curve(marketdata.ForwardCurveKey(ix.Name))
	if err != nil {
		return 0, err
	}
	effective := ix.EffectiveFromFixing(fixingDate)
	maturity := ix.MaturityFromEffective(effective)
	yf := daycount.YearFraction(effective, maturity, ix.DayCount)
	if yf <= 0 {
		return 0, fmt.Errorf("%w: non-positive deposit period for index %s fixing %s",
			ErrArithmetic, ix.Name, fixingDate.Format("2006-01-02"))
	}
	return (curve.DF(effective)/curve.DF(maturity) - 1) / yf, nil
}

// indexRateSensitivity returns the unit sensitivity of one index rate:
// empty for a historical fixing, weight 1.0 against the index and fixing
// date otherwise.
func indexRateSensitivity(ix index.Ibor, fixingDate time.Time, view *marketdata.View) (*sensitivity.Builder, error) {
	valuation := view.ValuationDate()
	if !fixingDate.After(valuation) {
		if _, ok := view.FixingSeries(ix.Name).Value(fixingDate); ok {
			return sensitivity.None(), nil
		}
		if fixingDate.Before(valuation) {
			return nil, fmt.Errorf("%w: no fixing for index %s on %s",
				marketdata.ErrMissingData, ix.Name, fixingDate.Format("2006-01-02"))
		}
	}
	// A forward rate must be derivable for the sensitivity to exist.
	if _, err := forwardRate(ix, fixingDate, view); err != nil {
		return nil, err
	}
	return sensitivity.NewBuilder(sensitivity.IndexRate(ix.Name, fixingDate, ix.Currency, 1.0)), nil
}
