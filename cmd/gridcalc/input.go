package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/ratecalc/calc"
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/daycount"
	"github.com/meenmo/ratecalc/index"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/product"
	"github.com/meenmo/ratecalc/timeseries"
)

const dateLayout = "2006-01-02"

// marketFile is the YAML market data input.
type marketFile struct {
	ValuationDate string                        `yaml:"valuation_date"`
	Curves        []curveInput                  `yaml:"curves"`
	Fx            *fxInput                      `yaml:"fx"`
	Fixings       map[string]map[string]float64 `yaml:"fixings"`
	Scenarios     *scenarioInput                `yaml:"scenarios"`
	// UseStoredFixings merges fixings persisted in the configured store
	// for every index the portfolio references.
	UseStoredFixings bool `yaml:"use_stored_fixings"`
}

type curveInput struct {
	Kind  string             `yaml:"kind"` // discount | forward
	Name  string             `yaml:"name"` // currency code or index name
	Nodes map[string]float64 `yaml:"nodes"`
}

type fxInput struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

type scenarioInput struct {
	// ZeroRateShifts derives one scenario per entry by shifting every
	// curve's zero rates in parallel. A single zero entry is the base case.
	ZeroRateShifts []float64 `yaml:"zero_rate_shifts"`
}

// portfolioFile is the YAML portfolio input.
type portfolioFile struct {
	Measures []string     `yaml:"measures"`
	Trades   []tradeInput `yaml:"trades"`
}

type tradeInput struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"` // fra | deposit

	Notional  float64 `yaml:"notional"`
	StartDate string  `yaml:"start_date"`
	EndDate   string  `yaml:"end_date"`

	// FRA fields.
	FixedRate         float64 `yaml:"fixed_rate"`
	Index             string  `yaml:"index"`
	IndexInterpolated string  `yaml:"index_interpolated"`
	PaymentDate       string  `yaml:"payment_date"`
	FixingDate        string  `yaml:"fixing_date"`
	Discounting       string  `yaml:"discounting"`

	// Deposit fields.
	Rate     float64 `yaml:"rate"`
	Ccy      string  `yaml:"currency"`
	DayCount string  `yaml:"day_count"`
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: bad date %q (want YYYY-MM-DD)", field, s)
	}
	return t, nil
}

func parseOptionalDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s, field)
}

// loadMarket reads and parses the market data YAML.
func loadMarket(path string) (*marketFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read market file %q: %w", path, err)
	}
	var mf marketFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse market file %q: %w", path, err)
	}
	if mf.ValuationDate == "" {
		return nil, fmt.Errorf("market file %q: valuation_date is required", path)
	}
	return &mf, nil
}

// buildScenarioData assembles the run's market dataset from the parsed
// file. Scenario curves are derived from the base curves by parallel
// zero-rate shifts.
func buildScenarioData(mf *marketFile, extraFixings map[string]*timeseries.Series) (*marketdata.ScenarioData, error) {
	valuation, err := parseDate(mf.ValuationDate, "valuation_date")
	if err != nil {
		return nil, err
	}

	shifts := []float64{0}
	if mf.Scenarios != nil && len(mf.Scenarios.ZeroRateShifts) > 0 {
		shifts = mf.Scenarios.ZeroRateShifts
	}
	sb := marketdata.NewScenarioBuilder(valuation, len(shifts))

	for _, ci := range mf.Curves {
		key, err := curveKeyOf(ci)
		if err != nil {
			return nil, err
		}
		nodes := make(map[time.Time]float64, len(ci.Nodes))
		for dateStr, df := range ci.Nodes {
			d, err := parseDate(dateStr, fmt.Sprintf("curve %s node", ci.Name))
			if err != nil {
				return nil, err
			}
			nodes[d] = df
		}
		base, err := marketdata.NewZeroCurve(valuation, nodes)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", ci.Name, err)
		}
		if len(shifts) == 1 && shifts[0] == 0 {
			sb.SharedCurve(key, base)
			continue
		}
		curves := make([]marketdata.Curve, len(shifts))
		for i, shift := range shifts {
			curves[i] = marketdata.ZeroRateShifted(base, valuation, shift)
		}
		sb.ScenarioCurves(key, curves)
	}

	if mf.Fx != nil {
		rates := make(map[currency.Code]float64, len(mf.Fx.Rates))
		for ccy, rate := range mf.Fx.Rates {
			rates[currency.Code(ccy)] = rate
		}
		m, err := currency.NewMatrix(currency.Code(mf.Fx.Base), rates)
		if err != nil {
			return nil, fmt.Errorf("fx: %w", err)
		}
		sb.SharedFxMatrix(m)
	}

	for indexName, obs := range mf.Fixings {
		b := timeseries.NewBuilder()
		for dateStr, rate := range obs {
			d, err := parseDate(dateStr, fmt.Sprintf("fixing for %s", indexName))
			if err != nil {
				return nil, err
			}
			b.Put(d, rate)
		}
		if extra, ok := extraFixings[indexName]; ok {
			for _, p := range extra.Points() {
				if _, dup := obs[p.Date.Format(dateLayout)]; !dup {
					b.Put(p.Date, p.Value)
				}
			}
			delete(extraFixings, indexName)
		}
		s, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("fixings for %s: %w", indexName, err)
		}
		sb.FixingSeries(indexName, s)
	}
	for indexName, s := range extraFixings {
		sb.FixingSeries(indexName, s)
	}

	return sb.Build()
}

func curveKeyOf(ci curveInput) (marketdata.CurveKey, error) {
	switch ci.Kind {
	case "discount":
		return marketdata.DiscountCurveKey(currency.Code(ci.Name)), nil
	case "forward":
		return marketdata.ForwardCurveKey(ci.Name), nil
	default:
		return marketdata.CurveKey{}, fmt.Errorf("curve %s: unknown kind %q (want discount or forward)", ci.Name, ci.Kind)
	}
}

// loadPortfolio reads and parses the portfolio YAML into trades and
// measures.
func loadPortfolio(path string) ([]product.Trade, []calc.Measure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read portfolio %q: %w", path, err)
	}
	var pf portfolioFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("parse portfolio %q: %w", path, err)
	}

	measures := make([]calc.Measure, 0, len(pf.Measures))
	for _, m := range pf.Measures {
		measures = append(measures, calc.Measure(m))
	}
	if len(measures) == 0 {
		measures = calc.AllMeasures()
	}

	trades := make([]product.Trade, 0, len(pf.Trades))
	for i, ti := range pf.Trades {
		tr, err := tradeOf(ti)
		if err != nil {
			return nil, nil, fmt.Errorf("trade %d (%s): %w", i, ti.ID, err)
		}
		trades = append(trades, tr)
	}
	return trades, measures, nil
}

func tradeOf(ti tradeInput) (product.Trade, error) {
	start, err := parseDate(ti.StartDate, "start_date")
	if err != nil {
		return product.Trade{}, err
	}
	end, err := parseDate(ti.EndDate, "end_date")
	if err != nil {
		return product.Trade{}, err
	}

	switch ti.Type {
	case "fra":
		ix, ok := index.ByName(ti.Index)
		if !ok {
			return product.Trade{}, fmt.Errorf("unknown index %q", ti.Index)
		}
		fra := product.Fra{
			Notional:    ti.Notional,
			StartDate:   start,
			EndDate:     end,
			FixedRate:   ti.FixedRate,
			Index:       ix,
			Discounting: product.Discounting(ti.Discounting),
		}
		if ti.IndexInterpolated != "" {
			long, ok := index.ByName(ti.IndexInterpolated)
			if !ok {
				return product.Trade{}, fmt.Errorf("unknown index %q", ti.IndexInterpolated)
			}
			fra.IndexInterpolated = &long
		}
		if fra.PaymentDate, err = parseOptionalDate(ti.PaymentDate, "payment_date"); err != nil {
			return product.Trade{}, err
		}
		if fra.FixingDate, err = parseOptionalDate(ti.FixingDate, "fixing_date"); err != nil {
			return product.Trade{}, err
		}
		return product.Trade{ID: ti.ID, Product: fra}, nil

	case "deposit":
		return product.Trade{ID: ti.ID, Product: product.TermDeposit{
			Notional:  ti.Notional,
			StartDate: start,
			EndDate:   end,
			Rate:      ti.Rate,
			Ccy:       currency.Code(ti.Ccy),
			DayCount:  daycount.Convention(ti.DayCount),
		}}, nil

	default:
		return product.Trade{}, fmt.Errorf("unknown trade type %q (want fra or deposit)", ti.Type)
	}
}
