package calc

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/marketdata"
	"github.com/meenmo/ratecalc/pricer"
	"github.com/meenmo/ratecalc/product"
	"github.com/meenmo/ratecalc/rateobs"
)

// PricingFn computes one measure for one expanded product against one
// scenario view.
type PricingFn func(p product.Expanded, view *marketdata.View) (any, error)

// Registry maps trade kind and measure to a pricing function.
type Registry map[product.Kind]map[Measure]PricingFn

// DefaultRegistry wires the built-in pricers for every supported measure.
func DefaultRegistry() Registry {
	var fra pricer.FraPricer
	var dep pricer.TermDepositPricer
	return Registry{
		product.KindFra: {
			MeasurePresentValue: func(p product.Expanded, v *marketdata.View) (any, error) {
				return fra.PresentValue(p.(*product.ExpandedFra), v)
			},
			MeasureFutureValue: func(p product.Expanded, v *marketdata.View) (any, error) {
				return fra.FutureValue(p.(*product.ExpandedFra), v)
			},
			MeasureParRate: func(p product.Expanded, v *marketdata.View) (any, error) {
				return fra.ParRate(p.(*product.ExpandedFra), v)
			},
			MeasureSensitivities: func(p product.Expanded, v *marketdata.View) (any, error) {
				return fra.PresentValueSensitivity(p.(*product.ExpandedFra), v)
			},
			MeasureCashFlows: func(p product.Expanded, v *marketdata.View) (any, error) {
				return fra.CashFlowsOf(p.(*product.ExpandedFra), v)
			},
		},
		product.KindTermDeposit: {
			MeasurePresentValue: func(p product.Expanded, v *marketdata.View) (any, error) {
				return dep.PresentValue(p.(*product.ExpandedTermDeposit), v)
			},
			MeasureFutureValue: func(p product.Expanded, v *marketdata.View) (any, error) {
				return dep.FutureValue(p.(*product.ExpandedTermDeposit), v)
			},
			MeasureParRate: func(p product.Expanded, v *marketdata.View) (any, error) {
				return dep.ParRate(p.(*product.ExpandedTermDeposit), v)
			},
			MeasureSensitivities: func(p product.Expanded, v *marketdata.View) (any, error) {
				return dep.PresentValueSensitivity(p.(*product.ExpandedTermDeposit), v)
			},
			MeasureCashFlows: func(p product.Expanded, v *marketdata.View) (any, error) {
				return dep.CashFlowsOf(p.(*product.ExpandedTermDeposit), v)
			},
		},
	}
}

// Runner executes calculation runs over a worker pool.
type Runner struct {
	registry  Registry
	workers   int
	reporting currency.Code // empty: report in natural trade currency
	log       zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers caps the number of concurrent cell calculations.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithReportingCurrency converts convertible results into the given
// currency using each scenario's FX matrix.
func WithReportingCurrency(ccy currency.Code) Option {
	return func(r *Runner) { r.reporting = ccy }
}

// WithLogger sets the run logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithRegistry replaces the pricing function registry.
func WithRegistry(reg Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// NewRunner returns a runner with the default registry and one worker per
// CPU.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		registry: DefaultRegistry(),
		workers:  runtime.NumCPU(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calculate prices every trade for every measure across every scenario of
// the dataset. The returned grid is always fully populated: a cell that
// cannot be calculated holds a failure instead of a value. Cancellation
// is the only run-level error; the partial grid is discarded.
func (r *Runner) Calculate(ctx context.Context, trades []product.Trade, measures []Measure, data *marketdata.ScenarioData) (*Grid, error) {
	log := r.log.With().
		Int("trades", len(trades)).
		Int("measures", len(measures)).
		Int("scenarios", data.ScenarioCount()).
		Logger()
	log.Info().Time("valuation_date", data.ValuationDate()).Msg("run created")

	views := make([]*marketdata.View, data.ScenarioCount())
	for s := range views {
		v, err := data.ViewAt(s)
		if err != nil {
			return nil, err
		}
		views[s] = v
	}

	// Expand each trade once; the expansion is shared by every cell in
	// the row.
	expanded := make([]product.Expanded, len(trades))
	expandErrs := make([]error, len(trades))
	reqs := NewRequirements()
	for i, tr := range trades {
		p, err := tr.Product.Expand()
		if err != nil {
			expandErrs[i] = err
			continue
		}
		expanded[i] = p
		reqs = reqs.Union(RequirementsFor(p))
	}
	log.Info().
		Int("curves", len(reqs.Curves)).
		Int("time_series", len(reqs.TimeSeries)).
		Msg("requirements resolved")

	grid := newGrid(len(trades), measures)
	log.Info().Msg("running")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range trades {
		for j := range measures {
			i, j := i, j
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				grid.cells[i][j] = r.cell(expanded[i], expandErrs[i], measures[j], views)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("run failed")
		return nil, fmt.Errorf("calculation run: %w", err)
	}
	log.Info().Msg("run completed")
	return grid, nil
}

// cell calculates one grid cell across all scenarios. Failures stay in
// the cell: a panic, a pricing error or a conversion error never escapes.
func (r *Runner) cell(p product.Expanded, expandErr error, measure Measure, views []*marketdata.View) Result {
	if expandErr != nil {
		return Failed(ReasonCalculation, "trade does not expand: %v", expandErr)
	}
	fns, ok := r.registry[p.Kind()]
	if !ok {
		return Failed(ReasonUnsupported, "no pricing functions for %s trades", p.Kind())
	}
	fn, ok := fns[measure]
	if !ok {
		return Failed(ReasonUnsupported, "measure %s is not supported for %s trades", measure, p.Kind())
	}

	values := make(ScenarioValues, len(views))
	for s, view := range views {
		value, err := r.scenarioValue(fn, p, view)
		if err != nil {
			return failureOf(err, s)
		}
		values[s] = value
	}
	if len(values) == 1 {
		return Success(values[0])
	}
	return Success(values)
}

// scenarioValue runs one pricing function for one scenario, converting
// convertible results to the reporting currency and containing panics.
func (r *Runner) scenarioValue(fn PricingFn, p product.Expanded, view *marketdata.View) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pricing panic: %v", rec)
		}
	}()
	value, err = fn(p, view)
	if err != nil {
		return nil, err
	}
	if r.reporting == "" {
		return value, nil
	}
	conv, ok := value.(currency.Convertible)
	if !ok {
		return value, nil
	}
	fx, err := view.FxMatrix()
	if err != nil {
		return nil, err
	}
	converted, err := conv.ConvertedTo(r.reporting, fx)
	if err != nil {
		return nil, err
	}
	return converted, nil
}

// failureOf classifies a scenario error into a cell failure.
func failureOf(err error, scenario int) Result {
	switch {
	case errors.Is(err, marketdata.ErrMissingData):
		return Failed(ReasonMissingData, "scenario %d: %v", scenario, err)
	case errors.Is(err, currency.ErrMissingRate):
		return Failed(ReasonMissingData, "scenario %d: %v", scenario, err)
	case errors.Is(err, rateobs.ErrArithmetic):
		return Failed(ReasonCalculation, "scenario %d: %v", scenario, err)
	default:
		return Failed(ReasonCalculation, "scenario %d: %v", scenario, err)
	}
}
