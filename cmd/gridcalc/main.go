// Command gridcalc prices a YAML portfolio against a YAML market data
// file and prints the trade-by-measure result grid.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/meenmo/ratecalc/calc"
	"github.com/meenmo/ratecalc/config"
	"github.com/meenmo/ratecalc/currency"
	"github.com/meenmo/ratecalc/logging"
	"github.com/meenmo/ratecalc/marketdata/store"
	"github.com/meenmo/ratecalc/pricer"
	"github.com/meenmo/ratecalc/product"
	"github.com/meenmo/ratecalc/sensitivity"
	"github.com/meenmo/ratecalc/timeseries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridcalc:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath    = flag.String("config", "", "path to config YAML (optional)")
		portfolioPath = flag.String("portfolio", "portfolio.yaml", "path to portfolio YAML")
		marketPath    = flag.String("market", "market.yaml", "path to market data YAML")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trades, measures, err := loadPortfolio(*portfolioPath)
	if err != nil {
		return err
	}
	mf, err := loadMarket(*marketPath)
	if err != nil {
		return err
	}

	stored := map[string]*timeseries.Series{}
	if mf.UseStoredFixings {
		stored, err = loadStoredFixings(ctx, cfg.Storage.DSN, trades)
		if err != nil {
			return err
		}
		log.Info().Int("indices", len(stored)).Str("dsn", cfg.Storage.DSN).Msg("loaded stored fixings")
	}

	data, err := buildScenarioData(mf, stored)
	if err != nil {
		return err
	}

	opts := []calc.Option{calc.WithLogger(log)}
	if cfg.Calc.Workers > 0 {
		opts = append(opts, calc.WithWorkers(cfg.Calc.Workers))
	}
	if cfg.Calc.ReportingCurrency != "" {
		opts = append(opts, calc.WithReportingCurrency(currency.Code(cfg.Calc.ReportingCurrency)))
	}

	grid, err := calc.NewRunner(opts...).Calculate(ctx, trades, measures, data)
	if err != nil {
		return err
	}
	render(os.Stdout, trades, measures, grid)
	return nil
}

// loadStoredFixings loads the persisted fixing series of every index the
// portfolio references.
func loadStoredFixings(ctx context.Context, dsn string, trades []product.Trade) (map[string]*timeseries.Series, error) {
	st, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	names := map[string]struct{}{}
	for _, tr := range trades {
		p, err := tr.Product.Expand()
		if err != nil {
			continue // reported as a grid failure later
		}
		for name := range calc.RequirementsFor(p).TimeSeries {
			names[name] = struct{}{}
		}
	}

	out := make(map[string]*timeseries.Series, len(names))
	for name := range names {
		s, err := st.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if s.Len() > 0 {
			out[name] = s
		}
	}
	return out, nil
}

// render prints the grid as a table, one row per trade.
func render(out *os.File, trades []product.Trade, measures []calc.Measure, grid *calc.Grid) {
	table := tablewriter.NewWriter(out)
	header := make([]string, 0, len(measures)+1)
	header = append(header, "Trade")
	for _, m := range measures {
		header = append(header, string(m))
	}
	table.Header(header)

	for i, tr := range trades {
		row := make([]string, 0, len(measures)+1)
		id := tr.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		row = append(row, id)
		for j := range measures {
			row = append(row, formatResult(grid.Get(i, j)))
		}
		table.Append(row)
	}
	table.Render()
}

// formatResult renders one cell for display.
func formatResult(r calc.Result) string {
	if !r.Ok() {
		return fmt.Sprintf("FAILED(%s)", r.Failure.Reason)
	}
	if sv, ok := r.Value.(calc.ScenarioValues); ok {
		parts := make([]string, len(sv))
		for i, v := range sv {
			parts[i] = formatValue(v)
		}
		return strings.Join(parts, " | ")
	}
	return formatValue(r.Value)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case currency.Amount:
		return t.String()
	case float64:
		return fmt.Sprintf("%.6f", t)
	case sensitivity.Points:
		return fmt.Sprintf("%d sensitivities", len(t.Slice()))
	case pricer.CashFlows:
		return fmt.Sprintf("%d flows", len(t))
	default:
		return fmt.Sprintf("%v", t)
	}
}
