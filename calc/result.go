package calc

import "fmt"

// FailureReason classifies why a grid cell could not be calculated.
type FailureReason string

const (
	// ReasonMissingData marks a cell that referenced absent market data.
	ReasonMissingData FailureReason = "MissingData"
	// ReasonUnsupported marks a trade kind or measure with no pricing function.
	ReasonUnsupported FailureReason = "Unsupported"
	// ReasonCalculation marks an arithmetic or pricing error.
	ReasonCalculation FailureReason = "Calculation"
)

// Failure describes one failed cell.
type Failure struct {
	Reason  FailureReason
	Message string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Reason, f.Message)
}

// Result is one grid cell: either a value or a failure, never both.
// For a single-scenario run Value holds the measure's value directly; for
// a multi-scenario run it holds ScenarioValues with one entry per scenario.
type Result struct {
	Value   any
	Failure *Failure
}

// Success returns a successful result.
func Success(value any) Result {
	return Result{Value: value}
}

// Failed returns a failed result.
func Failed(reason FailureReason, format string, args ...any) Result {
	return Result{Failure: &Failure{Reason: reason, Message: fmt.Sprintf(format, args...)}}
}

// Ok reports whether the cell holds a value.
func (r Result) Ok() bool {
	return r.Failure == nil
}

// ScenarioValues holds one value per scenario, indexed by scenario.
type ScenarioValues []any

// Grid is the complete output of a calculation run: one row per trade,
// one column per measure, every cell populated.
type Grid struct {
	Measures []Measure
	cells    [][]Result
}

// newGrid allocates a rows-by-len(measures) grid.
func newGrid(rows int, measures []Measure) *Grid {
	cells := make([][]Result, rows)
	for i := range cells {
		cells[i] = make([]Result, len(measures))
	}
	ms := make([]Measure, len(measures))
	copy(ms, measures)
	return &Grid{Measures: ms, cells: cells}
}

// RowCount returns the number of trade rows.
func (g *Grid) RowCount() int {
	return len(g.cells)
}

// Get returns the cell for trade row i and measure column j.
func (g *Grid) Get(i, j int) Result {
	return g.cells[i][j]
}
