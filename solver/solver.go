// Package solver defines the uniform verdict and telemetry contract shared
// by every decision procedure (resolution, dp, dpll, cdcl), so the driver and
// cross-engine tests can treat them polymorphically.
package solver

import (
	"context"
	"time"

	"github.com/satkit/satkit/cnf"
)

// Verdict is the outcome of running an engine to completion (or to
// cancellation).
type Verdict int

const (
	// Unknown is reported when an engine was cancelled before reaching a
	// verdict. It is distinct from SAT/UNSAT, per the concurrency model's
	// cancellation contract.
	Unknown Verdict = iota
	SAT
	UNSAT
)

func (v Verdict) String() string {
	switch v {
	case SAT:
		return "SAT"
	case UNSAT:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Stats carries solving telemetry. Fields not meaningful to a given engine
// are left at their zero value. SolveTime covers the decision procedure only
// and excludes ingest, per the verdict contract.
type Stats struct {
	SolveTime    time.Duration
	Decisions    int64
	Propagations int64
	Conflicts    int64
	Restarts     int64
	Passes       int64 // resolution only: number of saturation passes
}

// Result is what every engine returns from Solve. Model is populated by
// DPLL and CDCL (which track an assignment); Resolution and DP leave it nil,
// since their decision procedures never construct one.
type Result struct {
	Verdict Verdict
	Model   []int
	Stats   Stats
}

// Engine is implemented by each decision procedure's adapter type, letting
// the driver and cross-engine property tests iterate engines uniformly.
type Engine interface {
	Name() string
	Solve(ctx context.Context, f *cnf.Formula) Result
}

// Cancelled reports whether ctx has been cancelled, the advisory check every
// engine performs at its natural boundaries (pass or decision boundaries).
func Cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// ValidModel reports whether model satisfies every clause of f. Unassigned
// variables in a partial model are treated as absent (neither literal
// satisfies their clauses).
func ValidModel(f *cnf.Formula, model []int) bool {
	vals := make(map[int]bool, len(model))
	for _, lit := range model {
		if lit < 0 {
			vals[-lit] = false
		} else {
			vals[lit] = true
		}
	}
clauseLoop:
	for _, c := range f.Clauses() {
		for _, l := range c.Literals() {
			v := l.Var()
			val, ok := vals[v]
			if !ok {
				continue
			}
			if val == l.IsPositive() {
				continue clauseLoop
			}
		}
		return false
	}
	return true
}
