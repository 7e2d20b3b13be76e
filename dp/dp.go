// Package dp implements the Davis-Putnam decision procedure: ordered
// variable elimination by bucketed resolution, with unit propagation run
// before each elimination step.
package dp

import (
	"context"
	"time"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// Solve eliminates variables 1..=N in numeric order. Before eliminating each
// variable, the remaining formula is unit-propagated to a fixed point
// (conflict there is an immediate UNSAT). Remaining clauses are partitioned
// into those containing +v, -v, and neither; every Pos x Neg pair is
// resolved, tautologies dropped, and an empty resolvent is an immediate
// UNSAT. The formula carried into the next variable is Rest plus the
// collected resolvents. Exhausting all variables without deriving an empty
// clause is SAT.
func Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	start := time.Now()

	if f.HasEmptyClause() {
		return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
	}

	n := f.Vars()
	cur := f
	for v := 1; v <= n; v++ {
		if solver.Cancelled(ctx) {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start)}}
		}

		simplified, _, conflict := cnf.PropagateAndSimplify(cur, cnf.NewAssignment(cur.Vars()))
		if conflict != nil {
			return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
		}
		cur = simplified

		next, unsat := eliminate(cur, v)
		if unsat {
			return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
		}
		cur = next
	}
	return solver.Result{Verdict: solver.SAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
}

// eliminate removes variable v from f by bucketed resolution, returning the
// next formula (Rest plus resolvents) or unsat=true if an empty resolvent
// was derived.
func eliminate(f *cnf.Formula, v int) (next *cnf.Formula, unsat bool) {
	pos, neg, rest := partition(f, v)
	if len(pos) == 0 || len(neg) == 0 {
		// Variable doesn't appear with both polarities (or at all): it
		// simply drops out, Rest already contains everything relevant.
		out := cnf.NewFormula(f.Vars())
		for _, c := range rest {
			out.AddClause(c)
		}
		return out, false
	}

	out := cnf.NewFormula(f.Vars())
	for _, c := range rest {
		out.AddClause(c)
	}
	lit := cnf.NewLiteral(v)
	for _, c1 := range pos {
		for _, c2 := range neg {
			r := cnf.Resolve(c1, c2, lit)
			if r.IsEmpty() {
				return nil, true
			}
			if r.Tautology() {
				continue
			}
			out.AddClause(r)
		}
	}
	return out, false
}

func partition(f *cnf.Formula, v int) (pos, neg, rest []cnf.Clause) {
	lit := cnf.NewLiteral(v)
	for _, c := range f.Clauses() {
		switch {
		case c.Contains(lit):
			pos = append(pos, c)
		case c.Contains(lit.Negate()):
			neg = append(neg, c)
		default:
			rest = append(rest, c)
		}
	}
	return pos, neg, rest
}

// Adapter implements solver.Engine for the sequential DP procedure.
type Adapter struct{}

func (Adapter) Name() string { return "dp" }

func (Adapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return Solve(ctx, f)
}
