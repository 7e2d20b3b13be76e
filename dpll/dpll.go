// Package dpll implements the Davis-Putnam-Logemann-Loveland procedure:
// iterative (explicit-stack) backtracking search with unit propagation and a
// single-pass pure-literal rule. An explicit stack is used in place of
// recursion so deep instances don't exhaust the Go call stack, per the
// "recursion vs iteration" design note.
package dpll

import (
	"context"
	"time"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// frame is one node of the DPLL search tree awaiting propagation: the
// formula as it stood before this node's extra decision, and the assignment
// (including that decision) to propagate against it.
type frame struct {
	f *cnf.Formula
	a *cnf.Assignment
}

// Solve runs the DPLL procedure to a verdict. On SAT, the returned Model is
// total: every variable 1..=N is assigned, with variables that unit
// propagation, pure-literal elimination, and branching never touched
// defaulted to true (any extension of a satisfying partial assignment is
// itself satisfying).
func Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	start := time.Now()
	n := f.Vars()

	if f.HasEmptyClause() {
		return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
	}

	var decisions, propagations int64
	stack := []frame{{f, cnf.NewAssignment(n)}}
	for len(stack) > 0 {
		if solver.Cancelled(ctx) {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start), Decisions: decisions}}
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		simplified, asn, conflict := cnf.PropagateAndSimplify(top.f, top.a.Clone())
		if conflict != nil {
			continue // this branch is dead; try the next one on the stack
		}
		propagations++

		simplified, asn = applyPureLiteral(simplified, asn)

		if simplified.Len() == 0 {
			return solver.Result{
				Verdict: solver.SAT,
				Model:   asn.Model(),
				Stats:   solver.Stats{SolveTime: time.Since(start), Decisions: decisions, Propagations: propagations},
			}
		}
		if simplified.HasEmptyClause() {
			continue
		}

		v, ok := firstUnassignedVar(simplified, asn)
		if !ok {
			// No empty clause, no clauses left unaccounted for, and
			// nothing to branch on: every clause must already be
			// satisfied by asn.
			return solver.Result{
				Verdict: solver.SAT,
				Model:   asn.Model(),
				Stats:   solver.Stats{SolveTime: time.Since(start), Decisions: decisions, Propagations: propagations},
			}
		}
		decisions++

		falseAsn := asn.Clone()
		falseAsn.Set(v, cnf.False)
		trueAsn := asn.Clone()
		trueAsn.Set(v, cnf.True)
		// Push False first, True second: True pops first, matching the
		// "branch order is True then False" determinism rule.
		stack = append(stack, frame{simplified, falseAsn}, frame{simplified, trueAsn})
	}
	return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start), Decisions: decisions, Propagations: propagations}}
}

// applyPureLiteral assigns every variable that occurs with only one polarity
// across f's clauses and removes the clauses it satisfies. Occurrence counts
// are taken once, up front (no re-scan after each elimination), matching the
// single-pass semantics the source's simpler DPLL uses: it changes
// intermediate assignments but never the SAT/UNSAT outcome.
func applyPureLiteral(f *cnf.Formula, a *cnf.Assignment) (*cnf.Formula, *cnf.Assignment) {
	posCount := make(map[int]int)
	negCount := make(map[int]int)
	for _, c := range f.Clauses() {
		for _, l := range c.Literals() {
			if l.IsPositive() {
				posCount[l.Var()]++
			} else {
				negCount[l.Var()]++
			}
		}
	}

	pure := make(map[int]cnf.TriState)
	for v, p := range posCount {
		if a.Value(v) != cnf.Unassigned {
			continue
		}
		if n := negCount[v]; n == 0 && p > 0 {
			pure[v] = cnf.True
		}
	}
	for v, n := range negCount {
		if a.Value(v) != cnf.Unassigned {
			continue
		}
		if p := posCount[v]; p == 0 && n > 0 {
			pure[v] = cnf.False
		}
	}
	if len(pure) == 0 {
		return f, a
	}

	out := a.Clone()
	for v, val := range pure {
		out.Set(v, val)
	}
	next := cnf.NewFormula(f.Vars())
	for _, c := range f.Clauses() {
		satisfied := false
		for _, l := range c.Literals() {
			if val, ok := pure[l.Var()]; ok && (val == cnf.True) == l.IsPositive() {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		next.AddClause(c)
	}
	return next, out
}

// firstUnassignedVar returns the first unassigned variable encountered while
// iterating f's clauses in order, matching the "first-found policy".
func firstUnassignedVar(f *cnf.Formula, a *cnf.Assignment) (int, bool) {
	for _, c := range f.Clauses() {
		for _, l := range c.Literals() {
			if a.Value(l.Var()) == cnf.Unassigned {
				return l.Var(), true
			}
		}
	}
	return 0, false
}

// Adapter implements solver.Engine for the DPLL procedure.
type Adapter struct{}

func (Adapter) Name() string { return "dpll" }

func (Adapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return Solve(ctx, f)
}
