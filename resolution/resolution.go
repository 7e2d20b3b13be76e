// Package resolution implements the reference decision procedure: saturating
// binary resolution to a fixed point or to the empty clause. It is sound and
// refutation-complete for propositional CNF, but the clause universe over N
// variables has worst-case size 3^N, so this engine is an oracle for small
// instances, not a production solver.
package resolution

import (
	"context"
	"time"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// known is the resolution engine's working clause set: a slice (for
// deterministic, index-ordered iteration) plus a membership index (for O(1)
// "already known" checks).
type known struct {
	clauses []cnf.Clause
	index   map[string]struct{}
}

func newKnown(f *cnf.Formula) *known {
	k := &known{index: make(map[string]struct{})}
	for _, c := range f.Clauses() {
		k.add(c)
	}
	return k
}

func (k *known) add(c cnf.Clause) bool {
	key := clauseKey(c)
	if _, ok := k.index[key]; ok {
		return false
	}
	k.index[key] = struct{}{}
	k.clauses = append(k.clauses, c)
	return true
}

func (k *known) has(c cnf.Clause) bool {
	_, ok := k.index[clauseKey(c)]
	return ok
}

func clauseKey(c cnf.Clause) string {
	// Clause.Literals() is already in canonical sorted order, so the
	// string form is a stable dedup key.
	var b []byte
	for _, l := range c.Literals() {
		b = append(b, []byte(l.String())...)
		b = append(b, ',')
	}
	return string(b)
}

// Solve decides SAT/UNSAT by saturating pairwise resolution. See the package
// doc for the algorithm's guarantees and limits.
func Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	start := time.Now()
	k := newKnown(f)

	if empty, ok := findEmpty(k); ok {
		_ = empty
		return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
	}

	var passes int64
	for {
		passes++
		if solver.Cancelled(ctx) {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start), Passes: passes}}
		}
		newlyDerived, hitEmpty := resolvePass(k)
		if hitEmpty {
			return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start), Passes: passes}}
		}
		if len(newlyDerived) == 0 {
			return solver.Result{Verdict: solver.SAT, Stats: solver.Stats{SolveTime: time.Since(start), Passes: passes}}
		}
		for _, c := range newlyDerived {
			k.add(c)
		}
	}
}

// findEmpty reports whether the empty clause is already present, the
// "UNSAT before propagation" boundary case.
func findEmpty(k *known) (cnf.Clause, bool) {
	for _, c := range k.clauses {
		if c.IsEmpty() {
			return c, true
		}
	}
	return cnf.Empty, false
}

// resolvePass performs one full saturation pass over the current snapshot of
// k, returning the newly derived, non-tautological, not-yet-known resolvents.
// It stops early (hitEmpty=true) the moment it derives the empty clause.
func resolvePass(k *known) (newClauses []cnf.Clause, hitEmpty bool) {
	n := len(k.clauses)
	localSeen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c1, c2 := k.clauses[i], k.clauses[j]
			for _, l := range c1.Literals() {
				if !c2.Contains(l.Negate()) {
					continue
				}
				r := cnf.Resolve(c1, c2, l)
				if r.IsEmpty() {
					return nil, true
				}
				if r.Tautology() {
					continue
				}
				if k.has(r) {
					continue
				}
				key := clauseKey(r)
				if _, ok := localSeen[key]; ok {
					continue
				}
				localSeen[key] = struct{}{}
				newClauses = append(newClauses, r)
			}
		}
	}
	return newClauses, false
}

// Adapter implements solver.Engine for the sequential resolution procedure.
type Adapter struct{}

func (Adapter) Name() string { return "resolution" }

func (Adapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return Solve(ctx, f)
}
