// Package cdcl implements conflict-driven clause learning: a trail-based
// search with two-watched-literal unit propagation, 1-UIP conflict
// analysis, non-chronological backtracking, a VSIDS-style activity
// heuristic blended with random decisions, periodic activity decay, and a
// Luby-sequence restart schedule. This is the deepest subsystem in the
// toolkit; every other engine (resolution, dp, dpll) is comparatively
// simple.
//
// The two-watched-literal bookkeeping here is a direct descendant of the
// watch-list scheme in this module's DPLL-era ancestor: watch[l] lists every
// clause that currently watches literal l, and is consulted when l's
// negation is assigned true.
package cdcl

import (
	"math/rand"

	"github.com/satkit/satkit/cnf"
)

// clause is CDCL's own mutable clause representation: unlike cnf.Clause
// (immutable, canonically sorted), a clause here keeps an explicit literal
// order because the first two positions are the watched literals and get
// reordered in place as propagation proceeds. lits[0] is the asserting
// (UIP) literal for a learned clause.
type clause struct {
	lits []cnf.Literal
}

func fromCNFClause(c cnf.Clause) clause {
	return clause{lits: c.Literals()}
}

func (c clause) isEmpty() bool { return len(c.lits) == 0 }
func (c clause) isUnit() bool  { return len(c.lits) == 1 }

// Options configures a Solver. The zero value is usable; unset fields take
// documented defaults.
type Options struct {
	// Seed seeds the branching RNG. Defaults to a value derived from the
	// problem size, so runs on the same input are reproducible.
	Seed int64
	// RestartBase is the base conflict-count unit for the Luby restart
	// schedule. Defaults to 32.
	RestartBase int64
}

func (o Options) withDefaults(n int) Options {
	if o.Seed == 0 {
		o.Seed = int64(n)*1_000_003 + 7
	}
	if o.RestartBase == 0 {
		o.RestartBase = 32
	}
	return o
}

// Solver holds one CDCL engine run's full state: trail, implication
// bookkeeping, clause database, and activity heuristics. A Solver value is
// used for exactly one Solve call; it carries no state across invocations
// and is never shared across goroutines, per the concurrency model.
type Solver struct {
	n int // number of variables, 1..n

	assign []cnf.TriState // assign[v]
	level  []int32        // decision level of v, -1 if unassigned
	reason []int32        // clause index forcing v, -1 if decision/unassigned

	activity []int64 // frequency counter per variable
	polarity []int64 // running signed polarity sum per variable

	db []clause // original clauses, then learned clauses, append-only

	watch [][]int32 // watch[litIndex(l)] = clause indices watching l

	trail    []cnf.Literal
	trailLim []int32 // trailLim[d] = trail index where decision level d+1 begins

	decisionLevel int32
	qHead         int // index into trail of the next literal to propagate

	heap *varHeap

	rng   *rand.Rand
	picks int64

	conflicts        int64
	conflictsInEpoch int64
	restarts         int64
	lubyIndex        int64
	restartBase      int64

	// conflictAtInit catches the one case propagate() cannot: two unit
	// clauses in the original formula that directly contradict each
	// other. Neither gets a watch-list entry, so nothing would otherwise
	// notice the second one's literal is already falsified.
	conflictAtInit bool
}

// litIndex maps a literal to its slot in the watch array: 2*(v-1) for the
// positive literal, one more for the negative. Negating a literal flips the
// low bit, mirroring the encoding the watch scheme needs to look up "the
// complementary literal's watchers" in O(1).
func litIndex(l cnf.Literal) int32 {
	v := int32(l.Var()-1) * 2
	if l.IsPositive() {
		return v
	}
	return v + 1
}

func negIndex(idx int32) int32 { return idx ^ 1 }

func literalForVar(v int32, positive bool) cnf.Literal {
	if positive {
		return cnf.Literal(v)
	}
	return cnf.Literal(-v)
}

// litValue reports the TriState of l under the solver's current assignment.
func (s *Solver) litValue(l cnf.Literal) cnf.TriState {
	a := s.assign[l.Var()]
	if a == cnf.Unassigned {
		return cnf.Unassigned
	}
	if l.IsPositive() {
		return a
	}
	if a == cnf.True {
		return cnf.False
	}
	return cnf.True
}

func sign(l cnf.Literal) int64 {
	if l.IsPositive() {
		return 1
	}
	return -1
}
