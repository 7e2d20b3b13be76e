package cdcl

import (
	"context"
	"math/rand"
	"time"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// Solve runs CDCL to a verdict, per the main loop in the design: an initial
// level-0 propagation, then repeated decide/propagate/analyze cycles until
// every variable is assigned (SAT) or a conflict survives at decision level
// zero (UNSAT).
func Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return SolveWithOptions(ctx, f, Options{})
}

// SolveWithOptions is Solve with explicit tuning (seed, restart base).
func SolveWithOptions(ctx context.Context, f *cnf.Formula, opts Options) solver.Result {
	start := time.Now()
	n := f.Vars()
	opts = opts.withDefaults(n)

	if f.HasEmptyClause() {
		return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
	}

	s := newSolver(f, n, opts)

	if s.conflictAtInit {
		return solver.Result{Verdict: solver.UNSAT, Stats: s.stats(start)}
	}
	if conflictIdx := s.propagate(); conflictIdx >= 0 {
		return solver.Result{Verdict: solver.UNSAT, Stats: s.stats(start)}
	}

	for {
		if solver.Cancelled(ctx) {
			return solver.Result{Verdict: solver.Unknown, Stats: s.stats(start)}
		}
		if s.heap.Len() == 0 {
			break // every variable assigned: SAT
		}

		lit, ok := s.pickBranchLiteral()
		if !ok {
			break
		}
		s.decide(lit)

		for {
			conflictIdx := s.propagate()
			if conflictIdx < 0 {
				break
			}
			s.conflicts++
			s.conflictsInEpoch++
			if s.decisionLevel == 0 {
				return solver.Result{Verdict: solver.UNSAT, Stats: s.stats(start)}
			}
			learnt, backtrackLevel := s.analyze(conflictIdx)
			idx := s.addLearnedClause(learnt)
			s.backtrack(backtrackLevel)
			s.enqueueLearned(idx)
		}

		s.maybeRestart()
	}

	return solver.Result{
		Verdict: solver.SAT,
		Model:   s.model(),
		Stats:   s.stats(start),
	}
}

func newSolver(f *cnf.Formula, n int, opts Options) *Solver {
	s := &Solver{
		n:           n,
		assign:      make([]cnf.TriState, n+1),
		level:       make([]int32, n+1),
		reason:      make([]int32, n+1),
		activity:    make([]int64, n+1),
		polarity:    make([]int64, n+1),
		watch:       make([][]int32, 2*n),
		rng:         rand.New(rand.NewSource(opts.Seed)),
		restartBase: opts.RestartBase,
	}
	for v := range s.level {
		s.level[v] = -1
		s.reason[v] = -1
	}

	// The heap must exist before any clause is added: unit clauses enqueue
	// immediately, and enqueue removes the assigned variable from the heap.
	s.heap = newVarHeap(&s.activity, n)
	for _, c := range f.Clauses() {
		s.addOriginalClause(c)
	}
	return s
}

// addOriginalClause bumps activity for every literal, then either enqueues a
// unit clause immediately at level 0 or registers two watches.
func (s *Solver) addOriginalClause(c cnf.Clause) {
	cl := fromCNFClause(c)
	idx := int32(len(s.db))
	s.db = append(s.db, cl)

	for _, l := range cl.lits {
		s.bumpActivity(l.Var(), l)
	}

	switch {
	case cl.isEmpty():
		// The empty clause is caught by HasEmptyClause before the
		// solver is constructed; reaching here would be a caller bug.
	case cl.isUnit():
		lit := cl.lits[0]
		v := lit.Var()
		switch s.assign[v] {
		case cnf.Unassigned:
			s.enqueue(lit, idx)
		default:
			if (s.assign[v] == cnf.True) != lit.IsPositive() {
				s.conflictAtInit = true
			}
		}
	default:
		s.watch[litIndex(cl.lits[0])] = append(s.watch[litIndex(cl.lits[0])], idx)
		s.watch[litIndex(cl.lits[1])] = append(s.watch[litIndex(cl.lits[1])], idx)
	}
}

func (s *Solver) bumpActivity(v int, l cnf.Literal) {
	s.activity[v]++
	s.polarity[v] += sign(l)
	s.heap.fix(int32(v))
}

// enqueue forces lit true at the current decision level, recording reason
// as its antecedent clause index (-1 for a decision). Propagated literals
// reach here without having gone through the heap first, so this also
// takes v out of the unassigned-variable heap; removal is a no-op if the
// decision path already popped it.
func (s *Solver) enqueue(lit cnf.Literal, reasonIdx int32) {
	v := lit.Var()
	s.assign[v] = cnf.FromBool(lit.IsPositive())
	s.level[v] = s.decisionLevel
	s.reason[v] = reasonIdx
	s.trail = append(s.trail, lit)
	s.heap.remove(int32(v))
}

// decide opens a new decision level and enqueues lit as a decision.
func (s *Solver) decide(lit cnf.Literal) {
	s.picks++
	s.decisionLevel++
	s.trailLim = append(s.trailLim, int32(len(s.trail)))
	s.enqueue(lit, -1)
	s.maybeDecay()
}

// enqueueLearned pushes the asserting literal of a freshly learned clause
// (its lits[0], by construction — see analyze) onto the trail at the
// post-backtrack decision level.
func (s *Solver) enqueueLearned(clauseIdx int32) {
	cl := s.db[clauseIdx]
	if cl.isEmpty() {
		panic("cdcl: learned the empty clause above decision level 0")
	}
	s.enqueue(cl.lits[0], clauseIdx)
}

// addLearnedClause appends learnt to the database and registers its
// watches (none needed for a unit clause, which is propagated directly by
// enqueueLearned instead).
func (s *Solver) addLearnedClause(learnt []cnf.Literal) int32 {
	idx := int32(len(s.db))
	cl := clause{lits: learnt}
	s.db = append(s.db, cl)
	if len(cl.lits) >= 2 {
		s.watch[litIndex(cl.lits[0])] = append(s.watch[litIndex(cl.lits[0])], idx)
		s.watch[litIndex(cl.lits[1])] = append(s.watch[litIndex(cl.lits[1])], idx)
	}
	return idx
}

// propagate drains the trail via two-watched-literal BCP, returning the
// index of a falsified clause, or -1 at a fixed point.
func (s *Solver) propagate() int32 {
	for s.qHead < len(s.trail) {
		lit := s.trail[s.qHead]
		s.qHead++

		negLit := lit.Negate()
		watchSlot := negIndex(litIndex(lit))
		watches := s.watch[watchSlot]

		i := 0
		for i < len(watches) {
			ci := watches[i]
			cl := &s.db[ci]

			if cl.lits[0] == negLit {
				cl.lits[0], cl.lits[1] = cl.lits[1], cl.lits[0]
			}
			if s.litValue(cl.lits[0]) == cnf.True {
				i++
				continue // already satisfied via the other watch
			}

			replaced := false
			for j := 2; j < len(cl.lits); j++ {
				if s.litValue(cl.lits[j]) != cnf.False {
					cl.lits[1], cl.lits[j] = cl.lits[j], cl.lits[1]
					s.watch[litIndex(cl.lits[1])] = append(s.watch[litIndex(cl.lits[1])], ci)
					watches[i] = watches[len(watches)-1]
					watches = watches[:len(watches)-1]
					s.watch[watchSlot] = watches
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}

			i++
			if s.litValue(cl.lits[0]) == cnf.False {
				return ci // conflict: both watches falsified
			}
			s.enqueue(cl.lits[0], ci)
		}
	}
	return -1
}

// backtrack undoes every assignment made above level, restoring those
// variables to the unassigned heap.
func (s *Solver) backtrack(level int32) {
	if level >= s.decisionLevel {
		return
	}
	from := int(s.trailLim[level])
	for i := len(s.trail) - 1; i >= from; i-- {
		v := s.trail[i].Var()
		s.assign[v] = cnf.Unassigned
		s.level[v] = -1
		s.reason[v] = -1
		s.heap.restore(int32(v))
	}
	s.trail = s.trail[:from]
	s.trailLim = s.trailLim[:level]
	s.decisionLevel = level
	s.qHead = len(s.trail)
}

func (s *Solver) model() []int {
	out := make([]int, 0, s.n)
	for v := 1; v <= s.n; v++ {
		if s.assign[v] == cnf.False {
			out = append(out, -v)
		} else {
			// Unassigned variables (possible if the formula never
			// constrained them) extend arbitrarily; default true.
			out = append(out, v)
		}
	}
	return out
}

func (s *Solver) stats(start time.Time) solver.Stats {
	return solver.Stats{
		SolveTime:    time.Since(start),
		Decisions:    s.picks,
		Propagations: int64(len(s.trail)),
		Conflicts:    s.conflicts,
		Restarts:     s.restarts,
	}
}

// Adapter implements solver.Engine for the CDCL procedure.
type Adapter struct{}

func (Adapter) Name() string { return "cdcl" }

func (Adapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return Solve(ctx, f)
}
