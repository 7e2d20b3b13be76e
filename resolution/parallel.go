package resolution

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// SolveParallel partitions each saturation pass's outer-loop index range
// across workers goroutines. Each worker builds a local candidate-resolvent
// set over its disjoint half-open interval of k.clauses; a barrier at the
// end of the pass merges every local set into the global Known set. A
// worker that derives the empty clause cancels a shared context so the
// remaining workers stop at their next iteration boundary — the merged
// verdict is identical to the sequential path either way.
//
// workers <= 1 delegates to the sequential Solve, so the verdict and clause
// derivation order are unaffected by parallelism.
func SolveParallel(ctx context.Context, f *cnf.Formula, workers int) solver.Result {
	if workers <= 1 {
		return Solve(ctx, f)
	}

	start := time.Now()
	k := newKnown(f)
	if _, ok := findEmpty(k); ok {
		return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
	}

	var passes int64
	for {
		passes++
		if solver.Cancelled(ctx) {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start), Passes: passes}}
		}
		newlyDerived, hitEmpty, cancelled := resolvePassParallel(ctx, k, workers)
		if cancelled {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start), Passes: passes}}
		}
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

// resolvePassParallel mirrors resolvePass, but spreads the outer-loop range
// [0, n) across workers goroutines, each producing a local slice of
// candidate resolvents that is merged (by set union, via the caller's
// dedup-on-add) after every worker finishes.
func resolvePassParallel(ctx context.Context, k *known, workers int) (newClauses []cnf.Clause, hitEmpty, cancelled bool) {
	n := len(k.clauses)
	if n == 0 {
		return nil, false, false
	}

	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(passCtx)
	locals := make([][]cnf.Clause, workers)
	foundEmpty := make([]bool, workers)

	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			localSeen := make(map[string]struct{})
			for i := lo; i < hi; i++ {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				c1 := k.clauses[i]
				for j := i + 1; j < n; j++ {
					c2 := k.clauses[j]
					for _, l := range c1.Literals() {
						if !c2.Contains(l.Negate()) {
							continue
						}
						r := cnf.Resolve(c1, c2, l)
						if r.IsEmpty() {
							foundEmpty[w] = true
							cancel() // advisory: let other workers stop early
							return nil
						}
						if r.Tautology() || k.has(r) {
							continue
						}
						key := clauseKey(r)
						if _, ok := localSeen[key]; ok {
							continue
						}
						localSeen[key] = struct{}{}
						locals[w] = append(locals[w], r)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; only cooperative cancellation

	anyEmpty := false
	for _, found := range foundEmpty {
		if found {
			anyEmpty = true
		}
	}
	// A worker can also stop early because the caller's ctx (not one of
	// our own foundEmpty cancellations) was cancelled mid-pass; that
	// leaves locals truncated, so it must not be merged as if the pass
	// had completed.
	if !anyEmpty && ctx.Err() != nil {
		return nil, false, true
	}
	if anyEmpty {
		return nil, true, false
	}

	merged := make(map[string]struct{})
	for _, local := range locals {
		for _, c := range local {
			key := clauseKey(c)
			if _, ok := merged[key]; ok {
				continue
			}
			merged[key] = struct{}{}
			newClauses = append(newClauses, c)
		}
	}
	return newClauses, false, false
}

// ParallelAdapter implements solver.Engine using the worker-parallel variant
// with a fixed worker count.
type ParallelAdapter struct {
	Workers int
}

func (ParallelAdapter) Name() string { return "resolution-parallel" }

func (a ParallelAdapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return SolveParallel(ctx, f, a.Workers)
}
