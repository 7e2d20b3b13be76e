package dp

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

// SolveParallel mirrors Solve's ordered variable elimination (the per-
// variable step remains a synchronization barrier, since elimination order
// determines the result), but parallelizes the Pos x Neg resolvent
// computation within each step: the flattened len(Pos)*len(Neg) index space
// is split into disjoint intervals across workers, each building a local
// resolvent set that is merged into the next formula at the end of the step.
func SolveParallel(ctx context.Context, f *cnf.Formula, workers int) solver.Result {
	if workers <= 1 {
		return Solve(ctx, f)
	}

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

		next, unsat, err := eliminateParallel(ctx, cur, v, workers)
		if err != nil {
			return solver.Result{Verdict: solver.Unknown, Stats: solver.Stats{SolveTime: time.Since(start)}}
		}
		if unsat {
			return solver.Result{Verdict: solver.UNSAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
		}
		cur = next
	}
	return solver.Result{Verdict: solver.SAT, Stats: solver.Stats{SolveTime: time.Since(start)}}
}

func eliminateParallel(ctx context.Context, f *cnf.Formula, v int, workers int) (next *cnf.Formula, unsat bool, err error) {
	pos, neg, rest := partition(f, v)
	out := cnf.NewFormula(f.Vars())
	for _, c := range rest {
		out.AddClause(c)
	}
	if len(pos) == 0 || len(neg) == 0 {
		return out, false, nil
	}

	total := len(pos) * len(neg)
	lit := cnf.NewLiteral(v)

	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(passCtx)

	locals := make([][]cnf.Clause, workers)
	foundEmpty := make([]bool, workers)

	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				i, j := idx/len(neg), idx%len(neg)
				r := cnf.Resolve(pos[i], neg[j], lit)
				if r.IsEmpty() {
					foundEmpty[w] = true
					cancel()
					return nil
				}
				if r.Tautology() {
					continue
				}
				locals[w] = append(locals[w], r)
			}
			return nil
		})
	}
	if werr := g.Wait(); werr != nil {
		return nil, false, werr
	}

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
		return nil, false, ctx.Err()
	}
	if anyEmpty {
		return nil, true, nil
	}
	for _, local := range locals {
		for _, c := range local {
			out.AddClause(c)
		}
	}
	return out, false, nil
}

// ParallelAdapter implements solver.Engine using the worker-parallel variant.
type ParallelAdapter struct {
	Workers int
}

func (ParallelAdapter) Name() string { return "dp-parallel" }

func (a ParallelAdapter) Solve(ctx context.Context, f *cnf.Formula) solver.Result {
	return SolveParallel(ctx, f, a.Workers)
}
