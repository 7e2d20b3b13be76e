package dp

import (
	"context"
	"testing"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

func formula(clauses ...[]int) *cnf.Formula {
	f := cnf.NewFormula(0)
	for _, c := range clauses {
		f.AddClause(cnf.NewClause(c...))
	}
	return f
}

func TestSolveUnitSAT(t *testing.T) {
	r := Solve(context.Background(), formula([]int{1}))
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
}

func TestSolveContradictoryUnits(t *testing.T) {
	r := Solve(context.Background(), formula([]int{1}, []int{-1}))
	if r.Verdict != solver.UNSAT {
		t.Fatalf("got %v, want UNSAT", r.Verdict)
	}
}

func TestSolveEmptyFormula(t *testing.T) {
	r := Solve(context.Background(), cnf.NewFormula(0))
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
}

func TestSolveThreeVarSAT(t *testing.T) {
	r := Solve(context.Background(), formula([]int{1, 2}, []int{-1, 3}, []int{-2, -3}))
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
}

func TestSolvePigeonhole(t *testing.T) {
	v := func(i, j int) int { return (i-1)*2 + j }
	f := cnf.NewFormula(6)
	for i := 1; i <= 3; i++ {
		f.AddClause(cnf.NewClause(v(i, 1), v(i, 2)))
	}
	for j := 1; j <= 2; j++ {
		for i1 := 1; i1 <= 3; i1++ {
			for i2 := i1 + 1; i2 <= 3; i2++ {
				f.AddClause(cnf.NewClause(-v(i1, j), -v(i2, j)))
			}
		}
	}
	r := Solve(context.Background(), f)
	if r.Verdict != solver.UNSAT {
		t.Fatalf("got %v, want UNSAT", r.Verdict)
	}
}

func TestSolveParallelMatchesSequential(t *testing.T) {
	cases := []*cnf.Formula{
		formula([]int{1, 2}, []int{-1, 3}, []int{-2, -3}),
		formula([]int{1}, []int{-1}),
		formula([]int{1, 2}, []int{3, 4}, []int{-1, -3}, []int{-2, -4}),
	}
	for _, f := range cases {
		seq := Solve(context.Background(), f)
		par := SolveParallel(context.Background(), f, 4)
		if seq.Verdict != par.Verdict {
			t.Fatalf("sequential=%v parallel=%v mismatch", seq.Verdict, par.Verdict)
		}
	}
}
