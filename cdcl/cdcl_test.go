package cdcl

import (
	"context"
	"testing"

	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/solver"
)

func formula(n int, clauses ...[]int) *cnf.Formula {
	f := cnf.NewFormula(n)
	for _, c := range clauses {
		f.AddClause(cnf.NewClause(c...))
	}
	return f
}

func TestSolveUnitSAT(t *testing.T) {
	r := Solve(context.Background(), formula(1, []int{1}))
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
	if r.Model[0] != 1 {
		t.Fatalf("got model %v, want var 1 = true", r.Model)
	}
}

func TestSolveContradictoryUnits(t *testing.T) {
	r := Solve(context.Background(), formula(1, []int{1}, []int{-1}))
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

func TestSolveEmptyClauseImmediateUnsat(t *testing.T) {
	f := cnf.NewFormula(1)
	f.AddClause(cnf.Empty)
	r := Solve(context.Background(), f)
	if r.Verdict != solver.UNSAT {
		t.Fatalf("got %v, want UNSAT", r.Verdict)
	}
}

func TestSolveThreeVarSATHasValidModel(t *testing.T) {
	f := formula(3, []int{1, 2}, []int{-1, 3}, []int{-2, -3})
	r := Solve(context.Background(), f)
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
	if !solver.ValidModel(f, r.Model) {
		t.Fatalf("model %v does not satisfy formula", r.Model)
	}
}

func TestSolvePigeonholeUnsat(t *testing.T) {
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

func TestSolveFourClauseSATHasValidModel(t *testing.T) {
	f := formula(4, []int{1, 2}, []int{3, 4}, []int{-1, -3}, []int{-2, -4})
	r := Solve(context.Background(), f)
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
	if !solver.ValidModel(f, r.Model) {
		t.Fatalf("model %v does not satisfy formula", r.Model)
	}
}

// TestSolveImplicationChain exercises a long run of pure unit propagation
// (no decisions needed) through the two-watched-literal scheme.
func TestSolveImplicationChain(t *testing.T) {
	// A chain of implications: 1 -> 2 -> 3 -> 4 -> 5, with 1 forced true.
	f := formula(5,
		[]int{-1, 2},
		[]int{-2, 3},
		[]int{-3, 4},
		[]int{-4, 5},
		[]int{1},
		[]int{-1, 5},
	)
	r := Solve(context.Background(), f)
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
	if !solver.ValidModel(f, r.Model) {
		t.Fatalf("model %v does not satisfy formula", r.Model)
	}
}

func TestLubySequence(t *testing.T) {
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := luby(int64(i + 1)); got != w {
			t.Fatalf("luby(%d) = %d, want %d", i+1, got, w)
		}
	}
}
