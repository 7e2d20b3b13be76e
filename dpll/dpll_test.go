package dpll

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

func TestSolveFourClauseSAT(t *testing.T) {
	f := formula(4, []int{1, 2}, []int{3, 4}, []int{-1, -3}, []int{-2, -4})
	r := Solve(context.Background(), f)
	if r.Verdict != solver.SAT {
		t.Fatalf("got %v, want SAT", r.Verdict)
	}
	if !solver.ValidModel(f, r.Model) {
		t.Fatalf("model %v does not satisfy formula", r.Model)
	}
}

func TestApplyPureLiteralSinglePass(t *testing.T) {
	// Var 1 occurs only positively: it should be assigned true in one
	// pass and its clause dropped, without re-scanning.
	f := formula(2, []int{1, 2}, []int{1, -2})
	a := cnf.NewAssignment(2)
	next, asn := applyPureLiteral(f, a)
	if next.Len() != 0 {
		t.Fatalf("expected both clauses satisfied by pure literal 1, got %d remaining", next.Len())
	}
	if asn.Value(1) != cnf.True {
		t.Fatalf("expected var 1 = true, got %v", asn.Value(1))
	}
}
