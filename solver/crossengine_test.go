package solver_test

import (
	"context"
	"testing"

	"github.com/satkit/satkit/cdcl"
	"github.com/satkit/satkit/cnf"
	"github.com/satkit/satkit/dp"
	"github.com/satkit/satkit/dpll"
	"github.com/satkit/satkit/resolution"
	"github.com/satkit/satkit/solver"
)

func engines() []solver.Engine {
	return []solver.Engine{
		resolution.Adapter{},
		resolution.ParallelAdapter{Workers: 4},
		dp.Adapter{},
		dp.ParallelAdapter{Workers: 4},
		dpll.Adapter{},
		cdcl.Adapter{},
	}
}

func clause(lits ...int) cnf.Clause { return cnf.NewClause(lits...) }

func formula(clauses ...cnf.Clause) *cnf.Formula {
	f := cnf.NewFormula(0)
	for _, c := range clauses {
		f.AddClause(c)
	}
	return f
}

// pigeonhole3into2 is classically UNSAT: three pigeons, two holes.
func pigeonhole3into2() *cnf.Formula {
	v := func(i, j int) int { return (i-1)*2 + j }
	var clauses []cnf.Clause
	for i := 1; i <= 3; i++ {
		clauses = append(clauses, clause(v(i, 1), v(i, 2)))
	}
	for j := 1; j <= 2; j++ {
		for i1 := 1; i1 <= 3; i1++ {
			for i2 := i1 + 1; i2 <= 3; i2++ {
				clauses = append(clauses, clause(-v(i1, j), -v(i2, j)))
			}
		}
	}
	return formula(clauses...)
}

// scenarios holds end-to-end DIMACS cases 1-4 plus the empty formula and an
// XOR-style four-variable formula: a mix of trivially SAT, trivially UNSAT,
// and structurally interesting formulas every engine must agree on.
func scenarios() map[string]*cnf.Formula {
	return map[string]*cnf.Formula{
		"single positive unit": formula(clause(1)),
		"contradictory units":  formula(clause(1), clause(-1)),
		"empty formula":        cnf.NewFormula(0),
		"three var chain": formula(
			clause(1, 2),
			clause(-1, 3),
			clause(-2, -3),
		),
		"pigeonhole 3-into-2": pigeonhole3into2(),
		"xor-like four var": formula(
			clause(1, 2),
			clause(-1, -2),
			clause(3, 4),
			clause(-3, -4),
			clause(1, 3),
			clause(-1, -3),
		),
	}
}

// TestVerdictAgreement checks that every engine returns the same verdict
// on the same bounded formula.
func TestVerdictAgreement(t *testing.T) {
	for name, f := range scenarios() {
		t.Run(name, func(t *testing.T) {
			var want solver.Verdict
			var wantName string
			for i, eng := range engines() {
				res := eng.Solve(context.Background(), f.Clone())
				if i == 0 {
					want = res.Verdict
					wantName = eng.Name()
					continue
				}
				if res.Verdict != want {
					t.Fatalf("%s: engine %s returned %v, want %v (from %s)",
						name, eng.Name(), res.Verdict, want, wantName)
				}
			}
		})
	}
}

// TestSATImpliesValidModel checks every model-producing engine (dpll, cdcl)
// returns an assignment that actually satisfies the formula whenever it
// declares SAT.
func TestSATImpliesValidModel(t *testing.T) {
	for name, f := range scenarios() {
		for _, eng := range []solver.Engine{dpll.Adapter{}, cdcl.Adapter{}} {
			t.Run(name+"/"+eng.Name(), func(t *testing.T) {
				res := eng.Solve(context.Background(), f.Clone())
				if res.Verdict != solver.SAT {
					return
				}
				if !solver.ValidModel(f, res.Model) {
					t.Fatalf("%s: %s model %v does not satisfy formula", name, eng.Name(), res.Model)
				}
			})
		}
	}
}
