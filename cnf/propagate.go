package cnf

// Step records one forced assignment made by Propagate: the literal that was
// set true and the index (into the Formula's clause slice) of the clause that
// forced it.
type Step struct {
	Lit        Literal
	Antecedent int
}

// Conflict reports a clause that is falsified in its entirety under the
// current assignment.
type Conflict struct {
	ClauseIndex int
	Clause      Clause
}

// Propagate iteratively applies the unit rule to a fixed point: while some
// clause has exactly one unassigned literal and every other literal is false,
// that literal is forced true. Scanning is in ascending clause index, then
// ascending literal index within a clause, so behavior is deterministic and
// reproducible across runs on the same input.
//
// It returns the forced steps (in the order they were made) and, if a clause
// became fully falsified, the conflict that stopped propagation. Propagate is
// idempotent: calling it again on its own fixed point returns no new steps
// and no conflict.
func Propagate(f *Formula, a *Assignment) ([]Step, *Conflict) {
	var steps []Step
	changed := true
	for changed {
		changed = false
		for ci, c := range f.clauses {
			lits := c.lits
			unassignedCount := 0
			var theLit Literal
			satisfied := false
			for _, l := range lits {
				switch a.LiteralValue(l) {
				case True:
					satisfied = true
				case Unassigned:
					unassignedCount++
					theLit = l
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return steps, &Conflict{ClauseIndex: ci, Clause: c}
			}
			if unassignedCount == 1 {
				v := theLit.Var()
				a.Set(v, FromBool(theLit.IsPositive()))
				steps = append(steps, Step{Lit: theLit, Antecedent: ci})
				changed = true
			}
		}
	}
	return steps, nil
}

// PropagateAndSimplify runs Propagate to a fixed point and folds the result
// back into a new Formula: clauses satisfied by the propagated assignment
// are dropped, and literals it falsifies are removed from their clause. It
// is the shared simplification step used by the DP and DPLL engines between
// branching/elimination decisions. The returned Assignment is the one
// Propagate populated, useful to callers that need the forced literals too.
func PropagateAndSimplify(f *Formula, a *Assignment) (*Formula, *Assignment, *Conflict) {
	_, conflict := Propagate(f, a)
	if conflict != nil {
		return nil, nil, conflict
	}
	out := NewFormula(f.Vars())
	for _, c := range f.clauses {
		satisfied := false
		var kept []Literal
		for _, l := range c.lits {
			switch a.LiteralValue(l) {
			case True:
				satisfied = true
			case False:
				// dropped: falsified literal
			default:
				kept = append(kept, l)
			}
		}
		if satisfied {
			continue
		}
		out.AddClause(newClauseFromLiterals(kept))
	}
	return out, a, nil
}
