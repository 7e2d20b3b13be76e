package cdcl

import "github.com/satkit/satkit/cnf"

// analyze performs 1-UIP conflict analysis by repeated resolution, per the
// design: starting from the falsified clause, it keeps resolving against
// the antecedent of a conflict-level literal until exactly one
// conflict-level literal remains (the first unique implication point).
//
// The resolution is driven by walking the trail backward rather than
// re-deriving "the falsified clause" explicitly each step; the two are
// equivalent since every literal the working clause still contains is, by
// construction, on the trail. seen tracks which variables are currently
// part of the working clause so each is resolved on at most once.
func (s *Solver) analyze(conflictIdx int32) (learnt []cnf.Literal, backtrackLevel int32) {
	seen := make([]bool, s.n+1)
	var tail []cnf.Literal // literals of the learned clause below the conflict level
	counter := 0

	reasonLits := s.db[conflictIdx].lits
	var uip cnf.Literal
	trailIdx := len(s.trail) - 1
	first := true

	for {
		fold := reasonLits
		if !first {
			// reasonLits is the antecedent of uip, whose lits[0] is
			// uip itself (by construction in propagate/enqueueLearned);
			// skip it so resolving on uip doesn't re-add the literal
			// that was just unmarked below.
			fold = reasonLits[1:]
		}
		first = false
		for _, l := range fold {
			v := l.Var()
			if seen[v] {
				continue
			}
			seen[v] = true
			switch {
			case s.level[v] == s.decisionLevel:
				counter++
			case s.level[v] > 0:
				tail = append(tail, l)
			}
			// level-0 literals are permanent facts; the learned
			// clause omits them entirely.
		}

		for trailIdx >= 0 && !seen[s.trail[trailIdx].Var()] {
			trailIdx--
		}
		if trailIdx < 0 {
			panic("cdcl: conflict analysis did not reach a unique implication point")
		}
		uip = s.trail[trailIdx]
		seen[uip.Var()] = false
		trailIdx--
		counter--
		if counter == 0 {
			break
		}

		reasonIdx := s.reason[uip.Var()]
		if reasonIdx < 0 {
			panic("cdcl: conflict analysis reached a decision literal before a UIP")
		}
		reasonLits = s.db[reasonIdx].lits
	}

	lits := make([]cnf.Literal, 0, len(tail)+1)
	lits = append(lits, uip.Negate())
	lits = append(lits, tail...)
	for _, l := range lits {
		s.bumpActivity(l.Var(), l)
	}

	backtrackLevel = 0
	for _, l := range tail {
		if lvl := s.level[l.Var()]; lvl > backtrackLevel {
			backtrackLevel = lvl
		}
	}
	return lits, backtrackLevel
}
