package cdcl

import "github.com/satkit/satkit/cnf"

// pickBranchLiteral blends two policies, per the branching heuristic
// design: with probability ~0.6 (preserving the historical "greater than 4
// on a 1..10 roll" source behavior), or whenever fewer than half the
// variables are assigned, pick the unassigned variable of maximum activity.
// Otherwise pick a uniformly random unassigned variable, retrying up to
// 10*N times before falling through to the activity-max branch.
func (s *Solver) pickBranchLiteral() (cnf.Literal, bool) {
	unassigned := s.heap.Len()
	if unassigned == 0 {
		return 0, false
	}
	assigned := s.n - unassigned
	useActivity := assigned*2 < s.n || s.rng.Intn(10) < 6

	if !useActivity {
		for attempt := 0; attempt < 10*s.n; attempt++ {
			v := int32(s.rng.Intn(s.n) + 1)
			if s.assign[v] == cnf.Unassigned {
				s.heap.remove(v)
				return s.branchLiteral(v), true
			}
		}
		// Exhausted retries: fall through to the activity-max branch.
	}

	v, ok := s.heap.popMax()
	if !ok {
		return 0, false
	}
	return s.branchLiteral(v), true
}

// branchLiteral returns the literal to assign for v: polarity follows the
// sign of its running polarity sum (>=0 picks positive).
func (s *Solver) branchLiteral(v int32) cnf.Literal {
	if s.polarity[v] >= 0 {
		return literalForVar(v, true)
	}
	return literalForVar(v, false)
}

// maybeDecay halves every activity and polarity magnitude every 20*N picks,
// the VSIDS-style recency bias.
func (s *Solver) maybeDecay() {
	period := int64(20 * s.n)
	if period == 0 || s.picks%period != 0 {
		return
	}
	for v := 1; v <= s.n; v++ {
		s.activity[v] /= 2
		s.polarity[v] /= 2
		s.heap.fix(int32(v))
	}
}

// maybeRestart triggers a full backtrack to level 0 when the conflict count
// since the last restart reaches the current Luby-sequence threshold. A
// restart is a performance knob only: it preserves the learned-clause
// database and activity state, so it never changes the decided verdict.
func (s *Solver) maybeRestart() {
	threshold := s.restartBase * luby(s.lubyIndex+1)
	if s.conflictsInEpoch < threshold {
		return
	}
	s.backtrack(0)
	s.conflictsInEpoch = 0
	s.lubyIndex++
	s.restarts++
}

// luby returns the i-th term (1-indexed) of the Luby sequence
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ..., the standard restart
// schedule: short restarts early, exponentially longer ones later.
func luby(i int64) int64 {
	i-- // the computation below works on 0-indexed positions
	size, seq := int64(1), int64(0)
	for size < i+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != i {
		size = (size - 1) / 2
		seq--
		i %= size
	}
	var result int64 = 1
	for k := int64(0); k < seq; k++ {
		result *= 2
	}
	return result
}
