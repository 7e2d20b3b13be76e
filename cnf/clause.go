package cnf

import (
	"sort"
	"strconv"
	"strings"
)

// Clause is a finite set of literals: no duplicates, and (unless explicitly
// permitted by the caller) no simultaneous l and -l. Clauses are immutable
// once constructed; every simplification produces a new Clause rather than
// mutating one in place.
type Clause struct {
	lits []Literal // sorted by Var(), positive before negative within a var
}

// NewClause builds a Clause from raw signed integers, deduplicating literals.
// It does not reject tautologies; callers that care (see Tautology) decide
// whether to drop them.
func NewClause(lits ...int) Clause {
	ls := make([]Literal, 0, len(lits))
	for _, n := range lits {
		ls = append(ls, NewLiteral(n))
	}
	return newClauseFromLiterals(ls)
}

// NewClauseFromLiterals builds a Clause from already-constructed Literals,
// deduplicating and canonically ordering them exactly like NewClause. It
// exists for callers that work with Literal values rather than raw ints.
func NewClauseFromLiterals(lits []Literal) Clause {
	return newClauseFromLiterals(lits)
}

func newClauseFromLiterals(lits []Literal) Clause {
	seen := make(map[Literal]struct{}, len(lits))
	out := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].Var(), out[j].Var()
		if vi != vj {
			return vi < vj
		}
		return out[i] > out[j] // positive literal of a var sorts before negative
	})
	return Clause{lits: out}
}

// Empty is the distinguished empty clause, denoting unsatisfiability.
var Empty = Clause{}

// Len returns the number of distinct literals in c.
func (c Clause) Len() int { return len(c.lits) }

// IsEmpty reports whether c is the empty clause (bottom).
func (c Clause) IsEmpty() bool { return len(c.lits) == 0 }

// IsUnit reports whether c has exactly one literal.
func (c Clause) IsUnit() bool { return len(c.lits) == 1 }

// Literals returns a defensive copy of c's literals in canonical order.
func (c Clause) Literals() []Literal {
	out := make([]Literal, len(c.lits))
	copy(out, c.lits)
	return out
}

// Contains reports whether l occurs in c.
func (c Clause) Contains(l Literal) bool {
	for _, x := range c.lits {
		if x == l {
			return true
		}
	}
	return false
}

// Tautology reports whether c contains both a literal and its negation,
// making it trivially satisfied.
func (c Clause) Tautology() bool {
	for i := 0; i+1 < len(c.lits); i++ {
		if c.lits[i].Var() == c.lits[i+1].Var() && c.lits[i] != c.lits[i+1] {
			return true
		}
	}
	return false
}

// Equal reports whether c and other contain exactly the same literal set,
// independent of construction order.
func (c Clause) Equal(other Clause) bool {
	if len(c.lits) != len(other.lits) {
		return false
	}
	for i := range c.lits {
		if c.lits[i] != other.lits[i] {
			return false
		}
	}
	return true
}

// key returns a canonical string used for deduplicating clauses in a Formula.
func (c Clause) key() string {
	var b strings.Builder
	for i, l := range c.lits {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(l)))
	}
	return b.String()
}

// Resolve computes the resolvent of c and other on literal l, which must
// appear positively in one clause and negatively in the other. The caller is
// responsible for checking Tautology on the result if tautologies should be
// dropped.
func Resolve(c, other Clause, l Literal) Clause {
	merged := make([]Literal, 0, len(c.lits)+len(other.lits))
	for _, x := range c.lits {
		if x == l || x == l.Negate() {
			continue
		}
		merged = append(merged, x)
	}
	for _, x := range other.lits {
		if x == l || x == l.Negate() {
			continue
		}
		merged = append(merged, x)
	}
	return newClauseFromLiterals(merged)
}

func (c Clause) String() string {
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
