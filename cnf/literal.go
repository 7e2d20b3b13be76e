// Package cnf implements the shared data model for the solver family: signed
// integer literals, deduplicated clauses, formulas, DIMACS ingest/egress, and
// unit propagation. Every engine (resolution, dp, dpll, cdcl) builds on this
// package so that a verdict from one is directly comparable to another.
package cnf

import "fmt"

// Literal is a nonzero signed integer. The variable is abs(l); the sign gives
// the polarity. Zero is reserved as the DIMACS end-of-clause sentinel and must
// never appear in an in-memory Literal.
type Literal int32

// Var returns the variable index, always positive.
func (l Literal) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// IsPositive reports whether l is an unnegated occurrence of its variable.
func (l Literal) IsPositive() bool {
	return l > 0
}

// Negate returns the complementary literal.
func (l Literal) Negate() Literal {
	return -l
}

// NewLiteral constructs a Literal from a signed, nonzero integer. It panics on
// zero, mirroring the DIMACS contract that zero is never a literal.
func NewLiteral(n int) Literal {
	if n == 0 {
		panic("cnf: zero is not a valid literal")
	}
	return Literal(n)
}

func (l Literal) String() string {
	return fmt.Sprintf("%d", int(l))
}

// TriState is a three-valued truth value used for partial assignments.
type TriState int8

const (
	Unassigned TriState = iota
	True
	False
)

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unassigned"
	}
}

// FromBool converts a concrete Boolean to a TriState.
func FromBool(b bool) TriState {
	if b {
		return True
	}
	return False
}
