// Package budget decides whether a candidate expense fits under a user's
// configured spending ceiling.
package budget

// Verdict is the outcome of evaluating a candidate expense.
type Verdict struct {
	Allowed bool
	// Overage is the amount by which the cumulative spend would exceed the
	// ceiling. Zero when the expense is allowed.
	Overage float64
}

// Evaluate checks a candidate expense amount against the user's ceiling given
// the sum of their previously recorded expenses. The expense is admissible iff
// priorTotal + amount <= ceiling; otherwise the verdict carries the overage.
//
// A single-expense-exceeds-ceiling case is subsumed by the cumulative check
// since prior totals are never negative.
func Evaluate(ceiling, priorTotal, amount float64) Verdict {
	if priorTotal+amount > ceiling {
		return Verdict{Allowed: false, Overage: priorTotal + amount - ceiling}
	}
	return Verdict{Allowed: true}
}
