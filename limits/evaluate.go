package limits

import "github.com/shopspring/decimal"

// =============================================================================
// LIMIT EVALUATOR - Pure functions over (amount, current_spending)
// =============================================================================
//
// The evaluator never reads storage and never mutates a limit. A limit
// with amount <= 0 is disabled: never exceeded, never near, 0% used.
// Limits are advisory; nothing here blocks a spend.

var (
	hundred       = decimal.NewFromInt(100)
	nearThreshold = decimal.RequireFromString("0.8")
)

// Evaluation is the user-facing status derived from a limit.
type Evaluation struct {
	Type            Type
	Amount          decimal.Decimal
	CurrentSpending decimal.Decimal
	PercentageUsed  decimal.Decimal
	Remaining       decimal.Decimal
	Exceeded        bool
	NearLimit       bool
}

// Evaluate derives the status of a single limit.
func Evaluate(l Limit) Evaluation {
	ev := Evaluation{
		Type:            l.Type,
		Amount:          l.Amount,
		CurrentSpending: l.CurrentSpending,
		PercentageUsed:  decimal.Zero,
		Remaining:       decimal.Zero,
	}
	if !l.Enabled() {
		return ev
	}

	pct := l.CurrentSpending.Div(l.Amount).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	ev.PercentageUsed = pct.Round(2)

	ev.Exceeded = l.CurrentSpending.GreaterThanOrEqual(l.Amount)
	ev.NearLimit = !ev.Exceeded &&
		l.CurrentSpending.GreaterThanOrEqual(l.Amount.Mul(nearThreshold))

	if remaining := l.Amount.Sub(l.CurrentSpending); remaining.IsPositive() {
		ev.Remaining = remaining
	}
	return ev
}

// Violation describes one limit a proposed expense would push past its
// ceiling.
type Violation struct {
	Type      Type
	Ceiling   decimal.Decimal
	Current   decimal.Decimal
	Projected decimal.Decimal
	Excess    decimal.Decimal
}

// CheckWouldExceed reports, for every enabled limit, whether spending the
// proposed amount on top of the current total would cross the ceiling.
// Advisory only: it performs no mutation and is used to warn, never to
// block.
func CheckWouldExceed(ls []Limit, proposed decimal.Decimal) []Violation {
	var violations []Violation
	for _, l := range ls {
		if !l.Enabled() {
			continue
		}
		projected := l.CurrentSpending.Add(proposed)
		if projected.GreaterThan(l.Amount) {
			violations = append(violations, Violation{
				Type:      l.Type,
				Ceiling:   l.Amount,
				Current:   l.CurrentSpending,
				Projected: projected,
				Excess:    projected.Sub(l.Amount),
			})
		}
	}
	return violations
}
