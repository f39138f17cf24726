package limits_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannsss/budgee/limits"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// EVALUATION TESTS
// =============================================================================

func TestEvaluate_NearLimit(t *testing.T) {
	// GIVEN: A 1000 ceiling with 850 spent
	// WHEN: Evaluating
	// THEN: 85% used, near-limit warning, not exceeded

	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Monthly,
		Amount:          money("1000"),
		CurrentSpending: money("850"),
	})

	assert.Equal(t, "85.00", ev.PercentageUsed.StringFixed(2))
	assert.True(t, ev.NearLimit)
	assert.False(t, ev.Exceeded)
	assert.Equal(t, "150.00", ev.Remaining.StringFixed(2))
}

func TestEvaluate_BelowThreshold(t *testing.T) {
	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Daily,
		Amount:          money("100"),
		CurrentSpending: money("79.99"),
	})

	assert.False(t, ev.NearLimit)
	assert.False(t, ev.Exceeded)
}

func TestEvaluate_ExactlyAtThreshold_IsNear(t *testing.T) {
	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Daily,
		Amount:          money("100"),
		CurrentSpending: money("80"),
	})

	assert.True(t, ev.NearLimit)
}

func TestEvaluate_Exceeded_NotAlsoNear(t *testing.T) {
	// GIVEN: Spending past the ceiling
	// THEN: Exceeded, and the near-limit flag stays off (one state at a time)

	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Weekly,
		Amount:          money("500"),
		CurrentSpending: money("500"),
	})

	assert.True(t, ev.Exceeded)
	assert.False(t, ev.NearLimit)
	assert.True(t, ev.Remaining.IsZero())
}

func TestEvaluate_PercentageCappedAt100(t *testing.T) {
	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Daily,
		Amount:          money("100"),
		CurrentSpending: money("250"),
	})

	assert.Equal(t, "100.00", ev.PercentageUsed.StringFixed(2))
	assert.True(t, ev.Exceeded)
	assert.True(t, ev.Remaining.IsZero())
}

func TestEvaluate_Disabled_AllZero(t *testing.T) {
	// A zero ceiling means the limit is off; nothing to report.
	ev := limits.Evaluate(limits.Limit{
		Type:            limits.Daily,
		Amount:          decimal.Zero,
		CurrentSpending: money("250"),
	})

	assert.False(t, ev.Exceeded)
	assert.False(t, ev.NearLimit)
	assert.True(t, ev.PercentageUsed.IsZero())
}

func TestEvaluate_Monotonic(t *testing.T) {
	// More spending never lowers the percentage.
	prev := decimal.Zero
	for _, spent := range []string{"0", "100", "400", "799", "800", "999", "1000", "1500"} {
		ev := limits.Evaluate(limits.Limit{
			Type:            limits.Monthly,
			Amount:          money("1000"),
			CurrentSpending: money(spent),
		})
		assert.True(t, ev.PercentageUsed.GreaterThanOrEqual(prev), "spent=%s", spent)
		prev = ev.PercentageUsed
	}
}

// =============================================================================
// WOULD-EXCEED PRECHECK TESTS
// =============================================================================

func TestCheckWouldExceed_ReportsExcess(t *testing.T) {
	// GIVEN: Monthly ceiling 5000 with 4800 already spent
	// WHEN: Prechecking a 300 expense
	// THEN: One violation, projected 5100, excess 100

	ls := []limits.Limit{{
		Type:            limits.Monthly,
		Amount:          money("5000"),
		CurrentSpending: money("4800"),
	}}

	violations := limits.CheckWouldExceed(ls, money("300"))

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, limits.Monthly, v.Type)
	assert.Equal(t, "5100.00", v.Projected.StringFixed(2))
	assert.Equal(t, "100.00", v.Excess.StringFixed(2))
}

func TestCheckWouldExceed_ExactlyAtCeiling_Allowed(t *testing.T) {
	// Landing exactly on the ceiling is allowed; only going past it trips.
	ls := []limits.Limit{{
		Type:            limits.Daily,
		Amount:          money("100"),
		CurrentSpending: money("60"),
	}}

	assert.Empty(t, limits.CheckWouldExceed(ls, money("40")))
	assert.Len(t, limits.CheckWouldExceed(ls, money("40.01")), 1)
}

func TestCheckWouldExceed_SkipsDisabled(t *testing.T) {
	ls := []limits.Limit{
		{Type: limits.Daily, Amount: decimal.Zero, CurrentSpending: money("9999")},
		{Type: limits.Weekly, Amount: money("50"), CurrentSpending: money("45")},
	}

	violations := limits.CheckWouldExceed(ls, money("10"))

	require.Len(t, violations, 1)
	assert.Equal(t, limits.Weekly, violations[0].Type)
}

func TestCheckWouldExceed_MultipleViolations(t *testing.T) {
	ls := []limits.Limit{
		{Type: limits.Daily, Amount: money("50"), CurrentSpending: money("45")},
		{Type: limits.Weekly, Amount: money("200"), CurrentSpending: money("100")},
		{Type: limits.Monthly, Amount: money("300"), CurrentSpending: money("295")},
	}

	violations := limits.CheckWouldExceed(ls, money("10"))

	require.Len(t, violations, 2)
}
