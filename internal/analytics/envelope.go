package analytics

import (
	"time"

	"patrimonio/internal/core"
)

// PeriodStart returns the first instant of the envelope period containing
// now: midnight on the first of the month, or midnight on Monday of the
// current ISO week. Unknown periods fall back to monthly.
func PeriodStart(period core.Period, now time.Time) time.Time {
	switch period {
	case core.Weekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday belongs to the week that started 6 days ago
		}
		monday := now.AddDate(0, 0, -(weekday - 1))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// EnrichEnvelope computes period-to-date actuals against the envelope's
// target. actualSpentCents is the sum of outflow transactions in the
// envelope's category since PeriodStart. Remaining may be negative when
// overspent; the variance is nil when the target is zero.
func EnrichEnvelope(envelope core.BudgetEnvelope, actualSpentCents int64) core.BudgetActuals {
	actuals := core.BudgetActuals{
		ActualSpentCents: actualSpentCents,
		RemainingCents:   envelope.TargetCents - actualSpentCents,
	}
	if envelope.TargetCents != 0 {
		variance := float64(actualSpentCents-envelope.TargetCents) / float64(envelope.TargetCents)
		actuals.VariancePercent = ptr(roundTo(variance, 2))
	}
	return actuals
}
