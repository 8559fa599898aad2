package analytics

import (
	"fmt"

	"patrimonio/internal/core"
)

// DefaultHorizonMonths is used when a sensitivity request leaves the
// horizon unset.
const DefaultHorizonMonths = 12

const (
	minChangePercent = -100
	maxChangePercent = 500

	// historyMonths is the trailing window the averages are taken over.
	historyMonths = 3
)

// SensitivityParams are the hypothetical shifts to apply. A zero
// TimeHorizonMonths means DefaultHorizonMonths.
type SensitivityParams struct {
	IncomeChangePercent  float64 `json:"incomeChangePercent"`
	ExpenseChangePercent float64 `json:"expenseChangePercent"`
	TimeHorizonMonths    int     `json:"timeHorizonMonths"`
}

// ProjectSensitivity projects the monthly cash balance forward under
// percentage shifts in income and expenses, starting from the current
// liquid cash. history must be the trailing three months of transactions.
//
// The projection walks months 0..horizon inclusive but stops early the
// first time the running balance drops to or below zero; that month's
// entry carries the alert marker. Invalid parameters are rejected as
// core.Violations before anything is computed.
func ProjectSensitivity(currentLiquidCents int64, history []core.CashflowTransaction, params SensitivityParams) (core.SensitivityResult, error) {
	horizon := params.TimeHorizonMonths
	if horizon == 0 {
		horizon = DefaultHorizonMonths
	}
	if err := validateSensitivityInput(params, horizon); err != nil {
		return core.SensitivityResult{}, err
	}

	var inflowCents, outflowCents int64
	for _, t := range history {
		switch t.Direction {
		case core.Inflow:
			inflowCents += t.AmountCents
		case core.Outflow:
			outflowCents += t.AmountCents
		}
	}

	avgIncome := float64(inflowCents) / historyMonths
	avgExpenses := float64(outflowCents) / historyMonths
	baselineNet := avgIncome - avgExpenses

	scenarioIncome := avgIncome * (1 + params.IncomeChangePercent/100)
	scenarioExpenses := avgExpenses * (1 + params.ExpenseChangePercent/100)
	scenarioNet := scenarioIncome - scenarioExpenses

	result := core.SensitivityResult{
		Baseline: core.CashflowAverages{
			IncomeCents:   roundCents(avgIncome),
			ExpensesCents: roundCents(avgExpenses),
			NetCents:      roundCents(baselineNet),
		},
		Scenario: core.CashflowAverages{
			IncomeCents:   roundCents(scenarioIncome),
			ExpensesCents: roundCents(scenarioExpenses),
			NetCents:      roundCents(scenarioNet),
		},
		Projections: make([]core.MonthProjection, 0, horizon+1),
		Insights:    []string{},
	}

	impact := scenarioNet - baselineNet
	result.Impact.Cents = roundCents(impact)
	if baselineNet != 0 {
		result.Impact.Percent = ptr(roundTo(impact/baselineNet*100, 1))
	}

	balance := float64(currentLiquidCents)
	crossedMonth := -1
	for month := 0; month <= horizon; month++ {
		entry := core.MonthProjection{
			Month:         month,
			BalanceCents:  roundCents(balance),
			IncomeCents:   roundCents(scenarioIncome),
			ExpensesCents: roundCents(scenarioExpenses),
			NetCents:      roundCents(scenarioNet),
		}
		balance += scenarioNet
		if balance <= 0 {
			entry.Alert = true
			result.Projections = append(result.Projections, entry)
			crossedMonth = month
			break
		}
		result.Projections = append(result.Projections, entry)
	}

	result.Insights = buildInsights(params, baselineNet, scenarioNet, crossedMonth)
	return result, nil
}

func validateSensitivityInput(params SensitivityParams, horizon int) error {
	var v core.Violations

	if params.IncomeChangePercent < minChangePercent || params.IncomeChangePercent > maxChangePercent {
		v = v.Add("incomeChangePercent", "must be between -100 and 500")
	}
	if params.ExpenseChangePercent < minChangePercent || params.ExpenseChangePercent > maxChangePercent {
		v = v.Add("expenseChangePercent", "must be between -100 and 500")
	}
	if horizon < 0 {
		v = v.Add("timeHorizonMonths", "must be positive")
	}

	return v.OrNil()
}

// buildInsights emits every applicable insight in a fixed order; the
// conditions are not mutually exclusive.
func buildInsights(params SensitivityParams, baselineNet, scenarioNet float64, crossedMonth int) []string {
	insights := []string{}

	if scenarioNet < 0 && baselineNet >= 0 {
		insights = append(insights, fmt.Sprintf(
			"This scenario turns your monthly cash flow negative (%s per month).",
			core.FormatCents(roundCents(scenarioNet))))
	}
	if crossedMonth >= 0 {
		insights = append(insights, fmt.Sprintf(
			"Your cash balance is projected to reach zero around month %d.", crossedMonth))
	}
	if params.IncomeChangePercent < -20 {
		insights = append(insights, fmt.Sprintf(
			"An income drop of %.0f%% would require offsetting expense cuts to stay sustainable.",
			-params.IncomeChangePercent))
	}
	if params.ExpenseChangePercent < -20 {
		insights = append(insights, fmt.Sprintf(
			"Cutting expenses by %.0f%% would meaningfully improve your monthly position.",
			-params.ExpenseChangePercent))
	}
	if scenarioNet > baselineNet*2 {
		insights = append(insights, "This scenario would dramatically improve your monthly net cash flow.")
	}

	return insights
}
