// Package analytics implements the finance analytics core: net-worth
// aggregation, debt payoff simulation, cashflow sensitivity projection and
// budget envelope enrichment.
//
// Every function in this package is pure. It operates on an already-fetched,
// owner-scoped snapshot of records, never mutates its inputs, and returns
// the same output for the same input. Storage access, authorization and
// transport framing are host concerns.
package analytics

import (
	"patrimonio/internal/core"
)

// WindowDays is the fixed trailing transaction window used by Aggregate.
const WindowDays = 30

// Aggregate computes the net-worth summary and raw totals for one owner.
//
// windowTxns must already be restricted to the trailing WindowDays window.
// latestSnapshot, when non-nil, overrides the computed liquid-asset total
// as cash on hand. Metrics whose denominator is zero (runway with no burn,
// DSCR with no minimum payments, utilization with no assets) come back nil.
func Aggregate(assets []core.Asset, liabilities []core.Liability, windowTxns []core.CashflowTransaction, latestSnapshot *core.CashSnapshot) (core.FinanceSummary, core.FinanceTotals) {
	var assetsCents, liquidCents int64
	for _, a := range assets {
		assetsCents += a.ValueCents
		if a.IsLiquid {
			liquidCents += a.ValueCents
		}
	}

	var liabilitiesCents, minPaymentsCents int64
	for _, l := range liabilities {
		liabilitiesCents += l.BalanceCents
		minPaymentsCents += l.MinPayment()
	}

	var inflowCents, outflowCents int64
	for _, t := range windowTxns {
		switch t.Direction {
		case core.Inflow:
			inflowCents += t.AmountCents
		case core.Outflow:
			outflowCents += t.AmountCents
		}
	}

	avgDailyBurn := float64(outflowCents) / float64(WindowDays)

	cashOnHand := liquidCents
	if latestSnapshot != nil {
		cashOnHand = latestSnapshot.CashOnHandCents
	}

	summary := core.FinanceSummary{
		NetWorthCents:   assetsCents - liabilitiesCents,
		LiquidNetCents:  liquidCents - liabilitiesCents,
		CashOnHandCents: cashOnHand,
	}
	if avgDailyBurn > 0 {
		summary.RunwayMonths = ptr(roundTo(float64(cashOnHand)/avgDailyBurn/30, 1))
	}
	if minPaymentsCents > 0 {
		summary.DSCR = ptr(roundTo(float64(inflowCents)/float64(minPaymentsCents), 2))
	}
	if assetsCents > 0 {
		summary.DebtUtilization = ptr(roundTo(float64(liabilitiesCents)/float64(assetsCents), 2))
	}

	totals := core.FinanceTotals{
		AssetsCents:       assetsCents,
		LiquidAssetsCents: liquidCents,
		LiabilitiesCents:  liabilitiesCents,
		InflowCents:       inflowCents,
		OutflowCents:      outflowCents,
		MonthlyBurnCents:  roundCents(avgDailyBurn * 30),
		WindowDays:        WindowDays,
	}

	return summary, totals
}
