package analytics

import (
	"reflect"
	"testing"
	"time"

	"patrimonio/internal/core"
)

func centsPtr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func txn(direction core.Direction, amountCents int64) core.CashflowTransaction {
	return core.CashflowTransaction{
		Owner:       "u1",
		Description: "txn",
		AmountCents: amountCents,
		Category:    "misc",
		Direction:   direction,
		Date:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregateTotalsAndNetWorth(t *testing.T) {
	assets := []core.Asset{
		{Name: "checking", ValueCents: 300000, IsLiquid: true},
		{Name: "car", ValueCents: 700000},
	}
	liabilities := []core.Liability{
		{Name: "card", BalanceCents: 250000, MinimumPaymentCents: centsPtr(1500)},
	}
	txns := []core.CashflowTransaction{
		txn(core.Inflow, 3000),
		txn(core.Outflow, 100000),
	}

	summary, totals := Aggregate(assets, liabilities, txns, nil)

	if totals.AssetsCents != 1000000 || totals.LiquidAssetsCents != 300000 {
		t.Errorf("asset totals = %d/%d, want 1000000/300000", totals.AssetsCents, totals.LiquidAssetsCents)
	}
	if totals.LiabilitiesCents != 250000 {
		t.Errorf("liabilities = %d, want 250000", totals.LiabilitiesCents)
	}
	if totals.InflowCents != 3000 || totals.OutflowCents != 100000 {
		t.Errorf("flows = %d/%d, want 3000/100000", totals.InflowCents, totals.OutflowCents)
	}
	if totals.MonthlyBurnCents != 100000 {
		t.Errorf("monthly burn = %d, want 100000", totals.MonthlyBurnCents)
	}
	if totals.WindowDays != 30 {
		t.Errorf("window days = %d, want 30", totals.WindowDays)
	}
	if summary.NetWorthCents != 750000 {
		t.Errorf("net worth = %d, want 750000", summary.NetWorthCents)
	}
	if summary.LiquidNetCents != 50000 {
		t.Errorf("liquid net = %d, want 50000", summary.LiquidNetCents)
	}
	if summary.CashOnHandCents != 300000 {
		t.Errorf("cash on hand = %d, want 300000 (liquid assets)", summary.CashOnHandCents)
	}
}

func TestAggregateRunway(t *testing.T) {
	assets := []core.Asset{{Name: "checking", ValueCents: 300000, IsLiquid: true}}
	txns := []core.CashflowTransaction{txn(core.Outflow, 100000)}

	summary, _ := Aggregate(assets, nil, txns, nil)

	if summary.RunwayMonths == nil {
		t.Fatal("runway should be defined with positive burn")
	}
	if *summary.RunwayMonths < 2.9 || *summary.RunwayMonths > 3.1 {
		t.Errorf("runway = %v, want within [2.9, 3.1]", *summary.RunwayMonths)
	}
}

func TestAggregateZeroDenominators(t *testing.T) {
	// No outflows, no assets, no minimum payments: every ratio metric must
	// be nil rather than zero or infinite.
	summary, _ := Aggregate(nil, []core.Liability{{Name: "loan", BalanceCents: 1000}}, nil, nil)

	if summary.RunwayMonths != nil {
		t.Errorf("runway = %v, want nil with zero burn", *summary.RunwayMonths)
	}
	if summary.DSCR != nil {
		t.Errorf("dscr = %v, want nil with zero minimum payments", *summary.DSCR)
	}
	if summary.DebtUtilization != nil {
		t.Errorf("utilization = %v, want nil with zero assets", *summary.DebtUtilization)
	}
}

func TestAggregateDSCRAndUtilization(t *testing.T) {
	assets := []core.Asset{{Name: "house", ValueCents: 100000}}
	liabilities := []core.Liability{
		{Name: "card", BalanceCents: 25000, MinimumPaymentCents: centsPtr(1000)},
		{Name: "loan", BalanceCents: 0, MinimumPaymentCents: centsPtr(500)},
	}
	txns := []core.CashflowTransaction{txn(core.Inflow, 3000)}

	summary, _ := Aggregate(assets, liabilities, txns, nil)

	if summary.DSCR == nil || *summary.DSCR != 2.0 {
		t.Errorf("dscr = %v, want exactly 2.0", summary.DSCR)
	}
	if summary.DebtUtilization == nil || *summary.DebtUtilization != 0.25 {
		t.Errorf("utilization = %v, want exactly 0.25", summary.DebtUtilization)
	}
}

func TestAggregateSnapshotOverride(t *testing.T) {
	assets := []core.Asset{{Name: "checking", ValueCents: 300000, IsLiquid: true}}
	snapshot := &core.CashSnapshot{Owner: "u1", CashOnHandCents: 42000, Timestamp: time.Now()}

	summary, _ := Aggregate(assets, nil, nil, snapshot)

	if summary.CashOnHandCents != 42000 {
		t.Errorf("cash on hand = %d, want snapshot value 42000", summary.CashOnHandCents)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	assets := []core.Asset{{Name: "checking", ValueCents: 123456, IsLiquid: true}}
	liabilities := []core.Liability{{Name: "card", BalanceCents: 65432, MinimumPaymentCents: centsPtr(900)}}
	txns := []core.CashflowTransaction{txn(core.Inflow, 5000), txn(core.Outflow, 7000)}

	s1, t1 := Aggregate(assets, liabilities, txns, nil)
	s2, t2 := Aggregate(assets, liabilities, txns, nil)

	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(t1, t2) {
		t.Error("identical inputs must yield identical outputs")
	}
}
