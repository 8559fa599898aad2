package analytics

import (
	"errors"
	"testing"

	"patrimonio/internal/core"
)

func liab(id int64, name string, balanceCents int64, apr *float64, minPayment *int64) core.Liability {
	return core.Liability{
		ID:                  id,
		Owner:               "u1",
		Name:                name,
		Category:            "debt",
		BalanceCents:        balanceCents,
		APRPercent:          apr,
		MinimumPaymentCents: minPayment,
	}
}

func orderedNames(debts []core.DebtSummary) []string {
	names := make([]string, len(debts))
	for i, d := range debts {
		names[i] = d.Name
	}
	return names
}

func TestSimulateDebtPayoffOrdering(t *testing.T) {
	tests := []struct {
		name        string
		strategy    string
		customOrder []int64
		liabilities []core.Liability
		want        []string
	}{
		{
			name:     "snowball sorts ascending by balance",
			strategy: StrategySnowball,
			liabilities: []core.Liability{
				liab(1, "a", 500, nil, nil),
				liab(2, "b", 200, nil, nil),
				liab(3, "c", 800, nil, nil),
			},
			want: []string{"b", "a", "c"},
		},
		{
			name:     "avalanche sorts descending by APR",
			strategy: StrategyAvalanche,
			liabilities: []core.Liability{
				liab(1, "a", 500, floatPtr(5), nil),
				liab(2, "b", 200, floatPtr(20), nil),
				liab(3, "c", 800, floatPtr(12), nil),
			},
			want: []string{"b", "c", "a"},
		},
		{
			name:     "avalanche treats nil APR as zero",
			strategy: StrategyAvalanche,
			liabilities: []core.Liability{
				liab(1, "a", 500, nil, nil),
				liab(2, "b", 200, floatPtr(3), nil),
			},
			want: []string{"b", "a"},
		},
		{
			name:        "custom follows given order",
			strategy:    StrategyCustom,
			customOrder: []int64{3, 1, 2},
			liabilities: []core.Liability{
				liab(1, "a", 500, nil, nil),
				liab(2, "b", 200, nil, nil),
				liab(3, "c", 800, nil, nil),
			},
			want: []string{"c", "a", "b"},
		},
		{
			name:        "custom appends unlisted ids in stable order",
			strategy:    StrategyCustom,
			customOrder: []int64{4},
			liabilities: []core.Liability{
				liab(1, "a", 500, nil, nil),
				liab(2, "b", 200, nil, nil),
				liab(4, "d", 100, nil, nil),
			},
			want: []string{"d", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SimulateDebtPayoff(tt.liabilities, tt.strategy, 100000, tt.customOrder)
			if err != nil {
				t.Fatalf("SimulateDebtPayoff() error = %v", err)
			}
			got := orderedNames(result.Debts)
			if len(got) != len(tt.want) {
				t.Fatalf("debts = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("debts = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSimulateDebtPayoffNoLiabilities(t *testing.T) {
	result, err := SimulateDebtPayoff(nil, StrategySnowball, 50000, nil)
	if err != nil {
		t.Fatalf("SimulateDebtPayoff() error = %v", err)
	}
	if result.MonthsToPayoff != 0 {
		t.Errorf("monthsToPayoff = %d, want 0", result.MonthsToPayoff)
	}
	if result.TotalDebtCents != 0 || result.TotalInterestPaidCents != 0 || result.TotalPaidCents != 0 {
		t.Errorf("totals should be zero, got %+v", result)
	}
	if len(result.Schedule) != 0 {
		t.Errorf("schedule should be empty, got %d months", len(result.Schedule))
	}
}

func TestSimulateDebtPayoffInterestFree(t *testing.T) {
	// 1200.00 at 0% with a 100.00 budget pays off in exactly 12 months.
	liabilities := []core.Liability{liab(1, "loan", 120000, nil, nil)}

	result, err := SimulateDebtPayoff(liabilities, StrategySnowball, 10000, nil)
	if err != nil {
		t.Fatalf("SimulateDebtPayoff() error = %v", err)
	}
	if result.MonthsToPayoff != 12 {
		t.Errorf("monthsToPayoff = %d, want 12", result.MonthsToPayoff)
	}
	if result.TotalInterestPaidCents != 0 {
		t.Errorf("interest = %d, want 0", result.TotalInterestPaidCents)
	}
	if result.TotalPaidCents != 120000 {
		t.Errorf("totalPaid = %d, want 120000", result.TotalPaidCents)
	}
	if len(result.Schedule) != 12 {
		t.Fatalf("schedule months = %d, want 12", len(result.Schedule))
	}

	first := result.Schedule[0]
	if len(first.Payments) != 1 || first.Payments[0].Kind != PaymentExtra || first.Payments[0].AmountCents != 10000 {
		t.Errorf("first month payments = %+v, want one extra payment of 10000", first.Payments)
	}
	last := result.Schedule[11]
	if last.Balances[0].Cents != 0 {
		t.Errorf("final balance = %d, want 0", last.Balances[0].Cents)
	}
}

func TestSimulateDebtPayoffMinimumsBeforeExtra(t *testing.T) {
	liabilities := []core.Liability{
		liab(1, "small", 20000, nil, centsPtr(5000)),
		liab(2, "large", 80000, nil, centsPtr(5000)),
	}

	result, err := SimulateDebtPayoff(liabilities, StrategySnowball, 15000, nil)
	if err != nil {
		t.Fatalf("SimulateDebtPayoff() error = %v", err)
	}

	// Month 1: both minimums (5000 each), then 5000 extra to the snowball
	// target (the smaller balance).
	first := result.Schedule[0]
	if len(first.Payments) != 3 {
		t.Fatalf("month 1 payments = %+v, want 3 entries", first.Payments)
	}
	if first.Payments[0].Kind != PaymentMinimum || first.Payments[0].LiabilityID != 1 {
		t.Errorf("payment 1 = %+v, want minimum on small debt", first.Payments[0])
	}
	if first.Payments[1].Kind != PaymentMinimum || first.Payments[1].LiabilityID != 2 {
		t.Errorf("payment 2 = %+v, want minimum on large debt", first.Payments[1])
	}
	if first.Payments[2].Kind != PaymentExtra || first.Payments[2].LiabilityID != 1 || first.Payments[2].AmountCents != 5000 {
		t.Errorf("payment 3 = %+v, want 5000 extra on small debt", first.Payments[2])
	}

	if result.TotalPaidCents != result.TotalDebtCents+result.TotalInterestPaidCents {
		t.Errorf("totalPaid = %d, want totalDebt + interest", result.TotalPaidCents)
	}
}

func TestSimulateDebtPayoffNeverConverges(t *testing.T) {
	// Interest perpetually exceeds the payment: the cap must stop the loop
	// at exactly 600 months without an error.
	liabilities := []core.Liability{liab(1, "runaway", 1000000, floatPtr(400), centsPtr(100))}

	result, err := SimulateDebtPayoff(liabilities, StrategyAvalanche, 100, nil)
	if err != nil {
		t.Fatalf("SimulateDebtPayoff() error = %v", err)
	}
	if result.MonthsToPayoff != 600 {
		t.Errorf("monthsToPayoff = %d, want exactly 600", result.MonthsToPayoff)
	}
	if len(result.Schedule) != 60 {
		t.Errorf("schedule months = %d, want truncation at 60", len(result.Schedule))
	}
	if result.TotalInterestPaidCents <= 0 {
		t.Errorf("interest = %d, want positive", result.TotalInterestPaidCents)
	}
}

func TestSimulateDebtPayoffValidation(t *testing.T) {
	liabilities := []core.Liability{liab(1, "loan", 1000, nil, nil)}

	tests := []struct {
		name        string
		strategy    string
		payment     int64
		customOrder []int64
		wantField   string
	}{
		{"unknown strategy", "harmonica", 1000, nil, "strategy"},
		{"zero payment", StrategySnowball, 0, nil, "monthlyPaymentCents"},
		{"negative payment", StrategySnowball, -5, nil, "monthlyPaymentCents"},
		{"custom without order", StrategyCustom, 1000, nil, "customOrder"},
		{"custom with duplicates", StrategyCustom, 1000, []int64{1, 1}, "customOrder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateDebtPayoff(liabilities, tt.strategy, tt.payment, tt.customOrder)
			var violations core.Violations
			if !errors.As(err, &violations) {
				t.Fatalf("error = %v, want core.Violations", err)
			}
			found := false
			for _, violation := range violations {
				if violation.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("violations = %v, want one on field %q", violations, tt.wantField)
			}
		})
	}
}
