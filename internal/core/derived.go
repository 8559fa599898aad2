package core

// Derived analytics outputs. None of these are persisted; every value is
// computed fresh per request. Metrics that divide by a possibly-zero
// denominator are pointers: nil means "not defined", never NaN or Inf.

type (
	FinanceSummary struct {
		NetWorthCents   int64    `json:"netWorthCents"`
		LiquidNetCents  int64    `json:"liquidNetCents"`
		CashOnHandCents int64    `json:"cashOnHandCents"`
		RunwayMonths    *float64 `json:"runwayMonths,omitempty"`
		DSCR            *float64 `json:"dscr,omitempty"`
		DebtUtilization *float64 `json:"debtUtilization,omitempty"`
	}

	FinanceTotals struct {
		AssetsCents       int64 `json:"assetsCents"`
		LiquidAssetsCents int64 `json:"liquidAssetsCents"`
		LiabilitiesCents  int64 `json:"liabilitiesCents"`
		InflowCents       int64 `json:"inflowCents"`
		OutflowCents      int64 `json:"outflowCents"`
		MonthlyBurnCents  int64 `json:"monthlyBurnCents"`
		WindowDays        int   `json:"windowDays"`
	}

	// DebtPayment is one payment applied to one liability during a
	// simulated month. Kind is "minimum" or "extra".
	DebtPayment struct {
		LiabilityID int64  `json:"liabilityId"`
		Name        string `json:"name"`
		AmountCents int64  `json:"amountCents"`
		Kind        string `json:"kind"`
	}

	// DebtBalance is one liability's remaining balance at the end of a
	// simulated month, floored at zero for display.
	DebtBalance struct {
		LiabilityID int64  `json:"liabilityId"`
		Name        string `json:"name"`
		Cents       int64  `json:"cents"`
	}

	DebtScheduleMonth struct {
		Month    int           `json:"month"`
		Payments []DebtPayment `json:"payments"`
		Balances []DebtBalance `json:"balances"`
	}

	// DebtSummary describes one liability in strategy order.
	DebtSummary struct {
		LiabilityID         int64   `json:"liabilityId"`
		Name                string  `json:"name"`
		BalanceCents        int64   `json:"balanceCents"`
		APRPercent          float64 `json:"aprPercent"`
		MinimumPaymentCents int64   `json:"minimumPaymentCents"`
	}

	DebtPayoffResult struct {
		Strategy               string              `json:"strategy"`
		TotalDebtCents         int64               `json:"totalDebtCents"`
		MonthlyPaymentCents    int64               `json:"monthlyPaymentCents"`
		MonthsToPayoff         int                 `json:"monthsToPayoff"`
		TotalInterestPaidCents int64               `json:"totalInterestPaidCents"`
		TotalPaidCents         int64               `json:"totalPaidCents"`
		Schedule               []DebtScheduleMonth `json:"schedule"`
		Debts                  []DebtSummary       `json:"debts"`
	}

	CashflowAverages struct {
		IncomeCents   int64 `json:"incomeCents"`
		ExpensesCents int64 `json:"expensesCents"`
		NetCents      int64 `json:"netCents"`
	}

	SensitivityImpact struct {
		Cents   int64    `json:"cents"`
		Percent *float64 `json:"percent,omitempty"`
	}

	MonthProjection struct {
		Month         int   `json:"month"`
		BalanceCents  int64 `json:"balanceCents"`
		IncomeCents   int64 `json:"incomeCents"`
		ExpensesCents int64 `json:"expensesCents"`
		NetCents      int64 `json:"netCents"`
		Alert         bool  `json:"alert,omitempty"`
	}

	SensitivityResult struct {
		Baseline    CashflowAverages  `json:"baseline"`
		Scenario    CashflowAverages  `json:"scenario"`
		Impact      SensitivityImpact `json:"impact"`
		Projections []MonthProjection `json:"projections"`
		Insights    []string          `json:"insights"`
	}

	BudgetActuals struct {
		ActualSpentCents int64    `json:"actualSpentCents"`
		RemainingCents   int64    `json:"remainingCents"`
		VariancePercent  *float64 `json:"variancePercent,omitempty"`
	}
)
