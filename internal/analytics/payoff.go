package analytics

import (
	"math"
	"sort"

	"patrimonio/internal/core"
)

// Repayment strategies. The strategy decides the ordering of liabilities
// and therefore which debt receives extra payments each month.
const (
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
	StrategyCustom    = "custom"
)

const (
	// maxPayoffMonths bounds the simulation against inputs that never
	// converge, e.g. interest perpetually exceeding the payment budget.
	// Hitting the cap is not an error; the result reports the months that
	// elapsed.
	maxPayoffMonths = 600

	// scheduleMonths limits the returned schedule for output size. The
	// simulation itself always runs to payoff or the cap.
	scheduleMonths = 60

	PaymentMinimum = "minimum"
	PaymentExtra   = "extra"
)

// workingDebt is the simulator's private arena entry. Balances are kept in
// fractional cents so monthly interest accrual does not lose sub-cent
// amounts over long horizons. The caller's records are never aliased.
type workingDebt struct {
	id         int64
	name       string
	balance    float64
	apr        float64
	minPayment float64
}

// SimulateDebtPayoff runs a month-by-month amortization of all liabilities
// under the given strategy and monthly payment budget. customOrder is only
// consulted for StrategyCustom; liabilities missing from it sort after all
// listed ones, keeping their relative order.
//
// Invalid input is rejected as core.Violations before the simulation runs;
// the loop never partially executes.
func SimulateDebtPayoff(liabilities []core.Liability, strategy string, monthlyPaymentCents int64, customOrder []int64) (core.DebtPayoffResult, error) {
	if err := validatePayoffInput(strategy, monthlyPaymentCents, customOrder); err != nil {
		return core.DebtPayoffResult{}, err
	}

	ordered := orderLiabilities(liabilities, strategy, customOrder)

	result := core.DebtPayoffResult{
		Strategy:            strategy,
		MonthlyPaymentCents: monthlyPaymentCents,
		Schedule:            []core.DebtScheduleMonth{},
		Debts:               make([]core.DebtSummary, 0, len(ordered)),
	}

	debts := make([]workingDebt, 0, len(ordered))
	for _, l := range ordered {
		result.TotalDebtCents += l.BalanceCents
		result.Debts = append(result.Debts, core.DebtSummary{
			LiabilityID:         l.ID,
			Name:                l.Name,
			BalanceCents:        l.BalanceCents,
			APRPercent:          l.APR(),
			MinimumPaymentCents: l.MinPayment(),
		})
		debts = append(debts, workingDebt{
			id:         l.ID,
			name:       l.Name,
			balance:    float64(l.BalanceCents),
			apr:        l.APR(),
			minPayment: float64(l.MinPayment()),
		})
	}

	if len(debts) == 0 {
		return result, nil
	}

	budget := float64(monthlyPaymentCents)
	var totalInterest float64
	months := 0

	for months < maxPayoffMonths && anyOutstanding(debts) {
		months++

		// Interest accrual.
		for i := range debts {
			if debts[i].balance <= 0 {
				continue
			}
			interest := debts[i].balance * debts[i].apr / 100 / 12
			debts[i].balance += interest
			totalInterest += interest
		}

		var payments []core.DebtPayment

		// Minimum payments in strategy order.
		remaining := budget
		for i := range debts {
			if debts[i].balance <= 0 || remaining <= 0 {
				continue
			}
			pay := math.Min(debts[i].minPayment, math.Min(debts[i].balance, remaining))
			if pay <= 0 {
				continue
			}
			debts[i].balance -= pay
			remaining -= pay
			payments = append(payments, core.DebtPayment{
				LiabilityID: debts[i].id,
				Name:        debts[i].name,
				AmountCents: roundCents(pay),
				Kind:        PaymentMinimum,
			})
		}

		// Whatever budget is left goes to the strategy's current target:
		// the first liability in order that still carries a balance.
		if remaining > 0 {
			for i := range debts {
				if debts[i].balance <= 0 {
					continue
				}
				pay := math.Min(remaining, debts[i].balance)
				debts[i].balance -= pay
				payments = append(payments, core.DebtPayment{
					LiabilityID: debts[i].id,
					Name:        debts[i].name,
					AmountCents: roundCents(pay),
					Kind:        PaymentExtra,
				})
				break
			}
		}

		balances := make([]core.DebtBalance, len(debts))
		for i, d := range debts {
			cents := roundCents(d.balance)
			if cents < 0 {
				cents = 0
			}
			balances[i] = core.DebtBalance{LiabilityID: d.id, Name: d.name, Cents: cents}
		}
		result.Schedule = append(result.Schedule, core.DebtScheduleMonth{
			Month:    months,
			Payments: payments,
			Balances: balances,
		})
	}

	result.MonthsToPayoff = months
	result.TotalInterestPaidCents = roundCents(totalInterest)
	result.TotalPaidCents = roundCents(float64(result.TotalDebtCents) + totalInterest)
	if len(result.Schedule) > scheduleMonths {
		result.Schedule = result.Schedule[:scheduleMonths]
	}

	return result, nil
}

func validatePayoffInput(strategy string, monthlyPaymentCents int64, customOrder []int64) error {
	var v core.Violations

	switch strategy {
	case StrategySnowball, StrategyAvalanche, StrategyCustom:
	default:
		v = v.Add("strategy", "must be one of snowball, avalanche, custom")
	}

	if monthlyPaymentCents <= 0 {
		v = v.Add("monthlyPaymentCents", "must be positive")
	}

	if strategy == StrategyCustom {
		if len(customOrder) == 0 {
			v = v.Add("customOrder", "required for custom strategy")
		}
		seen := make(map[int64]bool, len(customOrder))
		for _, id := range customOrder {
			if seen[id] {
				v = v.Add("customOrder", "contains duplicate liability ids")
				break
			}
			seen[id] = true
		}
	}

	return v.OrNil()
}

// orderLiabilities returns a sorted copy; the input slice is left alone.
// Liabilities absent from a custom order all share the same rank past the
// end of the list, and the stable sort keeps their relative order.
func orderLiabilities(liabilities []core.Liability, strategy string, customOrder []int64) []core.Liability {
	ordered := make([]core.Liability, len(liabilities))
	copy(ordered, liabilities)

	switch strategy {
	case StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].BalanceCents < ordered[j].BalanceCents
		})
	case StrategyAvalanche:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].APR() > ordered[j].APR()
		})
	case StrategyCustom:
		rank := make(map[int64]int, len(customOrder))
		for pos, id := range customOrder {
			rank[id] = pos
		}
		unlisted := len(customOrder)
		position := func(l core.Liability) int {
			if pos, ok := rank[l.ID]; ok {
				return pos
			}
			return unlisted
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return position(ordered[i]) < position(ordered[j])
		})
	}

	return ordered
}

func anyOutstanding(debts []workingDebt) bool {
	for _, d := range debts {
		if d.balance > 0 {
			return true
		}
	}
	return false
}
