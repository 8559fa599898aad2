// Command seed populates the database with a demo portfolio so the API
// has something to chew on during local development.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"patrimonio/internal/cli"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/services"
)

func main() {
	owner := flag.String("owner", "demo", "owner to seed records for")
	flag.Parse()

	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	repo := cli.OpenStorage(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	service := services.NewFinanceService(repo, nil)
	ctx := context.Background()
	now := time.Now()

	apr := func(v float64) *float64 { return &v }
	minPay := func(v int64) *int64 { return &v }

	assets := []core.Asset{
		{Owner: *owner, Name: "checking account", Category: "cash", ValueCents: 420000, IsLiquid: true},
		{Owner: *owner, Name: "savings account", Category: "cash", ValueCents: 1250000, IsLiquid: true},
		{Owner: *owner, Name: "index fund", Category: "investments", ValueCents: 2800000},
		{Owner: *owner, Name: "car", Category: "vehicles", ValueCents: 900000, Note: "resale estimate"},
	}
	for _, a := range assets {
		if _, err := service.CreateAsset(ctx, a); err != nil {
			logger.Error("seed asset failed", applog.FieldError, err, "name", a.Name)
			os.Exit(1)
		}
	}

	liabilities := []core.Liability{
		{Owner: *owner, Name: "credit card", Category: "revolving", BalanceCents: 180000, APRPercent: apr(22.5), MinimumPaymentCents: minPay(5000)},
		{Owner: *owner, Name: "car loan", Category: "installment", BalanceCents: 650000, APRPercent: apr(6.9), MinimumPaymentCents: minPay(21000)},
		{Owner: *owner, Name: "student loan", Category: "installment", BalanceCents: 1100000, APRPercent: apr(4.2), MinimumPaymentCents: minPay(15000)},
	}
	for _, l := range liabilities {
		if _, err := service.CreateLiability(ctx, l); err != nil {
			logger.Error("seed liability failed", applog.FieldError, err, "name", l.Name)
			os.Exit(1)
		}
	}

	type seedTxn struct {
		desc      string
		cents     int64
		category  string
		direction core.Direction
		daysAgo   int
	}
	txns := []seedTxn{
		{"salary", 320000, "income", core.Inflow, 2},
		{"salary", 320000, "income", core.Inflow, 32},
		{"salary", 320000, "income", core.Inflow, 62},
		{"rent", 120000, "housing", core.Outflow, 3},
		{"rent", 120000, "housing", core.Outflow, 33},
		{"rent", 120000, "housing", core.Outflow, 63},
		{"groceries", 42000, "food", core.Outflow, 5},
		{"groceries", 38500, "food", core.Outflow, 12},
		{"groceries", 45100, "food", core.Outflow, 19},
		{"restaurant", 8700, "food", core.Outflow, 8},
		{"fuel", 9500, "transport", core.Outflow, 10},
		{"streaming", 1500, "subscriptions", core.Outflow, 15},
		{"gym", 4500, "subscriptions", core.Outflow, 20},
	}
	for _, tx := range txns {
		record := core.CashflowTransaction{
			Owner:       *owner,
			Description: tx.desc,
			AmountCents: tx.cents,
			Category:    tx.category,
			Direction:   tx.direction,
			Date:        now.AddDate(0, 0, -tx.daysAgo),
		}
		if _, err := service.CreateTransaction(ctx, record); err != nil {
			logger.Error("seed transaction failed", applog.FieldError, err, "description", tx.desc)
			os.Exit(1)
		}
	}

	envelopes := []core.BudgetEnvelope{
		{Owner: *owner, Name: "food", Category: "food", Period: core.Monthly, TargetCents: 110000},
		{Owner: *owner, Name: "transport", Category: "transport", Period: core.Monthly, TargetCents: 20000},
		{Owner: *owner, Name: "subscriptions", Category: "subscriptions", Period: core.Monthly, TargetCents: 8000},
		{Owner: *owner, Name: "eating out", Category: "restaurants", Period: core.Weekly, TargetCents: 10000},
	}
	for _, e := range envelopes {
		if _, err := service.CreateEnvelope(ctx, e); err != nil {
			logger.Error("seed envelope failed", applog.FieldError, err, "name", e.Name)
			os.Exit(1)
		}
	}

	if _, err := service.CreateSnapshot(ctx, core.CashSnapshot{
		Owner:           *owner,
		CashOnHandCents: 1670000,
		Timestamp:       now,
	}); err != nil {
		logger.Error("seed snapshot failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("seed complete", applog.FieldOwner, *owner, "db", cfg.SQLiteDBPath)
}
