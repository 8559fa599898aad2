package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"patrimonio/internal/amqp"
	"patrimonio/internal/analytics"
	"patrimonio/internal/core"
)

type fakeStore struct {
	assets      []core.Asset
	liabilities []core.Liability
	txns        []core.CashflowTransaction
	snapshot    *core.CashSnapshot
	envelopes   []core.BudgetEnvelope

	categorySums map[string]int64

	txnsSince time.Time
	sumSince  time.Time
	created   []string
}

func (f *fakeStore) CreateAsset(ctx context.Context, a core.Asset) (int64, error) {
	f.created = append(f.created, "asset")
	return 1, nil
}

func (f *fakeStore) ListAssets(ctx context.Context, owner string) ([]core.Asset, error) {
	return f.assets, nil
}

func (f *fakeStore) DeleteAsset(ctx context.Context, owner string, id int64) error { return nil }

func (f *fakeStore) CreateLiability(ctx context.Context, l core.Liability) (int64, error) {
	f.created = append(f.created, "liability")
	return 1, nil
}

func (f *fakeStore) ListLiabilities(ctx context.Context, owner string) ([]core.Liability, error) {
	return f.liabilities, nil
}

func (f *fakeStore) DeleteLiability(ctx context.Context, owner string, id int64) error { return nil }

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.CashflowTransaction) (int64, error) {
	f.created = append(f.created, "transaction")
	return 1, nil
}

func (f *fakeStore) ListTransactionsSince(ctx context.Context, owner string, since time.Time) ([]core.CashflowTransaction, error) {
	f.txnsSince = since
	return f.txns, nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, owner string, id int64) error { return nil }

func (f *fakeStore) SumCategoryOutflowSince(ctx context.Context, owner, category string, since time.Time) (int64, error) {
	f.sumSince = since
	return f.categorySums[category], nil
}

func (f *fakeStore) CreateSnapshot(ctx context.Context, s core.CashSnapshot) (int64, error) {
	f.created = append(f.created, "snapshot")
	return 1, nil
}

func (f *fakeStore) LatestSnapshot(ctx context.Context, owner string) (*core.CashSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeStore) CreateEnvelope(ctx context.Context, e core.BudgetEnvelope) (int64, error) {
	f.created = append(f.created, "envelope")
	return 1, nil
}

func (f *fakeStore) ListEnvelopes(ctx context.Context, owner string) ([]core.BudgetEnvelope, error) {
	return f.envelopes, nil
}

func (f *fakeStore) DeleteEnvelope(ctx context.Context, owner string, id int64) error { return nil }

type fakePublisher struct {
	published []*amqp.AlertMessage
	err       error
}

func (f *fakePublisher) PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func newTestService(store *fakeStore, alerts AlertPublisher, now time.Time) *FinanceService {
	svc := NewFinanceService(store, alerts)
	svc.now = func() time.Time { return now }
	return svc
}

func centsPtr(v int64) *int64 { return &v }

func TestSummaryReadsTrailingWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		assets: []core.Asset{{Owner: "u1", Name: "checking", ValueCents: 300000, IsLiquid: true}},
		txns: []core.CashflowTransaction{{
			Owner: "u1", Description: "rent", AmountCents: 100000,
			Category: "housing", Direction: core.Outflow, Date: now.AddDate(0, 0, -5),
		}},
	}
	svc := newTestService(store, nil, now)

	report, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	wantSince := now.AddDate(0, 0, -30)
	if !store.txnsSince.Equal(wantSince) {
		t.Errorf("transactions read since %v, want %v", store.txnsSince, wantSince)
	}
	if report.Totals.OutflowCents != 100000 {
		t.Errorf("outflow = %d, want 100000", report.Totals.OutflowCents)
	}
	if report.Summary.RunwayMonths == nil {
		t.Error("runway should be defined")
	}
}

func TestDebtPayoffPassesThroughViolations(t *testing.T) {
	store := &fakeStore{liabilities: []core.Liability{{ID: 1, Owner: "u1", Name: "card", Category: "debt", BalanceCents: 1000}}}
	svc := newTestService(store, nil, time.Now())

	_, err := svc.DebtPayoff(context.Background(), "u1", "harmonica", 0, nil)
	var violations core.Violations
	if !errors.As(err, &violations) {
		t.Fatalf("error = %v, want core.Violations", err)
	}
	if len(violations) != 2 {
		t.Errorf("violations = %v, want strategy and payment entries", violations)
	}
}

func TestSensitivityPublishesZeroCrossingAlert(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	var txns []core.CashflowTransaction
	for i := 0; i < 3; i++ {
		txns = append(txns, core.CashflowTransaction{
			Owner: "u1", Description: "salary", AmountCents: 300000,
			Category: "income", Direction: core.Inflow, Date: now.AddDate(0, -i, 0),
		})
		txns = append(txns, core.CashflowTransaction{
			Owner: "u1", Description: "living", AmountCents: 200000,
			Category: "living", Direction: core.Outflow, Date: now.AddDate(0, -i, 0),
		})
	}
	store := &fakeStore{
		assets: []core.Asset{{Owner: "u1", Name: "checking", ValueCents: 120000, IsLiquid: true}},
		txns:   txns,
	}
	alerts := &fakePublisher{}
	svc := newTestService(store, alerts, now)

	result, err := svc.Sensitivity(context.Background(), "u1", analytics.SensitivityParams{
		IncomeChangePercent: -50,
		TimeHorizonMonths:   12,
	})
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if !result.Projections[len(result.Projections)-1].Alert {
		t.Fatal("expected the projection to flag a zero crossing")
	}
	if len(alerts.published) != 1 {
		t.Fatalf("published alerts = %d, want 1", len(alerts.published))
	}
	if alerts.published[0].Kind != amqp.AlertCashflowZeroCrossing {
		t.Errorf("alert kind = %s, want %s", alerts.published[0].Kind, amqp.AlertCashflowZeroCrossing)
	}
}

func TestSensitivityUsesSnapshotOverride(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		assets:   []core.Asset{{Owner: "u1", Name: "checking", ValueCents: 1, IsLiquid: true}},
		snapshot: &core.CashSnapshot{Owner: "u1", CashOnHandCents: 500000, Timestamp: now},
	}
	svc := newTestService(store, nil, now)

	result, err := svc.Sensitivity(context.Background(), "u1", analytics.SensitivityParams{TimeHorizonMonths: 1})
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if result.Projections[0].BalanceCents != 500000 {
		t.Errorf("seed balance = %d, want snapshot value 500000", result.Projections[0].BalanceCents)
	}
}

func TestSensitivityPublishFailureDoesNotFailRequest(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		assets: []core.Asset{{Owner: "u1", Name: "checking", ValueCents: 100, IsLiquid: true}},
		txns: []core.CashflowTransaction{{
			Owner: "u1", Description: "living", AmountCents: 300000,
			Category: "living", Direction: core.Outflow, Date: now,
		}},
	}
	alerts := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(store, alerts, now)

	if _, err := svc.Sensitivity(context.Background(), "u1", analytics.SensitivityParams{TimeHorizonMonths: 2}); err != nil {
		t.Fatalf("Sensitivity() error = %v, publish failure must not fail the request", err)
	}
}

func TestEnvelopeReport(t *testing.T) {
	now := time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC)
	store := &fakeStore{
		envelopes: []core.BudgetEnvelope{
			{ID: 1, Owner: "u1", Name: "food", Category: "food", Period: core.Monthly, TargetCents: 50000},
			{ID: 2, Owner: "u1", Name: "fun", Category: "fun", Period: core.Monthly, TargetCents: 20000},
		},
		categorySums: map[string]int64{"food": 60000, "fun": 5000},
	}
	alerts := &fakePublisher{}
	svc := newTestService(store, alerts, now)

	statuses, err := svc.EnvelopeReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("EnvelopeReport() error = %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}

	wantStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !statuses[0].PeriodStart.Equal(wantStart) {
		t.Errorf("period start = %v, want %v", statuses[0].PeriodStart, wantStart)
	}
	if statuses[0].Actuals.RemainingCents != -10000 {
		t.Errorf("food remaining = %d, want -10000", statuses[0].Actuals.RemainingCents)
	}
	if statuses[1].Actuals.RemainingCents != 15000 {
		t.Errorf("fun remaining = %d, want 15000", statuses[1].Actuals.RemainingCents)
	}

	// Only the overspent envelope alerts.
	if len(alerts.published) != 1 {
		t.Fatalf("published alerts = %d, want 1", len(alerts.published))
	}
	if alerts.published[0].Kind != amqp.AlertEnvelopeOverspend {
		t.Errorf("alert kind = %s, want %s", alerts.published[0].Kind, amqp.AlertEnvelopeOverspend)
	}
}

func TestCreateRecordsValidateFirst(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil, time.Now())
	ctx := context.Background()

	if _, err := svc.CreateAsset(ctx, core.Asset{Owner: "", Name: "x", Category: "c"}); err == nil {
		t.Error("asset without owner should be rejected")
	}
	if _, err := svc.CreateTransaction(ctx, core.CashflowTransaction{Owner: "u1"}); err == nil {
		t.Error("incomplete transaction should be rejected")
	}
	if _, err := svc.CreateEnvelope(ctx, core.BudgetEnvelope{Owner: "u1", Name: "x", Category: "c", Period: "daily"}); err == nil {
		t.Error("envelope with unsupported period should be rejected")
	}
	if len(store.created) != 0 {
		t.Errorf("store writes = %v, want none on validation failure", store.created)
	}

	valid := core.Liability{Owner: "u1", Name: "card", Category: "debt", BalanceCents: 100, MinimumPaymentCents: centsPtr(10)}
	if _, err := svc.CreateLiability(ctx, valid); err != nil {
		t.Errorf("valid liability rejected: %v", err)
	}
	if len(store.created) != 1 {
		t.Errorf("store writes = %v, want the valid liability only", store.created)
	}
}
