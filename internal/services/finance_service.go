// Package services orchestrates storage reads, the pure analytics core and
// alert publishing into the operations the HTTP layer exposes.
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"patrimonio/internal/amqp"
	"patrimonio/internal/analytics"
	"patrimonio/internal/core"
	"patrimonio/internal/log"
)

// Store is the owner-scoped record store the service reads and writes.
// *storage.SQLiteRepository satisfies it.
type Store interface {
	CreateAsset(ctx context.Context, a core.Asset) (int64, error)
	ListAssets(ctx context.Context, owner string) ([]core.Asset, error)
	DeleteAsset(ctx context.Context, owner string, id int64) error

	CreateLiability(ctx context.Context, l core.Liability) (int64, error)
	ListLiabilities(ctx context.Context, owner string) ([]core.Liability, error)
	DeleteLiability(ctx context.Context, owner string, id int64) error

	CreateTransaction(ctx context.Context, t core.CashflowTransaction) (int64, error)
	ListTransactionsSince(ctx context.Context, owner string, since time.Time) ([]core.CashflowTransaction, error)
	DeleteTransaction(ctx context.Context, owner string, id int64) error
	SumCategoryOutflowSince(ctx context.Context, owner, category string, since time.Time) (int64, error)

	CreateSnapshot(ctx context.Context, s core.CashSnapshot) (int64, error)
	LatestSnapshot(ctx context.Context, owner string) (*core.CashSnapshot, error)

	CreateEnvelope(ctx context.Context, e core.BudgetEnvelope) (int64, error)
	ListEnvelopes(ctx context.Context, owner string) ([]core.BudgetEnvelope, error)
	DeleteEnvelope(ctx context.Context, owner string, id int64) error
}

// AlertPublisher pushes analytics alerts to the queue. Nil-able; the
// service degrades to computing without alerting.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// SummaryReport bundles the aggregation engine's two outputs.
type SummaryReport struct {
	Summary core.FinanceSummary `json:"summary"`
	Totals  core.FinanceTotals  `json:"totals"`
}

// EnvelopeStatus is one envelope enriched with period-to-date actuals.
type EnvelopeStatus struct {
	Envelope    core.BudgetEnvelope `json:"envelope"`
	PeriodStart time.Time           `json:"periodStart"`
	Actuals     core.BudgetActuals  `json:"actuals"`
}

// FinanceService exposes the analytics operations over an owner's records.
type FinanceService struct {
	store  Store
	alerts AlertPublisher

	// now is swapped out in tests.
	now func() time.Time
}

func NewFinanceService(store Store, alerts AlertPublisher) *FinanceService {
	return &FinanceService{
		store:  store,
		alerts: alerts,
		now:    time.Now,
	}
}

// Summary computes the owner's net-worth summary. The four reads are
// independent and issued concurrently; they only need to reflect the same
// logical point in time, which a single snapshot-per-request satisfies.
func (s *FinanceService) Summary(ctx context.Context, owner string) (SummaryReport, error) {
	since := s.now().AddDate(0, 0, -analytics.WindowDays)

	var (
		assets      []core.Asset
		liabilities []core.Liability
		txns        []core.CashflowTransaction
		snapshot    *core.CashSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		assets, err = s.store.ListAssets(gctx, owner)
		return err
	})
	g.Go(func() (err error) {
		liabilities, err = s.store.ListLiabilities(gctx, owner)
		return err
	})
	g.Go(func() (err error) {
		txns, err = s.store.ListTransactionsSince(gctx, owner, since)
		return err
	})
	g.Go(func() (err error) {
		snapshot, err = s.store.LatestSnapshot(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return SummaryReport{}, fmt.Errorf("read records: %w", err)
	}

	summary, totals := analytics.Aggregate(assets, liabilities, txns, snapshot)
	return SummaryReport{Summary: summary, Totals: totals}, nil
}

// DebtPayoff simulates repayment of the owner's liabilities. Validation
// errors from the simulator (core.Violations) pass through untouched.
func (s *FinanceService) DebtPayoff(ctx context.Context, owner, strategy string, monthlyPaymentCents int64, customOrder []int64) (core.DebtPayoffResult, error) {
	liabilities, err := s.store.ListLiabilities(ctx, owner)
	if err != nil {
		return core.DebtPayoffResult{}, fmt.Errorf("read liabilities: %w", err)
	}
	return analytics.SimulateDebtPayoff(liabilities, strategy, monthlyPaymentCents, customOrder)
}

// Sensitivity projects the owner's cash balance under hypothetical income
// and expense shifts. A projected zero-crossing publishes a cashflow alert;
// publish failures are logged and never fail the request.
func (s *FinanceService) Sensitivity(ctx context.Context, owner string, params analytics.SensitivityParams) (core.SensitivityResult, error) {
	now := s.now()
	historySince := now.AddDate(0, -3, 0)

	var (
		assets   []core.Asset
		history  []core.CashflowTransaction
		snapshot *core.CashSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		assets, err = s.store.ListAssets(gctx, owner)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.store.ListTransactionsSince(gctx, owner, historySince)
		return err
	})
	g.Go(func() (err error) {
		snapshot, err = s.store.LatestSnapshot(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.SensitivityResult{}, fmt.Errorf("read records: %w", err)
	}

	// Same cash-on-hand rule as the aggregation engine: a snapshot
	// overrides the computed liquid total.
	var liquidCents int64
	for _, a := range assets {
		if a.IsLiquid {
			liquidCents += a.ValueCents
		}
	}
	if snapshot != nil {
		liquidCents = snapshot.CashOnHandCents
	}

	result, err := analytics.ProjectSensitivity(liquidCents, history, params)
	if err != nil {
		return core.SensitivityResult{}, err
	}

	if len(result.Projections) > 0 {
		last := result.Projections[len(result.Projections)-1]
		if last.Alert {
			s.publishAlert(ctx, amqp.NewAlertMessage(
				amqp.AlertCashflowZeroCrossing,
				owner,
				"projected cash balance reaches zero",
				last.BalanceCents,
				last.Month,
			))
		}
	}

	return result, nil
}

// EnvelopeReport enriches every envelope of the owner with period-to-date
// spend. Overspent envelopes publish a budget alert.
func (s *FinanceService) EnvelopeReport(ctx context.Context, owner string) ([]EnvelopeStatus, error) {
	envelopes, err := s.store.ListEnvelopes(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("read envelopes: %w", err)
	}

	now := s.now()
	statuses := make([]EnvelopeStatus, 0, len(envelopes))
	for _, envelope := range envelopes {
		periodStart := analytics.PeriodStart(envelope.Period, now)
		spent, err := s.store.SumCategoryOutflowSince(ctx, owner, envelope.Category, periodStart)
		if err != nil {
			return nil, fmt.Errorf("sum spend for envelope %q: %w", envelope.Name, err)
		}
		actuals := analytics.EnrichEnvelope(envelope, spent)
		statuses = append(statuses, EnvelopeStatus{
			Envelope:    envelope,
			PeriodStart: periodStart,
			Actuals:     actuals,
		})

		if actuals.RemainingCents < 0 {
			s.publishAlert(ctx, amqp.NewAlertMessage(
				amqp.AlertEnvelopeOverspend,
				owner,
				fmt.Sprintf("envelope %q overspent by %s", envelope.Name, core.FormatCents(-actuals.RemainingCents)),
				actuals.RemainingCents,
				0,
			))
		}
	}

	return statuses, nil
}

// publishAlert is fire-and-forget: alerting is advisory and must never
// fail the computation that triggered it.
func (s *FinanceService) publishAlert(ctx context.Context, msg *amqp.AlertMessage) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.PublishAlert(ctx, msg); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentService).ErrorContext(ctx, "Failed to publish alert",
			log.FieldError, err,
			log.FieldAlertKind, msg.Kind,
			log.FieldOwner, msg.Owner)
	}
}

// --- record CRUD passthroughs ---

func (s *FinanceService) CreateAsset(ctx context.Context, a core.Asset) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, core.Violations{{Field: "asset", Message: err.Error()}}
	}
	return s.store.CreateAsset(ctx, a)
}

func (s *FinanceService) ListAssets(ctx context.Context, owner string) ([]core.Asset, error) {
	return s.store.ListAssets(ctx, owner)
}

func (s *FinanceService) DeleteAsset(ctx context.Context, owner string, id int64) error {
	return s.store.DeleteAsset(ctx, owner, id)
}

func (s *FinanceService) CreateLiability(ctx context.Context, l core.Liability) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, core.Violations{{Field: "liability", Message: err.Error()}}
	}
	return s.store.CreateLiability(ctx, l)
}

func (s *FinanceService) ListLiabilities(ctx context.Context, owner string) ([]core.Liability, error) {
	return s.store.ListLiabilities(ctx, owner)
}

func (s *FinanceService) DeleteLiability(ctx context.Context, owner string, id int64) error {
	return s.store.DeleteLiability(ctx, owner, id)
}

func (s *FinanceService) CreateTransaction(ctx context.Context, t core.CashflowTransaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, core.Violations{{Field: "transaction", Message: err.Error()}}
	}
	return s.store.CreateTransaction(ctx, t)
}

func (s *FinanceService) ListTransactions(ctx context.Context, owner string, since time.Time) ([]core.CashflowTransaction, error) {
	return s.store.ListTransactionsSince(ctx, owner, since)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, owner string, id int64) error {
	return s.store.DeleteTransaction(ctx, owner, id)
}

func (s *FinanceService) CreateSnapshot(ctx context.Context, snap core.CashSnapshot) (int64, error) {
	if err := snap.Validate(); err != nil {
		return 0, core.Violations{{Field: "snapshot", Message: err.Error()}}
	}
	return s.store.CreateSnapshot(ctx, snap)
}

// LatestSnapshot returns the owner's most recent cash snapshot, or nil
// when none was ever recorded.
func (s *FinanceService) LatestSnapshot(ctx context.Context, owner string) (*core.CashSnapshot, error) {
	return s.store.LatestSnapshot(ctx, owner)
}

func (s *FinanceService) CreateEnvelope(ctx context.Context, e core.BudgetEnvelope) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, core.Violations{{Field: "envelope", Message: err.Error()}}
	}
	return s.store.CreateEnvelope(ctx, e)
}

func (s *FinanceService) ListEnvelopes(ctx context.Context, owner string) ([]core.BudgetEnvelope, error) {
	return s.store.ListEnvelopes(ctx, owner)
}

func (s *FinanceService) DeleteEnvelope(ctx context.Context, owner string, id int64) error {
	return s.store.DeleteEnvelope(ctx, owner, id)
}
