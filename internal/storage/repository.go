// Package storage persists the financial records in SQLite. Every read is
// owner-scoped; the analytics layer never sees another owner's rows.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"patrimonio/internal/core"

	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored; RFC 3339 strings sort
// chronologically, which the since-queries rely on.
const timeFormat = time.RFC3339

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- assets ---

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a core.Asset) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (owner, name, category, value_cents, is_liquid, note, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Owner, a.Name, a.Category, a.ValueCents, boolToInt(a.IsLiquid), a.Note, timestamp(a.LastUpdated))
	if err != nil {
		return 0, fmt.Errorf("create asset: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListAssets(ctx context.Context, owner string) ([]core.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, category, value_cents, is_liquid, note, last_updated
		 FROM assets WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []core.Asset
	for rows.Next() {
		var a core.Asset
		var liquid int
		var updated string
		if err := rows.Scan(&a.ID, &a.Owner, &a.Name, &a.Category, &a.ValueCents, &liquid, &a.Note, &updated); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.IsLiquid = liquid != 0
		a.LastUpdated = parseTimestamp(updated)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, owner string, id int64) error {
	return r.deleteOwned(ctx, "assets", owner, id)
}

// --- liabilities ---

func (r *SQLiteRepository) CreateLiability(ctx context.Context, l core.Liability) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO liabilities (owner, name, category, balance_cents, apr_percent, minimum_payment_cents, note, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Owner, l.Name, l.Category, l.BalanceCents, l.APRPercent, l.MinimumPaymentCents, l.Note, timestamp(l.LastUpdated))
	if err != nil {
		return 0, fmt.Errorf("create liability: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListLiabilities(ctx context.Context, owner string) ([]core.Liability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, category, balance_cents, apr_percent, minimum_payment_cents, note, last_updated
		 FROM liabilities WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []core.Liability
	for rows.Next() {
		var l core.Liability
		var apr sql.NullFloat64
		var minPayment sql.NullInt64
		var updated string
		if err := rows.Scan(&l.ID, &l.Owner, &l.Name, &l.Category, &l.BalanceCents, &apr, &minPayment, &l.Note, &updated); err != nil {
			return nil, fmt.Errorf("scan liability: %w", err)
		}
		if apr.Valid {
			l.APRPercent = &apr.Float64
		}
		if minPayment.Valid {
			l.MinimumPaymentCents = &minPayment.Int64
		}
		l.LastUpdated = parseTimestamp(updated)
		liabilities = append(liabilities, l)
	}
	return liabilities, rows.Err()
}

func (r *SQLiteRepository) DeleteLiability(ctx context.Context, owner string, id int64) error {
	return r.deleteOwned(ctx, "liabilities", owner, id)
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.CashflowTransaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (owner, description, amount_cents, category, direction, date, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Description, t.AmountCents, t.Category, string(t.Direction), timestamp(t.Date), t.Note)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	return res.LastInsertId()
}

// ListTransactionsSince returns the owner's transactions dated on or after
// since, oldest first.
func (r *SQLiteRepository) ListTransactionsSince(ctx context.Context, owner string, since time.Time) ([]core.CashflowTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, description, amount_cents, category, direction, date, note
		 FROM transactions WHERE owner = ? AND date >= ? ORDER BY date, id`,
		owner, timestamp(since))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.CashflowTransaction
	for rows.Next() {
		var t core.CashflowTransaction
		var direction, date string
		if err := rows.Scan(&t.ID, &t.Owner, &t.Description, &t.AmountCents, &t.Category, &direction, &date, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Direction = core.Direction(direction)
		t.Date = parseTimestamp(date)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner string, id int64) error {
	return r.deleteOwned(ctx, "transactions", owner, id)
}

// SumCategoryOutflowSince totals the owner's outflow in one category on or
// after since. Zero when no rows match.
func (r *SQLiteRepository) SumCategoryOutflowSince(ctx context.Context, owner, category string, since time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM transactions
		 WHERE owner = ? AND category = ? AND direction = 'outflow' AND date >= ?`,
		owner, category, timestamp(since)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum category outflow: %w", err)
	}
	return total.Int64, nil
}

// --- cash snapshots ---

func (r *SQLiteRepository) CreateSnapshot(ctx context.Context, s core.CashSnapshot) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cash_snapshots (owner, cash_on_hand_cents, timestamp) VALUES (?, ?, ?)`,
		s.Owner, s.CashOnHandCents, timestamp(s.Timestamp))
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	return res.LastInsertId()
}

// LatestSnapshot returns the owner's most recent snapshot, or nil when the
// owner has never recorded one.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, owner string) (*core.CashSnapshot, error) {
	var s core.CashSnapshot
	var ts string
	err := r.db.QueryRowContext(ctx,
		`SELECT owner, cash_on_hand_cents, timestamp FROM cash_snapshots
		 WHERE owner = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, owner).
		Scan(&s.Owner, &s.CashOnHandCents, &ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	s.Timestamp = parseTimestamp(ts)
	return &s, nil
}

// --- budget envelopes ---

func (r *SQLiteRepository) CreateEnvelope(ctx context.Context, e core.BudgetEnvelope) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_envelopes (owner, name, category, period, target_cents, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Owner, e.Name, e.Category, string(e.Period), e.TargetCents, e.Note)
	if err != nil {
		return 0, fmt.Errorf("create envelope: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListEnvelopes(ctx context.Context, owner string) ([]core.BudgetEnvelope, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, category, period, target_cents, note
		 FROM budget_envelopes WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list envelopes: %w", err)
	}
	defer rows.Close()

	var envelopes []core.BudgetEnvelope
	for rows.Next() {
		var e core.BudgetEnvelope
		var period string
		if err := rows.Scan(&e.ID, &e.Owner, &e.Name, &e.Category, &period, &e.TargetCents, &e.Note); err != nil {
			return nil, fmt.Errorf("scan envelope: %w", err)
		}
		e.Period = core.Period(period)
		envelopes = append(envelopes, e)
	}
	return envelopes, rows.Err()
}

func (r *SQLiteRepository) DeleteEnvelope(ctx context.Context, owner string, id int64) error {
	return r.deleteOwned(ctx, "budget_envelopes", owner, id)
}

// --- helpers ---

func (r *SQLiteRepository) deleteOwned(ctx context.Context, table, owner string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE owner = ? AND id = ?", table), owner, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeFormat)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
