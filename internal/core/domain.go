package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

type (
	// Direction carries the sign of a cashflow transaction; amounts are
	// always non-negative cents.
	Direction string

	// Period is the budgeting window of an envelope.
	Period string

	Asset struct {
		ID          int64     `json:"id"`
		Owner       string    `json:"owner"`
		Name        string    `json:"name"`
		Category    string    `json:"category"`
		ValueCents  int64     `json:"valueCents"`
		IsLiquid    bool      `json:"isLiquid"`
		Note        string    `json:"note,omitempty"`
		LastUpdated time.Time `json:"lastUpdated"`
	}

	Liability struct {
		ID       int64  `json:"id"`
		Owner    string `json:"owner"`
		Name     string `json:"name"`
		Category string `json:"category"`
		// BalanceCents is the current outstanding balance, never negative.
		BalanceCents int64 `json:"balanceCents"`
		// APRPercent and MinimumPaymentCents are nil when unknown. A nil
		// value is treated as zero at the point of use so callers can still
		// tell "no obligation recorded" apart from "zero-rate obligation".
		APRPercent          *float64  `json:"aprPercent,omitempty"`
		MinimumPaymentCents *int64    `json:"minimumPaymentCents,omitempty"`
		Note                string    `json:"note,omitempty"`
		LastUpdated         time.Time `json:"lastUpdated"`
	}

	// CashflowTransaction is immutable after creation.
	CashflowTransaction struct {
		ID          int64     `json:"id"`
		Owner       string    `json:"owner"`
		Description string    `json:"description"`
		AmountCents int64     `json:"amountCents"`
		Category    string    `json:"category"`
		Direction   Direction `json:"direction"`
		Date        time.Time `json:"date"`
		Note        string    `json:"note,omitempty"`
	}

	// CashSnapshot is a manual point-in-time override of computed liquid
	// cash. The most recent snapshot wins over liquid-asset totals.
	CashSnapshot struct {
		Owner           string    `json:"owner"`
		CashOnHandCents int64     `json:"cashOnHandCents"`
		Timestamp       time.Time `json:"timestamp"`
	}

	BudgetEnvelope struct {
		ID          int64  `json:"id"`
		Owner       string `json:"owner"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Period      Period `json:"period"`
		TargetCents int64  `json:"targetCents"`
		Note        string `json:"note,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrEmptyOwner       = errors.New("empty owner")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// APR returns the annual percentage rate, treating an absent rate as zero.
func (l Liability) APR() float64 {
	if l.APRPercent == nil {
		return 0
	}
	return *l.APRPercent
}

// MinPayment returns the minimum monthly payment, treating absent as zero.
func (l Liability) MinPayment() int64 {
	if l.MinimumPaymentCents == nil {
		return 0
	}
	return *l.MinimumPaymentCents
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	if a.ValueCents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (l Liability) Validate() error {
	if strings.TrimSpace(l.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(l.Category) == "" {
		return ErrEmptyCategory
	}
	if l.BalanceCents < 0 {
		return ErrInvalidAmount
	}
	if l.APRPercent != nil && *l.APRPercent < 0 {
		return errors.New("negative APR")
	}
	if l.MinimumPaymentCents != nil && *l.MinimumPaymentCents < 0 {
		return errors.New("negative minimum payment")
	}
	return nil
}

func (t CashflowTransaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	switch t.Direction {
	case Inflow, Outflow:
	default:
		return ErrInvalidDirection
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (s CashSnapshot) Validate() error {
	if strings.TrimSpace(s.Owner) == "" {
		return ErrEmptyOwner
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp cannot be zero")
	}
	return nil
}

func (e BudgetEnvelope) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	switch e.Period {
	case Weekly, Monthly:
	default:
		return ErrInvalidPeriod
	}
	if e.TargetCents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
