package domain

import (
	"time"

	"github.com/google/uuid"
)

type LedgerType string

const (
	LedgerTypeManual       LedgerType = "MANUAL"
	LedgerTypeMicroDeposit LedgerType = "MICRO_DEPOSIT"
	LedgerTypeScheduled    LedgerType = "SCHEDULED"
)

type LedgerState string

const (
	LedgerStateOpen       LedgerState = "OPEN"
	LedgerStateProcessing LedgerState = "PROCESSING"
	LedgerStatePaid       LedgerState = "PAID"
	LedgerStateFailed     LedgerState = "FAILED"
	LedgerStateRolledBack LedgerState = "ROLLED_BACK"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// Ledger accumulates a payment account's not-yet-paid-out balance in minor
// currency units. An account has at most one OPEN ledger at a time.
type Ledger struct {
	ID               uuid.UUID   `json:"id"`
	Type             LedgerType  `json:"type"`
	Currency         Currency    `json:"currency"`
	State            LedgerState `json:"state"`
	Balance          int64       `json:"balance"` // minor units, may be negative
	PaymentAccountID string      `json:"payment_account_id"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type ScheduledLedgerInterval string

const (
	ScheduledLedgerIntervalDaily  ScheduledLedgerInterval = "DAILY"
	ScheduledLedgerIntervalWeekly ScheduledLedgerInterval = "WEEKLY"
)

// ScheduledLedger is the time-boxed period (half-open, start inclusive) that
// batches one ledger's transactions. ClosedAt == 0 means the period is open;
// it is set exactly once, when the associated ledger is processed.
type ScheduledLedger struct {
	ID               uuid.UUID               `json:"id"`
	PaymentAccountID string                  `json:"payment_account_id"`
	LedgerID         uuid.UUID               `json:"ledger_id"`
	IntervalType     ScheduledLedgerInterval `json:"interval_type"`
	StartTime        time.Time               `json:"start_time"`
	EndTime          time.Time               `json:"end_time"`
	ClosedAt         int64                   `json:"closed_at"` // epoch micros, 0 = open
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// Open reports whether the scheduled period has not been closed yet.
func (s *ScheduledLedger) Open() bool {
	return s.ClosedAt == 0
}
