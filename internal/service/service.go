package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"payout-ledger-backend/internal/domain"
)

type LedgerService interface {
	// GetOrCreateScheduledLedger returns the open scheduled ledger covering
	// routingKey, creating the ledger/scheduled-ledger pair for the period
	// when none exists. Concurrent creation for the same period resolves to
	// one winner through the uniqueness constraint.
	GetOrCreateScheduledLedger(ctx context.Context, paymentAccountID string, currency domain.Currency, interval domain.ScheduledLedgerInterval, routingKey time.Time) (*domain.ScheduledLedger, error)
	GetOpenScheduledLedgerForPeriod(ctx context.Context, paymentAccountID string, routingKey time.Time, interval domain.ScheduledLedgerInterval) (*domain.ScheduledLedger, error)
	GetOpenScheduledLedgerForAccount(ctx context.Context, paymentAccountID string) (*domain.ScheduledLedger, error)
	// ProcessLedger transitions the ledger to PROCESSING and closes its
	// scheduled period, atomically and under the account lock.
	ProcessLedger(ctx context.Context, ledgerID uuid.UUID) (*domain.Ledger, error)
}

// CreateTransferRequest drives both the scheduled (weekly) and the manual
// transfer-creation paths. Eligibility gating and the payout-country filter
// apply only to the scheduled path.
type CreateTransferRequest struct {
	PayoutAccountID  int64
	TransferType     domain.TransferType
	StartTime        *time.Time // nil omits the lower bound
	EndTime          time.Time
	TargetID         *int64
	TargetType       domain.PayoutTargetType
	TargetBusinessID *int64
	PayoutCountries  []string
}

type TransferService interface {
	// CreateTransfer aggregates the account's unpaid transactions in the
	// window into one transfer. A nil transfer with no error is a legitimate
	// "nothing to pay" or "payout skipped" outcome.
	CreateTransfer(ctx context.Context, req CreateTransferRequest) (*domain.Transfer, []int64, error)
	// DetermineTransferStatus derives the transfer's status from its latest
	// gateway submission; NEW when it was never submitted.
	DetermineTransferStatus(ctx context.Context, transfer *domain.Transfer) (domain.TransferStatus, error)
	// SubmitTransfer pushes a NEW or PENDING transfer through the gateway and
	// records the submission.
	SubmitTransfer(ctx context.Context, transferID int64) (*domain.Transfer, error)
}

type EligibilityService interface {
	// ShouldAutoPayWeekly decides whether an automatic weekly transfer may be
	// created for the account.
	ShouldAutoPayWeekly(ctx context.Context, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool
	// ShouldBlockPayout is the fraud gate on recent bank-information changes.
	// Internal failures never block a payout (fail-open, logged).
	ShouldBlockPayout(ctx context.Context, payoutTime time.Time, paymentAccountID int64, targetType domain.PayoutTargetType, targetID, targetBusinessID *int64) bool
}

type AlertService interface {
	// SendOpsAlert notifies the payments operators about a condition that
	// needs manual attention (data inconsistency, failed job).
	SendOpsAlert(ctx context.Context, subject, message string) error
}
