package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"payout-ledger-backend/internal/domain"
)

type LedgerRepository interface {
	Insert(ctx context.Context, ledger *domain.Ledger) (*domain.Ledger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ledger, error)
	// GetOpenForAccount returns the account's OPEN ledger, or nil when the
	// account has none.
	GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.Ledger, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) (*domain.Ledger, error)
	// ProcessAndCloseScheduledLedger transitions the ledger to PROCESSING and,
	// in the same database transaction, closes its scheduled ledger if that
	// period is still open. Already-closed periods are left untouched.
	ProcessAndCloseScheduledLedger(ctx context.Context, id uuid.UUID, closedAt int64) (*domain.Ledger, error)
}

type ScheduledLedgerRepository interface {
	Insert(ctx context.Context, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error)
	// InsertWithLedger inserts the ledger and its scheduled ledger in one
	// database transaction. A conflict on either insert rolls both back, so
	// losing a creation race never leaves an orphaned OPEN ledger.
	InsertWithLedger(ctx context.Context, ledger *domain.Ledger, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error)
	// GetOpenForPeriod returns the open scheduled ledger whose period covers
	// routingKey for the given account and interval, or nil when none does.
	// If several overlap, the one with the greatest start time wins.
	GetOpenForPeriod(ctx context.Context, paymentAccountID string, routingKey time.Time, interval domain.ScheduledLedgerInterval) (*domain.ScheduledLedger, error)
	// GetOpenForAccount returns the earliest-starting open scheduled ledger
	// for the account regardless of period alignment, or nil.
	GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.ScheduledLedger, error)
	// ListDue returns open scheduled ledgers whose period ended at or before
	// the cutoff.
	ListDue(ctx context.Context, cutoff time.Time) ([]domain.ScheduledLedger, error)
}

type TransferRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TransferStatus) (*domain.Transfer, error)
	// CreateAndAssignTransactions inserts the transfer and reassigns the given
	// unpaid transactions to it in one database transaction. It returns the
	// created transfer and the ids of the transactions actually reassigned,
	// which may be fewer than requested when some were claimed concurrently.
	CreateAndAssignTransactions(ctx context.Context, transfer *domain.Transfer, transactionIDs []int64) (*domain.Transfer, []int64, error)
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	// ListUnpaid returns the account's transactions with no transfer assigned,
	// created within [startTime, endTime). A nil startTime omits the lower
	// bound.
	ListUnpaid(ctx context.Context, paymentAccountID int64, startTime *time.Time, endTime time.Time) ([]domain.Transaction, error)
	// ListAccountIDsWithUnpaid returns the distinct payment account ids that
	// have at least one unpaid transaction before the cutoff.
	ListAccountIDsWithUnpaid(ctx context.Context, cutoff time.Time) ([]int64, error)
}

type PaymentAccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PaymentAccount, error)
	// ListBankUpdates returns the account's bank-information edits within
	// [startTime, endTime].
	ListBankUpdates(ctx context.Context, paymentAccountID int64, startTime, endTime time.Time) ([]domain.BankUpdateEvent, error)
}

type GatewaySubmissionRepository interface {
	Insert(ctx context.Context, sub *domain.GatewaySubmission) (*domain.GatewaySubmission, error)
	// GetLatestByTransfer returns the most recent submission for a transfer,
	// or nil when the transfer was never submitted.
	GetLatestByTransfer(ctx context.Context, transferID int64) (*domain.GatewaySubmission, error)
}
