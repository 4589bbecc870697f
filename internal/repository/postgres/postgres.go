package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.LedgerRepository
	repository.ScheduledLedgerRepository
	repository.TransferRepository
	repository.TransactionRepository
	repository.PaymentAccountRepository
	repository.GatewaySubmissionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                          db,
		LedgerRepository:            NewLedgerRepository(db),
		ScheduledLedgerRepository:   NewScheduledLedgerRepository(db),
		TransferRepository:          NewTransferRepository(db),
		TransactionRepository:       NewTransactionRepository(db),
		PaymentAccountRepository:    NewPaymentAccountRepository(db),
		GatewaySubmissionRepository: NewGatewaySubmissionRepository(db),
	}
}

// mapError translates driver-level constraint violations into domain errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
	}
	return err
}
