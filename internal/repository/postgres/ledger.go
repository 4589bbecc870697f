package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

const ledgerColumns = `id, type, currency, state, balance, payment_account_id, created_at, updated_at`

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Insert(ctx context.Context, ledger *domain.Ledger) (*domain.Ledger, error) {
	query := `INSERT INTO mx_ledgers (id, type, currency, state, balance, payment_account_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING created_at, updated_at`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		ledger.ID, ledger.Type, ledger.Currency, ledger.State, ledger.Balance, ledger.PaymentAccountID, now,
	).Scan(&ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return ledger, nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM mx_ledgers WHERE id = $1`
	ledger, err := scanLedger(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ledger, err
}

func (r *ledgerRepository) GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.Ledger, error) {
	// At most one OPEN ledger should exist per account; the ordering is
	// defensive against duplicates.
	query := `SELECT ` + ledgerColumns + ` FROM mx_ledgers
	          WHERE payment_account_id = $1 AND state = $2 ORDER BY created_at DESC LIMIT 1`
	ledger, err := scanLedger(r.db.QueryRowContext(ctx, query, paymentAccountID, domain.LedgerStateOpen))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ledger, err
}

func (r *ledgerRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) (*domain.Ledger, error) {
	query := `UPDATE mx_ledgers SET balance = $1, updated_at = $2 WHERE id = $3 RETURNING ` + ledgerColumns
	ledger, err := scanLedger(r.db.QueryRowContext(ctx, query, balance, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ledger, err
}

func (r *ledgerRepository) ProcessAndCloseScheduledLedger(ctx context.Context, id uuid.UUID, closedAt int64) (*domain.Ledger, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := `UPDATE mx_ledgers SET state = $1, updated_at = $2 WHERE id = $3 RETURNING ` + ledgerColumns
	ledger, err := scanLedger(tx.QueryRowContext(ctx, query, domain.LedgerStateProcessing, now, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Close the scheduled period only if it is still open; a reprocessed
	// ledger leaves an already-closed period untouched.
	_, err = tx.ExecContext(ctx,
		`UPDATE mx_scheduled_ledgers SET closed_at = $1, updated_at = $2 WHERE ledger_id = $3 AND closed_at = 0`,
		closedAt, now, id,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ledger, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedger(row rowScanner) (*domain.Ledger, error) {
	var ledger domain.Ledger
	err := row.Scan(
		&ledger.ID, &ledger.Type, &ledger.Currency, &ledger.State,
		&ledger.Balance, &ledger.PaymentAccountID, &ledger.CreatedAt, &ledger.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}
