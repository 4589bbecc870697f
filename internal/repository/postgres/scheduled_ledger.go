package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

const scheduledLedgerColumns = `id, payment_account_id, ledger_id, interval_type, start_time, end_time, closed_at, created_at, updated_at`

type scheduledLedgerRepository struct {
	db *sql.DB
}

func NewScheduledLedgerRepository(db *sql.DB) repository.ScheduledLedgerRepository {
	return &scheduledLedgerRepository{db: db}
}

func (r *scheduledLedgerRepository) Insert(ctx context.Context, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error) {
	query := `INSERT INTO mx_scheduled_ledgers (id, payment_account_id, ledger_id, interval_type, start_time, end_time, closed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING created_at, updated_at`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		scheduled.ID, scheduled.PaymentAccountID, scheduled.LedgerID, scheduled.IntervalType,
		scheduled.StartTime, scheduled.EndTime, scheduled.ClosedAt, now,
	).Scan(&scheduled.CreatedAt, &scheduled.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return scheduled, nil
}

func (r *scheduledLedgerRepository) InsertWithLedger(ctx context.Context, ledger *domain.Ledger, scheduled *domain.ScheduledLedger) (*domain.ScheduledLedger, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	ledgerQuery := `INSERT INTO mx_ledgers (id, type, currency, state, balance, payment_account_id, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, ledgerQuery,
		ledger.ID, ledger.Type, ledger.Currency, ledger.State, ledger.Balance, ledger.PaymentAccountID, now,
	).Scan(&ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	scheduledQuery := `INSERT INTO mx_scheduled_ledgers (id, payment_account_id, ledger_id, interval_type, start_time, end_time, closed_at, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, scheduledQuery,
		scheduled.ID, scheduled.PaymentAccountID, scheduled.LedgerID, scheduled.IntervalType,
		scheduled.StartTime, scheduled.EndTime, scheduled.ClosedAt, now,
	).Scan(&scheduled.CreatedAt, &scheduled.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return scheduled, nil
}

func (r *scheduledLedgerRepository) GetOpenForPeriod(ctx context.Context, paymentAccountID string, routingKey time.Time, interval domain.ScheduledLedgerInterval) (*domain.ScheduledLedger, error) {
	// Overlapping open periods are a data anomaly; the latest start time wins.
	query := `SELECT ` + scheduledLedgerColumns + ` FROM mx_scheduled_ledgers
	          WHERE payment_account_id = $1 AND interval_type = $2 AND closed_at = 0
	            AND start_time <= $3 AND end_time > $3
	          ORDER BY start_time DESC LIMIT 1`
	scheduled, err := scanScheduledLedger(r.db.QueryRowContext(ctx, query, paymentAccountID, interval, routingKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return scheduled, err
}

func (r *scheduledLedgerRepository) GetOpenForAccount(ctx context.Context, paymentAccountID string) (*domain.ScheduledLedger, error) {
	query := `SELECT ` + scheduledLedgerColumns + ` FROM mx_scheduled_ledgers
	          WHERE payment_account_id = $1 AND closed_at = 0
	          ORDER BY start_time ASC LIMIT 1`
	scheduled, err := scanScheduledLedger(r.db.QueryRowContext(ctx, query, paymentAccountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return scheduled, err
}

func (r *scheduledLedgerRepository) ListDue(ctx context.Context, cutoff time.Time) ([]domain.ScheduledLedger, error) {
	query := `SELECT ` + scheduledLedgerColumns + ` FROM mx_scheduled_ledgers
	          WHERE closed_at = 0 AND end_time <= $1
	          ORDER BY end_time ASC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []domain.ScheduledLedger
	for rows.Next() {
		scheduled, err := scanScheduledLedger(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, *scheduled)
	}
	return due, rows.Err()
}

func scanScheduledLedger(row rowScanner) (*domain.ScheduledLedger, error) {
	var scheduled domain.ScheduledLedger
	err := row.Scan(
		&scheduled.ID, &scheduled.PaymentAccountID, &scheduled.LedgerID, &scheduled.IntervalType,
		&scheduled.StartTime, &scheduled.EndTime, &scheduled.ClosedAt, &scheduled.CreatedAt, &scheduled.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &scheduled, nil
}
