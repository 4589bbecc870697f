package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

type paymentAccountRepository struct {
	db *sql.DB
}

func NewPaymentAccountRepository(db *sql.DB) repository.PaymentAccountRepository {
	return &paymentAccountRepository{db: db}
}

func (r *paymentAccountRepository) GetByID(ctx context.Context, id int64) (*domain.PaymentAccount, error) {
	query := `SELECT id, gateway_account, country, entity, payout_disabled, created_at
	          FROM payment_accounts WHERE id = $1`
	var account domain.PaymentAccount
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.GatewayAccount, &account.Country, &account.Entity,
		&account.PayoutDisabled, &account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *paymentAccountRepository) ListBankUpdates(ctx context.Context, paymentAccountID int64, startTime, endTime time.Time) ([]domain.BankUpdateEvent, error) {
	query := `SELECT id, payment_account_id, field, created_at FROM payment_account_edit_history
	          WHERE payment_account_id = $1 AND created_at >= $2 AND created_at <= $3
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, paymentAccountID, startTime, endTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.BankUpdateEvent
	for rows.Next() {
		var event domain.BankUpdateEvent
		if err := rows.Scan(&event.ID, &event.PaymentAccountID, &event.Field, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
