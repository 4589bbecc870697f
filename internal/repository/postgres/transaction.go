package postgres

import (
	"context"
	"database/sql"
	"time"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

const transactionColumns = `id, payment_account_id, amount, transfer_id, created_at, updated_at`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Insert(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	query := `INSERT INTO transactions (payment_account_id, amount, transfer_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id, created_at, updated_at`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		txn.PaymentAccountID, txn.Amount, txn.TransferID, now,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return txn, nil
}

func (r *transactionRepository) ListUnpaid(ctx context.Context, paymentAccountID int64, startTime *time.Time, endTime time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE payment_account_id = $1 AND transfer_id IS NULL AND created_at < $2`
	args := []any{paymentAccountID, endTime}
	if startTime != nil {
		query += ` AND created_at >= $3`
		args = append(args, *startTime)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(&txn.ID, &txn.PaymentAccountID, &txn.Amount, &txn.TransferID, &txn.CreatedAt, &txn.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *transactionRepository) ListAccountIDsWithUnpaid(ctx context.Context, cutoff time.Time) ([]int64, error) {
	query := `SELECT DISTINCT payment_account_id FROM transactions
	          WHERE transfer_id IS NULL AND created_at < $1`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
