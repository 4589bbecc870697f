package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"payout-ledger-backend/internal/domain"
	"payout-ledger-backend/internal/repository"
)

const transferColumns = `id, payment_account_id, subtotal, amount, currency, status, method, adjustments, created_at, updated_at`

type transferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return transfer, err
}

func (r *transferRepository) UpdateStatus(ctx context.Context, id int64, status domain.TransferStatus) (*domain.Transfer, error) {
	query := `UPDATE transfers SET status = $1, updated_at = $2 WHERE id = $3 RETURNING ` + transferColumns
	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, status, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return transfer, err
}

func (r *transferRepository) CreateAndAssignTransactions(ctx context.Context, transfer *domain.Transfer, transactionIDs []int64) (*domain.Transfer, []int64, error) {
	adjustments, err := marshalAdjustments(transfer.Adjustments)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := `INSERT INTO transfers (payment_account_id, subtotal, amount, currency, status, method, adjustments, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		transfer.PaymentAccountID, transfer.Subtotal, transfer.Amount, transfer.Currency,
		transfer.Status, transfer.Method, adjustments, now,
	).Scan(&transfer.ID, &transfer.CreatedAt, &transfer.UpdatedAt)
	if err != nil {
		return nil, nil, mapError(err)
	}

	// Only transactions still unpaid are reassigned; the returned ids tell
	// the caller which ones the transfer actually owns.
	rows, err := tx.QueryContext(ctx,
		`UPDATE transactions SET transfer_id = $1, updated_at = $2 WHERE id = ANY($3) AND transfer_id IS NULL RETURNING id`,
		transfer.ID, now, pq.Array(transactionIDs),
	)
	if err != nil {
		return nil, nil, err
	}
	var updatedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, err
		}
		updatedIDs = append(updatedIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return transfer, updatedIDs, nil
}

func marshalAdjustments(adjustments map[string]int64) ([]byte, error) {
	if adjustments == nil {
		adjustments = map[string]int64{}
	}
	return json.Marshal(adjustments)
}

func scanTransfer(row rowScanner) (*domain.Transfer, error) {
	var transfer domain.Transfer
	var adjustments []byte
	err := row.Scan(
		&transfer.ID, &transfer.PaymentAccountID, &transfer.Subtotal, &transfer.Amount,
		&transfer.Currency, &transfer.Status, &transfer.Method, &adjustments,
		&transfer.CreatedAt, &transfer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(adjustments) > 0 {
		if err := json.Unmarshal(adjustments, &transfer.Adjustments); err != nil {
			return nil, err
		}
	}
	if transfer.Adjustments == nil {
		transfer.Adjustments = map[string]int64{}
	}
	return &transfer, nil
}
